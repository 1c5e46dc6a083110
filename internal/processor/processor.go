package processor

// 采集结果的通用清洗步骤：过滤、相邻去重、截断。
// 各步骤的先后顺序由调用方决定，不同数据源的顺序不同。

// Filter keeps the items for which keep returns true, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// DedupAdjacent collapses runs of consecutive equal items into one. Equal
// items separated by a different item are all kept.
func DedupAdjacent[T any](items []T, equal func(a, b T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if n := len(out); n > 0 && equal(out[n-1], it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Truncate returns at most limit leading items. A non-positive limit yields
// an empty slice.
func Truncate[T any](items []T, limit int) []T {
	if limit <= 0 {
		return items[:0]
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
