package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/newsroom-dev/newsroom/internal/api"
	"github.com/newsroom-dev/newsroom/internal/collector"
	"github.com/newsroom-dev/newsroom/internal/config"
	"github.com/newsroom-dev/newsroom/internal/log"
	"github.com/newsroom-dev/newsroom/internal/storage"
)

// HTTP 入口：每次请求实时抓取，可选 Redis 短缓存
func main() {
	cfg := config.Load()

	store := storage.NewStore(cfg.RedisAddr, cfg.CacheTTL)
	defer store.Close()

	extractor := collector.NewExtractor(
		collector.WithTimeout(cfg.HTTPTimeout),
		collector.WithUserAgent(cfg.UserAgent),
	)
	fetcher := &storage.CachingFetcher{Next: extractor, Store: store}

	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(api.BasicAuth(api.AuthConfig{
			User:  cfg.BasicAuthUser,
			Pass:  cfg.BasicAuthPass,
			Realm: cfg.BasicAuthRealm,
		}))
	}

	api.NewServer(fetcher, cfg.MaxPage).RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Info("starting api server", "addr", addr, "cache", cfg.RedisAddr != "")
	if err := r.Run(addr); err != nil {
		log.Error("server exit", "error", err)
		store.Close()
		os.Exit(1)
	}
}
