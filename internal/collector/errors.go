package collector

import "github.com/morikuni/failure/v2"

// ErrorCode classifies why a source could not be parsed or fetched.
type ErrorCode string

const (
	// ErrTransport covers connection errors, unreadable bodies and non-2xx statuses.
	ErrTransport ErrorCode = "TransportFailure"
	// ErrHTMLParse is returned when a page body cannot be read as HTML.
	ErrHTMLParse ErrorCode = "HTMLParseError"
	// ErrFeedParse is returned when a feed body is not a syndication document.
	ErrFeedParse ErrorCode = "FeedParseError"
	// ErrUnrecognizedSource is returned by ParseSource for unknown tokens.
	ErrUnrecognizedSource ErrorCode = "UnrecognizedSource"
	// ErrMissingTitle is returned when a feed that must always carry titles doesn't.
	ErrMissingTitle ErrorCode = "MissingTitle"
	ErrInvalidLimit ErrorCode = "InvalidLimit"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

var knownCodes = []ErrorCode{
	ErrTransport,
	ErrHTMLParse,
	ErrFeedParse,
	ErrUnrecognizedSource,
	ErrMissingTitle,
	ErrInvalidLimit,
}

// CodeOf returns the collector error code carried by err, or "" when err is
// nil or was not produced by this package.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, code := range knownCodes {
		if failure.Is(err, code) {
			return code
		}
	}
	return ""
}

// MessageOf returns the user facing message attached to err, falling back to
// err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if msg := failure.MessageOf(err); msg != "" {
		return msg.String()
	}
	return err.Error()
}
