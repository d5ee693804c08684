// Package httputil provides HTTP utilities for acquiring source images.
//
// # Overview
//
//   - [Cache]: File-based caching of decoded responses (link lists)
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores JSON-encoded values in the filesystem (~/.cache/unshred/http/)
// with a configurable TTL. The link list that drives a download run is
// cached here so repeated runs do not hit the spreadsheet endpoint again.
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	links := cache.Namespace("links:")
//	var urls []string
//	if ok, _ := links.Get(sheetURL, &urls); !ok {
//	    urls = fetch()
//	    links.Set(sheetURL, urls)
//	}
//
// # Retry
//
// [Retry] re-runs an operation whose error is wrapped in [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Any other error is returned immediately. The delay doubles after every
// failed attempt.
//
// # Configuration
//
//   - Cache directory: ~/.cache/unshred/http/
//   - Max attempts: 3 ([RetryWithBackoff])
//   - Base backoff: 1 second
package httputil
