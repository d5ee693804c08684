// Package source acquires the raw scans that strips are cut from.
//
// The scans are listed in a published spreadsheet. [Client.FetchLinks]
// downloads it as CSV and returns the first column of every data row;
// [Client.Download] then fetches each link into a directory, skipping files
// that are already present so an interrupted fetch can simply be re-run.
//
// Transient failures (connection errors, 429 and 5xx responses) are retried
// with exponential backoff via [httputil.Retry]. Every request is reported
// to [observability.HTTP].
package source
