package source

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/unshred/pkg/errors"
)

// FetchLinks downloads the CSV at url and returns the first column of every
// row after the header. Blank cells are skipped.
//
// Results are cached by url when the client has a cache; refresh bypasses
// the cached copy.
func (c *Client) FetchLinks(ctx context.Context, url string, refresh bool) ([]string, error) {
	var links []string
	if c.cache != nil && !refresh {
		if ok, _ := c.cache.Get(url, &links); ok {
			return links, nil
		}
	}

	err := c.retry(ctx, func() error {
		body, err := c.get(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()
		links, err = ParseLinks(body)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(url, links)
	}
	return links, nil
}

// ParseLinks reads a CSV document and returns the trimmed first field of
// every record except the first.
func ParseLinks(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var links []string
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDecode, err, "parse link list")
		}
		if row == 0 || len(rec) == 0 {
			continue
		}
		if link := strings.TrimSpace(rec[0]); link != "" {
			links = append(links, link)
		}
	}
	return links, nil
}
