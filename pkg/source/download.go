package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/httputil"
)

// Download fetches every link into dst, naming each file after the last
// segment of its URL path. Files that already exist are left alone, and a
// link whose name repeats an earlier one is treated as existing.
//
// total is len(links); fresh counts files written by this call. On error
// the files completed so far remain in place. A progress callback set with
// [WithProgress] sees each finished file.
func (c *Client) Download(ctx context.Context, links []string, dst string, concurrency int) (total, fresh int, err error) {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeIO, err, "create %s", dst)
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	targets := make([]string, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		name, err := FileName(link)
		if err != nil {
			return len(links), 0, err
		}
		if seen[name] {
			targets = append(targets, "")
			continue
		}
		seen[name] = true
		targets = append(targets, filepath.Join(dst, name))
	}

	pending := make([]int, 0, len(links))
	for i, target := range targets {
		if target == "" {
			continue
		}
		if _, err := os.Stat(target); err == nil {
			continue
		}
		pending = append(pending, i)
	}

	var written atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, i := range pending {
		link, target := links[i], targets[i]
		g.Go(func() error {
			if err := c.fetchFile(ctx, link, target); err != nil {
				return err
			}
			n := written.Add(1)
			if c.progress != nil {
				c.progress(int(n), len(pending))
			}
			return nil
		})
	}

	err = g.Wait()
	return len(links), int(written.Load()), err
}

// fetchFile writes the body at link to target via a temporary file in the
// same directory.
func (c *Client) fetchFile(ctx context.Context, link, target string) error {
	return c.retry(ctx, func() error {
		body, err := c.get(ctx, link)
		if err != nil {
			return err
		}
		defer body.Close()

		tmp, err := os.CreateTemp(filepath.Dir(target), ".download-*")
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create temp file")
		}
		defer os.Remove(tmp.Name())

		if _, err := io.Copy(tmp, body); err != nil {
			tmp.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", link))
		}
		if err := tmp.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", target)
		}
		if err := os.Rename(tmp.Name(), target); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "rename to %s", target)
		}
		return nil
	})
}

// FileName returns the last path segment of link.
func FileName(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "bad link %q", link)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == ".." {
		return "", errors.New(errors.ErrCodeInvalidInput, "link %q has no file name", link)
	}
	return name, nil
}
