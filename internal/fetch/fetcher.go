// Package fetch performs the HTTP GETs for live and archived chart pages.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/law-makers/wom/internal/retry"
)

// Options configures a Fetcher
type Options struct {
	Timeout        time.Duration // Per attempt
	Retry          retry.Config
	UserAgent      string
	AcceptLanguage string
	Headers        map[string]string
}

// Fetcher issues GET requests with the retry policy and returns decoded bodies
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher using client for transport
func New(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, opts: opts}
}

// Fetch returns the body of url as text.
//
// Non-200 responses and transport failures are retried. The returned error is
// a *FetchError: CodeTransport wrapping the most recent transport failure if
// there was one, CodeHTTPStatus otherwise.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	lastStatus := 0

	err := retry.Do(ctx, f.opts.Retry, func(attempt int) error {
		log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Fetching page")

		text, status, err := f.get(ctx, url)
		if status != 0 {
			lastStatus = status
		}
		if err != nil {
			return err
		}
		body = text
		return nil
	})
	if err == nil {
		return body, nil
	}

	if errors.Is(err, retry.ErrExhausted) {
		return "", NewFetchError(CodeHTTPStatus, url, fmt.Sprintf("GET %s", url), err).WithStatus(lastStatus)
	}
	return "", NewFetchError(CodeTransport, url, fmt.Sprintf("GET %s", url), err).WithStatus(lastStatus)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, int, error) {
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	if f.opts.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", f.opts.AcceptLanguage)
	}
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, retry.NewHTTPError(resp.StatusCode, resp.Status, "")
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to decode body: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read body: %w", err)
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("Fetch completed")

	return string(data), resp.StatusCode, nil
}
