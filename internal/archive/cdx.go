// Package archive lists and addresses Wayback Machine snapshots of a page.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/wom/internal/fetch"
	"github.com/law-makers/wom/pkg/models"
)

// Defaults for the public Wayback Machine
const (
	DefaultEndpoint       = "https://web.archive.org/cdx/search/cdx"
	DefaultBase           = "https://web.archive.org/web"
	DefaultCollapseDigits = 8 // YYYYMMDD, one snapshot per day
	DefaultYearsBack      = 2
	DefaultTimeout        = 20 * time.Second

	// overFetch leaves room for rows dropped after the query
	overFetch = 4
)

// IndexerOptions configures an Indexer
type IndexerOptions struct {
	Endpoint       string
	UserAgent      string
	Timeout        time.Duration
	CollapseDigits int
	Now            func() time.Time
}

// Indexer queries a CDX index for snapshots of a URL
type Indexer struct {
	client *http.Client
	opts   IndexerOptions
}

// NewIndexer creates an Indexer; zero options fall back to the defaults
func NewIndexer(client *http.Client, opts IndexerOptions) *Indexer {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CollapseDigits <= 0 {
		opts.CollapseDigits = DefaultCollapseDigits
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Indexer{client: client, opts: opts}
}

// QueryURL builds the CDX request for target
func (ix *Indexer) QueryURL(target string, limit, yearsBack int) string {
	year := ix.opts.Now().UTC().Year()
	q := url.Values{}
	q.Set("url", target)
	q.Set("output", "json")
	q.Add("filter", "statuscode:200")
	q.Set("limit", strconv.Itoa(max(1, limit*overFetch)))
	q.Set("collapse", "timestamp:"+strconv.Itoa(ix.opts.CollapseDigits))
	q.Set("from", strconv.Itoa(year-yearsBack))
	q.Set("to", strconv.Itoa(year))
	return ix.opts.Endpoint + "?" + q.Encode()
}

// List returns up to limit snapshots of target from the last yearsBack
// years, newest first, at most one per collapse window
func (ix *Indexer) List(ctx context.Context, target string, limit, yearsBack int) ([]models.Snapshot, error) {
	if limit <= 0 {
		return []models.Snapshot{}, nil
	}

	query := ix.QueryURL(target, limit, yearsBack)
	body, err := ix.get(ctx, query)
	if err != nil {
		return nil, err
	}

	rows := ParseTable(body)
	snaps := Select(rows, ix.opts.CollapseDigits, limit)

	log.Debug().
		Str("url", target).
		Int("rows", len(rows)).
		Int("selected", len(snaps)).
		Msg("Listed snapshots")

	return snaps, nil
}

func (ix *Indexer) get(ctx context.Context, query string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, ix.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, fetch.NewFetchError(fetch.CodeIndexQuery, query, "failed to create request", err)
	}
	if ix.opts.UserAgent != "" {
		req.Header.Set("User-Agent", ix.opts.UserAgent)
	}

	resp, err := ix.client.Do(req)
	if err != nil {
		return nil, fetch.NewFetchError(fetch.CodeIndexQuery, query, "index request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fetch.NewFetchError(fetch.CodeIndexQuery, query,
			fmt.Sprintf("index returned %s", resp.Status), nil).WithStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fetch.NewFetchError(fetch.CodeIndexQuery, query, "failed to read index response", err)
	}
	return body, nil
}

// ParseTable reads a CDX response in either of its two shapes: a JSON array
// of string arrays, or whitespace separated text lines. In both the first row
// names the columns. Short rows are padded with empty values.
func ParseTable(body []byte) []models.Snapshot {
	var table [][]string
	if err := json.Unmarshal(body, &table); err != nil {
		log.Debug().Err(err).Msg("Index response is not JSON, reading as text")
		table = textTable(string(body))
	}

	if len(table) < 2 {
		return []models.Snapshot{}
	}

	headers := table[0]
	snaps := make([]models.Snapshot, 0, len(table)-1)
	for _, row := range table[1:] {
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				fields[h] = row[i]
			} else {
				fields[h] = ""
			}
		}
		snaps = append(snaps, models.Snapshot{
			Timestamp: fields["timestamp"],
			Original:  fields["original"],
			Fields:    fields,
		})
	}
	return snaps
}

func textTable(body string) [][]string {
	var table [][]string
	for _, line := range strings.Split(body, "\n") {
		cols := strings.Fields(line)
		if len(cols) == 0 {
			continue
		}
		table = append(table, cols)
	}
	return table
}

// Select collapses snaps to the first row per timestamp window of the given
// number of leading digits, sorts newest first and keeps limit rows
func Select(snaps []models.Snapshot, digits, limit int) []models.Snapshot {
	out := Collapse(snaps, digits)
	SortNewestFirst(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Collapse keeps the first snapshot seen for each timestamp prefix
func Collapse(snaps []models.Snapshot, digits int) []models.Snapshot {
	out := make([]models.Snapshot, 0, len(snaps))
	if digits <= 0 {
		return append(out, snaps...)
	}

	seen := make(map[string]bool, len(snaps))
	for _, s := range snaps {
		key := s.Timestamp
		if len(key) > digits {
			key = key[:digits]
		}
		if key == "" {
			out = append(out, s)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// SortNewestFirst orders by timestamp string, descending. CDX timestamps are
// fixed width so string order is time order.
func SortNewestFirst(snaps []models.Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Timestamp > snaps[j].Timestamp
	})
}

// ArchivedURL addresses the raw archived copy of original at timestamp
func ArchivedURL(base, timestamp, original string) string {
	return strings.TrimRight(base, "/") + "/" + timestamp + "id_/" + original
}

// YearOf returns the year encoded in the first four digits of a timestamp
func YearOf(timestamp string) (int, bool) {
	if len(timestamp) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(timestamp[:4])
	if err != nil || strings.ContainsAny(timestamp[:4], "+-") {
		return 0, false
	}
	return year, true
}
