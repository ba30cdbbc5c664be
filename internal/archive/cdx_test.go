package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/wom/internal/fetch"
	"github.com/law-makers/wom/pkg/models"
)

const target = "https://movie.douban.com/chart?t=1477886984558"

func fixedNow() time.Time {
	return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
}

func timestamps(snaps []models.Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.Timestamp)
	}
	return out
}

func jsonTable(rows ...string) string {
	var sb strings.Builder
	sb.WriteString(`[["urlkey","timestamp","original","mimetype","statuscode","digest","length"]`)
	for _, ts := range rows {
		fmt.Fprintf(&sb, `,["com,douban,movie)/chart","%s","%s","text/html","200","D%s","1000"]`, ts, target, ts)
	}
	sb.WriteString("]")
	return sb.String()
}

func TestQueryURL(t *testing.T) {
	ix := NewIndexer(nil, IndexerOptions{Now: fixedNow})
	raw := ix.QueryURL(target, 3, 2)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "web.archive.org", u.Host)
	assert.Equal(t, "/cdx/search/cdx", u.Path)

	q := u.Query()
	assert.Equal(t, target, q.Get("url"))
	assert.Equal(t, "json", q.Get("output"))
	assert.Equal(t, "statuscode:200", q.Get("filter"))
	assert.Equal(t, "12", q.Get("limit"))
	assert.Equal(t, "timestamp:8", q.Get("collapse"))
	assert.Equal(t, "2023", q.Get("from"))
	assert.Equal(t, "2025", q.Get("to"))
}

func TestQueryURL_MinimumLimit(t *testing.T) {
	ix := NewIndexer(nil, IndexerOptions{Now: fixedNow})
	u, err := url.Parse(ix.QueryURL(target, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "1", u.Query().Get("limit"))
	assert.Equal(t, "2024", u.Query().Get("from"))
}

func TestParseTable_JSON(t *testing.T) {
	snaps := ParseTable([]byte(jsonTable("20240101120000", "20240105080000")))
	require.Len(t, snaps, 2)
	assert.Equal(t, "20240101120000", snaps[0].Timestamp)
	assert.Equal(t, target, snaps[0].Original)
	assert.Equal(t, "200", snaps[0].Field("statuscode"))
	assert.Equal(t, "D20240105080000", snaps[1].Field("digest"))
}

func TestParseTable_Text(t *testing.T) {
	body := "urlkey timestamp original statuscode\n" +
		"com,douban)/chart 20230301000000 " + target + " 200\n" +
		"\n" +
		"com,douban)/chart 20230302000000\n"
	snaps := ParseTable([]byte(body))

	require.Len(t, snaps, 2)
	assert.Equal(t, "20230301000000", snaps[0].Timestamp)
	assert.Equal(t, "200", snaps[0].Field("statuscode"))
	assert.Equal(t, "20230302000000", snaps[1].Timestamp)
	assert.Equal(t, "", snaps[1].Original)
	assert.Equal(t, "", snaps[1].Field("statuscode"))
}

func TestParseTable_Empty(t *testing.T) {
	assert.Empty(t, ParseTable([]byte(`[]`)))
	assert.Empty(t, ParseTable([]byte(`[["timestamp"]]`)))
	assert.Empty(t, ParseTable([]byte("")))
	assert.Empty(t, ParseTable([]byte("timestamp original\n")))
}

func TestSelect_CollapsesSortsAndTruncates(t *testing.T) {
	// Ten rows over four days, out of order.
	rows := ParseTable([]byte(jsonTable(
		"20240103090000", "20240101100000", "20240103230000", "20240102000000",
		"20240101110000", "20240104120000", "20240102120000", "20240104000100",
		"20240101000000", "20240103000000",
	)))
	require.Len(t, rows, 10)

	all := Select(rows, 8, 10)
	assert.Equal(t, []string{"20240104120000", "20240103090000", "20240102000000", "20240101100000"}, timestamps(all))

	top := Select(rows, 8, 2)
	assert.Equal(t, []string{"20240104120000", "20240103090000"}, timestamps(top))
}

func TestCollapse_KeepsRowsWithoutTimestamp(t *testing.T) {
	snaps := []models.Snapshot{{}, {Timestamp: "20240101"}, {}, {Timestamp: "20240101"}}
	assert.Len(t, Collapse(snaps, 8), 3)
	assert.Len(t, Collapse(snaps, 0), 4)
}

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, target, r.URL.Query().Get("url"))
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(jsonTable("20240101000000", "20240301000000", "20240201000000")))
	}))
	defer server.Close()

	ix := NewIndexer(server.Client(), IndexerOptions{
		Endpoint:  server.URL,
		UserAgent: "TestAgent/1.0",
		Now:       fixedNow,
	})
	snaps, err := ix.List(context.Background(), target, 2, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"20240301000000", "20240201000000"}, timestamps(snaps))
}

func TestList_ZeroLimitSkipsQuery(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	ix := NewIndexer(server.Client(), IndexerOptions{Endpoint: server.URL})
	snaps, err := ix.List(context.Background(), target, 0, 2)
	require.NoError(t, err)
	assert.Empty(t, snaps)
	assert.False(t, called)
}

func TestList_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ix := NewIndexer(server.Client(), IndexerOptions{Endpoint: server.URL})
	_, err := ix.List(context.Background(), target, 3, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, fetch.ErrIndexQuery)
	var fe *fetch.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}

func TestArchivedURL(t *testing.T) {
	assert.Equal(t,
		"https://web.archive.org/web/20240101000000id_/"+target,
		ArchivedURL(DefaultBase, "20240101000000", target))
	assert.Equal(t,
		"http://a/web/1id_/http://b",
		ArchivedURL("http://a/web/", "1", "http://b"))
}

func TestYearOf(t *testing.T) {
	year, ok := YearOf("20231105120000")
	assert.True(t, ok)
	assert.Equal(t, 2023, year)

	_, ok = YearOf("20x3")
	assert.False(t, ok)
	_, ok = YearOf("202")
	assert.False(t, ok)
	_, ok = YearOf("+202")
	assert.False(t, ok)
}
