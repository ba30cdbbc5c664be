package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/wom/internal/retry"
)

func noWait(context.Context, time.Duration) error { return nil }

func testOptions(maxRetries int) Options {
	return Options{
		Timeout:        2 * time.Second,
		Retry:          retry.Config{MaxRetries: maxRetries, Step: time.Millisecond, Wait: noWait},
		UserAgent:      "TestAgent/1.0",
		AcceptLanguage: "zh-CN,zh;q=0.9,en;q=0.8",
	}
}

func TestFetch_SendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "zh-CN,zh;q=0.9,en;q=0.8", r.Header.Get("Accept-Language"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>一周口碑榜</html>"))
	}))
	defer server.Close()

	opts := testOptions(2)
	opts.Headers = map[string]string{"X-Extra": "yes"}
	body, err := New(server.Client(), opts).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html>一周口碑榜</html>", body)
}

func TestFetch_RetriesUntilOK(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	body, err := New(server.Client(), testOptions(2)).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetch_StopsAtFirstOK(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := New(server.Client(), testOptions(5)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_AllNon200(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := New(server.Client(), testOptions(2)).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, retry.ErrExhausted)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.Equal(t, server.URL, fe.URL)
}

// flakyTransport answers with a status for the first calls and then fails
type flakyTransport struct {
	statuses []int
	err      error
	calls    int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	defer func() { f.calls++ }()
	if f.calls < len(f.statuses) {
		rec := httptest.NewRecorder()
		rec.WriteHeader(f.statuses[f.calls])
		return rec.Result(), nil
	}
	return nil, f.err
}

func TestFetch_TransportErrorOnFinalAttempt(t *testing.T) {
	boom := errors.New("connection reset by peer")
	rt := &flakyTransport{statuses: []int{500, 502}, err: boom}
	client := &http.Client{Transport: rt}

	_, err := New(client, testOptions(2)).Fetch(context.Background(), "http://chart.test/page")

	require.Error(t, err)
	assert.Equal(t, 3, rt.calls)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, retry.ErrExhausted)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = New(&http.Client{}, testOptions(1)).Fetch(context.Background(), "http://"+addr+"/")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestFetch_DecodesDeclaredCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer server.Close()

	body, err := New(server.Client(), testOptions(0)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "café", body)
}

func TestFetchError(t *testing.T) {
	inner := errors.New("inner")
	err := NewFetchError(CodeIndexQuery, "http://x", "GET http://x", inner)

	assert.Equal(t, "INDEX_QUERY: GET http://x: inner", err.Error())
	assert.ErrorIs(t, err, ErrIndexQuery)
	assert.ErrorIs(t, err, inner)
	assert.NotErrorIs(t, err, ErrParse)

	bare := NewFetchError(CodeParse, "", "bad table", nil)
	assert.Equal(t, "PARSE: bad table", bare.Error())
}
