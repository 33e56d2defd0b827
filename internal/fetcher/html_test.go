package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ermoeini/google-serp-filtered-external-links/internal/fetcher"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/metadata"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/retry"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryParam(maxAttempts int) retry.Param {
	return retry.NewParam(0, 42, maxAttempts, timeutil.NewBackoffParam(
		time.Millisecond,
		2.0,
		time.Second,
	))
}

func serverURL(t *testing.T, server *httptest.Server) url.URL {
	t.Helper()
	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	return *parsed
}

func newFetcherForServer(server *httptest.Server) fetcher.HtmlFetcher {
	return fetcher.NewHtmlFetcherWithClient(&metadata.NoopSink{}, server.Client())
}

func TestFetch_SuccessReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	hf := newFetcherForServer(server)
	param := fetcher.NewFetchParam(serverURL(t, server), "test-agent/1.0")

	result, err := hf.Fetch(context.Background(), param, fastRetryParam(3))

	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, result.Code())
	assert.Contains(t, string(result.Body()), "hello")
	assert.Equal(t, uint64(len(result.Body())), result.SizeByte())
}

func TestFetch_SendsFixedUserAgentHeader(t *testing.T) {
	var receivedUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA.Store(r.Header.Get("User-Agent"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	hf := newFetcherForServer(server)
	param := fetcher.NewFetchParam(serverURL(t, server), "test-agent/1.0")

	_, err := hf.Fetch(context.Background(), param, fastRetryParam(1))

	require.Nil(t, err)
	assert.Equal(t, "test-agent/1.0", receivedUA.Load())
}

func TestFetch_RetriesServerErrorsThenSucceeds(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	hf := newFetcherForServer(server)
	param := fetcher.NewFetchParam(serverURL(t, server), "test-agent/1.0")

	result, err := hf.Fetch(context.Background(), param, fastRetryParam(3))

	require.Nil(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&hits))
	assert.Equal(t, "recovered", string(result.Body()))
}

func TestFetch_ExhaustsAttemptsOnPersistentServerError(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	hf := newFetcherForServer(server)
	param := fetcher.NewFetchParam(serverURL(t, server), "test-agent/1.0")

	_, err := hf.Fetch(context.Background(), param, fastRetryParam(3))

	require.NotNil(t, err)
	// Exactly maxAttempts total attempts
	assert.Equal(t, int64(3), atomic.LoadInt64(&hits))

	var retryErr *retry.RetryError
	require.True(t, errors.As(err, &retryErr))
	var fetchErr *fetcher.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, fetcher.FetchErrorCause(fetcher.ErrCauseRequest5xx), fetchErr.Cause)
}

func TestFetch_ClientErrorIsNotRetried(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	hf := newFetcherForServer(server)
	param := fetcher.NewFetchParam(serverURL(t, server), "test-agent/1.0")

	_, err := hf.Fetch(context.Background(), param, fastRetryParam(3))

	require.NotNil(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))

	var fetchErr *fetcher.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.False(t, fetchErr.IsRetryable())
}

func TestFetch_TooManyRequestsIsRetried(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	hf := newFetcherForServer(server)
	param := fetcher.NewFetchParam(serverURL(t, server), "test-agent/1.0")

	result, err := hf.Fetch(context.Background(), param, fastRetryParam(3))

	require.Nil(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
	assert.Equal(t, "ok", string(result.Body()))
}

func TestFetch_TransportErrorIsRetriedThenSurfaced(t *testing.T) {
	// A closed server yields connection errors on every attempt.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := serverURL(t, server)
	server.Close()

	hf := fetcher.NewHtmlFetcherWithClient(&metadata.NoopSink{}, &http.Client{})
	param := fetcher.NewFetchParam(target, "test-agent/1.0")

	_, err := hf.Fetch(context.Background(), param, fastRetryParam(2))

	require.NotNil(t, err)
	var retryErr *retry.RetryError
	require.True(t, errors.As(err, &retryErr))
}

func TestFetch_CancelledContextAbortsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	hf := newFetcherForServer(server)
	param := fetcher.NewFetchParam(serverURL(t, server), "test-agent/1.0")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	start := time.Now()
	_, err := hf.Fetch(ctx, param, fastRetryParam(3))

	require.NotNil(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
