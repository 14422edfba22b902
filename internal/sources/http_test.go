package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ukrlit/internal/config"
	"ukrlit/internal/sources"
)

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "ukrlit-test/1.0" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := sources.NewHTTPClient(sources.HTTPOptions{
		UserAgent: "ukrlit-test/1.0",
		Timeout:   5 * time.Second,
		Retries:   3,
		RetryWait: time.Millisecond,
	})
	res, err := client.R().SetContext(context.Background()).Get(server.URL)
	require.NoError(t, sources.CheckResponse("test", "get", res, err))
	require.Equal(t, "ok", string(res.Body()))
	require.EqualValues(t, 3, calls.Load())
}

func TestCheckResponseFlagsClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := sources.NewHTTPClient(sources.HTTPOptions{Retries: 2, RetryWait: time.Millisecond})
	res, err := client.R().Get(server.URL)
	err = sources.CheckResponse("test", "get", res, err)
	require.ErrorIs(t, err, sources.ErrUpstream)
}

func TestHTTPOptionsFromHarvest(t *testing.T) {
	h := config.Default().Harvest
	opts := sources.HTTPOptionsFrom(h, nil)
	require.Equal(t, 30*time.Second, opts.Timeout)
	require.Equal(t, 300*time.Millisecond, opts.PageDelay)
	require.Equal(t, h.UserAgent, opts.UserAgent)
}
