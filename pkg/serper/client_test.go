package serper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Success(t *testing.T) {
	t.Parallel()

	want := SearchResponse{
		Organic: []OrganicResult{
			{Title: "Acme Roofing | Toronto", Link: "https://acmeroofing.ca", Snippet: "Roofing services in the GTA", Position: 1},
			{Title: "Beta Roofing", Link: "https://betaroofing.com", Snippet: "Commercial roofing", Position: 2},
		},
		Credits: 1,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req searchRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "roofing companies toronto", req.Q)
		assert.Equal(t, "Toronto, Canada", req.Location)
		assert.Equal(t, 20, req.Num)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Search(context.Background(), "roofing companies toronto",
		WithLocation("Toronto, Canada"), WithNum(20))

	require.NoError(t, err)
	require.Len(t, got.Organic, 2)
	assert.Equal(t, "https://acmeroofing.ca", got.Organic[0].Link)
	assert.Equal(t, 1, got.Organic[0].Position)
	assert.Equal(t, 1, got.Credits)
}

func TestSearch_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSearch_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		// The body must survive retries intact.
		body, _ := io.ReadAll(r.Body)
		var req searchRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "plumbers austin", req.Q)

		json.NewEncoder(w).Encode(SearchResponse{
			Organic: []OrganicResult{{Title: "Austin Plumbing", Link: "https://austinplumbing.com", Position: 1}},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Search(context.Background(), "plumbers austin")

	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
	require.Len(t, got.Organic, 1)
}

func TestSearch_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Search(ctx, "anything")
	require.Error(t, err)
}

func TestSearch_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
