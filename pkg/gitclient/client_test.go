package gitclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestClientTreeParsesEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/team-rocket/thesis/tree", r.URL.Path)
		require.Equal(t, "main", r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entries":[
			{"path":"src/main.go","name":"main.go","type":"file","size":420},
			{"path":"src","name":"src","type":"directory"}
		]}`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	entries, err := client.Tree(context.Background(), "team-rocket", "thesis", "main", "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "main.go", entries[0].Name)
	require.Equal(t, int64(420), entries[0].Size)
	require.Equal(t, "directory", entries[1].Type)
}

func TestClientCommitsReturnsTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":42,"items":[{"sha":"abc123","message":"init","author":"alice","timestamp":"2026-01-10T12:00:00Z"}]}`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	commits, total, err := client.Commits(context.Background(), "team-rocket", "thesis", "main", 20, 0)
	require.NoError(t, err)
	require.Equal(t, int64(42), total)
	require.Len(t, commits, 1)
	require.Equal(t, "abc123", commits[0].SHA)
}

func TestClientMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unknown repository"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Stats(context.Background(), "nope", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{}, zerolog.Nop())
	require.Error(t, err)
}
