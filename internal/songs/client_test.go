package songs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmos/intakebot/internal/models"
)

func TestSearchMapsCatalogResults(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"resultCount":2,"results":[
			{"trackName":"Yesterday","artistName":"The Beatles","primaryGenreName":"Rock"},
			{"trackName":"Imagine","artistName":"John Lennon"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	results := client.Search(context.Background(), "beatles")

	require.Len(t, results, 2)
	assert.Equal(t, models.SongCandidate{Title: "Yesterday", Artist: "The Beatles", Genre: "Rock"}, results[0])
	assert.Equal(t, "Unknown", results[1].Genre, "missing genre should default")
	assert.Contains(t, gotQuery, "term=beatles")
	assert.Contains(t, gotQuery, "media=music")
	assert.Contains(t, gotQuery, "entity=song")
	assert.Contains(t, gotQuery, "limit=10")
}

func TestSearchShortQuerySkipsRequest(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	assert.Nil(t, client.Search(context.Background(), "ab"))
	assert.False(t, called, "short queries must not reach the catalog")
}

func TestSearchDegradesToEmptyOnFailure(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": not-json`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))
			results := client.Search(context.Background(), "beatles")
			require.NotNil(t, results)
			assert.Empty(t, results)
		})
	}
}

func TestSearchDegradesToEmptyOnNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(WithBaseURL(server.URL))
	results := client.Search(context.Background(), "beatles")
	require.NotNil(t, results)
	assert.Empty(t, results)
}
