package newsapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"status": "ok",
	"totalResults": 3,
	"articles": [
		{
			"source": {"id": "bbc-news", "name": "BBC News"},
			"author": "Jane Doe",
			"title": "Election Results",
			"description": "Turnout hit a record high.",
			"url": "https://www.bbc.co.uk/news/election-results-123",
			"urlToImage": "https://img.example.com/1.jpg",
			"publishedAt": "2024-11-06T08:30:00Z",
			"content": "Full text"
		},
		{
			"source": {"id": null, "name": "Example"},
			"title": "No description",
			"description": null,
			"url": "https://example.com/story",
			"publishedAt": "2024-11-05T10:00:00Z",
			"content": "Content used instead"
		},
		{
			"source": {"id": null, "name": "[Removed]"},
			"title": "[Removed]",
			"url": "https://removed.com"
		}
	]
}`

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "election", r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "relevancy", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	client := NewClient("key", server.URL+"/")
	candidates, err := client.Search(context.Background(), " election ")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, Candidate{
		Title:       "Election Results",
		Description: "Turnout hit a record high.",
		URL:         "https://www.bbc.co.uk/news/election-results-123",
		Source:      "BBC News",
		PublishedAt: "2024-11-06T08:30:00Z",
		ImageURL:    "https://img.example.com/1.jpg",
		Author:      "Jane Doe",
	}, candidates[0])
	assert.Equal(t, "Content used instead", candidates[1].Description)
}

func TestSearchBlankQuerySkipsAPI(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	candidates, err := NewClient("key", server.URL).Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.False(t, called)
}

func TestSearchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`)
	}))
	defer server.Close()

	_, err := NewClient("bad", server.URL).Search(context.Background(), "news")
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "apiKeyInvalid", apiErr.Code)

	okStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"error","code":"rateLimited","message":"slow down"}`)
	}))
	defer okStatus.Close()

	_, err = NewClient("key", okStatus.URL).Search(context.Background(), "news")
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
}
