// Package newsapi queries the NewsAPI "everything" endpoint for articles the
// user can save to their feed.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2"
	PageSize       = 20
	Language       = "en"
	SortBy         = "relevancy"
)

// Candidate is a search result in the shape the save endpoint accepts.
type Candidate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	ImageURL    string `json:"image_url,omitempty"`
	Author      string `json:"author,omitempty"`
}

type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("newsapi returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("newsapi returned status %d", e.StatusCode)
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (article newsAPIArticle) candidate() Candidate {
	description := strings.TrimSpace(article.Description)
	if description == "" {
		description = strings.TrimSpace(article.Content)
	}
	return Candidate{
		Title:       strings.TrimSpace(article.Title),
		Description: description,
		URL:         strings.TrimSpace(article.URL),
		Source:      strings.TrimSpace(article.Source.Name),
		PublishedAt: strings.TrimSpace(article.PublishedAt),
		ImageURL:    strings.TrimSpace(article.URLToImage),
		Author:      strings.TrimSpace(article.Author),
	}
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search returns up to PageSize English articles matching query, most
// relevant first. A blank query returns no results without calling the API.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Candidate{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything", nil)
	if err != nil {
		return nil, err
	}

	params := req.URL.Query()
	params.Set("q", query)
	params.Set("language", Language)
	params.Set("sortBy", SortBy)
	params.Set("pageSize", strconv.Itoa(PageSize))
	req.URL.RawQuery = params.Encode()
	req.Header.Set("X-Api-Key", c.apiKey)

	response, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var payload newsAPIResponse
	decodeErr := json.NewDecoder(response.Body).Decode(&payload)

	if response.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: response.StatusCode, Code: payload.Code, Message: payload.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", decodeErr)
	}
	if payload.Status != "ok" {
		return nil, &APIError{StatusCode: response.StatusCode, Code: payload.Code, Message: payload.Message}
	}

	candidates := make([]Candidate, 0, len(payload.Articles))
	for _, article := range payload.Articles {
		candidate := article.candidate()
		// NewsAPI marks withdrawn articles this way.
		if candidate.URL == "" || candidate.Title == "" || candidate.Title == "[Removed]" {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// IsAuthError reports whether err came from a rejected API key.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
