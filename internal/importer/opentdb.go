package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// OpenTDBQuestion is one result as returned by api.php. Text fields are HTML-encoded.
type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// FetchParams narrows an api.php request. Zero values leave the filter out.
type FetchParams struct {
	Amount     int
	Category   int
	Difficulty string
	Type       string
}

// OpenTDB response codes other than success.
const (
	responseNoResults     = 1
	responseInvalidParams = 2
)

func (c *OpenTDBClient) Fetch(ctx context.Context, p FetchParams) ([]OpenTDBQuestion, error) {
	values := url.Values{}
	values.Set("amount", fmt.Sprint(p.Amount))
	if p.Category > 0 {
		values.Set("category", fmt.Sprint(p.Category))
	}
	if p.Difficulty != "" {
		values.Set("difficulty", p.Difficulty)
	}
	if p.Type != "" {
		values.Set("type", p.Type)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}
	switch payload.ResponseCode {
	case 0:
		return payload.Results, nil
	case responseNoResults:
		// not enough questions for the filter; nothing to import
		return nil, nil
	case responseInvalidParams:
		return nil, fmt.Errorf("opentdb rejected parameters %s", values.Encode())
	default:
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}
}
