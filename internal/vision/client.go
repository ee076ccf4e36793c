package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// inspectorPrompt pins the summarizer to damage notes only: no specs, no
// scores, no auction info, output translated to English bullet points.
const inspectorPrompt = "You are a professional JDM auction inspector. " +
	"Analyze the Japanese inspection report image. Extract ONLY the damage notes. " +
	"Translate to clear, professional English. List each issue as a bullet point. " +
	"Ignore specs, scores, or auction info."

const userQuestion = "What damage is shown in this inspection report?"

// Client talks to any OpenAI-compatible chat-completions endpoint that
// accepts image content parts.
type Client struct {
	ApiURL     string
	ApiKey     string
	Model      string
	MaxTokens  int
	HttpClient *http.Client
}

// NewClient creates a new client instance.
func NewClient(apiURL, apiKey, model string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &Client{
		ApiURL:    apiURL,
		ApiKey:    apiKey,
		Model:     model,
		MaxTokens: maxTokens,
		HttpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type (
	apiRequest struct {
		Model     string    `json:"model"`
		Messages  []message `json:"messages"`
		MaxTokens int       `json:"max_tokens"`
	}
	message struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}
	contentPart struct {
		Type     string    `json:"type"`
		Text     string    `json:"text,omitempty"`
		ImageURL *imageRef `json:"image_url,omitempty"`
	}
	imageRef struct {
		URL string `json:"url"`
	}
	apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
)

// SummarizeDamage sends the image to the vision model and returns the
// extracted damage notes.
func (c *Client) SummarizeDamage(ctx context.Context, imageURL string) (string, error) {
	reqBody, err := json.Marshal(apiRequest{
		Model: c.Model,
		Messages: []message{
			{Role: "system", Content: inspectorPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userQuestion},
				{Type: "image_url", ImageURL: &imageRef{URL: imageURL}},
			}},
		},
		MaxTokens: c.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.ApiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("api returned no choices")
	}
	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
