package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"complyready-backend/shared/config"
)

// TextGenerator is the contract the assessment pipeline depends on. The
// output is free-form text: it may be fenced, and is not guaranteed to be
// valid JSON even when JSON was requested.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST API
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini client from configuration
func NewGeminiClient() *GeminiClient {
	cfg := config.GetConfig()
	return &GeminiClient{
		baseURL: cfg.GeminiAPIURL,
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.GetGeminiTimeoutSeconds()) * time.Second,
		},
	}
}

// Request/response structs for the generateContent endpoint
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateText sends one prompt to the model and returns the raw response
// text. No retries; the caller decides how a failure degrades.
func (gc *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	request := generateContentRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", gc.baseURL, gc.model, gc.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini error %d (%s): %s", result.Error.Code, result.Error.Status, result.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
