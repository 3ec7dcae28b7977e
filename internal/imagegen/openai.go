package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/polyphrases/polyphrases/internal/config"
)

// OpenAIGenerator calls the OpenAI images endpoint
type OpenAIGenerator struct {
	apiKey     string
	model      string
	size       string
	baseURL    string
	httpClient *http.Client
}

type openAIImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type openAIImageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIGenerator creates an OpenAI image generator
func NewOpenAIGenerator(cfg config.OpenAIConfig) *OpenAIGenerator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIGenerator{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		size:       cfg.Size,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate requests a single image for prompt
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	jsonBody, err := json.Marshal(openAIImageRequest{
		Model:  g.model,
		Prompt: prompt,
		N:      1,
		Size:   g.size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/images/generations", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call image API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image API response: %w", err)
	}

	var response openAIImageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w (status %d)", err, resp.StatusCode)
	}

	if response.Error != nil {
		return nil, fmt.Errorf("image API error: %s", response.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image API returned status %d", resp.StatusCode)
	}
	if len(response.Data) == 0 {
		return nil, ErrNoImage
	}

	first := response.Data[0]
	switch {
	case first.URL != "":
		return &Image{URL: first.URL}, nil
	case first.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return &Image{Data: data}, nil
	default:
		return nil, ErrNoImage
	}
}
