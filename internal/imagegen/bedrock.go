package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/goccy/go-json"
	"github.com/polyphrases/polyphrases/internal/config"
)

// titanMaxPrompt is the Titan image model's prompt length limit
const titanMaxPrompt = 512

type bedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator calls an Amazon Titan image model through Bedrock
type BedrockGenerator struct {
	client  bedrockAPI
	modelID string
	width   int
	height  int
}

type titanRequest struct {
	TaskType          string            `json:"taskType"`
	TextToImageParams titanTextParams   `json:"textToImageParams"`
	Config            titanImageSetting `json:"imageGenerationConfig"`
}

type titanTextParams struct {
	Text string `json:"text"`
}

type titanImageSetting struct {
	NumberOfImages int     `json:"numberOfImages"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CfgScale       float64 `json:"cfgScale"`
}

type titanResponse struct {
	Images []string `json:"images"`
	Error  *string  `json:"error"`
}

// NewBedrockGenerator creates a Bedrock image generator
func NewBedrockGenerator(awsCfg aws.Config, cfg config.BedrockConfig) *BedrockGenerator {
	return &BedrockGenerator{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// Generate requests a single image for prompt
func (g *BedrockGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	if r := []rune(prompt); len(r) > titanMaxPrompt {
		prompt = string(r[:titanMaxPrompt])
	}

	requestBody, err := json.Marshal(titanRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: titanTextParams{Text: prompt},
		Config: titanImageSetting{
			NumberOfImages: 1,
			Width:          g.width,
			Height:         g.height,
			CfgScale:       8.0,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock API error: %w", err)
	}

	var response titanResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Error != nil && *response.Error != "" {
		return nil, fmt.Errorf("bedrock image error: %s", *response.Error)
	}
	if len(response.Images) == 0 {
		return nil, ErrNoImage
	}

	data, err := base64.StdEncoding.DecodeString(response.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Image{Data: data}, nil
}
