// Package imagegen requests illustrations from generative image APIs.
package imagegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/polyphrases/polyphrases/internal/awsclient"
	"github.com/polyphrases/polyphrases/internal/config"
)

// ErrNoImage is returned when the API answers without an image
var ErrNoImage = errors.New("image API returned no image")

// Image is a generated illustration. Exactly one of URL or Data is set.
type Image struct {
	URL  string
	Data []byte
}

// Generator turns a text prompt into an image
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}

// New builds the configured generator
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Image.Provider {
	case "openai":
		return NewOpenAIGenerator(cfg.Image.OpenAI), nil
	case "bedrock":
		awsCfg, err := awsclient.Load(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		return NewBedrockGenerator(awsCfg, cfg.Image.Bedrock), nil
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.Image.Provider)
	}
}
