package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/goccy/go-json"
	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIGenerator(config.OpenAIConfig{
		APIKey:  "sk-test",
		Model:   "dall-e-3",
		Size:    "1024x1024",
		BaseURL: srv.URL + "/",
	})
}

func TestOpenAIGenerator_URL(t *testing.T) {
	g := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIImageRequest
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "Where is the station?", req.Prompt)
		assert.Equal(t, 1, req.N)
		assert.Equal(t, "dall-e-3", req.Model)

		_, _ = w.Write([]byte(`{"data":[{"url":"https://img.example/1.png"}]}`))
	})

	img, err := g.Generate(context.Background(), "Where is the station?")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", img.URL)
	assert.Nil(t, img.Data)
}

func TestOpenAIGenerator_Base64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	g := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"` + payload + `"}]}`))
	})

	img, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), img.Data)
}

func TestOpenAIGenerator_APIError(t *testing.T) {
	g := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"content policy violation","type":"invalid_request_error"}}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content policy violation")
}

func TestOpenAIGenerator_Empty(t *testing.T) {
	g := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNoImage)
}

type fakeBedrock struct {
	input  *bedrockruntime.InvokeModelInput
	output []byte
	err    error
}

func (f *fakeBedrock) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.output}, nil
}

func TestBedrockGenerator_Generate(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("titan-bytes"))
	fake := &fakeBedrock{output: []byte(`{"images":["` + payload + `"],"error":null}`)}
	g := &BedrockGenerator{client: fake, modelID: "amazon.titan-image-generator-v1", width: 512, height: 512}

	img, err := g.Generate(context.Background(), strings.Repeat("a", 600))
	require.NoError(t, err)
	assert.Equal(t, []byte("titan-bytes"), img.Data)

	require.NotNil(t, fake.input)
	assert.Equal(t, "amazon.titan-image-generator-v1", aws.ToString(fake.input.ModelId))

	var req titanRequest
	require.NoError(t, json.Unmarshal(fake.input.Body, &req))
	assert.Equal(t, "TEXT_IMAGE", req.TaskType)
	assert.Len(t, req.TextToImageParams.Text, titanMaxPrompt)
	assert.Equal(t, 512, req.Config.Width)
}

func TestBedrockGenerator_Errors(t *testing.T) {
	g := &BedrockGenerator{client: &fakeBedrock{err: errors.New("throttled")}}
	_, err := g.Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "throttled")

	g = &BedrockGenerator{client: &fakeBedrock{output: []byte(`{"images":[],"error":"blocked"}`)}}
	_, err = g.Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "blocked")

	g = &BedrockGenerator{client: &fakeBedrock{output: []byte(`{"images":[]}`)}}
	_, err = g.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNoImage)
}
