package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tweet-to-toot/internal/mediaprep"

	openai "github.com/sashabaranov/go-openai"
)

// maxImageBytes bounds what is sent inline to the model.
const maxImageBytes = 8 << 20

// Describer produces alt text for media attachments.
type Describer interface {
	// DescribeImage returns a one-sentence description of a still image in the given language.
	// Paths that are not still images yield an empty string.
	DescribeImage(ctx context.Context, path, language string) (string, error)
}

// OpenAIClient implements Describer using OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{client: c, model: model}, nil
}

func (o *OpenAIClient) DescribeImage(ctx context.Context, path, language string) (string, error) {
	if !mediaprep.IsImage(path) {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(raw) > maxImageBytes {
		slog.Info("openai: image too large to describe", "path", path, "bytes", len(raw))
		return "", nil
	}
	dataURI := "data:" + mimeType(path) + ";base64," + base64.StdEncoding.EncodeToString(raw)

	sys := fmt.Sprintf(`
		You write alt text for images in social media posts, in %s.
		Return exactly one plain sentence, at most 30 words.
		Describe what is visible; do not guess names, do not add hashtags or quotes.
		`, langOrDefault(language))
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sys},
			{Role: openai.ChatMessageRoleUser, MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: "Describe this image."},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURI, Detail: openai.ImageURLDetailLow}},
			}},
		},
		Temperature: 0.2,
		MaxTokens:   80,
	})
	if err != nil {
		slog.Error("openai: describe image error", "path", path, "err", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func mimeType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return "application/octet-stream"
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
