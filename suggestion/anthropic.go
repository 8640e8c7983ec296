// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package suggestion

import (
	"context"
	"net/http"
	"strings"

	anthropicSDK "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const anthropicDefaultMaxTokens = 1024

// AnthropicConfig configures the Anthropic-backed language model.
type AnthropicConfig struct {
	APIKey           string `json:"apiKey"`
	DefaultModel     string `json:"defaultModel"`
	OutputTokenLimit int    `json:"outputTokenLimit"`
}

// Anthropic implements LanguageModel on the Anthropic messages API.
type Anthropic struct {
	client anthropicSDK.Client
	config AnthropicConfig
}

// NewAnthropic creates an Anthropic client.
func NewAnthropic(config AnthropicConfig, httpClient *http.Client) *Anthropic {
	client := anthropicSDK.NewClient(
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(httpClient),
	)

	return &Anthropic{
		client: client,
		config: config,
	}
}

// Complete performs a non-streaming messages call.
func (a *Anthropic) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.config.OutputTokenLimit
	}
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropicSDK.MessageNewParams{
		Model:     anthropicSDK.Model(a.config.DefaultModel),
		MaxTokens: int64(maxTokens),
		Messages: []anthropicSDK.MessageParam{
			anthropicSDK.NewUserMessage(anthropicSDK.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropicSDK.TextBlockParam{{Text: req.System}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "anthropic completion failed")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic returned no text content")
	}
	return sb.String(), nil
}
