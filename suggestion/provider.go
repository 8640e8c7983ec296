// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package suggestion proposes corrections via a generative-text service
// and validates them against an independent authority before they are
// trusted. Generative output is never merged unvalidated.
package suggestion

import "context"

// CompletionRequest is a single-prompt completion call.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// LanguageModel abstracts the generative-text backend.
type LanguageModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
