// Package promptpack provides a top-level convenience entry point for
// assembling budget-bounded prompts with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/promptpack"
//
//	tok := tokenizer.GetTokenizerOrEstimator("gpt-4o")
//	session := promptpack.NewSession(model, tok)
//	_ = session.AddBlock(promptpack.Block{Name: "diff", Content: diff, Strategy: promptpack.SmartTruncateDiff})
//
//	gen := promptpack.NewGenerator(provider, generate.WithLogger(logger))
//	stream, err := gen.Generate(ctx, session, systemPrompt)
//
// This is a thin wrapper over the prompt and generate packages; both
// produce identical results. Use this package when you prefer the shorter
// import path.
package promptpack

import (
	"go.uber.org/zap"

	"github.com/BaSui01/promptpack/generate"
	"github.com/BaSui01/promptpack/llm"
	"github.com/BaSui01/promptpack/prompt"
	"github.com/BaSui01/promptpack/tokenizer"
	"github.com/BaSui01/promptpack/types"
)

// Block is one named, prioritized unit of candidate prompt content.
type Block = types.ContextBlock

// ModelInfo is the read-only model descriptor.
type ModelInfo = types.ModelInfo

// Truncation strategies, re-exported for callers of the short path.
const (
	TruncateTail      = types.TruncateTail
	TruncateHead      = types.TruncateHead
	SmartTruncateDiff = types.SmartTruncateDiff
)

// NewSession creates a single-request packing session with default engine
// configuration. One logical request owns one session.
func NewSession(model ModelInfo, tok tokenizer.Tokenizer) *prompt.Session {
	return prompt.NewSession(model, tok, prompt.DefaultConfig(), nil, nil)
}

// NewSessionWithConfig creates a session with explicit engine
// configuration and logger.
func NewSessionWithConfig(model ModelInfo, tok tokenizer.Tokenizer, cfg prompt.Config, logger *zap.Logger) *prompt.Session {
	return prompt.NewSession(model, tok, cfg, logger, nil)
}

// NewGenerator creates the retry orchestrator for a provider.
func NewGenerator(provider llm.Provider, opts ...generate.Option) *generate.Generator {
	return generate.NewGenerator(provider, opts...)
}
