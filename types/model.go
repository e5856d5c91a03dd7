package types

// DefaultInputTokens is the conservative context window assumed when a
// model descriptor does not declare one.
const DefaultInputTokens = 8192

// TokenLimits carries a model's declared token ceilings.
type TokenLimits struct {
	Input  int `json:"input" yaml:"input"`
	Output int `json:"output" yaml:"output"`
}

// ModelInfo is a read-only model descriptor supplied by the caller.
type ModelInfo struct {
	Name      string      `json:"name" yaml:"name"`
	MaxTokens TokenLimits `json:"max_tokens" yaml:"max_tokens"`
}

// InputLimit returns the declared input window, falling back to
// DefaultInputTokens when the descriptor is absent or non-positive.
func (m ModelInfo) InputLimit() int {
	if m.MaxTokens.Input <= 0 {
		return DefaultInputTokens
	}
	return m.MaxTokens.Input
}
