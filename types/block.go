package types

import "strings"

// TruncateStrategy determines how a block is shrunk when it does not fit
// the remaining token budget.
type TruncateStrategy string

const (
	// TruncateTail keeps the first N tokens and drops the rest.
	TruncateTail TruncateStrategy = "tail"
	// TruncateHead keeps the last N tokens and drops the beginning.
	TruncateHead TruncateStrategy = "head"
	// SmartTruncateDiff is hunk-aware truncation for unified-diff content:
	// file boundaries stay intact, middle hunks are removed first.
	SmartTruncateDiff TruncateStrategy = "smart_diff"
)

// ValidStrategy reports whether s is a known truncation strategy.
func ValidStrategy(s TruncateStrategy) bool {
	switch s {
	case TruncateTail, TruncateHead, SmartTruncateDiff:
		return true
	}
	return false
}

// ContextBlock is one named, prioritized unit of candidate prompt content.
//
// Priority follows the "lower is more important" convention: a block with
// priority 0 outranks a block with priority 10. Name is the stable key used
// for forced-retain matching, canonical presentation ordering, and warnings.
type ContextBlock struct {
	Name     string           `json:"name"`
	Content  string           `json:"content"`
	Priority int              `json:"priority"`
	Strategy TruncateStrategy `json:"strategy"`
}

// Empty reports whether the block carries no usable content.
// Blocks with empty or whitespace-only content are never packed.
func (b ContextBlock) Empty() bool {
	return strings.TrimSpace(b.Content) == ""
}

// WellKnown block names. Upstream collaborators are free to invent their
// own names; these are the ones the canonical presentation order and the
// default forced-retain set know about.
const (
	BlockUserHistory        = "user_history"
	BlockRecentHistory      = "recent_history"
	BlockRelatedSnippets    = "related_snippets"
	BlockOriginalCode       = "original_code"
	BlockDiff               = "diff"
	BlockReminder           = "reminder"
	BlockCustomInstructions = "custom_instructions"
)
