package prompt

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/promptpack/tokenizer"
	"github.com/BaSui01/promptpack/types"
)

// ReduceOnce 执行一步自适应缩减，返回新的块列表（输入不被修改）。
//
// 仅在下游 Provider 报告上下文溢出后调用。每次调用严格减少剩余
// 内容的总 Token 数：选出最不重要（优先级数值最大）的可截断块，
// 其 Token 数超过 MinReduceTokens 时缩减到约 ReduceRatio 比例
//（保留尾部），否则整块移除。
//
// 没有可截断块（只剩强制保留内容）时返回 reduced=false。
func ReduceOnce(blocks []types.ContextBlock, cfg Config, tok tokenizer.Tokenizer, logger *zap.Logger) ([]types.ContextBlock, bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.normalize()
	forced := cfg.forcedSet()

	// 最不重要的可截断块：优先级数值最大；并列时取先加入者。
	victim := -1
	for i, b := range blocks {
		if _, ok := forced[b.Name]; ok {
			continue
		}
		if victim == -1 || b.Priority > blocks[victim].Priority {
			victim = i
		}
	}
	if victim == -1 {
		return blocks, false, nil
	}

	out := make([]types.ContextBlock, len(blocks))
	copy(out, blocks)

	count, err := tok.CountTokens(out[victim].Content)
	if err != nil {
		return nil, false, fmt.Errorf("count tokens for block %q: %w", out[victim].Name, err)
	}

	if count > cfg.MinReduceTokens {
		target := int(float64(count) * cfg.ReduceRatio)
		trunc := NewTruncator(tok, logger)
		shrunk, err := trunc.Truncate(out[victim].Content, types.TruncateHead, target)
		if err != nil {
			return nil, false, fmt.Errorf("reduce block %q: %w", out[victim].Name, err)
		}
		logger.Warn("adaptive reduction: block shrunk",
			zap.String("block", out[victim].Name),
			zap.Int("from_tokens", count),
			zap.Int("to_tokens", target))
		out[victim].Content = shrunk
		return out, true, nil
	}

	logger.Warn("adaptive reduction: block removed",
		zap.String("block", out[victim].Name),
		zap.Int("tokens", count))
	out = append(out[:victim], out[victim+1:]...)
	return out, true, nil
}
