package prompt

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/promptpack/tokenizer"
	"github.com/BaSui01/promptpack/types"
)

// PackedBlock 是被装入提示的一个块及其最终内容。
type PackedBlock struct {
	Block     types.ContextBlock
	Content   string // 可能被截断
	Tokens    int
	Truncated bool
}

// PackResult 汇报一趟打包的结果。
type PackResult struct {
	Included  []PackedBlock
	Excluded  []string // 被排除块的名称，按决策顺序
	Remaining int      // 打包后剩余的预算
}

// TruncatedNames 返回被截断块的名称。
func (r PackResult) TruncatedNames() []string {
	var names []string
	for _, p := range r.Included {
		if p.Truncated {
			names = append(names, p.Block.Name)
		}
	}
	return names
}

// Packer 在给定预算内装入、截断或排除上下文块。
type Packer struct {
	cfg    Config
	tok    tokenizer.Tokenizer
	trunc  *Truncator
	logger *zap.Logger
}

// NewPacker 创建打包器。logger 可为 nil。
func NewPacker(cfg Config, tok tokenizer.Tokenizer, logger *zap.Logger) *Packer {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.normalize()
	return &Packer{
		cfg:    cfg,
		tok:    tok,
		trunc:  NewTruncator(tok, logger),
		logger: logger,
	}
}

// Pack 对块集合执行两趟装入：先 forced 组，后 processable 组。
// budget 非正时所有块都会被排除。
func (p *Packer) Pack(blocks []types.ContextBlock, budget int) (PackResult, error) {
	forcedSet := p.cfg.forcedSet()
	forced, processable := partition(blocks, forcedSet)

	result := PackResult{Remaining: budget}

	if err := p.packForced(forced, &result); err != nil {
		return PackResult{}, err
	}
	if err := p.packProcessable(processable, &result); err != nil {
		return PackResult{}, err
	}

	p.logger.Debug("pack complete",
		zap.Int("budget", budget),
		zap.Int("included", len(result.Included)),
		zap.Int("excluded", len(result.Excluded)),
		zap.Int("remaining", result.Remaining))
	return result, nil
}

// packForced 装入强制保留块。整体放不下时，只有主内容块允许被
// 截断到剩余预算；其余 forced 块记录为排除。
//
// 注：放不下的非主 forced 块不会被静默丢弃，而是记录为排除并
// 产生告警，调用方由此得知强制内容丢失。
func (p *Packer) packForced(forced []types.ContextBlock, result *PackResult) error {
	for _, b := range forced {
		count, err := p.tok.CountTokens(b.Content)
		if err != nil {
			return fmt.Errorf("count tokens for block %q: %w", b.Name, err)
		}

		if count <= result.Remaining {
			result.Included = append(result.Included, PackedBlock{
				Block:   b,
				Content: b.Content,
				Tokens:  count,
			})
			result.Remaining -= count
			continue
		}

		if b.Name == p.cfg.PrimaryName && result.Remaining > 0 {
			truncated, err := p.trunc.Truncate(b.Content, b.Strategy, result.Remaining)
			if err != nil {
				return fmt.Errorf("truncate primary block %q: %w", b.Name, err)
			}
			used, err := p.tok.CountTokens(truncated)
			if err != nil {
				return fmt.Errorf("count truncated tokens for block %q: %w", b.Name, err)
			}
			result.Included = append(result.Included, PackedBlock{
				Block:     b,
				Content:   truncated,
				Tokens:    used,
				Truncated: true,
			})
			result.Remaining -= used
			p.logger.Warn("primary block truncated to fit budget",
				zap.String("block", b.Name),
				zap.Int("original_tokens", count),
				zap.Int("kept_tokens", used))
			continue
		}

		result.Excluded = append(result.Excluded, b.Name)
		p.logger.Warn("forced block does not fit and was excluded",
			zap.String("block", b.Name),
			zap.Int("tokens", count),
			zap.Int("remaining", result.Remaining))
	}
	return nil
}

// packProcessable 装入其余块。第一个放不下的块在剩余预算高于
// TruncateFloor 时被截断装入，其后的块全部排除；剩余预算不超过
// 下限时逐个排除。
func (p *Packer) packProcessable(processable []types.ContextBlock, result *PackResult) error {
	for i, b := range processable {
		count, err := p.tok.CountTokens(b.Content)
		if err != nil {
			return fmt.Errorf("count tokens for block %q: %w", b.Name, err)
		}

		if count <= result.Remaining {
			result.Included = append(result.Included, PackedBlock{
				Block:   b,
				Content: b.Content,
				Tokens:  count,
			})
			result.Remaining -= count
			continue
		}

		if result.Remaining > p.cfg.TruncateFloor {
			truncated, err := p.trunc.Truncate(b.Content, b.Strategy, result.Remaining)
			if err != nil {
				return fmt.Errorf("truncate block %q: %w", b.Name, err)
			}
			used, err := p.tok.CountTokens(truncated)
			if err != nil {
				return fmt.Errorf("count truncated tokens for block %q: %w", b.Name, err)
			}
			result.Included = append(result.Included, PackedBlock{
				Block:     b,
				Content:   truncated,
				Tokens:    used,
				Truncated: true,
			})
			result.Remaining -= used
			p.logger.Warn("block truncated to fit remaining budget",
				zap.String("block", b.Name),
				zap.Int("original_tokens", count),
				zap.Int("kept_tokens", used))

			// 预算已耗尽：其后的 processable 块全部排除。
			for _, rest := range processable[i+1:] {
				result.Excluded = append(result.Excluded, rest.Name)
			}
			return nil
		}

		result.Excluded = append(result.Excluded, b.Name)
		p.logger.Warn("block excluded, remaining budget below floor",
			zap.String("block", b.Name),
			zap.Int("tokens", count),
			zap.Int("remaining", result.Remaining))
	}
	return nil
}
