package prompt

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/promptpack/internal/metrics"
	"github.com/BaSui01/promptpack/llm"
	"github.com/BaSui01/promptpack/tokenizer"
	"github.com/BaSui01/promptpack/types"
)

// BuildResult 是一次 BuildMessages 的完整产出。
type BuildResult struct {
	Messages  []llm.Message // 恰好 system + user 两条
	Included  []PackedBlock
	Excluded  []string
	Truncated []string
	// TotalTokens 是装入块的 Token 总数（不含系统提示）。
	TotalTokens int
}

// Session 是单次请求的打包会话。
//
// 会话持有可变的工作块集合，在同一请求的多次重试间复用，
// 不能在并发执行的请求之间共享；每个逻辑请求各建各的会话。
type Session struct {
	cfg       Config
	model     types.ModelInfo
	tok       tokenizer.Tokenizer
	logger    *zap.Logger
	collector *metrics.Collector

	blocks []types.ContextBlock
}

// NewSession 创建打包会话。logger、collector 均可为 nil。
func NewSession(model types.ModelInfo, tok tokenizer.Tokenizer, cfg Config, logger *zap.Logger, collector *metrics.Collector) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		cfg:       cfg.normalize(),
		model:     model,
		tok:       tok,
		logger:    logger,
		collector: collector,
	}
}

// AddBlock 把一个上下文块加入会话。
// 空白内容或未知策略的块会被拒绝。
func (s *Session) AddBlock(b types.ContextBlock) error {
	if b.Name == "" {
		return types.NewError(types.ErrInvalidBlock, "block name must not be empty")
	}
	if b.Empty() {
		return types.NewError(types.ErrInvalidBlock,
			fmt.Sprintf("block %q has empty content", b.Name))
	}
	if b.Strategy == "" {
		b.Strategy = types.TruncateTail
	}
	if !types.ValidStrategy(b.Strategy) {
		return types.NewError(types.ErrInvalidBlock,
			fmt.Sprintf("block %q has unknown strategy %q", b.Name, b.Strategy))
	}
	s.blocks = append(s.blocks, b)
	return nil
}

// Blocks 返回当前工作块集合的副本。
func (s *Session) Blocks() []types.ContextBlock {
	out := make([]types.ContextBlock, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Model 返回会话绑定的模型描述符。
func (s *Session) Model() types.ModelInfo { return s.model }

// Config 返回会话的引擎配置。
func (s *Session) Config() Config { return s.cfg }

// ReduceOnce 对工作块集合执行一步自适应缩减。
// 返回是否有缩减发生；集合被替换为缩减后的新列表。
func (s *Session) ReduceOnce() (bool, error) {
	out, reduced, err := ReduceOnce(s.blocks, s.cfg, s.tok, s.logger)
	if err != nil {
		return false, err
	}
	if reduced {
		s.blocks = out
	}
	return reduced, nil
}

// BuildMessages 执行预算分配 → 切分 → 打包 → 装配的完整链路。
// 对未变更的块集合重复调用产出字节级一致的结果。
func (s *Session) BuildMessages(systemPrompt string) (*BuildResult, error) {
	start := time.Now()

	allocator := NewBudgetAllocator(s.cfg.ReserveTokens, s.tok)
	budget, err := allocator.Remaining(s.model, systemPrompt)
	if err != nil {
		return nil, types.NewError(types.ErrTokenizerError, "budget allocation failed").WithCause(err)
	}

	packer := NewPacker(s.cfg, s.tok, s.logger)
	packed, err := packer.Pack(s.blocks, budget)
	if err != nil {
		return nil, types.NewError(types.ErrTokenizerError, "packing failed").WithCause(err)
	}

	assembler := NewAssembler(s.cfg.CanonicalOrder)
	messages := assembler.Assemble(systemPrompt, packed.Included)

	total := 0
	for _, p := range packed.Included {
		total += p.Tokens
	}

	result := &BuildResult{
		Messages:    messages,
		Included:    packed.Included,
		Excluded:    packed.Excluded,
		Truncated:   packed.TruncatedNames(),
		TotalTokens: total,
	}

	s.collector.ObservePack(time.Since(start), len(result.Truncated), len(result.Excluded), total)
	s.logger.Debug("messages built",
		zap.Int("budget", budget),
		zap.Int("total_tokens", total),
		zap.Strings("truncated", result.Truncated),
		zap.Strings("excluded", result.Excluded))
	return result, nil
}
