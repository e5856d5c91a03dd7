package generate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/promptpack/internal/metrics"
	"github.com/BaSui01/promptpack/llm"
	"github.com/BaSui01/promptpack/notify"
	"github.com/BaSui01/promptpack/prompt"
	"github.com/BaSui01/promptpack/types"
)

// DefaultMaxRetries 是溢出重试的默认上限。
const DefaultMaxRetries = 3

// Generator 驱动一次生成请求：打包消息、调用 Provider、
// 在上下文溢出时缩减重试。
type Generator struct {
	provider   llm.Provider
	logger     *zap.Logger
	sink       notify.Sink
	collector  *metrics.Collector
	maxRetries int
}

// Option 配置 Generator。
type Option func(*Generator)

// WithLogger 设置 zap 日志器。
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithNotifier 设置告警通道。
func WithNotifier(sink notify.Sink) Option {
	return func(g *Generator) { g.sink = sink }
}

// WithMetrics 设置指标收集器。
func WithMetrics(c *metrics.Collector) Option {
	return func(g *Generator) { g.collector = c }
}

// WithMaxRetries 设置溢出重试上限。负值按 0 处理。
func WithMaxRetries(n int) Option {
	return func(g *Generator) {
		if n < 0 {
			n = 0
		}
		g.maxRetries = n
	}
}

// NewGenerator 创建生成编排器。
func NewGenerator(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider:   provider,
		logger:     zap.NewNop(),
		sink:       notify.NopSink{},
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 对会话执行构建 → 发送环，成功后返回 Provider 的增量
// 流。返回的 channel 归调用方消费；调用方停止消费并取消 ctx 即
// 中止后续工作。
//
// 溢出重试间会话的块集合被逐步缩减；其他错误立即返回。
func (g *Generator) Generate(ctx context.Context, session *prompt.Session, systemPrompt string) (<-chan llm.StreamChunk, error) {
	traceID := uuid.NewString()
	logger := g.logger.With(zap.String("trace_id", traceID))

	retries := 0
	for {
		result, err := session.BuildMessages(systemPrompt)
		if err != nil {
			return nil, err
		}
		g.warn(ctx, result)

		req := &llm.ChatRequest{
			TraceID:   traceID,
			Model:     session.Model().Name,
			Messages:  result.Messages,
			MaxTokens: session.Model().MaxTokens.Output,
		}

		logger.Debug("sending request",
			zap.Int("attempt", retries+1),
			zap.Int("prompt_tokens", result.TotalTokens))

		ch, err := g.provider.Stream(ctx, req)
		if err == nil {
			return ch, nil
		}

		if !llm.IsContextOverflow(err) {
			logger.Debug("provider error, not retrying", zap.Error(err))
			return nil, err
		}

		if retries >= g.maxRetries {
			logger.Warn("overflow retry ceiling exhausted",
				zap.Int("retries", retries))
			g.collector.ObserveRequestTooLarge()
			return nil, types.NewRequestTooLargeError(err)
		}

		before := len(session.Blocks())
		reduced, redErr := session.ReduceOnce()
		if redErr != nil {
			return nil, redErr
		}
		if !reduced {
			logger.Warn("no further reduction possible")
			g.collector.ObserveRequestTooLarge()
			return nil, types.NewRequestTooLargeError(err)
		}

		step := "shrink"
		if len(session.Blocks()) < before {
			step = "remove"
		}
		g.collector.ObserveReduction(step)
		g.collector.ObserveOverflowRetry()

		retries++
		g.sink.Notify(ctx, notify.Retrying(retries))
		logger.Warn("context overflow, rebuilding with reduced context",
			zap.Int("retry", retries),
			zap.String("reduction", step))
	}
}

// warn 把本次构建的截断 / 排除情况发给告警通道。
func (g *Generator) warn(ctx context.Context, result *prompt.BuildResult) {
	for _, name := range result.Truncated {
		g.sink.Notify(ctx, notify.Truncated(name))
	}
	for _, name := range result.Excluded {
		g.sink.Notify(ctx, notify.Excluded(name))
	}
}
