package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector 指标收集器。所有方法对 nil 接收者安全，
// 未接入监控的调用方可以直接传 nil。
type Collector struct {
	// 打包指标
	packsTotal     prometheus.Counter
	packDuration   prometheus.Histogram
	blocksTruncated prometheus.Counter
	blocksExcluded  prometheus.Counter
	promptTokens    prometheus.Histogram

	// 重试指标
	overflowRetries  prometheus.Counter
	reductionSteps   *prometheus.CounterVec // step: shrink, remove
	requestsTooLarge prometheus.Counter

	logger *zap.Logger
}

// NewCollector 创建指标收集器并注册到 reg。
// reg 为 nil 时使用默认注册表。
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.packsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "packs_total",
		Help:      "Total number of prompt packing runs",
	})

	c.packDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pack_duration_seconds",
		Help:      "Prompt packing duration in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	c.blocksTruncated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_truncated_total",
		Help:      "Total number of context blocks truncated during packing",
	})

	c.blocksExcluded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_excluded_total",
		Help:      "Total number of context blocks excluded during packing",
	})

	c.promptTokens = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prompt_tokens",
		Help:      "Token count of assembled prompts",
		Buckets:   prometheus.ExponentialBuckets(256, 2, 10),
	})

	c.overflowRetries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "overflow_retries_total",
		Help:      "Total number of retries triggered by provider context overflow",
	})

	c.reductionSteps = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reduction_steps_total",
		Help:      "Total number of adaptive reduction steps",
	}, []string{"step"})

	c.requestsTooLarge = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_too_large_total",
		Help:      "Total number of requests that could not be reduced to fit",
	})

	return c
}

// ObservePack 记录一次打包：耗时、截断与排除数量、最终 Token 数。
func (c *Collector) ObservePack(d time.Duration, truncated, excluded, tokens int) {
	if c == nil {
		return
	}
	c.packsTotal.Inc()
	c.packDuration.Observe(d.Seconds())
	c.blocksTruncated.Add(float64(truncated))
	c.blocksExcluded.Add(float64(excluded))
	c.promptTokens.Observe(float64(tokens))
}

// ObserveOverflowRetry 记录一次因上下文溢出触发的重试。
func (c *Collector) ObserveOverflowRetry() {
	if c == nil {
		return
	}
	c.overflowRetries.Inc()
}

// ObserveReduction 记录一步自适应缩减。step 取 "shrink" 或 "remove"。
func (c *Collector) ObserveReduction(step string) {
	if c == nil {
		return
	}
	c.reductionSteps.WithLabelValues(step).Inc()
}

// ObserveRequestTooLarge 记录一次不可恢复的过大请求。
func (c *Collector) ObserveRequestTooLarge() {
	if c == nil {
		return
	}
	c.requestsTooLarge.Inc()
}
