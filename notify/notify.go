// Copyright (c) PromptPack Authors.
// Licensed under the MIT License.

// Package notify 定义打包告警的外发接口。
// 告警面向人类：哪些块被截断、哪些被丢弃。测试与无界面场景
// 使用 NopSink。
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Kind 是告警类别。
type Kind string

const (
	KindTruncated Kind = "truncated"
	KindExcluded  Kind = "excluded"
	KindRetry     Kind = "retry"
)

// Warning 是一条面向用户的可读告警。
type Warning struct {
	Kind    Kind
	Block   string // 相关块名称；重试告警可为空
	Message string
}

// Truncated 构造截断告警。
func Truncated(block string) Warning {
	return Warning{
		Kind:    KindTruncated,
		Block:   block,
		Message: fmt.Sprintf("context block %q was truncated to fit the token budget", block),
	}
}

// Excluded 构造排除告警。
func Excluded(block string) Warning {
	return Warning{
		Kind:    KindExcluded,
		Block:   block,
		Message: fmt.Sprintf("context block %q was dropped: token budget exhausted", block),
	}
}

// Retrying 构造溢出重试告警。
func Retrying(attempt int) Warning {
	return Warning{
		Kind:    KindRetry,
		Message: fmt.Sprintf("model rejected the request as too large, retrying with reduced context (attempt %d)", attempt),
	}
}

// Sink 接收告警。实现不得阻塞打包主路径。
type Sink interface {
	Notify(ctx context.Context, w Warning)
}

// NopSink 丢弃所有告警。
type NopSink struct{}

func (NopSink) Notify(context.Context, Warning) {}

// LogSink 把告警写入 zap 日志。
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink 创建日志告警通道。
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, w Warning) {
	s.logger.Warn(w.Message,
		zap.String("kind", string(w.Kind)),
		zap.String("block", w.Block))
}
