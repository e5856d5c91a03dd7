package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/BaSui01/promptpack/llm"
)

// StreamOutcome 描述 ScriptedProvider 单次调用的结果：
// Err 非 nil 时该次调用同步失败，否则按序吐出 Chunks。
type StreamOutcome struct {
	Err    error
	Chunks []string
}

// ScriptedProvider 按脚本逐次响应的假 Provider。
// 脚本耗尽后再调用会返回错误，便于测出多余的重试。
type ScriptedProvider struct {
	mu       sync.Mutex
	script   []StreamOutcome
	requests []*llm.ChatRequest
}

// NewScriptedProvider 创建脚本化 Provider。
func NewScriptedProvider(outcomes ...StreamOutcome) *ScriptedProvider {
	return &ScriptedProvider{script: outcomes}
}

func (p *ScriptedProvider) Name() string { return "scripted" }

// Stream 实现 llm.Provider。
func (p *ScriptedProvider) Stream(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	attempt := len(p.requests) - 1
	if attempt >= len(p.script) {
		return nil, fmt.Errorf("scripted provider: unexpected call %d", attempt+1)
	}

	outcome := p.script[attempt]
	if outcome.Err != nil {
		return nil, outcome.Err
	}

	ch := make(chan llm.StreamChunk, len(outcome.Chunks))
	for _, c := range outcome.Chunks {
		ch <- llm.StreamChunk{Provider: p.Name(), Model: req.Model, Delta: c}
	}
	close(ch)
	return ch, nil
}

// Calls 返回已发生的调用次数。
func (p *ScriptedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// Requests 返回历次调用收到的请求。
func (p *ScriptedProvider) Requests() []*llm.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*llm.ChatRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// CollectChunks 聚合一条流的全部增量内容。
func CollectChunks(ch <-chan llm.StreamChunk) string {
	out := ""
	for chunk := range ch {
		out += chunk.Delta
	}
	return out
}
