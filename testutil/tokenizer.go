package testutil

import (
	"fmt"
	"sync"
	"unicode"
)

// WordTokenizer 把文本切成"非空白串 + 其后空白"的分段，每段一个
// Token。分段拼接可无损还原原文，因此 Decode(Encode(x)) == x。
// 词表在实例内按需构建，同一实例内确定。
type WordTokenizer struct {
	mu       sync.Mutex
	vocab    map[string]int
	segments []string
	maxInput int
}

// NewWordTokenizer 创建测试用分词器。maxInput 非正时取 8192。
func NewWordTokenizer(maxInput int) *WordTokenizer {
	if maxInput <= 0 {
		maxInput = 8192
	}
	return &WordTokenizer{
		vocab:    make(map[string]int),
		maxInput: maxInput,
	}
}

// split 切分出分段：每段为一段非空白字符连同其后跟随的空白。
// 前导空白自成一段。
func split(text string) []string {
	var segs []string
	var cur []rune
	seenSpace := false
	for _, r := range text {
		ws := unicode.IsSpace(r)
		if len(cur) > 0 && seenSpace && !ws {
			segs = append(segs, string(cur))
			cur = cur[:0]
			seenSpace = false
		}
		cur = append(cur, r)
		if ws {
			seenSpace = true
		}
	}
	if len(cur) > 0 {
		segs = append(segs, string(cur))
	}
	return segs
}

func (w *WordTokenizer) CountTokens(text string) (int, error) {
	return len(split(text)), nil
}

func (w *WordTokenizer) Encode(text string) ([]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	segs := split(text)
	ids := make([]int, len(segs))
	for i, seg := range segs {
		id, ok := w.vocab[seg]
		if !ok {
			id = len(w.segments)
			w.vocab[seg] = id
			w.segments = append(w.segments, seg)
		}
		ids[i] = id
	}
	return ids, nil
}

func (w *WordTokenizer) Decode(tokens []int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := ""
	for _, id := range tokens {
		if id < 0 || id >= len(w.segments) {
			return "", fmt.Errorf("unknown token id %d", id)
		}
		out += w.segments[id]
	}
	return out, nil
}

func (w *WordTokenizer) MaxInputTokens() int { return w.maxInput }

func (w *WordTokenizer) Name() string { return "word" }
