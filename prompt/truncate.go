package prompt

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/promptpack/tokenizer"
	"github.com/BaSui01/promptpack/types"
)

// ElisionMarker 标记 diff 内容被省略的位置。
const ElisionMarker = "... (diff truncated) ..."

// diffBoundary 是统一 diff 的文件边界标记。
const diffBoundary = "diff --git "

// Truncator 把单个块的内容缩减到目标 Token 数。
// 截断基于 Token 序列而非原始字符，避免拆裂多字节 / 多 Token 单元；
// 分词器不支持 Decode 时退化为按比例的 rune 切片。
type Truncator struct {
	tok    tokenizer.Tokenizer
	logger *zap.Logger
}

// NewTruncator 创建截断器。logger 可为 nil。
func NewTruncator(tok tokenizer.Tokenizer, logger *zap.Logger) *Truncator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Truncator{tok: tok, logger: logger}
}

// Truncate 将 content 缩减到至多 budget 个 Token。
// budget 非正时返回空串；内容本就适配时原样返回。
func (t *Truncator) Truncate(content string, strategy types.TruncateStrategy, budget int) (string, error) {
	if budget <= 0 {
		return "", nil
	}

	count, err := t.tok.CountTokens(content)
	if err != nil {
		return "", fmt.Errorf("count tokens: %w", err)
	}
	if count <= budget {
		return content, nil
	}

	switch strategy {
	case types.TruncateHead:
		return t.slice(content, budget, true)
	case types.SmartTruncateDiff:
		return t.truncateDiff(content, budget)
	default:
		// TruncateTail 兜底：未知策略同样保留开头。
		return t.slice(content, budget, false)
	}
}

// slice 保留前（fromEnd=false）或后（fromEnd=true）budget 个 Token。
func (t *Truncator) slice(content string, budget int, fromEnd bool) (string, error) {
	toks, err := t.tok.Encode(content)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if len(toks) <= budget {
		return content, nil
	}

	var kept []int
	if fromEnd {
		kept = toks[len(toks)-budget:]
	} else {
		kept = toks[:budget]
	}

	out, err := t.tok.Decode(kept)
	if err != nil {
		// 估算器等无法 Decode 的分词器：按比例切 rune。
		return runeSlice(content, budget, len(toks), fromEnd), nil
	}
	return out, nil
}

// runeSlice 是 Decode 不可用时的降级路径：按 budget/total 比例
// 在 rune 边界上切片。
func runeSlice(content string, budget, total int, fromEnd bool) string {
	runes := []rune(content)
	keep := len(runes) * budget / total
	if keep <= 0 {
		return ""
	}
	if keep >= len(runes) {
		return content
	}
	if fromEnd {
		return string(runes[len(runes)-keep:])
	}
	return string(runes[:keep])
}

// truncateDiff 实现 diff 感知截断：按文件边界切分为独立 hunk，
// 永远保留首尾两个 hunk，从中间向外移除，直到估算适配预算。
func (t *Truncator) truncateDiff(content string, budget int) (string, error) {
	hunks := splitDiffHunks(content)
	marker := ElisionMarker + "\n"
	markerTokens, err := t.tok.CountTokens(marker)
	if err != nil {
		return "", fmt.Errorf("count marker tokens: %w", err)
	}

	if len(hunks) == 1 {
		return t.truncateSingleHunk(content, budget, markerTokens)
	}

	counts := make([]int, len(hunks))
	total := 0
	for i, h := range hunks {
		n, err := t.tok.CountTokens(h)
		if err != nil {
			return "", fmt.Errorf("count hunk tokens: %w", err)
		}
		counts[i] = n
		total += n
	}

	// 从中间向外移除 hunk；首尾永远保留。
	removed := false
	for len(hunks) > 2 {
		cost := total
		if removed {
			cost += markerTokens
		}
		if cost <= budget {
			break
		}
		mid := len(hunks) / 2
		total -= counts[mid]
		hunks = append(hunks[:mid], hunks[mid+1:]...)
		counts = append(counts[:mid], counts[mid+1:]...)
		removed = true
	}

	var sb strings.Builder
	for i, h := range hunks {
		if removed && i == len(hunks)-1 {
			if !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteString("\n")
			}
			sb.WriteString(marker)
		}
		sb.WriteString(h)
	}
	out := sb.String()

	// 估算误差的最终保险：仍超预算时硬截到精确预算。
	return t.clamp(out, budget)
}

// truncateSingleHunk 处理单 hunk 情形：各保留约一半预算的头尾切片，
// 中间用省略标记连接。
func (t *Truncator) truncateSingleHunk(content string, budget, markerTokens int) (string, error) {
	head := budget / 2
	tail := budget - head - markerTokens
	if tail < 0 {
		tail = 0
	}

	headText, err := t.slice(content, head, false)
	if err != nil {
		return "", err
	}
	tailText := ""
	if tail > 0 {
		tailText, err = t.slice(content, tail, true)
		if err != nil {
			return "", err
		}
	}

	out := headText + "\n" + ElisionMarker + "\n" + tailText
	return t.clamp(out, budget)
}

// clamp 把文本硬截到精确预算（最后手段）。
func (t *Truncator) clamp(text string, budget int) (string, error) {
	count, err := t.tok.CountTokens(text)
	if err != nil {
		return "", fmt.Errorf("count tokens: %w", err)
	}
	if count <= budget {
		return text, nil
	}
	t.logger.Debug("diff truncation estimate exceeded budget, clamping",
		zap.Int("tokens", count),
		zap.Int("budget", budget))
	return t.slice(text, budget, false)
}

// splitDiffHunks 按 "diff --git" 行边界把 diff 切成独立 hunk。
// 每个 hunk 保留自己的换行；首个边界之前的前导内容归入第一个 hunk。
// 没有边界时整个文本视为单一 hunk。
func splitDiffHunks(diff string) []string {
	lines := strings.SplitAfter(diff, "\n")

	var hunks []string
	var current strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, diffBoundary) && current.Len() > 0 {
			hunks = append(hunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		hunks = append(hunks, current.String())
	}

	if len(hunks) == 0 {
		return []string{diff}
	}
	return hunks
}
