package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/promptpack/testutil"
	"github.com/BaSui01/promptpack/types"
)

func testModel(limit int) types.ModelInfo {
	return types.ModelInfo{
		Name:      "test-model",
		MaxTokens: types.TokenLimits{Input: limit},
	}
}

func TestSession_AddBlockValidation(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	s := NewSession(testModel(1000), tok, DefaultConfig(), nil, nil)

	tests := []struct {
		name    string
		block   types.ContextBlock
		wantErr bool
	}{
		{"valid", types.ContextBlock{Name: "alpha", Content: "hello"}, false},
		{"empty name", types.ContextBlock{Content: "hello"}, true},
		{"blank content", types.ContextBlock{Name: "alpha", Content: "  \n\t "}, true},
		{"unknown strategy", types.ContextBlock{Name: "alpha", Content: "x", Strategy: "zigzag"}, true},
		{"explicit head", types.ContextBlock{Name: "beta", Content: "x", Strategy: types.TruncateHead}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddBlock(tt.block)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsErrorCode(err, types.ErrInvalidBlock))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSession_DefaultStrategyIsTail(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	s := NewSession(testModel(1000), tok, DefaultConfig(), nil, nil)

	require.NoError(t, s.AddBlock(types.ContextBlock{Name: "alpha", Content: "x"}))
	blocks := s.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, types.TruncateTail, blocks[0].Strategy)
}

func TestSession_BlocksReturnsCopy(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	s := NewSession(testModel(1000), tok, DefaultConfig(), nil, nil)
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: "alpha", Content: "x"}))

	got := s.Blocks()
	got[0].Content = "mutated"
	assert.Equal(t, "x", s.Blocks()[0].Content)
}

// 所有块都能装下时，内容不被截断、不被排除。
func TestSession_BuildMessagesFitsWhole(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	cfg := DefaultConfig()
	cfg.ReserveTokens = 10

	s := NewSession(testModel(1000), tok, cfg, nil, nil)
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: types.BlockDiff, Content: words(40)}))
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: "alpha", Content: words(20), Priority: 5}))

	res, err := s.BuildMessages("sys")
	require.NoError(t, err)

	assert.Empty(t, res.Excluded)
	assert.Empty(t, res.Truncated)
	assert.Equal(t, 60, res.TotalTokens)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, "sys", res.Messages[0].Content)
}

// 主块超出预算时被截断装入，而不是整体失败。
func TestSession_BuildMessagesTruncatesPrimary(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	cfg := DefaultConfig()
	cfg.ReserveTokens = 10

	// 预算 = 100 − 1(系统提示) − 10 = 89。
	s := NewSession(testModel(100), tok, cfg, nil, nil)
	require.NoError(t, s.AddBlock(types.ContextBlock{
		Name:     types.BlockDiff,
		Content:  words(150),
		Strategy: types.SmartTruncateDiff,
	}))

	res, err := s.BuildMessages("sys")
	require.NoError(t, err)

	assert.Equal(t, []string{types.BlockDiff}, res.Truncated)
	assert.Empty(t, res.Excluded)
	assert.LessOrEqual(t, res.TotalTokens, 89)
	assert.Contains(t, res.Messages[1].Content, "truncated=\"true\"")
}

// 对未变更的会话重复构建，产出字节级一致的结果。
func TestSession_BuildMessagesDeterministic(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	cfg := DefaultConfig()
	cfg.ReserveTokens = 10

	s := NewSession(testModel(120), tok, cfg, nil, nil)
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: types.BlockDiff, Content: words(60)}))
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: "alpha", Content: words(80), Priority: 5}))
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: "beta", Content: words(30), Priority: 3}))

	first, err := s.BuildMessages("sys")
	require.NoError(t, err)
	second, err := s.BuildMessages("sys")
	require.NoError(t, err)

	assert.Equal(t, first.Messages, second.Messages)
	assert.Equal(t, first.Excluded, second.Excluded)
	assert.Equal(t, first.Truncated, second.Truncated)
	assert.Equal(t, first.TotalTokens, second.TotalTokens)
}

func TestSession_ReduceOnceReplacesBlocks(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	cfg := DefaultConfig()
	cfg.MinReduceTokens = 50

	s := NewSession(testModel(1000), tok, cfg, nil, nil)
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: types.BlockDiff, Content: words(30)}))
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: "alpha", Content: words(20), Priority: 5}))

	reduced, err := s.ReduceOnce()
	require.NoError(t, err)
	assert.True(t, reduced)
	require.Len(t, s.Blocks(), 1)

	// 只剩强制保留块后，再缩减报告无进展。
	reduced, err = s.ReduceOnce()
	require.NoError(t, err)
	assert.False(t, reduced)
}

func TestSession_SystemPromptPassthrough(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	s := NewSession(testModel(1000), tok, DefaultConfig(), nil, nil)
	require.NoError(t, s.AddBlock(types.ContextBlock{Name: "alpha", Content: "body"}))

	sys := "  multi\nline\n  system prompt  "
	res, err := s.BuildMessages(sys)
	require.NoError(t, err)
	assert.Equal(t, sys, res.Messages[0].Content, "system prompt is never rewritten")
	assert.False(t, strings.Contains(res.Messages[1].Content, sys))
}
