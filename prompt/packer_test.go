package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/promptpack/testutil"
	"github.com/BaSui01/promptpack/types"
)

func TestPartition_Ordering(t *testing.T) {
	forced := map[string]struct{}{"diff": {}, "reminder": {}}
	blocks := []types.ContextBlock{
		{Name: "snippets", Priority: 3},
		{Name: "reminder", Priority: 9},
		{Name: "history", Priority: 7},
		{Name: "diff", Priority: 0},
		{Name: "notes", Priority: 5},
	}

	f, p := partition(blocks, forced)

	// forced 升序：最重要（数值最小）优先。
	require.Len(t, f, 2)
	assert.Equal(t, "diff", f[0].Name)
	assert.Equal(t, "reminder", f[1].Name)

	// processable 降序。
	require.Len(t, p, 3)
	assert.Equal(t, "history", p[0].Name)
	assert.Equal(t, "notes", p[1].Name)
	assert.Equal(t, "snippets", p[2].Name)
}

func TestPack_FitsWhole(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	packer := NewPacker(DefaultConfig(), tok, nil)

	blocks := []types.ContextBlock{
		{Name: "diff", Content: words(20), Priority: 0, Strategy: types.SmartTruncateDiff},
		{Name: "recent_history", Content: words(10), Priority: 2, Strategy: types.TruncateHead},
		{Name: "reminder", Content: words(5), Priority: 1, Strategy: types.TruncateTail},
	}

	result, err := packer.Pack(blocks, 100)
	require.NoError(t, err)

	require.Len(t, result.Included, 3)
	assert.Empty(t, result.Excluded)
	assert.Empty(t, result.TruncatedNames())
	for _, p := range result.Included {
		assert.Equal(t, p.Block.Content, p.Content, "block %s must be unmodified", p.Block.Name)
	}
	assert.Equal(t, 100-35, result.Remaining)
}

// 场景：只有主内容块放不下时被截断装入并打上截断标记。
func TestPack_PrimaryTruncatedToFit(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	packer := NewPacker(DefaultConfig(), tok, nil)

	blocks := []types.ContextBlock{
		{Name: "diff", Content: words(80), Priority: 0, Strategy: types.TruncateTail},
	}

	result, err := packer.Pack(blocks, 50)
	require.NoError(t, err)

	require.Len(t, result.Included, 1)
	p := result.Included[0]
	assert.True(t, p.Truncated)
	assert.LessOrEqual(t, p.Tokens, 50)
	assert.Less(t, p.Tokens, 80, "truncated block must shrink")
	assert.Equal(t, []string{"diff"}, result.TruncatedNames())
}

// 放不下的非主 forced 块记录为排除并告警，不会静默消失。
func TestPack_NonPrimaryForcedExcluded(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	packer := NewPacker(DefaultConfig(), tok, nil)

	blocks := []types.ContextBlock{
		{Name: "diff", Content: words(40), Priority: 0, Strategy: types.TruncateTail},
		{Name: "reminder", Content: words(30), Priority: 1, Strategy: types.TruncateTail},
	}

	result, err := packer.Pack(blocks, 50)
	require.NoError(t, err)

	require.Len(t, result.Included, 1)
	assert.Equal(t, "diff", result.Included[0].Block.Name)
	assert.Equal(t, []string{"reminder"}, result.Excluded)
}

// 预算剩余低于下限时直接排除而非截断。
func TestPack_SecondBlockExcludedBelowFloor(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	packer := NewPacker(DefaultConfig(), tok, nil)

	blocks := []types.ContextBlock{
		{Name: "alpha", Content: words(30), Priority: 5, Strategy: types.TruncateTail},
		{Name: "beta", Content: words(30), Priority: 3, Strategy: types.TruncateTail},
	}

	result, err := packer.Pack(blocks, 40)
	require.NoError(t, err)

	// 处理顺序为优先级降序：alpha(5) 先装入。
	require.Len(t, result.Included, 1)
	assert.Equal(t, "alpha", result.Included[0].Block.Name)
	assert.Equal(t, []string{"beta"}, result.Excluded)
	assert.Empty(t, result.TruncatedNames())
	assert.Equal(t, 10, result.Remaining)
}

// 剩余预算高于下限时截断当前块，其后的块全部排除。
func TestPack_TruncateThenStopProcessing(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	cfg := DefaultConfig()
	cfg.TruncateFloor = 20
	packer := NewPacker(cfg, tok, nil)

	blocks := []types.ContextBlock{
		{Name: "alpha", Content: words(100), Priority: 9, Strategy: types.TruncateTail},
		{Name: "beta", Content: words(10), Priority: 5, Strategy: types.TruncateTail},
		{Name: "gamma", Content: words(10), Priority: 1, Strategy: types.TruncateTail},
	}

	result, err := packer.Pack(blocks, 50)
	require.NoError(t, err)

	require.Len(t, result.Included, 1)
	assert.Equal(t, "alpha", result.Included[0].Block.Name)
	assert.True(t, result.Included[0].Truncated)
	// beta、gamma 即使单独放得下也被排除：截断后停止处理。
	assert.Equal(t, []string{"beta", "gamma"}, result.Excluded)
}

func TestPack_NegativeBudgetExcludesAll(t *testing.T) {
	tok := testutil.NewWordTokenizer(0)
	packer := NewPacker(DefaultConfig(), tok, nil)

	blocks := []types.ContextBlock{
		{Name: "diff", Content: words(10), Priority: 0, Strategy: types.TruncateTail},
		{Name: "alpha", Content: words(10), Priority: 5, Strategy: types.TruncateTail},
	}

	result, err := packer.Pack(blocks, -5)
	require.NoError(t, err)

	assert.Empty(t, result.Included)
	assert.ElementsMatch(t, []string{"diff", "alpha"}, result.Excluded)
}
