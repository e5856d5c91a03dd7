package prompt

import "github.com/BaSui01/promptpack/types"

// Config 配置打包引擎的各项阈值与块策略。
type Config struct {
	// ReserveTokens 为响应开销预留的 Token 数。
	ReserveTokens int `json:"reserve_tokens" yaml:"reserve_tokens"`

	// TruncateFloor 是 processable 块截断的最小剩余预算：
	// 剩余预算不超过该值时直接排除而不是截断。
	TruncateFloor int `json:"truncate_floor" yaml:"truncate_floor"`

	// MinReduceTokens 是自适应缩减中"缩 70% 还是整块删除"的分界线。
	MinReduceTokens int `json:"min_reduce_tokens" yaml:"min_reduce_tokens"`

	// ReduceRatio 是自适应缩减单步保留的 Token 比例。
	ReduceRatio float64 `json:"reduce_ratio" yaml:"reduce_ratio"`

	// ForcedNames 是强制保留块的名称集合：这些块不会被整体排除
	//（仍可能被截断）。
	ForcedNames []string `json:"forced_names" yaml:"forced_names"`

	// PrimaryName 指定承载主要变更内容的块：它是唯一一个在 forced
	// 趟中允许被截断到剩余预算的块。
	PrimaryName string `json:"primary_name" yaml:"primary_name"`

	// CanonicalOrder 是呈现顺序；不在列表中的块按名称字典序排在最后。
	CanonicalOrder []string `json:"canonical_order" yaml:"canonical_order"`
}

// DefaultConfig 返回保守的默认配置。
func DefaultConfig() Config {
	return Config{
		ReserveTokens:   100,
		TruncateFloor:   100,
		MinReduceTokens: 100,
		ReduceRatio:     0.7,
		ForcedNames:     []string{types.BlockDiff, types.BlockReminder},
		PrimaryName:     types.BlockDiff,
		CanonicalOrder: []string{
			types.BlockUserHistory,
			types.BlockRecentHistory,
			types.BlockRelatedSnippets,
			types.BlockOriginalCode,
			types.BlockDiff,
			types.BlockReminder,
			types.BlockCustomInstructions,
		},
	}
}

// forcedSet 把 ForcedNames 转成查找集合。
func (c Config) forcedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ForcedNames))
	for _, name := range c.ForcedNames {
		set[name] = struct{}{}
	}
	return set
}

// normalize 填补零值，保证引擎内部不出现除零或负阈值。
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.ReserveTokens <= 0 {
		c.ReserveTokens = def.ReserveTokens
	}
	if c.TruncateFloor <= 0 {
		c.TruncateFloor = def.TruncateFloor
	}
	if c.MinReduceTokens <= 0 {
		c.MinReduceTokens = def.MinReduceTokens
	}
	if c.ReduceRatio <= 0 || c.ReduceRatio >= 1 {
		c.ReduceRatio = def.ReduceRatio
	}
	if len(c.ForcedNames) == 0 {
		c.ForcedNames = def.ForcedNames
	}
	if c.PrimaryName == "" {
		c.PrimaryName = def.PrimaryName
	}
	if len(c.CanonicalOrder) == 0 {
		c.CanonicalOrder = def.CanonicalOrder
	}
	return c
}
