package prompt

import (
	"sort"

	"github.com/BaSui01/promptpack/types"
)

// partition 把块集合切分为 forced（名称在强制保留名单中）和
// processable（其余）两组。
//
// forced 按优先级升序（最重要优先）；processable 按优先级降序。
// 这组不对称排序是既定装入顺序，测试依赖它，勿改。
func partition(blocks []types.ContextBlock, forced map[string]struct{}) (forcedBlocks, processable []types.ContextBlock) {
	for _, b := range blocks {
		if _, ok := forced[b.Name]; ok {
			forcedBlocks = append(forcedBlocks, b)
		} else {
			processable = append(processable, b)
		}
	}

	sort.SliceStable(forcedBlocks, func(i, j int) bool {
		return forcedBlocks[i].Priority < forcedBlocks[j].Priority
	})
	sort.SliceStable(processable, func(i, j int) bool {
		return processable[i].Priority > processable[j].Priority
	})
	return forcedBlocks, processable
}
