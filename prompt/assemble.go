package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BaSui01/promptpack/llm"
)

// Assembler 把装入的块按固定的规范顺序重排并渲染为带标签的文本。
// 呈现顺序与打包优先级无关。
type Assembler struct {
	order []string
}

// NewAssembler 创建装配器。
func NewAssembler(order []string) *Assembler {
	return &Assembler{order: order}
}

// Assemble 产出一条 system 消息（原样的系统提示）和一条 user 消息
//（所有装入块的带标签拼接）。
func (a *Assembler) Assemble(systemPrompt string, included []PackedBlock) []llm.Message {
	ordered := a.reorder(included)

	parts := make([]string, 0, len(ordered))
	for _, p := range ordered {
		parts = append(parts, renderBlock(p))
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: strings.Join(parts, "\n\n")},
	}
}

// reorder 把块排到规范顺序；名单之外的块按名称字典序排在最后，
// 保证输出确定性。
func (a *Assembler) reorder(included []PackedBlock) []PackedBlock {
	rank := make(map[string]int, len(a.order))
	for i, name := range a.order {
		rank[name] = i
	}

	ordered := make([]PackedBlock, len(included))
	copy(ordered, included)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, iKnown := rank[ordered[i].Block.Name]
		rj, jKnown := rank[ordered[j].Block.Name]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return ordered[i].Block.Name < ordered[j].Block.Name
		}
	})
	return ordered
}

// renderBlock 用命名的开闭标签包裹块内容；被截断的块带
// truncated="true" 标记。
func renderBlock(p PackedBlock) string {
	name := p.Block.Name
	if p.Truncated {
		return fmt.Sprintf("<%s truncated=\"true\">\n%s\n</%s>", name, p.Content, name)
	}
	return fmt.Sprintf("<%s>\n%s\n</%s>", name, p.Content, name)
}
