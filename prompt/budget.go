package prompt

import (
	"fmt"

	"github.com/BaSui01/promptpack/tokenizer"
	"github.com/BaSui01/promptpack/types"
)

// BudgetAllocator 计算系统提示与响应预留扣除后、留给用户内容的
// Token 预算。
type BudgetAllocator struct {
	reserve int
	tok     tokenizer.Tokenizer
}

// NewBudgetAllocator 创建预算分配器。
func NewBudgetAllocator(reserve int, tok tokenizer.Tokenizer) *BudgetAllocator {
	return &BudgetAllocator{reserve: reserve, tok: tok}
}

// Remaining 返回可用预算。结果可能为负或零，下游须把非正预算
// 视为"放不下任何内容"。
func (a *BudgetAllocator) Remaining(model types.ModelInfo, systemPrompt string) (int, error) {
	systemTokens, err := a.tok.CountTokens(systemPrompt)
	if err != nil {
		return 0, fmt.Errorf("count system prompt tokens: %w", err)
	}
	return model.InputLimit() - systemTokens - a.reserve, nil
}
