package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenTokenizer 为 OpenAI 系模型包装 tiktoken.
type TiktokenTokenizer struct {
	model     string
	encoding  string
	maxInput  int
	enc       *tiktoken.Tiktoken
	once      sync.Once
	initErr   error
}

// modelEncodings 将模型名称映射到其 tiktoken 编码和输入窗口大小。
var modelEncodings = map[string]struct {
	encoding string
	maxInput int
}{
	"gpt-4o":        {encoding: "o200k_base", maxInput: 128000},
	"gpt-4o-mini":   {encoding: "o200k_base", maxInput: 128000},
	"gpt-4-turbo":   {encoding: "cl100k_base", maxInput: 128000},
	"gpt-4":         {encoding: "cl100k_base", maxInput: 8192},
	"gpt-3.5-turbo": {encoding: "cl100k_base", maxInput: 16385},
}

// NewTiktokenTokenizer 为给定型号创建 tiktoken 分词器.
func NewTiktokenTokenizer(model string) (*TiktokenTokenizer, error) {
	info, ok := modelEncodings[model]
	if !ok {
		// 尝试前缀匹配 。
		for prefix, i := range modelEncodings {
			if strings.HasPrefix(model, prefix) {
				info = i
				ok = true
				break
			}
		}
	}

	if !ok {
		// 默认为 cl100k_base 与保守窗口。
		info = struct {
			encoding string
			maxInput int
		}{encoding: "cl100k_base", maxInput: 8192}
	}

	return &TiktokenTokenizer{
		model:    model,
		encoding: info.encoding,
		maxInput: info.maxInput,
	}, nil
}

// init lazily 初始化 tiktoken 编码(可以在第一次使用时下载数据).
func (t *TiktokenTokenizer) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

func (t *TiktokenTokenizer) CountTokens(text string) (int, error) {
	if err := t.init(); err != nil {
		return 0, err
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

func (t *TiktokenTokenizer) Encode(text string) ([]int, error) {
	if err := t.init(); err != nil {
		return nil, err
	}
	return t.enc.Encode(text, nil, nil), nil
}

func (t *TiktokenTokenizer) Decode(tokens []int) (string, error) {
	if err := t.init(); err != nil {
		return "", err
	}
	return t.enc.Decode(tokens), nil
}

func (t *TiktokenTokenizer) MaxInputTokens() int {
	return t.maxInput
}

func (t *TiktokenTokenizer) Name() string {
	return fmt.Sprintf("tiktoken[%s]", t.encoding)
}

// RegisterOpenAITokenizers 登记所有已知 OpenAI 模型的分词器。
func RegisterOpenAITokenizers() {
	for model := range modelEncodings {
		t, err := NewTiktokenTokenizer(model)
		if err != nil {
			continue
		}
		RegisterTokenizer(model, t)
	}
}
