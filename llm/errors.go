package llm

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BaSui01/promptpack/types"
)

// overflowPhrases 是各 Provider 上下文溢出错误消息的已知片段。
// 匹配不区分大小写。
var overflowPhrases = []string{
	"maximum context length",
	"context length exceeded",
	"context_length_exceeded",
	"exceeds token limit",
	"is too large",
	"input is too long",
	"prompt is too long",
	"too many tokens",
}

// IsContextOverflow 判断错误是否为 Provider 报告的上下文溢出。
// 优先检查结构化错误码与 HTTP 413，其次对错误文本做短语匹配。
func IsContextOverflow(err error) bool {
	if err == nil {
		return false
	}

	switch types.GetErrorCode(err) {
	case types.ErrContextOverflow:
		return true
	case types.ErrRequestTooLarge:
		// 已经判定为不可恢复，不再按溢出重试。
		return false
	}

	var e *types.Error
	if errors.As(err, &e) && e.HTTPStatus == http.StatusRequestEntityTooLarge {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range overflowPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
