// Copyright (c) PromptPack Authors.
// Licensed under the MIT License.

// Package tokenizer 提供统一的 Token 计数与编码接口。
//
// 打包引擎的所有 Token 运算（预算计算、按 Token 截断）都经由
// Tokenizer 接口完成：OpenAI 系模型使用 tiktoken 精确编码，
// 未注册的模型回退到基于字符的估算器（中英文分别计算）。
// 估算器不支持 Decode，调用方需要在截断路径上自行降级。
package tokenizer
