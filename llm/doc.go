// Copyright (c) PromptPack Authors.
// Licensed under the MIT License.

/*
Package llm 定义与下游 AI Provider 的接口边界。

打包引擎本身不做任何网络调用；它只依赖这里的 Provider 接口
（流式聊天）与错误分类能力（区分"上下文过长"与其他错误）。
具体的 Provider 实现（HTTP 客户端、SSE 解析等）由宿主系统提供。
*/
package llm
