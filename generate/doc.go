// Copyright (c) PromptPack Authors.
// Licensed under the MIT License.

/*
Package generate 实现重试编排：构建 → 发送 → 流式输出的状态环。

Provider 报告上下文溢出时，编排器对会话执行一步自适应缩减后
重建消息再发，最多重试到可配置的上限；缩减无从下手或上限耗尽
时以 REQUEST_TOO_LARGE 致命失败。其他任何 Provider 错误不重试、
原样向上传播。

重试环严格串行，无并行投机重试；取消依赖 ctx 与调用方停止消费
返回的流。
*/
package generate
