// Copyright (c) PromptPack Authors.
// Licensed under the MIT License.

/*
Package types 提供 PromptPack 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 prompt、llm、generate、
config 等上层模块提供统一的类型契约。所有跨包共享的结构体、枚举和
错误码均定义于此，以避免循环依赖。

# 核心类型

  - ContextBlock        — 一个候选的提示内容单元（名称 + 优先级 + 截断策略）
  - TruncateStrategy    — 块不适配时的截断策略（尾部 / 头部 / diff 感知）
  - ModelInfo           — 模型描述符（输入 / 输出 Token 上限）
  - Error / ErrorCode   — 结构化错误体系，含 Retryable、Cause 链

# 主要能力

  - 错误工具链：GetErrorCode / IsErrorCode / IsRetryable
  - 常用错误构造：NewContextOverflowError / NewRequestTooLargeError
  - ModelInfo.InputLimit：缺省模型窗口的保守下限处理
*/
package types
