// Copyright (c) PromptPack Authors.
// Licensed under the MIT License.

/*
Package prompt 实现 Token 预算打包与自适应截断引擎。

# 概述

调用方把若干上下文块（diff、相关代码片段、提交历史、提醒指令等）
加入一个 Session，引擎在模型输入窗口扣除系统提示与响应预留后的
预算内，按优先级装入、截断或丢弃这些块，并以固定的规范顺序渲染
为一条 system 消息加一条 user 消息。

# 组件

  - BudgetAllocator — 计算用户内容可用的 Token 预算
  - partition       — 按强制保留名单切分 forced / processable 两组并排序
  - Truncator       — 单块截断（尾部 / 头部 / diff 感知三种策略）
  - Packer          — 先 forced 后 processable 的两趟装入
  - Assembler       — 规范顺序重排 + 带标签渲染
  - ReduceOnce      — Provider 报告溢出后的单步自适应缩减（纯函数）
  - Session         — 单次请求的打包会话（非并发安全）

# 排序约定

优先级数值越小越重要。forced 组按优先级升序处理（最重要优先），
processable 组按优先级降序处理；自适应缩减总是先动数值最大
（最不重要）的可截断块。
*/
package prompt
