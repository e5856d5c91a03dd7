// Copyright (c) PromptPack Authors.
// Licensed under the MIT License.

/*
Package testutil 提供 PromptPack 测试的共享工具。

# 核心能力

  - WordTokenizer: 以空白分段的无损分词器，一个词≈一个 Token，
    让测试可以精确构造指定 Token 数的内容，且无需下载任何编码数据
  - ScriptedProvider: 按脚本逐次返回预设结果的假 Provider，
    支持错误注入，用于重试编排测试
  - CollectChunks: 聚合流式响应内容

# 使用示例

	tok := testutil.NewWordTokenizer(200)
	provider := testutil.NewScriptedProvider(
	    testutil.StreamOutcome{Err: errors.New("context length exceeded")},
	    testutil.StreamOutcome{Chunks: []string{"ok"}},
	)
*/
package testutil
