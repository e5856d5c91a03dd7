package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Pack.ReserveTokens)
	assert.Equal(t, 100, cfg.Pack.TruncateFloor)
	assert.Equal(t, 0.7, cfg.Pack.ReduceRatio)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 8192, cfg.Model.MaxInputTokens)
	assert.Contains(t, cfg.Pack.ForcedBlocks, "diff")
	assert.Equal(t, "diff", cfg.Pack.PrimaryBlock)
}

func TestLoader_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "promptpack.yaml")
	data := `
model:
  name: gpt-4o
  max_input_tokens: 128000
pack:
  reserve_tokens: 200
retry:
  max_retries: 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("PROMPTPACK_PACK_RESERVE_TOKENS", "250")
	t.Setenv("PROMPTPACK_PACK_FORCED_BLOCKS", "diff, reminder, custom_instructions")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	// YAML 覆盖默认值
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, 128000, cfg.Model.MaxInputTokens)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)

	// 环境变量覆盖 YAML
	assert.Equal(t, 250, cfg.Pack.ReserveTokens)
	assert.Equal(t, []string{"diff", "reminder", "custom_instructions"}, cfg.Pack.ForcedBlocks)

	// 未触及的字段保持默认
	assert.Equal(t, 100, cfg.Pack.TruncateFloor)
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Pack, cfg.Pack)
}

func TestConfig_Conversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Name = "gpt-4"
	cfg.Model.MaxOutputTokens = 4096

	info := cfg.ModelInfo()
	assert.Equal(t, "gpt-4", info.Name)
	assert.Equal(t, 8192, info.InputLimit())
	assert.Equal(t, 4096, info.MaxTokens.Output)

	pc := cfg.PromptConfig()
	assert.Equal(t, cfg.Pack.ReserveTokens, pc.ReserveTokens)
	assert.Equal(t, cfg.Pack.PrimaryBlock, pc.PrimaryName)
}

func TestLogConfig_BuildLogger(t *testing.T) {
	logger, err := (LogConfig{Level: "debug", Format: "json"}).BuildLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = (LogConfig{Level: "nope"}).BuildLogger()
	assert.Error(t, err)
}
