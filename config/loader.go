// =============================================================================
// 📦 PromptPack 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("promptpack.yaml").
//	    WithEnvPrefix("PROMPTPACK").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/promptpack/prompt"
	"github.com/BaSui01/promptpack/types"
)

// Config 是 PromptPack 的完整配置结构
type Config struct {
	// Model 目标模型描述
	Model ModelConfig `yaml:"model" env:"MODEL"`

	// Pack 打包引擎配置
	Pack PackConfig `yaml:"pack" env:"PACK"`

	// Retry 溢出重试配置
	Retry RetryConfig `yaml:"retry" env:"RETRY"`

	// Log 日志配置
	Log LogConfig `yaml:"log" env:"LOG"`

	// Metrics 指标配置
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`
}

// ModelConfig 模型配置
type ModelConfig struct {
	// 模型名称
	Name string `yaml:"name" env:"NAME"`
	// 输入窗口上限（0 表示使用保守默认值）
	MaxInputTokens int `yaml:"max_input_tokens" env:"MAX_INPUT_TOKENS"`
	// 输出上限
	MaxOutputTokens int `yaml:"max_output_tokens" env:"MAX_OUTPUT_TOKENS"`
}

// PackConfig 打包引擎配置
type PackConfig struct {
	// 响应开销预留
	ReserveTokens int `yaml:"reserve_tokens" env:"RESERVE_TOKENS"`
	// processable 块的截断下限
	TruncateFloor int `yaml:"truncate_floor" env:"TRUNCATE_FLOOR"`
	// 自适应缩减的"缩或删"分界线
	MinReduceTokens int `yaml:"min_reduce_tokens" env:"MIN_REDUCE_TOKENS"`
	// 自适应缩减单步保留比例
	ReduceRatio float64 `yaml:"reduce_ratio" env:"REDUCE_RATIO"`
	// 强制保留块名单
	ForcedBlocks []string `yaml:"forced_blocks" env:"FORCED_BLOCKS"`
	// 主内容块名称
	PrimaryBlock string `yaml:"primary_block" env:"PRIMARY_BLOCK"`
}

// RetryConfig 重试配置
type RetryConfig struct {
	// 溢出重试上限
	MaxRetries int `yaml:"max_retries" env:"MAX_RETRIES"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// 输出格式: json, console
	Format string `yaml:"format" env:"FORMAT"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// 指标命名空间
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	def := prompt.DefaultConfig()
	return &Config{
		Model: ModelConfig{
			MaxInputTokens: types.DefaultInputTokens,
		},
		Pack: PackConfig{
			ReserveTokens:   def.ReserveTokens,
			TruncateFloor:   def.TruncateFloor,
			MinReduceTokens: def.MinReduceTokens,
			ReduceRatio:     def.ReduceRatio,
			ForcedBlocks:    def.ForcedNames,
			PrimaryBlock:    def.PrimaryName,
		},
		Retry: RetryConfig{
			MaxRetries: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "promptpack",
		},
	}
}

// ModelInfo 把模型配置转为引擎使用的描述符。
func (c *Config) ModelInfo() types.ModelInfo {
	return types.ModelInfo{
		Name: c.Model.Name,
		MaxTokens: types.TokenLimits{
			Input:  c.Model.MaxInputTokens,
			Output: c.Model.MaxOutputTokens,
		},
	}
}

// PromptConfig 把打包段转为 prompt.Config。
func (c *Config) PromptConfig() prompt.Config {
	return prompt.Config{
		ReserveTokens:   c.Pack.ReserveTokens,
		TruncateFloor:   c.Pack.TruncateFloor,
		MinReduceTokens: c.Pack.MinReduceTokens,
		ReduceRatio:     c.Pack.ReduceRatio,
		ForcedNames:     c.Pack.ForcedBlocks,
		PrimaryName:     c.Pack.PrimaryBlock,
	}
}

// =============================================================================
// 🔧 配置加载器
// =============================================================================

// Loader 配置加载器（Builder 模式）
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader 创建新的配置加载器
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "PROMPTPACK",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath 设置配置文件路径
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 设置环境变量前缀
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator 添加配置验证器
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load 加载配置
// 优先级: 默认值 → YAML 文件 → 环境变量
func (l *Loader) Load() (*Config, error) {
	// 1. 从默认值开始
	cfg := DefaultConfig()

	// 2. 如果指定了配置文件，从文件加载
	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// 3. 从环境变量覆盖
	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// 4. 运行验证器
	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

// loadFromFile 从 YAML 文件加载配置
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 文件不存在，使用默认值
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// loadFromEnv 从环境变量加载配置
func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv 递归设置结构体字段
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		// 如果是结构体，递归处理
		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

// setFieldValue 设置字段值
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(i)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// 支持逗号分隔的字符串切片
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad 加载配置，失败时 panic
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
