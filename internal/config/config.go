// Package config 读取 pmxinfo 的 TOML 配置文件.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// Config pmxinfo 的全部设置. 文件里没写的字段保持零值, 由 Resolve 补上默认值.
type Config struct {
	LogLevel string `toml:"log_level"`

	// 纹理检查和缩略图
	CheckTextures bool   `toml:"check_textures"`
	Thumbnails    bool   `toml:"thumbnails"`
	ThumbsDir     string `toml:"thumbs_dir"`
	ThumbSize     int    `toml:"thumb_size"`

	// 文件变化后等多久再重新读取
	WatchDebounce Duration `toml:"watch_debounce"`
}

// Duration 在 TOML 里写成 "300ms" 这样的字符串
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const (
	DefaultLogLevel      = "info"
	DefaultThumbSize     = 128
	DefaultThumbsDir     = "thumbs"
	DefaultWatchDebounce = 200 * time.Millisecond
)

// Load 读取并解析 path. 未知字段视为错误, 避免拼错的键被悄悄忽略.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags 命令行参数, 非零值覆盖配置文件
type Flags struct {
	LogLevel  string
	Textures  bool
	ThumbsDir string
	ThumbSize int
}

// Resolve 用命令行参数覆盖配置, 再给空字段填默认值.
// 不生成缩略图时 ThumbsDir 为空, 相对的缩略图目录按模型文件所在目录解析.
func (c *Config) Resolve(flags Flags, modelPath string) {
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Textures {
		c.CheckTextures = true
	}
	if flags.ThumbsDir != "" {
		c.Thumbnails = true
		c.ThumbsDir = flags.ThumbsDir
	}
	if flags.ThumbSize > 0 {
		c.ThumbSize = flags.ThumbSize
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ThumbSize <= 0 {
		c.ThumbSize = DefaultThumbSize
	}
	if c.WatchDebounce.Duration <= 0 {
		c.WatchDebounce.Duration = DefaultWatchDebounce
	}
	if !c.Thumbnails {
		c.ThumbsDir = ""
		return
	}
	if c.ThumbsDir == "" {
		c.ThumbsDir = DefaultThumbsDir
	}
	if !filepath.IsAbs(c.ThumbsDir) && modelPath != "" {
		c.ThumbsDir = filepath.Join(filepath.Dir(modelPath), c.ThumbsDir)
	}
}

// Level 解析 LogLevel, 不认识的级别返回错误
func (c *Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
