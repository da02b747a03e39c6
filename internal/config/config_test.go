package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pmxinfo.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
check_textures = true
thumbnails = true
thumb_size = 64
watch_debounce = "1s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || !cfg.CheckTextures || !cfg.Thumbnails || cfg.ThumbSize != 64 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.WatchDebounce.Duration != time.Second {
		t.Errorf("debounce = %v", cfg.WatchDebounce)
	}

	cfg.Resolve(Flags{}, "/models/alicia/Alicia.pmx")
	if cfg.ThumbsDir != filepath.Join("/models/alicia", DefaultThumbsDir) {
		t.Errorf("thumbs dir = %q", cfg.ThumbsDir)
	}
	if lvl, err := cfg.Level(); err != nil || lvl != log.DebugLevel {
		t.Errorf("level = %v, %v", lvl, err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file: expected error")
	}
	if _, err := Load(writeConfig(t, `thumb_sise = 3`)); err == nil {
		t.Error("unknown key: expected error")
	}
	if _, err := Load(writeConfig(t, `watch_debounce = "soon"`)); err == nil {
		t.Error("bad duration: expected error")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		flags Flags
		want  Config
	}{
		{
			name: "defaults",
			want: Config{
				LogLevel:      DefaultLogLevel,
				ThumbSize:     DefaultThumbSize,
				WatchDebounce: Duration{DefaultWatchDebounce},
			},
		},
		{
			name:  "flags override file",
			cfg:   Config{LogLevel: "warn", ThumbSize: 32},
			flags: Flags{LogLevel: "error", ThumbSize: 256, Textures: true, ThumbsDir: "/tmp/out"},
			want: Config{
				LogLevel:      "error",
				CheckTextures: true,
				Thumbnails:    true,
				ThumbsDir:     "/tmp/out",
				ThumbSize:     256,
				WatchDebounce: Duration{DefaultWatchDebounce},
			},
		},
		{
			name: "thumbs dir without thumbnails",
			cfg:  Config{ThumbsDir: "previews"},
			want: Config{
				LogLevel:      DefaultLogLevel,
				ThumbSize:     DefaultThumbSize,
				WatchDebounce: Duration{DefaultWatchDebounce},
			},
		},
		{
			name: "relative thumbs dir",
			cfg:  Config{Thumbnails: true, ThumbsDir: "previews"},
			want: Config{
				LogLevel:      DefaultLogLevel,
				Thumbnails:    true,
				ThumbsDir:     filepath.Join("models", "previews"),
				ThumbSize:     DefaultThumbSize,
				WatchDebounce: Duration{DefaultWatchDebounce},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Resolve(tt.flags, filepath.Join("models", "a.pmx"))
			if cfg != tt.want {
				t.Errorf("got %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := Config{LogLevel: "loud"}
	if _, err := cfg.Level(); err == nil {
		t.Error("expected error")
	}
}
