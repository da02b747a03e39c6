package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/toy80/pmxscan/internal/config"
)

func TestThumbName(t *testing.T) {
	tests := []struct {
		i    int
		name string
		want string
	}{
		{0, `tex\body.png`, "000_body.webp"},
		{12, "hair.tga", "012_hair.webp"},
		{3, `a\b\toon.face.bmp`, "003_toon.face.webp"},
	}
	for _, tt := range tests {
		if got := thumbName(tt.i, tt.name); got != tt.want {
			t.Errorf("thumbName(%d, %q) = %q, want %q", tt.i, tt.name, got, tt.want)
		}
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	a := &app{out: &out, logger: log.New(io.Discard)}
	a.cfg.Resolve(config.Flags{}, "")

	dir := t.TempDir()
	if err := a.run(filepath.Join(dir, "missing.pmx")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}

	bad := filepath.Join(dir, "bad.pmx")
	if err := os.WriteFile(bad, []byte("PMD model"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := a.run(bad); err == nil {
		t.Error("bad file: expected error")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
