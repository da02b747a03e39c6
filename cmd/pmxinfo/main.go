// pmxinfo 打印 PMX 模型的概要, 可以检查材质引用的纹理并生成 WebP 缩略图.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	pmx "github.com/toy80/pmxscan"
	"github.com/toy80/pmxscan/internal/config"
	"github.com/toy80/pmxscan/internal/summary"
	"github.com/toy80/pmxscan/internal/texture"
	"github.com/toy80/pmxscan/internal/watch"
)

var errTextures = errors.New("texture check failed")

func main() {
	configFile := flag.String("config", "", "Path to a TOML config file")
	jsonOut := flag.Bool("json", false, "Print the summary as JSON")
	textures := flag.Bool("textures", false, "Check that every referenced texture exists and decodes")
	thumbsDir := flag.String("thumbs", "", "Write WebP thumbnails of the textures into this directory")
	thumbSize := flag.Int("thumb-size", 0, "Thumbnail size in pixels (default: 128)")
	watchFile := flag.Bool("watch", false, "Check the model again every time the file changes")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default: info)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] model.pmx\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		LogLevel:  *logLevel,
		Textures:  *textures,
		ThumbsDir: *thumbsDir,
		ThumbSize: *thumbSize,
	}, path)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "pmxinfo",
	})
	lvl, err := cfg.Level()
	if err != nil {
		logger.Fatal("bad config", "err", err)
	}
	logger.SetLevel(lvl)

	a := &app{cfg: cfg, json: *jsonOut, out: os.Stdout, logger: logger}

	if !*watchFile {
		if err := a.run(path); err != nil {
			logger.Error("failed", "path", path, "err", err)
			os.Exit(1)
		}
		return
	}

	// 监视模式下出错只打日志, 等下一次修改
	if err := a.run(path); err != nil {
		logger.Error("failed", "path", path, "err", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = watch.File(ctx, path, cfg.WatchDebounce.Duration, logger, func() {
		logger.Info("reloading", "path", path)
		if err := a.run(path); err != nil {
			logger.Error("failed", "path", path, "err", err)
		}
	})
	if err != nil {
		logger.Fatal("watch", "err", err)
	}
}

type app struct {
	cfg    config.Config
	json   bool
	out    io.Writer
	logger *log.Logger
}

func (a *app) run(path string) error {
	start := time.Now()
	r, err := pmx.Open(path, pmx.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.logger.Debug("scanned", "path", path, "bytes", r.Size(), "elapsed", time.Since(start))

	s := summary.New(r)
	s.Path = path
	for _, w := range s.Warnings {
		a.logger.Warn(w)
	}
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(s)
	} else {
		err = s.WriteText(a.out)
	}
	if err != nil {
		return err
	}

	if !a.cfg.CheckTextures && !a.cfg.Thumbnails {
		return nil
	}
	dir := filepath.Dir(path)
	textures := r.Textures().Collect()
	materials := r.Materials().Collect()

	if a.cfg.CheckTextures {
		problems := texture.Check(dir, textures, materials)
		for _, p := range problems {
			a.logger.Warn("texture", "material", p.Material, "slot", p.Slot, "name", p.Name, "err", p.Err)
		}
		if len(problems) > 0 {
			err = fmt.Errorf("%w: %d problems", errTextures, len(problems))
		} else {
			a.logger.Info("textures ok", "count", len(textures))
		}
	}
	if a.cfg.Thumbnails {
		a.thumbnails(dir, textures, materials)
	}
	return err
}

// thumbnails 给材质引用到的每个纹理生成一张缩略图, 读不出来的跳过
func (a *app) thumbnails(dir string, textures []string, materials []pmx.Material) {
	done := make(map[pmx.Index]bool)
	for _, ref := range texture.Refs(materials) {
		i, _ := ref.Index.Get()
		if done[ref.Index] || i >= len(textures) {
			continue
		}
		done[ref.Index] = true

		name := textures[i]
		src, err := texture.Resolve(dir, name)
		if err == nil {
			err = a.thumbnail(src, thumbName(i, name))
		}
		if err != nil {
			a.logger.Warn("thumbnail", "texture", name, "err", err)
		}
	}
}

func (a *app) thumbnail(src, name string) error {
	img, err := texture.Load(src)
	if err != nil {
		return err
	}
	dst := filepath.Join(a.cfg.ThumbsDir, name)
	if err := texture.SaveWebP(dst, texture.Thumbnail(img, a.cfg.ThumbSize)); err != nil {
		return err
	}
	a.logger.Debug("thumbnail", "src", src, "dst", dst)
	return nil
}

// thumbName 不同目录下可能有同名纹理, 文件名前加上纹理序号
func thumbName(i int, name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	return fmt.Sprintf("%03d_%s.webp", i, strings.TrimSuffix(base, filepath.Ext(base)))
}
