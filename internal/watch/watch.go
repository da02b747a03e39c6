// Package watch 在模型文件改变后通知调用者重新读取.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// File 监视 path, 文件被写入或重新创建后, 等 debounce 时间内没有新的变化再调用 onChange.
// 监视的是所在目录, 编辑器先删除再改名保存的情况也能收到通知.
// ctx 取消后返回 nil.
func File(ctx context.Context, path string, debounce time.Duration, logger *log.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: %s: %w", path, err)
	}
	logger.Debug("watching", "path", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			logger.Debug("file event", "op", e.Op.String(), "path", e.Name)
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)

		case <-timer.C:
			onChange()

		case <-ctx.Done():
			return nil
		}
	}
}
