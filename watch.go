package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch 监听 path 所在目录，path 被写入、创建或改名时调用 rebuild，直到 ctx 结束。
// 监听目录而不是文件本身，因为很多编辑器保存时会替换文件。
func watch(ctx context.Context, path string, logger *slog.Logger, rebuild func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("监听目录 %s 失败: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := rebuild(); err != nil {
				logger.Error("rebuild failed", slog.String("file", path), slog.String("err", err.Error()))
				continue
			}
			logger.Info("rebuilt", slog.String("file", path))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.String("err", err.Error()))
		}
	}
}
