package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/pkg/metrics"
)

// Watcher 监听目录文件变化，重新构建目录并通过 OnReload 整体替换。
//
// 监听的是文件所在目录而不是文件本身：编辑器和部署工具通常用
// “写临时文件再 rename” 的方式替换文件，直接监听文件会丢失后续事件。
// 构建失败时保留旧快照，只记录日志。
type Watcher struct {
	Path     string
	OnReload func(*Catalog) error
	Debounce time.Duration // 合并短时间内的多次写入，默认 200ms
	Logger   zerolog.Logger
}

// Run 阻塞运行直到 ctx 结束。
func (w *Watcher) Run(ctx context.Context) (err error) {
	if w.OnReload == nil {
		return fmt.Errorf("catalog watcher: OnReload is required")
	}
	path, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve catalog path: %w", err)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch catalog dir: %w", err)
	}
	w.Logger.Info().Str("path", path).Msg("watching catalog")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn().Err(werr).Msg("catalog watcher error")
		case <-timer.C:
			w.reload(path)
		}
	}
}

func (w *Watcher) reload(path string) {
	start := time.Now()
	cat, err := LoadFile(path)
	if err == nil {
		err = w.OnReload(cat)
	}
	if err != nil {
		metrics.ObserveReload(0, err)
		w.Logger.Error().Err(err).Str("path", path).Msg("catalog reload failed, keeping previous snapshot")
		return
	}
	metrics.ObserveReload(cat.Len(), nil)
	w.Logger.Info().
		Int("games", cat.Len()).
		Uint64("version", cat.Version()).
		Dur("took", time.Since(start)).
		Msg("catalog reloaded")
}
