package session

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Dispatcher hands finished files to the media library application. Every
// step is best-effort: a failed import is logged and never affects the
// outcome of the operation that produced the files.
type Dispatcher struct {
	app   string
	delay time.Duration
	log   *zap.SugaredLogger

	// Overridable for testing.
	importCommand func(path string) *exec.Cmd
	revealCommand func() *exec.Cmd
}

func NewDispatcher(app string, delay time.Duration) *Dispatcher {
	d := &Dispatcher{
		app:   app,
		delay: delay,
		log:   zap.S().Named("dispatcher"),
	}
	switch runtime.GOOS {
	case "darwin":
		d.importCommand = func(path string) *exec.Cmd {
			return exec.Command("open", "-a", d.app, path)
		}
		d.revealCommand = func() *exec.Cmd {
			return exec.Command("open", "-a", d.app)
		}
	case "linux":
		d.importCommand = func(path string) *exec.Cmd {
			return exec.Command("xdg-open", path)
		}
	}
	return d
}

// Dispatch asynchronously opens each file in the library application, then
// after a short pause brings the application to the foreground.
func (d *Dispatcher) Dispatch(ctx context.Context, files []string) {
	go d.dispatch(ctx, files)
}

func (d *Dispatcher) dispatch(ctx context.Context, files []string) {
	if d.importCommand == nil {
		d.log.Debugw("no library application on this platform", "files", len(files))
		return
	}
	imported := 0
	for _, f := range files {
		if err := d.importCommand(f).Run(); err != nil {
			d.log.Warnw("library import failed", "file", f, "error", err)
			continue
		}
		imported++
	}
	if imported == 0 || d.revealCommand == nil {
		return
	}
	select {
	case <-time.After(d.delay):
	case <-ctx.Done():
		return
	}
	if err := d.revealCommand().Run(); err != nil {
		d.log.Warnw("failed to foreground library application", "error", err)
	}
}
