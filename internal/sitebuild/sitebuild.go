// Package sitebuild invokes an external static site builder over a written
// document set.
package sitebuild

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// SkipEnv disables every builder invocation when set to "1".
const SkipEnv = "DUMPSITE_SKIP_SITE_BUILD"

// Builder runs Command with Args inside the site output directory.
type Builder struct {
	Command string
	Args    []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Enabled reports whether a builder is configured and not disabled by the
// environment.
func (b Builder) Enabled() bool {
	return b.Command != "" && os.Getenv(SkipEnv) != "1"
}

// Run executes the builder in dir.
func (b Builder) Run(ctx context.Context, dir string) error {
	if !b.Enabled() {
		return nil
	}
	path, err := exec.LookPath(b.Command)
	if err != nil {
		return fmt.Errorf("site builder %q not found: %w", b.Command, err)
	}
	cmd := exec.CommandContext(ctx, path, b.Args...)
	cmd.Dir = dir
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stderr
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	slog.Info("Running site builder", slog.String("command", b.Command), logfields.Path(dir))
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("site builder failed: %w", err)
	}
	slog.Info("Site builder finished", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}
