// Package imaging runs an external image re-encoder over copied media.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Encoder re-encodes the image at src into dst.
type Encoder interface {
	Encode(ctx context.Context, src, dst string) error
}

// Command invokes `<Path> <Args...> <src> <dst>`.
type Command struct {
	Path string
	Args []string
}

// NewCommand resolves name on PATH.
func NewCommand(name string, args []string) (*Command, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("image encoder %q not found: %w", name, err)
	}
	return &Command{Path: path, Args: args}, nil
}

// Encode runs the command. Its combined output is included in the error.
func (c *Command) Encode(ctx context.Context, src, dst string) error {
	args := make([]string, 0, len(c.Args)+2)
	args = append(args, c.Args...)
	args = append(args, src, dst)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("image encoder failed: %w", err)
		}
		return fmt.Errorf("image encoder failed: %w: %s", err, msg)
	}
	return nil
}
