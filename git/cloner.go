package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/fwojciec/docvault"
)

var _ docvault.Cloner = (*CommandCloner)(nil)

// CommandCloner implements docvault.Cloner by running the git binary.
type CommandCloner struct {
	// Binary is the git executable. Defaults to "git" on PATH.
	Binary string
}

// NewCommandCloner creates a CommandCloner that uses git from PATH.
func NewCommandCloner() *CommandCloner {
	return &CommandCloner{Binary: "git"}
}

// Clone runs git clone --depth 1 --branch branch repoURL dir.
func (c *CommandCloner) Clone(ctx context.Context, repoURL, branch, dir string) error {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, "clone", "--depth", "1", "--branch", branch, repoURL, dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return docvault.Errorf(docvault.ECLONE, "git clone %s (%s) failed: %s", repoURL, branch, msg)
	}
	return nil
}
