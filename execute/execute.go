// Package execute runs the external system tools the hardening steps drive.
package execute

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/packethost/pkg/log"
	"github.com/pkg/errors"
)

var execlog log.Logger

func Init(l log.Logger) {
	execlog = l.Package("execute")
}

// Runner abstracts subprocess execution so steps can be exercised in tests
// without touching the host.
type Runner interface {
	// Run executes name with args. On a non-zero exit the returned error
	// carries the command line and the captured stderr.
	Run(ctx context.Context, name string, args ...string) error
	// Output is Run but also returns trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// Shell runs commands on the local host. Every command runs with
// DEBIAN_FRONTEND=noninteractive so apt and dpkg never stop for input.
type Shell struct{}

func (Shell) Run(ctx context.Context, name string, args ...string) error {
	_, err := shellRun(ctx, name, args)

	return err
}

func (Shell) Output(ctx context.Context, name string, args ...string) (string, error) {
	return shellRun(ctx, name, args)
}

func shellRun(ctx context.Context, name string, args []string) (string, error) {
	line := CommandLine(name, args...)
	execlog.With("cmd", line).Debug("running")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", errors.Wrap(err, line)
		}

		return "", errors.Wrapf(err, "%s: %s", line, msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// CommandLine renders name and args the way a shell user would type them.
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
