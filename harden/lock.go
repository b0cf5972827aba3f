package harden

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// lockRoot disables password authentication for root. A root account that is
// already locked counts as success.
func (p *Pipeline) lockRoot(ctx context.Context) error {
	err := p.run.Run(ctx, "passwd", "-l", "root")
	if err == nil {
		return nil
	}
	out, serr := p.run.Output(ctx, "passwd", "-S", "root")
	if serr == nil {
		// "root L 2026-01-02 ..." - the second field is the lock state.
		if f := strings.Fields(out); len(f) > 1 && f[1] == "L" {
			hardenlog.Info("root account already locked")

			return nil
		}
	}

	return errors.Wrap(err, "locking root password")
}
