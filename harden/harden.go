// Package harden applies the VPS hardening pipeline to the local host. Every
// step converges the host toward the same end state, so a partial run is
// repaired by simply running the pipeline again.
package harden

import (
	"context"
	"os"
	"path/filepath"

	"github.com/packethost/pkg/log"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/ubuntusec/hardn/conf"
	"github.com/ubuntusec/hardn/execute"
)

var hardenlog log.Logger

func Init(l log.Logger) {
	hardenlog = l.Package("harden")
}

const tracerName = "github.com/ubuntusec/hardn/harden"

// Pipeline applies the ordered hardening steps against one host.
type Pipeline struct {
	cfg  conf.Config
	run  execute.Runner
	root string
}

func New(c conf.Config, r execute.Runner) *Pipeline {
	return &Pipeline{cfg: c, run: r, root: "/"}
}

// WithRoot returns a copy that writes configuration fragments under dir
// instead of the filesystem root. Tests use this; production uses "/".
func (p *Pipeline) WithRoot(dir string) *Pipeline {
	q := *p
	q.root = dir

	return &q
}

type step struct {
	name string
	run  func(context.Context) error
}

func (p *Pipeline) steps() []step {
	return []step{
		{"system update", p.updateSystem},
		{"admin account", p.provisionAdmin},
		{"root lockout", p.lockRoot},
		{"ssh daemon", p.hardenSSHD},
		{"firewall", p.configureFirewall},
		{"brute-force jail", p.configureJail},
		{"unattended upgrades", p.enableUnattendedUpgrades},
		{"kernel network", p.applySysctl},
	}
}

// Apply runs every step in order and stops at the first failure. There is no
// rollback: completed steps stay applied and a re-run converges the rest.
func (p *Pipeline) Apply(ctx context.Context) error {
	tracer := otel.Tracer(tracerName)
	for _, s := range p.steps() {
		sctx, span := tracer.Start(ctx, s.name)
		hardenlog.With("step", s.name).Info("applying")
		err := s.run(sctx)
		span.End()
		if err != nil {
			return errors.Wrap(err, s.name)
		}
	}

	return nil
}

// writeFragment replaces a tool-owned configuration file wholesale so
// re-runs converge instead of appending. path is relative to the root.
func (p *Pipeline) writeFragment(path, content string) error {
	full := filepath.Join(p.root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	hardenlog.With("path", "/"+path).Debug("wrote fragment")

	return nil
}
