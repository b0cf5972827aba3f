package harden

import "context"

// prerequisites are the tools later steps drive. The package manager keeps
// this step idempotent.
var prerequisites = []string{
	"ufw",
	"fail2ban",
	"unattended-upgrades",
	"openssh-server",
	"ca-certificates",
}

// updateSystem refreshes the package index, applies every pending upgrade,
// installs the prerequisite tools, and drops unused packages. A failure here
// is fatal: hardening a broken base system is pointless.
func (p *Pipeline) updateSystem(ctx context.Context) error {
	commands := [][]string{
		{"update"},
		{"-y", "dist-upgrade"},
		append([]string{"-y", "install"}, prerequisites...),
		{"-y", "autoremove"},
	}
	for _, args := range commands {
		if err := p.run.Run(ctx, "apt-get", args...); err != nil {
			return err
		}
	}

	return nil
}
