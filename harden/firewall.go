package harden

import (
	"context"
	"strconv"
)

// configureFirewall resets ufw and rebuilds a default-deny-inbound posture.
// The SSH rate-limit rule is added before enforcement is switched on so the
// port is never exposed unfiltered.
func (p *Pipeline) configureFirewall(ctx context.Context) error {
	// Old state is cleared unconditionally; a firewall with nothing to
	// disable or reset is not an error.
	if err := p.run.Run(ctx, "ufw", "--force", "disable"); err != nil {
		hardenlog.With("error", err).Info("ufw disable failed, assuming no active firewall")
	}
	if err := p.run.Run(ctx, "ufw", "--force", "reset"); err != nil {
		hardenlog.With("error", err).Info("ufw reset failed, assuming no prior rules")
	}

	sshPort := strconv.Itoa(p.cfg.SSHPort)
	rules := [][]string{
		{"default", "deny", "incoming"},
		{"default", "allow", "outgoing"},
		{"limit", sshPort + "/tcp"},
	}
	if p.cfg.AllowWeb {
		rules = append(rules,
			[]string{"allow", "80/tcp"},
			[]string{"allow", "443/tcp"},
		)
	}
	rules = append(rules,
		[]string{"logging", "medium"},
		[]string{"--force", "enable"},
	)
	for _, args := range rules {
		if err := p.run.Run(ctx, "ufw", args...); err != nil {
			return err
		}
	}

	return nil
}
