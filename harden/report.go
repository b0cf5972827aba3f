package harden

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Report prints the post-run summary. It only formats configuration that has
// already been applied, so it has no failure mode of its own.
func (p *Pipeline) Report(w io.Writer) {
	web := "80/443 closed"
	if p.cfg.AllowWeb {
		web = "80/443 open"
	}
	key := "installed"
	if p.cfg.SSHPublicKey == "" {
		key = "NOT INSTALLED (no key supplied)"
	}

	fmt.Fprintf(w, "\nHardening complete.\n\n")
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "  ssh\tport %d, key-only, root login disabled\n", p.cfg.SSHPort)
	fmt.Fprintf(tw, "  admin user\t%s (groups %s, %s), key %s\n", p.cfg.AdminUser, adminGroup, sshGroup, key)
	fmt.Fprintf(tw, "  firewall\tdeny inbound, allow outbound, ssh rate-limited, %s\n", web)
	fmt.Fprintf(tw, "  fail2ban\tsshd jail on port %d (5 failures / 600s, 3600s ban)\n", p.cfg.SSHPort)
	fmt.Fprintf(tw, "  upgrades\tunattended security upgrades on, reboot 03:45 if required\n")
	tw.Flush()
	fmt.Fprintf(w, "\nVerify you can log in as %s on port %d before closing this session.\n", p.cfg.AdminUser, p.cfg.SSHPort)
}
