package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type config struct {
	// adminUser is the login name of the administrative account.
	adminUser string
	// sshPublicKey is the authorized_keys line installed for the admin user.
	sshPublicKey string
	// sshPort is the port the hardened SSH daemon listens on.
	sshPort int
	// allowWeb is the yes/no token controlling inbound web ports.
	allowWeb string
	// logLevel is the log level for hardn.
	logLevel string
}

func adminFlags(c *config, fs *flag.FlagSet) {
	fs.StringVar(&c.adminUser, "admin-user", "deploy", "[admin] login name of the administrative account")
	fs.StringVar(&c.sshPublicKey, "ssh-public-key", "", "[admin] authorized_keys line installed for the admin account")
}

func sshFlags(c *config, fs *flag.FlagSet) {
	fs.IntVar(&c.sshPort, "ssh-port", 22, "[ssh] port the hardened SSH daemon listens on")
}

func firewallFlags(c *config, fs *flag.FlagSet) {
	fs.StringVar(&c.allowWeb, "allow-web", "yes", "[firewall] yes/no, permit inbound web traffic on ports 80 and 443")
}

func setFlags(c *config, fs *flag.FlagSet) {
	fs.StringVar(&c.logLevel, "log-level", "info", "log level (debug, info)")
	adminFlags(c, fs)
	sshFlags(c, fs)
	firewallFlags(c, fs)
}

func newCLI(cfg *config, fs *flag.FlagSet) *ffcli.Command {
	setFlags(cfg, fs)

	return &ffcli.Command{
		Name:       name,
		ShortUsage: name + " [flags]",
		LongHelp:   "Hardens a fresh Ubuntu VPS: patches the system, provisions a restricted\nadmin account, locks root, rewrites the SSH daemon config, rebuilds the\nfirewall, jails brute-force sources, and enables unattended upgrades.\nEvery flag also resolves from a HARDN_* environment variable.",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(strings.ToUpper(name))},
		UsageFunc:  customUsageFunc,
		Exec: func(ctx context.Context, _ []string) error {
			explicit := map[string]bool{}
			fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

			return run(ctx, cfg, explicit)
		},
	}
}

// customUsageFunc aligns flag help with their defaults, one flag per line.
func customUsageFunc(c *ffcli.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "USAGE\n")
	fmt.Fprintf(&b, "  %s\n", c.ShortUsage)
	fmt.Fprintf(&b, "\n")
	if c.LongHelp != "" {
		fmt.Fprintf(&b, "%s\n\n", c.LongHelp)
	}

	fmt.Fprintf(&b, "FLAGS\n")
	tw := tabwriter.NewWriter(&b, 0, 2, 2, ' ', 0)
	c.FlagSet.VisitAll(func(f *flag.Flag) {
		if f.DefValue != "" {
			fmt.Fprintf(tw, "  -%s\t%s (default %q)\n", f.Name, f.Usage, f.DefValue)
		} else {
			fmt.Fprintf(tw, "  -%s\t%s\n", f.Name, f.Usage)
		}
	})
	tw.Flush()

	return strings.TrimSpace(b.String()) + "\n"
}
