package harden

import (
	"bytes"
	"context"
	"text/template"

	"github.com/pkg/errors"
)

const jailFragmentPath = "etc/fail2ban/jail.d/hardn.local"

// Ban after 5 failures within 10 minutes, for an hour. Loopback is exempt.
var jailFragment = template.Must(template.New("jail").Parse(`# Managed by hardn; re-runs overwrite this file.
[sshd]
enabled = true
port = {{.SSHPort}}
maxretry = 5
findtime = 600
bantime = 3600
ignoreip = 127.0.0.1/8 ::1
`))

// configureJail scopes the fail2ban sshd jail to the configured port and
// restarts the service so the policy is live now and survives reboot.
func (p *Pipeline) configureJail(ctx context.Context) error {
	var buf bytes.Buffer
	if err := jailFragment.Execute(&buf, p.cfg); err != nil {
		return errors.Wrap(err, "rendering jail fragment")
	}
	if err := p.writeFragment(jailFragmentPath, buf.String()); err != nil {
		return err
	}
	if err := p.run.Run(ctx, "systemctl", "enable", "fail2ban"); err != nil {
		return err
	}

	return p.run.Run(ctx, "systemctl", "restart", "fail2ban")
}
