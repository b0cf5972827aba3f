package harden

import (
	"bytes"
	"context"
	"text/template"

	"github.com/pkg/errors"
)

// sshd takes the first value it sees for a keyword, so the fragment has to
// sort ahead of the distro drop-ins (Ubuntu ships 50-cloud-init.conf with
// PasswordAuthentication yes).
const sshdFragmentPath = "etc/ssh/sshd_config.d/00-hardn.conf"

// Key-only authentication, root shut out, and login restricted to the two
// groups the account step establishes.
var sshdFragment = template.Must(template.New("sshd").Parse(`# Managed by hardn; re-runs overwrite this file.
Port {{.SSHPort}}
PermitRootLogin no
PasswordAuthentication no
ChallengeResponseAuthentication no
KbdInteractiveAuthentication no
PubkeyAuthentication yes
AuthenticationMethods publickey
AllowGroups ` + adminGroup + ` ` + sshGroup + `
MaxAuthTries 3
LoginGraceTime 20
ClientAliveInterval 300
ClientAliveCountMax 2
X11Forwarding no
`))

// hardenSSHD writes the SSH daemon fragment and restarts the daemon. This is
// the riskiest step of the run: a bad restart can cut off remote access, so
// the fragment is validated with sshd -t before the daemon is touched, and a
// restart (not a reload) guarantees the new settings are live.
func (p *Pipeline) hardenSSHD(ctx context.Context) error {
	var buf bytes.Buffer
	if err := sshdFragment.Execute(&buf, p.cfg); err != nil {
		return errors.Wrap(err, "rendering sshd fragment")
	}
	if err := p.writeFragment(sshdFragmentPath, buf.String()); err != nil {
		return err
	}
	if err := p.run.Run(ctx, "sshd", "-t"); err != nil {
		return errors.Wrap(err, "new sshd config failed validation, daemon was not restarted")
	}
	if err := p.run.Run(ctx, "systemctl", "restart", "ssh"); err != nil {
		return errors.Wrap(err, "restarting sshd, REMOTE ACCESS MAY BE BROKEN, verify before disconnecting")
	}
	hardenlog.With("port", p.cfg.SSHPort).Info("sshd restarted with hardened config")

	return nil
}
