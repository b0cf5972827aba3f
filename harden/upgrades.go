package harden

import "context"

const (
	periodicFragmentPath = "etc/apt/apt.conf.d/20auto-upgrades"
	rebootFragmentPath   = "etc/apt/apt.conf.d/52hardn-upgrades"
)

// Daily list refresh, download, and upgrade; weekly cleanup.
const periodicFragment = `// Managed by hardn; re-runs overwrite this file.
APT::Periodic::Update-Package-Lists "1";
APT::Periodic::Download-Upgradeable-Packages "1";
APT::Periodic::Unattended-Upgrade "1";
APT::Periodic::AutocleanInterval "7";
`

// Reboot only when an update requires it, at an off-peak time.
const rebootFragment = `// Managed by hardn; re-runs overwrite this file.
Unattended-Upgrade::Remove-Unused-Dependencies "true";
Unattended-Upgrade::Automatic-Reboot "true";
Unattended-Upgrade::Automatic-Reboot-Time "03:45";
`

// enableUnattendedUpgrades writes the two apt policy fragments and starts
// the service immediately instead of waiting for the next timer.
func (p *Pipeline) enableUnattendedUpgrades(ctx context.Context) error {
	if err := p.writeFragment(periodicFragmentPath, periodicFragment); err != nil {
		return err
	}
	if err := p.writeFragment(rebootFragmentPath, rebootFragment); err != nil {
		return err
	}
	if err := p.run.Run(ctx, "systemctl", "enable", "unattended-upgrades"); err != nil {
		return err
	}

	return p.run.Run(ctx, "systemctl", "restart", "unattended-upgrades")
}
