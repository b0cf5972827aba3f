package harden

import "context"

const sysctlFragmentPath = "etc/sysctl.d/99-hardn.conf"

// This host routes nothing, accepts no redirected or source-routed traffic,
// logs martians, and keeps kernel internals away from unprivileged users.
const sysctlFragment = `# Managed by hardn; re-runs overwrite this file.
net.ipv4.ip_forward = 0
net.ipv4.conf.all.accept_redirects = 0
net.ipv4.conf.default.accept_redirects = 0
net.ipv6.conf.all.accept_redirects = 0
net.ipv6.conf.default.accept_redirects = 0
net.ipv4.conf.all.accept_source_route = 0
net.ipv4.conf.default.accept_source_route = 0
net.ipv6.conf.all.accept_source_route = 0
net.ipv6.conf.default.accept_source_route = 0
net.ipv4.conf.all.log_martians = 1
net.ipv4.conf.default.log_martians = 1
kernel.kptr_restrict = 2
kernel.dmesg_restrict = 1
`

// applySysctl persists the kernel network parameters and applies them to the
// running kernel without a reboot.
func (p *Pipeline) applySysctl(ctx context.Context) error {
	if err := p.writeFragment(sysctlFragmentPath, sysctlFragment); err != nil {
		return err
	}

	return p.run.Run(ctx, "sysctl", "--system")
}
