package harden

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/packethost/pkg/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ubuntusec/hardn/conf"
	"github.com/ubuntusec/hardn/execute"
)

const testKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIJP0YD18Up4RyVrkiYy3qosFSfa/OMTPf/UErv77iUVm ops@example"

func testConfig() conf.Config {
	return conf.Config{
		AdminUser:    "ops",
		SSHPublicKey: testKey,
		SSHPort:      2222,
		AllowWeb:     false,
	}
}

func newTestPipeline(t *testing.T, c conf.Config, r *execute.Recorder) *Pipeline {
	t.Helper()
	Init(log.Test(t, "hardn"))

	return New(c, r).WithRoot(t.TempDir())
}

func readFragment(t *testing.T, p *Pipeline, path string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(p.root, path))
	require.NoError(t, err)

	return string(b)
}

func TestApplyRunsEveryStepInOrder(t *testing.T) {
	// id failing marks the admin account as absent, forcing a useradd.
	r := &execute.Recorder{Fail: map[string]error{"id -u ops": errors.New("no such user")}}
	p := newTestPipeline(t, testConfig(), r)
	require.NoError(t, p.Apply(context.Background()))

	want := []string{
		"apt-get update",
		"apt-get -y dist-upgrade",
		"apt-get -y install ufw fail2ban unattended-upgrades openssh-server ca-certificates",
		"apt-get -y autoremove",
		"groupadd -f sshusers",
		"id -u ops",
		"useradd -m -s /bin/bash ops",
		"usermod -aG sudo,sshusers ops",
		"chown -R ops:ops /home/ops/.ssh",
		"passwd -l root",
		"sshd -t",
		"systemctl restart ssh",
		"ufw --force disable",
		"ufw --force reset",
		"ufw default deny incoming",
		"ufw default allow outgoing",
		"ufw limit 2222/tcp",
		"ufw logging medium",
		"ufw --force enable",
		"systemctl enable fail2ban",
		"systemctl restart fail2ban",
		"systemctl enable unattended-upgrades",
		"systemctl restart unattended-upgrades",
		"sysctl --system",
	}
	if diff := cmp.Diff(want, r.Commands); diff != "" {
		t.Fatal(diff)
	}

	for _, path := range []string{
		sshdFragmentPath,
		jailFragmentPath,
		periodicFragmentPath,
		rebootFragmentPath,
		sysctlFragmentPath,
	} {
		_, err := os.Stat(filepath.Join(p.root, path))
		require.NoError(t, err, "fragment %s", path)
	}
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("mirror unreachable")
	r := &execute.Recorder{Fail: map[string]error{"apt-get update": boom}}
	p := newTestPipeline(t, testConfig(), r)

	err := p.Apply(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "system update")
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"apt-get update"}, r.Commands)

	// Fail-fast means later steps never wrote their fragments.
	_, serr := os.Stat(filepath.Join(p.root, sshdFragmentPath))
	require.True(t, os.IsNotExist(serr))
}

func TestApplyTwiceConvergesToSameState(t *testing.T) {
	r := &execute.Recorder{}
	p := newTestPipeline(t, testConfig(), r)
	require.NoError(t, p.Apply(context.Background()))

	first := map[string]string{}
	for _, path := range []string{
		sshdFragmentPath,
		jailFragmentPath,
		periodicFragmentPath,
		rebootFragmentPath,
		sysctlFragmentPath,
		"home/ops/.ssh/authorized_keys",
	} {
		first[path] = readFragment(t, p, path)
	}

	require.NoError(t, p.Apply(context.Background()))
	for path, content := range first {
		require.Equal(t, content, readFragment(t, p, path), "file %s changed on re-run", path)
	}
}
