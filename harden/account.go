package harden

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

const (
	// adminGroup grants sudo; sshGroup scopes who may log in over SSH.
	adminGroup = "sudo"
	sshGroup   = "sshusers"
)

// provisionAdmin ensures the admin account exists, is in the administrative
// and SSH login groups, and holds the supplied public key. An existing
// account is left untouched beyond group membership.
func (p *Pipeline) provisionAdmin(ctx context.Context) error {
	user := p.cfg.AdminUser
	if err := p.run.Run(ctx, "groupadd", "-f", sshGroup); err != nil {
		return err
	}
	if err := p.run.Run(ctx, "id", "-u", user); err != nil {
		hardenlog.With("user", user).Info("creating admin account")
		if err := p.run.Run(ctx, "useradd", "-m", "-s", "/bin/bash", user); err != nil {
			return err
		}
	}
	if err := p.run.Run(ctx, "usermod", "-aG", adminGroup+","+sshGroup, user); err != nil {
		return err
	}
	if p.cfg.SSHPublicKey == "" {
		hardenlog.With("user", user).Info("warning: no ssh public key supplied, skipping key install; password logins are disabled after this run, install a key before disconnecting")

		return nil
	}

	return p.installAuthorizedKey(ctx, user)
}

// installAuthorizedKey appends the configured key to the account's
// authorized_keys unless an equivalent key (comment ignored) is already
// present, then fixes permissions and ownership.
func (p *Pipeline) installAuthorizedKey(ctx context.Context, user string) error {
	wanted, err := normalizeKey(p.cfg.SSHPublicKey)
	if err != nil {
		return errors.Wrap(err, "parsing ssh public key")
	}

	sshDir := filepath.Join("/home", user, ".ssh")
	dir := filepath.Join(p.root, sshDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "creating .ssh directory")
	}
	// MkdirAll leaves a pre-existing directory's mode alone.
	if err := os.Chmod(dir, 0o700); err != nil {
		return errors.Wrap(err, "restricting .ssh directory permissions")
	}
	path := filepath.Join(dir, "authorized_keys")
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "reading authorized_keys")
	}

	if !containsKey(existing, wanted) {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return errors.Wrap(err, "opening authorized_keys")
		}
		if _, err := f.WriteString(p.cfg.SSHPublicKey + "\n"); err != nil {
			f.Close()

			return errors.Wrap(err, "appending authorized key")
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "closing authorized_keys")
		}
		hardenlog.With("user", user).Info("installed authorized key")
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return errors.Wrap(err, "restricting authorized_keys permissions")
	}

	return p.run.Run(ctx, "chown", "-R", user+":"+user, sshDir)
}

// normalizeKey reduces an authorized_keys line to its type and key material
// so the same key with a different comment is not appended twice.
func normalizeKey(line string) (string, error) {
	pk, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pk))), nil
}

func containsKey(existing []byte, wanted string) bool {
	for _, line := range strings.Split(string(existing), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if n, err := normalizeKey(line); err == nil && n == wanted {
			return true
		}
	}

	return false
}
