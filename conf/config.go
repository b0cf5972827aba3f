// Package conf resolves and validates the hardening configuration. A Config
// is built once at startup, from flags/environment plus interactive prompts
// when one is attached to a terminal, and is read-only afterwards.
package conf

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

// Defaults applied when a value is neither supplied nor prompted for.
const (
	DefaultAdminUser = "deploy"
	DefaultSSHPort   = 22
)

// Stricter than POSIX; matches Debian's default NAME_REGEX for adduser.
var adminUserRE = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// Config is the resolved hardening configuration for one run.
type Config struct {
	// AdminUser is the login name of the administrative account.
	AdminUser string
	// SSHPublicKey is an OpenSSH authorized_keys line installed for
	// AdminUser. Empty means key installation is skipped with a warning.
	SSHPublicKey string
	// SSHPort is the port the hardened SSH daemon listens on.
	SSHPort int
	// AllowWeb opens inbound ports 80 and 443 in the firewall.
	AllowWeb bool
}

// Normalize trims whitespace and lowercases the admin username.
func (c *Config) Normalize() {
	c.AdminUser = strings.ToLower(strings.TrimSpace(c.AdminUser))
	c.SSHPublicKey = strings.TrimSpace(c.SSHPublicKey)
}

// Validate reports the first fatal configuration error. It runs before any
// host mutation, so a failure here leaves the system untouched.
func (c Config) Validate() error {
	switch {
	case c.AdminUser == "":
		return errors.New("admin username must not be empty")
	case !adminUserRE.MatchString(c.AdminUser):
		return errors.Errorf("admin username %q is not a valid account name", c.AdminUser)
	case c.SSHPort < 1 || c.SSHPort > 65535:
		return errors.Errorf("ssh port %d is outside 1-65535", c.SSHPort)
	}
	if c.SSHPublicKey != "" {
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(c.SSHPublicKey)); err != nil {
			return errors.Wrap(err, "ssh public key is not a valid authorized_keys entry")
		}
	}

	return nil
}

// ParseYesNo parses a case-insensitive yes/no token.
func ParseYesNo(token string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}

	return false, errors.Errorf("%q is not a yes/no value", token)
}
