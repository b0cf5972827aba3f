package conf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Source yields configuration values during resolution. The interactive
// prompt and the unattended default source are interchangeable behind it.
type Source interface {
	String(question, def string) (string, error)
	Int(question string, def int) (int, error)
	YesNo(question string, def bool) (bool, error)
}

// Static answers every question with its default. Used for unattended runs.
type Static struct{}

func (Static) String(_, def string) (string, error) { return def, nil }
func (Static) Int(_ string, def int) (int, error)   { return def, nil }
func (Static) YesNo(_ string, def bool) (bool, error) {
	return def, nil
}

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Prompt asks questions on w and reads answers from r, one per line. An
// empty answer selects the stated default.
type Prompt struct {
	r *bufio.Reader
	w io.Writer
}

func NewPrompt(r io.Reader, w io.Writer) *Prompt {
	return &Prompt{r: bufio.NewReader(r), w: w}
}

func (p *Prompt) ask(question, def string) (string, error) {
	fmt.Fprintf(p.w, "%s [%s]: ", question, def)
	line, err := p.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "reading answer")
	}

	return strings.TrimSpace(line), nil
}

func (p *Prompt) String(question, def string) (string, error) {
	answer, err := p.ask(question, def)
	if err != nil || answer == "" {
		return def, err
	}

	return answer, nil
}

func (p *Prompt) Int(question string, def int) (int, error) {
	answer, err := p.ask(question, strconv.Itoa(def))
	if err != nil || answer == "" {
		return def, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, errors.Errorf("%q is not a number", answer)
	}

	return n, nil
}

func (p *Prompt) YesNo(question string, def bool) (bool, error) {
	shown := "no"
	if def {
		shown = "yes"
	}
	answer, err := p.ask(question, shown)
	if err != nil || answer == "" {
		return def, err
	}

	return ParseYesNo(answer)
}

// Resolve fills in every field the operator did not set explicitly, asking
// src for each, then normalizes and validates the result. explicit holds
// the flag names that were set on the command line or via environment.
func Resolve(c *Config, explicit map[string]bool, src Source) error {
	var err error
	if !explicit["admin-user"] {
		if c.AdminUser, err = src.String("Admin username", c.AdminUser); err != nil {
			return err
		}
	}
	if !explicit["ssh-public-key"] {
		if c.SSHPublicKey, err = src.String("SSH public key for the admin user (empty to skip)", c.SSHPublicKey); err != nil {
			return err
		}
	}
	if !explicit["ssh-port"] {
		if c.SSHPort, err = src.Int("SSH port", c.SSHPort); err != nil {
			return err
		}
	}
	if !explicit["allow-web"] {
		if c.AllowWeb, err = src.YesNo("Allow inbound web traffic on 80/443", c.AllowWeb); err != nil {
			return err
		}
	}
	c.Normalize()

	return c.Validate()
}
