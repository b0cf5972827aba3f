package main

import (
	"context"
	"flag"
	"os"

	"github.com/equinix-labs/otel-init-go/otelinit"
	"github.com/google/uuid"
	"github.com/packethost/pkg/log"
	"github.com/pkg/errors"

	"github.com/ubuntusec/hardn/conf"
	"github.com/ubuntusec/hardn/execute"
	"github.com/ubuntusec/hardn/harden"
)

var (
	mainlog log.Logger

	// GitRev is set by the linker.
	GitRev = "unknown (use make)"
)

const name = "hardn"

func main() {
	cfg := &config{}
	cli := newCLI(cfg, flag.NewFlagSet(name, flag.ExitOnError))
	if err := cli.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		panic(err)
	}
}

// run is the Exec behind the CLI: bring the logger up, resolve the
// configuration, apply the pipeline, print the summary.
func run(ctx context.Context, cfg *config, explicit map[string]bool) error {
	// packethost/pkg/log reads its level from the global flag set.
	_ = flag.CommandLine.Set("log-level", cfg.logLevel)
	l, err := log.Init(name)
	if err != nil {
		return err
	}
	defer l.Close()
	mainlog = l.Package("main")
	execute.Init(l)
	harden.Init(l)

	ctx, otelShutdown := otelinit.InitOpenTelemetry(ctx, name)
	defer otelShutdown(ctx)

	mainlog.With("version", GitRev, "run", uuid.New().String()).Info("starting")

	if os.Geteuid() != 0 {
		mainlog.Fatal(errors.New("hardn must run as root"))
	}

	c := conf.Config{
		AdminUser:    cfg.adminUser,
		SSHPublicKey: cfg.sshPublicKey,
		SSHPort:      cfg.sshPort,
	}
	if c.AllowWeb, err = conf.ParseYesNo(cfg.allowWeb); err != nil {
		mainlog.Fatal(errors.Wrap(err, "allow-web"))
	}

	var src conf.Source = conf.Static{}
	if conf.Interactive(os.Stdin) {
		src = conf.NewPrompt(os.Stdin, os.Stdout)
	}
	if err := conf.Resolve(&c, explicit, src); err != nil {
		mainlog.Fatal(errors.Wrap(err, "invalid configuration"))
	}

	p := harden.New(c, execute.Shell{})
	if err := p.Apply(ctx); err != nil {
		mainlog.Fatal(errors.Wrap(err, "hardening aborted; completed steps remain applied, fix the failure and re-run"))
	}
	p.Report(os.Stdout)

	return nil
}
