// gbpctl is the DevStack lifecycle plugin for the Group-Based Policy
// Neutron extension and the optional Network Function Plugin add-on.
//
// Usage:
//
//	gbpctl [flags] <stack|unstack|clean> [pre-install|install|post-config|extra]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danmuck/gbpctl/internal/config"
	"github.com/danmuck/gbpctl/internal/lifecycle"
	"github.com/danmuck/gbpctl/internal/observability"
	"github.com/danmuck/gbpctl/internal/provision"
	"github.com/danmuck/gbpctl/internal/tools"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to gbpctl TOML config")
	dryRun := flag.Bool("dry-run", false, "print the action plan without executing it")
	initConfig := flag.String("init-config", "", "write the config template to the given path and exit")
	force := flag.Bool("force", false, "overwrite an existing config file with -init-config")
	validate := flag.Bool("validate-config", false, "validate the config file and exit")
	flag.Parse()

	logger := observability.InitLogger("gbpctl")

	if *initConfig != "" {
		if err := config.WriteTemplate(*initConfig, *force); err != nil {
			fatal(err)
		}
		logger.Info().Str("path", *initConfig).Msg("config template written")
		return
	}

	if *validate {
		if _, err := config.Load(*configPath); err != nil {
			fatal(err)
		}
		logger.Info().Str("path", *configPath).Msg("config valid")
		return
	}

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: gbpctl [flags] <stack|unstack|clean> [pre-install|install|post-config|extra]")
		os.Exit(2)
	}

	verb, err := lifecycle.ParseVerb(args[0])
	if err != nil {
		fatal(err)
	}
	phase := lifecycle.PhaseNone
	if len(args) == 2 {
		phase, err = lifecycle.ParsePhase(args[1])
		if err != nil {
			fatal(err)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	collab, err := provision.NewCollaborators(cfg, newRunner(cfg), logger)
	if err != nil {
		fatal(err)
	}

	dispatcher, err := lifecycle.NewDispatcher(lifecycle.Options{
		GroupPolicyEnabled: cfg.ServiceEnabled(config.GroupPolicyService),
		EnableNFP:          cfg.EnableNFP,
	}, collab, logger)
	if err != nil {
		fatal(err)
	}

	if *dryRun {
		for _, name := range dispatcher.Plan(verb, phase).Names() {
			fmt.Println(name)
		}
		return
	}

	if err := dispatcher.Dispatch(verb, phase); err != nil {
		fatal(err)
	}
}

func newRunner(cfg config.Config) tools.CommandRunner {
	if cfg.SSH == nil {
		return tools.ExecRunner{}
	}
	return tools.SSHRunner{
		Host:                        cfg.SSH.Host,
		Port:                        cfg.SSH.Port,
		User:                        cfg.SSH.User,
		KeyPath:                     cfg.SSH.KeyPath,
		KnownHostsPath:              cfg.SSH.KnownHostsPath,
		InsecureSkipHostKeyChecking: cfg.SSH.InsecureSkipHostKeyChecking,
		Timeout:                     30 * time.Second,
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "gbpctl: %v\n", err)
	os.Exit(1)
}
