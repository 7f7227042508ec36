// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/ragplay-tui/internal/config"
)

// RunConfig handles "ragplay config [show|path|init]".
//
//	show   print the effective configuration (file + env + flags)
//	path   print the config file location
//	init   write a default config file (--force overwrites)
func RunConfig(args Args, env *Env) error {
	env.fill()
	p := NewArgParser(args.Raw)

	switch p.Subcommand() {
	case "", "show":
		return OutputJSON(env.Stdout, args.JSON, "config show", func() (interface{}, error) {
			if !args.JSON {
				fmt.Fprint(env.Stdout, env.Config.String())
			}
			return env.Config, nil
		})

	case "path":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, path)
		return nil

	case "init":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !p.BoolFlag("force") {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, SuccessStyle.Render("Wrote ")+path)
		return nil

	default:
		return &UsageError{Message: fmt.Sprintf("unknown config subcommand %q (use show, path or init)", p.Subcommand())}
	}
}

// configPath returns --config when given, else the default TOML location.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}
