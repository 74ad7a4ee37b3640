package main

import (
	"github.com/averycrespi/tabserver/internal/config"
	"github.com/averycrespi/tabserver/internal/logging"
	"github.com/averycrespi/tabserver/pkg/project"
	"github.com/averycrespi/tabserver/pkg/types"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath    string
	workspaceRoot string
	logLevel      string

	cfg types.Config
}

// newRootCmd wires the cobra tree
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           project.Name,
		Short:         "Expose open editor tabs over HTTP and MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the config file (default <workspace-root>/"+config.FileName+")")
	root.PersistentFlags().StringVar(&opts.workspaceRoot, "workspace-root", ".", "Root directory of the workspace")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newMCPCmd(opts),
		newOutlineCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load reads the config file and applies flag overrides. An explicit
// --config must exist; the workspace default is optional.
func (o *rootOptions) load(cmd *cobra.Command) error {
	path, optional := o.configPath, false
	if path == "" {
		path, optional = config.DefaultPath(o.workspaceRoot), true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("workspace-root") || cfg.WorkspaceRoot == "." {
		cfg.WorkspaceRoot = o.workspaceRoot
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if _, err := logging.Setup(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}
