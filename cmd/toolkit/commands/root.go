// Package commands implements the toolkit CLI commands.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/on-the-ground/toolkit_go/config"
	"github.com/on-the-ground/toolkit_go/shared/log"
)

// CLI represents the toolkit command line.
type CLI struct {
	rootCmd *cobra.Command

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	cfg        config.Config
	logger     *zap.Logger
}

func New(stdin io.Reader, stdout, stderr io.Writer) *CLI {
	c := &CLI{stdin: stdin, stdout: stdout, stderr: stderr, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "toolkit",
		Short:         "Canonical keys, SQL predicates and S3 dataset helpers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			logger, err := c.newLogger(cfg.Log)
			if err != nil {
				return err
			}
			c.cfg, c.logger = cfg, logger
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Configuration file to read from")
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(c.newFreezeCmd())
	rootCmd.AddCommand(c.newPredicateCmd())
	rootCmd.AddCommand(c.newS3OptionsCmd())
	rootCmd.AddCommand(c.newParquetInfoCmd())

	c.rootCmd = rootCmd
	return c
}

// newLogger sends console logs to the CLI's stderr; other encodings go
// through log.New.
func (c *CLI) newLogger(cfg log.Config) (*zap.Logger, error) {
	if cfg.Encoding == "" || cfg.Encoding == "console" {
		return log.NewConsole(cfg.Level, c.stderr)
	}
	return log.New(cfg)
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	defer func() { _ = c.logger.Sync() }()
	return c.rootCmd.ExecuteContext(ctx)
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
