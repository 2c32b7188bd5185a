package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/config"
	"github.com/spec-kit/fras-portal/internal/console"
	"github.com/spec-kit/fras-portal/internal/observability"
)

var version = "dev"

// cliConfig is resolved from flags, FRAS_* variables and the optional config file.
type cliConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	SessionFile     string        `mapstructure:"session_file"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LogLevel        string        `mapstructure:"log_level"`
}

// cli carries state shared by every command.
type cli struct {
	v       *viper.Viper
	out     io.Writer
	cfg     cliConfig
	logger  *zap.Logger
	session *console.Session
	client  *console.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           "fras",
		Short:         "FRAS support ticket console",
		Long:          "Admin and employee consoles for FRAS support tickets.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/fras/config.yaml)")
	flags.String("api-url", "http://127.0.0.1:8000", "backend API base URL")
	flags.String("session-file", "", "session file (default $XDG_CONFIG_HOME/fras/session.yaml)")
	flags.Duration("timeout", console.DefaultTimeout, "per-request timeout")
	flags.String("log-level", "warn", "log level written to stderr")

	for key, flag := range map[string]string{
		"api_url":      "api-url",
		"session_file": "session-file",
		"timeout":      "timeout",
		"log_level":    "log-level",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}
	c.v.SetDefault("refresh_interval", console.DefaultRefreshInterval)
	c.v.SetEnvPrefix("FRAS")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		c.newLoginCmd(),
		c.newRegisterAdminCmd(),
		c.newLogoutCmd(),
		c.newWhoamiCmd(),
		c.newTicketsCmd(),
		c.newEmployeesCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if err := c.readConfigFile(cmd); err != nil {
		return err
	}
	if err := c.v.Unmarshal(&c.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	logger, err := observability.NewLogger(config.LoggerConfig{Level: c.cfg.LogLevel, Output: "stderr"}, "fras")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger

	sessionFile := c.cfg.SessionFile
	if sessionFile == "" {
		if sessionFile, err = console.DefaultSessionPath(); err != nil {
			return fmt.Errorf("locate session file: %w", err)
		}
	}
	c.session = console.NewSession(console.NewFileStore(sessionFile))
	if err := c.session.Hydrate(); err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	c.client = console.NewClient(c.cfg.APIURL, c.session,
		console.WithTimeout(c.cfg.Timeout),
		console.WithLogger(logger))
	return nil
}

func (c *cli) readConfigFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		c.v.SetConfigFile(path)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(dir)
	}
	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func configDir() (string, error) {
	path, err := console.DefaultSessionPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
