package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/config"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	token         string
	baseURL       string
	debug         bool
	verifyNumeric bool
}

var globals globalOptions

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&globals.token, "token", "", "ClickUp API token. Can also use CLICKUP_API_TOKEN env var.")
	cmd.PersistentFlags().StringVar(&globals.baseURL, "base-url", "", "ClickUp API base URL. Can also use CLICKUP_BASE_URL env var. Default: https://api.clickup.com")
	cmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&globals.verifyNumeric, "verify-numeric-ids", false, "Check numeric member IDs against the roster instead of accepting them as-is")
}

// loadConfig reads the environment and lets flags override it.
func loadConfig(opts globalOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.token != "" {
		cfg.APIToken = opts.token
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *logging.SlogAdapter {
	return logging.NewSlogAdapter(logging.New(w, logging.ParseLevel(cfg.LogLevel)))
}

func newClickUpClient(cfg *config.Config, logger logging.Logger) (*clickup.Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	logger.Debug("creating ClickUp client", "base_url", cfg.BaseURL, "token", logging.SanitizeToken(cfg.APIToken))
	return clickup.NewClient(cfg.APIToken,
		clickup.WithBaseURL(cfg.BaseURL),
		clickup.WithTimeout(cfg.HTTPTimeout),
		clickup.WithLogger(logger),
	)
}

func memberOptions(opts globalOptions) members.Options {
	return members.Options{VerifyNumeric: opts.verifyNumeric}
}
