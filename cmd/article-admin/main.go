// Command article-admin serves the article admin pages and manages articles
// from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-article-admin/internal/config"
	"github.com/goliatone/go-article-admin/internal/logging"
	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/renderers/tui"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	baseURL    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	// driver overrides the interactive survey prompts.
	driver tui.PromptDriver
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "article-admin",
		Short: "Article CMS admin",
		Long: `article-admin serves the article admin front end and talks to the
article API from the terminal: list, show, create and delete articles, or dump
the API contract.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.ResolvePath(a.configPath))
			if err != nil {
				return err
			}
			if a.baseURL != "" {
				cfg.API.BaseURL = a.baseURL
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.Logging, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default $"+config.EnvConfig+" or "+config.DefaultPath+")")
	flags.StringVar(&a.baseURL, "api", "", "article API base URL (overrides config and $"+config.EnvBaseURL+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newCreateCmd(a),
		newDeleteCmd(a),
		newOpenAPICmd(a),
	)
	return root
}

func (a *app) client() *articles.Client {
	return articles.NewClient(a.cfg.API.BaseURL,
		articles.WithTimeout(a.cfg.APITimeout()),
		articles.WithLogger(a.logger.Named("articles")),
	)
}
