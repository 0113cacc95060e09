// Package cli implements builder-admin, a command-line client that runs the
// builder's application services directly against the key API.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/internal/infrastructure/audit"
	"github.com/artsapp/builder/internal/infrastructure/keyapi"
	"github.com/artsapp/builder/internal/infrastructure/monitoring"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/logger"
)

// options are the persistent flags shared by every command
type options struct {
	apiURL        string
	sessionCookie string
	output        string
	timeout       time.Duration
	verbose       bool
}

var opts options

// rootCmd represents the base command when builder-admin is called without any subcommands.
// rootCmd 代表在没有任何子命令的情况下调用 builder-admin 时的基本命令。
var rootCmd = &cobra.Command{
	Use:   "builder-admin",
	Short: "A CLI tool for inspecting and editing ArtsApp identification keys.",
	Long: `builder-admin talks to the ArtsApp key API the same way the builder does.
Pass the key API session cookie with --session to act as a signed-in user.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", envOr("BUILDER_API_BASE_URL", "http://localhost:3000"), "key API base URL")
	flags.StringVar(&opts.sessionCookie, "session", os.Getenv("BUILDER_SESSION_COOKIE"), "value of the key API session cookie")
	flags.StringVarP(&opts.output, "output", "o", "table", "output format: table, json or yaml")
	flags.DurationVar(&opts.timeout, "timeout", constants.DefaultAPITimeout, "key API call timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log key API calls")
}

// Execute is the main entry point for the CLI application. If an error
// occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// environment bundles what a command needs to call the key API
type environment struct {
	log   logger.Logger
	repos repository.Repositories
	audit *audit.LogAuditService
}

func newEnvironment() (*environment, error) {
	level := "error"
	if opts.verbose {
		level = "debug"
	}
	log, err := monitoring.NewZapLogger(&config.LogConfig{Level: level, Format: "console"})
	if err != nil {
		return nil, err
	}
	client := keyapi.NewClient(&config.APIConfig{BaseURL: opts.apiURL, Timeout: opts.timeout}, keyapi.WithLogger(log))
	return &environment{log: log, repos: client.Repositories(), audit: audit.NewLogAuditService(log)}, nil
}

// context returns a command context carrying the upstream session cookie
func (e *environment) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.sessionCookie == "" {
		return ctx
	}
	return keyapi.WithUpstreamCookies(ctx, []*http.Cookie{{Name: constants.UpstreamSessionCookieName, Value: opts.sessionCookie}})
}

func (e *environment) keys() service.KeyAppService {
	return service.NewKeyAppService(e.repos, e.audit, nil, e.log)
}

func (e *environment) revisions() service.RevisionAppService {
	return service.NewRevisionAppService(e.repos, e.audit, nil, e.log)
}

func (e *environment) premises() service.PremiseAppService {
	return service.NewPremiseAppService(e.repos, e.audit, nil, e.log)
}
