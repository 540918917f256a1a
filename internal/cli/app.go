// Package cli implements the insertqr command line front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type App struct {
	root    *cobra.Command
	stdout  io.Writer
	stderr  io.Writer
	logger  *zap.SugaredLogger
	verbose bool
}

func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: util.NewLogger("test"),
	}

	app.root = app.newInsertCmd()
	app.root.SilenceUsage = true
	app.root.SilenceErrors = true
	app.root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log debug information to stderr")
	app.root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if app.verbose {
			app.logger = util.NewLogger("development")
		}
	}

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newInspectCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "insertqr (%s) version %s\n", util.GetAppName(), Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
		},
	}
}

// loadDefaults reads config.json from path, or from the usual locations when
// path is empty. Problems with the file are reported and fall back to the
// built-in values.
func (a *App) loadDefaults(path string) config.QRDefaults {
	if path == "" {
		path = config.ResolveDefaultsPath()
	}

	defaults, err := config.LoadQRDefaults(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "[WARNING] %v\n", err)
	}
	a.logger.Debugw("Loaded defaults", "path", path, "defaults", defaults)
	return defaults
}
