// Package cli implements nexusctl, a terminal front end over the same store the server uses.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastygo/nexus/internal/app"
	"github.com/fastygo/nexus/internal/config"
	"github.com/fastygo/nexus/pkg/logger"
)

var errNotLoggedIn = errors.New("not logged in, run `nexusctl login <email>` first")

type runtime struct {
	verbose bool
	asJSON  bool
	app     *app.App
}

// newRootCmd builds the command tree. The application is opened before the subcommand runs
// and must be released with rt.close.
func newRootCmd(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "nexusctl",
		Short:         "nexusctl - manage the nexus task desk from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.open(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	root.PersistentFlags().BoolVar(&rt.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newLoginCmd(rt),
		newSignupCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newTaskCmd(rt),
		newActivityCmd(rt),
		newDashboardCmd(rt),
		newInsightCmd(rt),
	)
	return root
}

// Execute runs nexusctl with os.Args.
func Execute(ctx context.Context, version string) error {
	rt := &runtime{}
	root := newRootCmd(rt)
	root.Version = version

	err := root.ExecuteContext(ctx)
	if closeErr := rt.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func (rt *runtime) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if rt.verbose {
		level = "debug"
	}
	zapLogger, err := logger.New(logger.Config{Level: level, Encoding: "console", Output: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	rt.app, err = app.New(cmd.Context(), cfg, zapLogger)
	return err
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

func (rt *runtime) requireSession() error {
	if rt.app.Session.Current() == nil {
		return errNotLoggedIn
	}
	return nil
}

// print writes v as indented JSON when --json is set, otherwise calls text.
func (rt *runtime) print(w io.Writer, v interface{}, text func(io.Writer)) error {
	if rt.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
