package cli

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/repairflow/internal/buildinfo"
)

// Execute runs the command line on the OS filesystem and releases whatever
// the command opened, also when it fails
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return execute(ctx, afero.NewOsFs(), args, stdout, stderr)
}

func execute(ctx context.Context, fs afero.Fs, args []string, stdout, stderr io.Writer) error {
	cmd, a := newRoot(fs)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	return err
}

func newRoot(fs afero.Fs) (*cobra.Command, *app) {
	a := &app{fs: fs}

	cmd := &cobra.Command{
		Use:           "repairflow",
		Short:         "Drive vehicle repair orders through their workflow",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newProcessCmd(a))
	cmd.AddCommand(newResumeCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newInspectCmd(a))
	cmd.AddCommand(newVersionCmd())
	return cmd, a
}
