package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/app"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/tabular"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/updater"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks a command line the user got wrong.
func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// failure marks an operation that ran and failed.
func failure(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// rootFlags holds the persistent flag values shared by every subcommand.
type rootFlags struct {
	paramDir  string
	reference string
	targets   string
	logFormat string
	logLevel  string
}

// NewRootCommand builds the paramtool command tree. Command output goes to
// outW and logs to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	var flags rootFlags
	var application *app.App

	root := &cobra.Command{
		Use:   "paramtool",
		Short: "Inspect and edit community parameter files",
		Long: `paramtool reads and rewrites the fixed-width, comment-annotated parameter
files of the ecosystem model. Each file holds one block per community type
(CMTkk), with either scalar or per-PFT values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("CLI parser started.", "command", cmd.Name())
			config, err := app.NewConfig(app.Config{
				ParamDir:      flags.paramDir,
				ReferenceFile: flags.reference,
				TargetsFile:   flags.targets,
				LogFormat:     strings.ToLower(flags.logFormat),
				LogLevel:      strings.ToLower(flags.logLevel),
			})
			if err != nil {
				return usageError(err)
			}
			application = app.NewApp(outW, errW, config)
			slog.Debug("CLI parser finished successfully.", "config", config)
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.paramDir, "dir", "d", "parameters", "Directory holding the parameter files.")
	pf.StringVar(&flags.reference, "reference", "", "Parameter file whose first block sets the row order for 'format'.")
	pf.StringVar(&flags.targets, "targets", "", "Calibration targets file (hcl) merged into v1 tables.")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	get := func() *app.App { return application }
	root.AddCommand(
		newLocateCommand(get),
		newKeysCommand(get),
		newIndexCommand(get),
		newWhichCommand(get),
		newUpdateCommand(get),
		newToCSVCommand(get),
		newFromCSVCommand(get),
		newCompareCommand(get),
		newFormatCommand(get),
		newSumCommand(get),
	)
	return root
}

// Execute runs the command line in args. Any error it returns is an
// *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Argument count and unknown command errors come from cobra itself.
	return usageError(err)
}

func parseVersion(s string) (tabular.Version, error) {
	switch strings.ToLower(s) {
	case "v0", "0":
		return tabular.V0, nil
	case "v1", "1":
		return tabular.V1, nil
	}
	return 0, fmt.Errorf("invalid table format %q: must be 'v0' or 'v1'", s)
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}

func newLocateCommand(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "locate FILE KEY",
		Short: "Print a community block as it appears in a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := get().Locate(cmd.Context(), args[0], args[1])
			return failure(err)
		},
	}
}

func newKeysCommand(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [FILE]",
		Short: "List the community keys of a file or of the parameter directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			_, err := get().Keys(cmd.Context(), file)
			return failure(err)
		},
	}
}

func newIndexCommand(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Summarize the parameter files of the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := get().Index(cmd.Context())
			return failure(err)
		},
	}
}

func newWhichCommand(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "which NAME",
		Short: "Print the file that defines a parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := get().Which(cmd.Context(), args[0])
			return failure(err)
		},
	}
}

func newUpdateCommand(get func() *app.App) *cobra.Command {
	var key string
	var pft int
	cmd := &cobra.Command{
		Use:   "update NAME VALUE",
		Short: "Change one parameter value in place",
		Long: `Change one parameter value of one community block. The file is found
through the directory index and rewritten atomically; every other block is
kept byte for byte. Use --pft for per-PFT parameters.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseValue(args[1])
			if err != nil {
				return usageError(err)
			}
			_, err = get().Update(cmd.Context(), updater.Request{Name: args[0], Key: key, PFT: pft, Value: v})
			return failure(err)
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Community key, e.g. CMT05.")
	cmd.Flags().IntVarP(&pft, "pft", "p", updater.ScalarPFT, "PFT index 0-9; leave unset for scalar parameters.")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newToCSVCommand(get func() *app.App) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "to-csv KEY",
		Short: "Export a community across all parameter files as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseVersion(format)
			if err != nil {
				return usageError(err)
			}
			_, err = get().ToCSV(cmd.Context(), args[0], version, out)
			return failure(err)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "v1", "Table layout. Options: 'v0' or 'v1'.")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file; standard output when empty.")
	return cmd
}

func newFromCSVCommand(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "from-csv FILE",
		Short: "Write the blocks of a CSV table back into the parameter files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := get().FromCSV(cmd.Context(), args[0])
			return failure(err)
		},
	}
}

func newCompareCommand(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare KEY_A KEY_B",
		Short: "List the value differences between two communities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := get().Compare(cmd.Context(), args[0], args[1])
			return failure(err)
		},
	}
}

func newFormatCommand(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "format FILE KEY",
		Short: "Print a community block in canonical layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := get().Format(cmd.Context(), args[0], args[1])
			return failure(err)
		},
	}
}

func newSumCommand(get func() *app.App) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "sum NAME",
		Short: "Total a PFT parameter over the PFTs present in a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := get().Sum(cmd.Context(), args[0], key)
			return failure(err)
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Community key, e.g. CMT05.")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
