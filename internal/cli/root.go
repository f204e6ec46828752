package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/pkg/models"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var (
	verbose   bool
	todayFlag string

	// logLevel is shared by the default slog handler so --verbose can raise
	// it after the logger was installed.
	logLevel = new(slog.LevelVar)

	// now is replaced in tests.
	now = func() time.Time { return time.Now().UTC() }
)

// ConfigureLogging installs a text slog handler writing to w as the default
// logger. Warnings and errors are shown unless --verbose lowers the level.
func ConfigureLogging(w io.Writer) {
	logLevel.Set(slog.LevelWarn)
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

var rootCmd = &cobra.Command{
	Use:   "netnext",
	Short: "Track the net-next merge window and forecast its cycles",
	Long: `netnext records the daily open/closed state of the Linux net-next tree,
infers past merge-window cycles from that history, and predicts when the
window will next close and reopen.

Run "netnext record" once a day (e.g. from cron) and "netnext forecast" to
see the observed and predicted cycles.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "netnext %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

// resolveToday returns the evaluation day: --today when given, otherwise the
// current UTC date.
func resolveToday() (time.Time, error) {
	if todayFlag == "" {
		return models.Day(now()), nil
	}
	d, err := models.ParseDate(todayFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --today: %w", err)
	}
	return d, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&todayFlag, "today", "", "Evaluate as of this date (YYYY-MM-DD) instead of the current UTC date")
	_ = rootCmd.RegisterFlagCompletionFunc("today", completeRecordedDates)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
