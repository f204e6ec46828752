package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/pkg/models"
)

var completionInstall bool

// shellCompletion describes how to generate and install the script for one
// shell. A nil installPath means --install is unsupported.
type shellCompletion struct {
	name        string
	load        string
	installPath []string // relative to the home directory
	gen         func(w io.Writer) error
}

var shellCompletions = []shellCompletion{
	{
		name:        "bash",
		load:        `eval "$(netnext completion bash)"`,
		installPath: []string{".local", "share", "bash-completion", "completions", "netnext"},
		gen:         func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	},
	{
		name:        "zsh",
		load:        `eval "$(netnext completion zsh)"`,
		installPath: []string{".local", "share", "zsh", "site-functions", "_netnext"},
		gen:         func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
	},
	{
		name:        "fish",
		load:        "netnext completion fish | source",
		installPath: []string{".config", "fish", "completions", "netnext.fish"},
		gen:         func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	},
	{
		name: "powershell",
		load: "netnext completion powershell | Out-String | Invoke-Expression",
		gen:  func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
	},
}

func shellNames() []string {
	names := make([]string, 0, len(shellCompletions))
	for _, s := range shellCompletions {
		names = append(names, s.name)
	}
	return names
}

func findShell(name string) (shellCompletion, error) {
	for _, s := range shellCompletions {
		if s.name == name {
			return s, nil
		}
	}
	return shellCompletion{}, fmt.Errorf("unsupported shell %q (supported: %s)", name, strings.Join(shellNames(), ", "))
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate or install shell completions for netnext",
	Long: `Print the netnext completion script for bash, zsh, fish or powershell,
or install it into the user-local completion directory with --install.

  netnext completion zsh --install
  eval "$(netnext completion bash)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompletion,
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	shell, err := findShell(args[0])
	if err != nil {
		return err
	}

	if !completionInstall {
		// Hints go to stderr so the script can be piped into eval.
		fmt.Fprintf(cmd.ErrOrStderr(), "# To load completions in your current session:\n#   %s\n", shell.load)
		return shell.gen(cmd.OutOrStdout())
	}

	if shell.installPath == nil {
		return fmt.Errorf("automatic install is not supported for %s; add %q to your profile", shell.name, shell.load)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("detecting home directory: %w", err)
	}
	target, err := installCompletion(shell, home)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s completions installed to %s\n", shell.name, target)
	return nil
}

// installCompletion writes the script for shell below home and returns the
// file it wrote.
func installCompletion(shell shellCompletion, home string) (string, error) {
	target := filepath.Join(append([]string{home}, shell.installPath...)...)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("creating completion directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("creating completion file %s: %w", target, err)
	}
	writeErr := shell.gen(f)
	closeErr := f.Close()
	if writeErr != nil {
		return "", writeErr
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}
	return target, nil
}

// completeRecordedDates offers the recorded observation dates, newest first.
func completeRecordedDates(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if Tracker == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var dates []string
	for _, o := range Tracker.History() {
		d := o.Date.Format(models.DateLayout)
		if strings.HasPrefix(d, toComplete) {
			dates = append(dates, d+"\t"+string(o.State))
		}
	}
	slices.Reverse(dates)
	return dates, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	completionCmd.ValidArgs = shellNames()
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions into the user-local completion directory")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}
