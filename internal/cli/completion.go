package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var completionInstall bool

// shellCompletion describes how to generate and install completions for one
// shell. installDir and fileName are empty when --install is unsupported.
type shellCompletion struct {
	generate   func(w io.Writer) error
	sessionCmd string
	installDir []string
	fileName   string
	afterNote  []string
}

var completionShells = map[string]shellCompletion{
	"bash": {
		generate:   func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		sessionCmd: `eval "$(tars completion bash)"`,
		installDir: []string{".local", "share", "bash-completion", "completions"},
		fileName:   "tars",
		afterNote:  []string{"Restart your shell to pick them up."},
	},
	"zsh": {
		generate:   func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
		sessionCmd: `eval "$(tars completion zsh)"`,
		installDir: []string{".local", "share", "zsh", "site-functions"},
		fileName:   "_tars",
		afterNote: []string{
			"Ensure this directory is in your fpath. Add to ~/.zshrc if needed:",
			"  fpath=(~/.local/share/zsh/site-functions $fpath)",
			"  autoload -Uz compinit && compinit",
		},
	},
	"fish": {
		generate:   func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		sessionCmd: "tars completion fish | source",
		installDir: []string{".config", "fish", "completions"},
		fileName:   "tars.fish",
		afterNote:  []string{"Completions will be available in new fish sessions automatically."},
	},
	"powershell": {
		generate:   func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
		sessionCmd: "tars completion powershell | Out-String | Invoke-Expression",
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for tars",
	Long: `Set up shell tab-completions for tars commands, flags, and task IDs.

Supported shells: bash, zsh, fish, powershell

Quick install (adds completions to your shell profile):

  tars completion bash --install
  tars completion zsh --install
  tars completion fish --install

Or print the completion script to stdout (for manual setup):

  tars completion bash
  tars completion powershell`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions into your shell profile")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	shell, ok := completionShells[args[0]]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", args[0])
	}

	if completionInstall {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("detecting home directory: %w", err)
		}
		return installCompletion(cmd.OutOrStdout(), args[0], shell, home)
	}

	// Hints go to stderr so the script can be piped.
	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, "# To load completions in your current session:")
	fmt.Fprintf(errOut, "#   %s\n#\n", shell.sessionCmd)
	return shell.generate(cmd.OutOrStdout())
}

func installCompletion(out io.Writer, name string, shell shellCompletion, home string) error {
	if shell.fileName == "" {
		return fmt.Errorf("automatic install is not supported for %s; run 'tars completion %s' and add the output to your profile", name, name)
	}

	dir := filepath.Join(append([]string{home}, shell.installDir...)...)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating completion directory: %w", err)
	}
	target := filepath.Join(dir, shell.fileName)

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating completion file %s: %w", target, err)
	}
	writeErr := shell.generate(f)
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}

	fmt.Fprintf(out, "%s completions installed to %s\n", name, target)
	for _, line := range shell.afterNote {
		fmt.Fprintln(out, line)
	}
	return nil
}
