// Command moodletl adds bilingual {mlang} translations to Moodle course
// backups and question banks.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ZaguanLabs/moodletl"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = moodletl.Version
	commit    = moodletl.GitCommit
	buildDate = moodletl.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:   moodletl.Name,
		Short: moodletl.Description,
		Long: `moodletl extracts the translatable text of a Moodle course backup or
question bank, translates it with DeepL or OpenAI and writes every fragment
back as {mlang en}...{mlang}{mlang fr}...{mlang} content.

A course backup is given as its unpacked directory; a question bank (with
--qbank) as the path of its Moodle XML file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	a.bindFlags(root)

	root.AddCommand(
		newExtractCmd(a),
		newTranslateCmd(a),
		newApplyCmd(a),
		newRunCmd(a),
		newCacheCmd(a),
		newUsageCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", moodletl.Name, version)
			if commit != "unknown" && commit != "" {
				cmd.Printf("  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				cmd.Printf("  built:   %s\n", buildDate)
			}
		},
	}
}
