package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/tape/internal/program"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check that programs have balanced brackets",
	Long: `Parse each program file and verify that every ']' closes an earlier
'[' and that no '[' is left open. Nothing is executed.

Example:
  tape check hello.b
  tape check examples/*.b`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	failed := 0
	for _, path := range args {
		p, err := program.Load(path)
		if err == nil {
			err = program.Validate(p)
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d instructions)\n", path, p.Len())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d programs failed the bracket check", failed, len(args))
	}
	return nil
}
