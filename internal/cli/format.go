package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thruflo/tape/internal/program"
)

var (
	fmtWidth int
	fmtWrite bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print a program with everything but instructions removed",
	Long: `Print the canonical form of a program: only the eight instruction
characters, wrapped at --width columns. Parsing the output again yields
the same program.

Example:
  tape fmt hello.b
  tape fmt --width 0 hello.b
  tape fmt -w hello.b`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().IntVar(&fmtWidth, "width", 80, "Wrap at this many columns (0 for a single line)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Rewrite the file instead of printing")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	path := args[0]
	p, err := program.Load(path)
	if err != nil {
		return err
	}

	text := p.Format(fmtWidth)
	if text != "" {
		text += "\n"
	}

	if fmtWrite {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat program file: %w", err)
		}
		if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write program file: %w", err)
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
