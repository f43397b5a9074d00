package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lance13c/formpilot/internal/detect"
	"github.com/lance13c/formpilot/internal/fill"
	"github.com/lance13c/formpilot/internal/match"
)

var fillCmd = &cobra.Command{
	Use:   "fill <url>",
	Short: "Bulk-fill every unambiguous field on a page",
	Long: `Fill opens the page, detects and matches its fields, and writes the
single best candidate into every field that has exactly one match and
is currently empty. Ambiguous and already-filled fields are skipped.`,
	Args: cobra.ExactArgs(1),
	Run:  runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) {
	sess, err := openSession(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.close()

	ctx := context.Background()
	detector := detect.New(sess.page)
	fields, err := detector.DetectFields(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	matched := match.MatchFields(fields, sess.profileFields())
	sum := fill.New(sess.page).FillAll(ctx, matched)
	for _, mf := range matched {
		if len(mf.Matches) == 1 {
			detector.MarkProcessed(ctx, mf.Field.ID)
		}
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("Filled %d fields", sum.Filled)))
	if sum.Skipped > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("Skipped %d (ambiguous or already filled)", sum.Skipped)))
	}
	if sum.Failed > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Failed %d", sum.Failed)))
	}
}
