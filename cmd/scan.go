package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lance13c/formpilot/internal/detect"
	"github.com/lance13c/formpilot/internal/match"
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Detect and classify fillable fields on a page",
	Long: `Scan opens the page, detects every fillable field, classifies it,
and shows which profile entries match it and with what confidence.
Nothing is filled.`,
	Args: cobra.ExactArgs(1),
	Run:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	sess, err := openSession(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.close()

	ctx := context.Background()
	fields, err := detect.New(sess.page).DetectFields(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	url, title, _ := sess.browser.PageInfo()
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s - %s", title, url)))
	fmt.Println(headerStyle.Render(fmt.Sprintf("%d fillable fields detected", len(fields))))
	fmt.Println()

	matched := match.MatchFields(fields, sess.profileFields())
	byID := make(map[string]match.MatchedField, len(matched))
	for _, mf := range matched {
		byID[mf.Field.ID] = mf
	}

	for _, f := range fields {
		printField(f, byID[f.ID])
	}
}

func printField(f detect.Field, mf match.MatchedField) {
	name := f.Name
	if name == "" {
		name = "(unnamed)"
	}
	required := ""
	if f.IsRequired {
		required = warnStyle.Render(" *")
	}
	fmt.Printf("%s%s  %s\n",
		fieldStyle.Render(name),
		required,
		dimStyle.Render(fmt.Sprintf("[%s/%s] %q", f.TagKind, f.Type, f.Label)))

	if len(mf.Matches) == 0 {
		fmt.Println(dimStyle.Render("    no profile match"))
		return
	}
	for _, m := range mf.Matches {
		line := fmt.Sprintf("    %s = %q  %s via %s",
			m.ProfileField, m.Value,
			confStyle(m.Confidence).Render(fmt.Sprintf("%.0f%%", m.Confidence*100)),
			m.Method)
		fmt.Println(line)
		if !match.ValidateValue(f.Type, m.Value) {
			fmt.Println(warnStyle.Render(fmt.Sprintf("    ! %q does not look like a valid %s value", m.Value, f.Type)))
		}
	}
}
