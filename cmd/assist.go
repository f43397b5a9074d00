package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lance13c/formpilot/internal/detect"
	"github.com/lance13c/formpilot/internal/fill"
	"github.com/lance13c/formpilot/internal/logging"
	"github.com/lance13c/formpilot/internal/match"
	"github.com/lance13c/formpilot/internal/overlay"
	"github.com/lance13c/formpilot/internal/shortcuts"
)

var assistCmd = &cobra.Command{
	Use:   "assist <url>",
	Short: "Attach the interactive fill overlay to a page",
	Long: `Assist opens the page and attaches badges to every matched field.
Click a badge or focus a field to see suggestions; pick one with the
mouse or arrow keys and Enter.

Keyboard shortcuts on the page:
  Alt+Shift+F  fill all unambiguous fields
  Alt+Shift+P  reload the profile file
  Alt+Shift+I  infer matches for still-unmatched fields

The overlay tracks page mutations, so fields that appear later get
badges too. Press Ctrl+C here to detach and quit.`,
	Args: cobra.ExactArgs(1),
	Run:  runAssist,
}

func init() {
	rootCmd.AddCommand(assistCmd)
}

func runAssist(cmd *cobra.Command, args []string) {
	if pilotConfig != nil && pilotConfig.Browser.Headless {
		fmt.Fprintln(os.Stderr, "Error: assist needs a visible browser; remove the headless setting")
		os.Exit(1)
	}

	sess, err := openSession(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.close()
	if sess.store == nil {
		fmt.Fprintln(os.Stderr, "Error: assist needs a readable profile")
		os.Exit(1)
	}

	ctx := context.Background()
	detector := detect.New(sess.page)
	filler := fill.New(sess.page)

	ovl := overlay.New(sess.page, sess.page, filler, overlay.Options{
		MaxSuggestions:     pilotConfig.Overlay.MaxSuggestions,
		ToastDuration:      pilotConfig.ToastDuration(),
		RepositionDebounce: pilotConfig.RepositionDebounce(),
	})
	if err := ovl.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scanAndAttach := func() {
		fields, err := detector.DetectFields(ctx)
		if err != nil {
			logging.Warn("assist: rescan failed: %v", err)
			return
		}
		ovl.AttachToFields(match.MatchFields(fields, sess.store.Fields()))
	}
	scanAndAttach()

	sc, err := shortcuts.Bind(ctx, sess.page, sess.page, shortcuts.Handlers{
		FillAll: func() {
			sum := filler.FillAll(ctx, ovl.GetMatchedFields())
			ovl.ShowFillResult(sum)
		},
		RefreshProfile: func() {
			if err := sess.store.Refresh(); err != nil {
				ovl.ShowToast("Profile reload failed")
				return
			}
			scanAndAttach()
			ovl.ShowToast("Profile reloaded")
		},
		Infer: func() {
			n := inferUnmatched(ctx, detector, ovl, sess)
			ovl.ShowToast(fmt.Sprintf("Inferred matches for %d fields", n))
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ovl.Destroy()
		os.Exit(1)
	}

	watcher, err := detect.Watch(ctx, sess.page, sess.page, pilotConfig.MutationDebounce(), scanAndAttach)
	if err != nil {
		logging.Warn("assist: mutation watching unavailable: %v", err)
	}

	if pilotConfig.Profile.Watch {
		err := sess.store.Watch(func() {
			scanAndAttach()
			ovl.ShowToast("Profile reloaded")
		})
		if err != nil {
			logging.Warn("assist: profile watching unavailable: %v", err)
		}
	}

	url, title, _ := sess.browser.PageInfo()
	fmt.Println(titleStyle.Render(fmt.Sprintf("Assisting on %s - %s", title, url)))
	fmt.Println(dimStyle.Render("Press Ctrl+C to detach."))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println(dimStyle.Render("Detaching..."))
	if watcher != nil {
		watcher.Close(ctx)
	}
	sc.Close(ctx)
	ovl.Destroy()
}

// inferUnmatched runs the similarity layer alone over fields that have no
// badge yet and attaches any new candidates. Returns how many fields
// gained one.
func inferUnmatched(ctx context.Context, detector *detect.Detector, ovl *overlay.Manager, sess *session) int {
	fields, err := detector.DetectFields(ctx)
	if err != nil {
		logging.Warn("assist: infer scan failed: %v", err)
		return 0
	}

	attached := make(map[string]bool)
	for _, mf := range ovl.GetMatchedFields() {
		attached[mf.Field.ID] = true
	}
	var unmatched []detect.Field
	for _, f := range fields {
		if !attached[f.ID] {
			unmatched = append(unmatched, f)
		}
	}

	inferred := match.InferUnmatched(unmatched, sess.store.Fields())
	ovl.AttachToFields(inferred)
	return len(inferred)
}
