package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wanderplan/internal/ai"
	"wanderplan/internal/config"
	"wanderplan/internal/logger"
	"wanderplan/internal/maps"
	"wanderplan/internal/modules/itinerary"
	"wanderplan/internal/modules/planner"
	"wanderplan/internal/modules/preference"
	"wanderplan/internal/types"
)

const pollEvery = 250 * time.Millisecond

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate an itinerary",
	Example: `  wanderplan plan --destination "Rome, Italy" --start 2026-11-01 --end 2026-11-05 \
    --budget 1500 --interests History,Foodie --pace moderate --pdf rome.pdf
  wanderplan plan --interactive`,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.String("destination", "", "where to go")
	f.String("start", "", "start date (YYYY-MM-DD, default today)")
	f.String("end", "", "end date (YYYY-MM-DD, default a week after today)")
	f.String("budget", preference.DefaultBudget, "budget in USD")
	f.StringSlice("interests", nil, "comma separated interests, e.g. History,Foodie")
	f.String("pace", string(types.PaceModerate), "relaxed, moderate or packed")
	f.BoolP("interactive", "i", false, "walk through the three-step form")
	f.String("pdf", "", "also write a printable itinerary to this file")
	f.Bool("all-days", true, "print every day expanded")
	f.Duration("timeout", 0, "generation timeout (0 = none)")

	for _, name := range []string{"destination", "start", "end", "budget", "interests", "pace", "pdf", "timeout"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
}

// prefsFromFlags runs flag values through the same form rules the wizard applies.
func prefsFromFlags(today time.Time) (types.Preferences, error) {
	w := preference.NewWizard(today)
	w.SetDestination(viper.GetString("destination"))
	if v := viper.GetString("start"); v != "" {
		if err := w.SetStartDate(v); err != nil {
			return types.Preferences{}, err
		}
	}
	if v := viper.GetString("end"); v != "" {
		if err := w.SetEndDate(v); err != nil {
			return types.Preferences{}, err
		}
	}
	w.Next()
	if err := w.SetBudget(viper.GetString("budget")); err != nil {
		return types.Preferences{}, err
	}
	if err := w.SetPace(types.Pace(strings.ToLower(viper.GetString("pace")))); err != nil {
		return types.Preferences{}, err
	}
	w.Next()
	for _, tag := range viper.GetStringSlice("interests") {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if _, err := w.ToggleInterest(tag); err != nil {
			return types.Preferences{}, err
		}
	}
	return w.Submit()
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	today := time.Now()

	interactive, _ := cmd.Flags().GetBool("interactive")
	var (
		prefs types.Preferences
		err   error
	)
	if interactive {
		prefs, err = runWizard(cmd.InOrStdin(), out, today)
	} else {
		prefs, err = prefsFromFlags(today)
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(prefs.Destination) == "" {
		return fmt.Errorf("a destination is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := viper.GetString("provider"); v != "" {
		cfg.AI.Provider = strings.ToLower(v)
	}
	if v := viper.GetString("model"); v != "" {
		cfg.AI.Model = v
	}
	if d := viper.GetDuration("timeout"); d > 0 {
		cfg.AI.Timeout = d
	}

	zl, err := logger.New(viper.GetString("log_level"), true)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	gen, closeGen, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		return err
	}
	defer closeGen()

	opts := planner.Options{Timeout: cfg.AI.Timeout}
	if cfg.Maps.Key != "" {
		if places, err := maps.NewDestinationService(cfg.Maps.Key); err == nil {
			opts.Places = places
		}
	}
	svc := planner.NewService(planner.NewMemoryStore(0), gen, zl, opts)
	defer svc.Close()

	sess, err := generate(ctx, svc, prefs, out)
	if err != nil {
		return err
	}

	allDays, _ := cmd.Flags().GetBool("all-days")
	v := itinerary.NewView(sess.Itinerary, *sess.Preferences, itinerary.FirstDay, cfg.Maps.Key)
	v.Place = sess.Place
	if err := itinerary.RenderText(out, v, allDays); err != nil {
		return err
	}
	printAttractions(out, sess.Place)

	if path := viper.GetString("pdf"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := itinerary.RenderPDF(f, v); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSaved printable itinerary to %s\n", path)
	}
	return nil
}

// generate submits prefs and waits for the attempt to finish, printing the
// rotating loading messages meanwhile.
func generate(ctx context.Context, svc *planner.Service, prefs types.Preferences, out io.Writer) (*planner.Session, error) {
	sess, err := svc.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := svc.Submit(ctx, sess.ID, "cli", prefs); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()
	var shown string
	for {
		cur, err := svc.Get(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		switch cur.State {
		case planner.StateSuccess:
			svc.Wait()
			return svc.Get(ctx, sess.ID)
		case planner.StateFailed:
			return nil, fmt.Errorf("%s (%s)", cur.Error, cur.FailureKind)
		}
		if msg := cur.LoadingMessage(svc.Now()); msg != shown {
			fmt.Fprintln(out, msg)
			shown = msg
		}

		select {
		case <-ctx.Done():
			_, _ = svc.StartOver(context.Background(), sess.ID)
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func printAttractions(out io.Writer, place *types.Destination) {
	if place == nil || len(place.Attractions) == 0 {
		return
	}
	fmt.Fprintf(out, "\nTop attractions near %s\n", place.FormattedAddress)
	for _, a := range place.Attractions {
		fmt.Fprintf(out, "  * %s (%.1f, %d reviews)\n", a.Name, a.Rating, a.UserRatingsTotal)
	}
}
