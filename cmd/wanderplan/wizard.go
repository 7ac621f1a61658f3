package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"wanderplan/internal/modules/preference"
	"wanderplan/internal/types"
)

const backKeyword = "back"

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask prints label and reads one line. An empty answer yields def.
func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	v := strings.TrimSpace(p.in.Text())
	if v == "" {
		return def, nil
	}
	return v, nil
}

// askUntil repeats the question until set accepts the answer.
func (p *prompter) askUntil(label, def string, set func(string) error) (string, error) {
	for {
		v, err := p.ask(label, def)
		if err != nil {
			return "", err
		}
		if strings.EqualFold(v, backKeyword) {
			return backKeyword, nil
		}
		if err := set(v); err != nil {
			fmt.Fprintf(p.out, "  %v\n", err)
			continue
		}
		return v, nil
	}
}

// runWizard walks the three form steps on a terminal. Typing "back" at steps
// 2 and 3 returns to the previous step with the draft kept.
func runWizard(in io.Reader, out io.Writer, today time.Time) (types.Preferences, error) {
	w := preference.NewWizard(today)
	p := &prompter{in: bufio.NewScanner(in), out: out}

	for {
		draft := w.Draft()
		fmt.Fprintf(out, "\nStep %d of %d\n", w.Step(), preference.LastStep)

		switch w.Step() {
		case 1:
			dest, err := p.ask("Where do you want to go?", draft.Destination)
			if err != nil {
				return types.Preferences{}, err
			}
			w.SetDestination(dest)
			if _, err := p.askUntil("Start date", draft.StartDate, w.SetStartDate); err != nil {
				return types.Preferences{}, err
			}
			if _, err := p.askUntil("End date", w.Draft().EndDate, w.SetEndDate); err != nil {
				return types.Preferences{}, err
			}
			w.Next()

		case 2:
			v, err := p.askUntil("Budget (USD)", draft.Budget, w.SetBudget)
			if err != nil {
				return types.Preferences{}, err
			}
			if v == backKeyword {
				w.Back()
				continue
			}
			v, err = p.askUntil("Pace (relaxed, moderate, packed)", string(draft.Pace), func(s string) error {
				return w.SetPace(types.Pace(strings.ToLower(s)))
			})
			if err != nil {
				return types.Preferences{}, err
			}
			if v == backKeyword {
				w.Back()
				continue
			}
			w.Next()

		case 3:
			for i, tag := range preference.InterestOptions {
				fmt.Fprintf(out, "  %d) %s\n", i+1, tag)
			}
			v, err := p.ask("Toggle interests (names or numbers, comma separated; empty to submit)", "")
			if err != nil {
				return types.Preferences{}, err
			}
			if strings.EqualFold(v, backKeyword) {
				w.Back()
				continue
			}
			if v != "" {
				for _, part := range strings.Split(v, ",") {
					tag := interestTag(part)
					if tag == "" {
						continue
					}
					if _, err := w.ToggleInterest(tag); err != nil {
						return types.Preferences{}, err
					}
				}
				fmt.Fprintf(out, "  Selected: %s\n", strings.Join(w.Draft().Interests, ", "))
				continue
			}

			prefs, err := w.Submit()
			if errors.Is(err, preference.ErrNoInterests) {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			return prefs, err
		}
	}
}

// interestTag resolves a catalogue number to its tag; anything else is a free-form tag.
func interestTag(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(preference.InterestOptions) {
		return preference.InterestOptions[n-1]
	}
	return s
}
