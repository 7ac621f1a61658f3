package itinerary

import (
	"fmt"
	"io"
	"strings"
)

// RenderText writes a terminal rendering of v. Days that are not open show
// their header only, unless all is set.
func RenderText(w io.Writer, v View, all bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", v.Title, strings.Repeat("=", len(v.Title)))
	fmt.Fprintf(&b, "Destination: %s\n", v.Destination)
	fmt.Fprintf(&b, "Dates:       %s\n", v.Duration)
	fmt.Fprintf(&b, "%s\n\n", v.Total)

	for _, d := range v.Days {
		marker := "+"
		if d.Open || all {
			marker = "-"
		}
		fmt.Fprintf(&b, "%s Day %d  %s  (%s)\n", marker, d.Day, d.Theme, d.Date)
		if !d.Open && !all {
			continue
		}
		for _, a := range d.Activities {
			fmt.Fprintf(&b, "    %-8s %-14s %s  [%s]\n", a.Time, a.Type, a.Description, a.Cost)
		}
	}

	b.WriteString("\nCost Breakdown\n")
	for _, c := range v.Costs {
		fmt.Fprintf(&b, "  %-20s %10.2f  %3d%%\n", c.Category, c.Amount, c.Percent)
	}

	if len(v.Audit.Warnings) > 0 {
		b.WriteString("\nNotes\n")
		for _, warn := range v.Audit.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", warn)
		}
	}
	fmt.Fprintf(&b, "\nMap: %s\n", v.MapLinkURL)

	_, err := io.WriteString(w, b.String())
	return err
}
