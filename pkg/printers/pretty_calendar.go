package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/boost/pkg/entry"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints a calendar of the month containing then with the days that
// have at least one entry highlighted.
func (pp *PrettyPrint) Month(then time.Time, entries ...entry.Entry) {
	then = then.Local()
	count := make([]int, DaysIn(then))
	for _, e := range entries {
		created := e.Created.Local()
		if created.Year() == then.Year() && created.Month() == then.Month() {
			count[created.Day()-1]++
		}
	}
	pp.PrintMonthCount(then, count)
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	w := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(w, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiMagenta)

	for i := 0; i < len(count); i++ {
		if count[i] == 0 {
			_, _ = l1.Fprintf(w, "%2d ", i+1)
		} else {
			_, _ = l2.Fprintf(w, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
