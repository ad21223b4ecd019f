package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/boost/pkg/ambient"
)

// canvas is a fixed grid of cells that reminders are stamped onto. Each cell
// remembers the phase of the reminder that drew it so rows can be styled in
// runs. A double-width rune occupies its cell and the next, which holds cont.
type canvas struct {
	w, h  int
	cells [][]rune
	phase [][]int8
}

const (
	blank int8 = -1
	cont  rune = 0
)

// Smallest box that still has a border and one cell of text.
const minBoxW, minBoxH = 4, 3

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]rune, c.h)
	c.phase = make([][]int8, c.h)
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", c.w))
		c.phase[y] = make([]int8, c.w)
		for x := range c.phase[y] {
			c.phase[y][x] = blank
		}
	}
	return c
}

// boxLines renders content as a rounded box of exactly box.W by box.H cells,
// measured in display width. Boxes smaller than minBoxW by minBoxH grow to it.
func boxLines(content string, box ambient.Size) []string {
	box.W = max(box.W, minBoxW)
	box.H = max(box.H, minBoxH)
	inner := max(box.W-4, 1)
	rows := max(box.H-2, 1)

	wrapped := strings.Split(wordwrap.String(strings.Join(strings.Fields(content), " "), inner), "\n")
	if len(wrapped) > rows {
		wrapped = wrapped[:rows]
		last := truncate.String(wrapped[rows-1], uint(max(inner-1, 0)))
		wrapped[rows-1] = last + "…"
	}
	for len(wrapped) < rows {
		wrapped = append(wrapped, "")
	}

	lines := make([]string, 0, rows+2)
	lines = append(lines, "╭"+strings.Repeat("─", box.W-2)+"╮")
	for _, l := range wrapped {
		l = truncate.String(l, uint(inner))
		pad := inner - runewidth.StringWidth(l)
		lines = append(lines, "│ "+l+strings.Repeat(" ", max(pad, 0))+" │")
	}
	lines = append(lines, "╰"+strings.Repeat("─", box.W-2)+"╯")
	return lines
}

// stamp draws r's box at its position, clipped to the grid. A double-width
// rune cut by the grid edge is drawn as a space, and a wide rune split by the
// box's own edge is blanked so the row keeps its width.
func (c *canvas) stamp(r ambient.Reminder, box ambient.Size) {
	for dy, line := range boxLines(r.Content, box) {
		y := r.Y + dy
		if y < 0 || y >= c.h {
			continue
		}
		row := c.cells[y]
		x0 := max(r.X, 0)
		x1 := min(r.X+cellWidth(line), c.w)
		if x0 >= x1 {
			continue
		}
		if x0 > 0 && row[x0] == cont {
			row[x0-1] = ' '
		}
		if x1 < c.w && row[x1] == cont {
			row[x1] = ' '
		}

		x := r.X
		for _, ch := range line {
			w := runewidth.RuneWidth(ch)
			if w == 0 {
				continue
			}
			if x+w <= 0 || x >= c.w {
				x += w
				continue
			}
			if x < 0 || x+w > c.w {
				// Only part of a wide rune fits.
				for i := max(x, 0); i < min(x+w, c.w); i++ {
					c.set(i, y, ' ', r.Phase)
				}
			} else {
				c.set(x, y, ch, r.Phase)
				for i := 1; i < w; i++ {
					c.set(x+i, y, cont, r.Phase)
				}
			}
			x += w
		}
	}
}

func (c *canvas) set(x, y int, ch rune, p ambient.Phase) {
	c.cells[y][x] = ch
	c.phase[y][x] = int8(p)
}

// render joins the rows, styling each run of cells by the phase that drew it.
func (c *canvas) render(pending, visible lipgloss.Style) string {
	rows := make([]string, 0, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.phase[y][x] == c.phase[y][start] {
				continue
			}
			run := cellString(c.cells[y][start:x])
			switch c.phase[y][start] {
			case int8(ambient.Pending):
				run = pending.Render(run)
			case int8(ambient.Visible):
				run = visible.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func cellString(cells []rune) string {
	var b strings.Builder
	for _, ch := range cells {
		if ch != cont {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// cellWidth is the number of grid cells stamp uses for s.
func cellWidth(s string) int {
	n := 0
	for _, ch := range s {
		n += runewidth.RuneWidth(ch)
	}
	return n
}
