package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// blankRows returns height rows of width spaces.
func blankRows(width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	rows := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range rows {
		rows[i] = blank
	}
	return rows
}

// overlay draws label centred over rows. Spaces in the label are
// transparent; everything else replaces the cells underneath, rendered
// through style. rows is not modified.
func overlay(rows, label []string, width int, style func(...string) string) []string {
	if len(rows) == 0 || len(label) == 0 {
		return rows
	}
	labelWidth := 0
	for _, line := range label {
		labelWidth = max(labelWidth, ansi.StringWidth(line))
	}
	top := (len(rows) - len(label)) / 2
	left := (width - labelWidth) / 2

	out := slices.Clone(rows)
	for i, line := range label {
		y := top + i
		if y < 0 || y >= len(out) {
			continue
		}
		out[y] = paintLine(out[y], left, line, width, style)
	}
	return out
}

// paintLine splices the inked runs of line into row starting at column x,
// clipped to [0, width).
func paintLine(row string, x int, line string, width int, style func(...string) string) string {
	var run []rune
	start := 0
	flush := func() {
		at, ink := start, run
		run = nil
		if at < 0 {
			if -at >= len(ink) {
				return
			}
			ink, at = ink[-at:], 0
		}
		if at >= width {
			return
		}
		if at+len(ink) > width {
			ink = ink[:width-at]
		}
		row = ansi.Truncate(row, at, "") + style(string(ink)) + ansi.TruncateLeft(row, at+len(ink), "")
	}

	col := x
	for _, r := range line {
		if r == ' ' {
			if len(run) > 0 {
				flush()
			}
			col++
			continue
		}
		if len(run) == 0 {
			start = col
		}
		run = append(run, r)
		col++
	}
	if len(run) > 0 {
		flush()
	}
	return row
}
