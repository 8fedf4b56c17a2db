// Package diff renders table cells that only show values which changed since the last
// rendered row. Unchanged values are replaced by a placeholder of the same width so that the
// table columns stay aligned.
package diff

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Placeholder is the glyph that fills the cell of an unchanged value.
const Placeholder = "."

// Renderer decides per cell whether a value or a placeholder is shown. The first row always
// shows all values.
type Renderer struct {
	rendered bool
}

// First returns whether no row has been committed yet.
func (r *Renderer) First() bool {
	return !r.rendered
}

// Commit marks the current row as emitted.
func (r *Renderer) Commit() {
	r.rendered = true
}

// Reset makes the next row a first row again.
func (r *Renderer) Reset() {
	r.rendered = false
}

// Show returns whether a cell with the given values has to show the current value.
// Force overrides the comparison, for example for cells of a newly keyed note.
func Show[T comparable](r *Renderer, current, last T, force bool) bool {
	return !r.rendered || force || current != last
}

// Hex renders the value as upper case hex number of the given width or a placeholder.
func Hex[T constraints.Unsigned](r *Renderer, current, last T, width int, force bool) string {
	if Show(r, current, last, force) {
		return fmt.Sprintf("%0*X", width, current)
	}
	return Blank(width)
}

// Text renders the text of the current value or a placeholder of the same width.
func Text[T comparable](r *Renderer, current, last T, text string, force bool) string {
	if Show(r, current, last, force) {
		return text
	}
	return Blank(len(text))
}

// Blank returns a placeholder of the given width.
func Blank(width int) string {
	return strings.Repeat(Placeholder, width)
}
