package world

import (
	"strings"

	"cosmarium/components"
)

// Cell glyphs for the ASCII renderer.
const (
	glyphEmpty     = '.'
	glyphPlant     = '*'
	glyphHerbivore = 'O'
	glyphCarnivore = 'X'
	glyphMaterial  = '◊'
)

// Render draws the grid as text, one row per line. Organisms cover
// materials on the same cell.
func (w *World) Render() string {
	var b strings.Builder
	for row := 0; row < w.height; row++ {
		for col := 0; col < w.width; col++ {
			idx := w.index(row, col)
			e := w.grid[idx]
			if e == zeroEntity {
				if _, ok := w.materials[idx]; ok {
					b.WriteRune(glyphMaterial)
				} else {
					b.WriteRune(glyphEmpty)
				}
				continue
			}
			switch w.metaMap.Get(e).Kind {
			case components.KindPlant:
				b.WriteRune(glyphPlant)
			case components.KindHerbivore:
				b.WriteRune(glyphHerbivore)
			default:
				b.WriteRune(glyphCarnivore)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
