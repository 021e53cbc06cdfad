// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// =============================================================================
// RASTER
// =============================================================================

// Default size of one terminal cell in surface units. A cell is treated as
// a 16x32 pixel glyph so link distances read the same as on a desktop
// display.
const (
	DefaultCellWidth  = 16.0
	DefaultCellHeight = 32.0
)

const (
	dotsPerCellX = 2
	dotsPerCellY = 4
	brailleBase  = 0x2800
)

// brailleBits maps a dot position inside a cell (x, y) to its braille bit.
var brailleBits = [dotsPerCellX][dotsPerCellY]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

type dot struct {
	alpha float64
	color RGBA
}

// Raster is a terminal drawing surface. Each cell holds a 2x4 braille dot
// matrix and each dot accumulates alpha the way a canvas composites
// source-over. It implements Surface, Context and ResizeObservable.
//
// A Raster is not safe for concurrent use.
type Raster struct {
	cols, rows   int
	cellW, cellH float64
	dots         []dot

	fill, stroke RGBA

	// Gain scales alpha before thresholding; faint strokes vanish below
	// MinVisible after gain.
	Gain       float64
	MinVisible float64
	LineGain   float64
	Background colorful.Color

	observers map[int]func()
	nextObs   int
	styles    map[string]lipgloss.Style
}

// NewRaster creates a raster of cols x rows terminal cells.
func NewRaster(cols, rows int) *Raster {
	r := &Raster{
		cellW:      DefaultCellWidth,
		cellH:      DefaultCellHeight,
		Gain:       3,
		MinVisible: 0.12,
		LineGain:   2,
		Background: colorful.Color{R: 0.02, G: 0.02, B: 0.03},
		observers:  make(map[int]func()),
		styles:     make(map[string]lipgloss.Style),
	}
	r.realloc(cols, rows)
	return r
}

// SetCellSize changes how many surface units a cell spans and notifies
// resize observers.
func (r *Raster) SetCellSize(w, h float64) {
	if w <= 0 || h <= 0 || (w == r.cellW && h == r.cellH) {
		return
	}
	r.cellW, r.cellH = w, h
	r.notify()
}

// Resize changes the grid size. Storage is reallocated only when it has to
// grow. Observers are notified when the size actually changed.
func (r *Raster) Resize(cols, rows int) {
	if cols == r.cols && rows == r.rows {
		return
	}
	r.realloc(cols, rows)
	r.notify()
}

func (r *Raster) realloc(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	size := cols * dotsPerCellX * rows * dotsPerCellY
	if cap(r.dots) < size {
		r.dots = make([]dot, size)
	} else {
		r.dots = r.dots[:size]
		clear(r.dots)
	}
	r.cols, r.rows = cols, rows
}

func (r *Raster) notify() {
	for _, fn := range r.observers {
		fn()
	}
}

// Cells returns the grid size in terminal cells.
func (r *Raster) Cells() (cols, rows int) {
	return r.cols, r.rows
}

// ObserveResize registers fn to run after every size change.
func (r *Raster) ObserveResize(fn func()) func() {
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	return func() { delete(r.observers, id) }
}

// Size returns the surface size in units.
func (r *Raster) Size() (float64, float64) {
	return float64(r.cols) * r.cellW, float64(r.rows) * r.cellH
}

// Context returns the raster itself, or nil when the grid is empty.
func (r *Raster) Context() Context {
	if r.cols == 0 || r.rows == 0 {
		return nil
	}
	return r
}

// =============================================================================
// CONTEXT
// =============================================================================

// Clear erases every dot.
func (r *Raster) Clear() {
	clear(r.dots)
}

// SetFillStyle sets the color used by FillCircle.
func (r *Raster) SetFillStyle(c RGBA) { r.fill = c }

// SetStrokeStyle sets the color used by StrokeLine.
func (r *Raster) SetStrokeStyle(c RGBA) { r.stroke = c }

func (r *Raster) dotPitch() (float64, float64) {
	return r.cellW / dotsPerCellX, r.cellH / dotsPerCellY
}

func (r *Raster) dotsWide() int { return r.cols * dotsPerCellX }
func (r *Raster) dotsHigh() int { return r.rows * dotsPerCellY }

// FillCircle lights the dot under the center and every dot whose center
// lies inside the circle.
func (r *Raster) FillCircle(x, y, radius float64) {
	px, py := r.dotPitch()
	r.plot(int(x/px), int(y/py), r.fill, r.fill.A)

	x0, x1 := int((x-radius)/px), int((x+radius)/px)
	y0, y1 := int((y-radius)/py), int((y+radius)/py)
	for dy := y0; dy <= y1; dy++ {
		for dx := x0; dx <= x1; dx++ {
			cx, cy := (float64(dx)+0.5)*px, (float64(dy)+0.5)*py
			if math.Hypot(cx-x, cy-y) <= radius && (dx != int(x/px) || dy != int(y/py)) {
				r.plot(dx, dy, r.fill, r.fill.A)
			}
		}
	}
}

// StrokeLine walks the dot grid from one end to the other. Lines thinner
// than a dot contribute alpha in proportion to their width.
func (r *Raster) StrokeLine(x1, y1, x2, y2, width float64) {
	px, py := r.dotPitch()
	coverage := math.Min(1, width*r.LineGain)
	alpha := r.stroke.A * coverage
	if alpha <= 0 {
		return
	}

	ax, ay := x1/px, y1/py
	bx, by := x2/px, y2/py
	steps := int(math.Ceil(math.Max(math.Abs(bx-ax), math.Abs(by-ay))))
	if steps == 0 {
		r.plot(int(ax), int(ay), r.stroke, alpha)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.plot(int(ax+(bx-ax)*t), int(ay+(by-ay)*t), r.stroke, alpha)
	}
}

// plot composites alpha onto one dot, source-over.
func (r *Raster) plot(dx, dy int, c RGBA, alpha float64) {
	w, h := r.dotsWide(), r.dotsHigh()
	if dx < 0 || dy < 0 || dx >= w || dy >= h || alpha <= 0 {
		return
	}
	d := &r.dots[dy*w+dx]
	d.alpha += alpha * (1 - d.alpha)
	d.color = c
}

// =============================================================================
// OUTPUT
// =============================================================================

// Cell returns the braille glyph and brightness of one cell. Brightness is
// the strongest dot after gain, clamped to [0,1]; zero means blank.
func (r *Raster) Cell(col, row int) (rune, float64) {
	if col < 0 || row < 0 || col >= r.cols || row >= r.rows {
		return ' ', 0
	}
	w := r.dotsWide()
	var bits rune
	var level float64
	for x := 0; x < dotsPerCellX; x++ {
		for y := 0; y < dotsPerCellY; y++ {
			d := r.dots[(row*dotsPerCellY+y)*w+col*dotsPerCellX+x]
			a := math.Min(1, d.alpha*r.Gain)
			if a < r.MinVisible {
				continue
			}
			bits |= brailleBits[x][y]
			level = math.Max(level, a)
		}
	}
	if bits == 0 {
		return ' ', 0
	}
	return brailleBase + bits, level
}

// cellColor returns the color of the brightest dot in a cell.
func (r *Raster) cellColor(col, row int) RGBA {
	w := r.dotsWide()
	var best dot
	for x := 0; x < dotsPerCellX; x++ {
		for y := 0; y < dotsPerCellY; y++ {
			d := r.dots[(row*dotsPerCellY+y)*w+col*dotsPerCellX+x]
			if d.alpha > best.alpha {
				best = d
			}
		}
	}
	return best.color
}

// Render draws the raster as one string per row joined by newlines. Runs of
// cells with the same quantized color share one style.
func (r *Raster) Render() string {
	lines := make([]string, r.rows)
	var line, run strings.Builder
	for row := 0; row < r.rows; row++ {
		line.Reset()
		run.Reset()
		runHex := ""
		for col := 0; col < r.cols; col++ {
			ch, level := r.Cell(col, row)
			hex := ""
			if level > 0 {
				hex = r.shade(r.cellColor(col, row), level)
			}
			if hex != runHex {
				line.WriteString(r.paint(runHex, run.String()))
				run.Reset()
				runHex = hex
			}
			run.WriteRune(ch)
		}
		line.WriteString(r.paint(runHex, run.String()))
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

// shade blends c over the background by level, quantized to eighths so
// neighbouring cells fall into the same run.
func (r *Raster) shade(c RGBA, level float64) string {
	q := math.Ceil(level*8) / 8
	fg := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return r.Background.BlendRgb(fg, q).Clamped().Hex()
}

func (r *Raster) paint(hex, s string) string {
	if hex == "" || s == "" {
		return s
	}
	style, ok := r.styles[hex]
	if !ok {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		r.styles[hex] = style
	}
	return style.Render(s)
}
