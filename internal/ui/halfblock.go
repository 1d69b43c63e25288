package ui

import (
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/skyline/internal/palette"
	"github.com/litescript/skyline/internal/scene"
)

// upperHalf draws the top pixel in the foreground and the bottom in the background.
const upperHalf = '▀'

// FrameMsg is a rendered frame sampled down to terminal cells. Each cell
// covers one pixel column and two pixel rows of the surface.
type FrameMsg struct {
	Cols, Rows  int
	Top, Bottom []palette.RGB // row-major, Cols*Rows
	At          time.Time
}

// Sample copies img into a FrameMsg. Channels drop their two low bits so
// neighbouring cells share styles more often.
func Sample(img *image.RGBA) FrameMsg {
	b := img.Bounds()
	cols, rows := b.Dx(), (b.Dy()+1)/2
	f := FrameMsg{
		Cols:   cols,
		Rows:   rows,
		Top:    make([]palette.RGB, cols*rows),
		Bottom: make([]palette.RGB, cols*rows),
	}
	for row := 0; row < rows; row++ {
		y := b.Min.Y + 2*row
		for x := 0; x < cols; x++ {
			i := row*cols + x
			f.Top[i] = pixel(img, b.Min.X+x, y)
			if y+1 < b.Max.Y {
				f.Bottom[i] = pixel(img, b.Min.X+x, y+1)
			}
		}
	}
	return f
}

func pixel(img *image.RGBA, x, y int) palette.RGB {
	c := img.RGBAAt(x, y)
	return palette.RGB{R: c.R &^ 3, G: c.G &^ 3, B: c.B &^ 3}
}

// NewPresenter returns a scene presenter that samples each frame and hands it
// to send, usually tea.Program.Send. Surfaces without pixels are skipped.
func NewPresenter(send func(tea.Msg)) scene.Presenter {
	return scene.PresenterFunc(func(f scene.Frame) {
		src, ok := f.Surface.(interface{ Image() *image.RGBA })
		if !ok {
			return
		}
		msg := Sample(src.Image())
		msg.At = f.Stats.At
		send(msg)
	})
}

// CellToPixel maps a terminal cell to the surface pixel at its centre.
func CellToPixel(col, row int) (x, y float64) {
	return float64(col) + 0.5, float64(2*row) + 1
}

type cell struct {
	ch     rune
	fg, bg palette.RGB
}

// grid is the terminal screen being composed, row-major.
type grid struct {
	cols, rows int
	cells      []cell
}

// newGrid fills a cols×rows grid from f, cropping or padding with black.
func newGrid(f FrameMsg, cols, rows int) grid {
	g := grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := cell{ch: upperHalf}
			if x < f.Cols && y < f.Rows {
				i := y*f.Cols + x
				c.fg, c.bg = f.Top[i], f.Bottom[i]
			}
			g.cells[y*cols+x] = c
		}
	}
	return g
}

func (g grid) at(x, y int) *cell { return &g.cells[y*g.cols+x] }

// dim darkens every cell toward black by amount in [0, 1].
func (g grid) dim(amount float64) {
	if amount <= 0 {
		return
	}
	black := palette.RGB{}
	for i := range g.cells {
		g.cells[i].fg = palette.Mix(black, g.cells[i].fg, amount)
		g.cells[i].bg = palette.Mix(black, g.cells[i].bg, amount)
	}
}

// text writes s at (x, y) in color at the given opacity over whatever sky is
// underneath. Spaces leave the sky showing. Text outside the grid is clipped.
func (g grid) text(x, y int, s string, color palette.RGB, opacity float64) {
	if y < 0 || y >= g.rows || opacity <= 0 {
		return
	}
	for _, r := range s {
		if x >= 0 && x < g.cols && r != ' ' {
			c := g.at(x, y)
			under := palette.Mix(c.fg, c.bg, 0.5)
			*c = cell{ch: r, fg: palette.Mix(color, under, opacity), bg: under}
		}
		x++
	}
}

// centered writes s horizontally centred on row y.
func (g grid) centered(y int, s string, color palette.RGB, opacity float64) {
	g.text((g.cols-len([]rune(s)))/2, y, s, color, opacity)
}

type styleKey struct{ fg, bg palette.RGB }

// maxStyles bounds the style cache; it is emptied when full.
const maxStyles = 8192

// styleCache memoises lipgloss styles per color pair.
type styleCache map[styleKey]lipgloss.Style

func (sc styleCache) get(fg, bg palette.RGB) lipgloss.Style {
	k := styleKey{fg, bg}
	if s, ok := sc[k]; ok {
		return s
	}
	if len(sc) >= maxStyles {
		clear(sc)
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg.Hex())).
		Background(lipgloss.Color(bg.Hex()))
	sc[k] = s
	return s
}

// render encodes the grid, merging runs of cells that share colors.
func (g grid) render(styles styleCache) string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := g.cells[y*g.cols : (y+1)*g.cols]
		for x := 0; x < len(row); {
			start := row[x]
			run.Reset()
			for x < len(row) && row[x].fg == start.fg && row[x].bg == start.bg {
				run.WriteRune(row[x].ch)
				x++
			}
			b.WriteString(styles.get(start.fg, start.bg).Render(run.String()))
		}
	}
	return b.String()
}
