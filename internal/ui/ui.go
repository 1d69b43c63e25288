// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/skyline/internal/intro"
	"github.com/litescript/skyline/internal/palette"
	"github.com/litescript/skyline/internal/state"
)

// Sky is the animation the model steers. scene.Loop implements it.
type Sky interface {
	Resize(width, height int)
	SetCursor(x, y float64)
}

// TickMsg triggers periodic stats refreshes.
type TickMsg time.Time

var (
	white     = palette.RGB{R: 255, G: 255, B: 255}
	dimPurple = palette.RGB{R: 110, G: 90, B: 150}
	accent    = palette.RGB{R: 157, G: 78, B: 221}
)

// loaderWidth is the loader bar length in cells at full scale.
const loaderWidth = 40

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	sky      Sky
	stats    *state.Manager
	timeline *intro.Timeline
	started  time.Time

	// UI state
	width     int
	height    int
	ready     bool
	showStats bool
	animTick  int

	frame    FrameMsg
	elapsed  time.Duration
	overlay  intro.Overlay
	snapshot state.Snapshot
	styles   styleCache

	now func() time.Time
}

// New creates the root model. started is the instant the intro timeline
// counts from. Frames carry their own timestamps; the periodic tick keeps the
// intro moving when no frames arrive.
func New(sky Sky, stats *state.Manager, timeline *intro.Timeline, started time.Time) Model {
	if timeline == nil {
		timeline = &intro.Timeline{}
	}
	return Model{
		sky:      sky,
		stats:    stats,
		timeline: timeline,
		started:  started,
		overlay:  timeline.At(0),
		styles:   styleCache{},
		now:      time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			m.showStats = !m.showStats
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.sky != nil {
			m.sky.Resize(msg.Width, msg.Height*2)
		}

	case tea.MouseMsg:
		if m.sky != nil {
			m.sky.SetCursor(CellToPixel(msg.X, msg.Y))
		}

	case FrameMsg:
		m.frame = msg
		if !msg.At.IsZero() {
			m.advance(msg.At)
		}

	case TickMsg:
		m.animTick++
		m.advance(m.now())
		if m.stats != nil {
			m.snapshot = m.stats.Snapshot()
		}
		return m, tickCmd()
	}

	return m, nil
}

// advance moves the intro forward to at. Time never runs backwards, so a
// late frame cannot undo a tick.
func (m *Model) advance(at time.Time) {
	if e := at.Sub(m.started); e > m.elapsed {
		m.elapsed = e
	}
	m.overlay = m.timeline.At(m.elapsed)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	g := newGrid(m.frame, m.width, m.height)
	ov := m.overlay
	if ov.Loading {
		renderLoader(g, ov)
	} else {
		renderTitle(g, ov)
	}
	if m.showStats {
		m.renderFooter(g)
	}
	return g.render(m.styles)
}

// Elapsed reports how far into the intro the model has got.
func (m Model) Elapsed() time.Duration { return m.elapsed }

// Overlay returns the intro overlay currently drawn.
func (m Model) Overlay() intro.Overlay { return m.overlay }

func renderLoader(g grid, ov intro.Overlay) {
	g.dim(ov.Backdrop)

	full := min(loaderWidth, g.cols-4)
	n := int(float64(full)*ov.BarScale + 0.5)
	if n <= 0 {
		return
	}
	// scaleX grows from the centre
	g.centered(g.rows/2, strings.Repeat("─", n), white, ov.BarOpacity*ov.Backdrop)
}

// titleArt is the large title in a block font.
var titleArt = joinGlyphs(glyphH, glyphO, glyphM, glyphO, glyphS)

var (
	glyphH = []string{
		`██╗  ██╗`,
		`██║  ██║`,
		`███████║`,
		`██╔══██║`,
		`██║  ██║`,
		`╚═╝  ╚═╝`,
	}
	glyphO = []string{
		` ██████╗ `,
		`██╔═══██╗`,
		`██║   ██║`,
		`██║   ██║`,
		`╚██████╔╝`,
		` ╚═════╝ `,
	}
	glyphM = []string{
		`███╗   ███╗`,
		`████╗ ████║`,
		`██╔████╔██║`,
		`██║╚██╔╝██║`,
		`██║ ╚═╝ ██║`,
		`╚═╝     ╚═╝`,
	}
	glyphS = []string{
		`███████╗`,
		`██╔════╝`,
		`███████╗`,
		`╚════██║`,
		`███████║`,
		`╚══════╝`,
	}
)

func joinGlyphs(glyphs ...[]string) []string {
	rows := make([]string, len(glyphs[0]))
	for i := range rows {
		var b strings.Builder
		for _, g := range glyphs {
			b.WriteString(g[i])
		}
		rows[i] = b.String()
	}
	return rows
}

// titleShade fades the title slightly toward its base, brighter at the top.
func titleShade(row, height int) palette.RGB {
	return palette.Mix(white, palette.RGB{R: 180, G: 180, B: 200}, 1-float64(row)/float64(height)*0.5)
}

func renderTitle(g grid, ov intro.Overlay) {
	w := len([]rune(titleArt[0]))
	big := w+2 <= g.cols && len(titleArt)+6 <= g.rows
	titleRows := 1
	if big {
		titleRows = len(titleArt)
	}

	// title, one blank row, tagline; centred as a block
	top := (g.rows-(titleRows+2))/2 + riseRows(ov.TitleOffset)
	if big {
		for i, line := range titleArt {
			g.centered(top+i, line, titleShade(i, len(titleArt)), ov.TitleOpacity)
		}
		g.text((g.cols-w)/2+w, top, intro.TitleMark, white, ov.TitleOpacity)
	} else {
		g.centered(top, intro.Title+"™", white, ov.TitleOpacity)
	}

	taglineRow := (g.rows-(titleRows+2))/2 + titleRows + 1 + riseRows(ov.TaglineOffset)
	g.centered(taglineRow, intro.Tagline, white, ov.TaglineOpacity)

	g.centered(g.rows-2, strings.TrimPrefix(intro.SocialURL, "https://"), white, ov.SocialOpacity)
}

// riseRows converts the remaining rise in pixels to whole terminal rows.
func riseRows(offset float64) int {
	return int(offset/intro.TitleRise*2 + 0.5)
}

func (m Model) renderFooter(g grid) {
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	snap := m.snapshot
	status := "waiting for frames..."
	if snap.Frames > 0 {
		status = fmt.Sprintf("%.0f fps · %d stars · %d nebulae · %d meteors · %v/frame",
			snap.FPS, snap.Last.Stars, snap.Last.Nebulae, snap.Last.Meteors,
			snap.AvgFrameTime.Round(100*time.Microsecond))
	}

	y := g.rows - 1
	g.text(1, y, spinner, accent, 1)
	g.text(3, y, status, dimPurple, 1)
	help := "s: stats | q: quit"
	g.text(g.cols-len(help)-1, y, help, dimPurple, 1)
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
