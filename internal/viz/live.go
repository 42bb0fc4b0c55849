package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmfiel/game-of-life/internal/life"
	"github.com/dmfiel/game-of-life/internal/session"
	"github.com/guptarohit/asciigraph"
)

const (
	historyCapacity = 120
	resizeStep      = 5
	liveGlyph       = "■ "
	deadGlyph       = "· "
)

type TickMsg time.Time

// Model mirrors the session grid on screen. cells is the last drawn state and
// is patched from each frame's diff.
type Model struct {
	s          *session.Session
	cells      []uint8
	size       int
	generation int
	reseeds    int
	frame      session.Frame
	running    bool
	cursor     int
	theme      Theme
	showHelp   bool
	width      int
	height     int
	population []float64
}

// NewModel starts running with the current session contents.
func NewModel(s *session.Session) Model {
	m := Model{
		s:          s,
		running:    true,
		theme:      ThemeCyberpunk,
		width:      80,
		height:     24,
		population: make([]float64, 0, historyCapacity),
	}
	m.sync()
	return m
}

// Run blocks until the user quits.
func Run(s *session.Session, theme string) error {
	m := NewModel(s)
	m.theme = GetTheme(theme)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.s.Interval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance()
			}
		case "r":
			m.s.Randomize()
			m.sync()
		case "c":
			m.s.Clear()
			m.sync()
		case "w":
			m.s.SetWrap(!m.s.Wrap())
		case "a":
			m.s.SetAutoReset(!m.s.AutoReset())
		case "+", "=":
			m.s.SetInterval(max(1, int(m.s.Interval().Milliseconds())/2))
		case "-", "_":
			m.s.SetInterval(int(m.s.Interval().Milliseconds()) * 2)
		case "[":
			m.s.Resize(m.size - resizeStep)
			m.sync()
		case "]":
			m.s.Resize(m.size + resizeStep)
			m.sync()
		case "up", "k":
			if m.cursor >= m.size {
				m.cursor -= m.size
			}
		case "down", "j":
			if m.cursor+m.size < len(m.cells) {
				m.cursor += m.size
			}
		case "left", "h":
			if m.cursor%m.size > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor%m.size < m.size-1 {
				m.cursor++
			}
		case "enter", "x":
			if v, err := m.s.Toggle(m.cursor); err == nil {
				m.cells[m.cursor] = v
			}
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance steps once and patches the screen from the diff. Anything that
// breaks generation continuity, such as an automatic reseed that fired
// between ticks, forces a full resync.
func (m *Model) advance() {
	f := m.s.Step()
	if f.Generation != m.generation+1 || m.s.Reseeds() != m.reseeds || m.s.Size() != m.size {
		m.sync()
	} else {
		for _, i := range f.Changed {
			m.cells[i] = life.Live - m.cells[i]
		}
		m.generation = f.Generation
	}
	m.frame = f

	m.population = append(m.population, float64(f.Population))
	if len(m.population) > historyCapacity {
		m.population = m.population[1:]
	}
}

func (m *Model) sync() {
	m.cells = m.s.Cells()
	m.size = m.s.Size()
	m.generation = m.s.Generation()
	m.reseeds = m.s.Reseeds()
	if m.cursor >= len(m.cells) {
		m.cursor = 0
	}
}

// View renders the grid beside the status panel.
func (m Model) View() string {
	gridView := lipgloss.NewStyle().Padding(1, 2).Render(m.renderGrid())

	header := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true).MarginBottom(1)
	label := lipgloss.NewStyle().Foreground(m.theme.Muted).Width(12)
	value := lipgloss.NewStyle().Foreground(m.theme.Text)

	var s strings.Builder
	s.WriteString(header.Render("GAME OF LIFE") + "\n")

	status := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Active).Render("RUNNING")
	if !m.running {
		status = lipgloss.NewStyle().Bold(true).Foreground(m.theme.Muted).Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	row := func(k, v string) {
		s.WriteString(label.Render(k) + value.Render(v) + "\n")
	}
	row("Generation", fmt.Sprintf("%d", m.generation))
	row("Population", fmt.Sprintf("%d", m.frame.Population))
	row("Grid", fmt.Sprintf("%dx%d", m.size, m.size))
	row("Interval", m.s.Interval().String())
	row("Wrap", onOff(m.s.Wrap()))
	row("Auto reset", onOff(m.s.AutoReset()))
	row("Checksum", fmt.Sprintf("%08x", m.frame.Checksum))

	if m.frame.Stable {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(m.theme.Stable).Render("STABLE") + "\n")
	}
	if m.s.ResetPending() {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Stable).Render("reseed pending") + "\n")
	}

	if len(m.population) > 1 {
		chart := asciigraph.Plot(m.population, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Population"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Accent).Render(chart) + "\n")
	}

	help := lipgloss.NewStyle().Foreground(m.theme.Muted).MarginTop(1)
	s.WriteString(help.Render("SP:Pause N:Step R:Random C:Clear\nW:Wrap A:Auto +/-:Speed [ ]:Size\nQ:Quit ?:Help"))

	statsView := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(m.theme.Muted).
		Padding(1, 2).
		Width(40).
		Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, gridView, statsView)

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

// renderGrid styles runs of equal cells together instead of cell by cell.
func (m Model) renderGrid() string {
	styles := [...]lipgloss.Style{
		lipgloss.NewStyle().Foreground(m.theme.Dead),
		lipgloss.NewStyle().Foreground(m.theme.Live),
		lipgloss.NewStyle().Foreground(m.theme.Cursor).Bold(true),
	}
	kind := func(i int) int {
		if i == m.cursor {
			return 2
		}
		return int(m.cells[i])
	}

	var b strings.Builder
	for r := 0; r < m.size; r++ {
		var run strings.Builder
		runKind := -1
		flush := func() {
			if runKind >= 0 {
				b.WriteString(styles[runKind].Render(run.String()))
			}
			run.Reset()
		}
		for i := r * m.size; i < (r+1)*m.size; i++ {
			if k := kind(i); k != runKind {
				flush()
				runKind = k
			}
			if m.cells[i] == life.Live {
				run.WriteString(liveGlyph)
			} else {
				run.WriteString(deadGlyph)
			}
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Step once while paused   ║
║  R        - Random reseed            ║
║  C        - Clear the grid           ║
║  W        - Toggle wrap              ║
║  A        - Toggle auto reset        ║
║  + / -    - Faster / slower          ║
║  [ / ]    - Shrink / grow the grid   ║
║  Arrows   - Move the cursor          ║
║  Enter    - Toggle cell at cursor    ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
