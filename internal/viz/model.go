package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/antpole/internal/driver"
	"github.com/san-kum/antpole/internal/pole"
	"github.com/san-kum/antpole/internal/tui"
)

const historyCapacity = 256

type TickMsg time.Time

// frameBuffer is the driver's sink. It lives behind a pointer so the
// value-receiver Model sees every update.
type frameBuffer struct {
	positions  []int
	directions []pole.Direction
	time       int
	elapsed    []float64
}

func (b *frameBuffer) OnStep(positions []int, directions []pole.Direction, t int) {
	b.positions, b.directions, b.time = positions, directions, t
}

func (b *frameBuffer) OnComplete(elapsed int) {
	b.elapsed = append(b.elapsed, float64(elapsed))
	if len(b.elapsed) > historyCapacity {
		b.elapsed = b.elapsed[1:]
	}
}

type Options struct {
	FrameRate int
	Width     int
	Autostart bool
}

// Model holds the live view state.
type Model struct {
	driver   *driver.Driver
	buf      *frameBuffer
	dirs     []pole.Direction
	selected int
	running  bool
	fps      int
	width    int
	err      error
}

// NewModel builds a view over a fresh driver. With Autostart the first run
// starts immediately using dirs.
func NewModel(params pole.Params, positions []int, dirs []pole.Direction, opts Options) (Model, error) {
	if _, err := pole.New(params, positions, dirs); err != nil {
		return Model{}, err
	}
	buf := &frameBuffer{}
	d, err := driver.New(params, positions, buf)
	if err != nil {
		return Model{}, err
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	if opts.Width <= 0 {
		opts.Width = tui.DefaultWidth
	}

	m := Model{
		driver:  d,
		buf:     buf,
		dirs:    append([]pole.Direction(nil), dirs...),
		running: true,
		fps:     opts.FrameRate,
		width:   opts.Width,
	}
	m.showInitial()
	if opts.Autostart {
		if _, err := d.Start(m.dirs); err != nil {
			return Model{}, err
		}
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles keys and advances the current run on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.driver.Reset()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "enter":
			m.err = nil
			if _, err := m.driver.Start(m.dirs); err != nil {
				m.err = err
			}
		case "a":
			m.err = m.driver.StartAutoplay()
		case "r":
			m.driver.Reset()
			m.err = nil
			m.showInitial()
		case "left", "h":
			m.cycle(-1)
		case "right", "l":
			m.cycle(1)
		case "d":
			if len(m.dirs) > 0 && !m.driver.Active() {
				m.dirs[m.selected] = m.dirs[m.selected].Reverse()
				m.showInitial()
			}
		}
	case TickMsg:
		if m.running && m.driver.Current() != nil {
			if _, err := m.driver.Tick(); err != nil {
				m.err = err
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) cycle(dir int) {
	if len(m.dirs) == 0 {
		return
	}
	m.selected = (m.selected + dir + len(m.dirs)) % len(m.dirs)
}

// showInitial puts the start layout in the frame buffer so the pole is
// drawn before the first step.
func (m *Model) showInitial() {
	m.buf.positions = m.driver.Positions()
	m.buf.directions = append([]pole.Direction(nil), m.dirs...)
	m.buf.time = 0
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("ERROR " + m.err.Error())
	case !m.running:
		return StatusPaused.Render("PAUSED")
	case m.driver.Autoplaying():
		return StatusRunning.Render(fmt.Sprintf("AUTOPLAY %d/%d", m.driver.AutoIndex()+1, 1<<m.driver.NumAnts()))
	case m.driver.Active():
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("READY")
	}
}

// View renders the pole, the ants, and the record.
func (m Model) View() string {
	params := m.driver.Params()
	var s strings.Builder

	s.WriteString(HeaderStyle.Render("ANTS ON A POLE") + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(PoleStyle.Render(tui.RenderPole(params.PoleLength, m.width, m.buf.positions, m.buf.directions)) + "\n\n")

	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%d", m.buf.time)) + "\n")
	rec := m.driver.Record()
	if rec.Played {
		s.WriteString(MetricLabel.Render("Max") + MetricValue.Render(fmt.Sprintf("%d", rec.Max)) + "\n")
		s.WriteString(MetricLabel.Render("Min") + MetricValue.Render(fmt.Sprintf("%d", rec.Min)) + "\n")
	}
	if m.driver.Autoplaying() {
		total := 1 << m.driver.NumAnts()
		s.WriteString(MetricLabel.Render("Progress") + ProgressBar(float64(m.driver.AutoIndex())/float64(total), 20) + "\n")
	}

	s.WriteString("\nANTS\n")
	for i, p := range m.buf.positions {
		line := fmt.Sprintf("%d  pos %3d  next %s", i, p, m.dirs[i])
		if i == m.selected {
			s.WriteString(Selected.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	stats := s.String()
	if len(m.buf.elapsed) > 1 {
		chart := asciigraph.Plot(m.buf.elapsed, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("elapsed per run"))
		stats = lipgloss.JoinVertical(lipgloss.Left, stats, chart)
	}

	help := KeyHint.Render("SP:Pause ENTER:Start A:Autoplay R:Reset\n←→:Select D:Flip Q:Quit")
	return GlassPanel.Render(lipgloss.JoinVertical(lipgloss.Left, stats, help))
}
