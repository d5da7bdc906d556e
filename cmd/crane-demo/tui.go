package main

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	crane "github.com/koscakluka/crane-core/core"
	"github.com/koscakluka/crane-core/core/clock"
	"github.com/koscakluka/crane-core/core/eventloop"
	"github.com/koscakluka/crane-core/core/events"
	"github.com/koscakluka/crane-core/core/sequencer"
	"github.com/koscakluka/crane-core/internal/utils"
	"github.com/muesli/reflow/wordwrap"
)

const (
	frameInterval = time.Second / 30
	railWidth     = 56
	cableLength   = 5
	maxLogLines   = 6
)

const helpText = "space pauses or resumes the overlay, r restarts the current cycle on a fresh run, q quits."

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	railStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	hookStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	firedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// runMsg carries a sequencer job onto the program's update loop.
type runMsg func()

type frameMsg time.Time

type playMsg struct{}

type model struct {
	ctx     context.Context
	config  Config
	overlay *crane.Overlay

	progress progress.Model
	width    int
	paused   bool

	// start and log are also touched by cancellations delivered off the
	// update loop.
	logMu sync.Mutex
	start time.Time
	log   []string

	finished bool
	err      error
}

func runTUI(ctx context.Context, config Config) error {
	opts, err := config.OverlayOptions()
	if err != nil {
		return err
	}

	m := newModel(ctx, config)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	// The program's update loop hosts every sequencer callback. Jobs are
	// posted from timer goroutines only, never from Update.
	poster := eventloop.PosterFunc(func(job func()) bool {
		if ctx.Err() != nil {
			return false
		}
		program.Send(runMsg(job))
		return true
	})
	m.overlay = crane.NewOverlay(append(opts, crane.WithClock(clock.Real()), crane.WithPoster(poster))...)
	defer m.overlay.Close()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run overlay program: %w", err)
	}
	return m.err
}

func newModel(ctx context.Context, config Config) *model {
	return &model{
		ctx:      ctx,
		config:   config,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(railWidth), progress.WithoutPercentage()),
		width:    railWidth + 4,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return playMsg{} },
		frame(),
	)
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case playMsg:
		m.play()

	case runMsg:
		msg()

	case frameMsg:
		cmd = frame()

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.overlay.Stop()
			return m, tea.Quit
		case " ", "space":
			if m.paused {
				m.play()
			} else {
				m.paused = true
				m.overlay.Stop()
			}
		case "r":
			if err := m.overlay.Restart(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	}

	if m.finished || m.err != nil {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *model) play() {
	m.paused = false
	m.logMu.Lock()
	m.start = time.Now()
	m.log = nil
	m.logMu.Unlock()

	m.err = m.overlay.Play(m.ctx,
		crane.WithEventCallback(m.appendLog),
		crane.WithCycleCompleteCallback(func(cycle int) {
			if !m.config.Loop || (m.config.Cycles > 0 && cycle >= m.config.Cycles) {
				m.overlay.Stop()
				m.finished = true
			}
		}),
	)
}

func (m *model) appendLog(event events.Event) {
	m.logMu.Lock()
	defer m.logMu.Unlock()
	m.log = append(m.log, describeEvent(m.start, event))
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m *model) logLines() []string {
	m.logMu.Lock()
	defer m.logMu.Unlock()
	return slices.Clone(m.log)
}

func (m *model) View() string {
	state := m.overlay.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("crane overlay"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  cycle %d  %s", state.Cycle, state.Phase)))
	if m.paused {
		b.WriteString(mutedStyle.Render("  (paused)"))
	}
	b.WriteString("\n\n")
	b.WriteString(renderCrane(state, railWidth))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(state.Progress))
	b.WriteString("\n\n")
	for _, line := range m.logLines() {
		b.WriteString(mutedStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(wordwrap.String(helpText, max(m.width-4, 20)))

	return frameStyle.Render(b.String())
}

// renderCrane draws the rail with the trolley, the cable down to the hook
// at the current drop depth, and the slots on the ground.
func renderCrane(state crane.State, width int) string {
	column := func(x float64) int {
		return int(math.Round(utils.Clamp(x, 0, 1) * float64(width-1)))
	}

	hook := column(state.Pose.X)
	lines := make([]string, 0, cableLength+3)

	rail := []rune(strings.Repeat("═", width))
	rail[hook] = '╦'
	lines = append(lines, railStyle.Render(string(rail)))

	depth := int(math.Round(state.Pose.Depth * float64(cableLength)))
	for row := 0; row < cableLength; row++ {
		switch {
		case row < depth:
			lines = append(lines, strings.Repeat(" ", hook)+railStyle.Render("│"))
		case row == depth:
			lines = append(lines, strings.Repeat(" ", hook)+hookStyle.Render("┘"))
		default:
			lines = append(lines, "")
		}
	}
	if depth >= cableLength {
		lines = append(lines, strings.Repeat(" ", hook)+hookStyle.Render("┘"))
	} else {
		lines = append(lines, "")
	}

	fired := map[int]bool{}
	for _, slot := range state.FiredSlots {
		fired[slot] = true
	}
	ground := make([]string, width)
	for i := range ground {
		ground[i] = railStyle.Render("─")
	}
	for slot, x := range state.Positions {
		switch {
		case slot == state.ActiveSlot && state.Phase == sequencer.PhaseRunning:
			ground[column(x)] = activeStyle.Render("▣")
		case fired[slot]:
			ground[column(x)] = firedStyle.Render("■")
		default:
			ground[column(x)] = mutedStyle.Render("□")
		}
	}
	lines = append(lines, strings.Join(ground, ""))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
