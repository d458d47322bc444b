package tui

import (
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
	"github.com/vovakirdan/flapper/internal/replay"
	"github.com/vovakirdan/flapper/internal/storage"
)

// Options configures a Model.
type Options struct {
	Game     config.FlappyConfig
	Runtime  core.RuntimeConfig
	Journal  *storage.Store   // Finished runs are recorded and saved here when set
	Listener flappy.Listener  // Extra session listener, e.g. sound
	Logger   *log.Logger      // Defaults to discarding
	Clock    func() time.Time // Defaults to time.Now
}

// controller is the input side shared by Session and replay.Recorder.
type controller interface {
	Start(now float64) error
	Jump()
	Tick(now float64) flappy.TickResult
}

// Model is the Bubble Tea model running one session.
type Model struct {
	session  *flappy.Session
	ctl      controller
	recorder *replay.Recorder
	journal  *storage.Store
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	config   core.RuntimeConfig
	logger   *log.Logger
	clock    func() time.Time
	origin   time.Time
	quitting bool
}

// NewModel creates a model with an idle session.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	m := Model{
		journal: opts.Journal,
		screen:  core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpRows, 0)),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		config:  cfg,
		logger:  logger,
		clock:   clock,
		origin:  clock(),
	}

	sessionOpts := []flappy.Option{flappy.WithLogger(logger)}
	if opts.Listener != nil {
		sessionOpts = append(sessionOpts, flappy.WithListener(opts.Listener))
	}

	if opts.Journal != nil {
		// The first run uses the configured seed so --seed reproduces it
		seeds := rand.New(rand.NewSource(cfg.Seed))
		first := true
		m.recorder = replay.NewRecorder(opts.Game, func() int64 {
			if first {
				first = false
				return cfg.Seed
			}
			return seeds.Int63()
		}, sessionOpts...)
		m.session = m.recorder.Session()
		m.ctl = m.recorder
	} else {
		m.session = flappy.NewSession(opts.Game, rand.New(rand.NewSource(cfg.Seed)), sessionOpts...)
		m.ctl = m.session
	}

	m.help.Width = cfg.ScreenW
	return m
}

// helpRows is the space kept below the playfield for the help bar.
const helpRows = 1

// Session exposes the underlying session.
func (m Model) Session() *flappy.Session {
	return m.session
}

// Init does nothing; the frame loop starts with the first run.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-helpRows, 0))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionJump:
		m.ctl.Jump()

	case core.ActionStart:
		if m.session.Lifecycle() != flappy.Running {
			return m.start()
		}

	case core.ActionRestart:
		if m.session.Lifecycle() == flappy.Ended {
			return m.start()
		}
	}

	return m, nil
}

func (m Model) start() (tea.Model, tea.Cmd) {
	if err := m.ctl.Start(m.now(m.clock())); err != nil {
		m.logger.Warn("could not start run", "error", err)
		return m, nil
	}
	return m, tickCmd(m.config.TickRate)
}

// handleTick runs one simulation step and asks for the next frame while the run is live.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.session.Lifecycle() != flappy.Running {
		return m, nil
	}

	res := m.ctl.Tick(m.now(t))
	if res.Lifecycle == flappy.Running {
		return m, tickCmd(m.config.TickRate)
	}

	m.saveRun(res.Cause)
	return m, nil
}

// saveRun stores the finished run in the journal. Failures are logged, not fatal.
func (m Model) saveRun(cause flappy.EndCause) {
	if m.journal == nil || m.recorder == nil {
		return
	}
	id, err := m.journal.SaveRun(m.recorder.Recording(), cause)
	if err != nil {
		m.logger.Error("could not save run", "error", err)
		return
	}
	m.logger.Info("run saved", "id", id, "score", m.session.Score(), "cause", cause)
}

// now converts wall time to milliseconds since the model was created.
func (m Model) now(t time.Time) float64 {
	return float64(t.Sub(m.origin)) / float64(time.Millisecond)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawSnapshot(m.screen, m.session.Snapshot())

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
