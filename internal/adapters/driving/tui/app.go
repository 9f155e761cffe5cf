package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ephemere-io/pickles/internal/adapters/driving/tui/components/status"
	"github.com/ephemere-io/pickles/internal/adapters/driving/tui/keymap"
	"github.com/ephemere-io/pickles/internal/adapters/driving/tui/messages"
	"github.com/ephemere-io/pickles/internal/adapters/driving/tui/styles"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// chromeHeight is the header line plus the status bar.
const chromeHeight = 2

// App is the pager application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar
	spinner   spinner.Model
	viewport  viewport.Model

	outcome *driving.RunOutcome
	err     error

	width  int
	height int
	ready  bool
}

// NewApp creates a pager that runs the pipeline on start.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrMissingPipeline
	}
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	return newApp(ports), nil
}

// NewReportApp creates a pager over an existing run.
func NewReportApp(outcome *driving.RunOutcome) (*App, error) {
	if outcome == nil {
		return nil, ErrNoOutcome
	}
	a := newApp(&Ports{})
	a.outcome = outcome
	a.statusBar.SetState(status.StateReady)
	return a, nil
}

func newApp(ports *Ports) *App {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Section

	vp := viewport.New(80, 22)
	vp.KeyMap = km.Viewport()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		statusBar: status.NewBar(s, km),
		spinner:   sp,
		viewport:  vp,
	}
}

// WithContext sets the context used for the pipeline run.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts the pipeline run, or does nothing for an existing report.
func (a *App) Init() tea.Cmd {
	if a.outcome != nil {
		return nil
	}
	return tea.Batch(a.spinner.Tick, a.runPipeline())
}

func (a *App) runPipeline() tea.Cmd {
	ctx, pipeline, req := a.ctx, a.ports.Pipeline, a.ports.Request
	return func() tea.Msg {
		outcome, err := pipeline.Run(ctx, req)
		return messages.RunCompleted{Outcome: outcome, Err: err}
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.statusBar.State() != status.StateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.statusBar.SetMessage(a.spinner.View() + " Analyzing...")
		return a, cmd

	case messages.RunCompleted:
		a.outcome, a.err = msg.Outcome, msg.Err
		if msg.Err != nil {
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else {
			a.statusBar.SetState(status.StateReady)
			a.statusBar.SetMessage("")
		}
		a.refresh()
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(key, a.keymap.Help):
		a.statusBar.ToggleHelp()
		return a, nil
	case keymap.Matches(key, a.keymap.Top):
		a.viewport.GotoTop()
	case keymap.Matches(key, a.keymap.Bottom):
		a.viewport.GotoBottom()
	default:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		a.statusBar.SetPercent(a.viewport.ScrollPercent())
		return a, cmd
	}
	a.statusBar.SetPercent(a.viewport.ScrollPercent())
	return a, nil
}

// SetDimensions resizes the pager.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height = width, height
	a.viewport.Width = width
	a.viewport.Height = max(height-chromeHeight, 1)
	a.statusBar.SetWidth(width)
	a.ready = true
	a.refresh()
}

func (a *App) refresh() {
	if a.outcome == nil {
		return
	}
	a.viewport.SetContent(renderReport(a.styles, a.outcome, a.viewport.Width))
	a.statusBar.SetPercent(a.viewport.ScrollPercent())
}

// View renders the pager.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Header.Width(a.width).Render(headerText(a.outcome)))
	b.WriteString("\n")

	switch {
	case a.outcome != nil && a.err == nil:
		b.WriteString(a.viewport.View())
	case a.err != nil:
		body := a.styles.Error.Render(fmt.Sprintf("Analysis failed: %s", a.err))
		b.WriteString(padLines(body, a.viewport.Height))
	default:
		body := a.styles.Muted.Render(a.spinner.View() + " Fetching and analyzing your journal...")
		b.WriteString(padLines(body, a.viewport.Height))
	}

	b.WriteString("\n")
	b.WriteString(a.statusBar.View())
	return b.String()
}

// Outcome returns the run shown in the pager, nil until the run finishes.
func (a *App) Outcome() *driving.RunOutcome {
	return a.outcome
}

// Err returns the pipeline error, if any.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the pager has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

func padLines(s string, height int) string {
	n := strings.Count(s, "\n") + 1
	if n >= height {
		return s
	}
	return s + strings.Repeat("\n", height-n)
}
