package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"geneinfo/internal/app"
	"geneinfo/internal/config"
	"geneinfo/internal/logging"
	"geneinfo/internal/lookup"
	"geneinfo/internal/render"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var version = "0.1.0"

var (
	secondaryColor = lipgloss.Color("#10B981") // Green
	errorColor     = lipgloss.Color("#EF4444") // Red
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.BorderColor)

	promptStyle = lipgloss.NewStyle().
			Foreground(render.PrimaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(render.TextColor).
			Background(surfaceColor).
			Padding(0, 1)

	statusOKStyle    = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(render.MutedColor).
			Italic(true)
)

type statusKind int

const (
	statusReady statusKind = iota
	statusBusy
	statusOK
	statusError
)

// submitter is the part of lookup.Runner the model needs.
type submitter interface {
	Submit(ctx context.Context, symbol string) (*lookup.Result, error)
}

// lookupDoneMsg carries the outcome of one lookup back to Update.
type lookupDoneMsg struct {
	symbol string
	result *lookup.Result
	err    error
}

type model struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	runner submitter
	ctx    context.Context
	logger *log.Logger

	busy       bool
	status     string
	statusKind statusKind
	result     *lookup.Result
	showHelp   bool
	width      int
	height     int
}

func newModel(ctx context.Context, runner submitter, logger *log.Logger) model {
	ti := textinput.New()
	ti.Placeholder = "e.g. BRCA1"
	ti.Prompt = "Enter Human Gene Name: "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 64
	ti.Width = 30
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(render.AccentColor)

	vp := viewport.New(80, 20)

	if logger == nil {
		logger = log.New(io.Discard)
	}

	return model{
		input:    ti,
		viewport: vp,
		spinner:  sp,
		runner:   runner,
		ctx:      ctx,
		logger:   logger,
		status:   "Ready",
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// lookupCmd runs the lookup off the UI goroutine.
func lookupCmd(ctx context.Context, r submitter, symbol string) tea.Cmd {
	return func() tea.Msg {
		res, err := r.Submit(ctx, symbol)
		return lookupDoneMsg{symbol: symbol, result: res, err: err}
	}
}

// submit starts a lookup for the current input. Empty input is ignored and
// a second submission while one is running is refused.
func (m model) submit() (model, tea.Cmd) {
	symbol := lookup.NormalizeSymbol(m.input.Value())
	if symbol == "" {
		return m, nil
	}
	if m.busy {
		n := lookup.Notify(symbol, lookup.ErrBusy)
		m.status, m.statusKind = n.Message, statusError
		return m, nil
	}
	m.busy = true
	m.status, m.statusKind = fmt.Sprintf("Searching for %s...", symbol), statusBusy
	m.result = nil
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	return m, tea.Batch(m.spinner.Tick, lookupCmd(m.ctx, m.runner, symbol))
}

func (m model) finish(msg lookupDoneMsg) model {
	if msg.err != nil {
		// A rejected duplicate does not end the lookup that is still running.
		if errors.Is(msg.err, lookup.ErrBusy) {
			m.status, m.statusKind = lookup.Notify(msg.symbol, msg.err).Message, statusError
			return m
		}
		m.busy = false
		n := lookup.Notify(msg.symbol, msg.err)
		m.logger.Warn("lookup failed", "symbol", msg.symbol, "err", msg.err)
		m.status, m.statusKind = n.Title+": "+n.Message, statusError
		return m
	}
	m.busy = false
	m.result = msg.result
	m.viewport.SetContent(render.Render(msg.result, m.viewport.Width))
	m.viewport.GotoTop()
	m.status, m.statusKind = fmt.Sprintf("Found information for %s", msg.symbol), statusOK
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// input line and status bar take one row each
		m.viewport.Width = msg.Width - containerStyle.GetHorizontalFrameSize()
		m.viewport.Height = msg.Height - 2 - containerStyle.GetVerticalFrameSize()
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		if m.result != nil {
			m.viewport.SetContent(render.Render(m.result, m.viewport.Width))
		}
		return m, nil

	case lookupDoneMsg:
		return m.finish(msg), nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "f1":
			m.showHelp = true
			return m, nil
		case "pgup", "pgdown", "up", "down", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}

	body := m.viewport.View()
	if m.result == nil && !m.busy {
		body = helpStyle.Render("Type a gene symbol and press Enter. F1 for help.")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		containerStyle.Width(m.width-containerStyle.GetHorizontalBorderSize()).Render(body),
		m.renderStatusBar(),
	)
}

func (m model) renderStatusBar() string {
	var left string
	switch m.statusKind {
	case statusBusy:
		left = m.spinner.View() + " " + m.status
	case statusOK:
		left = statusOKStyle.Render(m.status)
	case statusError:
		left = statusErrorStyle.Render(m.status)
	default:
		left = m.status
	}

	right := "F1 help • Esc quit"
	if m.result != nil {
		right = fmt.Sprintf("%3.f%% • %s", m.viewport.ScrollPercent()*100, right)
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	content := left + " | " + right
	if spacing > 0 {
		content = left + strings.Repeat(" ", spacing) + right
	}
	return statusBarStyle.Width(m.width).Render(content)
}

func (m model) renderHelpModal() string {
	helpContent := `Gene Information Finder - Help

Search:
  type a symbol   e.g. BRCA1, TP53
  Enter           run the lookup

Results:
  ↑/↓, PgUp/PgDn  scroll
  mouse wheel     scroll

General:
  F1              toggle this help
  Esc, Ctrl+C     quit

Press any key to close.`

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(render.PrimaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(render.TextColor).
		Width(50)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(helpContent))
}

func main() {
	configPath := flag.String("config", "", "path to config.json or config.yaml (optional)")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging to the log file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// The alt screen owns stderr; only log to a file when one is configured.
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: *verbose, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := lookup.NewRunner(app.NewService(cfg, version, logger))
	p := tea.NewProgram(newModel(ctx, runner, logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
