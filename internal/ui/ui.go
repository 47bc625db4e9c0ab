package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunningView ViewState = iota
	ResultView
)

// maxFailuresShown caps the failure list in the result view.
const maxFailuresShown = 10

// Runner is the part of [tasks.BatchRunner] the TUI drives.
type Runner interface {
	Run(ctx context.Context, queries []string, progress chan<- tasks.ProgressUpdate) *models.BatchResult
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	runner       Runner
	queries      []string
	view         ViewState
	width        int
	height       int
	progressChan chan tasks.ProgressUpdate
	resultChan   chan *models.BatchResult
	progress     tasks.ProgressUpdate
	completed    int
	matched      int
	failures     []models.QueryFailure
	recordList   list.Model
	result       *models.BatchResult
	stopping     bool
	spinner      spinner.Model
	bar          progress.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that resolves queries with runner.
//
// cancel must cancel ctx; it is called when the user stops the run.
func NewModel(ctx context.Context, cancel context.CancelFunc, runner Runner, queries []string) *Model {
	recordList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	recordList.Title = "Songs"
	recordList.SetShowHelp(false)

	return &Model{
		ctx:        ctx,
		cancel:     cancel,
		runner:     runner,
		queries:    queries,
		view:       RunningView,
		recordList: recordList,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Result returns the batch result once the run has finished, nil before.
func (m *Model) Result() *models.BatchResult {
	return m.result
}

// Init starts the batch run and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recordList.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RunningView:
			return m.handleRunningKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != RunningView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			cmd := m.applyProgress(msg.data.(tasks.ProgressUpdate))
			return m, tea.Batch(cmd, m.waitForProgress())
		case MsgRunComplete:
			m.result = msg.data.(*models.BatchResult)
			m.view = ResultView
			m.progressChan = nil
			return m, m.recordList.SetItems(recordItems(m.result.Records))
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleRunningKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.stop) && !m.stopping {
		m.stopping = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

// applyProgress folds one update into the running counters.
func (m *Model) applyProgress(update tasks.ProgressUpdate) tea.Cmd {
	m.progress = update

	switch update.Phase {
	case tasks.QueryMatched:
		m.completed++
		m.matched++
		if rec, ok := update.Data.(models.Record); ok {
			return m.recordList.InsertItem(len(m.recordList.Items()), recordItem{record: rec})
		}
	case tasks.QueryUnmatched:
		m.completed++
		if f, ok := update.Data.(models.QueryFailure); ok {
			m.failures = append(m.failures, f)
		}
	}
	return nil
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.resultChan = make(chan *models.BatchResult, 1)
	progressChan, resultChan := m.progressChan, m.resultChan

	go func() {
		resultChan <- m.runner.Run(m.ctx, m.queries, progressChan)
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, resultChan := m.progressChan, m.resultChan
	if progressChan == nil {
		return nil
	}

	return func() tea.Msg {
		update, ok := <-progressChan
		if !ok {
			return runCompleteMsg(<-resultChan)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) percent() float64 {
	if len(m.queries) == 0 {
		return 1
	}
	return float64(m.completed) / float64(len(m.queries))
}

func (m *Model) renderRunning() string {
	title := styles.title.Render("Resolving Songs")

	status := fmt.Sprintf("%s %s", m.spinner.View(), styles.help.Render(m.progress.Message))
	if m.stopping {
		status = styles.warn.Render("Stopping after queries in flight...")
	}

	counts := fmt.Sprintf("%d/%d done • %s • %s",
		m.completed,
		len(m.queries),
		styles.ok.Render(fmt.Sprintf("%d matched", m.matched)),
		styles.err.Render(fmt.Sprintf("%d failed", len(m.failures))),
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.stop})

	return fmt.Sprintf("%s\n%s\n%s\n%s\n\n%s\n\n%s",
		title,
		m.bar.ViewAs(m.percent()),
		counts,
		status,
		m.recordList.View(),
		helpView,
	)
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Run Complete!")
	if m.result.Interrupted {
		title = styles.warn.Render("Run Interrupted")
	}

	info := fmt.Sprintf(
		"\nQueries: %d (attempted %d)\nSuccess rate: %d/%d (%.1f%%)",
		m.result.Total,
		m.result.Attempted(),
		m.result.SuccessCount,
		m.result.Attempted(),
		m.result.SuccessRate(),
	)

	var failed strings.Builder
	if m.result.FailureCount > 0 {
		failed.WriteString("\n\n")
		failed.WriteString(styles.warn.Render(fmt.Sprintf("Failed to resolve %d queries:", m.result.FailureCount)))
		for i, f := range m.result.Failures {
			if i == maxFailuresShown {
				failed.WriteString(styles.dim.Render(fmt.Sprintf("\n  … and %d more", len(m.result.Failures)-i)))
				break
			}
			failed.WriteString(fmt.Sprintf("\n  • %s (%s)", f.Query, f.Reason))
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.quit})

	return fmt.Sprintf("%s\n%s%s\n\n%s\n\n%s", title, info, failed.String(), m.recordList.View(), helpView)
}
