package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/hashfinder/internal/config"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/metrics"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/progress"
	"github.com/agbru/hashfinder/internal/search"
	"github.com/agbru/hashfinder/internal/sysmon"
)

// Options configures a dashboard session.
type Options struct {
	Searcher orchestration.Searcher
	Params   search.Params
	Strategy search.Strategy
	Version  string

	// Observe receives every worker update, e.g. for Prometheus counters.
	Observe func(progress.Update)
	// OnStart and OnFinish bracket every search run, restarts included.
	OnStart  func(workers int)
	OnFinish func(orchestration.SearchOutcome)
}

// ExecutionState holds the execution-related fields of a session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	finished   bool
	outcome    orchestration.SearchOutcome
	exitCode   int
}

// LayoutManager holds terminal dimensions and derives panel sizes.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the dashboard.
const (
	headerHeight         = 1
	footerHeight         = 1
	minBodyHeight        = 6
	LogPanelWidthPercent = 55
	StatsPanelHeight     = 10
)

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) logWidth() int {
	return l.width * LogPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.logWidth()
}

func (l LayoutManager) statsHeight() int {
	return min(StatsPanelHeight, l.bodyHeight()-3)
}

func (l LayoutManager) workersHeight() int {
	return l.bodyHeight() - l.statsHeight()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	log     LogModel
	stats   StatsModel
	workers WorkersModel
	help    help.Model

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	opts      Options
	ref       *programRef
	memory    *metrics.MemoryCollector
	sampler   *sysmon.Sampler
	paused    bool
}

// NewModel creates a dashboard model. The search starts with Init.
func NewModel(parentCtx context.Context, opts Options) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	workers := opts.Searcher.WorkerCount()

	log := NewLogModel()
	log.AddStart(opts.Params, workers, opts.Strategy.String())

	return Model{
		header:  NewHeaderModel(opts.Version, opts.Params.ZeroCount, opts.Params.ResultCount, workers),
		log:     log,
		stats:   NewStatsModel(opts.Params.ResultCount),
		workers: NewWorkersModel(workers),
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		opts:      opts,
		ref:       &programRef{},
		memory:    metrics.NewMemoryCollector(),
		sampler:   sysmon.NewSampler(),
	}
}

// Init starts the search and the sampling ticker.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startSearchCmd(m.ref, m.ctx, m.opts, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if msg.Done {
			m.log.AddWorkerDone(msg)
		}
		if !m.paused {
			m.stats.UpdateProgress(msg)
			m.workers.Update(msg)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case MatchesMsg:
		if msg.Generation == m.generation {
			m.log.AddMatches(msg.Matches)
		}
		return m, nil

	case SummaryMsg:
		if msg.Generation == m.generation {
			m.log.AddSummary(msg.Outcome)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.log.AddError(msg)
		}
		return m, nil

	case SearchCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.finished = true
		m.outcome = msg.Outcome
		m.exitCode = msg.ExitCode
		switch {
		case msg.ExitCode == apperrors.ExitSuccess:
			m.stats.Finish()
			m.header.SetStatus(statusDone)
			m.log.AddInfo("press q to exit and print the results, r to search again")
		case msg.ExitCode == apperrors.ExitErrorCanceled:
			m.header.SetStatus(statusCanceled)
		default:
			m.header.SetStatus(statusFailed)
		}
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(m.memory), sampleSysStatsCmd(m.sampler), tickCmd())

	case MemStatsMsg:
		m.stats.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.stats.UpdateSysStats(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		if m.done {
			return m, nil
		}
		m.paused = !m.paused
		if m.paused {
			m.header.SetStatus(statusPaused)
		} else {
			m.header.SetStatus(statusRunning)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		m.header.Reset()
		m.log.Reset()
		m.log.AddStart(m.opts.Params, m.opts.Searcher.WorkerCount(), m.opts.Strategy.String())
		m.stats.Reset()
		m.workers.Reset()
		m.done = false
		m.finished = false
		m.paused = false
		m.outcome = orchestration.SearchOutcome{}
		m.exitCode = apperrors.ExitSuccess
		return m, m.startCmds()

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.log.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the whole dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.stats.View(), m.workers.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.log.View(), right)
	footer := " " + m.help.View(m.keymap)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, footer)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	m.log.SetSize(m.logWidth(), m.bodyHeight())
	m.stats.SetSize(m.rightWidth(), m.statsHeight())
	m.workers.SetSize(m.rightWidth(), m.workersHeight())
}

// Outcome returns the outcome of the last search. A search interrupted by
// quitting reports the context error.
func (m Model) Outcome() orchestration.SearchOutcome {
	if m.finished {
		return m.outcome
	}
	err := m.ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	if parentErr := m.parentCtx.Err(); parentErr != nil {
		err = parentErr
	}
	return orchestration.SearchOutcome{Params: m.opts.Params, Duration: m.header.Elapsed(), Err: err}
}

// ExitCode returns the exit code of the last finished search.
func (m Model) ExitCode() int { return m.exitCode }

// Run shows the dashboard until the user quits or ctx ends, and returns the
// outcome of the last search for the caller to print.
func Run(ctx context.Context, opts Options) (orchestration.SearchOutcome, error) {
	initTUIStyles()

	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return orchestration.SearchOutcome{Params: opts.Params, Err: err}, err
	}
	if m, ok := final.(Model); ok {
		m.cancel()
		return m.Outcome(), nil
	}
	return model.Outcome(), nil
}

// startSearchCmd runs one search and its analysis off the UI goroutine.
func startSearchCmd(ref *programRef, ctx context.Context, opts Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		var reporter orchestration.ProgressReporter = &TUIProgressReporter{
			ref:        ref,
			params:     opts.Params,
			strategy:   opts.Strategy,
			generation: gen,
		}
		if opts.Observe != nil {
			reporter = orchestration.ObservingReporter{Observe: opts.Observe, Next: reporter}
		}
		if opts.OnStart != nil {
			opts.OnStart(opts.Searcher.WorkerCount())
		}

		outcome := orchestration.ExecuteSearch(ctx, opts.Searcher, opts.Params, reporter, io.Discard)
		if opts.OnFinish != nil {
			opts.OnFinish(outcome)
		}

		presenter := &TUIResultPresenter{ref: ref, generation: gen}
		presOpts := orchestration.PresentationOptions{Format: config.FormatText, Verbose: true}
		exitCode := orchestration.AnalyzeOutcome(outcome, presOpts, presenter, io.Discard, io.Discard)
		return SearchCompleteMsg{Outcome: outcome, ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{mc.Snapshot()}
	}
}

func sampleSysStatsCmd(s *sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg{s.Sample()}
	}
}

// watchContextCmd waits for the search context to end.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
