package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frescopa/demogen/pkg/generator"
)

// GenerateMode represents the current mode of the generation UI
type GenerateMode int

const (
	ModeRunning GenerateMode = iota
	ModeComplete
	ModeError
)

// RunFunc runs a pipeline reporting to obs.
type RunFunc func(ctx context.Context, obs generator.Observer) (*generator.Result, error)

// GenerateModel is the Bubbletea model for an interactive generation run
type GenerateModel struct {
	mode     GenerateMode
	spinner  spinner.Model
	progress ProgressView
	logs     LogView
	stage    generator.Stage
	events   chan tea.Msg
	run      RunFunc
	ctx      context.Context
	cancel   context.CancelFunc
	result   *generator.Result
	err      error
	width    int
	height   int
}

// Messages
type stageStartedMsg struct {
	stage generator.Stage
}

type stageFinishedMsg struct {
	event generator.Event
}

type pipelineDoneMsg struct {
	result *generator.Result
	err    error
}

// channelObserver forwards stage notifications to the program.
type channelObserver struct {
	events chan<- tea.Msg
}

func (o channelObserver) StageStarted(stage generator.Stage) {
	o.events <- stageStartedMsg{stage: stage}
}

func (o channelObserver) StageFinished(event generator.Event) {
	o.events <- stageFinishedMsg{event: event}
}

// NewGenerateModel creates a model that runs run over stages steps.
func NewGenerateModel(ctx context.Context, run RunFunc, stages int) GenerateModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = infoStyle

	return GenerateModel{
		mode:     ModeRunning,
		spinner:  s,
		progress: NewProgressView("Generating Dataset", stages),
		logs:     NewLogView(12),
		// Two notifications per stage plus the final result never block.
		events: make(chan tea.Msg, 2*len(generator.Stages)+1),
		run:    run,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Init initializes the model
func (m GenerateModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.start(),
		waitForEvent(m.events),
		tea.EnterAltScreen,
	)
}

// Result returns the outcome once the pipeline returned.
func (m GenerateModel) Result() (*generator.Result, error) {
	return m.result, m.err
}

// Commands
func (m GenerateModel) start() tea.Cmd {
	return func() tea.Msg {
		res, err := m.run(m.ctx, channelObserver{events: m.events})
		m.events <- pipelineDoneMsg{result: res, err: err}
		return nil
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// Update handles messages
func (m GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.mode != ModeRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stageStartedMsg:
		m.stage = msg.stage
		if m.ctx.Err() == nil {
			m.progress.Message = fmt.Sprintf("Running: %s", msg.stage)
		}
		return m, waitForEvent(m.events)

	case stageFinishedMsg:
		e := msg.event
		if e.Err != nil {
			m.logs.AddLog(FormatStatus("failed") + " " + string(e.Stage))
		} else {
			m.progress.Current++
			m.logs.AddLog(fmt.Sprintf("%s %s %s",
				successStyle.Render("✓"),
				string(e.Stage),
				mutedStyle.Render(fmt.Sprintf("%d rows in %s", e.Rows, e.Elapsed.Round(time.Millisecond))),
			))
		}
		return m, waitForEvent(m.events)

	case pipelineDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.cancel()
		if msg.err != nil {
			m.mode = ModeError
		} else {
			m.mode = ModeComplete
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeRunning:
			switch msg.String() {
			case "ctrl+c", "q":
				m.cancel()
				m.progress.Message = "Cancelling..."
				return m, nil
			}

		case ModeComplete, ModeError:
			switch msg.String() {
			case "ctrl+c", "q", "enter":
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// View renders the UI
func (m GenerateModel) View() string {
	switch m.mode {
	case ModeRunning:
		header := m.spinner.View() + " " + infoStyle.Render(string(m.stage))
		help := helpStyle.Render(FormatKey("q", "cancel"))
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			lipgloss.JoinVertical(
				lipgloss.Left,
				header,
				m.progress.View(),
				"\n",
				m.logs.View(),
				help,
			),
		)

	case ModeComplete:
		summary := "Dataset validated"
		if m.result != nil && len(m.result.Files) > 0 {
			summary = fmt.Sprintf("Wrote %d table(s)", len(m.result.Files))
		}
		msg := titleStyle.Render("Generation Complete!") + "\n\n" +
			successStyle.Render(summary) + "\n\n" +
			m.logs.View() + "\n" +
			helpStyle.Render(FormatKey("enter/q", "exit"))

		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			boxStyle.Render(msg),
		)

	case ModeError:
		title := "Generation Failed"
		if errors.Is(m.err, context.Canceled) {
			title = "Generation Cancelled"
		}
		msg := titleStyle.Render(title) + "\n\n" +
			errorStyle.Render(m.err.Error()) + "\n\n" +
			helpStyle.Render(FormatKey("enter/q", "exit"))

		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			boxStyle.Render(msg),
		)
	}

	return "Unknown mode"
}

// RunGenerateUI runs p under the interactive progress UI. p.Observer, when
// set, still receives every notification.
func RunGenerateUI(ctx context.Context, p *generator.Pipeline) (*generator.Result, error) {
	stages := len(generator.Stages)
	if p.DryRun {
		stages--
	}
	run := func(ctx context.Context, obs generator.Observer) (*generator.Result, error) {
		pipeline := *p
		if p.Observer != nil {
			pipeline.Observer = generator.Observers{p.Observer, obs}
		} else {
			pipeline.Observer = obs
		}
		return pipeline.Run(ctx)
	}

	final, err := tea.NewProgram(NewGenerateModel(ctx, run, stages)).Run()
	if err != nil {
		return nil, err
	}
	return final.(GenerateModel).Result()
}
