// Package tui shows a live progress bar while a benchmark runs.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/xferbench/internal/benchmark"
	"github.com/mwiater/xferbench/internal/metrics"
	"github.com/mwiater/xferbench/internal/transfer"
)

const (
	padding  = 2
	maxWidth = 72
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

// RunFunc executes a benchmark, reporting progress to obs.
type RunFunc func(ctx context.Context, obs benchmark.ProgressObserver) (*benchmark.Result, error)

type progressMsg benchmark.Progress

type doneMsg struct {
	result *benchmark.Result
	err    error
}

type model struct {
	title     string
	bar       progress.Model
	current   benchmark.Progress
	running   map[transfer.Method]*metrics.RunningStat
	cancel    context.CancelFunc
	canceling bool
	done      bool
	result    *benchmark.Result
	err       error
}

func newModel(title string, cancel context.CancelFunc) *model {
	return &model{
		title:   title,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxWidth-padding*2)),
		running: make(map[transfer.Method]*metrics.RunningStat),
		cancel:  cancel,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// The run observes cancellation and answers with doneMsg.
			m.canceling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - padding*2 - 4
		if m.bar.Width > maxWidth {
			m.bar.Width = maxWidth
		}
		return m, nil
	case progressMsg:
		p := benchmark.Progress(msg)
		m.current = p
		rs, ok := m.running[p.Method]
		if !ok {
			rs = &metrics.RunningStat{}
			m.running[p.Method] = rs
		}
		rs.Update(p.Elapsed.Seconds() * 1000)
		return m, nil
	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	pad := strings.Repeat(" ", padding)
	var b strings.Builder
	b.WriteString("\n" + pad + titleStyle.Render(m.title) + "\n\n")
	b.WriteString(pad + m.bar.ViewAs(m.current.Fraction) + "\n\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(pad + errorStyle.Render("Benchmark failed: "+m.err.Error()) + "\n")
	case m.done:
		b.WriteString(pad + statusStyle.Render("Done.") + "\n")
	case m.canceling:
		b.WriteString(pad + statusStyle.Render("Canceling...") + "\n")
	case m.current.Total == 0:
		b.WriteString(pad + statusStyle.Render("Preparing payload...") + "\n")
	default:
		b.WriteString(pad + statusStyle.Render(fmt.Sprintf("%s %d/%d", m.current.Method.DisplayName(), m.current.Completed, m.current.Total)) + "\n")
	}
	for _, method := range transfer.Methods() {
		if rs, ok := m.running[method]; ok {
			b.WriteString(pad + statusStyle.Render(fmt.Sprintf("%-24s n=%d mean=%.2fms", method.DisplayName(), rs.Count, rs.Mean)) + "\n")
		}
	}
	return b.String()
}

// runProgram runs the bubbletea program; tests replace it.
var runProgram = func(p *tea.Program) (tea.Model, error) {
	return p.Run()
}

// Run executes run while rendering a progress bar to out. Pressing q or
// ctrl+c cancels the run's context. Run returns only after run has returned.
func Run(ctx context.Context, title string, in io.Reader, out io.Writer, run RunFunc) (*benchmark.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The program gets its own context so pending Sends return once the UI is gone.
	uiCtx, uiCancel := context.WithCancel(context.Background())
	defer uiCancel()

	m := newModel(title, cancel)
	p := tea.NewProgram(m, tea.WithContext(uiCtx), tea.WithInput(in), tea.WithOutput(out))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result, err := run(ctx, benchmark.ProgressFunc(func(pr benchmark.Progress) {
			p.Send(progressMsg(pr))
		}))
		p.Send(doneMsg{result: result, err: err})
	}()

	final, err := runProgram(p)
	if err != nil {
		cancel()
		uiCancel()
		<-finished
		return nil, fmt.Errorf("progress ui: %w", err)
	}
	<-finished
	fm, ok := final.(*model)
	if !ok {
		return nil, errors.New("progress ui: unexpected final model")
	}
	return fm.result, fm.err
}
