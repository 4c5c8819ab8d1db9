package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// RenderBarModel - Live render progress bar
// =============================================================================

// barWidth is the character width of the progress bar body.
const barWidth = 30

// renderTickMsg carries a progress update from the render workers.
type renderTickMsg struct {
	done  int
	total int
}

// renderDoneMsg stops the bar.
type renderDoneMsg struct{}

// RenderBarModel is the bubbletea model showing live render progress.
type RenderBarModel struct {
	Message string
	Done    int
	Total   int
}

func (m RenderBarModel) Init() tea.Cmd {
	return nil
}

func (m RenderBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case renderTickMsg:
		m.Done = msg.done
		m.Total = msg.total
	case renderDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m RenderBarModel) View() string {
	filled := 0
	percent := 0.0
	if m.Total > 0 {
		percent = float64(m.Done) / float64(m.Total)
		filled = int(percent * barWidth)
		if filled > barWidth {
			filled = barWidth
		}
	}

	var b strings.Builder
	b.WriteString(StyleDim.Render(m.Message) + " ")
	b.WriteString(styleBarFilled.Render(strings.Repeat("█", filled)))
	b.WriteString(styleBarEmpty.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(fmt.Sprintf(" %3.0f%% ", percent*100))
	b.WriteString(StyleDim.Render(fmt.Sprintf("(%d/%d)", m.Done, m.Total)))
	return b.String()
}

// =============================================================================
// renderProgress - Program wrapper for the pipeline Progress callback
// =============================================================================

// renderProgress runs a RenderBarModel program in the background and feeds
// it updates. update is safe to call from the pipeline's collector goroutine.
type renderProgress struct {
	program *tea.Program
	stopped chan struct{}
}

// newRenderProgress starts the progress bar program on stderr, leaving
// stdout for the final report.
func newRenderProgress(message string) *renderProgress {
	p := tea.NewProgram(
		RenderBarModel{Message: message},
		tea.WithOutput(os.Stderr),
		tea.WithoutSignalHandler(),
	)
	rp := &renderProgress{program: p, stopped: make(chan struct{})}
	go func() {
		defer close(rp.stopped)
		_, _ = p.Run()
	}()
	return rp
}

// update feeds the bar one progress tick.
func (p *renderProgress) update(done, total int) {
	p.program.Send(renderTickMsg{done: done, total: total})
}

// finish stops the bar and waits for the terminal to be restored.
func (p *renderProgress) finish() {
	p.program.Send(renderDoneMsg{})
	<-p.stopped
}
