package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"reflq/internal/pipeline"
)

// RunProgress renders events to out until the channel is closed or ctx is
// done. Keyboard input is not read.
func RunProgress(ctx context.Context, out io.Writer, title string, scripts []string, events <-chan pipeline.Event) error {
	p := tea.NewProgram(NewProgressModel(title, scripts, events),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)
	_, err := p.Run()
	return err
}
