package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lumen/internal/suite"
	"lumen/internal/ui"
)

type runOutcome struct {
	results []*suite.Result
	err     error
}

// runSuitesWithUI runs the suites while a Bubble Tea model renders their
// progress from the event channel.
func runSuitesWithUI(ctx context.Context, title string, files []string, opts suite.Options) ([]*suite.Result, error) {
	events := make(chan suite.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Sink = suite.ChannelSink{Ch: events}
		res, err := suite.Run(ctx, files, opts)
		outcomeCh <- runOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
