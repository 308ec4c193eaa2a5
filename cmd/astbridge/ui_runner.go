package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"astbridge/internal/driver"
	"astbridge/internal/ui"
)

type runOutcome struct {
	results []driver.UnitResult
	err     error
}

// runWithUI executes run in the background while a progress view consumes
// its events. run must report progress only through the sink it receives.
func runWithUI(ctx context.Context, title string, units []string, run func(context.Context, driver.ProgressSink) ([]driver.UnitResult, error)) ([]driver.UnitResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		res, err := run(ctx, driver.ChannelSink{Ch: events})
		outcomeCh <- runOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, units, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early; keep the producer from blocking
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
