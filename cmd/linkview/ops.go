package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vmunix/linkview/internal/api"
	"github.com/vmunix/linkview/internal/progress"
	"github.com/vmunix/linkview/internal/stream"
)

// followOperation attaches to the push channel and reports one bulk
// operation's progress until its completed event arrives.
func followOperation(ctx context.Context, client *api.Client, logger *slog.Logger, op progress.Operation) error {
	var started, progressed, completed string
	switch op {
	case progress.OpScan:
		started, progressed, completed = stream.EventScanStarted, stream.EventScanProgress, stream.EventScanCompleted
	case progress.OpReprocess:
		started, progressed, completed = stream.EventReprocessStarted, stream.EventReprocessProgress, stream.EventReprocessCompleted
	default:
		return fmt.Errorf("unknown operation %q", op)
	}

	tracker := progress.NewTracker(op, progress.WithTrackerLogger(logger))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan string, 1)
	sse := stream.New(client.EventsURL(), func(env stream.Envelope) {
		switch env.Type {
		case started:
			tracker.Start(env.Data)
		case progressed:
			tracker.Progress(env.Data)
			printTracker(tracker.Snapshot())
		case completed:
			done <- tracker.Complete(env.Data)
		}
	}, stream.WithLogger(logger.With("component", "stream")))

	go func() {
		_ = sse.Run(ctx)
	}()

	select {
	case summary := <-done:
		fmt.Println(text.Bold.Sprint("* " + summary))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
