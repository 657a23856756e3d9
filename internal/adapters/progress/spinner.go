package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/fatih/color"
)

var (
	stageStyle = color.New(color.FgYellow)
	doneStyle  = color.New(color.FgGreen)
)

// SpinnerProgressReporter shows the running stage of a use case behind a spinner
type SpinnerProgressReporter struct {
	spinner    *spinner.Spinner
	out        io.Writer
	stage      string
	stageStart time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.stage {
		r.completeStage()
		r.stage = event.Stage
		r.stageStart = time.Now()
	}

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	r.spinner.Suffix = fmt.Sprintf(" %s %s", stageStyle.Sprint(event.Message), color.New(color.Faint).Sprint("("+event.Stage+")"))
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// Stop ends the current stage and clears the spinner
func (r *SpinnerProgressReporter) Stop() {
	r.completeStage()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) pause(print func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	print()

	if wasActive {
		r.spinner.Start()
	}
}

// completeStage prints the elapsed time of the stage that just ended
func (r *SpinnerProgressReporter) completeStage() {
	if r.stage == "" {
		return
	}
	elapsed := time.Since(r.stageStart).Round(time.Millisecond)
	r.pause(func() {
		fmt.Fprintf(r.out, "%s %s %s\n", doneStyle.Sprint("✓"), r.stage, color.New(color.Faint).Sprintf("(%s)", elapsed))
	})
	r.stage = ""
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
