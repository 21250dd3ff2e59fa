package util

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nanovms/hvctl/log"
	"github.com/tj/go-spin"
)

// ProgressSpinner is an indefinite progress indicator using a spinner.
type ProgressSpinner struct {
	Output io.Writer

	spinner *spin.Spinner
	message string
	colors  log.ConsoleColorsType
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewProgressSpinner returns a spinner drawing on output
func NewProgressSpinner(output io.Writer) *ProgressSpinner {
	return &ProgressSpinner{Output: output}
}

// Start starts the spinner
func (ps *ProgressSpinner) Start(messages ...interface{}) {
	if ps.stop != nil {
		return
	}

	ps.message = fmt.Sprint(messages...)
	ps.spinner = spin.New()
	ps.stop = make(chan struct{})
	ps.wg.Add(1)

	go func() {
		defer ps.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			fmt.Fprintf(ps.Output, "\r%s%s %s%s", ps.colors.Yellow(), ps.spinner.Next(), ps.colors.Reset(), ps.message)
			select {
			case <-ps.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Do executes given function with given messages as label.
func (ps *ProgressSpinner) Do(workFunc func() error, messages ...interface{}) error {
	ps.Start(messages...)
	if err := workFunc(); err != nil {
		ps.Fail()
		return err
	}
	ps.Done()
	return nil
}

// Done stops the spinner with success mark.
func (ps *ProgressSpinner) Done() {
	ps.finish(ps.colors.Green() + "✔" + ps.colors.Reset())
}

// Fail stops the spinner with error mark.
func (ps *ProgressSpinner) Fail() {
	ps.finish(ps.colors.Red() + "✘" + ps.colors.Reset())
}

func (ps *ProgressSpinner) finish(mark string) {
	if ps.stop == nil {
		return
	}
	close(ps.stop)
	ps.wg.Wait()
	ps.stop = nil
	fmt.Fprintf(ps.Output, "\r%s %s     \n", mark, ps.message)
}
