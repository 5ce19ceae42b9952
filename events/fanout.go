package events

import (
	"context"
	"errors"

	"github.com/goliatone/go-mentors/pkg/types"
)

// FanOut forwards every notification to each sink in order. All sinks are
// attempted; their errors are joined.
type FanOut struct {
	sinks []types.EventSink
}

// NewFanOut drops nil sinks.
func NewFanOut(sinks ...types.EventSink) *FanOut {
	out := &FanOut{}
	for _, sink := range sinks {
		if sink != nil {
			out.sinks = append(out.sinks, sink)
		}
	}
	return out
}

var _ types.EventSink = (*FanOut)(nil)

func (f *FanOut) Publish(ctx context.Context, topic string, payload any) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, topic, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports the number of wired sinks.
func (f *FanOut) Len() int {
	return len(f.sinks)
}
