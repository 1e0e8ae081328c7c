package control

import (
	"errors"
	"fmt"
)

// ErrQueueFull is returned by Send when the consumer has fallen behind.
var ErrQueueFull = errors.New("control: queue full")

// Message is one parameter change.
type Message[P any] struct {
	Param P
	Value float64
}

// Setter is implemented by every processor with a validated parameter
// interface, e.g. comb.Filter and modulation.Vibrato.
type Setter[P any] interface {
	SetParam(p P, value float64) error
}

// SetterFunc adapts an ordinary function to Setter.
type SetterFunc[P any] func(p P, value float64) error

// SetParam calls f(p, value).
func (f SetterFunc[P]) SetParam(p P, value float64) error {
	return f(p, value)
}

// Queue is a bounded single-producer/single-consumer message queue.
type Queue[P any] struct {
	ch chan Message[P]
}

// NewQueue returns a queue holding up to capacity pending messages.
func NewQueue[P any](capacity int) (*Queue[P], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("control queue capacity must be >= 1: %d", capacity)
	}

	return &Queue[P]{ch: make(chan Message[P], capacity)}, nil
}

// Send enqueues a change without blocking.
func (q *Queue[P]) Send(p P, value float64) error {
	select {
	case q.ch <- Message[P]{Param: p, Value: value}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len returns the number of pending messages.
func (q *Queue[P]) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue[P]) Cap() int { return cap(q.ch) }

// Drain applies every pending message to dst in arrival order and returns the
// joined setter errors. A rejected message does not stop the drain. Drain
// never blocks.
func (q *Queue[P]) Drain(dst Setter[P]) error {
	var errs []error

	for {
		select {
		case msg := <-q.ch:
			if err := dst.SetParam(msg.Param, msg.Value); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}
