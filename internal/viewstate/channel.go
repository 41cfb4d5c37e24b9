// Package viewstate tracks the lifecycle of one asynchronous request per
// channel: Idle, Loading, then Success or Error.
//
// A channel is driven from a single event loop. Start hands out a Ticket that
// the request carries back with its completion; completions presenting a
// ticket that is no longer current are discarded, which is how abandoned
// requests are ignored without being cancelled.
package viewstate

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var errUnknown = errors.New("request failed")

// generations is shared by every channel so a ticket can never be mistaken
// for one issued by another channel, including a channel that replaced it.
var generations atomic.Uint64

// State is the phase of a channel.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Ticket identifies one request cycle: the parameter it was issued for and
// the generation of the channel at issue time.
type Ticket struct {
	Param      string
	Generation uint64
}

// Channel is the state machine for one request stream of a view.
type Channel[T any] struct {
	state      State
	value      T
	err        error
	param      string
	generation uint64
}

// Start begins a new request cycle for param from any state.
func (c *Channel[T]) Start(param string) Ticket {
	var zero T
	c.generation = generations.Add(1)
	c.state = Loading
	c.value = zero
	c.err = nil
	c.param = param
	return c.Ticket()
}

// Resolve moves a current Loading cycle to Success. It reports false and
// leaves the channel untouched when the ticket is stale.
func (c *Channel[T]) Resolve(t Ticket, value T) bool {
	if !c.accepts(t) {
		return false
	}
	c.state = Success
	c.value = value
	return true
}

// Fail moves a current Loading cycle to Error. A nil err is recorded as a
// generic failure so the Error state always has a message.
func (c *Channel[T]) Fail(t Ticket, err error) bool {
	if !c.accepts(t) {
		return false
	}
	if err == nil {
		err = errUnknown
	}
	c.state = Error
	c.err = err
	return true
}

// Reset returns the channel to Idle and invalidates outstanding tickets.
func (c *Channel[T]) Reset() {
	var zero T
	c.generation = generations.Add(1)
	c.state = Idle
	c.value = zero
	c.err = nil
	c.param = ""
}

// Current reports whether t belongs to the cycle in progress.
func (c *Channel[T]) Current(t Ticket) bool {
	return t.Generation == c.generation && t.Param == c.param
}

func (c *Channel[T]) accepts(t Ticket) bool {
	return c.state == Loading && c.Current(t)
}

func (c *Channel[T]) State() State   { return c.state }
func (c *Channel[T]) Value() T       { return c.value }
func (c *Channel[T]) Err() error     { return c.err }
func (c *Channel[T]) Param() string  { return c.param }
func (c *Channel[T]) Ticket() Ticket { return Ticket{Param: c.param, Generation: c.generation} }

// Message is the error text shown for the Error state, or "" otherwise.
func (c *Channel[T]) Message() string {
	if c.state != Error || c.err == nil {
		return ""
	}
	return c.err.Error()
}
