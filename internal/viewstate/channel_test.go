package viewstate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelStartsIdle(t *testing.T) {
	t.Parallel()

	var c Channel[[]string]
	assert.Equal(t, Idle, c.State())
	assert.Nil(t, c.Value())
	assert.Empty(t, c.Message())
}

func TestChannelSuccessCycle(t *testing.T) {
	t.Parallel()

	var c Channel[string]
	ticket := c.Start("42241")
	assert.Equal(t, Loading, c.State())
	assert.Equal(t, "42241", c.Param())

	require.True(t, c.Resolve(ticket, "paper"))
	assert.Equal(t, Success, c.State())
	assert.Equal(t, "paper", c.Value())
}

func TestChannelErrorCycle(t *testing.T) {
	t.Parallel()

	var c Channel[string]
	ticket := c.Start("q")
	require.True(t, c.Fail(ticket, errors.New("request failed: 500 Internal Server Error")))
	assert.Equal(t, Error, c.State())
	assert.Equal(t, "request failed: 500 Internal Server Error", c.Message())
}

func TestChannelFailWithNilErrorStillHasMessage(t *testing.T) {
	t.Parallel()

	var c Channel[int]
	ticket := c.Start("q")
	require.True(t, c.Fail(ticket, nil))
	assert.NotEmpty(t, c.Message())
}

func TestChannelTerminalStatesIgnoreLateCompletions(t *testing.T) {
	t.Parallel()

	var c Channel[string]
	ticket := c.Start("a")
	require.True(t, c.Resolve(ticket, "first"))

	assert.False(t, c.Fail(ticket, errors.New("late")), "success must not jump straight to error")
	assert.False(t, c.Resolve(ticket, "second"))
	assert.Equal(t, Success, c.State())
	assert.Equal(t, "first", c.Value())
}

func TestChannelDiscardsStaleParameter(t *testing.T) {
	t.Parallel()

	var c Channel[string]
	ticketA := c.Start("A")
	ticketB := c.Start("B")

	assert.False(t, c.Resolve(ticketA, "paper A"))
	assert.Equal(t, Loading, c.State())
	assert.Equal(t, "B", c.Param())

	require.True(t, c.Resolve(ticketB, "paper B"))
	assert.Equal(t, "paper B", c.Value())
}

func TestChannelDiscardsOlderCycleForSameParameter(t *testing.T) {
	t.Parallel()

	var c Channel[string]
	first := c.Start("A")
	require.True(t, c.Fail(first, errors.New("boom")))

	retry := c.Start("A")
	assert.False(t, c.Resolve(first, "stale"))
	assert.Equal(t, Loading, c.State())
	assert.Empty(t, c.Message(), "restart clears the previous error")

	require.True(t, c.Resolve(retry, "fresh"))
	assert.Equal(t, "fresh", c.Value())
}

func TestChannelResetInvalidatesTickets(t *testing.T) {
	t.Parallel()

	var c Channel[string]
	ticket := c.Start("A")
	c.Reset()
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Resolve(ticket, "late"))
	assert.Equal(t, Idle, c.State())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
}

func TestTicketsAreNotInterchangeableAcrossChannels(t *testing.T) {
	t.Parallel()

	var old, replacement Channel[string]
	stale := old.Start("A")
	fresh := replacement.Start("A")

	assert.NotEqual(t, stale, fresh)
	assert.False(t, replacement.Resolve(stale, "from the torn down view"))
	assert.True(t, replacement.Resolve(fresh, "ok"))
}
