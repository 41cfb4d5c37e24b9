package tui

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type jobKind string

type jobStatus string

const (
	jobKindSearch    jobKind = "search"
	jobKindPaper     jobKind = "paper"
	jobKindRecommend jobKind = "recommend"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Param       string
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

// jobRunner performs one request off the event loop and returns the message
// that carries its result back.
type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	log     logrus.FieldLogger
}

func newJobBus(log logrus.FieldLogger) *jobBus {
	return &jobBus{log: log}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start announces the job, then runs it. Jobs started in the same tea.Batch
// run concurrently; nothing waits on another job.
func (b *jobBus) Start(kind jobKind, param string, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Param: param, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(context.Background())
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			Param:       param,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		entry := b.log.WithFields(logrus.Fields{
			"job":      id,
			"kind":     kind,
			"param":    param,
			"status":   snapshot.Status,
			"duration": snapshot.Duration,
		})
		if err != nil {
			entry.WithError(err).Warn("job finished")
		} else {
			entry.Info("job finished")
		}
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

// jobTracker keeps the snapshots of jobs that have not reported back yet.
type jobTracker map[string]jobSnapshot

func (t jobTracker) observe(s jobSnapshot) {
	if s.Status == jobStatusRunning {
		t[s.ID] = s
		return
	}
	delete(t, s.ID)
}

func (t jobTracker) badges() []string {
	if len(t) == 0 {
		return nil
	}
	running := make([]jobSnapshot, 0, len(t))
	for _, s := range t {
		running = append(running, s)
	}
	sort.Slice(running, func(i, j int) bool { return running[i].StartedAt.Before(running[j].StartedAt) })
	out := make([]string, 0, len(running))
	for _, s := range running {
		out = append(out, fmt.Sprintf("%s…", s.Kind))
	}
	return out
}
