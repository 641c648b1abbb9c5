// Package agent polls a title source and keeps the published game presence
// in sync with what is currently running.
package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"gamesense/internal/igdb"
	"gamesense/internal/logging"
	"gamesense/internal/resolver"
)

// State is the published presence state.
type State string

const (
	StatePlaying State = "playing"
	StateIdle    State = "idle"
)

// Publisher receives presence transitions. Implementations must tolerate
// being called from the poll loop goroutine only.
type Publisher interface {
	PublishPlaying(ctx context.Context, rec *resolver.Record) error
	PublishIdle(ctx context.Context) error
}

// Resolver is the subset of the resolver the agent needs.
type Resolver interface {
	Resolve(ctx context.Context, title string) (*resolver.Record, error)
}

// Status is a snapshot of the agent's view, served by the web surface.
type Status struct {
	State   State            `json:"state"`
	Title   string           `json:"title,omitempty"`
	Record  *resolver.Record `json:"record,omitempty"`
	Updated time.Time        `json:"updated"`
}

// Agent runs the poll loop: read title, resolve on change, publish.
type Agent struct {
	source    TitleSource
	resolver  Resolver
	publisher Publisher
	interval  time.Duration

	mu     sync.Mutex
	status Status
}

// New creates an agent. A nil publisher disables publishing.
func New(source TitleSource, res Resolver, pub Publisher, interval time.Duration) *Agent {
	if pub == nil {
		pub = NopPublisher{}
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Agent{
		source:    source,
		resolver:  res,
		publisher: pub,
		interval:  interval,
		status:    Status{State: StateIdle, Updated: time.Now()},
	}
}

// Status returns the last observed state.
func (a *Agent) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Agent) setStatus(s Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// Run polls until ctx is cancelled. Errors from any single poll are logged
// and never stop the loop.
func (a *Agent) Run(ctx context.Context) {
	logging.Info("game agent started", "interval", a.interval)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		a.poll(ctx)
		select {
		case <-ctx.Done():
			logging.Info("game agent stopped")
			return
		case <-ticker.C:
		}
	}
}

// poll performs one observation cycle.
func (a *Agent) poll(ctx context.Context) {
	title, err := a.source.Current()
	if err != nil {
		logging.Warn("title source read failed", "error", err)
		return
	}

	last := a.Status()

	if title == "" {
		// Publish idle only on the transition out of a game.
		if last.State == StatePlaying {
			if err := a.publisher.PublishIdle(ctx); err != nil {
				logging.Warn("idle publish failed", "error", err)
			}
			a.setStatus(Status{State: StateIdle, Updated: time.Now()})
		}
		return
	}

	if title == last.Title && last.State == StatePlaying {
		return
	}

	rec, err := a.resolver.Resolve(ctx, title)
	if err != nil {
		logging.Warn("resolution failed", "title", title, "error", err)
		// A transient network failure retries on the next tick. Any
		// other failure latches the title as seen, so a lookup that can
		// never succeed is not repeated until the title changes.
		if !errors.Is(err, igdb.ErrNetwork) {
			a.setStatus(Status{State: StatePlaying, Title: title, Updated: time.Now()})
		}
		return
	}

	if err := a.publisher.PublishPlaying(ctx, rec); err != nil {
		logging.Warn("presence publish failed", "title", title, "error", err)
	}
	a.setStatus(Status{State: StatePlaying, Title: title, Record: rec, Updated: time.Now()})
	logging.Info("now playing", "title", title, "matched", rec.Name)
}

// NopPublisher drops all presence updates.
type NopPublisher struct{}

func (NopPublisher) PublishPlaying(context.Context, *resolver.Record) error { return nil }
func (NopPublisher) PublishIdle(context.Context) error                      { return nil }
