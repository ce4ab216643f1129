package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"news-herald/internal/ai"
	"news-herald/internal/compose"
	"news-herald/internal/model"
	"news-herald/internal/prompt"
	"news-herald/internal/publish"
	"news-herald/internal/runlock"
)

// State is where a publish cycle stopped.
type State int

const (
	StateIdle State = iota
	StateSelected
	StateSummarized
	StatePublished
	StateRecorded
	StateNoneAvailable
	StateGenerationFailed
	StatePublishFailed
)

var stateNames = [...]string{
	StateIdle:             "idle",
	StateSelected:         "selected",
	StateSummarized:       "summarized",
	StatePublished:        "published",
	StateRecorded:         "recorded",
	StateNoneAvailable:    "none_available",
	StateGenerationFailed: "generation_failed",
	StatePublishFailed:    "publish_failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// CycleResult reports the outcome of one publish cycle.
type CycleResult struct {
	State    State
	Item     *model.Item
	Text     string
	RemoteID string
}

// UnpublishedSource yields the oldest item without a publication record.
type UnpublishedSource interface {
	NextUnpublished(ctx context.Context) (*model.Item, error)
}

// Recorder writes publication records.
type Recorder interface {
	Record(ctx context.Context, fp, remoteID string) (bool, error)
}

// PostPublisher publishes at most one item per cycle: select, summarize,
// publish, then record. Nothing is recorded unless publishing succeeded.
type PostPublisher struct {
	Items       UnpublishedSource
	Ledger      Recorder
	Generator   ai.Generator
	Poster      publish.Poster
	Prompt      *prompt.Template
	Temperature float32
	MaxLength   int
	AppendLink  bool
	// Lock is optional; when set a cycle only runs while holding it.
	Lock runlock.Locker
}

// RunCycle executes one cycle. A cycle with nothing to publish returns
// StateNoneAvailable and a nil error.
func (p *PostPublisher) RunCycle(ctx context.Context) (CycleResult, error) {
	if p.Lock != nil {
		release, err := p.Lock.Acquire(ctx)
		if err != nil {
			return CycleResult{State: StateIdle}, err
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				slog.Warn("post-publisher: release lock", "error", rerr)
			}
		}()
	}
	return p.cycle(ctx)
}

func (p *PostPublisher) cycle(ctx context.Context) (CycleResult, error) {
	res := CycleResult{State: StateIdle}

	it, err := p.Items.NextUnpublished(ctx)
	if err != nil {
		return res, fmt.Errorf("select next item: %w", err)
	}
	if it == nil {
		res.State = StateNoneAvailable
		slog.Info("post-publisher: nothing to publish")
		return res, nil
	}
	res.State = StateSelected
	res.Item = it
	log := slog.With("item_id", it.ID, "fingerprint", it.Fingerprint)

	text, err := p.summarize(ctx, it)
	if err != nil {
		res.State = StateGenerationFailed
		log.Error("post-publisher: generation failed", "error", err)
		return res, fmt.Errorf("generate post for item %d: %w", it.ID, err)
	}
	res.State = StateSummarized
	res.Text = text

	remoteID, err := p.Poster.Publish(ctx, publish.Post{Key: it.Fingerprint, Title: it.Title, Text: text, Link: it.Link})
	if err != nil {
		res.State = StatePublishFailed
		log.Error("post-publisher: publish failed", "kind", publish.KindOf(err), "error", err)
		return res, fmt.Errorf("publish item %d: %w", it.ID, err)
	}
	res.State = StatePublished
	res.RemoteID = remoteID

	added, err := p.Ledger.Record(ctx, it.Fingerprint, remoteID)
	if err != nil {
		// The post is out but unrecorded; the next cycle would publish it again.
		log.Error("post-publisher: record failed after publish", "remote_id", remoteID, "error", err)
		return res, fmt.Errorf("record item %d after publish: %w", it.ID, err)
	}
	if !added {
		log.Warn("post-publisher: fingerprint already recorded", "remote_id", remoteID)
	}
	res.State = StateRecorded
	log.Info("post-publisher: published", "remote_id", remoteID, "chars", len([]rune(text)))
	return res, nil
}

func (p *PostPublisher) summarize(ctx context.Context, it *model.Item) (string, error) {
	tpl := p.Prompt
	if tpl == nil {
		tpl = prompt.Default()
	}
	body, err := tpl.Render(prompt.Data{
		Title:     it.Title,
		Summary:   it.Summary,
		Link:      it.Link,
		MaxLength: p.MaxLength,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	raw, err := p.Generator.Generate(ctx, ai.Request{
		System:      tpl.Options.System,
		Prompt:      body,
		Model:       tpl.Options.Model,
		Temperature: tpl.Temperature(p.Temperature),
	})
	if err != nil {
		return "", err
	}
	text, err := compose.Compose(raw, it.Link, p.MaxLength, p.AppendLink)
	if err != nil {
		return "", err
	}
	return text, nil
}

// IsNothingToDo reports whether a cycle ended because no item was waiting.
func (r CycleResult) IsNothingToDo() bool {
	return r.State == StateNoneAvailable
}

// IsLockHeld reports whether err means another process is running a cycle.
func IsLockHeld(err error) bool {
	return errors.Is(err, runlock.ErrHeld)
}
