// Package insight turns the visible task list into a narrative summary. It never fails:
// every error path maps to a fixed explanatory message.
package insight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/nexus/domain"
)

const (
	MessageUnconfigured = "API Key is missing. Please configure the environment."
	MessageFailed       = "Failed to generate AI insights. Please try again later."
	MessageEmpty        = "No analysis generated."
)

// Outcome labels reported to an Observer.
const (
	OutcomeOK           = "ok"
	OutcomeEmpty        = "empty"
	OutcomeUnconfigured = "unconfigured"
	OutcomeFailed       = "failed"
)

// Summarizer is the external text generation service.
type Summarizer interface {
	Summarize(ctx context.Context, tasks []domain.TaskDigest) (string, error)
}

// TaskSource supplies the tasks visible to the current session.
type TaskSource interface {
	Digests() []domain.TaskDigest
}

type Observer interface {
	ObserveInsight(outcome string)
}

// Insight is the last generated summary.
type Insight struct {
	Text        string    `json:"text"`
	Outcome     string    `json:"outcome"`
	GeneratedAt time.Time `json:"generated_at"`
}

type UseCase struct {
	summarizer Summarizer
	tasks      TaskSource
	observer   Observer
	logger     *zap.Logger

	mu     sync.RWMutex
	latest *Insight
}

func New(summarizer Summarizer, tasks TaskSource, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		summarizer: summarizer,
		tasks:      tasks,
		logger:     logger,
	}
}

func (uc *UseCase) WithObserver(observer Observer) *UseCase {
	uc.observer = observer
	return uc
}

// Analyze summarizes the visible tasks and caches the result.
func (uc *UseCase) Analyze(ctx context.Context) Insight {
	result := Insight{GeneratedAt: time.Now().UTC()}

	var (
		text string
		err  error
	)
	if uc.summarizer == nil {
		err = domain.ErrUnconfigured
	} else {
		text, err = uc.summarizer.Summarize(ctx, uc.tasks.Digests())
	}

	switch {
	case errors.Is(err, domain.ErrUnconfigured):
		result.Text, result.Outcome = MessageUnconfigured, OutcomeUnconfigured
	case err != nil:
		uc.logger.Error("insight generation failed", zap.Error(err))
		result.Text, result.Outcome = MessageFailed, OutcomeFailed
	case strings.TrimSpace(text) == "":
		result.Text, result.Outcome = MessageEmpty, OutcomeEmpty
	default:
		result.Text, result.Outcome = text, OutcomeOK
	}

	if uc.observer != nil {
		uc.observer.ObserveInsight(result.Outcome)
	}

	uc.mu.Lock()
	uc.latest = &result
	uc.mu.Unlock()
	return result
}

// Latest returns the cached insight, if any was generated.
func (uc *UseCase) Latest() (Insight, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.latest == nil {
		return Insight{}, false
	}
	return *uc.latest, true
}
