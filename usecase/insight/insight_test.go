package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/nexus/domain"
)

type stubSummarizer struct {
	text string
	err  error
	got  []domain.TaskDigest
}

func (s *stubSummarizer) Summarize(_ context.Context, tasks []domain.TaskDigest) (string, error) {
	s.got = tasks
	return s.text, s.err
}

type stubTasks []domain.TaskDigest

func (s stubTasks) Digests() []domain.TaskDigest { return s }

type outcomes []string

func (o *outcomes) ObserveInsight(outcome string) { *o = append(*o, outcome) }

func TestAnalyze(t *testing.T) {
	digests := stubTasks{{Title: "a", Status: domain.StatusPending}}

	tests := []struct {
		name        string
		summarizer  *stubSummarizer
		wantText    string
		wantOutcome string
	}{
		{"ok", &stubSummarizer{text: "Healthy."}, "Healthy.", OutcomeOK},
		{"unconfigured", &stubSummarizer{err: domain.ErrUnconfigured}, MessageUnconfigured, OutcomeUnconfigured},
		{"upstream failure", &stubSummarizer{err: domain.WrapError(domain.ErrCodeUnavailable, "insight service failed", errors.New("boom"))}, MessageFailed, OutcomeFailed},
		{"empty", &stubSummarizer{text: "  "}, MessageEmpty, OutcomeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen outcomes
			uc := New(tt.summarizer, digests, nil).WithObserver(&seen)

			got := uc.Analyze(context.Background())
			if got.Text != tt.wantText || got.Outcome != tt.wantOutcome {
				t.Fatalf("insight = %+v", got)
			}
			if len(tt.summarizer.got) != 1 || tt.summarizer.got[0].Title != "a" {
				t.Fatalf("summarizer received %+v", tt.summarizer.got)
			}
			if len(seen) != 1 || seen[0] != tt.wantOutcome {
				t.Fatalf("observer saw %v", seen)
			}
			latest, ok := uc.Latest()
			if !ok || latest != got {
				t.Fatalf("latest = %+v %v", latest, ok)
			}
		})
	}
}

func TestAnalyze_NilSummarizer(t *testing.T) {
	uc := New(nil, stubTasks{}, nil)
	if _, ok := uc.Latest(); ok {
		t.Fatal("no insight expected before Analyze")
	}
	if got := uc.Analyze(context.Background()); got.Text != MessageUnconfigured {
		t.Fatalf("insight = %+v", got)
	}
}
