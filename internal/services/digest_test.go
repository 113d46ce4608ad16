package services

import (
	"context"
	"testing"
	"time"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/usecase/insight"
)

type countingAnalyzer struct{ calls int }

func (c *countingAnalyzer) Analyze(context.Context) insight.Insight {
	c.calls++
	return insight.Insight{Text: "ok", Outcome: insight.OutcomeOK}
}

type fixedSession struct{ user *domain.User }

func (f fixedSession) Current() *domain.User { return f.user }

type fixedHealth bool

func (f fixedHealth) IsOnline() bool { return bool(f) }

func TestNewDigestJob_DisabledWithoutInterval(t *testing.T) {
	if job := NewDigestJob(&countingAnalyzer{}, nil, nil, nil, DigestConfig{}); job != nil {
		t.Fatal("expected nil job for zero interval")
	}
	var job *DigestJob
	job.Start()
	job.Stop(context.Background())
	if job.Run(context.Background()) {
		t.Fatal("nil job must not run")
	}
}

func TestDigestJob_Run(t *testing.T) {
	user := &domain.User{ID: "u1"}
	tests := []struct {
		name    string
		session fixedSession
		health  fixedHealth
		want    bool
	}{
		{name: "session and storage online", session: fixedSession{user}, health: true, want: true},
		{name: "anonymous", session: fixedSession{}, health: true, want: false},
		{name: "storage offline", session: fixedSession{user}, health: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &countingAnalyzer{}
			job := NewDigestJob(analyzer, tt.session, tt.health, nil, DigestConfig{Interval: time.Hour})

			if got := job.Run(context.Background()); got != tt.want {
				t.Fatalf("Run = %v, want %v", got, tt.want)
			}
			wantCalls := 0
			if tt.want {
				wantCalls = 1
			}
			if analyzer.calls != wantCalls {
				t.Fatalf("calls = %d, want %d", analyzer.calls, wantCalls)
			}
		})
	}
}

func TestDigestJob_StartStop(t *testing.T) {
	job := NewDigestJob(&countingAnalyzer{}, nil, nil, nil, DigestConfig{Interval: time.Hour})
	job.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}
