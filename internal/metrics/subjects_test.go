package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestSubjectMetricsCache(t *testing.T) {
	subject := "metrics-test-subject"
	IncRemoval("test", subject)

	if m := GetSubjectMetrics(subject); m != nil {
		t.Fatal("expected nil for unknown subject")
	}

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	IncStaticPush("test", subject)
	IncFramePush("test", subject, at)
	IncFramePush("test", subject, at.Add(time.Second))

	m := GetSubjectMetrics(subject)
	if m == nil {
		t.Fatal("expected metrics after pushes")
	}
	if m.StaticPushes != 1 {
		t.Errorf("StaticPushes = %d, want 1", m.StaticPushes)
	}
	if m.FramePushes != 2 {
		t.Errorf("FramePushes = %d, want 2", m.FramePushes)
	}
	if !m.LastFrame.Equal(at.Add(time.Second)) {
		t.Errorf("LastFrame = %v", m.LastFrame)
	}

	IncRemoval("test", subject)
	if GetSubjectMetrics(subject) != nil {
		t.Error("removal should clear the subject cache")
	}
}

func TestSubjectMetricsConcurrent(t *testing.T) {
	subject := "metrics-concurrent-subject"
	defer IncRemoval("test", subject)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				IncFramePush("test", subject, time.Now())
			}
		}()
	}
	wg.Wait()

	if m := GetSubjectMetrics(subject); m == nil || m.FramePushes != 1000 {
		t.Errorf("FramePushes = %+v, want 1000", m)
	}
}
