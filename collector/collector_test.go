package collector_test

import (
  "testing"
  "time"

  "github.com/robertof/go-switchbot-exporter/collector"
)

func TestCollectionOptions_Backoff(t *testing.T) {
  opts := collector.CollectionOptions{BackoffFactor: 500 * time.Millisecond}

  tests := map[int]time.Duration{
    0: 500 * time.Millisecond,
    1: time.Second,
    3: 4 * time.Second,
  }

  for attempt, want := range tests {
    if got := opts.Backoff(attempt); got != want {
      t.Fatalf("Backoff(%d): got %v, wanted %v", attempt, got, want)
    }
  }
}
