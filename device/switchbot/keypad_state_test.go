package switchbot_test

import (
  "testing"

  "github.com/robertof/go-switchbot-exporter/device/switchbot"
)

func TestKeypadState_Observe(t *testing.T) {
  steps := []struct {
    attempt int
    want bool
  }{
    {10, false},
    {11, false},
    {13, true},
    {13, false},
    {5, true},
    {255, true},
    {0, false},
  }

  var state switchbot.KeypadState

  for i, step := range steps {
    if got := state.Observe(step.attempt); got != step.want {
      t.Fatalf("Observe(%d) at step %d: got %v, wanted %v", step.attempt, i, got, step.want)
    }
  }
}

func TestKeypadState_Reset(t *testing.T) {
  var state switchbot.KeypadState

  state.Observe(1)
  state.Reset()

  if state.Observe(20) {
    t.Fatalf("Observe(20) after Reset(): got true, wanted false")
  }
}
