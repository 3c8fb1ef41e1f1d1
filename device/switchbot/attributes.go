package switchbot

import (
  "strconv"
  "strings"
)

// Attributes is the decoded payload of a single advertisement. Each parser
// returns its own concrete type; a nil Attributes means nothing could be
// decoded.
type Attributes interface {
  isAttributes()
}

type Temperature struct {
  C float64 `json:"c"`
  F float64 `json:"f"`
}

// OptionalTemperature is used by devices that only report a temperature when
// an external meter is bound to them.
type OptionalTemperature struct {
  C *float64 `json:"c"`
  F *float64 `json:"f"`
}

type LockStatus uint8

const (
  LockStatusLocked LockStatus = iota
  LockStatusUnlocked
  LockStatusLocking
  LockStatusUnlocking
  LockStatusLockingStop
  LockStatusUnlockingStop
  LockStatusNotFullyLocked
)

var lockStatusNames = []string{
  "LOCKED",
  "UNLOCKED",
  "LOCKING",
  "UNLOCKING",
  "LOCKING_STOP",
  "UNLOCKING_STOP",
  "NOT_FULLY_LOCKED",
}

func (s LockStatus) Valid() bool {
  return int(s) < len(lockStatusNames)
}

func (s LockStatus) String() string {
  if !s.Valid() {
    return "UNKNOWN(" + strconv.Itoa(int(s)) + ")"
  }

  return lockStatusNames[s]
}

func (s LockStatus) MarshalText() ([]byte, error) {
  return []byte(strings.ToLower(s.String())), nil
}

type HumidifierMode uint8

const (
  HumidifierModeHigh HumidifierMode = iota + 1
  HumidifierModeMedium
  HumidifierModeLow
  HumidifierModeQuiet
  HumidifierModeTargetHumidity
  HumidifierModeSleep
  HumidifierModeAuto
  HumidifierModeDryingFilter
)

var humidifierModeNames = map[HumidifierMode]string{
  HumidifierModeHigh: "HIGH",
  HumidifierModeMedium: "MEDIUM",
  HumidifierModeLow: "LOW",
  HumidifierModeQuiet: "QUIET",
  HumidifierModeTargetHumidity: "TARGET_HUMIDITY",
  HumidifierModeSleep: "SLEEP",
  HumidifierModeAuto: "AUTO",
  HumidifierModeDryingFilter: "DRYING_FILTER",
}

func humidifierModeOf(raw byte) *HumidifierMode {
  m := HumidifierMode(raw)

  if _, ok := humidifierModeNames[m]; !ok {
    return nil
  }

  return &m
}

func (m HumidifierMode) String() string {
  if name, ok := humidifierModeNames[m]; ok {
    return name
  }

  return "UNKNOWN(" + strconv.Itoa(int(m)) + ")"
}

func (m HumidifierMode) MarshalText() ([]byte, error) {
  return []byte(strings.ToLower(m.String())), nil
}

// lookupName returns names[i] or nil when i is out of range.
func lookupName(names []string, i int) *string {
  if i < 0 || i >= len(names) || names[i] == "" {
    return nil
  }

  return ptr(names[i])
}
