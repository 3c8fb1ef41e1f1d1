package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robertof/go-switchbot-exporter/ble"
	"github.com/robertof/go-switchbot-exporter/collector/model"
	"github.com/robertof/go-switchbot-exporter/device"
	"github.com/rs/zerolog/log"
)

type signal uint8

const (
  signalWakeUp signal = iota
  signalCollectionFinished
)

// Recurring periodically scans for the configured devices and keeps the
// latest decoded reading of each one. SwitchBot devices advertise on their own
// schedule, so a device missing from one collection keeps its previous reading
// until it is older than StaleAfter.
type Recurring struct {
  // If no call to Latest() has been executed for more than IdleTimeout, the
  // collector suspends and resumes automatically when Latest() is called again.
  IdleTimeout time.Duration
  // Readings older than this are dropped. Zero keeps them forever.
  StaleAfter time.Duration

  readings map[device.Device]device.Reading
  collectionTime time.Time
  lastRead time.Time

  ble *ble.Handle
  devices []device.Device
  mu sync.Mutex

  started bool
  suspended atomic.Bool

  signal chan signal
  wakeUpMu sync.Mutex

  outlets []Outlet
}

func NewRecurring(h *ble.Handle, devices []device.Device) *Recurring {
  return &Recurring{
    devices: devices,
    ble: h,
    lastRead: time.Now(),
    signal: make(chan signal),
  }
}

// AddOutlet registers an outlet notified after every collection. Must be called
// before Start().
func (s *Recurring) AddOutlet(o Outlet) {
  s.outlets = append(s.outlets, o)
}

// Update merges r into the known readings and drops the stale ones.
func (s *Recurring) Update(r map[device.Device]device.Reading) {
  if r == nil {
    panic("attempted to set nil reading")
  }

  now := time.Now()

  s.mu.Lock()
  defer s.mu.Unlock()

  // readers may hold the previous map, never modify it in place.
  merged := make(map[device.Device]device.Reading, len(s.devices))

  for dev, reading := range s.readings {
    if s.StaleAfter > 0 && now.Sub(reading.Time) > s.StaleAfter {
      log.Warn().
        Stringer("Device", dev).
        Time("LastSeen", reading.Time).
        Msg("Dropping stale reading")

      continue
    }

    merged[dev] = reading
  }

  for dev, reading := range r {
    merged[dev] = reading
  }

  s.readings = merged
  s.collectionTime = now
}

func (s *Recurring) wakeUpIfNeeded() bool {
  if !s.suspended.Load() {
    return false
  }

  s.signal <- signalWakeUp

  return true
}

func (s *Recurring) wakeUpAndBlockIfNeeded(ctx context.Context) {
  // only one goroutine delivers the wake up signal, the others wait here.
  s.wakeUpMu.Lock()
  defer s.wakeUpMu.Unlock()

  if !s.wakeUpIfNeeded() {
    return
  }

  select {
  case <-ctx.Done():
  case sig := <-s.signal:
    if sig != signalCollectionFinished {
      panic("unexpected signal")
    }
  }
}

func (s *Recurring) get() (map[device.Device]device.Reading, time.Time) {
  s.mu.Lock()
  defer s.mu.Unlock()

  if s.readings == nil || s.collectionTime.IsZero() {
    panic("Latest() on collector.Recurring called when not initialised yet")
  }

  s.lastRead = time.Now()

  return s.readings, s.collectionTime
}

// Latest returns the latest readings. Wakes up a suspended collector without
// waiting for its next collection.
func (s *Recurring) Latest() (map[device.Device]device.Reading, time.Time) {
  s.wakeUpIfNeeded()

  return s.get()
}

// WaitLatest returns the latest readings. A suspended collector is woken up
// and the call blocks until its collection finishes.
func (s *Recurring) WaitLatest(ctx context.Context) (map[device.Device]device.Reading, time.Time) {
  s.wakeUpAndBlockIfNeeded(ctx)

  return s.get()
}

func (s *Recurring) idleFor() (time.Duration, bool) {
  if s.IdleTimeout == 0 {
    return 0, false
  }

  s.mu.Lock()
  defer s.mu.Unlock()

  elapsed := time.Since(s.lastRead)

  return elapsed, elapsed > s.IdleTimeout
}

// sleep suspends the collector until a reader wakes it up. Returns false when
// ctx is done first.
func (s *Recurring) sleep(ctx context.Context, idle time.Duration) bool {
  if !s.suspended.CompareAndSwap(false, true) {
    panic("collector suspended twice")
  }

  log.Warn().
    Dur("IdleTimeoutSec", s.IdleTimeout).
    Dur("TimeSinceLastReadSec", idle).
    Msg("Suspending recurring collector due to inactivity. If you see this message often, " +
        "you probably need to adjust the collection interval with '-interval'.")

  select {
  case <-ctx.Done():
    return false
  case sig := <-s.signal:
    if sig != signalWakeUp {
      panic("unexpected signal")
    }
  }

  if !s.suspended.CompareAndSwap(true, false) {
    panic("collector woke up from sleep but was not suspended")
  }

  log.Trace().Msg("Collector woke up from sleep - starting immediate collection")

  return true
}

// collect runs one collection and hands the successful readings to the
// outlets.
func (s *Recurring) collect(ctx context.Context, opts CollectionOptions) {
  results, err := CollectReadingsWithOptions(s.ble, ctx, s.devices, opts)

  if results == nil {
    log.Error().
      Err(err).
      Msg("Collection failed with undefined collection results - this should never happen!")

    return
  }

  update, failures := model.Split(results)

  for dev, err := range failures {
    log.Warn().
      Stringer("Device", dev).
      Err(err).
      Msg("Collection failed for device")
  }

  for dev, reading := range update {
    log.Debug().
      Stringer("Device", dev).
      Stringer("Reading", reading).
      Msg("Successfully collected data from device")
  }

  if missing := len(s.devices) - len(update); missing > 0 {
    log.Warn().
      Err(err).
      Int("Missing", missing).
      Msg("No fresh advertisement for one or more devices, keeping previous readings")
  }

  if len(update) == 0 {
    return
  }

  s.Update(update)
  publishAll(ctx, s.outlets, update)
}

func (s *Recurring) shutdown() {
  log.Info().Msg("Recurring collector is shutting down")

  close(s.signal)
}

func (s *Recurring) Start(
  ctx context.Context,
  interval time.Duration,
  opts CollectionOptions,
) {
  if s.started {
    panic("attempted to call collector.Recurring.Start() twice")
  }

  s.started = true

  log.Info().
    Dur("Interval", interval).
    Int("MaxRetries", opts.MaxRetries).
    Dur("TimeoutPerAttemptSec", opts.TimeoutPerAttempt).
    Dur("IdleTimeoutSec", s.IdleTimeout).
    Dur("StaleAfterSec", s.StaleAfter).
    Msg("Starting recurring collector")

  defer s.shutdown()

  for {
    select {
    case <-ctx.Done():
      return
    case <-time.After(interval):
    }

    wokeUp := false

    if idle, suspend := s.idleFor(); suspend {
      if !s.sleep(ctx, idle) {
        return
      }

      wokeUp = true
    } else {
      log.Trace().Dur("Interval", interval).Msg("Recurring collector tick: collecting...")
    }

    s.collect(ctx, opts)

    if wokeUp {
      select {
      case s.signal <- signalCollectionFinished:
      default:
      }
    }
  }
}
