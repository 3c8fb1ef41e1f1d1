package collector

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/robertof/go-switchbot-exporter/ble"
	"github.com/robertof/go-switchbot-exporter/collector/model"
	"github.com/robertof/go-switchbot-exporter/device"
	"github.com/robertof/go-switchbot-exporter/device/switchbot"
	"github.com/robertof/go-switchbot-exporter/utils"
	"github.com/rs/zerolog/log"
)

// scanTargets maps advertisement addresses to the configured devices and
// remembers which of them produced at least one result.
type scanTargets struct {
  byAddr map[string]device.Device

  mu sync.Mutex
  answered map[device.Device]bool
}

func newScanTargets(devices []device.Device) *scanTargets {
  t := &scanTargets{
    byAddr: make(map[string]device.Device, len(devices)),
    answered: make(map[device.Device]bool, len(devices)),
  }

  for _, dev := range devices {
    t.byAddr[utils.FormatMACUpper(dev.Addr().String())] = dev
  }

  return t
}

func (t *scanTargets) addresses() []net.HardwareAddr {
  out := make([]net.HardwareAddr, 0, len(t.byAddr))

  for _, dev := range t.byAddr {
    out = append(out, dev.Addr())
  }

  return out
}

func (t *scanTargets) lookup(a ble.Advertisement) device.Device {
  return t.byAddr[utils.FormatMACUpper(a.Addr().String())]
}

func (t *scanTargets) markAnswered(dev device.Device) {
  t.mu.Lock()
  defer t.mu.Unlock()

  t.answered[dev] = true
}

func (t *scanTargets) allAnswered() bool {
  t.mu.Lock()
  defer t.mu.Unlock()

  return len(t.answered) == len(t.byAddr)
}

func collectViaScan(
	ctx context.Context,
	handle *ble.Handle,
	devices []device.Device,
	ch chan model.DeviceResult,
) error {
  targets := newScanTargets(devices)

  err := handle.ScanAddresses(ctx, targets.addresses(), func(a ble.Advertisement) bool {
    dev := targets.lookup(a)

    if dev == nil {
      log.Warn().
        Str("Address", a.Addr().String()).
        Str("LocalName", a.LocalName()).
        Hex("ManufacturerData", a.ManufacturerData()).
        Msg("Received advertisement from unknown device!")

      return false
    }

    if !hasSwitchBotPayload(a) {
      // e.g. an empty scan response, wait for the next one.
      return false
    }

    reading, err := dev.ParseAdvertisement(a)

    log.Trace().
      Err(err).
      Stringer("Device", dev).
      Hex("ManufacturerData", a.ManufacturerData()).
      Interface("ServiceData", a.ServiceData()).
      Stringer("Reading", reading).
      Msg("collectViaScan: parsed device advertisement")

    select {
    case <-ctx.Done():
      return true
    case ch <- model.DeviceResult{Device: dev, Result: model.Result{Reading: reading, Error: err}}:
    }

    targets.markAnswered(dev)

    // an undecodable advertisement may be followed by a good one, keep
    // listening until then.
    return err == nil
  })

  // the deadline is expected once every device sent something.
  if errors.Is(err, context.DeadlineExceeded) && targets.allAnswered() {
    err = nil
  }

  return err
}

// hasSwitchBotPayload reports whether a carries any data the resolver could
// look at.
func hasSwitchBotPayload(a ble.Advertisement) bool {
	raw := switchbot.FromBLE(a)
	sd, mfr, _ := switchbot.SelectPayloads(raw)

	return sd != nil || mfr != nil
}
