package switchbot

import (
  "fmt"
  "net"

  "github.com/go-ble/ble"
  "github.com/robertof/go-switchbot-exporter/device"
)

type Device struct {
  name string
  addr net.HardwareAddr
  model Model
  backend device.PassiveBackend
}

func (d *Device) Name() string {
  return d.name
}

func (d *Device) Addr() net.HardwareAddr {
  return d.addr
}

// Model is the configured model hint, empty when the model is detected from the
// advertisement.
func (d *Device) Model() Model {
  return d.model
}

func (d *Device) Flags() device.Flags {
  if d.backend.ScanType() == device.PassiveBackendScanTypeActive {
    return device.FlagRequiresBleActiveScan
  }

  return 0
}

func (d *Device) ParseAdvertisement(a ble.Advertisement) (device.Reading, error) {
  return d.backend.ParseAdvertisement(a)
}

func (d *Device) String() string {
  model := string(d.model)

  if model == "" {
    model = "auto"
  }

  return fmt.Sprintf("switchbot[name=%q, addr=%v, model=%v]", d.name, d.addr.String(), model)
}
