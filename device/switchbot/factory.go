package switchbot

import (
  "fmt"
  "net"
  "strings"

  "github.com/pkg/errors"
  "github.com/robertof/go-switchbot-exporter/device"
  "github.com/rs/zerolog/log"
  "golang.org/x/exp/slices"
)

type Factory struct {
  // Resolver shared by every device. Defaults to DefaultResolver().
  Resolver *Resolver
}

func (f *Factory) FromSpec(spec device.DeviceSpec) (device.Device, error) {
  d := Device{}

  addr := spec.Addr()

  if name := spec.Name(); name != "" {
    d.name = name
  } else {
    d.name = "switchbot-" + strings.ToLower(strings.ReplaceAll(addr, ":", ""))
  }

  hwAddr, err := net.ParseMAC(addr)
  if err != nil {
    return nil, fmt.Errorf("invalid addr: %w", err)
  }

  d.addr = hwAddr

  if model := Model(spec.Model()); model != "" {
    if !slices.Contains(Models(), model) {
      return nil, errors.Wrapf(device.ErrUnknownModel, "%q", model)
    }

    d.model = model
  }

  resolver := f.Resolver

  if resolver == nil {
    resolver = DefaultResolver()
  }

  backend := &backendPassive{
    scanType: device.PassiveBackendScanTypeActive,
    model: d.model,
    resolver: resolver,
  }

  if spec.Bool("passive") {
    if d.model == "" {
      log.Warn().
        Stringer("Device", &d).
        Msg("switchbot: passive scans without a model only decode length-identified models")
    }

    backend.scanType = device.PassiveBackendScanTypePassive
  }

  d.backend = backend

  log.Debug().
    Stringer("Device", &d).
    Stringer("ScanType", backend.scanType).
    Msg("switchbot: configured device")

  return &d, nil
}

func (f *Factory) Help() string {
  return `Supported parameters:
addr (string, required): MAC address of this SwitchBot device
name (string): Name of this SwitchBot device. Defaults to switchbot-<addr>
model (string): Model of the device (e.g. WoCurtain, "Keypad Vision"). Required for models which
  only advertise manufacturer data and for passive scans. Run switchbot-decode models for a list.
passive (bool): Decode passive scan advertisements only. Should be combined with model.`
}
