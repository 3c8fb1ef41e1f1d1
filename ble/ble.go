package ble

import (
  "fmt"
  "net"

  "github.com/go-ble/ble"
  "github.com/go-ble/ble/linux"
  "github.com/go-ble/ble/linux/hci/cmd"
  "github.com/prometheus/client_golang/prometheus"
  "github.com/robertof/go-switchbot-exporter/utils"
  "github.com/rs/zerolog/log"
)

type Advertisement = ble.Advertisement

type Handle struct {
  dev *linux.Device
}

var advertisementsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
  Name: "switchbot_ble_advertisements_total",
  Help: "Advertisements received from the Bluetooth adapter",
}, []string{"scan"})

func RegisterMetrics(reg prometheus.Registerer) {
  reg.MustRegister(advertisementsCounter)
}

func Init(deviceId int, flags Flags) (*Handle, error) {
  return InitWithScanParams(deviceId, ScanParamsDefault, flags)
}

func InitWithScanParams(deviceId int, scanParams ScanParams, flags Flags) (*Handle, error) {
  settings := settingsFor(flags)

  log.Debug().
    Stringer("Settings", settings).
    Stringer("ScanParams", &scanParams).
    Stringer("Flags", flags).
    Int("DeviceID", deviceId).
    Msg("Initializing Bluetooth device")

  dev, err := linux.NewDevice(
    ble.OptDeviceID(deviceId),
    ble.OptScanParams(scanParams.AdapterOptions(settings.scanType, settings.filterPolicy)),
  )

  if err != nil {
    return nil, fmt.Errorf("failed to init bluetooth device: %w", err)
  }

  ble.SetDefaultDevice(dev)

  return &Handle{dev: dev}, nil
}

func (h *Handle) SetAllowListedAddresses(a []net.HardwareAddr) error {
  log.Debug().
    Array("DeviceAddresses", utils.ToZeroLogArray(a)).
    Msg("Allow-listing the requested Bluetooth devices")

  // clear the white list to make sure we're starting from an empty slate.
  var res cmd.LEClearWhiteListRP

  err := h.dev.HCI.Send(&cmd.LEClearWhiteList{}, &res)

  if err != nil {
    return fmt.Errorf("failed to clear allow-list: %w", err)
  }

  if res.Status != 0 {
    return fmt.Errorf("failed to clear allow-list: got status: %v", res.Status)
  }

  for _, addr := range a {
    hciAddr, err := utils.HCIAddress(addr)

    if err != nil {
      return fmt.Errorf("cannot allow-list device: %w", err)
    }

    var res cmd.LEAddDeviceToWhiteListRP

    err = h.dev.HCI.Send(&cmd.LEAddDeviceToWhiteList{
      AddressType: 0x00, // public
      Address: hciAddr,
    }, &res)

    if err != nil {
      return fmt.Errorf("failed to allow-list device %q: %w", addr.String(), err)
    }

    if res.Status != 0 {
      return fmt.Errorf("failed to allow-list device %q: got status: %v", addr.String(), res.Status)
    }
  }

  return nil
}

func (h *Handle) Stop() {
  h.dev.Stop()
}
