package device

import (
  "github.com/go-ble/ble"
)

// PassiveBackendScanType is the BLE scan type used to discover the device.
type PassiveBackendScanType uint8

const (
  PassiveBackendScanTypePassive PassiveBackendScanType = iota
  PassiveBackendScanTypeActive
)

func (t PassiveBackendScanType) String() string {
  if t == PassiveBackendScanTypeActive {
    return "active"
  }

  return "passive"
}

// PassiveBackend represents a device that parses data passively -- that is, entirely using
// advertisements without establishing a connection to the device.
type PassiveBackend interface {
  ScanType() PassiveBackendScanType
  ParseAdvertisement(a ble.Advertisement) (Reading, error)
}
