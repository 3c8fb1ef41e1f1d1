package ble

import "strings"

type Flags int

const (
  // Request scan responses. SwitchBot devices only send their service data
  // in scan responses.
  FlagScanTypeActive Flags = 1 << iota
  // Enable an allowlist for scans. Must be configured with `SetAllowListedAddresses()`.
  FlagEnableDeviceAllowList
)

var flagNames = []struct {
  flag Flags
  name string
}{
  {FlagScanTypeActive, "active scan"},
  {FlagEnableDeviceAllowList, "device allow-list"},
}

func (f Flags) Has(flag Flags) bool {
  return f&flag == flag
}

func (f Flags) String() string {
  var names []string

  for _, n := range flagNames {
    if f.Has(n.flag) {
      names = append(names, n.name)
    }
  }

  if len(names) == 0 {
    return "none"
  }

  return strings.Join(names, ", ")
}

// adapterSettings are the HCI scan parameters derived from Flags.
type adapterSettings struct {
  // 0x00: passive, 0x01: active
  scanType uint8
  // 0x00: accept all, 0x01: allow-listed only
  filterPolicy uint8
}

func settingsFor(f Flags) adapterSettings {
  var s adapterSettings

  if f.Has(FlagScanTypeActive) {
    s.scanType = 0x01
  }

  if f.Has(FlagEnableDeviceAllowList) {
    s.filterPolicy = 0x01
  }

  return s
}

func (s adapterSettings) String() string {
  scan, filter := "passive", "accept all"

  if s.scanType == 0x01 {
    scan = "active"
  }

  if s.filterPolicy == 0x01 {
    filter = "allow-listed only"
  }

  return scan + " scan, " + filter
}
