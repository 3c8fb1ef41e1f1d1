package ble

import (
  "fmt"
  "slices"

  "github.com/go-ble/ble/linux/hci/cmd"
)

type ScanParams string

const (
  ScanParamsDefault ScanParams = "default"
  // Lower duty cycle, for adapters shared with other workloads.
  ScanParamsLowDuty ScanParams = "low-duty"
)

// *flag.Value
func (s *ScanParams) String() string {
  return string(*s)
}

func (s *ScanParams) Set(v string) error {
  if v == "" {
    *s = ScanParamsDefault
    return nil
  }

  allParams := []ScanParams{ScanParamsDefault, ScanParamsLowDuty}
  p := ScanParams(v)

  if !slices.Contains(allParams, p) {
    return fmt.Errorf("unknown scan param %v (must be one of %v)", p, allParams)
  }

  *s = p
  return nil
}

func (s ScanParams) AdapterOptions(scanType, filterPolicy uint8) cmd.LESetScanParameters {
  p := cmd.LESetScanParameters{
    LEScanType:           scanType,     // 0x00: passive, 0x01: active
    LEScanInterval:       0x0004,       // 0x0004 - 0x4000; N * 0.625msec
    LEScanWindow:         0x0004,       // 0x0004 - 0x4000; N * 0.625msec
    OwnAddressType:       0x00,         // 0x00: public, 0x01: random
    ScanningFilterPolicy: filterPolicy, // 0x00: accept all, 0x01: ignore non-allow-listed.
  }

  switch s {
  case ScanParamsDefault:
    break
  case ScanParamsLowDuty:
    // listen 30ms every 300ms.
    p.LEScanInterval = 0x01e0 // 300ms
    p.LEScanWindow   = 0x0030 // 30ms
  default:
    panic("unknown Bluetooth scan param: " + s)
  }

  return p
}
