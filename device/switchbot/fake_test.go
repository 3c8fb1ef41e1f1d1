package switchbot_test

import (
  "encoding/binary"
  "encoding/hex"
  "testing"

  ble_mod "github.com/go-ble/ble"
)

type FakeAdvertisement struct {
  name string
  rssi int
  addr ble_mod.Addr
  serviceData []ble_mod.ServiceData
  companyID uint16
  manufacturerData []byte
}

func (f FakeAdvertisement) LocalName() string {
  return f.name
}

func (f FakeAdvertisement) ManufacturerData() []byte {
  if f.manufacturerData == nil {
    return nil
  }

  out := binary.LittleEndian.AppendUint16(nil, f.companyID)

  return append(out, f.manufacturerData...)
}

func (f FakeAdvertisement) ServiceData() []ble_mod.ServiceData {
  return f.serviceData
}

func (f FakeAdvertisement) Services() []ble_mod.UUID {
  return nil
}

func (f FakeAdvertisement) OverflowService() []ble_mod.UUID {
  return nil
}

func (f FakeAdvertisement) TxPowerLevel() int {
  return 0
}

func (f FakeAdvertisement) Connectable() bool {
  return false
}

func (f FakeAdvertisement) SolicitedService() []ble_mod.UUID {
  return nil
}

func (f FakeAdvertisement) RSSI() int {
  return f.rssi
}

func (f FakeAdvertisement) Addr() ble_mod.Addr {
  return f.addr
}

func mustHex(t *testing.T, s string) []byte {
  t.Helper()

  if s == "" {
    return nil
  }

  b, err := hex.DecodeString(s)

  if err != nil {
    t.Fatalf("invalid hex %q: %v", s, err)
  }

  return b
}
