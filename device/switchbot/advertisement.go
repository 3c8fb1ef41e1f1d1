package switchbot

import (
  "encoding/binary"
  "encoding/hex"
  "encoding/json"
  "fmt"
  "strings"

  "github.com/go-ble/ble"
  "github.com/robertof/go-switchbot-exporter/utils"
)

// RawAdvertisement is a scan event reduced to the payloads the resolver
// needs. Keys of ServiceData are canonical 128-bit UUID strings, keys of
// ManufacturerData are company IDs.
type RawAdvertisement struct {
  Address string
  RSSI int
  ServiceData map[string][]byte
  ManufacturerData map[int][]byte
}

type HexBytes []byte

func (b HexBytes) MarshalJSON() ([]byte, error) {
  if b == nil {
    return []byte("null"), nil
  }

  return json.Marshal(hex.EncodeToString(b))
}

func (b HexBytes) String() string {
  return hex.EncodeToString(b)
}

// AdvertisementData is the resolver output for a single advertisement.
type AdvertisementData struct {
  RawAdvData HexBytes `json:"rawAdvData"`
  Data Attributes `json:"data"`
  Model Discriminator `json:"model"`
  IsEncrypted bool `json:"isEncrypted"`
  ModelFriendlyName string `json:"modelFriendlyName,omitempty"`
  ModelName Model `json:"modelName,omitempty"`
}

// Decoded reports whether the parser produced any attribute.
func (d *AdvertisementData) Decoded() bool {
  return d != nil && d.Data != nil
}

func (d AdvertisementData) MarshalJSON() ([]byte, error) {
  type plain AdvertisementData

  var attrs any = d.Data

  if d.Data == nil {
    attrs = struct{}{}
  }

  return json.Marshal(struct {
    plain
    Data any `json:"data"`
  }{plain(d), attrs})
}

// Advertisement is a decoded advertisement tied to its sender.
type Advertisement struct {
  Address string `json:"address"`
  Data *AdvertisementData `json:"data"`
  RSSI int `json:"rssi"`
  // Service data was present, i.e. the device answered an active scan.
  Active bool `json:"active"`
}

func (a *Advertisement) String() string {
  if a == nil {
    return "advertisement[none]"
  }

  attrs, err := json.Marshal(a.Data.Data)

  if err != nil {
    attrs = []byte(err.Error())
  }

  return fmt.Sprintf("advertisement[addr=%v, model=%v, rssi=%d, active=%v, data=%s]",
    a.Address, a.Data.Model, a.RSSI, a.Active, attrs)
}

const bluetoothBaseUUIDSuffix = "-0000-1000-8000-00805f9b34fb"

// canonicalUUID renders a go-ble UUID in the dashed 128-bit form.
func canonicalUUID(u ble.UUID) string {
  s := strings.ToLower(u.String())

  switch len(s) {
  case 4:
    return "0000" + s + bluetoothBaseUUIDSuffix
  case 8:
    return s + bluetoothBaseUUIDSuffix
  case 32:
    return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:]
  }

  return s
}

// FromBLE converts a go-ble advertisement. go-ble reports manufacturer data
// as a single blob prefixed by the little-endian company ID.
func FromBLE(a ble.Advertisement) RawAdvertisement {
  raw := RawAdvertisement{
    RSSI: a.RSSI(),
    ServiceData: make(map[string][]byte),
    ManufacturerData: make(map[int][]byte),
  }

  if addr := a.Addr(); addr != nil {
    raw.Address = utils.FormatMACUpper(addr.String())
  }

  for _, sd := range a.ServiceData() {
    raw.ServiceData[canonicalUUID(sd.UUID)] = sd.Data
  }

  if md := a.ManufacturerData(); len(md) >= 2 {
    raw.ManufacturerData[int(binary.LittleEndian.Uint16(md))] = md[2:]
  }

  return raw
}
