package switchbot_test

import (
  "encoding/json"
  "reflect"
  "testing"

  ble_mod "github.com/go-ble/ble"
  "github.com/robertof/go-switchbot-exporter/device/switchbot"
)

func TestFromBLE(t *testing.T) {
  advertisement := FakeAdvertisement{
    addr: ble_mod.NewAddr("aa:bb:cc:dd:ee:ff"),
    rssi: -60,
    serviceData: []ble_mod.ServiceData{
      {UUID: ble_mod.UUID16(0xfd3d), Data: []byte{0x63, 0xc0, 0x58}},
      {UUID: ble_mod.MustParse("00000d00-0000-1000-8000-00805f9b34fb"), Data: []byte{0x48}},
    },
    companyID: switchbot.ManufacturerIDWoan,
    manufacturerData: []byte{0xe7, 0xab, 0x46},
  }

  got := switchbot.FromBLE(advertisement)

  want := switchbot.RawAdvertisement{
    Address: "AA:BB:CC:DD:EE:FF",
    RSSI: -60,
    ServiceData: map[string][]byte{
      switchbot.ServiceUUID: {0x63, 0xc0, 0x58},
      switchbot.LegacyServiceUUID: {0x48},
    },
    ManufacturerData: map[int][]byte{
      switchbot.ManufacturerIDWoan: {0xe7, 0xab, 0x46},
    },
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("FromBLE(%+v): got %+#v, wanted %+#v", advertisement, got, want)
  }
}

func TestFromBLE_NoPayload(t *testing.T) {
  got := switchbot.FromBLE(FakeAdvertisement{addr: ble_mod.NewAddr("aa:bb:cc:dd:ee:ff")})

  if len(got.ServiceData) != 0 || len(got.ManufacturerData) != 0 {
    t.Fatalf("FromBLE(): got %+#v, wanted no payloads", got)
  }

  if sd, mfr, _ := switchbot.SelectPayloads(got); sd != nil || mfr != nil {
    t.Fatalf("SelectPayloads(%+v): got (%x, %x), wanted nothing", got, sd, mfr)
  }
}

func decodeJSON(t *testing.T, v any) map[string]any {
  t.Helper()

  encoded, err := json.Marshal(v)

  if err != nil {
    t.Fatalf("json.Marshal(%+v) got error: %v", v, err)
  }

  var out map[string]any

  if err := json.Unmarshal(encoded, &out); err != nil {
    t.Fatalf("json.Unmarshal(%s) got error: %v", encoded, err)
  }

  return out
}

func TestAdvertisementData_MarshalJSON(t *testing.T) {
  undecoded := &switchbot.AdvertisementData{
    RawAdvData: []byte{0x54, 0x00, 0x00},
    Model: "T",
  }

  got := decodeJSON(t, undecoded)
  want := map[string]any{
    "rawAdvData": "540000",
    "data": map[string]any{},
    "model": "T",
    "isEncrypted": false,
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("MarshalJSON(%+v): got %+#v, wanted %+#v", undecoded, got, want)
  }

  decoded := &switchbot.AdvertisementData{
    Data: &switchbot.Remote{Battery: ptr(86)},
    Model: "\x00\x10\xb9\x40",
    ModelFriendlyName: "Remote",
    ModelName: switchbot.ModelRemote,
  }

  got = decodeJSON(t, decoded)
  want = map[string]any{
    "rawAdvData": nil,
    "data": map[string]any{"battery": 86.0},
    "model": "0x0010b940",
    "isEncrypted": false,
    "modelFriendlyName": "Remote",
    "modelName": "WoRemote",
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("MarshalJSON(%+v): got %+#v, wanted %+#v", decoded, got, want)
  }
}
