package switchbot_test

import (
  "errors"
  "reflect"
  "testing"

  "github.com/robertof/go-switchbot-exporter/device/switchbot"
)

func ptr[T any](v T) *T {
  return &v
}

type payload struct {
  uuid string
  serviceData string
  companyID int
  manufacturerData string
}

func (p payload) raw(t *testing.T) switchbot.RawAdvertisement {
  t.Helper()

  adv := switchbot.RawAdvertisement{
    Address: "AA:BB:CC:DD:EE:FF",
    RSSI: -97,
    ServiceData: map[string][]byte{},
    ManufacturerData: map[int][]byte{},
  }

  if p.uuid != "" {
    adv.ServiceData[p.uuid] = mustHex(t, p.serviceData)
  }

  if p.companyID != 0 {
    adv.ManufacturerData[p.companyID] = mustHex(t, p.manufacturerData)
  }

  return adv
}

func TestParseAdvertisementData(t *testing.T) {
  tests := []struct {
    name string
    in payload
    hint switchbot.Model
    want *switchbot.AdvertisementData
    active bool
  }{
    {
      name: "curtain",
      in: payload{switchbot.ServiceUUID, "63c058001104", 2409, "e7ab46ac8f927c0f001104"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x63, 0xc0, 0x58, 0x00, 0x11, 0x04},
        Data: &switchbot.Curtain{
          Calibration: ptr(true),
          Battery: ptr(88),
          Position: 100,
          LightLevel: 1,
          DeviceChain: 1,
        },
        Model: "c",
        ModelFriendlyName: "Curtain",
        ModelName: switchbot.ModelCurtain,
      },
      active: true,
    },
    {
      name: "curtain passive",
      in: payload{companyID: 2409, manufacturerData: "e7ab46ac8f927c0f001104"},
      hint: switchbot.ModelCurtain,
      want: &switchbot.AdvertisementData{
        Data: &switchbot.Curtain{Position: 100, LightLevel: 1, DeviceChain: 1},
        Model: "c",
        ModelFriendlyName: "Curtain",
        ModelName: switchbot.ModelCurtain,
      },
    },
    {
      name: "curtain legacy service",
      in: payload{switchbot.LegacyServiceUUID, "63d0ce641104", 89, "c1c7277d55ab"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x63, 0xd0, 0xce, 0x64, 0x11, 0x04},
        Data: &switchbot.Curtain{
          Calibration: ptr(true),
          Battery: ptr(78),
          Position: 0,
          LightLevel: 1,
          DeviceChain: 1,
        },
        Model: "c",
        ModelFriendlyName: "Curtain",
        ModelName: switchbot.ModelCurtain,
      },
      active: true,
    },
    {
      name: "contact sensor",
      in: payload{switchbot.ServiceUUID, "64406405007500f812", 2409, "e7ab46ac8f927c0f001104"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x64, 0x40, 0x64, 0x05, 0x00, 0x75, 0x00, 0xf8, 0x12},
        Data: &switchbot.ContactSensor{
          Tested: ptr(false),
          MotionDetected: true,
          ContactOpen: true,
          ContactTimeout: true,
          IsLight: true,
          ButtonCount: 2,
          Battery: ptr(100),
        },
        Model: "d",
        ModelFriendlyName: "Contact Sensor",
        ModelName: switchbot.ModelContactSensor,
      },
      active: true,
    },
    {
      name: "bot",
      in: payload{switchbot.LegacyServiceUUID, "4810e1", 89, "d82eadcd0d85"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x48, 0x10, 0xe1},
        Data: &switchbot.Bot{SwitchMode: ptr(false), IsOn: ptr(false), Battery: ptr(97)},
        Model: "H",
        ModelFriendlyName: "Bot",
        ModelName: switchbot.ModelBot,
      },
      active: true,
    },
    {
      name: "bot passive",
      in: payload{companyID: 89, manufacturerData: "d51cfb397856"},
      hint: switchbot.ModelBot,
      want: &switchbot.AdvertisementData{
        Data: &switchbot.Bot{},
        Model: "H",
        ModelFriendlyName: "Bot",
        ModelName: switchbot.ModelBot,
      },
    },
    {
      name: "meter",
      in: payload{switchbot.ServiceUUID, "5400e4069835", 2409, "d7c17d5deb43de03069835"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x54, 0x00, 0xe4, 0x06, 0x98, 0x35},
        Data: &switchbot.Meter{
          Temp: switchbot.Temperature{C: 24.6, F: switchbot.CelsiusToFahrenheit(24.6)},
          Temperature: 24.6,
          Humidity: 53,
          Battery: ptr(100),
        },
        Model: "T",
        ModelFriendlyName: "Meter",
        ModelName: switchbot.ModelMeter,
      },
      active: true,
    },
    {
      name: "uninitialized meter",
      in: payload{uuid: switchbot.ServiceUUID, serviceData: "540000000000"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x54, 0x00, 0x00, 0x00, 0x00, 0x00},
        Model: "T",
      },
      active: true,
    },
    {
      name: "indoor outdoor meter",
      in: payload{switchbot.ServiceUUID, "7700e4", 2409, "aabbccddeeffe00f06983500"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x77, 0x00, 0xe4},
        Data: &switchbot.Meter{
          Temp: switchbot.Temperature{C: 24.6, F: switchbot.CelsiusToFahrenheit(24.6)},
          Temperature: 24.6,
          Humidity: 53,
          Battery: ptr(100),
        },
        Model: "w",
        ModelFriendlyName: "Indoor/Outdoor Meter",
        ModelName: switchbot.ModelIOMeter,
      },
      active: true,
    },
    {
      name: "hub3 trailing discriminator",
      in: payload{switchbot.ServiceUUID, "0000640010b940", 2409, "b0e9fe6e5e2900ff6826d6648303993480"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x00, 0x00, 0x64, 0x00, 0x10, 0xb9, 0x40},
        Data: &switchbot.Hub3{
          NetworkState: 2,
          SensorInserted: true,
          LightLevel: 3,
          Illuminance: 90,
          Temp: switchbot.Temperature{C: 25.3, F: 77.5},
          Temperature: 25.3,
          Humidity: 52,
          MotionDetected: true,
        },
        Model: "\x00\x10\xb9\x40",
        ModelFriendlyName: "Hub3",
        ModelName: switchbot.ModelHub3,
      },
      active: true,
    },
    {
      name: "lock lite",
      in: payload{switchbot.ServiceUUID, "2d8064", 2409, "e9d511b26b5317930820"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x2d, 0x80, 0x64},
        Data: &switchbot.LockLite{
          SequenceNumber: 23,
          Battery: ptr(100),
          Calibration: true,
          Status: switchbot.LockStatusUnlocked,
        },
        Model: "-",
        ModelFriendlyName: "Lock Lite",
        ModelName: switchbot.ModelLockLite,
      },
      active: true,
    },
    {
      name: "lock",
      in: payload{switchbot.ServiceUUID, "6f8064", 2409, "eef5e6098fe811970820"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x6f, 0x80, 0x64},
        Data: &switchbot.Lock{
          SequenceNumber: 17,
          Battery: ptr(100),
          Calibration: true,
          Status: switchbot.LockStatusUnlocked,
          DoorOpen: true,
        },
        Model: "o",
        ModelFriendlyName: "Lock",
        ModelName: switchbot.ModelLock,
      },
      active: true,
    },
    {
      name: "lock pro",
      in: payload{switchbot.ServiceUUID, "248064", 2409, "f7610748e6e83a8a00640000"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x24, 0x80, 0x64},
        Data: &switchbot.LockPro{
          SequenceNumber: 58,
          Battery: 100,
          Calibration: true,
          Status: switchbot.LockStatusUnlocked,
        },
        Model: "$",
        ModelFriendlyName: "Lock Pro",
        ModelName: switchbot.ModelLockPro,
      },
      active: true,
    },
    {
      name: "lock ultra",
      in: payload{switchbot.ServiceUUID, "0080340010a5b8", 2409, "b0e9feb66a3d258230340004"},
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x00, 0x80, 0x34, 0x00, 0x10, 0xa5, 0xb8},
        Data: &switchbot.LockUltra{
          SequenceNumber: 37,
          Battery: 52,
          Calibration: true,
          Status: switchbot.LockStatusLocked,
          DoorOpen: true,
          DoorOpenFromSecondaryLock: true,
          BatteryStatus: 4,
        },
        Model: "\x00\x10\xa5\xb8",
        ModelFriendlyName: "Lock Ultra",
        ModelName: switchbot.ModelLockUltra,
      },
      active: true,
    },
    {
      name: "keypad",
      in: payload{switchbot.ServiceUUID, "790064", 2409, "eb1302e6230f8f6400000000"},
      hint: switchbot.ModelKeypad,
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x79, 0x00, 0x64},
        Data: &switchbot.Keypad{Battery: ptr(100), AttemptState: ptr(143)},
        Model: "y",
        ModelFriendlyName: "Keypad",
        ModelName: switchbot.ModelKeypad,
      },
      active: true,
    },
    {
      name: "leak detector",
      in: payload{switchbot.ServiceUUID, "26004e", 2409, "c43430374c7a184e98675e94513c0500000000"},
      hint: switchbot.ModelLeak,
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x26, 0x00, 0x4e},
        Data: &switchbot.LeakDetector{Battery: 78},
        Model: "&",
        ModelFriendlyName: "Leak Detector",
        ModelName: switchbot.ModelLeak,
      },
      active: true,
    },
    {
      name: "k20 vacuum",
      in: payload{switchbot.ServiceUUID, "2e0064", 2409, "b0e9fe01f38f270111530010640f"},
      hint: switchbot.ModelK20Vacuum,
      want: &switchbot.AdvertisementData{
        RawAdvData: []byte{0x2e, 0x00, 0x64},
        Data: &switchbot.Vacuum{
          SequenceNumber: 39,
          SocVersion: "1.1.083",
          MQTTConnected: true,
          Battery: 100,
          WorkStatus: 15,
        },
        Model: ".",
        ModelFriendlyName: "K20 Vacuum",
        ModelName: switchbot.ModelK20Vacuum,
      },
      active: true,
    },
    {
      name: "humidifier by manufacturer data length",
      in: payload{companyID: 741, manufacturerData: "aabbccddeeff"},
      want: &switchbot.AdvertisementData{
        Data: &switchbot.Humidifier{SwitchMode: true},
        Model: "e",
        ModelFriendlyName: "Humidifier",
        ModelName: switchbot.ModelHumidifier,
      },
    },
  }

  for _, test := range tests {
    t.Run(test.name, func(t *testing.T) {
      raw := test.in.raw(t)
      got := switchbot.ParseAdvertisementData(raw, test.hint)

      want := &switchbot.Advertisement{
        Address: "AA:BB:CC:DD:EE:FF",
        Data: test.want,
        RSSI: -97,
        Active: test.active,
      }

      if !reflect.DeepEqual(got, want) {
        t.Fatalf("ParseAdvertisementData(%+v): got %+#v, wanted %+#v", test.in, got, want)
      }
    })
  }
}

func TestParseAdvertisementData_NotSwitchBot(t *testing.T) {
  tests := []struct {
    name string
    in payload
  }{
    {"empty service data and foreign company", payload{switchbot.ServiceUUID, "", 2403, "aabbccddeeff"}},
    {"foreign service", payload{uuid: "0000feaa-0000-1000-8000-00805f9b34fb", serviceData: "6400"}},
    {"no payload", payload{}},
    {"unmatched manufacturer data length", payload{companyID: 2409, manufacturerData: "aabbccddeeff"}},
  }

  for _, test := range tests {
    t.Run(test.name, func(t *testing.T) {
      if got := switchbot.ParseAdvertisementData(test.in.raw(t), ""); got != nil {
        t.Fatalf("ParseAdvertisementData(%+v): got %+#v, wanted nil", test.in, got)
      }
    })
  }
}

func TestResolve_Cached(t *testing.T) {
  r, err := switchbot.NewResolver(4)

  if err != nil {
    t.Fatalf("NewResolver(4) got error: %v", err)
  }

  sd := mustHex(t, "63c058001104")
  mfr := mustHex(t, "e7ab46ac8f927c0f001104")

  first := r.Resolve(sd, mfr, switchbot.ManufacturerIDWoan, "")
  second := r.Resolve(sd, mfr, switchbot.ManufacturerIDWoan, "")

  if first == nil || first != second {
    t.Fatalf("Resolve(%x, %x): got %p and %p, wanted the same record", sd, mfr, first, second)
  }

  other := r.Resolve(sd, mfr, switchbot.ManufacturerIDWoan, switchbot.ModelCurtain)

  if other == first {
    t.Fatalf("Resolve(%x, %x) with a hint returned the record cached without one", sd, mfr)
  }

  if !reflect.DeepEqual(other, first) {
    t.Fatalf("Resolve(%x, %x): got %+#v, wanted %+#v", sd, mfr, other, first)
  }
}

func TestResolve_UnknownHintIgnored(t *testing.T) {
  sd := mustHex(t, "4810e1")
  mfr := mustHex(t, "d82eadcd0d85")

  want := switchbot.Resolve(sd, mfr, switchbot.ManufacturerIDNordic, "")
  got := switchbot.Resolve(sd, mfr, switchbot.ManufacturerIDNordic, "NotAModel")

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("Resolve(%x, %x): got %+#v, wanted %+#v", sd, mfr, got, want)
  }
}

func TestResolve_HintOverridesServiceData(t *testing.T) {
  sd := mustHex(t, "63c058001104")
  mfr := mustHex(t, "e7ab46ac8f927c0f001104")

  got := switchbot.Resolve(sd, mfr, switchbot.ManufacturerIDWoan, switchbot.ModelBot)

  if got == nil || got.Model != "H" || got.ModelName != switchbot.ModelBot {
    t.Fatalf("Resolve(%x, %x, %v): got %+#v, wanted a bot record", sd, mfr, switchbot.ModelBot, got)
  }
}

func TestResolve_UnknownDiscriminator(t *testing.T) {
  sd := mustHex(t, "5a0064")

  got := switchbot.Resolve(sd, nil, 0, "")
  want := &switchbot.AdvertisementData{RawAdvData: sd, Model: "Z"}

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("Resolve(%x): got %+#v, wanted %+#v", sd, got, want)
  }
}

func TestResolve_Encrypted(t *testing.T) {
  sd := mustHex(t, "e3c058001104")
  mfr := mustHex(t, "e7ab46ac8f927c0f001104")

  got := switchbot.Resolve(sd, mfr, switchbot.ManufacturerIDWoan, "")

  if got == nil || !got.IsEncrypted || got.Model != "c" {
    t.Fatalf("Resolve(%x, %x): got %+#v, wanted an encrypted curtain record", sd, mfr, got)
  }
}

func TestResolve_ParserPanic(t *testing.T) {
  // too short for the contact sensor service data layout
  sd := mustHex(t, "64406405")

  for i := 0; i < 2; i++ {
    if got := switchbot.Resolve(sd, nil, 0, ""); got != nil {
      t.Fatalf("Resolve(%x): got %+#v, wanted nil", sd, got)
    }
  }
}

func TestDecodeAs_HintOnlyModel(t *testing.T) {
  mfr := mustHex(t, "aabbccddeeff05b60214")

  got, err := switchbot.DefaultResolver().DecodeAs(switchbot.ModelArtFrame, nil, mfr)

  if err != nil {
    t.Fatalf("DecodeAs(%v, %x) got error: %v", switchbot.ModelArtFrame, mfr, err)
  }

  want := &switchbot.AdvertisementData{
    Data: &switchbot.ArtFrame{
      SequenceNumber: 5,
      BatteryCharging: true,
      Battery: 54,
      ImageIndex: 2,
      DisplaySize: 1,
      LastNetworkStatus: 1,
    },
    ModelFriendlyName: "Art Frame",
    ModelName: switchbot.ModelArtFrame,
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("DecodeAs(%v, %x): got %+#v, wanted %+#v", switchbot.ModelArtFrame, mfr, got, want)
  }
}

func TestDecodeAs_Errors(t *testing.T) {
  r := switchbot.DefaultResolver()

  if _, err := r.DecodeAs("NotAModel", nil, []byte{0x01}); !errors.Is(err, switchbot.ErrUnknownModel) {
    t.Fatalf("DecodeAs(NotAModel): got error %v, wanted %v", err, switchbot.ErrUnknownModel)
  }

  sd := mustHex(t, "64406405")

  if _, err := r.DecodeAs(switchbot.ModelContactSensor, sd, nil); !errors.Is(err, switchbot.ErrParserPanic) {
    t.Fatalf("DecodeAs(%v, %x): got error %v, wanted %v", switchbot.ModelContactSensor, sd, err, switchbot.ErrParserPanic)
  }
}

func TestSelectPayloads(t *testing.T) {
  adv := switchbot.RawAdvertisement{
    ServiceData: map[string][]byte{
      switchbot.LegacyServiceUUID: {0x48},
      switchbot.ServiceUUID: {0x63},
    },
    ManufacturerData: map[int][]byte{
      switchbot.ManufacturerIDNordic: {0x01},
      switchbot.ManufacturerIDWoan: {},
    },
  }

  sd, mfr, companyID := switchbot.SelectPayloads(adv)

  if !reflect.DeepEqual(sd, []byte{0x63}) || mfr != nil || companyID != switchbot.ManufacturerIDWoan {
    t.Fatalf("SelectPayloads(%+v): got (%x, %x, %d), wanted (63, nil, %d)",
      adv, sd, mfr, companyID, switchbot.ManufacturerIDWoan)
  }
}
