package switchbot_test

import (
  "errors"
  "reflect"
  "testing"
  "time"

  ble_mod "github.com/go-ble/ble"
  "github.com/robertof/go-switchbot-exporter/device"
  "github.com/robertof/go-switchbot-exporter/device/switchbot"
)

func newDevice(t *testing.T, spec device.DeviceSpec) device.Device {
  t.Helper()

  f := switchbot.Factory{}
  dev, err := f.FromSpec(spec)

  if err != nil {
    t.Fatalf("FromSpec(%+v) got error: %v", spec, err)
  }

  return dev
}

func curtainAdvertisement() FakeAdvertisement {
  return FakeAdvertisement{
    addr: ble_mod.NewAddr("aa:bb:cc:dd:ee:ff"),
    rssi: -97,
    serviceData: []ble_mod.ServiceData{
      {UUID: ble_mod.UUID16(0xfd3d), Data: []byte{0x63, 0xc0, 0x58, 0x00, 0x11, 0x04}},
    },
    companyID: switchbot.ManufacturerIDWoan,
    manufacturerData: []byte{0xe7, 0xab, 0x46, 0xac, 0x8f, 0x92, 0x7c, 0x0f, 0x00, 0x11, 0x04},
  }
}

func keypadAdvertisement(attempt byte) FakeAdvertisement {
  return FakeAdvertisement{
    addr: ble_mod.NewAddr("aa:bb:cc:dd:ee:ff"),
    rssi: -67,
    serviceData: []ble_mod.ServiceData{
      {UUID: ble_mod.UUID16(0xfd3d), Data: []byte{0x79, 0x00, 0x64}},
    },
    companyID: switchbot.ManufacturerIDWoan,
    manufacturerData: []byte{0xeb, 0x13, 0x02, 0xe6, 0x23, 0x0f, attempt, 0x64, 0x00, 0x00, 0x00, 0x00},
  }
}

func TestFactory_FromSpec(t *testing.T) {
  dev := newDevice(t, device.DeviceSpec{"addr": "AA:BB:CC:DD:EE:FF"})

  if dev.Name() != "switchbot-aabbccddeeff" {
    t.Fatalf("Name(): got %q, wanted %q", dev.Name(), "switchbot-aabbccddeeff")
  }

  if dev.Flags() != device.FlagRequiresBleActiveScan {
    t.Fatalf("Flags(): got %v, wanted %v", dev.Flags(), device.FlagRequiresBleActiveScan)
  }

  passive := newDevice(t, device.DeviceSpec{
    "addr": "aa:bb:cc:dd:ee:ff",
    "name": "living-room",
    "model": "WoCurtain",
    "passive": "yes",
  })

  if passive.Name() != "living-room" || passive.Flags() != 0 {
    t.Fatalf("FromSpec(): got %v with flags %v, wanted a passive living-room device", passive, passive.Flags())
  }

  if got := passive.(*switchbot.Device).Model(); got != switchbot.ModelCurtain {
    t.Fatalf("Model(): got %v, wanted %v", got, switchbot.ModelCurtain)
  }
}

func TestFactory_FromSpecErrors(t *testing.T) {
  f := switchbot.Factory{}

  if _, err := f.FromSpec(device.DeviceSpec{"addr": "not a mac"}); err == nil {
    t.Fatalf("FromSpec(addr=not a mac): got no error")
  }

  spec := device.DeviceSpec{"addr": "aa:bb:cc:dd:ee:ff", "model": "WoToaster"}

  if _, err := f.FromSpec(spec); !errors.Is(err, device.ErrUnknownModel) {
    t.Fatalf("FromSpec(%+v): got error %v, wanted %v", spec, err, device.ErrUnknownModel)
  }
}

func TestDevice_ParseAdvertisement(t *testing.T) {
  dev := newDevice(t, device.DeviceSpec{"addr": "aa:bb:cc:dd:ee:ff"})
  advertisement := curtainAdvertisement()

  got, err := dev.ParseAdvertisement(advertisement)

  if err != nil {
    t.Fatalf("ParseAdvertisement(%+v) got error: %v", advertisement, err)
  }

  if time.Since(got.Time) > time.Minute {
    t.Fatalf("ParseAdvertisement(%+v): reading time %v is stale", advertisement, got.Time)
  }

  got.Time = time.Time{}

  want := device.Reading{
    Address: "AA:BB:CC:DD:EE:FF",
    RSSI: -97,
    Active: true,
    Model: "c",
    ModelName: "WoCurtain",
    FriendlyName: "Curtain",
    Attributes: &switchbot.Curtain{
      Calibration: ptr(true),
      Battery: ptr(88),
      Position: 100,
      LightLevel: 1,
      DeviceChain: 1,
    },
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("ParseAdvertisement(%+v): got %+#v, wanted %+#v", advertisement, got, want)
  }
}

func TestDevice_ParseAdvertisementErrors(t *testing.T) {
  tests := []struct {
    name string
    spec device.DeviceSpec
    advertisement FakeAdvertisement
    want error
  }{
    {
      name: "no payload",
      spec: device.DeviceSpec{"addr": "aa:bb:cc:dd:ee:ff"},
      advertisement: FakeAdvertisement{addr: ble_mod.NewAddr("aa:bb:cc:dd:ee:ff")},
      want: device.ErrInvalidData,
    },
    {
      name: "undecodable payload",
      spec: device.DeviceSpec{"addr": "aa:bb:cc:dd:ee:ff"},
      advertisement: FakeAdvertisement{
        addr: ble_mod.NewAddr("aa:bb:cc:dd:ee:ff"),
        serviceData: []ble_mod.ServiceData{{UUID: ble_mod.UUID16(0xfd3d), Data: []byte{0x5a, 0x00, 0x64}}},
      },
      want: device.ErrInvalidData,
    },
    {
      name: "model mismatch",
      spec: device.DeviceSpec{"addr": "aa:bb:cc:dd:ee:ff", "model": "WoHand"},
      advertisement: FakeAdvertisement{
        addr: ble_mod.NewAddr("aa:bb:cc:dd:ee:ff"),
        serviceData: []ble_mod.ServiceData{
          {UUID: ble_mod.UUID16(0xfd3d), Data: []byte{0x00, 0x00, 0x64, 0x00, 0x10, 0xb9, 0x40}},
        },
        companyID: switchbot.ManufacturerIDWoan,
        manufacturerData: []byte{
          0xb0, 0xe9, 0xfe, 0x6e, 0x5e, 0x29, 0x00, 0xff, 0x68,
          0x26, 0xd6, 0x64, 0x83, 0x03, 0x99, 0x34, 0x80,
        },
      },
      want: device.ErrUnknownModel,
    },
  }

  for _, test := range tests {
    t.Run(test.name, func(t *testing.T) {
      dev := newDevice(t, test.spec)

      if _, err := dev.ParseAdvertisement(test.advertisement); !errors.Is(err, test.want) {
        t.Fatalf("ParseAdvertisement(%+v): got error %v, wanted %v", test.advertisement, err, test.want)
      }
    })
  }
}

func TestDevice_KeypadSuccess(t *testing.T) {
  dev := newDevice(t, device.DeviceSpec{"addr": "aa:bb:cc:dd:ee:ff", "model": "WoKeypad"})

  steps := []struct {
    attempt byte
    want bool
  }{
    {143, false},
    {144, false},
    {146, true},
  }

  for _, step := range steps {
    advertisement := keypadAdvertisement(step.attempt)
    got, err := dev.ParseAdvertisement(advertisement)

    if err != nil {
      t.Fatalf("ParseAdvertisement(%+v) got error: %v", advertisement, err)
    }

    want := &switchbot.Keypad{
      Battery: ptr(100),
      AttemptState: ptr(int(step.attempt)),
      Success: ptr(step.want),
    }

    if !reflect.DeepEqual(got.Attributes, want) {
      t.Fatalf("ParseAdvertisement(%+v): got %+#v, wanted %+#v", advertisement, got.Attributes, want)
    }
  }

  // cached records must not carry the per-device success flag
  sd := []byte{0x79, 0x00, 0x64}
  mfr := keypadAdvertisement(146).manufacturerData
  cached := switchbot.Resolve(sd, mfr, switchbot.ManufacturerIDWoan, switchbot.ModelKeypad)

  if k := cached.Data.(*switchbot.Keypad); k.Success != nil {
    t.Fatalf("Resolve(%x, %x): cached keypad record was modified: %+#v", sd, mfr, k)
  }
}
