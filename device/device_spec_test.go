package device_test

import (
  "reflect"
  "testing"

  "github.com/robertof/go-switchbot-exporter/device"
)

func TestNewDeviceSpec(t *testing.T) {
  in := "addr=AA:BB:CC:DD:EE:FF, name = kitchen,model=Keypad Vision,passive=yes,bogus"
  got := device.NewDeviceSpec(in)

  want := device.DeviceSpec{
    "addr": "AA:BB:CC:DD:EE:FF",
    "name": "kitchen",
    "model": "Keypad Vision",
    "passive": "yes",
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("NewDeviceSpec(%q): got %+#v, wanted %+#v", in, got, want)
  }

  if got.Addr() != "AA:BB:CC:DD:EE:FF" || got.Name() != "kitchen" || got.Model() != "Keypad Vision" {
    t.Fatalf("NewDeviceSpec(%q): accessors returned %q, %q, %q", in, got.Addr(), got.Name(), got.Model())
  }
}

func TestDeviceSpec_Bool(t *testing.T) {
  spec := device.DeviceSpec{"a": "TRUE", "b": "0", "c": "on"}

  for key, want := range map[string]bool{"a": true, "b": false, "c": true, "missing": false} {
    if got := spec.Bool(key); got != want {
      t.Fatalf("Bool(%q): got %v, wanted %v", key, got, want)
    }
  }
}

func TestFactories_Build(t *testing.T) {
  factories := device.Factories{}

  if _, err := factories.Build("switchbot", "addr=AA:BB:CC:DD:EE:FF"); err == nil {
    t.Fatalf("Build(switchbot) without a registered factory: got no error")
  }
}
