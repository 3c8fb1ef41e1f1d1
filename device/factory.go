package device

import "fmt"

type Factory interface {
  FromSpec(spec DeviceSpec) (Device, error)
}

type FactoryDocs interface {
  Help() string
}

// Factories maps a command line flag name to the factory building its devices.
type Factories map[string]Factory

// Usage returns the flag help for the factory registered under name.
func (f Factories) Usage(name string) string {
  help := "Device spec for this device in the form of `key=value,key=value`."

  if docs, ok := f[name].(FactoryDocs); ok {
    help += "\n" + docs.Help()
  }

  return help
}

// Build creates a device from a raw spec using the factory registered under name.
func (f Factories) Build(name, rawSpec string) (Device, error) {
  factory, ok := f[name]

  if !ok {
    return nil, fmt.Errorf("no factory for %q", name)
  }

  d, err := factory.FromSpec(NewDeviceSpec(rawSpec))

  if err != nil {
    return nil, fmt.Errorf("failed to create %v device: %w", name, err)
  }

  return d, nil
}
