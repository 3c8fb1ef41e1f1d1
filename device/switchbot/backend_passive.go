package switchbot

import (
  "time"

  "github.com/go-ble/ble"
  "github.com/pkg/errors"
  "github.com/robertof/go-switchbot-exporter/device"
)

type backendPassive struct {
  scanType device.PassiveBackendScanType
  model Model
  resolver *Resolver
  keypad KeypadState
}

func (b *backendPassive) ScanType() device.PassiveBackendScanType {
  return b.scanType
}

func (b *backendPassive) resolve(raw RawAdvertisement) (*Advertisement, error) {
  if _, ok := HintOnlyParser(b.model); !ok {
    return b.resolver.ParseAdvertisementData(raw, b.model), nil
  }

  sd, mfr, _ := SelectPayloads(raw)

  if sd == nil && mfr == nil {
    return nil, nil
  }

  data, err := b.resolver.DecodeAs(b.model, sd, mfr)

  if err != nil {
    return nil, err
  }

  return &Advertisement{Address: raw.Address, Data: data, RSSI: raw.RSSI, Active: sd != nil}, nil
}

// trackKeypad fills in the success flag of keypad readings. Cached data is
// shared, so the attributes are copied before being modified.
func (b *backendPassive) trackKeypad(data *AdvertisementData) *AdvertisementData {
  k, ok := data.Data.(*Keypad)

  if !ok {
    return data
  }

  if k.AttemptState == nil {
    b.keypad.Reset()
    return data
  }

  attrs := *k
  attrs.Success = ptr(b.keypad.Observe(*k.AttemptState))

  out := *data
  out.Data = &attrs

  return &out
}

func (b *backendPassive) ParseAdvertisement(a ble.Advertisement) (reading device.Reading, err error) {
  adv, err := b.resolve(FromBLE(a))

  if err != nil {
    return reading, errors.Wrap(device.ErrInvalidData, err.Error())
  }

  if adv == nil {
    return reading, errors.Wrap(device.ErrInvalidData, "switchbot: no switchbot data in advertisement")
  }

  if !adv.Data.Decoded() {
    return reading, errors.Wrapf(device.ErrInvalidData,
      "switchbot: payload of model %v could not be decoded", adv.Data.Model)
  }

  if b.model != "" && adv.Data.ModelName != b.model {
    return reading, errors.Wrapf(device.ErrUnknownModel,
      "switchbot: advertised model %v, configured %v", adv.Data.ModelName, b.model)
  }

  data := b.trackKeypad(adv.Data)

  return device.Reading{
    Address: adv.Address,
    RSSI: adv.RSSI,
    Active: adv.Active,
    Encrypted: data.IsEncrypted,
    Model: data.Model.String(),
    ModelName: string(data.ModelName),
    FriendlyName: data.ModelFriendlyName,
    Attributes: data.Data,
    Time: time.Now(),
  }, nil
}
