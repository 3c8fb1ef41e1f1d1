package switchbot

type Bot struct {
  SwitchMode *bool `json:"switchMode"`
  IsOn *bool `json:"isOn"`
  Battery *int `json:"battery"`
}

func (*Bot) isAttributes() {}

func parseBot(sd, mfr []byte) Attributes {
  if sd == nil && mfr == nil {
    return nil
  }

  if sd == nil {
    return &Bot{}
  }

  switchMode := bit(sd[1], 0x80)
  isOn := false

  if switchMode {
    isOn = !bit(sd[1], 0x40)
  }

  return &Bot{
    SwitchMode: &switchMode,
    IsOn: &isOn,
    Battery: ptr(int(sd[2] & 0x7f)),
  }
}

type Humidifier struct {
  IsOn *bool `json:"isOn"`
  Level *int `json:"level"`
  SwitchMode bool `json:"switchMode"`
}

func (*Humidifier) isAttributes() {}

func parseHumidifier(sd, mfr []byte) Attributes {
  if sd == nil {
    return &Humidifier{SwitchMode: true}
  }

  return &Humidifier{
    IsOn: ptr(sd[1] != 0),
    Level: ptr(int(sd[4])),
    SwitchMode: true,
  }
}

type Remote struct {
  Battery *int `json:"battery"`
}

func (*Remote) isAttributes() {}

func parseRemote(sd, mfr []byte) Attributes {
  if sd == nil {
    return &Remote{}
  }

  return &Remote{Battery: ptr(int(sd[2] & 0x7f))}
}

type PlugMini struct {
  SwitchMode bool `json:"switchMode"`
  IsOn bool `json:"isOn"`
  WifiRSSI int `json:"wifi_rssi"`
  // Watts.
  Power float64 `json:"power"`
}

func (*PlugMini) isAttributes() {}

func parsePlugMini(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &PlugMini{
    SwitchMode: true,
    IsOn: mfr[7] == 0x80,
    WifiRSSI: -int(mfr[9]),
    Power: mustParsePowerData(mfr, 10, 10.0, 0x7fff),
  }
}

type RelaySwitch struct {
  SwitchMode bool `json:"switchMode"`
  SequenceNumber int `json:"sequence_number"`
  IsOn bool `json:"isOn"`
}

func (*RelaySwitch) isAttributes() {}

func relaySwitchChannel(mfr []byte, onMask byte) *RelaySwitch {
  return &RelaySwitch{
    SwitchMode: true,
    SequenceNumber: int(mfr[6]),
    IsOn: bit(mfr[7], onMask),
  }
}

func parseRelaySwitch(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return relaySwitchChannel(mfr, 0x80)
}

type GarageDoorOpener struct {
  RelaySwitch
  DoorOpen bool `json:"door_open"`
}

func (*GarageDoorOpener) isAttributes() {}

func parseGarageDoorOpener(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &GarageDoorOpener{
    RelaySwitch: *relaySwitchChannel(mfr, 0x80),
    DoorOpen: !bit(mfr[7], 0x20),
  }
}

// RelaySwitchChannels holds one entry per channel of a multi-channel relay,
// keyed by channel number starting at 1.
type RelaySwitchChannels map[int]*RelaySwitch

func (RelaySwitchChannels) isAttributes() {}

func parseRelaySwitch2PM(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return RelaySwitchChannels{
    1: relaySwitchChannel(mfr, 0x80),
    2: relaySwitchChannel(mfr, 0x40),
  }
}
