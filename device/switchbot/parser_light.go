package switchbot

type LightStrip struct {
  SequenceNumber int `json:"sequence_number"`
  IsOn bool `json:"isOn"`
  Brightness int `json:"brightness"`
  Delay bool `json:"delay"`
  NetworkState int `json:"network_state"`
  ColorMode int `json:"color_mode"`
  // Color temperature, only reported by the newer lamps.
  CW *int `json:"cw,omitempty"`
}

func (*LightStrip) isAttributes() {}

func decodeLightStrip(mfr []byte) *LightStrip {
  return &LightStrip{
    SequenceNumber: int(mfr[6]),
    IsOn: bit(mfr[7], 0x80),
    Brightness: int(mfr[7] & 0x7f),
    Delay: bit(mfr[8], 0x80),
    NetworkState: int(mfr[8]&0x70) >> 4,
    ColorMode: int(mfr[8] & 0x0f),
  }
}

func parseLightStrip(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return decodeLightStrip(mfr)
}

// lightWithColorTemperature builds a parser for the strip-style lamps that
// append a big-endian color temperature at cwOffset.
func lightWithColorTemperature(cwOffset int) ParseFunc {
  return func(sd, mfr []byte) Attributes {
    if mfr == nil {
      return nil
    }

    res := decodeLightStrip(mfr)
    res.CW = ptr(int(Uint16BE(mfr, cwOffset)))

    return res
  }
}

type ColorBulb struct {
  SequenceNumber int `json:"sequence_number"`
  IsOn bool `json:"isOn"`
  Brightness int `json:"brightness"`
  Delay bool `json:"delay"`
  Preset bool `json:"preset"`
  ColorMode int `json:"color_mode"`
  Speed int `json:"speed"`
  LoopIndex int `json:"loop_index"`
}

func (*ColorBulb) isAttributes() {}

func parseColorBulb(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &ColorBulb{
    SequenceNumber: int(mfr[6]),
    IsOn: bit(mfr[7], 0x80),
    Brightness: int(mfr[7] & 0x7f),
    Delay: bit(mfr[8], 0x80),
    Preset: bit(mfr[8], 0x08),
    ColorMode: int(mfr[8] & 0x07),
    Speed: int(mfr[9] & 0x7f),
    LoopIndex: int(mfr[10] & 0xfe),
  }
}

type CeilingLight struct {
  SequenceNumber int `json:"sequence_number"`
  IsOn bool `json:"isOn"`
  Brightness int `json:"brightness"`
  CW int `json:"cw"`
  ColorMode int `json:"color_mode"`
}

func (*CeilingLight) isAttributes() {}

func parseCeilingLight(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &CeilingLight{
    SequenceNumber: int(mfr[6]),
    IsOn: bit(mfr[7], 0x80),
    Brightness: int(mfr[7] & 0x7f),
    CW: int(Uint16BE(mfr, 8)),
    ColorMode: 1,
  }
}
