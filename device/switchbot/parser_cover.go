package switchbot

type Curtain struct {
  Calibration *bool `json:"calibration"`
  Battery *int `json:"battery"`
  InMotion bool `json:"inMotion"`
  // 0 is closed, 100 fully open.
  Position int `json:"position"`
  LightLevel int `json:"lightLevel"`
  DeviceChain int `json:"deviceChain"`
}

func (*Curtain) isAttributes() {}

func parseCurtain(sd, mfr []byte) Attributes {
  var deviceData []byte
  var battery *int

  switch {
  case len(mfr) >= 13:
    deviceData = mfr[8:11]
    battery = ptr(int(mfr[12] & 0x7f))
  case len(mfr) >= 11:
    deviceData = mfr[8:11]

    if sd != nil {
      battery = ptr(int(sd[2] & 0x7f))
    }
  case sd != nil:
    deviceData = sd[3:6]
    battery = ptr(int(sd[2] & 0x7f))
  default:
    return nil
  }

  var calibration *bool

  if sd != nil {
    calibration = ptr(bit(sd[1], 0x40))
  }

  position := clamp(int(deviceData[0]&0x7f), 0, 100)

  return &Curtain{
    Calibration: calibration,
    Battery: battery,
    InMotion: bit(deviceData[0], 0x80),
    Position: 100 - position,
    LightLevel: int(deviceData[1]>>4) & 0x0f,
    DeviceChain: int(deviceData[1] & 0x07),
  }
}

type BlindTilt struct {
  SequenceNumber int `json:"sequence_number"`
  Calibration bool `json:"calibration"`
  Battery *int `json:"battery"`
  InMotion bool `json:"inMotion"`
  Tilt int `json:"tilt"`
  LightLevel int `json:"lightLevel"`
}

func (*BlindTilt) isAttributes() {}

func parseBlindTilt(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  deviceData := mfr[6:]

  var battery *int

  if sd != nil {
    battery = ptr(int(sd[2] & 0x7f))
  }

  return &BlindTilt{
    SequenceNumber: int(deviceData[0]),
    Calibration: bit(deviceData[1], 0x01),
    Battery: battery,
    InMotion: bit(deviceData[2], 0x80),
    Tilt: clamp(int(deviceData[2]&0x7f), 0, 100),
    LightLevel: int(deviceData[3]>>4) & 0x0f,
  }
}

type RollerShade struct {
  Calibration bool `json:"calibration"`
  Battery *int `json:"battery"`
  InMotion bool `json:"inMotion"`
  Position int `json:"position"`
  LightLevel int `json:"lightLevel"`
  DeviceChain int `json:"deviceChain"`
  SequenceNumber int `json:"sequence_number"`
}

func (*RollerShade) isAttributes() {}

func parseRollerShade(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  deviceData := mfr[6:]
  position := clamp(int(deviceData[2]&0x7f), 0, 100)

  var battery *int

  if sd != nil {
    battery = ptr(int(sd[2] & 0x7f))
  }

  return &RollerShade{
    Calibration: bit(deviceData[2], 0x80),
    Battery: battery,
    InMotion: bit(deviceData[1], 0x06),
    Position: 100 - position,
    LightLevel: int(deviceData[3]>>4) & 0x0f,
    DeviceChain: int(deviceData[3] & 0x0f),
    SequenceNumber: int(deviceData[0]),
  }
}
