package switchbot

type ArtFrame struct {
  SequenceNumber int `json:"sequence_number"`
  BatteryCharging bool `json:"battery_charging"`
  Battery int `json:"battery"`
  ImageIndex int `json:"image_index"`
  DisplaySize int `json:"display_size"`
  DisplayMode int `json:"display_mode"`
  LastNetworkStatus int `json:"last_network_status"`
}

func (*ArtFrame) isAttributes() {}

func parseArtFrame(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  return &ArtFrame{
    SequenceNumber: int(mfr[6]),
    BatteryCharging: bit(mfr[7], 0x80),
    Battery: int(mfr[7] & 0x7f),
    ImageIndex: int(mfr[8]),
    DisplaySize: int(mfr[9]>>4) & 0x0f,
    DisplayMode: int(mfr[9]>>3) & 0x01,
    LastNetworkStatus: int(mfr[9]>>2) & 0x01,
  }
}

type ClimatePanel struct {
  SequenceNumber int `json:"sequence_number"`
  IsOn bool `json:"isOn"`
  Battery int `json:"battery"`
  Temperature float64 `json:"temperature"`
  Humidity int `json:"humidity"`
  TempAlarm int `json:"temp_alarm"`
  HumidityAlarm int `json:"humidity_alarm"`
  MotionDetected bool `json:"motion_detected"`
  IsLight bool `json:"is_light"`
}

func (*ClimatePanel) isAttributes() {}

func parseClimatePanel(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  c, _ := DecodeSignedTemperature(mfr[9], mfr[8]&0x0f)

  return &ClimatePanel{
    SequenceNumber: int(mfr[6]),
    IsOn: bit(mfr[7], 0x80),
    Battery: int(mfr[7] & 0x7f),
    Temperature: c,
    Humidity: int(mfr[10] & 0x7f),
    TempAlarm: int(mfr[8]>>4) & 0x03,
    HumidityAlarm: int(mfr[8]>>6) & 0x03,
    MotionDetected: bit(mfr[15], 0x80),
    // a 2 bit field compared against 0x10, never true on current firmware
    IsLight: (mfr[15]>>2)&0x03 == 0x10,
  }
}

type KeypadVision struct {
  SequenceNumber int `json:"sequence_number"`
  BatteryCharging bool `json:"battery_charging"`
  Battery int `json:"battery"`
  LockoutAlarm bool `json:"lockout_alarm"`
  TamperAlarm bool `json:"tamper_alarm"`
  DuressAlarm bool `json:"duress_alarm"`
  LowTemperature bool `json:"low_temperature"`
  HighTemperature bool `json:"high_temperature"`
  Doorbell bool `json:"doorbell"`

  // Keypad Vision only.
  PIRTriggeredLevel *int `json:"pir_triggered_level,omitempty"`

  // Keypad Vision Pro only.
  RadarTriggeredLevel *int `json:"radar_triggered_level,omitempty"`
  RadarTriggeredDistance *int `json:"radar_triggered_distance,omitempty"`
}

func (*KeypadVision) isAttributes() {}

func decodeKeypadVision(mfr []byte) *KeypadVision {
  return &KeypadVision{
    SequenceNumber: int(mfr[6]),
    BatteryCharging: bit(mfr[7], 0x80),
    Battery: int(mfr[7] & 0x7f),
    LockoutAlarm: bit(mfr[8], 0x01),
    TamperAlarm: bit(mfr[8], 0x02),
    DuressAlarm: bit(mfr[8], 0x04),
    LowTemperature: bit(mfr[8], 0x80),
    HighTemperature: bit(mfr[8], 0x40),
    Doorbell: bit(mfr[12], 0x08),
  }
}

func parseKeypadVision(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  res := decodeKeypadVision(mfr)
  res.PIRTriggeredLevel = ptr(int(mfr[13] & 0x03))

  return res
}

func parseKeypadVisionPro(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  res := decodeKeypadVision(mfr)
  res.RadarTriggeredLevel = ptr(int(mfr[13] & 0x03))
  res.RadarTriggeredDistance = ptr(int(mfr[13]>>2) & 0x03)

  return res
}

var presenceBatteryRanges = map[int]string{
  0: "<10%",
  1: "10-19%",
  2: "20-59%",
  3: ">=60%",
}

type PresenceSensor struct {
  SequenceNumber int `json:"sequence_number"`
  AdaptiveState bool `json:"adaptive_state"`
  MotionDetected bool `json:"motion_detected"`
  BatteryRange string `json:"battery_range"`
  // Seconds since the last state change.
  Duration int `json:"duration"`
  TriggerFlag int `json:"trigger_flag"`
  LEDState bool `json:"led_state"`
  LightLevel int `json:"lightLevel"`
  Battery *int `json:"battery,omitempty"`
}

func (*PresenceSensor) isAttributes() {}

func parsePresenceSensor(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  batteryRange, ok := presenceBatteryRanges[int(mfr[7]>>2)&0x03]

  if !ok {
    batteryRange = "Unknown"
  }

  res := &PresenceSensor{
    SequenceNumber: int(mfr[6]),
    AdaptiveState: bit(mfr[7], 0x80),
    MotionDetected: bit(mfr[7], 0x40),
    BatteryRange: batteryRange,
    Duration: int(mfr[8])<<8 + int(mfr[9]),
    TriggerFlag: int(mfr[10]),
    LEDState: bit(mfr[11], 0x80),
    LightLevel: int(mfr[11] & 0x1f),
  }

  if len(sd) > 0 {
    res.Battery = ptr(int(sd[2] & 0x7f))
  }

  return res
}

var thermostatModeNames = []string{"schedule", "manual", "off", "economic", "comfort", "fast_heating"}

type SmartThermostatRadiator struct {
  SequenceNumber int `json:"sequence_number"`
  IsOn bool `json:"isOn"`
  Battery int `json:"battery"`
  Temperature float64 `json:"temperature"`
  TargetTemperature float64 `json:"target_temperature"`
  Mode *string `json:"mode"`
  LastMode *string `json:"last_mode"`
  NeedUpdateTemp bool `json:"need_update_temp"`
  Restarted bool `json:"restarted"`
  FaultCode int `json:"fault_code"`
  DoorOpen bool `json:"door_open"`
}

func (*SmartThermostatRadiator) isAttributes() {}

func parseSmartThermostatRadiator(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  tempData := mfr[8:11]
  local, _ := DecodeSignedTemperature(tempData[1], tempData[0]&0x0f)
  target, _ := DecodeSignedTemperature(tempData[2], tempData[0]>>4)

  return &SmartThermostatRadiator{
    SequenceNumber: int(mfr[6]),
    IsOn: bit(mfr[7], 0x80),
    Battery: int(mfr[7] & 0x7f),
    Temperature: local,
    TargetTemperature: target,
    Mode: lookupName(thermostatModeNames, int(mfr[11]&0x07)),
    LastMode: lookupName(thermostatModeNames, int(mfr[11]>>4)&0x0f),
    NeedUpdateTemp: bit(mfr[12], 0x20),
    Restarted: bit(mfr[12], 0x10),
    FaultCode: int(mfr[12]>>1) & 0x07,
    DoorOpen: bit(mfr[12], 0x01),
  }
}
