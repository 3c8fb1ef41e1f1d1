package switchbot

// Meter covers the whole thermo-hygrometer family (Meter, Meter Plus,
// Indoor/Outdoor Meter, Meter Pro and Meter Pro CO2).
type Meter struct {
  Temp Temperature `json:"temp"`
  Temperature float64 `json:"temperature"`
  Fahrenheit bool `json:"fahrenheit"`
  Humidity int `json:"humidity"`
  Battery *int `json:"battery"`
  CO2 *int `json:"co2,omitempty"`
}

func (*Meter) isAttributes() {}

func parseMeter(sd, mfr []byte) Attributes {
  var tempData []byte
  var battery *int

  if mfr != nil {
    tempData = window(mfr, 8, 11)
  }

  if sd != nil {
    if len(tempData) == 0 {
      tempData = window(sd, 3, 6)
    }

    battery = ptr(int(sd[2] & 0x7f))
  }

  if len(tempData) == 0 {
    return nil
  }

  c, f := DecodeSignedTemperature(tempData[1], tempData[0]&0x0f)
  humidity := int(tempData[2] & 0x7f)

  // all zeroes is what an uninitialized sensor broadcasts
  if c == 0 && humidity == 0 {
    return nil
  }

  return &Meter{
    Temp: Temperature{C: c, F: f},
    Temperature: c,
    Fahrenheit: bit(tempData[2], 0x80),
    Humidity: humidity,
    Battery: battery,
  }
}

func parseMeterCO2(sd, mfr []byte) Attributes {
  res := parseMeter(sd, mfr)

  if res == nil {
    return nil
  }

  meter := res.(*Meter)

  if len(mfr) >= 15 {
    meter.CO2 = ptr(int(Uint16BE(mfr, 13)))
  }

  return meter
}

type Hub2 struct {
  Temp Temperature `json:"temp"`
  Temperature float64 `json:"temperature"`
  Fahrenheit bool `json:"fahrenheit"`
  Humidity int `json:"humidity"`
  LightLevel int `json:"lightLevel"`
  Illuminance int `json:"illuminance"`
}

func (*Hub2) isAttributes() {}

func decodeHubTemperature(tempData []byte) (t Temperature, humidity int) {
  c, f := DecodeSignedTemperature(tempData[1], tempData[0]&0x0f)
  f = f * 10 / 10

  return Temperature{C: c, F: f}, int(tempData[2] & 0x7f)
}

func parseHub2(sd, mfr []byte) Attributes {
  var status byte
  var tempData []byte

  if len(mfr) > 0 {
    status = mfr[12]
    tempData = window(mfr, 13, 16)
  }

  if len(tempData) == 0 {
    return nil
  }

  temp, humidity := decodeHubTemperature(tempData)
  lightLevel := int(status & 0x1f)

  if temp.C == 0 && humidity == 0 {
    return nil
  }

  return &Hub2{
    Temp: temp,
    Temperature: temp.C,
    Fahrenheit: bit(tempData[2], 0x80),
    Humidity: humidity,
    LightLevel: lightLevel,
    Illuminance: Hub2Illuminance(lightLevel),
  }
}

type HubMiniMatter struct {
  Temp Temperature `json:"temp"`
  Temperature float64 `json:"temperature"`
  Fahrenheit bool `json:"fahrenheit"`
  Humidity int `json:"humidity"`
}

func (*HubMiniMatter) isAttributes() {}

func parseHubMiniMatter(sd, mfr []byte) Attributes {
  var tempData []byte

  if len(mfr) > 0 {
    tempData = window(mfr, 13, 16)
  }

  if len(tempData) == 0 {
    return nil
  }

  temp, humidity := decodeHubTemperature(tempData)

  if temp.C == 0 && humidity == 0 {
    return nil
  }

  return &HubMiniMatter{
    Temp: temp,
    Temperature: temp.C,
    Fahrenheit: bit(tempData[2], 0x80),
    Humidity: humidity,
  }
}

type Hub3 struct {
  SequenceNumber int `json:"sequence_number"`
  NetworkState int `json:"network_state"`
  SensorInserted bool `json:"sensor_inserted"`
  LightLevel int `json:"lightLevel"`
  Illuminance int `json:"illuminance"`
  TemperatureAlarm bool `json:"temperature_alarm"`
  HumidityAlarm bool `json:"humidity_alarm"`
  Temp Temperature `json:"temp"`
  Temperature float64 `json:"temperature"`
  Humidity int `json:"humidity"`
  MotionDetected bool `json:"motion_detected"`
}

func (*Hub3) isAttributes() {}

func parseHub3(sd, mfr []byte) Attributes {
  if mfr == nil {
    return nil
  }

  deviceData := mfr[6:]
  lightLevel := int(deviceData[6] & 0x0f)
  tempData := deviceData[7:10]

  c, f := DecodeSignedTemperature(tempData[1], tempData[0]&0x0f)

  return &Hub3{
    SequenceNumber: int(deviceData[0]),
    NetworkState: int(deviceData[6]&0xc0) >> 6,
    SensorInserted: !bit(deviceData[6], 0x20),
    LightLevel: lightLevel,
    Illuminance: Hub3Illuminance(lightLevel),
    TemperatureAlarm: bit(deviceData[7], 0xc0),
    HumidityAlarm: bit(deviceData[7], 0x30),
    Temp: Temperature{C: c, F: roundTenths(f)},
    Temperature: c,
    Humidity: int(tempData[2] & 0x7f),
    MotionDetected: bit(deviceData[10], 0x80),
  }
}

type ContactSensor struct {
  Tested *bool `json:"tested"`
  MotionDetected bool `json:"motion_detected"`
  ContactOpen bool `json:"contact_open"`
  ContactTimeout bool `json:"contact_timeout"`
  IsLight bool `json:"is_light"`
  ButtonCount int `json:"button_count"`
  Battery *int `json:"battery"`
}

func (*ContactSensor) isAttributes() {}

func parseContactSensor(sd, mfr []byte) Attributes {
  if sd == nil && mfr == nil {
    return nil
  }

  res := &ContactSensor{}

  if sd != nil {
    res.Tested = ptr(bit(sd[1], 0x80))
    res.Battery = ptr(int(sd[2] & 0x7f))
  }

  if len(mfr) >= 13 {
    res.MotionDetected = bit(mfr[7], 0x80)
    res.ContactTimeout = bit(mfr[7], 0x20)
    res.ContactOpen = bit(mfr[7], 0x30)
    res.IsLight = bit(mfr[7], 0x01)
    res.ButtonCount = int(mfr[12] & 0x0f)
  } else {
    res.MotionDetected = bit(sd[1], 0x40)
    res.ContactTimeout = bit(sd[3], 0x04)
    res.ContactOpen = bit(sd[3], 0x06)
    res.IsLight = bit(sd[3], 0x01)
    res.ButtonCount = int(sd[8] & 0x0f)
  }

  return res
}

type MotionSensor struct {
  Tested *bool `json:"tested"`
  MotionDetected bool `json:"motion_detected"`
  Battery *int `json:"battery"`
  LED *int `json:"led"`
  IoT *int `json:"iot"`
  SenseDistance *int `json:"sense_distance"`
  LightIntensity *int `json:"light_intensity"`
  IsLight bool `json:"is_light"`
}

func (*MotionSensor) isAttributes() {}

func parseMotionSensor(sd, mfr []byte) Attributes {
  if sd == nil && mfr == nil {
    return nil
  }

  res := &MotionSensor{}

  if sd != nil {
    lightIntensity := int(sd[5] & 0x03)

    res.Tested = ptr(bit(sd[1], 0x80))
    res.MotionDetected = bit(sd[1], 0x40)
    res.Battery = ptr(int(sd[2] & 0x7f))
    res.LED = ptr(int(sd[5]&0x20) >> 5)
    res.IoT = ptr(int(sd[5]&0x10) >> 4)
    res.SenseDistance = ptr(int(sd[5]&0x0c) >> 2)
    res.LightIntensity = &lightIntensity
    res.IsLight = lightIntensity == 2
  }

  // manufacturer data wins over the scan response
  if len(mfr) >= 8 {
    res.MotionDetected = bit(mfr[7], 0x40)
    res.IsLight = bit(mfr[7], 0x20)
  }

  return res
}

type LeakDetector struct {
  Leak bool `json:"leak"`
  Tampered bool `json:"tampered"`
  Battery int `json:"battery"`
  LowBattery bool `json:"low_battery"`
}

func (*LeakDetector) isAttributes() {}

func parseLeakDetector(sd, mfr []byte) Attributes {
  if len(sd) < 3 || len(mfr) < 2 {
    return nil
  }

  return &LeakDetector{
    Leak: bit(mfr[8], 0x01),
    Tampered: bit(mfr[8], 0x02),
    Battery: int(mfr[7] & 0x7f),
    LowBattery: bit(mfr[7], 0x80),
  }
}
