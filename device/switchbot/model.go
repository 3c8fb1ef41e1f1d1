package switchbot

import (
  "encoding/hex"
  "strconv"
)

// Model is the canonical SwitchBot device model identifier.
type Model string

const (
  ModelBot Model = "WoHand"
  ModelCurtain Model = "WoCurtain"
  ModelHumidifier Model = "WoHumi"
  ModelPlugMini Model = "WoPlug"
  ModelContactSensor Model = "WoContact"
  ModelLightStrip Model = "WoStrip"
  ModelMeter Model = "WoSensorTH"
  ModelMeterPro Model = "WoTHP"
  ModelMeterProCO2 Model = "WoTHPc"
  ModelIOMeter Model = "WoIOSensorTH"
  ModelMotionSensor Model = "WoPresence"
  ModelColorBulb Model = "WoBulb"
  ModelCeilingLight Model = "WoCeiling"
  ModelLock Model = "WoLock"
  ModelLockPro Model = "WoLockPro"
  ModelBlindTilt Model = "WoBlindTilt"
  ModelHub2 Model = "WoHub2"
  ModelLeak Model = "Leak Detector"
  ModelKeypad Model = "WoKeypad"
  ModelRelaySwitch1PM Model = "Relay Switch 1PM"
  ModelRelaySwitch1 Model = "Relay Switch 1"
  ModelRemote Model = "WoRemote"
  ModelLockLite Model = "Lock Lite"
  ModelHubMiniMatter Model = "HubMini Matter"
  ModelRollerShade Model = "Roller Shade"
  ModelHub3 Model = "Hub3"
  ModelLockUltra Model = "Lock Ultra"
  ModelCirculatorFan Model = "Circulator Fan"
  ModelK20Vacuum Model = "K20 Vacuum"
  ModelS10Vacuum Model = "S10 Vacuum"
  ModelK10Vacuum Model = "K10+ Vacuum"
  ModelK10ProVacuum Model = "K10+ Pro Vacuum"
  ModelK10ProComboVacuum Model = "K10+ Pro Combo Vacuum"
  ModelAirPurifier Model = "Air Purifier"
  ModelAirPurifierTable Model = "Air Purifier Table"
  ModelEvaporativeHumidifier Model = "Evaporative Humidifier"
  ModelGarageDoorOpener Model = "Garage Door Opener"
  ModelRelaySwitch2PM Model = "Relay Switch 2PM"
  ModelStripLight3 Model = "Strip Light 3"
  ModelFloorLamp Model = "Floor Lamp"

  // Models without a discriminator of their own. They can only be decoded
  // when the caller already knows what it is looking at.
  ModelArtFrame Model = "Art Frame"
  ModelClimatePanel Model = "Climate Panel"
  ModelKeypadVision Model = "Keypad Vision"
  ModelKeypadVisionPro Model = "Keypad Vision Pro"
  ModelPresenceSensor Model = "Presence Sensor"
  ModelSmartThermostatRadiator Model = "Smart Thermostat Radiator"
  ModelRGBICLight Model = "RGBIC Light"
)

func (m Model) String() string {
  return string(m)
}

// Discriminator identifies a row of the dispatch table. It is either a single
// character (low 7 bits of the first service data byte) or the 4 raw trailing
// bytes of the service data used by newer devices.
type Discriminator string

func (d Discriminator) IsLong() bool {
  return len(d) == 4
}

func (d Discriminator) String() string {
  if d.IsLong() {
    return "0x" + hex.EncodeToString([]byte(d))
  }

  if len(d) == 1 && (d[0] < 0x20 || d[0] > 0x7e) {
    return strconv.QuoteToASCII(string(d))
  }

  return string(d)
}

func (d Discriminator) MarshalText() ([]byte, error) {
  return []byte(d.String()), nil
}
