package switchbot

import (
  "fmt"

  "golang.org/x/exp/maps"
  "golang.org/x/exp/slices"
)

const (
  ManufacturerIDWoan = 2409
  ManufacturerIDEspressif = 741
  ManufacturerIDNordic = 89
)

const (
  ServiceUUID = "0000fd3d-0000-1000-8000-00805f9b34fb"
  LegacyServiceUUID = "00000d00-0000-1000-8000-00805f9b34fb"
)

// Lookup order for the payloads of an advertisement.
var (
  ServiceDataOrder = []string{ServiceUUID, LegacyServiceUUID}
  ManufacturerDataOrder = []int{ManufacturerIDWoan, ManufacturerIDEspressif, ManufacturerIDNordic}
)

type ParseFunc func(serviceData, manufacturerData []byte) Attributes

type Entry struct {
  Model Model
  FriendlyName string
  Parse ParseFunc
  ManufacturerID int
  // Zero when the model can't be recognized from the payload length alone.
  ManufacturerDataLength int
}

type Candidate struct {
  Discriminator Discriminator
  Entry
}

type row struct {
  key Discriminator
  entry Entry
}

func woan(model Model, friendlyName string, parse ParseFunc) Entry {
  return Entry{
    Model: model,
    FriendlyName: friendlyName,
    Parse: parse,
    ManufacturerID: ManufacturerIDWoan,
  }
}

// Order matters: when several discriminators share a model the last one is
// used to resolve model hints.
var table = []row{
  {"d", woan(ModelContactSensor, "Contact Sensor", parseContactSensor)},
  {"H", Entry{
    Model: ModelBot,
    FriendlyName: "Bot",
    Parse: parseBot,
    ManufacturerID: ManufacturerIDNordic,
  }},
  {"s", woan(ModelMotionSensor, "Motion Sensor", parseMotionSensor)},
  {"r", woan(ModelLightStrip, "Light Strip", parseLightStrip)},
  {"{", woan(ModelCurtain, "Curtain 3", parseCurtain)},
  {"c", woan(ModelCurtain, "Curtain", parseCurtain)},
  {"w", woan(ModelIOMeter, "Indoor/Outdoor Meter", parseMeter)},
  {"i", woan(ModelMeter, "Meter Plus", parseMeter)},
  {"T", woan(ModelMeter, "Meter", parseMeter)},
  {"4", woan(ModelMeterPro, "Meter Pro", parseMeter)},
  {"5", woan(ModelMeterProCO2, "Meter Pro CO2", parseMeterCO2)},
  {"v", woan(ModelHub2, "Hub 2", parseHub2)},
  {"g", woan(ModelPlugMini, "Plug Mini", parsePlugMini)},
  {"j", woan(ModelPlugMini, "Plug Mini (JP)", parsePlugMini)},
  {"u", woan(ModelColorBulb, "Color Bulb", parseColorBulb)},
  {"q", woan(ModelCeilingLight, "Ceiling Light", parseCeilingLight)},
  {"n", woan(ModelCeilingLight, "Ceiling Light Pro", parseCeilingLight)},
  {"e", Entry{
    Model: ModelHumidifier,
    FriendlyName: "Humidifier",
    Parse: parseHumidifier,
    ManufacturerID: ManufacturerIDEspressif,
    ManufacturerDataLength: 6,
  }},
  {"#", woan(ModelEvaporativeHumidifier, "Evaporative Humidifier", parseEvaporativeHumidifier)},
  {"o", woan(ModelLock, "Lock", parseLock)},
  {"$", woan(ModelLockPro, "Lock Pro", parseLockPro)},
  {"x", woan(ModelBlindTilt, "Blind Tilt", parseBlindTilt)},
  {"&", woan(ModelLeak, "Leak Detector", parseLeakDetector)},
  {"y", woan(ModelKeypad, "Keypad", parseKeypad)},
  {"<", woan(ModelRelaySwitch1PM, "Relay Switch 1PM", parseRelaySwitch)},
  {";", woan(ModelRelaySwitch1, "Relay Switch 1", parseRelaySwitch)},
  {"b", Entry{
    Model: ModelRemote,
    FriendlyName: "Remote",
    Parse: parseRemote,
    ManufacturerID: ManufacturerIDNordic,
  }},
  {",", woan(ModelRollerShade, "Roller Shade", parseRollerShade)},
  {"%", woan(ModelHubMiniMatter, "HubMini Matter", parseHubMiniMatter)},
  {"~", woan(ModelCirculatorFan, "Circulator Fan", parseCirculatorFan)},
  {".", woan(ModelK20Vacuum, "K20 Vacuum", parseVacuum)},
  {"z", woan(ModelS10Vacuum, "S10 Vacuum", parseVacuum)},
  {"3", woan(ModelK10ProComboVacuum, "K10+ Pro Combo Vacuum", parseVacuum)},
  {"}", woan(ModelK10Vacuum, "K10+ Vacuum", parseVacuumK)},
  {"(", woan(ModelK10ProVacuum, "K10+ Pro Vacuum", parseVacuumK)},
  {"*", woan(ModelAirPurifier, "Air Purifier", parseAirPurifier)},
  {"+", woan(ModelAirPurifier, "Air Purifier", parseAirPurifier)},
  {"7", woan(ModelAirPurifierTable, "Air Purifier Table", parseAirPurifier)},
  {"8", woan(ModelAirPurifierTable, "Air Purifier Table", parseAirPurifier)},
  {"\x00\x10\xb9\x40", woan(ModelHub3, "Hub3", parseHub3)},
  {"-", woan(ModelLockLite, "Lock Lite", parseLockLite)},
  {"\x00\x10\xa5\xb8", woan(ModelLockUltra, "Lock Ultra", parseLockUltra)},
  {">", woan(ModelGarageDoorOpener, "Garage Door Opener", parseGarageDoorOpener)},
  {"=", woan(ModelRelaySwitch2PM, "Relay Switch 2PM", parseRelaySwitch2PM)},
  {"\x00\x10\xd0\xb0", woan(ModelFloorLamp, "Floor Lamp", lightWithColorTemperature(16))},
  {"\x00\x10\xd0\xb1", woan(ModelStripLight3, "Strip Light 3", lightWithColorTemperature(16))},
}

// Models that advertise no discriminator the table knows about.
var hintOnly = map[Model]Entry{
  ModelArtFrame: woan(ModelArtFrame, "Art Frame", parseArtFrame),
  ModelClimatePanel: woan(ModelClimatePanel, "Climate Panel", parseClimatePanel),
  ModelKeypadVision: woan(ModelKeypadVision, "Keypad Vision", parseKeypadVision),
  ModelKeypadVisionPro: woan(ModelKeypadVisionPro, "Keypad Vision Pro", parseKeypadVisionPro),
  ModelPresenceSensor: woan(ModelPresenceSensor, "Presence Sensor", parsePresenceSensor),
  ModelSmartThermostatRadiator: woan(ModelSmartThermostatRadiator, "Smart Thermostat Radiator",
    parseSmartThermostatRadiator),
  ModelRGBICLight: woan(ModelRGBICLight, "RGBIC Light", lightWithColorTemperature(10)),
}

var (
  entries map[Discriminator]Entry
  modelToDiscriminator map[Model]Discriminator
  byManufacturer map[int][]Candidate
  discriminators []Discriminator
)

func init() {
  entries = make(map[Discriminator]Entry, len(table))
  modelToDiscriminator = make(map[Model]Discriminator)
  byManufacturer = make(map[int][]Candidate)

  for _, r := range table {
    if len(r.key) != 1 && len(r.key) != 4 {
      panic(fmt.Sprintf("switchbot: invalid discriminator %v", r.key))
    }

    if _, ok := entries[r.key]; ok {
      panic(fmt.Sprintf("switchbot: duplicate discriminator %v", r.key))
    }

    entries[r.key] = r.entry
    modelToDiscriminator[r.entry.Model] = r.key
    discriminators = append(discriminators, r.key)

    byManufacturer[r.entry.ManufacturerID] = append(
      byManufacturer[r.entry.ManufacturerID],
      Candidate{Discriminator: r.key, Entry: r.entry},
    )
  }

  for model := range hintOnly {
    if _, ok := modelToDiscriminator[model]; ok {
      panic(fmt.Sprintf("switchbot: model %q is both in the table and hint-only", model))
    }
  }
}

func Lookup(d Discriminator) (Entry, bool) {
  e, ok := entries[d]
  return e, ok
}

// DiscriminatorForModel maps a model back to the discriminator used to
// decode it.
func DiscriminatorForModel(m Model) (Discriminator, bool) {
  d, ok := modelToDiscriminator[m]
  return d, ok
}

// CandidatesForManufacturer returns the table rows sharing a company ID, in
// table order.
func CandidatesForManufacturer(id int) []Candidate {
  return byManufacturer[id]
}

// Discriminators returns every known discriminator in table order.
func Discriminators() []Discriminator {
  out := make([]Discriminator, len(discriminators))
  copy(out, discriminators)

  return out
}

// HintOnlyParser returns the entry of a model which can only be decoded when
// the caller knows what it is.
func HintOnlyParser(m Model) (Entry, bool) {
  e, ok := hintOnly[m]
  return e, ok
}

// Models returns every model the package can decode, table models first.
func Models() []Model {
  seen := make(map[Model]bool)
  var out []Model

  for _, r := range table {
    if !seen[r.entry.Model] {
      seen[r.entry.Model] = true
      out = append(out, r.entry.Model)
    }
  }

  hinted := maps.Keys(hintOnly)
  slices.Sort(hinted)

  return append(out, hinted...)
}
