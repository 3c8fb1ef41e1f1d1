package switchbot_test

import (
  "testing"

  "github.com/robertof/go-switchbot-exporter/device/switchbot"
)

func TestDiscriminatorForModel_RoundTrip(t *testing.T) {
  for _, model := range switchbot.Models() {
    d, ok := switchbot.DiscriminatorForModel(model)

    if !ok {
      if _, hinted := switchbot.HintOnlyParser(model); !hinted {
        t.Fatalf("DiscriminatorForModel(%v): model is neither in the table nor hint-only", model)
      }

      continue
    }

    entry, ok := switchbot.Lookup(d)

    if !ok || entry.Model != model {
      t.Fatalf("Lookup(DiscriminatorForModel(%v)): got %+v, wanted model %v", model, entry, model)
    }
  }
}

func TestDiscriminators(t *testing.T) {
  seen := make(map[switchbot.Discriminator]bool)

  for _, d := range switchbot.Discriminators() {
    if seen[d] {
      t.Fatalf("Discriminators(): %v listed twice", d)
    }

    seen[d] = true

    if len(d) != 1 && !d.IsLong() {
      t.Fatalf("Discriminators(): %v has length %d", d, len(d))
    }

    entry, ok := switchbot.Lookup(d)

    if !ok || entry.Parse == nil || entry.FriendlyName == "" {
      t.Fatalf("Lookup(%v): got %+v, wanted a complete entry", d, entry)
    }
  }
}

func TestDiscriminatorForModel_LastRowWins(t *testing.T) {
  tests := map[switchbot.Model]switchbot.Discriminator{
    switchbot.ModelCurtain: "c",
    switchbot.ModelMeter: "T",
    switchbot.ModelPlugMini: "j",
    switchbot.ModelCeilingLight: "n",
    switchbot.ModelAirPurifier: "+",
    switchbot.ModelAirPurifierTable: "8",
    switchbot.ModelHub3: "\x00\x10\xb9\x40",
  }

  for model, want := range tests {
    if got, _ := switchbot.DiscriminatorForModel(model); got != want {
      t.Fatalf("DiscriminatorForModel(%v): got %v, wanted %v", model, got, want)
    }
  }
}

func TestCandidatesForManufacturer(t *testing.T) {
  candidates := switchbot.CandidatesForManufacturer(switchbot.ManufacturerIDEspressif)

  if len(candidates) != 1 || candidates[0].Discriminator != "e" || candidates[0].ManufacturerDataLength != 6 {
    t.Fatalf("CandidatesForManufacturer(%d): got %+v, wanted the humidifier only",
      switchbot.ManufacturerIDEspressif, candidates)
  }

  for _, c := range switchbot.CandidatesForManufacturer(switchbot.ManufacturerIDNordic) {
    if c.ManufacturerID != switchbot.ManufacturerIDNordic {
      t.Fatalf("CandidatesForManufacturer(%d): got %+v", switchbot.ManufacturerIDNordic, c)
    }
  }

  if got := switchbot.CandidatesForManufacturer(2403); len(got) != 0 {
    t.Fatalf("CandidatesForManufacturer(2403): got %+v, wanted none", got)
  }
}

func TestDiscriminator_String(t *testing.T) {
  tests := map[switchbot.Discriminator]string{
    "c": "c",
    "\x00": `"\x00"`,
    "\x00\x10\xb9\x40": "0x0010b940",
  }

  for d, want := range tests {
    if got := d.String(); got != want {
      t.Fatalf("Discriminator(%q).String(): got %q, wanted %q", string(d), got, want)
    }
  }
}
