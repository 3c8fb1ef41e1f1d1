package switchbot

import "golang.org/x/exp/slices"

// FilterByModel returns the advertisements, keyed by address, whose decoded
// model is one of models.
func FilterByModel(advs map[string]*Advertisement, models ...Model) map[string]*Advertisement {
  out := make(map[string]*Advertisement)

  for addr, adv := range advs {
    if adv == nil || adv.Data == nil {
      continue
    }

    if slices.Contains(models, adv.Data.ModelName) {
      out[addr] = adv
    }
  }

  return out
}

func Curtains(advs map[string]*Advertisement) map[string]*Advertisement {
  return FilterByModel(advs, ModelCurtain)
}

func Bots(advs map[string]*Advertisement) map[string]*Advertisement {
  return FilterByModel(advs, ModelBot)
}

func Locks(advs map[string]*Advertisement) map[string]*Advertisement {
  return FilterByModel(advs, ModelLock, ModelLockLite, ModelLockPro, ModelLockUltra)
}

func BlindTilts(advs map[string]*Advertisement) map[string]*Advertisement {
  return FilterByModel(advs, ModelBlindTilt)
}

// Meters returns every temperature reporting device.
func Meters(advs map[string]*Advertisement) map[string]*Advertisement {
  return FilterByModel(advs, ModelMeter, ModelIOMeter, ModelMeterPro, ModelMeterProCO2,
    ModelHub2, ModelHub3, ModelHubMiniMatter)
}
