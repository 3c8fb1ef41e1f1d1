package switchbot_test

import (
  "reflect"
  "testing"

  "github.com/robertof/go-switchbot-exporter/device/switchbot"
)

func TestFilterByModel(t *testing.T) {
  advertisement := func(model switchbot.Model) *switchbot.Advertisement {
    return &switchbot.Advertisement{Data: &switchbot.AdvertisementData{ModelName: model}}
  }

  advs := map[string]*switchbot.Advertisement{
    "curtain": advertisement(switchbot.ModelCurtain),
    "lock": advertisement(switchbot.ModelLockPro),
    "meter": advertisement(switchbot.ModelMeter),
    "hub": advertisement(switchbot.ModelHub3),
    "undecoded": {Data: &switchbot.AdvertisementData{Model: "Z"}},
    "nil": nil,
  }

  tests := []struct {
    name string
    filter func(map[string]*switchbot.Advertisement) map[string]*switchbot.Advertisement
    want []string
  }{
    {"curtains", switchbot.Curtains, []string{"curtain"}},
    {"bots", switchbot.Bots, nil},
    {"locks", switchbot.Locks, []string{"lock"}},
    {"meters", switchbot.Meters, []string{"meter", "hub"}},
  }

  for _, test := range tests {
    t.Run(test.name, func(t *testing.T) {
      want := make(map[string]*switchbot.Advertisement)

      for _, key := range test.want {
        want[key] = advs[key]
      }

      if got := test.filter(advs); !reflect.DeepEqual(got, want) {
        t.Fatalf("%s(): got %+#v, wanted %+#v", test.name, got, want)
      }
    })
  }
}
