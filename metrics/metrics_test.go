package metrics_test

import (
  "reflect"
  "testing"

  "github.com/robertof/go-switchbot-exporter/metrics"
)

type temperature struct {
  C float64 `json:"c"`
  F float64 `json:"f"`
}

type attributes struct {
  Temp temperature `json:"temp"`
  Humidity int `json:"humidity"`
  Fahrenheit bool `json:"fahrenheit"`
  Battery *int `json:"battery"`
  Mode string `json:"mode"`
}

func TestFlatten(t *testing.T) {
  attrs := attributes{
    Temp: temperature{C: 25, F: 77},
    Humidity: 53,
    Fahrenheit: true,
    Mode: "auto",
  }

  got, err := metrics.Flatten(&attrs)

  if err != nil {
    t.Fatalf("Flatten(%+v) got error: %v", attrs, err)
  }

  want := map[string]float64{
    "temp_c": 25,
    "temp_f": 77,
    "humidity": 53,
    "fahrenheit": 1,
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("Flatten(%+v): got %+#v, wanted %+#v", attrs, got, want)
  }
}

func TestFlatten_Nil(t *testing.T) {
  got, err := metrics.Flatten(nil)

  if err != nil || len(got) != 0 {
    t.Fatalf("Flatten(nil): got (%+#v, %v), wanted no series", got, err)
  }
}
