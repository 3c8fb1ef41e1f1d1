package metrics

import (
  "encoding/json"
  "fmt"
  "time"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/robertof/go-switchbot-exporter/device"
  "github.com/rs/zerolog/log"
  "golang.org/x/exp/maps"
  "golang.org/x/exp/slices"
)

var (
  descRSSI = prometheus.NewDesc(
    "switchbot_rssi_dbm",
    "Signal strength of the last advertisement received from the device.",
    []string{"name"},
    nil,
  )

  descInfo = prometheus.NewDesc(
    "switchbot_info",
    "Model reported by the device. Always 1.",
    []string{"name", "address", "model", "friendly_name"},
    nil,
  )

  descAttribute = prometheus.NewDesc(
    "switchbot_attribute",
    "Numeric and boolean attributes decoded from the device advertisement.",
    []string{"name", "model", "attribute"},
    nil,
  )
)

type CollectFunc func() (map[device.Device]device.Reading, time.Time)

type collector struct {
  CollectFunc
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
  prometheus.DescribeByCollect(c, ch)
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
  out, ts := c.CollectFunc()

  if out == nil {
    panic("collector got empty data!")
  }

  for device, reading := range out {
    rssi := prometheus.MustNewConstMetric(
      descRSSI,
      prometheus.GaugeValue,
      float64(reading.RSSI),
      device.Name(),
    )

    ch <- prometheus.NewMetricWithTimestamp(ts, rssi)

    info := prometheus.MustNewConstMetric(
      descInfo,
      prometheus.GaugeValue,
      1,
      device.Name(),
      reading.Address,
      reading.ModelName,
      reading.FriendlyName,
    )

    ch <- prometheus.NewMetricWithTimestamp(ts, info)

    attrs, err := Flatten(reading.Attributes)

    if err != nil {
      log.Warn().
        Stringer("Device", device).
        Err(err).
        Msg("metrics: cannot flatten attributes")

      continue
    }

    keys := maps.Keys(attrs)
    slices.Sort(keys)

    for _, key := range keys {
      attr := prometheus.MustNewConstMetric(
        descAttribute,
        prometheus.GaugeValue,
        attrs[key],
        device.Name(),
        reading.ModelName,
        key,
      )

      ch <- prometheus.NewMetricWithTimestamp(ts, attr)
    }
  }
}

// Flatten turns the JSON encoding of attrs into numeric series. Nested objects
// are joined with "_", booleans become 0 or 1, strings and nulls are skipped.
func Flatten(attrs any) (map[string]float64, error) {
  encoded, err := json.Marshal(attrs)

  if err != nil {
    return nil, fmt.Errorf("failed to encode attributes: %w", err)
  }

  var decoded any

  if err := json.Unmarshal(encoded, &decoded); err != nil {
    return nil, fmt.Errorf("failed to decode attributes: %w", err)
  }

  out := make(map[string]float64)
  flatten(out, "", decoded)

  return out, nil
}

func flatten(out map[string]float64, prefix string, v any) {
  switch v := v.(type) {
  case map[string]any:
    for k, child := range v {
      if prefix != "" {
        k = prefix + "_" + k
      }

      flatten(out, k, child)
    }
  case float64:
    out[prefix] = v
  case bool:
    if v {
      out[prefix] = 1
    } else {
      out[prefix] = 0
    }
  }
}

func RegisterCollector(f CollectFunc, reg prometheus.Registerer) {
  c := &collector{f}

  reg.MustRegister(c)
}
