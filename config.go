package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robertof/go-switchbot-exporter/ble"
	"github.com/robertof/go-switchbot-exporter/collector"
	"github.com/robertof/go-switchbot-exporter/device"
	"github.com/robertof/go-switchbot-exporter/device/switchbot"
	"github.com/robertof/go-switchbot-exporter/publisher/mqtt"
)

type config struct {
  Debug, Trace bool
  BindAddress string
  EnableMetamonitoring bool
  DiscoverDevices bool
  BluetoothDeviceId int
  BluetoothScanParams ble.ScanParams
  MaxRetries int
  InitialCollectionTimeout, CollectionTimeout time.Duration
  CollectionInterval, CollectionIdleTimeout time.Duration
  StaleAfter time.Duration
  Backoff time.Duration
  CacheSize int
  MQTT mqttConfig
  Stream bool
  Devices []device.Device
}

type mqttConfig struct {
  Broker string
  Topic string
  ClientID string
  Encoding mqtt.Encoding
}

type boundDeviceList struct {
  factories device.Factories
  name string
  list *[]device.Device
}

// The resolver is shared by every configured device, its size is only known
// once flags are parsed.
var switchbotFactory = &switchbot.Factory{}

var deviceFactories = device.Factories{
  "switchbot": switchbotFactory,
}

func (d *boundDeviceList) String() string {
  return ""
}

func (d *boundDeviceList) Set(v string) error {
  device, err := d.factories.Build(d.name, v)
  if err != nil {
    return err
  }

  *d.list = append(*d.list, device)

  return nil
}

// rawDeviceSpecs defers device creation until every other flag is parsed.
type rawDeviceSpecs struct {
  specs *[]string
}

func (r rawDeviceSpecs) String() string {
  return ""
}

func (r rawDeviceSpecs) Set(v string) error {
  *r.specs = append(*r.specs, v)
  return nil
}

func ParseArgs() config {
  var cfg config
  var specs = make(map[string]*[]string)

  cfg.BluetoothScanParams = ble.ScanParamsDefault
  cfg.MQTT.Encoding = mqtt.EncodingJSON

  flag.StringVar(&cfg.BindAddress,"bind", "localhost:9102", "Where the exporter will bind to")
  flag.IntVar(&cfg.BluetoothDeviceId, "bluetooth-device", 0, "Bluetooth (HCI) device ID")
  flag.Var(&cfg.BluetoothScanParams, "bluetooth-scan-params", "Bluetooth scan parameters (one of 'default' or 'low-duty')")
  flag.BoolVar(&cfg.DiscoverDevices, "discover", false, "Discover available SwitchBot devices and quit")
  flag.BoolVar(&cfg.EnableMetamonitoring, "metamonitoring", true, "Enable metamonitoring metrics")
  flag.IntVar(&cfg.MaxRetries, "max-retries", collector.DefaultMaxRetries, "Max number of retries")
  flag.DurationVar(&cfg.InitialCollectionTimeout, "initial-timeout", 10 * time.Second,
    "Timeout for the collection done on start (per retry attempt)")
  flag.DurationVar(&cfg.CollectionTimeout, "timeout", collector.DefaultTimeoutPerAttempt,
    "Timeout for the periodic collections (per retry attempt)")
  flag.DurationVar(&cfg.CollectionInterval, "interval", 60 * time.Second,
    "How frequently data collection happens")
  flag.DurationVar(&cfg.CollectionIdleTimeout, "idle-timeout", -1,
    "Timeout after which the collector is shut down if no data is read. Defaults to 3 * CollectionInterval")
  flag.DurationVar(&cfg.StaleAfter, "stale-after", -1,
    "Age after which the reading of a silent device is dropped. Defaults to 5 * CollectionInterval, 0 keeps it forever")
  flag.DurationVar(&cfg.Backoff, "backoff", collector.DefaultBackoffFactor,
    "Exponential backoff factor for retries")
  flag.IntVar(&cfg.CacheSize, "cache-size", switchbot.DefaultCacheSize,
    "Number of decoded advertisements kept in memory")
  flag.StringVar(&cfg.MQTT.Broker, "mqtt-broker", "",
    "MQTT broker URL (e.g. tcp://localhost:1883). Publishing is disabled when empty")
  flag.StringVar(&cfg.MQTT.Topic, "mqtt-topic", "switchbot", "MQTT topic prefix")
  flag.StringVar(&cfg.MQTT.ClientID, "mqtt-client-id", "switchbot-exporter", "MQTT client ID")
  flag.Var(&cfg.MQTT.Encoding, "mqtt-encoding", "MQTT payload encoding (one of 'json' or 'cbor')")
  flag.BoolVar(&cfg.Stream, "stream", false, "Stream readings to websocket clients on /stream")
  flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logs")
  flag.BoolVar(&cfg.Trace, "trace", false, "Enable trace logs")

  for deviceName := range deviceFactories {
    list := new([]string)
    specs[deviceName] = list

    flag.Var(rawDeviceSpecs{list}, deviceName, deviceFactories.Usage(deviceName))
  }

  flag.Parse()

  if cfg.CollectionIdleTimeout < 0 {
    cfg.CollectionIdleTimeout = cfg.CollectionInterval * 3
  }

  if cfg.StaleAfter < 0 {
    cfg.StaleAfter = cfg.CollectionInterval * 5
  }

  resolver, err := switchbot.NewResolver(cfg.CacheSize)

  if err != nil {
    fmt.Fprintln(os.Stderr, "Error:", err)
    os.Exit(1)
  }

  switchbotFactory.Resolver = resolver

  for deviceName, list := range specs {
    bound := boundDeviceList{
      factories: deviceFactories,
      name: deviceName,
      list: &cfg.Devices,
    }

    for _, spec := range *list {
      if err := bound.Set(spec); err != nil {
        fmt.Fprintf(os.Stderr, "Error: invalid -%v %q: %v\n", deviceName, spec, err)
        os.Exit(1)
      }
    }
  }

  if !cfg.DiscoverDevices && len(cfg.Devices) == 0 {
    fmt.Fprintln(os.Stderr, "Error: at least one device is required!")
    flag.Usage()
    os.Exit(1)
  }

  return cfg
}
