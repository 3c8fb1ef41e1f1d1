package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertof/go-switchbot-exporter/ble"
	"github.com/robertof/go-switchbot-exporter/collector"
	"github.com/robertof/go-switchbot-exporter/collector/model"
	"github.com/robertof/go-switchbot-exporter/device"
	"github.com/robertof/go-switchbot-exporter/device/switchbot"
	"github.com/robertof/go-switchbot-exporter/metrics"
	"github.com/robertof/go-switchbot-exporter/publisher/mqtt"
	"github.com/robertof/go-switchbot-exporter/stream"
	"github.com/robertof/go-switchbot-exporter/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
  zerolog.DurationFieldUnit = time.Second
  zerolog.TimeFieldFormat = time.RFC3339Nano

  log.Logger = log.Output(zerolog.ConsoleWriter{
    Out: os.Stderr,
    TimeFormat: "15:04:05.000",
  })

  cfg := ParseArgs()

  if cfg.Trace || os.Getenv("TRACE") != "" {
      zerolog.SetGlobalLevel(zerolog.TraceLevel)
  } else if cfg.Debug || os.Getenv("DEBUG") != "" {
      zerolog.SetGlobalLevel(zerolog.DebugLevel)
  } else {
      zerolog.SetGlobalLevel(zerolog.InfoLevel)
  }

  if cfg.DiscoverDevices {
    doDeviceDiscovery(cfg)
    return
  }

  log.Info().
    Str("BindAddr", cfg.BindAddress).
    Array("Devices", utils.ToZeroLogArray(cfg.Devices)).
    Int("BluetoothDeviceID", cfg.BluetoothDeviceId).
    Msg("Starting with the specified configuration")

  bleHandle := initBle(cfg)
  initialReadings := collectInitialReadings(cfg, bleHandle)

  coll := collector.NewRecurring(bleHandle, cfg.Devices)
  coll.IdleTimeout = cfg.CollectionIdleTimeout
  coll.StaleAfter = cfg.StaleAfter
  coll.Update(initialReadings)

  registry := prometheus.NewRegistry()

  if cfg.EnableMetamonitoring {
    registry.MustRegister(
      collectors.NewGoCollector(),
      collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
    )
    ble.RegisterMetrics(registry)

    if err := switchbot.RegisterMetrics(registry); err != nil {
      log.Fatal().Err(err).Msg("Failed to register resolver metrics")
    }
  }

  ctx := context.Background()

  if cfg.MQTT.Broker != "" {
    publisher := initMQTT(ctx, cfg)
    defer publisher.Disconnect()

    coll.AddOutlet(publisher)
  }

  if cfg.Stream {
    hub := stream.NewHub()
    defer hub.Close()

    coll.AddOutlet(hub)
    http.Handle("/stream", hub)

    log.Info().Msg("Streaming readings on /stream")
  }

  metrics.RegisterCollector(
    func() (map[device.Device]device.Reading, time.Time) {
      // no way to get the HTTP request context from the collector unfortunately :(
      return coll.WaitLatest(context.Background())
    },
    registry,
  )

  go coll.Start(
    ctx,
    cfg.CollectionInterval,
    collector.CollectionOptions{
      TimeoutPerAttempt: cfg.CollectionTimeout,
      MaxRetries: cfg.MaxRetries,
      BackoffFactor: cfg.Backoff,
    },
  )

  log.Info().
      Str("ListenAddress", cfg.BindAddress).
      Msg("Starting Prometheus server")

  http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

  if err := http.ListenAndServe(cfg.BindAddress, nil); err != nil {
      log.Fatal().Err(err).Msg("Unable to bind on requested address")
  }
}

func initMQTT(ctx context.Context, cfg config) *mqtt.Publisher {
  publisher := mqtt.New(mqtt.Options{
    Broker: cfg.MQTT.Broker,
    ClientID: cfg.MQTT.ClientID,
    Topic: cfg.MQTT.Topic,
    Encoding: cfg.MQTT.Encoding,
  })

  connectCtx, cancel := context.WithTimeout(ctx, 30 * time.Second)
  defer cancel()

  if err := publisher.Connect(connectCtx); err != nil {
    log.Fatal().Err(err).Str("Broker", cfg.MQTT.Broker).Msg("Failed to connect to MQTT broker")
  }

  log.Info().
    Str("Broker", cfg.MQTT.Broker).
    Str("Topic", cfg.MQTT.Topic).
    Stringer("Encoding", &cfg.MQTT.Encoding).
    Msg("Publishing readings to MQTT")

  return publisher
}

func initBle(cfg config) *ble.Handle {
  var bleFlags ble.Flags = ble.FlagEnableDeviceAllowList
  deviceAddresses := make([]net.HardwareAddr, len(cfg.Devices))

  for i, dev := range cfg.Devices {
    deviceAddresses[i] = dev.Addr()

    if dev.Flags() & device.FlagRequiresBleActiveScan == device.FlagRequiresBleActiveScan {
      bleFlags |= ble.FlagScanTypeActive
    }
  }

  bleHandle, err := ble.InitWithScanParams(cfg.BluetoothDeviceId, cfg.BluetoothScanParams, bleFlags)

  if err != nil {
    log.Fatal().Err(err).Msg("Failed to initialize Bluetooth device")
  }

  err = bleHandle.SetAllowListedAddresses(deviceAddresses)

  if err != nil {
    log.Error().Err(err).Msg("Failed to set device allow list")
  }

  return bleHandle
}

func collectInitialReadings(cfg config, bleHandle *ble.Handle) (res map[device.Device]device.Reading) {
  log.Info().
    Dur("TimeoutSec", cfg.InitialCollectionTimeout).
    Msg("Running initial collection for the provided devices")

  readings, err := collector.CollectReadingsWithOptions(
    bleHandle,
    context.Background(),
    cfg.Devices,
    collector.CollectionOptions{
      TimeoutPerAttempt: cfg.InitialCollectionTimeout,
      MaxRetries: cfg.MaxRetries,
      BackoffFactor: cfg.Backoff,
    },
  )

  if err != nil {
    log.Fatal().
      Err(err).
      Str("Readings", fmt.Sprintf("%v", readings)).
      Msg("Failed to collect initial readings")
  }

  res, failures := model.Split(readings)

  for device, reading := range res {
    log.Info().
      Stringer("Device", device).
      Stringer("Reading", reading).
      Msg("Successfully collected reading for device")
  }

  for device, err := range failures {
    log.Error().
      Stringer("Device", device).
      Err(err).
      Msg("Failed to collect reading for device")
  }

  hasError := len(failures) > 0 || len(res) < len(cfg.Devices)

  if hasError {
    log.Fatal().Msg("Reading for at least one device failed, refusing to start")
  }

  return res
}
