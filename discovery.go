package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robertof/go-switchbot-exporter/ble"
	"github.com/robertof/go-switchbot-exporter/device/switchbot"
)

func doDeviceDiscovery(cfg config) {
  log.Info().Msg("Starting in device discovery mode - collecting devices for 5 seconds...")

  handle, err := ble.InitWithScanParams(cfg.BluetoothDeviceId, cfg.BluetoothScanParams, ble.FlagScanTypeActive)

  if err != nil {
    log.Fatal().Err(err).Msg("Failed to initialize Bluetooth device")
  }

  ctx := ble.WrapContextWithSigHandler(
    context.WithTimeout(
      context.Background(),
      5 * time.Second,
    ),
  )

  resolver := switchbotFactory.Resolver

  var mu sync.Mutex
  devices := make(map[string]*switchbot.Advertisement)

  err = handle.ScanAll(ctx, func(a ble.Advertisement) {
    adv := resolver.ParseAdvertisementData(switchbot.FromBLE(a), "")

    if adv == nil {
      return
    }

    log.Debug().
      Str("Addr", adv.Address).
      Str("Name", a.LocalName()).
      Stringer("Model", adv.Data.Model).
      Bool("Active", adv.Active).
      Hex("ServiceData", adv.Data.RawAdvData).
      Hex("ManufacturerData", a.ManufacturerData()).
      Msg("Received SwitchBot advertisement")

    mu.Lock()
    defer mu.Unlock()

    // keep decoded data around when a later advertisement can't be decoded.
    if prev, ok := devices[adv.Address]; ok && prev.Data.Decoded() && !adv.Data.Decoded() {
      return
    }

    devices[adv.Address] = adv
  })

  if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
    log.Fatal().Err(err).Msg("Failed to initiate scan")
  }

  mu.Lock()
  defer mu.Unlock()

  log.Info().
    Int("Found", len(devices)).
    Int("Curtains", len(switchbot.Curtains(devices))).
    Int("Bots", len(switchbot.Bots(devices))).
    Int("Locks", len(switchbot.Locks(devices))).
    Int("Meters", len(switchbot.Meters(devices))).
    Msg("Finished device discovery")

  addrs := maps.Keys(devices)
  slices.Sort(addrs)

  for _, addr := range addrs {
    adv := devices[addr]

    log.Info().
      Str("Addr", addr).
      Str("Model", string(adv.Data.ModelName)).
      Str("FriendlyName", adv.Data.ModelFriendlyName).
      Int("RSSI", adv.RSSI).
      Bool("Encrypted", adv.Data.IsEncrypted).
      Stringer("Advertisement", adv).
      Msg("Found device")
  }
}
