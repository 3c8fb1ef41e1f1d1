package collector

import (
	"context"
	"time"

	"github.com/robertof/go-switchbot-exporter/ble"
	"github.com/robertof/go-switchbot-exporter/collector/model"
	"github.com/robertof/go-switchbot-exporter/device"
	"github.com/robertof/go-switchbot-exporter/device/switchbot"
	"github.com/robertof/go-switchbot-exporter/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
  DefaultMaxRetries = 2
  DefaultTimeoutPerAttempt = 5 * time.Second
  DefaultBackoffFactor = 500 * time.Millisecond
)

type CollectionOptions struct {
  MaxRetries int
  TimeoutPerAttempt time.Duration
  BackoffFactor time.Duration

  attempt int
}

// Backoff returns the delay before the given retry attempt.
func (o CollectionOptions) Backoff(attempt int) time.Duration {
  backoff := o.BackoffFactor << int64(attempt)

  if backoff < 0 {
    backoff = DefaultBackoffFactor
  }

  return backoff
}

// isPermanent reports whether retrying the collection can't fix err.
func isPermanent(err error) bool {
  return utils.ErrorIsAnyOf(err, device.ErrUnknownModel, switchbot.ErrUnknownModel)
}

func CollectReadings(
  handle *ble.Handle,
  ctx context.Context,
  devices []device.Device,
) (out map[device.Device]model.Result, err error) {
  return CollectReadingsWithOptions(
    handle,
    ctx,
    devices,
    CollectionOptions{
      MaxRetries: DefaultMaxRetries,
      TimeoutPerAttempt: DefaultTimeoutPerAttempt,
    },
  )
}

// Collect readings from the specified devices and don't stop until either all advertisements
// have been parsed successfully or the context timeout (if any) expires.
func CollectReadingsWithOptions(
  handle *ble.Handle,
  parentCtx context.Context,
  devices []device.Device,
  options CollectionOptions,
) (out map[device.Device]model.Result, err error) {
  out = make(map[device.Device]model.Result, len(devices))

  log.Debug().
    Array("Devices", utils.ToZeroLogArray(devices)).
    Msg("Collecting readings from devices")

  // make sure signals are properly handled and we enforce the passed timeout.
  var ctx context.Context
  var cancel func()

  if options.TimeoutPerAttempt > 0 {
    ctx, cancel = context.WithTimeout(parentCtx, options.TimeoutPerAttempt)
  } else {
    ctx, cancel = context.WithCancel(parentCtx)
  }

  defer cancel()

  var eg errgroup.Group
  resultCh := make(chan model.DeviceResult)

  if len(devices) > 0 {
    eg.Go(func() error {
      return collectViaScan(ctx, handle, devices, resultCh)
    })
  }

  go func() {
    err = eg.Wait()
    close(resultCh)
  }()

  for v := range resultCh {
    log.Trace().
      Stringer("Device", v.Device).
      Stringer("Result", v.Result).
      Msg("Received result for device")

    out[v.Device] = v.Result
  }

  // analyze results, and retry if needed
  if options.MaxRetries > 0 {
    var failedDevices []device.Device

    for _, device := range devices {
      if result, ok := out[device]; ok && isPermanent(result.Error) {
        log.Warn().
          Stringer("Device", device).
          Err(result.Error).
          Msg("Advertised model does not match the configured one - not retrying")
      } else if ok && result.Error != nil {
        // parsing failed
        failedDevices = append(failedDevices, device)

        log.Debug().
          Stringer("Device", device).
          Int("RetriesLeft", options.MaxRetries).
          Err(result.Error).
          Msg("Collection failed for device - will retry")
      } else if !ok {
        // never got a result for the device
        failedDevices = append(failedDevices, device)

        log.Debug().
          Stringer("Device", device).
          Int("RetriesLeft", options.MaxRetries).
          Err(err).
          Msg("No data received for device (wrong MAC?) - will retry")
      }
    }

    if len(failedDevices) > 0 {
      if options.BackoffFactor > 0 {
        backoff := options.Backoff(options.attempt)

        log.Trace().
          Dur("Backoff", backoff).
          Msg("Backing off before attempting retry")

        select {
        case <-parentCtx.Done():
          log.Trace().Err(parentCtx.Err()).Msg("Retry aborted by context cancel")
          return out, parentCtx.Err()
        case <-time.After(backoff):
        }
      }

      options.MaxRetries -= 1
      options.attempt += 1

      retryOutput, err := CollectReadingsWithOptions(handle, parentCtx, failedDevices, options)

      // merge old and new outputs
      for failedDevice, res := range retryOutput {
        out[failedDevice] = res
      }

      if err != nil {
        return out, err
      }

      return out, nil
    }
  }

  return out, err
}
