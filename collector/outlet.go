package collector

import (
	"context"

	"github.com/robertof/go-switchbot-exporter/device"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Outlet receives every reading collected by Recurring.
type Outlet interface {
  Publish(ctx context.Context, dev device.Device, r device.Reading) error
}

// OutletFunc adapts a function to the Outlet interface.
type OutletFunc func(ctx context.Context, dev device.Device, r device.Reading) error

func (f OutletFunc) Publish(ctx context.Context, dev device.Device, r device.Reading) error {
  return f(ctx, dev, r)
}

const maxConcurrentPublishes = 4

// publishAll hands every reading to every outlet. Failures are logged and
// don't stop the other deliveries.
func publishAll(ctx context.Context, outlets []Outlet, readings map[device.Device]device.Reading) {
  if len(outlets) == 0 {
    return
  }

  var eg errgroup.Group
  eg.SetLimit(maxConcurrentPublishes)

  for dev, reading := range readings {
    for _, outlet := range outlets {
      dev, reading, outlet := dev, reading, outlet
      eg.Go(func() error {
        if err := outlet.Publish(ctx, dev, reading); err != nil {
          log.Warn().
            Stringer("Device", dev).
            Err(err).
            Msg("Failed to publish reading")
        }

        return nil
      })
    }
  }

  eg.Wait()
}
