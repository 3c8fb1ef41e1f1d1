package model

import (
	"fmt"

	"github.com/robertof/go-switchbot-exporter/device"
)

type Result struct {
  Reading device.Reading
  Error error
}

func (c Result) String() string {
  if c.Error != nil {
    return fmt.Sprintf("result:error(%v)", c.Error)
  } else {
    return fmt.Sprintf("result:success(%v)", c.Reading)
  }
}

type DeviceResult struct {
	device.Device
	Result
}

// Split separates successful readings from failures.
func Split(results map[device.Device]Result) (
  readings map[device.Device]device.Reading,
  failures map[device.Device]error,
) {
  readings = make(map[device.Device]device.Reading)
  failures = make(map[device.Device]error)

  for dev, res := range results {
    if res.Error != nil {
      failures[dev] = res.Error
    } else {
      readings[dev] = res.Reading
    }
  }

  return readings, failures
}
