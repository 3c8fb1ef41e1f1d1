package device

import (
  "encoding/json"
  "fmt"
  "time"
)

// Reading is a decoded advertisement received from a device.
type Reading struct {
  Address string `json:"address"`
  RSSI int `json:"rssi"`
  // The advertisement carried service data, i.e. it answered an active scan.
  Active bool `json:"active"`
  Encrypted bool `json:"isEncrypted"`

  Model string `json:"model"`
  ModelName string `json:"modelName"`
  FriendlyName string `json:"modelFriendlyName"`

  // Model specific attributes. Always JSON encodable.
  Attributes any `json:"data"`

  Time time.Time `json:"time"`
}

func (r Reading) String() string {
  attrs, err := json.Marshal(r.Attributes)

  if err != nil {
    attrs = []byte(fmt.Sprintf("<%v>", err))
  }

  return fmt.Sprintf("Reading[Model=%v,RSSI=%d,Active=%v,Data=%s]",
    r.ModelName, r.RSSI, r.Active, attrs)
}
