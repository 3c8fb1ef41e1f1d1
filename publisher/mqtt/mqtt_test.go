package mqtt_test

import (
  "context"
  "encoding/json"
  "errors"
  "testing"

  "github.com/fxamacker/cbor/v2"
  "github.com/robertof/go-switchbot-exporter/device"
  "github.com/robertof/go-switchbot-exporter/publisher/mqtt"
)

func TestPublisher_Topic(t *testing.T) {
  p := mqtt.New(mqtt.Options{Broker: "tcp://127.0.0.1:1883", Topic: "switchbot/"})

  got := p.Topic("AA:BB:CC:DD:EE:FF")

  if got != "switchbot/aabbccddeeff" {
    t.Fatalf("Topic(AA:BB:CC:DD:EE:FF): got %q, wanted %q", got, "switchbot/aabbccddeeff")
  }
}

func TestPublisher_Encode(t *testing.T) {
  msg := mqtt.Message{
    Name: "curtain",
    Reading: device.Reading{
      Address: "AA:BB:CC:DD:EE:FF",
      RSSI: -70,
      ModelName: "WoCurtain",
      Attributes: map[string]int{"position": 100},
    },
  }

  for _, encoding := range []mqtt.Encoding{mqtt.EncodingJSON, mqtt.EncodingCBOR} {
    p := mqtt.New(mqtt.Options{Broker: "tcp://127.0.0.1:1883", Encoding: encoding})

    data, err := p.Encode(msg)

    if err != nil {
      t.Fatalf("Encode(%+v) as %v got error: %v", msg, encoding, err)
    }

    var decoded map[string]any

    if encoding == mqtt.EncodingCBOR {
      err = cbor.Unmarshal(data, &decoded)
    } else {
      err = json.Unmarshal(data, &decoded)
    }

    if err != nil {
      t.Fatalf("Encode(%+v) as %v produced undecodable data: %v", msg, encoding, err)
    }

    if decoded["name"] != "curtain" || decoded["address"] != "AA:BB:CC:DD:EE:FF" || decoded["modelName"] != "WoCurtain" {
      t.Fatalf("Encode(%+v) as %v: got %+#v", msg, encoding, decoded)
    }
  }
}

func TestEncoding_Set(t *testing.T) {
  var e mqtt.Encoding

  if err := e.Set(""); err != nil || e != mqtt.EncodingJSON {
    t.Fatalf("Set(\"\"): got (%v, %v), wanted %v", e, err, mqtt.EncodingJSON)
  }

  if err := e.Set("cbor"); err != nil || e != mqtt.EncodingCBOR {
    t.Fatalf("Set(cbor): got (%v, %v), wanted %v", e, err, mqtt.EncodingCBOR)
  }

  if err := e.Set("xml"); err == nil {
    t.Fatalf("Set(xml): got no error")
  }
}

func TestPublisher_PublishNotConnected(t *testing.T) {
  p := mqtt.New(mqtt.Options{Broker: "tcp://127.0.0.1:1883"})

  err := p.Publish(context.Background(), nil, device.Reading{})

  if !errors.Is(err, mqtt.ErrNotConnected) {
    t.Fatalf("Publish(): got error %v, wanted %v", err, mqtt.ErrNotConnected)
  }
}
