package stream_test

import (
  "context"
  "encoding/json"
  "net"
  "net/http/httptest"
  "strings"
  "testing"
  "time"

  "github.com/go-ble/ble"
  "github.com/gorilla/websocket"
  "github.com/robertof/go-switchbot-exporter/device"
  "github.com/robertof/go-switchbot-exporter/stream"
)

type fakeDevice struct{}

func (fakeDevice) Name() string { return "kitchen" }
func (fakeDevice) Addr() net.HardwareAddr { return nil }
func (fakeDevice) Flags() device.Flags { return 0 }
func (fakeDevice) String() string { return "fake" }

func (fakeDevice) ParseAdvertisement(ble.Advertisement) (device.Reading, error) {
  return device.Reading{}, nil
}

func TestHub_Publish(t *testing.T) {
  hub := stream.NewHub()
  srv := httptest.NewServer(hub)
  defer srv.Close()
  defer hub.Close()

  conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)

  if err != nil {
    t.Fatalf("Dial(%v) got error: %v", srv.URL, err)
  }

  defer conn.Close()

  deadline := time.Now().Add(5 * time.Second)

  for hub.Clients() == 0 {
    if time.Now().After(deadline) {
      t.Fatalf("Clients(): client never registered")
    }

    time.Sleep(10 * time.Millisecond)
  }

  reading := device.Reading{Address: "AA:BB:CC:DD:EE:FF", ModelName: "WoSensorTH"}

  if err := hub.Publish(context.Background(), fakeDevice{}, reading); err != nil {
    t.Fatalf("Publish(%+v) got error: %v", reading, err)
  }

  conn.SetReadDeadline(deadline)

  var got stream.Event

  if err := conn.ReadJSON(&got); err != nil {
    t.Fatalf("ReadJSON() got error: %v", err)
  }

  if got.Name != "kitchen" || got.Address != reading.Address || got.ModelName != reading.ModelName {
    t.Fatalf("ReadJSON(): got %+#v, wanted the published reading", got)
  }
}

func TestEvent_JSON(t *testing.T) {
  ev := stream.Event{Name: "kitchen", Reading: device.Reading{RSSI: -40}}
  encoded, err := json.Marshal(ev)

  if err != nil {
    t.Fatalf("Marshal(%+v) got error: %v", ev, err)
  }

  if !strings.Contains(string(encoded), `"name":"kitchen"`) || !strings.Contains(string(encoded), `"rssi":-40`) {
    t.Fatalf("Marshal(%+v): got %s", ev, encoded)
  }
}
