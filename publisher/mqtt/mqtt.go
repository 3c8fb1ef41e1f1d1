// Package mqtt publishes readings to an MQTT broker.
package mqtt

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "strings"
  "sync"
  "time"

  paho "github.com/eclipse/paho.mqtt.golang"
  "github.com/fxamacker/cbor/v2"
  "github.com/robertof/go-switchbot-exporter/device"
  "github.com/rs/zerolog/log"
)

var (
  ErrNotConnected = errors.New("mqtt client not connected")
  ErrStopped = errors.New("mqtt client stopped")
)

type Encoding string

const (
  EncodingJSON Encoding = "json"
  EncodingCBOR Encoding = "cbor"
)

// *flag.Value
func (e *Encoding) String() string {
  return string(*e)
}

func (e *Encoding) Set(v string) error {
  switch Encoding(v) {
  case "", EncodingJSON:
    *e = EncodingJSON
  case EncodingCBOR:
    *e = EncodingCBOR
  default:
    return fmt.Errorf("unknown encoding %q (must be one of json, cbor)", v)
  }

  return nil
}

const publishTimeout = 5 * time.Second

type Options struct {
  Broker string
  ClientID string
  // Readings are published to <Topic>/<address without colons>.
  Topic string
  Encoding Encoding
}

// Message is the payload published for every reading.
type Message struct {
  Name string `json:"name" cbor:"name"`
  device.Reading
}

type Publisher struct {
  client paho.Client
  opts Options

  mu sync.RWMutex
  connected bool

  stopCh chan struct{}
  stopOnce sync.Once
}

func New(opts Options) *Publisher {
  p := &Publisher{
    opts: opts,
    stopCh: make(chan struct{}),
  }

  if p.opts.Encoding == "" {
    p.opts.Encoding = EncodingJSON
  }

  clientOpts := paho.NewClientOptions()
  clientOpts.AddBroker(opts.Broker)
  clientOpts.SetClientID(opts.ClientID)
  clientOpts.SetCleanSession(true)

  clientOpts.SetAutoReconnect(true)
  clientOpts.SetConnectRetry(true)
  clientOpts.SetConnectRetryInterval(5 * time.Second)
  clientOpts.SetMaxReconnectInterval(60 * time.Second)

  clientOpts.SetKeepAlive(30 * time.Second)
  clientOpts.SetPingTimeout(10 * time.Second)

  clientOpts.SetOnConnectHandler(func(_ paho.Client) {
    p.setConnected(true)
    log.Info().Str("Broker", opts.Broker).Msg("mqtt: connected")
  })

  clientOpts.SetConnectionLostHandler(func(_ paho.Client, err error) {
    p.setConnected(false)
    log.Warn().Err(err).Str("Broker", opts.Broker).Msg("mqtt: connection lost")
  })

  p.client = paho.NewClient(clientOpts)

  return p
}

// Connect waits for the initial connection to the broker.
func (p *Publisher) Connect(ctx context.Context) error {
  select {
  case <-p.stopCh:
    return ErrStopped
  default:
  }

  if p.IsConnected() {
    return nil
  }

  token := p.client.Connect()

  const poll = 200 * time.Millisecond

  for {
    if token.WaitTimeout(poll) {
      if err := token.Error(); err != nil {
        return fmt.Errorf("mqtt connect: %w", err)
      }

      return nil
    }

    select {
    case <-ctx.Done():
      return ctx.Err()
    case <-p.stopCh:
      return ErrStopped
    default:
    }
  }
}

// Topic returns the topic readings from addr are published to.
func (p *Publisher) Topic(addr string) string {
  return strings.TrimSuffix(p.opts.Topic, "/") + "/" + strings.ToLower(strings.ReplaceAll(addr, ":", ""))
}

func (p *Publisher) Encode(m Message) ([]byte, error) {
  switch p.opts.Encoding {
  case EncodingCBOR:
    return cbor.Marshal(m)
  default:
    return json.Marshal(m)
  }
}

func (p *Publisher) Publish(ctx context.Context, dev device.Device, r device.Reading) error {
  if !p.IsConnected() {
    return ErrNotConnected
  }

  data, err := p.Encode(Message{Name: dev.Name(), Reading: r})

  if err != nil {
    return fmt.Errorf("failed to encode reading: %w", err)
  }

  topic := p.Topic(r.Address)
  token := p.client.Publish(topic, 1, false, data)

  select {
  case <-token.Done():
  case <-ctx.Done():
    return ctx.Err()
  case <-time.After(publishTimeout):
    return fmt.Errorf("publish timeout for topic %s", topic)
  }

  if err := token.Error(); err != nil {
    return fmt.Errorf("publish to %s: %w", topic, err)
  }

  log.Trace().
    Str("Topic", topic).
    Stringer("Device", dev).
    Msg("mqtt: published reading")

  return nil
}

func (p *Publisher) IsConnected() bool {
  p.mu.RLock()
  connected := p.connected
  p.mu.RUnlock()

  return connected && p.client.IsConnected()
}

// Disconnect stops the publisher. Safe to call multiple times.
func (p *Publisher) Disconnect() {
  p.stopOnce.Do(func() { close(p.stopCh) })

  p.client.Disconnect(250)
  p.setConnected(false)

  log.Info().Msg("mqtt: disconnected")
}

func (p *Publisher) setConnected(v bool) {
  p.mu.Lock()
  p.connected = v
  p.mu.Unlock()
}
