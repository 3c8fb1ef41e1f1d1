package switchbot

import (
  "errors"
  "fmt"

  lru "github.com/hashicorp/golang-lru/v2"
  pkgerrors "github.com/pkg/errors"
  "github.com/prometheus/client_golang/prometheus"
  "github.com/rs/zerolog/log"
)

const DefaultCacheSize = 128

var (
  ErrParserPanic = errors.New("parser panicked")
  ErrUnknownModel = errors.New("unknown model")
)

const (
  outcomeDecoded = "decoded"
  outcomeUndecoded = "undecoded"
  outcomeUnrecognized = "unrecognized"
  outcomePanic = "panic"
)

var (
  resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
    Name: "switchbot_resolutions_total",
    Help: "Advertisement resolutions by outcome",
  }, []string{"outcome"})
  cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
    Name: "switchbot_resolver_cache_hits_total",
    Help: "Resolutions answered from the cache",
  })
  parserPanics = prometheus.NewCounter(prometheus.CounterOpts{
    Name: "switchbot_parser_panics_total",
    Help: "Parser panics recovered by the resolver",
  })
)

// RegisterMetrics registers the resolver counters with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
  for _, c := range []prometheus.Collector{resolutions, cacheHits, parserPanics} {
    if err := reg.Register(c); err != nil {
      return fmt.Errorf("failed to register resolver metrics: %w", err)
    }
  }

  return nil
}

type cacheKey struct {
  serviceData string
  manufacturerData string
  companyID int
  hint Model
}

// Resolver turns raw advertisement payloads into decoded records. Results,
// including negative ones, are memoized and shared between callers: the
// returned *AdvertisementData must not be modified.
type Resolver struct {
  cache *lru.Cache[cacheKey, *AdvertisementData]
}

func NewResolver(size int) (*Resolver, error) {
  if size <= 0 {
    size = DefaultCacheSize
  }

  cache, err := lru.New[cacheKey, *AdvertisementData](size)

  if err != nil {
    return nil, fmt.Errorf("failed to create resolver cache: %w", err)
  }

  return &Resolver{cache: cache}, nil
}

var defaultResolver = func() *Resolver {
  r, err := NewResolver(DefaultCacheSize)

  if err != nil {
    panic(err)
  }

  return r
}()

// DefaultResolver returns the process-wide resolver used by the package level
// helpers.
func DefaultResolver() *Resolver {
  return defaultResolver
}

func ParseAdvertisementData(adv RawAdvertisement, hint Model) *Advertisement {
  return defaultResolver.ParseAdvertisementData(adv, hint)
}

func Resolve(serviceData, manufacturerData []byte, companyID int, hint Model) *AdvertisementData {
  return defaultResolver.Resolve(serviceData, manufacturerData, companyID, hint)
}

func nonEmpty(b []byte) []byte {
  if len(b) == 0 {
    return nil
  }

  return b
}

// SelectPayloads picks the service and manufacturer data the resolver looks
// at. companyID is the first known company present, even if its payload is
// empty.
func SelectPayloads(adv RawAdvertisement) (serviceData, manufacturerData []byte, companyID int) {
  for _, uuid := range ServiceDataOrder {
    if sd, ok := adv.ServiceData[uuid]; ok {
      serviceData = nonEmpty(sd)
      break
    }
  }

  for _, id := range ManufacturerDataOrder {
    if mfr, ok := adv.ManufacturerData[id]; ok {
      manufacturerData = nonEmpty(mfr)
      companyID = id
      break
    }
  }

  return
}

// ParseAdvertisementData resolves a whole advertisement. Returns nil for
// anything that is not a recognizable SwitchBot advertisement.
func (r *Resolver) ParseAdvertisementData(adv RawAdvertisement, hint Model) *Advertisement {
  sd, mfr, companyID := SelectPayloads(adv)

  if sd == nil && mfr == nil {
    return nil
  }

  data := r.Resolve(sd, mfr, companyID, hint)

  if data == nil {
    return nil
  }

  return &Advertisement{
    Address: adv.Address,
    Data: data,
    RSSI: adv.RSSI,
    Active: sd != nil,
  }
}

// Resolve decodes the selected payloads. companyID is zero when no
// manufacturer data was present, hint is empty when the model is unknown.
func (r *Resolver) Resolve(serviceData, manufacturerData []byte, companyID int, hint Model) *AdvertisementData {
  serviceData, manufacturerData = nonEmpty(serviceData), nonEmpty(manufacturerData)

  if serviceData == nil && manufacturerData == nil {
    resolutions.WithLabelValues(outcomeUnrecognized).Inc()
    return nil
  }

  key := cacheKey{
    serviceData: string(serviceData),
    manufacturerData: string(manufacturerData),
    companyID: companyID,
    hint: hint,
  }

  if res, ok := r.cache.Get(key); ok {
    cacheHits.Inc()
    return res
  }

  res, err := resolve(serviceData, manufacturerData, companyID, hint)

  if err != nil {
    parserPanics.Inc()
    resolutions.WithLabelValues(outcomePanic).Inc()

    log.Error().
      Err(err).
      Hex("ServiceData", serviceData).
      Hex("ManufacturerData", manufacturerData).
      Int("CompanyID", companyID).
      Str("Hint", string(hint)).
      Msg("switchbot: failed to parse advertisement data")

    return nil
  }

  switch {
  case res == nil:
    resolutions.WithLabelValues(outcomeUnrecognized).Inc()
  case res.Data == nil:
    resolutions.WithLabelValues(outcomeUndecoded).Inc()
  default:
    resolutions.WithLabelValues(outcomeDecoded).Inc()
  }

  log.Trace().
    Hex("ServiceData", serviceData).
    Hex("ManufacturerData", manufacturerData).
    Int("CompanyID", companyID).
    Bool("Recognized", res != nil).
    Msg("switchbot: resolved advertisement")

  r.cache.Add(key, res)

  return res
}

func discriminatorOf(serviceData, manufacturerData []byte, companyID int, hint Model) Discriminator {
  var model Discriminator

  if serviceData != nil {
    model = Discriminator([]byte{serviceData[0] & 0x7f})
  }

  if d, ok := DiscriminatorForModel(hint); hint != "" && ok {
    model = d
  }

  if model == "" {
    for _, c := range CandidatesForManufacturer(companyID) {
      if c.ManufacturerDataLength != 0 && c.ManufacturerDataLength == len(manufacturerData) {
        model = c.Discriminator
        break
      }
    }
  }

  if len(serviceData) > 5 {
    if tail := Discriminator(serviceData[len(serviceData)-4:]); isKnown(tail) {
      model = tail
    }
  }

  return model
}

func isKnown(d Discriminator) bool {
  _, ok := Lookup(d)
  return ok
}

// runParser invokes parse, turning a panic into ErrParserPanic.
func runParser(parse ParseFunc, serviceData, manufacturerData []byte) (attrs Attributes, err error) {
  defer func() {
    if p := recover(); p != nil {
      attrs = nil
      err = pkgerrors.Wrapf(ErrParserPanic, "%v", p)
    }
  }()

  return parse(serviceData, manufacturerData), nil
}

func resolve(serviceData, manufacturerData []byte, companyID int, hint Model) (*AdvertisementData, error) {
  model := discriminatorOf(serviceData, manufacturerData, companyID, hint)

  if model == "" {
    return nil, nil
  }

  res := &AdvertisementData{
    RawAdvData: serviceData,
    Model: model,
    IsEncrypted: serviceData != nil && serviceData[0]&0x80 != 0,
  }

  entry, ok := Lookup(model)

  if !ok {
    return res, nil
  }

  attrs, err := runParser(entry.Parse, serviceData, manufacturerData)

  if err != nil {
    return nil, err
  }

  enrich(res, entry, attrs)

  return res, nil
}

func enrich(res *AdvertisementData, entry Entry, attrs Attributes) {
  if attrs == nil {
    return
  }

  res.Data = attrs
  res.ModelFriendlyName = entry.FriendlyName
  res.ModelName = entry.Model
}

// DecodeAs decodes the payloads as the given model, bypassing discriminator
// detection. This is the only way to decode models which don't advertise a
// known discriminator. Results are not cached.
func (r *Resolver) DecodeAs(model Model, serviceData, manufacturerData []byte) (*AdvertisementData, error) {
  serviceData, manufacturerData = nonEmpty(serviceData), nonEmpty(manufacturerData)

  var (
    entry Entry
    disc Discriminator
  )

  if d, ok := DiscriminatorForModel(model); ok {
    entry, _ = Lookup(d)
    disc = d
  } else if e, ok := HintOnlyParser(model); ok {
    entry = e
  } else {
    return nil, pkgerrors.Wrapf(ErrUnknownModel, "%q", model)
  }

  res := &AdvertisementData{
    RawAdvData: serviceData,
    Model: disc,
    IsEncrypted: serviceData != nil && serviceData[0]&0x80 != 0,
  }

  if res.Model == "" && serviceData != nil {
    res.Model = Discriminator([]byte{serviceData[0] & 0x7f})
  }

  attrs, err := runParser(entry.Parse, serviceData, manufacturerData)

  if err != nil {
    parserPanics.Inc()
    return nil, pkgerrors.Wrapf(err, "decoding as %v", model)
  }

  enrich(res, entry, attrs)

  return res, nil
}
