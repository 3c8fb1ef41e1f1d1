package switchbot

import (
  "encoding/binary"
  "errors"
  "math"

  pkgerrors "github.com/pkg/errors"
)

var ErrInsufficientData = errors.New("insufficient data")

// Uint16BE reads 2 bytes big-endian at offset. Panics when the buffer is too
// short, the resolver recovers from it.
func Uint16BE(buf []byte, offset int) uint16 {
  return binary.BigEndian.Uint16(buf[offset:offset+2])
}

func uint16LE(buf []byte, offset int) uint16 {
  return binary.LittleEndian.Uint16(buf[offset:offset+2])
}

// ParseUint24BE reads 3 bytes big-endian at offset.
func ParseUint24BE(buf []byte, offset int) (uint32, error) {
  if offset < 0 || offset+3 > len(buf) {
    return 0, pkgerrors.Wrapf(ErrInsufficientData, "need %d bytes, got %d", offset+3, len(buf))
  }

  var padded [4]byte
  copy(padded[1:], buf[offset:offset+3])

  return binary.BigEndian.Uint32(padded[:]), nil
}

// ParsePowerData reads a 2 byte big-endian value, masks it (when mask is not
// zero) and divides it by scale (1 when zero).
func ParsePowerData(buf []byte, offset int, scale float64, mask uint16) (float64, error) {
  if offset < 0 || offset+2 > len(buf) {
    return 0, pkgerrors.Wrapf(ErrInsufficientData, "need %d bytes, got %d", offset+2, len(buf))
  }

  value := Uint16BE(buf, offset)

  if mask != 0 {
    value &= mask
  }

  if scale == 0 {
    scale = 1.0
  }

  return float64(value) / scale, nil
}

func mustParsePowerData(buf []byte, offset int, scale float64, mask uint16) float64 {
  v, err := ParsePowerData(buf, offset, scale, mask)

  if err != nil {
    panic(err)
  }

  return v
}

func CelsiusToFahrenheit(c float64) float64 {
  return c*9/5 + 32
}

// DecodeSignedTemperature decodes the sign-magnitude temperature used by
// every current model: the top bit of signAndInteger set means positive, its
// low 7 bits are the integer part and decimal holds tenths.
func DecodeSignedTemperature(signAndInteger, decimal byte) (c, f float64) {
  sign := -1.0

  if signAndInteger&0x80 != 0 {
    sign = 1.0
  }

  c = sign * (float64(signAndInteger&0x7f) + float64(decimal)/10)

  return c, CelsiusToFahrenheit(c)
}

// LookupNonlinearScale clamps key into [lo, hi] and returns the mapped value,
// or 0 when the table has no entry for it.
func LookupNonlinearScale(table map[int]int, key, lo, hi int) int {
  return table[clamp(key, lo, hi)]
}

func clamp(v, lo, hi int) int {
  return max(lo, min(v, hi))
}

// window returns b[lo:hi] with out-of-range bounds shortened to the buffer.
func window(b []byte, lo, hi int) []byte {
  hi = min(hi, len(b))

  if lo >= hi {
    return nil
  }

  return b[lo:hi]
}

func ptr[T any](v T) *T {
  return &v
}

func bit(b, mask byte) bool {
  return b&mask != 0
}

var hub2LightIntensity = map[int]int{
  1: 0,
  2: 10,
  3: 20,
  4: 30,
  5: 40,
  6: 50,
  7: 60,
  8: 70,
  9: 80,
  10: 90,
  11: 105,
  12: 205,
  13: 317,
  14: 416,
  15: 510,
  16: 610,
  17: 707,
  18: 801,
  19: 897,
  20: 1023,
  21: 1091,
}

var hub3LightIntensity = map[int]int{
  1: 0,
  2: 50,
  3: 90,
  4: 205,
  5: 317,
  6: 510,
  7: 610,
  8: 707,
  9: 801,
  10: 1023,
}

// Hub2Illuminance converts a Hub 2 light level (1-21) to lux.
func Hub2Illuminance(level int) int {
  if level == 0 {
    return 0
  }

  return LookupNonlinearScale(hub2LightIntensity, level, 0, 22)
}

// Hub3Illuminance converts a Hub 3 light level (1-10) to lux.
func Hub3Illuminance(level int) int {
  return LookupNonlinearScale(hub3LightIntensity, level, 0, 10)
}

func roundTenths(v float64) float64 {
  return math.Round(v*10) / 10
}
