package utils

import (
  "encoding/hex"
  "fmt"
  "net"
  "strings"
)

// FormatMACUpper normalizes a MAC address to the upper-case colon separated
// form. Strings which don't look like a MAC address are only upper-cased.
func FormatMACUpper(mac string) string {
  s := strings.ToUpper(mac)

  var raw string

  switch {
  case len(s) == 17 && (strings.Count(s, ":") == 5 || strings.Count(s, "-") == 5):
    raw = strings.NewReplacer(":", "", "-", "").Replace(s)
  case len(s) == 14 && strings.Count(s, ".") == 2:
    raw = strings.ReplaceAll(s, ".", "")
  case len(s) == 12:
    raw = s
  default:
    return s
  }

  if _, err := hex.DecodeString(raw); err != nil || len(raw) != 12 {
    return s
  }

  parts := make([]string, 0, 6)

  for i := 0; i < 12; i += 2 {
    parts = append(parts, raw[i:i+2])
  }

  return strings.Join(parts, ":")
}

// HCIAddress converts addr to the little-endian byte order used by HCI
// commands.
func HCIAddress(addr net.HardwareAddr) (out [6]byte, err error) {
  if len(addr) != 6 {
    return out, fmt.Errorf("%q is not a 6 byte address", addr.String())
  }

  for i, b := range addr {
    out[5-i] = b
  }

  return out, nil
}
