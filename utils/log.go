package utils

import (
	"fmt"

	"github.com/rs/zerolog"
)

// StringerArray logs a slice as an array of strings. Elements are only
// formatted when the event is enabled.
type StringerArray[T fmt.Stringer] []T

func (s StringerArray[T]) MarshalZerologArray(a *zerolog.Array) {
	for _, elem := range s {
		a.Str(elem.String())
	}
}

func ToZeroLogArray[T fmt.Stringer](arr []T) zerolog.LogArrayMarshaler {
	return StringerArray[T](arr)
}
