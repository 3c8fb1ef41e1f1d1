package utils

import (
	"errors"
	"slices"
)

// ErrorIsAnyOf reports whether err matches one of targets.
func ErrorIsAnyOf(err error, targets ...error) bool {
	return err != nil && slices.ContainsFunc(targets, func(target error) bool {
		return errors.Is(err, target)
	})
}
