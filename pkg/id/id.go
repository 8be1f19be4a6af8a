// Package id generates identifiers for overlay instances and render keys.
package id

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Prefix is prepended to every generated identifier.
const Prefix = "ovan-"

// Generator produces unique string identifiers.
type Generator interface {
	New() string
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() string

// New implements Generator.
func (f GeneratorFunc) New() string {
	return f()
}

// Default is the random generator used when none is configured.
var Default Generator = GeneratorFunc(New)

// New returns Prefix followed by the 32 lowercase hex digits of a random UUID.
func New() string {
	u := uuid.New()
	return Prefix + strings.ReplaceAll(u.String(), "-", "")
}

// Sequence returns a deterministic generator yielding prefix1, prefix2, ...
// It is safe for concurrent use.
func Sequence(prefix string) Generator {
	var n uint64
	return GeneratorFunc(func() string {
		return prefix + strconv.FormatUint(atomic.AddUint64(&n, 1), 10)
	})
}
