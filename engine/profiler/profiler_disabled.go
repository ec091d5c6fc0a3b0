//go:build !profile

package profiler

import "errors"

// Stubbed no-op versions when the "profile" build tag is not set.

const Enabled = false

var ErrNoEvents = errors.New("profiler: no events to dump")

func Init(capacity int) {}

func Start(name string) func() { return func() {} }

func Dump(path string) (int, error) { return 0, ErrNoEvents }
