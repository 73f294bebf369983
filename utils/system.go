package utils

import (
	"fmt"
	"math"
	"runtime"
	"time"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsNan reports whether any value is NaN
func IsNan(vals []float64) bool {
	for _, f := range vals {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}

// Clock accumulates wall time across Begin/End pairs for phase reporting
type Clock struct {
	start   time.Time
	elapsed time.Duration
}

func (c *Clock) Begin() { c.start = time.Now() }

func (c *Clock) End() { c.elapsed += time.Since(c.start) }

func (c *Clock) Seconds() float64 { return c.elapsed.Seconds() }
