package config

import (
	"sync"
	"time"
)

// Limits for the sort work-group width.
const (
	MinComputeWorkGroupSize = 32
	MaxComputeWorkGroupSize = 2048

	// MaxSortFenceTimeout caps the advisory wait after a translucent sort.
	MaxSortFenceTimeout = 50 * time.Millisecond
)

// RenderSettings holds render configuration
type RenderSettings struct {
	mu                        sync.RWMutex
	renderDistance            int // in chunks
	useBlockFaceCulling       bool
	useTranslucentFaceSorting bool
	computeWorkGroupSize      int
	sortFenceTimeout          time.Duration
	sortTimingEnabled         bool
	sortTimingBudget          time.Duration
	fpsLimit                  int // 0 = unlimited
}

var globalRenderSettings = &RenderSettings{
	renderDistance:            8,
	useBlockFaceCulling:       true,
	useTranslucentFaceSorting: true,
	computeWorkGroupSize:      1024,
	sortTimingBudget:          2 * time.Millisecond,
	fpsLimit:                  144,
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks
func SetRenderDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if distance < 2 {
		distance = 2
	}
	if distance > 32 {
		distance = 32
	}

	globalRenderSettings.renderDistance = distance
}

// GetUseBlockFaceCulling reports whether chunk facings behind the camera are skipped
func GetUseBlockFaceCulling() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.useBlockFaceCulling
}

// SetUseBlockFaceCulling toggles facing culling
func SetUseBlockFaceCulling(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.useBlockFaceCulling = enabled
}

// GetUseTranslucentFaceSorting reports whether translucent geometry is resorted on the GPU
func GetUseTranslucentFaceSorting() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.useTranslucentFaceSorting
}

// SetUseTranslucentFaceSorting toggles the translucent resort
func SetUseTranslucentFaceSorting(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.useTranslucentFaceSorting = enabled
}

// GetComputeWorkGroupSize returns the local size of the sort program
func GetComputeWorkGroupSize() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.computeWorkGroupSize
}

// SetComputeWorkGroupSize sets the sort work-group width, rounded down to a
// power of two within [MinComputeWorkGroupSize, MaxComputeWorkGroupSize]
func SetComputeWorkGroupSize(size int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if size < MinComputeWorkGroupSize {
		size = MinComputeWorkGroupSize
	}
	if size > MaxComputeWorkGroupSize {
		size = MaxComputeWorkGroupSize
	}
	p := MinComputeWorkGroupSize
	for p*2 <= size {
		p *= 2
	}

	globalRenderSettings.computeWorkGroupSize = p
}

// GetSortFenceTimeout returns the advisory wait after a sort; zero disables it
func GetSortFenceTimeout() time.Duration {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.sortFenceTimeout
}

// SetSortFenceTimeout sets the advisory wait, clamped to [0, MaxSortFenceTimeout]
func SetSortFenceTimeout(d time.Duration) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if d < 0 {
		d = 0
	}
	if d > MaxSortFenceTimeout {
		d = MaxSortFenceTimeout
	}

	globalRenderSettings.sortFenceTimeout = d
}

// GetSortTimingEnabled reports whether GPU timer queries wrap the sort
func GetSortTimingEnabled() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.sortTimingEnabled
}

// SetSortTimingEnabled toggles GPU timing of the sort
func SetSortTimingEnabled(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.sortTimingEnabled = enabled
}

// GetSortTimingBudget returns the GPU time above which a sort average is reported as a warning
func GetSortTimingBudget() time.Duration {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.sortTimingBudget
}

// SetSortTimingBudget sets the warning threshold. Zero or less warns on every report.
func SetSortTimingBudget(d time.Duration) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.sortTimingBudget = max(d, 0)
}

// GetFPSLimit returns the frame rate cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap. Negative values disable the cap.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.fpsLimit = max(min(limit, 1000), 0)
}
