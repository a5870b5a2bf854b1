package render

import (
	"time"

	"regionview/internal/config"
)

// Options configures a RegionChunkRenderer.
type Options struct {
	// FaceCulling skips facings whose plane the camera is behind. Translucent
	// passes always draw every facing.
	FaceCulling bool
	// TranslucentSorting resorts translucent triangles back to front on the
	// GPU when the device supports compute.
	TranslucentSorting bool
	// WorkGroupWidth is the requested local size of the sort program. It is
	// reduced to the device limit.
	WorkGroupWidth int
	// SortFenceTimeout enables an advisory wait after each sort. Zero disables it.
	SortFenceTimeout time.Duration
	// SortTiming wraps each sort in GPU timer queries.
	SortTiming bool
	// SortTimingBudget is the average GPU time above which timing reports are
	// logged as warnings.
	SortTimingBudget time.Duration
}

// OptionsFromConfig reads the current render settings.
func OptionsFromConfig() Options {
	return Options{
		FaceCulling:        config.GetUseBlockFaceCulling(),
		TranslucentSorting: config.GetUseTranslucentFaceSorting(),
		WorkGroupWidth:     config.GetComputeWorkGroupSize(),
		SortFenceTimeout:   config.GetSortFenceTimeout(),
		SortTiming:         config.GetSortTimingEnabled(),
		SortTimingBudget:   config.GetSortTimingBudget(),
	}
}
