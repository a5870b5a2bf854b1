package sorting

import (
	"errors"
	"fmt"
)

// ExecutionType selects the kernel variant of the shared sort program. The
// values match the u_ExecutionType uniform.
type ExecutionType int32

const (
	LocalBMS ExecutionType = iota
	LocalDisperse
	GlobalFlip
	GlobalDisperse
)

func (e ExecutionType) String() string {
	switch e {
	case LocalBMS:
		return "local_bms"
	case LocalDisperse:
		return "local_disperse"
	case GlobalFlip:
		return "global_flip"
	case GlobalDisperse:
		return "global_disperse"
	default:
		return fmt.Sprintf("ExecutionType(%d)", int32(e))
	}
}

// Local reports whether the stage runs entirely in work-group shared memory.
func (e ExecutionType) Local() bool {
	return e == LocalBMS || e == LocalDisperse
}

// Stage is one compute dispatch of the network.
type Stage struct {
	Type   ExecutionType
	Height int
}

// SharedBytesPerInvocation is the shared memory one invocation of the sort
// program holds: two triangle slots, each a uvec3 padded to 16 bytes, and
// their two float keys.
const SharedBytesPerInvocation = 2 * (16 + 4)

var (
	// ErrWorkGroupWidth is returned for a work-group width that is not a
	// positive power of two.
	ErrWorkGroupWidth = errors.New("sorting: work-group width must be a positive power of two")
	// ErrEmptySegments is returned when there is nothing to sort.
	ErrEmptySegments = errors.New("sorting: no elements to sort")
)

// Plan is the dispatch geometry for one region. Elements are triangles; each
// invocation compares one pair, so a work group covers 2*WorkGroupWidth
// elements.
type Plan struct {
	WorkGroupWidth int
	SortDomain     int
	Groups         int
	Stages         []Stage
}

// GlobalStages returns the number of stages that span work groups.
func (p Plan) GlobalStages() int {
	n := 0
	for _, s := range p.Stages {
		if !s.Type.Local() {
			n++
		}
	}
	return n
}

// PlanDispatch computes the stage sequence for segments of at most
// maxElements triangles. The first stage sorts every work-group slice locally;
// each doubling of the height past that adds a flip followed by disperse
// stages, finishing in shared memory once the span fits one work group.
func PlanDispatch(maxElements, workGroupWidth int) (Plan, error) {
	if workGroupWidth <= 0 || workGroupWidth&(workGroupWidth-1) != 0 {
		return Plan{}, fmt.Errorf("%w: %d", ErrWorkGroupWidth, workGroupWidth)
	}
	if maxElements <= 0 {
		return Plan{}, ErrEmptySegments
	}

	local := 2 * workGroupWidth
	domain := nextPowerOfTwo(maxElements)

	p := Plan{
		WorkGroupWidth: workGroupWidth,
		SortDomain:     domain,
		Groups:         domain/local + 1,
	}
	p.Stages = append(p.Stages, Stage{Type: LocalBMS, Height: local})

	for h := local * 2; h <= domain; h *= 2 {
		p.Stages = append(p.Stages, Stage{Type: GlobalFlip, Height: h})
		for hh := h / 2; hh > 1; hh /= 2 {
			if hh > local {
				p.Stages = append(p.Stages, Stage{Type: GlobalDisperse, Height: hh})
				continue
			}
			p.Stages = append(p.Stages, Stage{Type: LocalDisperse, Height: hh})
			break
		}
	}
	return p, nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
