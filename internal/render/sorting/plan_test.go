package sorting

import (
	"errors"
	"reflect"
	"testing"
)

func TestPlanDispatchLocalOnly(t *testing.T) {
	p, err := PlanDispatch(64, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Stage{{LocalBMS, 64}}
	if !reflect.DeepEqual(p.Stages, want) {
		t.Fatalf("stages: got %v, want %v", p.Stages, want)
	}
	if p.Groups != 2 {
		t.Fatalf("groups: got %d, want 2", p.Groups)
	}
}

func TestPlanDispatchBoundary(t *testing.T) {
	const w = 32
	at, _ := PlanDispatch(2*w, w)
	past, _ := PlanDispatch(2*w+1, w)

	if at.GlobalStages() != 0 || len(at.Stages) != 1 {
		t.Fatalf("2W elements must only run the local pass, got %v", at.Stages)
	}
	want := []Stage{{LocalBMS, 2 * w}, {GlobalFlip, 4 * w}, {LocalDisperse, 2 * w}}
	if !reflect.DeepEqual(past.Stages, want) {
		t.Fatalf("2W+1 elements: got %v, want %v", past.Stages, want)
	}
	if past.SortDomain != 4*w {
		t.Fatalf("domain: got %d, want %d", past.SortDomain, 4*w)
	}
}

func TestPlanDispatchGlobalDisperse(t *testing.T) {
	p, err := PlanDispatch(64, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Stage{
		{LocalBMS, 8},
		{GlobalFlip, 16}, {LocalDisperse, 8},
		{GlobalFlip, 32}, {GlobalDisperse, 16}, {LocalDisperse, 8},
		{GlobalFlip, 64}, {GlobalDisperse, 32}, {GlobalDisperse, 16}, {LocalDisperse, 8},
	}
	if !reflect.DeepEqual(p.Stages, want) {
		t.Fatalf("stages:\n got %v\nwant %v", p.Stages, want)
	}
	if p.Groups != 64/8+1 {
		t.Fatalf("groups: got %d, want %d", p.Groups, 64/8+1)
	}
}

func TestPlanDispatchErrors(t *testing.T) {
	tests := []struct {
		elements, width int
		want            error
	}{
		{10, 0, ErrWorkGroupWidth},
		{10, 48, ErrWorkGroupWidth},
		{0, 64, ErrEmptySegments},
	}
	for _, tt := range tests {
		if _, err := PlanDispatch(tt.elements, tt.width); !errors.Is(err, tt.want) {
			t.Fatalf("PlanDispatch(%d, %d): got %v, want %v", tt.elements, tt.width, err, tt.want)
		}
	}
}
