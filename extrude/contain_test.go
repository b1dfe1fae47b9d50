package extrude

import (
	"reflect"
	"testing"
)

func TestResolveContainmentFlat(t *testing.T) {
	// two disjoint squares: no nesting at all
	set := ResolveContainment([]Subpath{
		newSubpath(square(0, 0, 10), true),
		newSubpath(square(20, 0, 10), true),
	})
	if !set.IsTopLevel(0) || !set.IsTopLevel(1) {
		t.Fatalf("disjoint subpaths must be top level: %v", set.ContainedBy)
	}
	if len(set.Contains[0]) != 0 || len(set.Contains[1]) != 0 {
		t.Fatalf("unexpected holes: %v", set.Contains)
	}
}

func TestResolveContainmentHole(t *testing.T) {
	set := ResolveContainment([]Subpath{
		newSubpath(square(0, 0, 100), true),
		newSubpath(square(25, 25, 50), true),
	})
	if !set.IsTopLevel(0) {
		t.Fatal("the outer square must be top level")
	}
	if set.ContainedBy[1] != 0 {
		t.Fatalf("the hole must be attached to the outer square, got %d", set.ContainedBy[1])
	}
	if !reflect.DeepEqual(set.Contains[0], []int{1}) {
		t.Fatalf("unexpected holes %v", set.Contains[0])
	}
}

func TestResolveContainmentChain(t *testing.T) {
	// outer > hole > island: every nested subpath ends up in the
	// top level group, so the even odd rule can alternate
	set := ResolveContainment([]Subpath{
		newSubpath(square(0, 0, 100), true),
		newSubpath(square(20, 20, 60), true),
		newSubpath(square(40, 40, 20), true),
	})
	if !set.IsTopLevel(0) || set.IsTopLevel(1) || set.IsTopLevel(2) {
		t.Fatalf("unexpected top level flags: %v", set.ContainedBy)
	}
	if !reflect.DeepEqual(set.Contains[0], []int{1, 2}) {
		t.Fatalf("expected both nested squares under the outer one, got %v", set.Contains[0])
	}
	if set.ContainedBy[2] != 0 {
		t.Fatalf("the island must be attached to the top level subpath, got %d", set.ContainedBy[2])
	}
}

func TestResolveContainmentSiblings(t *testing.T) {
	// two disjoint shapes with one hole each: the hole goes to its
	// own container only
	set := ResolveContainment([]Subpath{
		newSubpath(square(0, 0, 40), true),
		newSubpath(square(100, 0, 40), true),
		newSubpath(square(10, 10, 20), true),
		newSubpath(square(110, 10, 20), true),
	})
	if !reflect.DeepEqual(set.Contains[0], []int{2}) || !reflect.DeepEqual(set.Contains[1], []int{3}) {
		t.Fatalf("unexpected assignment: %v", set.Contains)
	}
}
