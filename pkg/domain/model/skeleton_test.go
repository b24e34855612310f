// 指示: miu200521358
package model

import (
	"errors"
	"testing"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestJoints() []Joint {
	return []Joint{
		{Name: "Hips", Offset: r3.Vec{X: 0, Y: 90, Z: 0}, ParentIndex: NoParent},
		{Name: "Spine", Offset: r3.Vec{X: 0, Y: 10, Z: 0}, ParentIndex: 0},
		{Name: "LeftUpLeg", Offset: r3.Vec{X: 10, Y: -5, Z: 0}, ParentIndex: 0},
		{Name: "LeftLeg", Offset: r3.Vec{X: 0, Y: -100, Z: 0}, ParentIndex: 2},
		{Name: "Head", Offset: r3.Vec{X: 0, Y: 30, Z: 0}, ParentIndex: 1},
	}
}

func TestBuildSkeletonLinksChildrenAndOrder(t *testing.T) {
	skeleton, err := BuildSkeleton(newTestJoints())
	if err != nil {
		t.Fatalf("BuildSkeleton failed: %v", err)
	}
	if skeleton.RootIndex != 0 {
		t.Fatalf("root mismatch: got=%d want=%d", skeleton.RootIndex, 0)
	}
	wantOrder := []int{0, 1, 4, 2, 3}
	if len(skeleton.Order) != len(wantOrder) {
		t.Fatalf("order length mismatch: got=%d want=%d", len(skeleton.Order), len(wantOrder))
	}
	for i := range wantOrder {
		if skeleton.Order[i] != wantOrder[i] {
			t.Fatalf("order mismatch at %d: got=%v want=%v", i, skeleton.Order, wantOrder)
		}
	}
	hips := skeleton.Root()
	if len(hips.Children) != 2 || hips.Children[0] != 1 || hips.Children[1] != 2 {
		t.Fatalf("hips children mismatch: got=%v", hips.Children)
	}
	if !skeleton.IsAncestor(0, 3) {
		t.Fatalf("hips should be ancestor of LeftLeg")
	}
	if skeleton.IsAncestor(1, 3) {
		t.Fatalf("spine should not be ancestor of LeftLeg")
	}
}

func TestBuildSkeletonRejectsMalformedInput(t *testing.T) {
	cases := map[string][]Joint{
		"no root": {
			{Name: "A", ParentIndex: 1},
			{Name: "B", ParentIndex: 0},
		},
		"two roots": {
			{Name: "A", ParentIndex: NoParent},
			{Name: "B", ParentIndex: NoParent},
		},
		"parent out of range": {
			{Name: "A", ParentIndex: NoParent},
			{Name: "B", ParentIndex: 5},
		},
		"self parent": {
			{Name: "A", ParentIndex: NoParent},
			{Name: "B", ParentIndex: 1},
		},
		"cycle": {
			{Name: "A", ParentIndex: NoParent},
			{Name: "B", ParentIndex: 2},
			{Name: "C", ParentIndex: 1},
		},
	}
	for name, joints := range cases {
		_, err := BuildSkeleton(joints)
		var malformed *merrors.MalformedSkeletonError
		if !errors.As(err, &malformed) {
			t.Fatalf("%s: expected MalformedSkeletonError, got=%v", name, err)
		}
	}

	_, err := BuildSkeleton(nil)
	var unsupported *merrors.UnsupportedInputError
	if !errors.As(err, &unsupported) {
		t.Fatalf("empty joints: expected UnsupportedInputError, got=%v", err)
	}
}

func TestSkeletonScaleComposes(t *testing.T) {
	a, _ := BuildSkeleton(newTestJoints())
	b, _ := BuildSkeleton(newTestJoints())
	a.Scale(0.1)
	a.Scale(0.5)
	b.Scale(0.05)
	for i := range a.Joints {
		if r3.Norm(r3.Sub(a.Joints[i].Offset, b.Joints[i].Offset)) > 1e-9 {
			t.Fatalf("scale composition mismatch at %d: got=%v want=%v", i, a.Joints[i].Offset, b.Joints[i].Offset)
		}
	}
}

func TestSkeletonWorldPositionsAndBoundingBox(t *testing.T) {
	skeleton, _ := BuildSkeleton(newTestJoints())
	positions := skeleton.WorldPositions()
	if positions[3] != (r3.Vec{X: 10, Y: -15, Z: 0}) {
		t.Fatalf("LeftLeg world position mismatch: got=%v", positions[3])
	}
	box := skeleton.BoundingBox()
	if box.Min.Y != -15 || box.Max.Y != 130 {
		t.Fatalf("bounding box mismatch: got=%v", box)
	}
}

func TestSkeletonCopyIsIndependent(t *testing.T) {
	skeleton, _ := BuildSkeleton(newTestJoints())
	copied, err := skeleton.Copy()
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	copied.Scale(2)
	copied.Joints[0].Children[0] = 99
	if skeleton.Joints[0].Offset.Y != 90 {
		t.Fatalf("original offset mutated: got=%v", skeleton.Joints[0].Offset)
	}
	if skeleton.Joints[0].Children[0] != 1 {
		t.Fatalf("original children mutated: got=%v", skeleton.Joints[0].Children)
	}
	if index, ok := copied.IndexByName("Head"); !ok || index != 4 {
		t.Fatalf("copied lookup mismatch: got=%d ok=%v", index, ok)
	}
}

func TestSkeletonValidateRejectsHandBuiltTrees(t *testing.T) {
	skeleton, err := BuildSkeleton(newTestJoints())
	if err != nil {
		t.Fatalf("BuildSkeleton failed: %v", err)
	}
	if err := skeleton.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	cases := []struct {
		name     string
		skeleton *Skeleton
	}{
		{
			name: "two roots",
			skeleton: &Skeleton{
				Joints: []Joint{
					{Name: "Hips", ParentIndex: NoParent},
					{Name: "Stray", ParentIndex: NoParent},
				},
				RootIndex: 0,
				Order:     []int{0},
			},
		},
		{
			name: "cycle",
			skeleton: &Skeleton{
				Joints: []Joint{
					{Name: "Hips", ParentIndex: NoParent},
					{Name: "A", ParentIndex: 2, Children: []int{2}},
					{Name: "B", ParentIndex: 1, Children: []int{1}},
				},
				RootIndex: 0,
				Order:     []int{0},
			},
		},
		{
			name: "parent out of range",
			skeleton: &Skeleton{
				Joints: []Joint{
					{Name: "Hips", ParentIndex: NoParent, Children: []int{1}},
					{Name: "Spine", ParentIndex: 5},
				},
				RootIndex: 0,
				Order:     []int{0, 1},
			},
		},
		{
			name: "stale order",
			skeleton: &Skeleton{
				Joints: []Joint{
					{Name: "Hips", ParentIndex: NoParent},
					{Name: "Spine", ParentIndex: 0},
				},
				RootIndex: 0,
				Order:     []int{0},
			},
		},
	}
	for _, tc := range cases {
		err := tc.skeleton.Validate()
		var target *merrors.MalformedSkeletonError
		if !errors.As(err, &target) {
			t.Fatalf("expected MalformedSkeletonError: case=%s got=%v", tc.name, err)
		}
	}
}
