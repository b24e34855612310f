// 指示: miu200521358
package model

import (
	"fmt"
	"math"
	"slices"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"github.com/tiendc/go-deepcopy"
	"gonum.org/v1/gonum/spatial/r3"
)

// NoParent は親を持たないことを表すインデックス。
const NoParent = -1

// Joint は骨格の関節1件を表す。
type Joint struct {
	Name        string
	Offset      r3.Vec
	ParentIndex int
	Children    []int
	Channels    []ChannelType
	IsEndSite   bool
}

// HasPositionChannel は移動チャンネルを持つか判定する。
func (j *Joint) HasPositionChannel() bool {
	for _, ch := range j.Channels {
		if ch.IsPosition() {
			return true
		}
	}
	return false
}

// HasRotationChannel は回転チャンネルを持つか判定する。
func (j *Joint) HasRotationChannel() bool {
	for _, ch := range j.Channels {
		if ch.IsRotation() {
			return true
		}
	}
	return false
}

// Skeleton は関節アリーナと再構築済みの木構造を表す。
// Joints は入力順、Order はルートからの深さ優先順を保持する。
type Skeleton struct {
	Joints    []Joint
	RootIndex int
	Order     []int
}

// BuildSkeleton は親インデックス付きの平坦な関節列から木構造を再構築する。
func BuildSkeleton(joints []Joint) (*Skeleton, error) {
	if len(joints) == 0 {
		return nil, merrors.NewUnsupportedInputError("関節が1件もありません", nil)
	}

	skeleton := &Skeleton{
		Joints:    make([]Joint, len(joints)),
		RootIndex: NoParent,
	}
	rootCount := 0
	for i, joint := range joints {
		joint.Children = nil
		skeleton.Joints[i] = joint
		if joint.ParentIndex == NoParent {
			rootCount++
			if skeleton.RootIndex == NoParent {
				skeleton.RootIndex = i
			}
			continue
		}
		if joint.ParentIndex < 0 || joint.ParentIndex >= len(joints) {
			return nil, merrors.NewMalformedSkeletonError(
				"関節の親インデックスが不正です: joint=%s parent=%d", nil, joint.Name, joint.ParentIndex)
		}
		if joint.ParentIndex == i {
			return nil, merrors.NewMalformedSkeletonError("関節が自身を親に持っています: %s", nil, joint.Name)
		}
	}
	if rootCount == 0 {
		return nil, merrors.NewMalformedSkeletonError("ルート関節がありません", nil)
	}
	if rootCount > 1 {
		return nil, merrors.NewMalformedSkeletonError("ルート関節が複数あります: %d", nil, rootCount)
	}

	for i := range skeleton.Joints {
		parentIndex := skeleton.Joints[i].ParentIndex
		if parentIndex == NoParent {
			continue
		}
		parent := &skeleton.Joints[parentIndex]
		parent.Children = append(parent.Children, i)
	}

	skeleton.Order = skeleton.traverse()
	if len(skeleton.Order) != len(skeleton.Joints) {
		// ルートから到達できない関節は親子関係が循環している。
		return nil, merrors.NewMalformedSkeletonError(
			"関節の親子関係に循環があります: reachable=%d joints=%d", nil, len(skeleton.Order), len(skeleton.Joints))
	}
	return skeleton, nil
}

// Validate は親インデックスから木構造を再構築し、ルート・親範囲・循環と保持中の木構造の整合を検証する。
// BuildSkeleton を経ずに組み立てた骨格もここで弾く。
func (s *Skeleton) Validate() error {
	if s == nil {
		return merrors.NewUnsupportedInputError("骨格が未設定です", nil)
	}
	rebuilt, err := BuildSkeleton(s.Joints)
	if err != nil {
		return err
	}
	if rebuilt.RootIndex != s.RootIndex || !slices.Equal(rebuilt.Order, s.Order) {
		return merrors.NewMalformedSkeletonError(
			"骨格の木構造が親インデックスと一致しません: root=%d order=%d", nil, s.RootIndex, len(s.Order))
	}
	for i := range s.Joints {
		if !slices.Equal(rebuilt.Joints[i].Children, s.Joints[i].Children) {
			return merrors.NewMalformedSkeletonError(
				"関節の子リストが親インデックスと一致しません: %s", nil, s.Joints[i].Name)
		}
	}
	return nil
}

// traverse はルートから深さ優先で関節インデックスを列挙する。
func (s *Skeleton) traverse() []int {
	if s.RootIndex < 0 || s.RootIndex >= len(s.Joints) {
		return nil
	}
	order := make([]int, 0, len(s.Joints))
	visited := make([]bool, len(s.Joints))
	stack := []int{s.RootIndex}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[index] {
			continue
		}
		visited[index] = true
		order = append(order, index)
		children := s.Joints[index].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return order
}

// Len は関節数を返す。
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Joints)
}

// Root はルート関節を返す。
func (s *Skeleton) Root() *Joint {
	return &s.Joints[s.RootIndex]
}

// Get はインデックスから関節を返す。
func (s *Skeleton) Get(index int) (*Joint, error) {
	if s == nil || index < 0 || index >= len(s.Joints) {
		return nil, fmt.Errorf("関節インデックスが範囲外です: %d", index)
	}
	return &s.Joints[index], nil
}

// IndexByName は名前が一致する最初の関節インデックスを深さ優先順で返す。
func (s *Skeleton) IndexByName(name string) (int, bool) {
	for _, index := range s.Order {
		if s.Joints[index].Name == name {
			return index, true
		}
	}
	return NoParent, false
}

// IsAncestor は ancestor が descendant の祖先(自身を含む)か判定する。
func (s *Skeleton) IsAncestor(ancestor int, descendant int) bool {
	for current, steps := descendant, 0; current != NoParent && steps <= len(s.Joints); steps++ {
		if current == ancestor {
			return true
		}
		current = s.Joints[current].ParentIndex
	}
	return false
}

// Scale は全関節のローカルオフセットを倍率で拡縮する。
func (s *Skeleton) Scale(scale float64) {
	for i := range s.Joints {
		s.Joints[i].Offset = r3.Scale(scale, s.Joints[i].Offset)
	}
}

// WorldPositions はレストポーズでの各関節のワールド座標をインデックス順で返す。
// BVHのレストポーズは回転を持たないため、ワールド座標はオフセットの累積になる。
func (s *Skeleton) WorldPositions() []r3.Vec {
	positions := make([]r3.Vec, len(s.Joints))
	for _, index := range s.Order {
		joint := s.Joints[index]
		if joint.ParentIndex == NoParent {
			positions[index] = joint.Offset
			continue
		}
		positions[index] = r3.Add(positions[joint.ParentIndex], joint.Offset)
	}
	return positions
}

// BoundingBox はレストポーズのワールド座標の軸平行境界箱を返す。
func (s *Skeleton) BoundingBox() r3.Box {
	box := r3.Box{
		Min: r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, p := range s.WorldPositions() {
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	return box
}

// Copy は骨格を深いコピーで複製する。
func (s *Skeleton) Copy() (*Skeleton, error) {
	copied := &Skeleton{}
	if err := deepcopy.Copy(copied, *s); err != nil {
		return nil, fmt.Errorf("骨格の複製に失敗しました: %w", err)
	}
	return copied, nil
}
