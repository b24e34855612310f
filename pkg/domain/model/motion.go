// 指示: miu200521358
package model

import "github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"

// Motion はBVHから読み込んだ骨格とアニメーションの組を表す。
type Motion struct {
	Name       string
	Skeleton   *Skeleton
	Clip       *AnimationClip
	FrameCount int
	FrameTime  float64
}

// Validate は骨格とクリップの組が変換可能か検証する。
func (m *Motion) Validate() error {
	if m == nil || m.Skeleton == nil || m.Skeleton.Len() == 0 {
		return merrors.NewUnsupportedInputError("骨格が未設定です", nil)
	}
	if err := m.Skeleton.Validate(); err != nil {
		return err
	}
	if m.Clip == nil {
		return merrors.NewUnsupportedInputError("アニメーションクリップが未設定です", nil)
	}
	return m.Clip.Validate(m.Skeleton)
}

// Copy は骨格とクリップを複製した新しいMotionを返す。
func (m *Motion) Copy() (*Motion, error) {
	skeleton, err := m.Skeleton.Copy()
	if err != nil {
		return nil, err
	}
	clip, err := m.Clip.Copy()
	if err != nil {
		return nil, err
	}
	return &Motion{
		Name:       m.Name,
		Skeleton:   skeleton,
		Clip:       clip,
		FrameCount: m.FrameCount,
		FrameTime:  m.FrameTime,
	}, nil
}
