// 指示: miu200521358
package model

import "github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"

// VrmAnimation は出力直前の骨格・クリップ・ヒューマノイド対応の組を表す。
// Warnings は変換中に記録した警告IDで、出力時に asset.extras へ書き込む。
type VrmAnimation struct {
	Skeleton *Skeleton
	Clip     *AnimationClip
	Humanoid *HumanoidBoneMap
	Warnings []string
}

// Validate は出力に必要な要素が揃っているか検証する。
func (a *VrmAnimation) Validate() error {
	if a == nil || a.Skeleton == nil || a.Skeleton.Len() == 0 {
		return merrors.NewUnsupportedInputError("出力対象の骨格がありません", nil)
	}
	if a.Clip == nil || len(a.Clip.Tracks) == 0 {
		return merrors.NewUnsupportedInputError("出力対象のトラックがありません", nil)
	}
	if err := a.Humanoid.Validate(); err != nil {
		return err
	}
	return a.Clip.Validate(a.Skeleton)
}
