// 指示: miu200521358
package minteractor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
)

// 肩の開き補正軸。左肩は +Z、右肩は -Z 回りに回す。
var (
	armSpreadLeftAxis  = mgl64.Vec3{0, 0, 1}
	armSpreadRightAxis = mgl64.Vec3{0, 0, -1}
)

// armSpreadTarget は肩補正の対象ボーンと回転軸を表す。
type armSpreadTarget struct {
	Bone model.HumanBoneName
	Axis mgl64.Vec3
}

var armSpreadTargets = []armSpreadTarget{
	{Bone: model.HUMAN_BONE_LEFT_SHOULDER, Axis: armSpreadLeftAxis},
	{Bone: model.HUMAN_BONE_RIGHT_SHOULDER, Axis: armSpreadRightAxis},
}

// resolveArmSpreadRotation は肩補正の回転を返す。
func resolveArmSpreadRotation(degrees float64, axis mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(degrees), axis)
}

// applyArmSpread は左右の肩の回転トラックへ開き補正を左から掛ける。0度の場合は何もしない。
func applyArmSpread(clip *model.AnimationClip, boneMap *model.HumanoidBoneMap, degrees float64) (int, []string) {
	if degrees == 0 {
		return 0, nil
	}
	applied := 0
	missing := false
	for _, target := range armSpreadTargets {
		jointIndex, ok := boneMap.Get(target.Bone)
		if !ok {
			missing = true
			continue
		}
		track, ok := clip.FindTrack(jointIndex, model.TRACK_KIND_ROTATION)
		if !ok {
			missing = true
			continue
		}
		correction := resolveArmSpreadRotation(degrees, target.Axis)
		for i, rotation := range track.Rotations {
			track.Rotations[i] = correction.Mul(rotation).Normalize()
		}
		applied++
	}
	if missing {
		logConvertWarn("肩の開き補正対象が見つかりません: applied=%d", applied)
		return applied, []string{model.BvhWarningShoulderMissing}
	}
	return applied, nil
}
