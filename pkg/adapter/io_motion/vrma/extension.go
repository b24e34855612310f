// 指示: miu200521358
package vrma

import (
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"github.com/qmuntal/gltf"
)

const (
	// VrmAnimationExtensionName はVRMアニメーション拡張の名前。
	VrmAnimationExtensionName = "VRMC_vrm_animation"
	// VrmAnimationSpecVersion は出力する拡張の仕様バージョン。
	VrmAnimationSpecVersion = "1.0"
)

// vrmAnimationExtension はVRMC_vrm_animation拡張のJSON表現。
type vrmAnimationExtension struct {
	SpecVersion string                   `json:"specVersion"`
	Humanoid    vrmAnimationHumanoid     `json:"humanoid"`
	Extras      vrmAnimationExtensionExt `json:"extras"`
}

type vrmAnimationHumanoid struct {
	HumanBones map[string]vrmAnimationHumanBone `json:"humanBones"`
}

type vrmAnimationHumanBone struct {
	Node int `json:"node"`
}

// vrmAnimationExtensionExt はボーンごとのチャンネル対応と尺を保持する。
type vrmAnimationExtensionExt struct {
	Duration          float64                             `json:"duration"`
	HumanBoneChannels map[string]vrmAnimationBoneChannels `json:"humanBoneChannels"`
}

type vrmAnimationBoneChannels struct {
	Rotation    *int `json:"rotation,omitempty"`
	Translation *int `json:"translation,omitempty"`
}

// writeVrmAnimationExtension は対応付け済みかつアニメーションを持つボーンを拡張として文書へ書き込む。
// 移動チャンネルはhipsのみ登録する。
func writeVrmAnimationExtension(
	doc *gltf.Document,
	animation *model.VrmAnimation,
	nodeIndexByJoint map[int]int,
	bindings map[int]*channelBinding,
) error {
	hipsIndex, ok := animation.Humanoid.Get(model.HUMAN_BONE_HIPS)
	if !ok {
		return merrors.NewUnmappableSkeletonError("hipsに該当する関節が見つかりません", nil)
	}

	extension := vrmAnimationExtension{
		SpecVersion: VrmAnimationSpecVersion,
		Humanoid:    vrmAnimationHumanoid{HumanBones: map[string]vrmAnimationHumanBone{}},
		Extras: vrmAnimationExtensionExt{
			Duration:          animation.Clip.Duration(),
			HumanBoneChannels: map[string]vrmAnimationBoneChannels{},
		},
	}
	for _, bone := range animation.Humanoid.Bones() {
		jointIndex, _ := animation.Humanoid.Get(bone)
		binding, animated := bindings[jointIndex]
		if !animated {
			continue
		}
		channels := vrmAnimationBoneChannels{Rotation: binding.Rotation}
		if jointIndex == hipsIndex {
			channels.Translation = binding.Translation
		}
		if channels.Rotation == nil && channels.Translation == nil {
			continue
		}
		extension.Humanoid.HumanBones[string(bone)] = vrmAnimationHumanBone{Node: nodeIndexByJoint[jointIndex]}
		extension.Extras.HumanBoneChannels[string(bone)] = channels
	}

	if doc.Extensions == nil {
		doc.Extensions = gltf.Extensions{}
	}
	doc.Extensions[VrmAnimationExtensionName] = extension
	doc.ExtensionsUsed = appendUnique(doc.ExtensionsUsed, VrmAnimationExtensionName)
	logVrmaDebug("VRMアニメーション拡張: humanBones=%d", len(extension.Humanoid.HumanBones))
	return nil
}

func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}
