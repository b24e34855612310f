// 指示: miu200521358
package model

import "github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"

// HumanBoneName はVRMヒューマノイドの正規ボーン名を表す。
type HumanBoneName string

const (
	HUMAN_BONE_HIPS        HumanBoneName = "hips"
	HUMAN_BONE_SPINE       HumanBoneName = "spine"
	HUMAN_BONE_CHEST       HumanBoneName = "chest"
	HUMAN_BONE_UPPER_CHEST HumanBoneName = "upperChest"
	HUMAN_BONE_NECK        HumanBoneName = "neck"
	HUMAN_BONE_HEAD        HumanBoneName = "head"
	HUMAN_BONE_LEFT_EYE    HumanBoneName = "leftEye"
	HUMAN_BONE_RIGHT_EYE   HumanBoneName = "rightEye"
	HUMAN_BONE_JAW         HumanBoneName = "jaw"

	HUMAN_BONE_LEFT_UPPER_LEG  HumanBoneName = "leftUpperLeg"
	HUMAN_BONE_LEFT_LOWER_LEG  HumanBoneName = "leftLowerLeg"
	HUMAN_BONE_LEFT_FOOT       HumanBoneName = "leftFoot"
	HUMAN_BONE_LEFT_TOES       HumanBoneName = "leftToes"
	HUMAN_BONE_RIGHT_UPPER_LEG HumanBoneName = "rightUpperLeg"
	HUMAN_BONE_RIGHT_LOWER_LEG HumanBoneName = "rightLowerLeg"
	HUMAN_BONE_RIGHT_FOOT      HumanBoneName = "rightFoot"
	HUMAN_BONE_RIGHT_TOES      HumanBoneName = "rightToes"

	HUMAN_BONE_LEFT_SHOULDER   HumanBoneName = "leftShoulder"
	HUMAN_BONE_LEFT_UPPER_ARM  HumanBoneName = "leftUpperArm"
	HUMAN_BONE_LEFT_LOWER_ARM  HumanBoneName = "leftLowerArm"
	HUMAN_BONE_LEFT_HAND       HumanBoneName = "leftHand"
	HUMAN_BONE_RIGHT_SHOULDER  HumanBoneName = "rightShoulder"
	HUMAN_BONE_RIGHT_UPPER_ARM HumanBoneName = "rightUpperArm"
	HUMAN_BONE_RIGHT_LOWER_ARM HumanBoneName = "rightLowerArm"
	HUMAN_BONE_RIGHT_HAND      HumanBoneName = "rightHand"

	HUMAN_BONE_LEFT_THUMB_METACARPAL    HumanBoneName = "leftThumbMetacarpal"
	HUMAN_BONE_LEFT_THUMB_PROXIMAL      HumanBoneName = "leftThumbProximal"
	HUMAN_BONE_LEFT_THUMB_DISTAL        HumanBoneName = "leftThumbDistal"
	HUMAN_BONE_LEFT_INDEX_PROXIMAL      HumanBoneName = "leftIndexProximal"
	HUMAN_BONE_LEFT_INDEX_INTERMEDIATE  HumanBoneName = "leftIndexIntermediate"
	HUMAN_BONE_LEFT_INDEX_DISTAL        HumanBoneName = "leftIndexDistal"
	HUMAN_BONE_LEFT_MIDDLE_PROXIMAL     HumanBoneName = "leftMiddleProximal"
	HUMAN_BONE_LEFT_MIDDLE_INTERMEDIATE HumanBoneName = "leftMiddleIntermediate"
	HUMAN_BONE_LEFT_MIDDLE_DISTAL       HumanBoneName = "leftMiddleDistal"
	HUMAN_BONE_LEFT_RING_PROXIMAL       HumanBoneName = "leftRingProximal"
	HUMAN_BONE_LEFT_RING_INTERMEDIATE   HumanBoneName = "leftRingIntermediate"
	HUMAN_BONE_LEFT_RING_DISTAL         HumanBoneName = "leftRingDistal"
	HUMAN_BONE_LEFT_LITTLE_PROXIMAL     HumanBoneName = "leftLittleProximal"
	HUMAN_BONE_LEFT_LITTLE_INTERMEDIATE HumanBoneName = "leftLittleIntermediate"
	HUMAN_BONE_LEFT_LITTLE_DISTAL       HumanBoneName = "leftLittleDistal"

	HUMAN_BONE_RIGHT_THUMB_METACARPAL    HumanBoneName = "rightThumbMetacarpal"
	HUMAN_BONE_RIGHT_THUMB_PROXIMAL      HumanBoneName = "rightThumbProximal"
	HUMAN_BONE_RIGHT_THUMB_DISTAL        HumanBoneName = "rightThumbDistal"
	HUMAN_BONE_RIGHT_INDEX_PROXIMAL      HumanBoneName = "rightIndexProximal"
	HUMAN_BONE_RIGHT_INDEX_INTERMEDIATE  HumanBoneName = "rightIndexIntermediate"
	HUMAN_BONE_RIGHT_INDEX_DISTAL        HumanBoneName = "rightIndexDistal"
	HUMAN_BONE_RIGHT_MIDDLE_PROXIMAL     HumanBoneName = "rightMiddleProximal"
	HUMAN_BONE_RIGHT_MIDDLE_INTERMEDIATE HumanBoneName = "rightMiddleIntermediate"
	HUMAN_BONE_RIGHT_MIDDLE_DISTAL       HumanBoneName = "rightMiddleDistal"
	HUMAN_BONE_RIGHT_RING_PROXIMAL       HumanBoneName = "rightRingProximal"
	HUMAN_BONE_RIGHT_RING_INTERMEDIATE   HumanBoneName = "rightRingIntermediate"
	HUMAN_BONE_RIGHT_RING_DISTAL         HumanBoneName = "rightRingDistal"
	HUMAN_BONE_RIGHT_LITTLE_PROXIMAL     HumanBoneName = "rightLittleProximal"
	HUMAN_BONE_RIGHT_LITTLE_INTERMEDIATE HumanBoneName = "rightLittleIntermediate"
	HUMAN_BONE_RIGHT_LITTLE_DISTAL       HumanBoneName = "rightLittleDistal"
)

// HumanBoneNames はVRM 1.0 ヒューマノイドの語彙を定義順で保持する。
var HumanBoneNames = []HumanBoneName{
	HUMAN_BONE_HIPS, HUMAN_BONE_SPINE, HUMAN_BONE_CHEST, HUMAN_BONE_UPPER_CHEST,
	HUMAN_BONE_NECK, HUMAN_BONE_HEAD, HUMAN_BONE_LEFT_EYE, HUMAN_BONE_RIGHT_EYE, HUMAN_BONE_JAW,
	HUMAN_BONE_LEFT_UPPER_LEG, HUMAN_BONE_LEFT_LOWER_LEG, HUMAN_BONE_LEFT_FOOT, HUMAN_BONE_LEFT_TOES,
	HUMAN_BONE_RIGHT_UPPER_LEG, HUMAN_BONE_RIGHT_LOWER_LEG, HUMAN_BONE_RIGHT_FOOT, HUMAN_BONE_RIGHT_TOES,
	HUMAN_BONE_LEFT_SHOULDER, HUMAN_BONE_LEFT_UPPER_ARM, HUMAN_BONE_LEFT_LOWER_ARM, HUMAN_BONE_LEFT_HAND,
	HUMAN_BONE_RIGHT_SHOULDER, HUMAN_BONE_RIGHT_UPPER_ARM, HUMAN_BONE_RIGHT_LOWER_ARM, HUMAN_BONE_RIGHT_HAND,
	HUMAN_BONE_LEFT_THUMB_METACARPAL, HUMAN_BONE_LEFT_THUMB_PROXIMAL, HUMAN_BONE_LEFT_THUMB_DISTAL,
	HUMAN_BONE_LEFT_INDEX_PROXIMAL, HUMAN_BONE_LEFT_INDEX_INTERMEDIATE, HUMAN_BONE_LEFT_INDEX_DISTAL,
	HUMAN_BONE_LEFT_MIDDLE_PROXIMAL, HUMAN_BONE_LEFT_MIDDLE_INTERMEDIATE, HUMAN_BONE_LEFT_MIDDLE_DISTAL,
	HUMAN_BONE_LEFT_RING_PROXIMAL, HUMAN_BONE_LEFT_RING_INTERMEDIATE, HUMAN_BONE_LEFT_RING_DISTAL,
	HUMAN_BONE_LEFT_LITTLE_PROXIMAL, HUMAN_BONE_LEFT_LITTLE_INTERMEDIATE, HUMAN_BONE_LEFT_LITTLE_DISTAL,
	HUMAN_BONE_RIGHT_THUMB_METACARPAL, HUMAN_BONE_RIGHT_THUMB_PROXIMAL, HUMAN_BONE_RIGHT_THUMB_DISTAL,
	HUMAN_BONE_RIGHT_INDEX_PROXIMAL, HUMAN_BONE_RIGHT_INDEX_INTERMEDIATE, HUMAN_BONE_RIGHT_INDEX_DISTAL,
	HUMAN_BONE_RIGHT_MIDDLE_PROXIMAL, HUMAN_BONE_RIGHT_MIDDLE_INTERMEDIATE, HUMAN_BONE_RIGHT_MIDDLE_DISTAL,
	HUMAN_BONE_RIGHT_RING_PROXIMAL, HUMAN_BONE_RIGHT_RING_INTERMEDIATE, HUMAN_BONE_RIGHT_RING_DISTAL,
	HUMAN_BONE_RIGHT_LITTLE_PROXIMAL, HUMAN_BONE_RIGHT_LITTLE_INTERMEDIATE, HUMAN_BONE_RIGHT_LITTLE_DISTAL,
}

// HumanoidBoneMap は正規ボーン名と関節インデックスの双方向対応を表す。
type HumanoidBoneMap struct {
	jointByBone map[HumanBoneName]int
	boneByJoint map[int]HumanBoneName
}

// NewHumanoidBoneMap は空のHumanoidBoneMapを生成する。
func NewHumanoidBoneMap() *HumanoidBoneMap {
	return &HumanoidBoneMap{
		jointByBone: map[HumanBoneName]int{},
		boneByJoint: map[int]HumanBoneName{},
	}
}

// Set は正規ボーンへ関節を割り当てる。既に別ボーンへ割り当て済みの関節は拒否する。
func (m *HumanoidBoneMap) Set(bone HumanBoneName, jointIndex int) bool {
	if _, exists := m.boneByJoint[jointIndex]; exists {
		return false
	}
	if previous, exists := m.jointByBone[bone]; exists {
		delete(m.boneByJoint, previous)
	}
	m.jointByBone[bone] = jointIndex
	m.boneByJoint[jointIndex] = bone
	return true
}

// Get は正規ボーンに割り当てられた関節インデックスを返す。
func (m *HumanoidBoneMap) Get(bone HumanBoneName) (int, bool) {
	if m == nil {
		return NoParent, false
	}
	index, ok := m.jointByBone[bone]
	return index, ok
}

// BoneOf は関節インデックスに割り当てられた正規ボーンを返す。
func (m *HumanoidBoneMap) BoneOf(jointIndex int) (HumanBoneName, bool) {
	if m == nil {
		return "", false
	}
	bone, ok := m.boneByJoint[jointIndex]
	return bone, ok
}

// Len は割り当て済みボーン数を返す。
func (m *HumanoidBoneMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.jointByBone)
}

// Bones は割り当て済みボーン名を語彙順で返す。
func (m *HumanoidBoneMap) Bones() []HumanBoneName {
	bones := make([]HumanBoneName, 0, m.Len())
	for _, bone := range HumanBoneNames {
		if _, ok := m.Get(bone); ok {
			bones = append(bones, bone)
		}
	}
	return bones
}

// Validate は必須のhipsが割り当て済みか検証する。
func (m *HumanoidBoneMap) Validate() error {
	if _, ok := m.Get(HUMAN_BONE_HIPS); !ok {
		return merrors.NewUnmappableSkeletonError("hipsに該当する関節が見つかりません", nil)
	}
	return nil
}
