// 指示: miu200521358
package model

const (
	// BvhWarningExtensionKey は変換時警告ID集合を出力する際のキー。
	BvhWarningExtensionKey = "MU_BVH2VRMA_warnings"

	// BvhWarningHumanBoneMissing は必須でないヒューマノイドボーン未検出警告。
	BvhWarningHumanBoneMissing = "BvhWarningHumanBoneMissing"
	// BvhWarningHipsPositionMissing はhips移動トラック欠落警告。
	BvhWarningHipsPositionMissing = "BvhWarningHipsPositionMissing"
	// BvhWarningSpineReferenceMissing はspine参照移動トラック欠落警告。
	BvhWarningSpineReferenceMissing = "BvhWarningSpineReferenceMissing"
	// BvhWarningAlreadyGrounded は接地補正不要警告。
	BvhWarningAlreadyGrounded = "BvhWarningAlreadyGrounded"
	// BvhWarningPositionTrackDropped はhips以外の移動トラック破棄警告。
	BvhWarningPositionTrackDropped = "BvhWarningPositionTrackDropped"
	// BvhWarningDuplicateJointName は関節名重複警告。
	BvhWarningDuplicateJointName = "BvhWarningDuplicateJointName"
	// BvhWarningShoulderMissing は肩補正対象欠落警告。
	BvhWarningShoulderMissing = "BvhWarningShoulderMissing"
)
