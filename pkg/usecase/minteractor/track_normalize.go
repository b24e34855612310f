// 指示: miu200521358
package minteractor

import (
	"math"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultScale はBVHのセンチメートル値をメートルへ変換する既定倍率。
	DefaultScale = 0.01
	// DefaultArmSpread は肩の開き補正の既定角度(度)。
	DefaultArmSpread = 0.0
	// groundEpsilon は接地済み警告を出す持ち上げ量の上限。
	groundEpsilon = 1e-9
)

// NormalizeConfig はトラック正規化の設定を表す。
type NormalizeConfig struct {
	Scale     float64
	ArmSpread float64
}

// DefaultNormalizeConfig は既定のトラック正規化設定を返す。
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{Scale: DefaultScale, ArmSpread: DefaultArmSpread}
}

// Validate は設定値を検証する。
func (c NormalizeConfig) Validate() error {
	if math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) || c.Scale <= 0 {
		return merrors.NewScaleOutOfRangeError(c.Scale)
	}
	if math.IsNaN(c.ArmSpread) || math.IsInf(c.ArmSpread, 0) {
		return merrors.NewUnsupportedInputError("肩の開き角度が有限値ではありません: %v", nil, c.ArmSpread)
	}
	return nil
}

// NormalizeResult はトラック正規化結果を表す。
// SpineReference は出力しないspine移動トラックで、存在しない場合はnil。
type NormalizeResult struct {
	Skeleton       *model.Skeleton
	Clip           *model.AnimationClip
	SpineReference *model.Track
	GroundOffset   float64
	Warnings       []string
}

// NormalizeTracks は骨格とクリップの複製に単位変換・チャンネル選別・肩補正・hips補正・接地補正を順に適用する。
// 入力の骨格とクリップは変更しない。
func NormalizeTracks(
	skeleton *model.Skeleton,
	clip *model.AnimationClip,
	boneMap *model.HumanoidBoneMap,
	config NormalizeConfig,
) (*NormalizeResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if skeleton == nil || skeleton.Len() == 0 {
		return nil, merrors.NewUnsupportedInputError("正規化対象の骨格がありません", nil)
	}
	if clip == nil || len(clip.Tracks) == 0 {
		return nil, merrors.NewUnsupportedInputError("正規化対象のトラックがありません", nil)
	}
	if err := boneMap.Validate(); err != nil {
		return nil, err
	}
	hipsIndex, _ := boneMap.Get(model.HUMAN_BONE_HIPS)

	workSkeleton, err := skeleton.Copy()
	if err != nil {
		return nil, err
	}
	workClip, err := clip.Copy()
	if err != nil {
		return nil, err
	}

	result := &NormalizeResult{Skeleton: workSkeleton}

	scaleMotion(workSkeleton, workClip, config.Scale)

	filtered, spineReference, warnings := filterTracks(workSkeleton, workClip, boneMap)
	result.Clip = filtered
	result.SpineReference = spineReference
	result.Warnings = append(result.Warnings, warnings...)

	_, warnings = applyArmSpread(filtered, boneMap, config.ArmSpread)
	result.Warnings = append(result.Warnings, warnings...)

	if !subtractHipsOffset(workSkeleton, filtered, hipsIndex) {
		result.Warnings = append(result.Warnings, model.BvhWarningHipsPositionMissing)
	}

	result.GroundOffset = groundSkeleton(workSkeleton)
	if result.GroundOffset <= groundEpsilon {
		result.Warnings = append(result.Warnings, model.BvhWarningAlreadyGrounded)
	}

	for i := range filtered.Tracks {
		filtered.Tracks[i].NormalizeRotations()
	}
	logConvertDebug(
		"トラック正規化完了: tracks=%d scale=%f armSpread=%f groundOffset=%f",
		len(filtered.Tracks), config.Scale, config.ArmSpread, result.GroundOffset,
	)
	return result, nil
}

// scaleMotion は関節オフセットと移動サンプルへ倍率を掛ける。
func scaleMotion(skeleton *model.Skeleton, clip *model.AnimationClip, scale float64) {
	skeleton.Scale(scale)
	for i := range clip.Tracks {
		track := &clip.Tracks[i]
		for j, position := range track.Positions {
			track.Positions[j] = r3.Scale(scale, position)
		}
	}
}

// filterTracks は回転トラックを全て残し、移動トラックはhipsのみ残す。spineの移動トラックは参照用に取り出す。
// spineが移動チャンネルを宣言しているのに参照トラックが無い場合だけ欠落警告を出す。
func filterTracks(
	skeleton *model.Skeleton,
	clip *model.AnimationClip,
	boneMap *model.HumanoidBoneMap,
) (*model.AnimationClip, *model.Track, []string) {
	hipsIndex, _ := boneMap.Get(model.HUMAN_BONE_HIPS)
	spineIndex, hasSpine := boneMap.Get(model.HUMAN_BONE_SPINE)

	filtered := &model.AnimationClip{Name: clip.Name, Tracks: make([]model.Track, 0, len(clip.Tracks))}
	var spineReference *model.Track
	dropped := 0
	for _, track := range clip.Tracks {
		switch {
		case track.Kind == model.TRACK_KIND_ROTATION:
			filtered.Tracks = append(filtered.Tracks, track)
		case track.JointIndex == hipsIndex:
			filtered.Tracks = append(filtered.Tracks, track)
		case hasSpine && track.JointIndex == spineIndex:
			spine := track
			spineReference = &spine
		default:
			dropped++
		}
	}

	warnings := []string{}
	if dropped > 0 {
		logConvertDebug("hips以外の移動トラックを破棄しました: count=%d", dropped)
		warnings = append(warnings, model.BvhWarningPositionTrackDropped)
	}
	if spineReference == nil && hasSpine && skeleton.Joints[spineIndex].HasPositionChannel() {
		warnings = append(warnings, model.BvhWarningSpineReferenceMissing)
	}
	return filtered, spineReference, warnings
}

// subtractHipsOffset はhips移動サンプルからhipsのレストポーズのローカル位置を差し引く。
func subtractHipsOffset(skeleton *model.Skeleton, clip *model.AnimationClip, hipsIndex int) bool {
	track, ok := clip.FindTrack(hipsIndex, model.TRACK_KIND_POSITION)
	if !ok {
		logConvertWarn("hipsの移動トラックがありません")
		return false
	}
	offset := skeleton.Joints[hipsIndex].Offset
	for i, position := range track.Positions {
		track.Positions[i] = r3.Sub(position, offset)
	}
	return true
}

// groundSkeleton はレストポーズの最下点が床より下にある場合にルートを持ち上げ、持ち上げ量を返す。
func groundSkeleton(skeleton *model.Skeleton) float64 {
	box := skeleton.BoundingBox()
	if box.Min.Y >= 0 {
		return 0
	}
	root := skeleton.Root()
	start := root.Offset.Y
	root.Offset.Y -= box.Min.Y
	// 加算の丸めで床下に残った分は最小単位ずつ持ち上げる。
	for i := 0; i < 8; i++ {
		if skeleton.BoundingBox().Min.Y >= 0 {
			break
		}
		root.Offset.Y = math.Nextafter(root.Offset.Y, math.Inf(1))
	}
	return root.Offset.Y - start
}
