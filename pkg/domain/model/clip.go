// 指示: miu200521358
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"github.com/tiendc/go-deepcopy"
	"gonum.org/v1/gonum/spatial/r3"
)

// ChannelType はBVHのCHANNELS宣言1件を表す。
type ChannelType string

const (
	CHANNEL_X_POSITION ChannelType = "Xposition"
	CHANNEL_Y_POSITION ChannelType = "Yposition"
	CHANNEL_Z_POSITION ChannelType = "Zposition"
	CHANNEL_X_ROTATION ChannelType = "Xrotation"
	CHANNEL_Y_ROTATION ChannelType = "Yrotation"
	CHANNEL_Z_ROTATION ChannelType = "Zrotation"
)

// IsPosition は移動チャンネルか判定する。
func (c ChannelType) IsPosition() bool {
	return c == CHANNEL_X_POSITION || c == CHANNEL_Y_POSITION || c == CHANNEL_Z_POSITION
}

// IsRotation は回転チャンネルか判定する。
func (c ChannelType) IsRotation() bool {
	return c == CHANNEL_X_ROTATION || c == CHANNEL_Y_ROTATION || c == CHANNEL_Z_ROTATION
}

// Axis はチャンネルの軸ベクトルを返す。
func (c ChannelType) Axis() mgl64.Vec3 {
	switch c {
	case CHANNEL_X_POSITION, CHANNEL_X_ROTATION:
		return mgl64.Vec3{1, 0, 0}
	case CHANNEL_Y_POSITION, CHANNEL_Y_ROTATION:
		return mgl64.Vec3{0, 1, 0}
	}
	return mgl64.Vec3{0, 0, 1}
}

// ParseChannelType は大文字小文字を無視してチャンネル名を解決する。
func ParseChannelType(value string) (ChannelType, bool) {
	for _, ch := range []ChannelType{
		CHANNEL_X_POSITION, CHANNEL_Y_POSITION, CHANNEL_Z_POSITION,
		CHANNEL_X_ROTATION, CHANNEL_Y_ROTATION, CHANNEL_Z_ROTATION,
	} {
		if strings.EqualFold(string(ch), value) {
			return ch, true
		}
	}
	return "", false
}

// TrackKind はキーフレームトラックの種別を表す。
type TrackKind string

const (
	// TRACK_KIND_POSITION は移動トラック。
	TRACK_KIND_POSITION TrackKind = "position"
	// TRACK_KIND_ROTATION は回転トラック。
	TRACK_KIND_ROTATION TrackKind = "rotation"
)

// unitQuaternionEpsilon は単位クォータニオン判定の許容誤差。
const unitQuaternionEpsilon = 1e-6

// Track は関節1件・種別1件分のキーフレーム列を表す。
// Positions と Rotations は Kind に応じてどちらか一方だけを持つ。
type Track struct {
	JointIndex int
	JointName  string
	Kind       TrackKind
	Times      []float64
	Positions  []r3.Vec
	Rotations  []mgl64.Quat
}

// Len はサンプル数を返す。
func (t *Track) Len() int {
	return len(t.Times)
}

// Name は "関節名.種別" 形式の表示名を返す。
func (t *Track) Name() string {
	return fmt.Sprintf("%s.%s", t.JointName, t.Kind)
}

// Validate は時刻の単調増加と値数の整合を検証する。
func (t *Track) Validate() error {
	switch t.Kind {
	case TRACK_KIND_POSITION:
		if len(t.Positions) != len(t.Times) {
			return merrors.NewUnsupportedInputError(
				"移動トラックの値数が時刻数と一致しません: %s times=%d values=%d", nil, t.Name(), len(t.Times), len(t.Positions))
		}
	case TRACK_KIND_ROTATION:
		if len(t.Rotations) != len(t.Times) {
			return merrors.NewUnsupportedInputError(
				"回転トラックの値数が時刻数と一致しません: %s times=%d values=%d", nil, t.Name(), len(t.Times), len(t.Rotations))
		}
	default:
		return merrors.NewUnsupportedInputError("トラック種別が不正です: %s", nil, t.Kind)
	}
	if len(t.Times) == 0 {
		return merrors.NewUnsupportedInputError("トラックにキーフレームがありません: %s", nil, t.Name())
	}
	for i := 1; i < len(t.Times); i++ {
		if !(t.Times[i] > t.Times[i-1]) {
			return merrors.NewUnsupportedInputError(
				"キーフレーム時刻が単調増加していません: %s index=%d", nil, t.Name(), i)
		}
	}
	return nil
}

// NormalizeRotations は回転サンプルを単位長へ正規化する。
func (t *Track) NormalizeRotations() {
	for i, q := range t.Rotations {
		t.Rotations[i] = q.Normalize()
	}
}

// IsUnitQuaternion は単位長クォータニオンか判定する。
func IsUnitQuaternion(q mgl64.Quat) bool {
	return math.Abs(q.Len()-1) <= unitQuaternionEpsilon
}

// AnimationClip は同一尺を共有するトラック集合を表す。
type AnimationClip struct {
	Name   string
	Tracks []Track
}

// Duration は全トラック中の最大時刻を返す。
func (c *AnimationClip) Duration() float64 {
	duration := 0.0
	for _, track := range c.Tracks {
		if n := len(track.Times); n > 0 && track.Times[n-1] > duration {
			duration = track.Times[n-1]
		}
	}
	return duration
}

// FindTrack は関節インデックスと種別からトラックを返す。
func (c *AnimationClip) FindTrack(jointIndex int, kind TrackKind) (*Track, bool) {
	for i := range c.Tracks {
		if c.Tracks[i].JointIndex == jointIndex && c.Tracks[i].Kind == kind {
			return &c.Tracks[i], true
		}
	}
	return nil, false
}

// CountByKind は種別ごとのトラック数を返す。
func (c *AnimationClip) CountByKind(kind TrackKind) int {
	count := 0
	for _, track := range c.Tracks {
		if track.Kind == kind {
			count++
		}
	}
	return count
}

// Validate は全トラックを検証し、関節ごとの種別重複を拒否する。
func (c *AnimationClip) Validate(skeleton *Skeleton) error {
	if len(c.Tracks) == 0 {
		return merrors.NewUnsupportedInputError("アニメーショントラックがありません", nil)
	}
	type trackKey struct {
		jointIndex int
		kind       TrackKind
	}
	seen := map[trackKey]struct{}{}
	for i := range c.Tracks {
		track := &c.Tracks[i]
		if _, err := skeleton.Get(track.JointIndex); err != nil {
			return merrors.NewUnsupportedInputError("トラックの対象関節が存在しません: %s", err, track.Name())
		}
		if err := track.Validate(); err != nil {
			return err
		}
		key := trackKey{jointIndex: track.JointIndex, kind: track.Kind}
		if _, exists := seen[key]; exists {
			return merrors.NewUnsupportedInputError("同一関節に同種のトラックが重複しています: %s", nil, track.Name())
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Copy はクリップを深いコピーで複製する。
func (c *AnimationClip) Copy() (*AnimationClip, error) {
	copied := &AnimationClip{}
	if err := deepcopy.Copy(copied, *c); err != nil {
		return nil, fmt.Errorf("アニメーションクリップの複製に失敗しました: %w", err)
	}
	return copied, nil
}
