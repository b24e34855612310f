// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/port/moutput"
)

// ArtifactPaths は分解出力したファイルのパスを表す。
type ArtifactPaths = moutput.ArtifactPaths

// ConvertOptions は変換時オプションを表す。
type ConvertOptions struct {
	Name      string
	Scale     float64
	ArmSpread float64
}

// DefaultConvertOptions は既定の変換時オプションを返す。
func DefaultConvertOptions() ConvertOptions {
	config := DefaultNormalizeConfig()
	return ConvertOptions{Scale: config.Scale, ArmSpread: config.ArmSpread}
}

// Validate は倍率と肩の開き角度を検証する。
func (o ConvertOptions) Validate() error {
	return o.normalizeConfig().Validate()
}

// normalizeConfig は正規化設定へ変換する。
func (o ConvertOptions) normalizeConfig() NormalizeConfig {
	return NormalizeConfig{Scale: o.Scale, ArmSpread: o.ArmSpread}
}

// ConvertProgressEventType は変換処理の進捗イベント種別を表す。
type ConvertProgressEventType string

const (
	// ConvertProgressEventTypeInputValidated は入力検証完了イベントを表す。
	ConvertProgressEventTypeInputValidated ConvertProgressEventType = "input_validated"
	// ConvertProgressEventTypeOutputPathResolved は出力パス解決完了イベントを表す。
	ConvertProgressEventTypeOutputPathResolved ConvertProgressEventType = "output_path_resolved"
	// ConvertProgressEventTypeMotionLoaded はモーション読込完了イベントを表す。
	ConvertProgressEventTypeMotionLoaded ConvertProgressEventType = "motion_loaded"
	// ConvertProgressEventTypeBoneMappingCompleted はボーン対応付け完了イベントを表す。
	ConvertProgressEventTypeBoneMappingCompleted ConvertProgressEventType = "bone_mapping_completed"
	// ConvertProgressEventTypeTracksNormalized はトラック正規化完了イベントを表す。
	ConvertProgressEventTypeTracksNormalized ConvertProgressEventType = "tracks_normalized"
	// ConvertProgressEventTypeExported はコンテナ出力完了イベントを表す。
	ConvertProgressEventTypeExported ConvertProgressEventType = "exported"
	// ConvertProgressEventTypeSaved はファイル保存完了イベントを表す。
	ConvertProgressEventTypeSaved ConvertProgressEventType = "saved"
	// ConvertProgressEventTypeArtifactsExported は分解出力完了イベントを表す。
	ConvertProgressEventTypeArtifactsExported ConvertProgressEventType = "artifacts_exported"
)

// ConvertProgressEvent は変換処理の進捗イベントを表す。
type ConvertProgressEvent struct {
	Type        ConvertProgressEventType
	JointCount  int
	TrackCount  int
	MappedBones int
	ByteLength  int
}

// IConvertProgressReporter は変換処理の進捗通知契約を表す。
type IConvertProgressReporter interface {
	// ReportConvertProgress は変換処理進捗を通知する。
	ReportConvertProgress(event ConvertProgressEvent)
}

// ConvertRequest はBVH変換要求を表す。
type ConvertRequest struct {
	InputPath        string
	OutputPath       string
	ArtifactDir      string
	Motion           *model.Motion
	Options          ConvertOptions
	ProgressReporter IConvertProgressReporter
}

// ConvertResult はBVH変換結果を表す。
type ConvertResult struct {
	OutputPath     string
	Data           []byte
	Animation      *model.VrmAnimation
	SpineReference *model.Track
	Artifacts      *ArtifactPaths
	Warnings       []string
}
