// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/shared/base/logging"
)

// ConvertBytes はBVHバイト列をVRMAバイト列へ変換する。ファイルは読み書きしない。
func (uc *Bvh2VrmaUsecase) ConvertBytes(src []byte, opts ConvertOptions) (*ConvertResult, error) {
	if err := opts.normalizeConfig().Validate(); err != nil {
		return nil, err
	}
	motion, err := uc.ParseMotion(opts.Name, src)
	if err != nil {
		return nil, err
	}
	return uc.ConvertMotion(motion, opts, nil)
}

// ConvertMotion は読み込み済みモーションをVRMAバイト列へ変換する。入力モーションは変更しない。
func (uc *Bvh2VrmaUsecase) ConvertMotion(
	motion *model.Motion,
	opts ConvertOptions,
	reporter IConvertProgressReporter,
) (*ConvertResult, error) {
	if err := opts.normalizeConfig().Validate(); err != nil {
		return nil, err
	}
	if uc.animationExporter == nil {
		return nil, fmt.Errorf("アニメーション出力リポジトリが設定されていません")
	}
	if err := motion.Validate(); err != nil {
		return nil, err
	}

	boneMap, warnings, err := MapHumanoidBones(motion.Skeleton)
	if err != nil {
		return nil, err
	}
	if hasDuplicateJointNames(motion.Skeleton) {
		warnings = append(warnings, model.BvhWarningDuplicateJointName)
	}
	reportConvertProgress(reporter, ConvertProgressEvent{
		Type:        ConvertProgressEventTypeBoneMappingCompleted,
		JointCount:  motion.Skeleton.Len(),
		MappedBones: boneMap.Len(),
	})

	normalized, err := NormalizeTracks(motion.Skeleton, motion.Clip, boneMap, opts.normalizeConfig())
	if err != nil {
		return nil, err
	}
	warnings = uniqueWarnings(append(warnings, normalized.Warnings...))
	reportConvertProgress(reporter, ConvertProgressEvent{
		Type:       ConvertProgressEventTypeTracksNormalized,
		JointCount: normalized.Skeleton.Len(),
		TrackCount: len(normalized.Clip.Tracks),
	})

	animation := &model.VrmAnimation{
		Skeleton: normalized.Skeleton,
		Clip:     normalized.Clip,
		Humanoid: boneMap,
		Warnings: warnings,
	}
	data, err := uc.animationExporter.Export(animation)
	if err != nil {
		return nil, fmt.Errorf("VRMAの出力に失敗しました: %w", err)
	}
	reportConvertProgress(reporter, ConvertProgressEvent{
		Type:       ConvertProgressEventTypeExported,
		ByteLength: len(data),
	})
	logConvertInfo("VRMA出力完了: name=%s bytes=%d tracks=%d bones=%d",
		motion.Name, len(data), len(normalized.Clip.Tracks), boneMap.Len())

	return &ConvertResult{
		Data:           data,
		Animation:      animation,
		SpineReference: normalized.SpineReference,
		Warnings:       warnings,
	}, nil
}

// Convert はBVH入力を読み込み、VRMAとして保存する。
func (uc *Bvh2VrmaUsecase) Convert(request ConvertRequest) (*ConvertResult, error) {
	prepared, err := uc.PrepareMotion(request)
	if err != nil {
		return nil, err
	}
	result, err := uc.ConvertMotion(prepared.Motion, request.Options, request.ProgressReporter)
	if err != nil {
		return nil, err
	}
	result.OutputPath = prepared.OutputPath

	if err := uc.SaveAnimation(result.OutputPath, result.Data); err != nil {
		return nil, err
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:       ConvertProgressEventTypeSaved,
		ByteLength: len(result.Data),
	})

	artifacts, err := uc.exportArtifacts(result.Data, request.ArtifactDir, result.OutputPath)
	if err != nil {
		return nil, err
	}
	if artifacts != nil {
		result.Artifacts = artifacts
		reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
			Type: ConvertProgressEventTypeArtifactsExported,
		})
	}
	return result, nil
}

// hasDuplicateJointNames は同名関節が存在するか判定する。
func hasDuplicateJointNames(skeleton *model.Skeleton) bool {
	seen := map[string]struct{}{}
	for _, joint := range skeleton.Joints {
		if _, exists := seen[joint.Name]; exists {
			logConvertWarn("関節名が重複しています: %s", joint.Name)
			return true
		}
		seen[joint.Name] = struct{}{}
	}
	return false
}

// uniqueWarnings は警告IDの重複を出現順を保って除去する。
func uniqueWarnings(warnings []string) []string {
	seen := map[string]struct{}{}
	unique := make([]string, 0, len(warnings))
	for _, warning := range warnings {
		if _, exists := seen[warning]; exists {
			continue
		}
		seen[warning] = struct{}{}
		unique = append(unique, warning)
	}
	return unique
}

// reportConvertProgress は変換処理の進捗を通知する。
func reportConvertProgress(reporter IConvertProgressReporter, event ConvertProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportConvertProgress(event)
}

// logConvertInfo は変換処理の情報ログを出力する。
func logConvertInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logConvertDebug は変換処理のデバッグログを出力する。
func logConvertDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logConvertWarn は変換処理の警告ログを出力する。
func logConvertWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
