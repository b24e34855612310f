// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
)

// PreparedMotion は変換前に解決したモーションと出力先を表す。
type PreparedMotion struct {
	Motion     *model.Motion
	OutputPath string
}

// PrepareMotion はBVH入力を検証・読み込みし、VRMA出力先を解決する。ファイルは保存しない。
func (uc *Bvh2VrmaUsecase) PrepareMotion(request ConvertRequest) (*PreparedMotion, error) {
	if strings.TrimSpace(request.InputPath) == "" && request.Motion == nil {
		return nil, fmt.Errorf("入力BVHパスが未指定です")
	}
	if err := request.Options.normalizeConfig().Validate(); err != nil {
		return nil, err
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeInputValidated,
	})

	outputPath, err := resolveVrmaOutputPath(request.InputPath, request.OutputPath)
	if err != nil {
		return nil, err
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type: ConvertProgressEventTypeOutputPathResolved,
	})

	motion, err := uc.resolveMotion(request.InputPath, request.Motion)
	if err != nil {
		return nil, err
	}
	reportConvertProgress(request.ProgressReporter, ConvertProgressEvent{
		Type:       ConvertProgressEventTypeMotionLoaded,
		JointCount: motion.Skeleton.Len(),
		TrackCount: len(motion.Clip.Tracks),
	})
	return &PreparedMotion{Motion: motion, OutputPath: outputPath}, nil
}

// resolveMotion は変換対象モーションを解決し、検証する。
func (uc *Bvh2VrmaUsecase) resolveMotion(inputPath string, motion *model.Motion) (*model.Motion, error) {
	resolved := motion
	if resolved == nil {
		loaded, err := uc.LoadMotion(inputPath)
		if err != nil {
			return nil, err
		}
		resolved = loaded
	}
	if resolved == nil {
		return nil, fmt.Errorf("モーション読み込み結果が空です")
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}
