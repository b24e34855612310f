// 指示: miu200521358
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_bvh2vrma/pkg/infra/config"
	"github.com/miu200521358/mu_bvh2vrma/pkg/shared/base/logging"
	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/minteractor"
	"github.com/spf13/cobra"
)

// 変換系コマンドのフラグ名。
const (
	flagScale     = "scale"
	flagArmSpread = "arm-spread"
	flagNoScaling = "no-scaling"
	flagArtifacts = "artifacts"
)

// addConvertFlags は変換オプションのフラグを登録する。
func (a *app) addConvertFlags(cmd *cobra.Command) {
	defaults := config.DefaultPreset()
	cmd.Flags().Float64(flagScale, defaults.Scale, a.t(messages.FlagScale))
	cmd.Flags().Float64(flagArmSpread, defaults.ArmSpread, a.t(messages.FlagArmSpread))
	cmd.Flags().Bool(flagNoScaling, false, a.t(messages.FlagNoScaling))
	cmd.Flags().String(flagArtifacts, "", a.t(messages.FlagArtifacts))
}

// bindConvertFlags は明示指定された変換フラグだけを設定上書きへ反映する。
func bindConvertFlags(cmd *cobra.Command, flags *config.Flags) {
	if f := cmd.Flags().Lookup(flagScale); f != nil && f.Changed {
		value, _ := cmd.Flags().GetFloat64(flagScale)
		flags.Scale = &value
	}
	if f := cmd.Flags().Lookup(flagArmSpread); f != nil && f.Changed {
		value, _ := cmd.Flags().GetFloat64(flagArmSpread)
		flags.ArmSpread = &value
	}
	if f := cmd.Flags().Lookup(flagNoScaling); f != nil && f.Changed {
		value, _ := cmd.Flags().GetBool(flagNoScaling)
		flags.NoScaling = &value
	}
	if f := cmd.Flags().Lookup(flagArtifacts); f != nil && f.Changed {
		value, _ := cmd.Flags().GetString(flagArtifacts)
		flags.ArtifactDir = &value
	}
}

func (a *app) newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input.bvh> [output.vrma]",
		Short: a.t(messages.HelpConvertShort),
		Args:  cobra.RangeArgs(1, 2),
		RunE:  a.runConvert,
	}
	a.addConvertFlags(cmd)
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	preset, err := a.loadPreset(cmd)
	if err != nil {
		return err
	}
	if err := preset.Validate(); err != nil {
		return err
	}
	outputPath := ""
	if len(args) > 1 {
		outputPath = args[1]
	}
	result, err := a.convertFile(args[0], outputPath, preset)
	if err != nil {
		logErrorTitle(a.logger, a.t(messages.MessageConvertFailed), err)
		return err
	}
	fmt.Fprintln(a.out, result.OutputPath)
	return nil
}

// convertFile はBVHファイル1件を変換して保存し、警告を翻訳して出力する。
func (a *app) convertFile(inputPath string, outputPath string, preset config.Preset) (*minteractor.ConvertResult, error) {
	a.logger.Info(a.t(messages.LogLoadStart), filepath.Base(inputPath))
	result, err := a.usecase.Convert(minteractor.ConvertRequest{
		InputPath:        inputPath,
		OutputPath:       outputPath,
		ArtifactDir:      preset.ArtifactDir,
		Options:          preset.ConvertOptions(""),
		ProgressReporter: &progressLogger{logger: a.logger},
	})
	if err != nil {
		return nil, err
	}
	for _, warning := range result.Warnings {
		a.logger.Warn(a.t(messages.LogWarning), a.t(warning))
	}
	a.logger.Info(a.t(messages.LogConvertSuccess), result.OutputPath)
	if result.Artifacts != nil {
		a.logger.Info(a.t(messages.LogArtifacts), result.Artifacts.GltfPath)
	}
	return result, nil
}

// progressLogger は変換進捗をデバッグログへ出力する。
type progressLogger struct {
	logger logging.ILogger
}

// ReportConvertProgress は変換進捗を出力する。
func (p *progressLogger) ReportConvertProgress(event minteractor.ConvertProgressEvent) {
	if p.logger == nil {
		return
	}
	p.logger.Debug("変換進捗: type=%s joints=%d tracks=%d bones=%d bytes=%d",
		event.Type, event.JointCount, event.TrackCount, event.MappedBones, event.ByteLength)
}
