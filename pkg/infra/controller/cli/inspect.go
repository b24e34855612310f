// 指示: miu200521358
package cli

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/io_motion/vrma"
	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/minteractor"
	"github.com/spf13/cobra"
)

func (a *app) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.vrma>",
		Short: a.t(messages.HelpInspectShort),
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInspect,
	}
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	if _, err := a.loadPreset(cmd); err != nil {
		return err
	}
	summary, err := a.vrmaRepo.Load(args[0])
	if err != nil {
		logErrorTitle(a.logger, a.t(messages.MessageInspectFailed), err)
		return err
	}
	writeInspectSummary(a, summary)
	return nil
}

// writeInspectSummary は確認結果を表形式で出力する。
func writeInspectSummary(a *app, summary *vrma.InspectSummary) {
	fmt.Fprintf(a.out, "generator: %s\n", summary.Generator)
	fmt.Fprintf(a.out, "specVersion: %s\n", summary.SpecVersion)
	fmt.Fprintf(a.out, "extensionsUsed: %s\n", strings.Join(summary.ExtensionsUsed, ","))
	fmt.Fprintf(a.out, "animation: %s\n", summary.AnimationName)
	fmt.Fprintf(a.out, "duration: %.4f\n", summary.Duration)
	fmt.Fprintf(a.out, "nodes: %d accessors: %d channels: %d\n",
		summary.NodeCount, summary.AccessorCount, summary.ChannelCount)
	for _, name := range summary.BoneNames() {
		bone := summary.HumanBones[name]
		fmt.Fprintf(a.out, "  %-24s node=%d rotation=%d translation=%d\n",
			name, bone.Node, bone.Rotation, bone.Translation)
	}
	for _, warning := range summary.Warnings {
		fmt.Fprintf(a.out, "warning: %s\n", a.t(warning))
	}
}

func (a *app) newSplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split <file.vrma> [dir]",
		Short: a.t(messages.HelpSplitShort),
		Args:  cobra.RangeArgs(1, 2),
		RunE:  a.runSplit,
	}
}

func (a *app) runSplit(cmd *cobra.Command, args []string) error {
	if _, err := a.loadPreset(cmd); err != nil {
		return err
	}
	inputPath := args[0]
	outputDir := minteractor.BuildDefaultArtifactDir(inputPath)
	if len(args) > 1 {
		outputDir = args[1]
	}
	paths, err := a.vrmaRepo.Split(inputPath, outputDir)
	if err != nil {
		logErrorTitle(a.logger, a.t(messages.MessageSplitFailed), err)
		return err
	}
	a.logger.Info(a.t(messages.LogArtifacts), paths.GltfPath)
	fmt.Fprintln(a.out, paths.GltfPath)
	if paths.BinPath != "" {
		fmt.Fprintln(a.out, paths.BinPath)
	}
	return nil
}
