// 指示: miu200521358
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/mpresenter/messages"
	"github.com/spf13/cobra"
)

const (
	flagOutputDir = "out-dir"
	flagRecursive = "recursive"
	flagKeepGoing = "keep-going"
)

// batchFailure は一括変換で失敗したファイルを表す。
type batchFailure struct {
	path string
	err  error
}

func (a *app) newBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: a.t(messages.HelpBatchShort),
		Args:  cobra.ExactArgs(1),
		RunE:  a.runBatch,
	}
	a.addConvertFlags(cmd)
	cmd.Flags().StringP(flagOutputDir, "o", "", a.t(messages.FlagOutputDir))
	cmd.Flags().BoolP(flagRecursive, "r", false, a.t(messages.FlagRecursive))
	cmd.Flags().Bool(flagKeepGoing, true, a.t(messages.FlagSkipFailed))
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, args []string) error {
	preset, err := a.loadPreset(cmd)
	if err != nil {
		return err
	}
	if err := preset.Validate(); err != nil {
		return err
	}
	outputDir, _ := cmd.Flags().GetString(flagOutputDir)
	recursive, _ := cmd.Flags().GetBool(flagRecursive)
	keepGoing, _ := cmd.Flags().GetBool(flagKeepGoing)

	files, err := collectBvhFiles(args[0], recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New(a.t(messages.MessageNoInputFiles))
	}
	a.logger.Info(a.t(messages.LogBatchStart), len(files))

	bar := pb.New(len(files))
	bar.SetWriter(a.errOut)
	bar.Start()

	succeeded := 0
	failures := []batchFailure{}
	for _, path := range files {
		outputPath := ""
		if strings.TrimSpace(outputDir) != "" {
			outputPath = batchOutputPath(args[0], path, outputDir)
		}
		result, err := a.convertFile(path, outputPath, preset)
		bar.Increment()
		if err != nil {
			a.logger.Error(a.t(messages.LogBatchFailed), path, err)
			failures = append(failures, batchFailure{path: path, err: err})
			if !keepGoing {
				break
			}
			continue
		}
		succeeded++
		fmt.Fprintln(a.out, result.OutputPath)
	}
	bar.Finish()

	a.logger.Info(a.t(messages.LogBatchSummary), succeeded, len(failures))
	if len(failures) > 0 {
		return fmt.Errorf("%s: %s: %w", a.t(messages.MessageBatchHasErrors), failures[0].path, failures[0].err)
	}
	return nil
}

// batchOutputPath は入力ディレクトリからの相対パスを保ったまま出力先を組み立てる。
// サブディレクトリに同名ファイルがあっても上書きしない。
func batchOutputPath(inputDir string, path string, outputDir string) string {
	rel, err := filepath.Rel(inputDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	return filepath.Join(outputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".vrma")
}

// collectBvhFiles はディレクトリ内のBVHファイルをパス順で返す。
func collectBvhFiles(dir string, recursive bool) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".bvh") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("入力ディレクトリの走査に失敗しました: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
