// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/io_motion/bvh"
	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/io_motion/vrma"
	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
)

// batchConfig はバッチ変換の実行設定を表す。
type batchConfig struct {
	InputRoot  string
	OutputRoot string
	Scale      float64
	ArmSpread  float64
	DryRun     bool
	FailFast   bool
}

// conversionEntry は1モーション分の変換入力情報を表す。
type conversionEntry struct {
	Index      int
	SourcePath string
	MotionName string
	CaseDir    string
	OutputPath string
}

// conversionResult は1モーション分の変換結果を表す。
type conversionResult struct {
	Entry        conversionEntry
	Status       string
	Duration     time.Duration
	Err          error
	StageSummary string
	Summary      *vrma.InspectSummary
}

// convertProgressCollector は Convert の進捗イベントを収集する。
type convertProgressCollector struct {
	eventCounts map[minteractor.ConvertProgressEventType]int
	jointMax    int
	trackMax    int
	boneMax     int
	byteLength  int
}

// main はBVHディレクトリを一括でVRMAへ変換し、出力を再読込して検証する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括変換を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	inputPaths, err := collectInputPaths(config.InputRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "入力解決に失敗しました: %v\n", err)
		return 2
	}
	entries := buildConversionEntries(config.OutputRoot, inputPaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "変換対象モーションがありません")
		return 2
	}

	results := executeBatchConversion(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	inputRoot := flag.String("input-root", "", "BVHを探索する入力ディレクトリ")
	outputRoot := flag.String("output-root", defaultOutputRoot, "変換結果の出力ルートディレクトリ")
	scale := flag.Float64("scale", minteractor.DefaultScale, "単位変換倍率")
	armSpread := flag.Float64("arm-spread", minteractor.DefaultArmSpread, "肩の開き補正角度(度)")
	dryRun := flag.Bool("dry-run", false, "実変換せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	trimmedInputRoot := strings.TrimSpace(*inputRoot)
	if trimmedInputRoot == "" {
		return batchConfig{}, errors.New("input-root が空です")
	}
	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	options := minteractor.ConvertOptions{Scale: *scale, ArmSpread: *armSpread}
	if err := options.Validate(); err != nil {
		return batchConfig{}, err
	}
	return batchConfig{
		InputRoot:  filepath.Clean(trimmedInputRoot),
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		Scale:      *scale,
		ArmSpread:  *armSpread,
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// collectInputPaths は入力ディレクトリ配下のBVHを再帰的に集めてパス順で返す。
func collectInputPaths(root string) ([]string, error) {
	paths := []string{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(path), ".bvh") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// buildConversionEntries は入力パス一覧から変換対象エントリを生成する。
func buildConversionEntries(outputRoot string, inputPaths []string) []conversionEntry {
	entries := make([]conversionEntry, 0, len(inputPaths))
	for i, path := range inputPaths {
		motionName := resolveMotionName(path)
		safeName := sanitizePathComponent(motionName)
		caseDir := filepath.Join(outputRoot, fmt.Sprintf("%03d_%s", i+1, safeName))
		entries = append(entries, conversionEntry{
			Index:      i + 1,
			SourcePath: path,
			MotionName: motionName,
			CaseDir:    caseDir,
			OutputPath: filepath.Join(caseDir, safeName+".vrma"),
		})
	}
	return entries
}

// executeBatchConversion は全モーションの変換処理を順次実行する。
func executeBatchConversion(config batchConfig, entries []conversionEntry) []conversionResult {
	results := make([]conversionResult, 0, len(entries))
	vrmaRepo := vrma.NewVrmaRepository()
	usecase := minteractor.NewBvh2VrmaUsecase(minteractor.Bvh2VrmaUsecaseDeps{
		MotionReader:      bvh.NewBvhRepository(),
		AnimationExporter: vrma.NewExporter(),
		FileWriter:        vrmaRepo,
		ArtifactExporter:  vrma.NewArtifactExporter(),
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 変換開始: motion=%s\n", entry.Index, total, entry.MotionName)
		result := convertMotionEntry(usecase, vrmaRepo, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 変換成功: motion=%s output=%s elapsed=%s\n",
				entry.Index, total, entry.MotionName, entry.OutputPath, result.Duration.Round(time.Millisecond))
			fmt.Printf("[%d/%d] 出力確認: bones=%d channels=%d duration=%.4f warnings=%s\n",
				entry.Index, total, len(result.Summary.HumanBones), result.Summary.ChannelCount,
				result.Summary.Duration, strings.Join(result.Summary.Warnings, ","))
			if strings.TrimSpace(result.StageSummary) != "" {
				fmt.Printf("[%d/%d] Convert進捗: %s\n", entry.Index, total, result.StageSummary)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: motion=%s input=%s output=%s\n",
				entry.Index, total, entry.MotionName, entry.SourcePath, entry.OutputPath)
		default:
			fmt.Printf("[%d/%d] 変換失敗: motion=%s reason=%v\n", entry.Index, total, entry.MotionName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// convertMotionEntry は1モーション分の変換と再読込検証を実行する。
func convertMotionEntry(
	usecase *minteractor.Bvh2VrmaUsecase,
	vrmaRepo *vrma.VrmaRepository,
	config batchConfig,
	entry conversionEntry,
) conversionResult {
	result := conversionResult{Entry: entry, Status: "failed"}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	progressCollector := newConvertProgressCollector()
	converted, err := usecase.Convert(minteractor.ConvertRequest{
		InputPath:        entry.SourcePath,
		OutputPath:       entry.OutputPath,
		ArtifactDir:      minteractor.BuildDefaultArtifactDir(entry.OutputPath),
		Options:          minteractor.ConvertOptions{Scale: config.Scale, ArmSpread: config.ArmSpread},
		ProgressReporter: progressCollector,
	})
	if err != nil {
		result.Err = fmt.Errorf("Convertに失敗しました: %w", err)
		return result
	}
	summary, err := vrmaRepo.Load(converted.OutputPath)
	if err != nil {
		result.Err = fmt.Errorf("出力VRMAの再読込に失敗しました: %w", err)
		return result
	}
	if _, ok := summary.HumanBones["hips"]; !ok {
		result.Err = errors.New("出力VRMAにhipsがありません")
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.StageSummary = progressCollector.Summary()
	result.Summary = summary
	return result
}

// printBatchSummary は変換結果の集計を標準出力へ表示する。
func printBatchSummary(results []conversionResult) {
	succeeded := 0
	failed := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		default:
			failed++
		}
	}
	fmt.Printf("バッチ変換サマリ: total=%d succeeded=%d failed=%d dry_run=%d\n",
		len(results), succeeded, failed, dryRun)
}

// resolveMotionName は入力パスから拡張子を除いたモーション名を返す。
func resolveMotionName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		return "motion"
	}
	return name
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "motion"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "motion"
	}
	return replaced
}

// newConvertProgressCollector は Convert 進捗収集器を生成する。
func newConvertProgressCollector() *convertProgressCollector {
	return &convertProgressCollector{
		eventCounts: map[minteractor.ConvertProgressEventType]int{},
	}
}

// ReportConvertProgress は Convert の進捗イベントを収集する。
func (collector *convertProgressCollector) ReportConvertProgress(event minteractor.ConvertProgressEvent) {
	if collector == nil {
		return
	}
	collector.eventCounts[event.Type]++
	collector.jointMax = max(collector.jointMax, event.JointCount)
	collector.trackMax = max(collector.trackMax, event.TrackCount)
	collector.boneMax = max(collector.boneMax, event.MappedBones)
	collector.byteLength = max(collector.byteLength, event.ByteLength)
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *convertProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d joints=%d tracks=%d bones=%d bytes=%d stages=%s",
		len(collector.eventCounts),
		collector.jointMax,
		collector.trackMax,
		collector.boneMax,
		collector.byteLength,
		strings.Join(types, ","),
	)
}
