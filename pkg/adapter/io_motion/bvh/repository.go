// 指示: miu200521358
package bvh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2vrma/pkg/shared/base/logging"
)

// LoadProgressEventType はBVH読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeParsed はBVH解析完了イベントを表す。
	LoadProgressEventTypeParsed LoadProgressEventType = "parsed"
	// LoadProgressEventTypeCompleted はBVH読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はBVH読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	JointCount    int
	TrackCount    int
	FrameCount    int
}

// BvhRepository はBVH入力の読み込み契約を表す。
type BvhRepository struct {
	loadProgressReporter func(LoadProgressEvent)
}

// NewBvhRepository はBvhRepositoryを生成する。
func NewBvhRepository() *BvhRepository {
	return &BvhRepository{}
}

// SetLoadProgressReporter はBVH読込進捗受信コールバックを設定する。
func (r *BvhRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *BvhRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".bvh")
}

// InferName はパスから表示名を推定する。
func (r *BvhRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はBVHを読み込む。
func (r *BvhRepository) Load(path string) (*model.Motion, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewUnsupportedInputError("BVHファイルではありません: %s", nil, path)
	}
	logBvhInfo("BVH読込開始: file=%s", filepath.Base(path))

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("BVHファイルが見つかりません: %s: %w", path, err)
		}
		return nil, fmt.Errorf("BVHファイルの読み取りに失敗しました: %w", err)
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeFileReadComplete,
		FileSizeBytes: len(b),
	})
	logBvhInfo("BVH読込ステップ: ファイル読み取り完了 bytes=%d", len(b))

	result, err := Parse(r.InferName(path), b)
	if err != nil {
		return nil, err
	}
	if result.ShiftJIS {
		logBvhWarn("BVH読込: UTF-8として不正なためShift_JISとして読み込みました: file=%s", filepath.Base(path))
	}
	motion := result.Motion
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeParsed,
		FileSizeBytes: len(b),
		JointCount:    motion.Skeleton.Len(),
		TrackCount:    len(motion.Clip.Tracks),
		FrameCount:    motion.FrameCount,
	})
	logBvhInfo(
		"BVH読込ステップ: 解析完了 joints=%d channels=%d tracks=%d frames=%d",
		motion.Skeleton.Len(),
		result.ChannelCount,
		len(motion.Clip.Tracks),
		motion.FrameCount,
	)

	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeCompleted,
		FileSizeBytes: len(b),
		JointCount:    motion.Skeleton.Len(),
		TrackCount:    len(motion.Clip.Tracks),
		FrameCount:    motion.FrameCount,
	})
	logBvhInfo("BVH読込完了: file=%s duration=%.3f", filepath.Base(path), motion.Clip.Duration())
	return motion, nil
}

// reportLoadProgress はBVH読込進捗を通知する。
func (r *BvhRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// logBvhInfo はBVH読込の情報ログを出力する。
func logBvhInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logBvhDebug はBVH読込のデバッグログを出力する。
func logBvhDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logBvhWarn はBVH読込の警告ログを出力する。
func logBvhWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}

// Parse はメモリ上のBVHバイト列を読み込む。
func (r *BvhRepository) Parse(name string, data []byte) (*model.Motion, error) {
	result, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	if result.ShiftJIS {
		logBvhWarn("BVH解析: UTF-8として不正なためShift_JISとして読み込みました: name=%s", name)
	}
	return result.Motion, nil
}
