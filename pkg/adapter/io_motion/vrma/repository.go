// 指示: miu200521358
package vrma

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/port/moutput"
)

// VrmaRepository はVRMAファイルの読み書きを表す。
type VrmaRepository struct{}

// NewVrmaRepository はVrmaRepositoryを生成する。
func NewVrmaRepository() *VrmaRepository {
	return &VrmaRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *VrmaRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".vrma")
}

// Write は一時ファイルへ書き込んでから置き換え、途中状態のファイルを残さない。
func (r *VrmaRepository) Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, exportDirMode); err != nil {
		return fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("VRMAの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("VRMAの書き込みに失敗しました: %w", err)
	}
	if err := os.Chmod(tmpPath, exportFileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("VRMAの権限設定に失敗しました: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("VRMAの保存に失敗しました: %w", err)
	}
	logVrmaInfo("VRMA保存完了: file=%s bytes=%d", filepath.Base(path), len(data))
	return nil
}

// Load はVRMAファイルを読み込み、要約を返す。
func (r *VrmaRepository) Load(path string) (*InspectSummary, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("VRMA拡張子ではありません: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("VRMAファイルの読み取りに失敗しました: %w", err)
	}
	return Inspect(data)
}

// Split はVRMAファイルをglTF JSONとバイナリへ分解して保存する。
func (r *VrmaRepository) Split(path string, outputDir string) (*moutput.ArtifactPaths, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("VRMA拡張子ではありません: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("VRMAファイルの読み取りに失敗しました: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ExportArtifacts(data, outputDir, base)
}
