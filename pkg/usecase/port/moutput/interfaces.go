// 指示: miu200521358
package moutput

import "github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"

// IMotionReader はモーション入力の読み込み契約を表す。
type IMotionReader interface {
	// CanLoad は読み込み可否を判定する。
	CanLoad(path string) bool
	// Load はパスからモーションを読み込む。
	Load(path string) (*model.Motion, error)
	// Parse はメモリ上のバイト列からモーションを読み込む。
	Parse(name string, data []byte) (*model.Motion, error)
}

// IAnimationExporter はアニメーションのコンテナ出力契約を表す。
type IAnimationExporter interface {
	// Export はアニメーションをバイト列へ出力する。
	Export(animation *model.VrmAnimation) ([]byte, error)
}

// IFileWriter はバイト列のファイル書き込み契約を表す。
type IFileWriter interface {
	// Write はパスへバイト列を書き込む。
	Write(path string, data []byte) error
}

// ArtifactPaths は分解出力したファイルのパスを表す。
type ArtifactPaths struct {
	GltfPath string
	BinPath  string
}

// IArtifactExporter は出力コンテナの分解出力契約を表す。
type IArtifactExporter interface {
	// ExportArtifacts はコンテナをJSONとバイナリへ分解して保存する。
	ExportArtifacts(data []byte, outputDir string, baseName string) (*ArtifactPaths, error)
}
