// 指示: miu200521358
package vrma

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/port/moutput"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	exportDirMode  = 0o755
	exportFileMode = 0o644
)

// ExportArtifacts はVRMAのJSONチャンクを .gltf、BINチャンクを .bin として保存する。
// .gltf のバッファは同名の .bin を参照する。
func ExportArtifacts(data []byte, outputDir string, baseName string) (*moutput.ArtifactPaths, error) {
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("glTF出力先ディレクトリが未指定です")
	}
	baseName = strings.TrimSpace(baseName)
	if baseName == "" {
		baseName = "animation"
	}
	if err := os.MkdirAll(outputDir, exportDirMode); err != nil {
		return nil, fmt.Errorf("glTF出力先ディレクトリの作成に失敗しました: %w", err)
	}

	jsonChunk, binChunk, err := parseGLBChunks(data)
	if err != nil {
		return nil, err
	}

	result := &moutput.ArtifactPaths{}
	if len(binChunk) > 0 {
		binName := baseName + ".bin"
		jsonChunk, err = sjson.SetBytes(jsonChunk, "buffers.0.uri", binName)
		if err != nil {
			return nil, fmt.Errorf("glTF JSON のバッファ参照設定に失敗しました: %w", err)
		}
		result.BinPath = filepath.Join(outputDir, binName)
		if err := os.WriteFile(result.BinPath, binChunk, exportFileMode); err != nil {
			return nil, fmt.Errorf("glTF BIN の保存に失敗しました: %w", err)
		}
	}
	result.GltfPath = filepath.Join(outputDir, baseName+".gltf")
	if err := os.WriteFile(result.GltfPath, pretty.Pretty(jsonChunk), exportFileMode); err != nil {
		return nil, fmt.Errorf("glTF JSON の保存に失敗しました: %w", err)
	}
	logVrmaInfo("glTF分解出力完了: gltf=%s bin=%s", result.GltfPath, result.BinPath)
	return result, nil
}

// ArtifactExporter はExportArtifactsをユースケースのポートとして提供する。
type ArtifactExporter struct{}

// NewArtifactExporter はArtifactExporterを生成する。
func NewArtifactExporter() *ArtifactExporter {
	return &ArtifactExporter{}
}

// ExportArtifacts はVRMAを分解して保存する。
func (a *ArtifactExporter) ExportArtifacts(data []byte, outputDir string, baseName string) (*moutput.ArtifactPaths, error) {
	return ExportArtifacts(data, outputDir, baseName)
}
