// 指示: miu200521358
package minteractor

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// vrmaExt はVRMアニメーションの拡張子。
	vrmaExt = ".vrma"
	// defaultGltfDirName は分解出力の既定ディレクトリ名。
	defaultGltfDirName = "glTF"
)

// BuildDefaultOutputPath は入力BVHパスから既定のVRMA出力パスを生成する。
func BuildDefaultOutputPath(inputPath string) string {
	inputPath = strings.TrimSpace(inputPath)
	if inputPath == "" {
		return ""
	}
	fileName := filepath.Base(inputPath)
	if fileName == "." || fileName == ".." || fileName == string(filepath.Separator) {
		return ""
	}
	base := strings.TrimSpace(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if base == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(inputPath), base+vrmaExt)
}

// BuildDefaultArtifactDir は出力VRMAパスから既定の分解出力先を生成する。
func BuildDefaultArtifactDir(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), defaultGltfDirName)
}

// resolveVrmaOutputPath はVRMA保存先パスを解決し、拡張子を検証する。
func resolveVrmaOutputPath(inputPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(inputPath)
	}
	if strings.TrimSpace(resolved) == "" {
		return "", fmt.Errorf("保存先VRMAパスが未指定です")
	}
	if !strings.EqualFold(filepath.Ext(resolved), vrmaExt) {
		return "", fmt.Errorf("保存先拡張子が .vrma ではありません: %s", resolved)
	}
	return resolved, nil
}

// exportArtifacts は出力VRMAをglTF JSONとバイナリへ分解して保存する。
func (uc *Bvh2VrmaUsecase) exportArtifacts(data []byte, artifactDir string, outputPath string) (*ArtifactPaths, error) {
	if strings.TrimSpace(artifactDir) == "" {
		return nil, nil
	}
	if uc.artifactExporter == nil {
		return nil, fmt.Errorf("分解出力リポジトリが設定されていません")
	}
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	return uc.artifactExporter.ExportArtifacts(data, artifactDir, base)
}
