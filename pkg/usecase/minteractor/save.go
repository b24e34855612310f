// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"
)

// SaveAnimation はVRMAバイト列を保存する。
func (uc *Bvh2VrmaUsecase) SaveAnimation(path string, data []byte) error {
	if uc.fileWriter == nil {
		return fmt.Errorf("ファイル保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if len(data) == 0 {
		return fmt.Errorf("保存対象データが空です")
	}
	return uc.fileWriter.Write(path, data)
}
