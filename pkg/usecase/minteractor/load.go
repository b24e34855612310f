// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
)

// LoadMotion はBVHモーションを読み込む。
func (uc *Bvh2VrmaUsecase) LoadMotion(path string) (*model.Motion, error) {
	if uc.motionReader == nil {
		return nil, fmt.Errorf("モーション読み込みリポジトリが設定されていません")
	}
	if !uc.motionReader.CanLoad(path) {
		return nil, merrors.NewUnsupportedInputError("入力拡張子が .bvh ではありません: %s", nil, path)
	}
	return uc.motionReader.Load(path)
}

// ParseMotion はメモリ上のBVHを読み込む。
func (uc *Bvh2VrmaUsecase) ParseMotion(name string, data []byte) (*model.Motion, error) {
	if uc.motionReader == nil {
		return nil, fmt.Errorf("モーション読み込みリポジトリが設定されていません")
	}
	return uc.motionReader.Parse(name, data)
}
