// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_bvh2vrma/pkg/usecase/port/moutput"

// Bvh2VrmaUsecaseDeps はBVH変換ユースケースの依存を表す。
type Bvh2VrmaUsecaseDeps struct {
	MotionReader      moutput.IMotionReader
	AnimationExporter moutput.IAnimationExporter
	FileWriter        moutput.IFileWriter
	ArtifactExporter  moutput.IArtifactExporter
}

// Bvh2VrmaUsecase はBVHからVRMAへの変換処理をまとめたユースケースを表す。
// 変換ごとの状態を持たないため、複数の変換を並行に呼び出せる。
type Bvh2VrmaUsecase struct {
	motionReader      moutput.IMotionReader
	animationExporter moutput.IAnimationExporter
	fileWriter        moutput.IFileWriter
	artifactExporter  moutput.IArtifactExporter
}

// NewBvh2VrmaUsecase はBVH変換ユースケースを生成する。
func NewBvh2VrmaUsecase(deps Bvh2VrmaUsecaseDeps) *Bvh2VrmaUsecase {
	return &Bvh2VrmaUsecase{
		motionReader:      deps.MotionReader,
		animationExporter: deps.AnimationExporter,
		fileWriter:        deps.FileWriter,
		artifactExporter:  deps.ArtifactExporter,
	}
}
