// 指示: miu200521358
package minteractor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/io_motion/bvh"
	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/io_motion/vrma"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
)

// shoulderBvh は体幹と左右の肩だけを持つ2フレームのBVH。
const shoulderBvh = `HIERARCHY
ROOT Hips
{
  OFFSET 0 90 0
  CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
  JOINT Spine
  {
    OFFSET 0 10 0
    CHANNELS 3 Zrotation Xrotation Yrotation
    JOINT LeftShoulder
    {
      OFFSET 5 20 0
      CHANNELS 3 Zrotation Xrotation Yrotation
      End Site
      {
        OFFSET 10 0 0
      }
    }
    JOINT RightShoulder
    {
      OFFSET -5 20 0
      CHANNELS 3 Zrotation Xrotation Yrotation
      End Site
      {
        OFFSET -10 0 0
      }
    }
  }
}
MOTION
Frames: 2
Frame Time: 0.0333333
0 90 0 0 0 0 0 0 0 0 0 0 0 0 0
1 91 0 0 10 0 0 0 0 10 0 0 -5 0 0
`

// noHipsBvh はhipsに該当する関節を持たないBVH。
const noHipsBvh = `HIERARCHY
ROOT Body
{
  OFFSET 0 0 0
  CHANNELS 3 Zrotation Xrotation Yrotation
  End Site
  {
    OFFSET 0 10 0
  }
}
MOTION
Frames: 1
Frame Time: 0.1
0 0 0
`

func newTestUsecase() *Bvh2VrmaUsecase {
	return NewBvh2VrmaUsecase(Bvh2VrmaUsecaseDeps{
		MotionReader:      bvh.NewBvhRepository(),
		AnimationExporter: vrma.NewExporter(),
		FileWriter:        vrma.NewVrmaRepository(),
		ArtifactExporter:  vrma.NewArtifactExporter(),
	})
}

// convertProgressEventCollector は進捗イベントを記録する。
type convertProgressEventCollector struct {
	events []ConvertProgressEvent
}

func (c *convertProgressEventCollector) ReportConvertProgress(event ConvertProgressEvent) {
	c.events = append(c.events, event)
}

func (c *convertProgressEventCollector) findIndex(target ConvertProgressEventType) int {
	for i, event := range c.events {
		if event.Type == target {
			return i
		}
	}
	return -1
}

func TestBvh2VrmaUsecaseConvertBytesShoulderScenario(t *testing.T) {
	uc := newTestUsecase()
	motion, err := uc.ParseMotion("shoulder", []byte(shoulderBvh))
	if err != nil {
		t.Fatalf("ParseMotion failed: %v", err)
	}

	result, err := uc.ConvertBytes([]byte(shoulderBvh), ConvertOptions{Name: "shoulder", Scale: 0.01, ArmSpread: 20})
	if err != nil {
		t.Fatalf("ConvertBytes failed: %v", err)
	}
	if len(result.Data) == 0 {
		t.Fatalf("output data is empty")
	}

	summary, err := vrma.Inspect(result.Data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if got := summary.TranslationBones(); len(got) != 1 || got[0] != string(model.HUMAN_BONE_HIPS) {
		t.Fatalf("translation bones mismatch: got=%v want=[hips]", got)
	}
	wantBones := []string{"hips", "leftShoulder", "rightShoulder", "spine"}
	gotBones := summary.BoneNames()
	if len(gotBones) != len(wantBones) {
		t.Fatalf("bone names mismatch: got=%v want=%v", gotBones, wantBones)
	}
	for i := range wantBones {
		if gotBones[i] != wantBones[i] {
			t.Fatalf("bone names mismatch: got=%v want=%v", gotBones, wantBones)
		}
		if summary.HumanBones[wantBones[i]].Rotation < 0 {
			t.Fatalf("rotation channel missing: %s", wantBones[i])
		}
	}

	clip := result.Animation.Clip
	for _, side := range []struct {
		bone model.HumanBoneName
		axis mgl64.Vec3
	}{
		{bone: model.HUMAN_BONE_LEFT_SHOULDER, axis: mgl64.Vec3{0, 0, 1}},
		{bone: model.HUMAN_BONE_RIGHT_SHOULDER, axis: mgl64.Vec3{0, 0, -1}},
	} {
		jointIndex, ok := result.Animation.Humanoid.Get(side.bone)
		if !ok {
			t.Fatalf("bone not mapped: %s", side.bone)
		}
		raw, _ := motion.Clip.FindTrack(jointIndex, model.TRACK_KIND_ROTATION)
		converted, ok := clip.FindTrack(jointIndex, model.TRACK_KIND_ROTATION)
		if !ok {
			t.Fatalf("rotation track missing: %s", side.bone)
		}
		correction := mgl64.QuatRotate(mgl64.DegToRad(20), side.axis)
		for i := range raw.Rotations {
			want := correction.Mul(raw.Rotations[i])
			if !converted.Rotations[i].ApproxEqualThreshold(want, 1e-9) {
				t.Fatalf("shoulder rotation mismatch: bone=%s frame=%d got=%v want=%v",
					side.bone, i, converted.Rotations[i], want)
			}
			if !model.IsUnitQuaternion(converted.Rotations[i]) {
				t.Fatalf("shoulder rotation not unit: bone=%s frame=%d", side.bone, i)
			}
		}
	}
	if !containsWarning(result.Warnings, model.BvhWarningHumanBoneMissing) {
		t.Fatalf("missing bone warning expected: %v", result.Warnings)
	}
	if !containsWarning(summary.Warnings, model.BvhWarningHumanBoneMissing) {
		t.Fatalf("missing bone warning should be embedded: %v", summary.Warnings)
	}
}

func TestBvh2VrmaUsecaseConvertBytesRequiresHips(t *testing.T) {
	result, err := newTestUsecase().ConvertBytes([]byte(noHipsBvh), DefaultConvertOptions())
	var target *merrors.UnmappableSkeletonError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnmappableSkeletonError: got=%v", err)
	}
	if result != nil {
		t.Fatalf("no output expected on error")
	}
}

func TestBvh2VrmaUsecaseConvertMotionRejectsZeroScale(t *testing.T) {
	uc := newTestUsecase()
	motion, err := uc.ParseMotion("shoulder", []byte(shoulderBvh))
	if err != nil {
		t.Fatalf("ParseMotion failed: %v", err)
	}
	before, err := motion.Copy()
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	result, err := uc.ConvertMotion(motion, ConvertOptions{Scale: 0}, nil)
	var target *merrors.ScaleOutOfRangeError
	if !errors.As(err, &target) {
		t.Fatalf("expected ScaleOutOfRangeError: got=%v", err)
	}
	if result != nil {
		t.Fatalf("no output expected on error")
	}
	for i := range motion.Skeleton.Joints {
		if motion.Skeleton.Joints[i].Offset != before.Skeleton.Joints[i].Offset {
			t.Fatalf("skeleton mutated: joint=%d", i)
		}
	}
	for i := range motion.Clip.Tracks {
		for j := range motion.Clip.Tracks[i].Positions {
			if motion.Clip.Tracks[i].Positions[j] != before.Clip.Tracks[i].Positions[j] {
				t.Fatalf("clip mutated: track=%d sample=%d", i, j)
			}
		}
	}
}

func TestBvh2VrmaUsecaseConvertMotionRejectsMalformedSkeleton(t *testing.T) {
	motion := &model.Motion{
		Name: "stray",
		Skeleton: &model.Skeleton{
			Joints: []model.Joint{
				{Name: "Hips", ParentIndex: model.NoParent},
				{Name: "Stray", ParentIndex: model.NoParent},
			},
			RootIndex: 0,
			Order:     []int{0},
		},
		Clip: &model.AnimationClip{
			Name: "stray",
			Tracks: []model.Track{
				{JointIndex: 0, JointName: "Hips", Kind: model.TRACK_KIND_ROTATION,
					Times: []float64{0}, Rotations: []mgl64.Quat{mgl64.QuatIdent()}},
			},
		},
	}

	result, err := newTestUsecase().ConvertMotion(motion, DefaultConvertOptions(), nil)
	var target *merrors.MalformedSkeletonError
	if !errors.As(err, &target) {
		t.Fatalf("expected MalformedSkeletonError: got=%v", err)
	}
	if result != nil {
		t.Fatalf("no output expected on error")
	}
}

func TestBvh2VrmaUsecaseConvertBytesIsConcurrent(t *testing.T) {
	uc := newTestUsecase()
	opts := ConvertOptions{Name: "shoulder", Scale: 0.01, ArmSpread: 20}
	want, err := uc.ConvertBytes([]byte(shoulderBvh), opts)
	if err != nil {
		t.Fatalf("ConvertBytes failed: %v", err)
	}

	const workers = 8
	results := make([][]byte, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			result, err := uc.ConvertBytes([]byte(shoulderBvh), opts)
			errs[index] = err
			if result != nil {
				results[index] = result.Data
			}
		}(i)
	}
	wg.Wait()
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker failed: index=%d err=%v", i, errs[i])
		}
		if !bytes.Equal(results[i], want.Data) {
			t.Fatalf("worker output mismatch: index=%d", i)
		}
	}
}

func TestBvh2VrmaUsecaseConvert(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "sample.bvh")
	if err := os.WriteFile(inPath, []byte(shoulderBvh), 0o644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	artifactDir := filepath.Join(tempDir, "glTF")
	collector := &convertProgressEventCollector{}

	result, err := newTestUsecase().Convert(ConvertRequest{
		InputPath:        inPath,
		ArtifactDir:      artifactDir,
		Options:          DefaultConvertOptions(),
		ProgressReporter: collector,
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	wantPath := filepath.Join(tempDir, "sample.vrma")
	if result.OutputPath != wantPath {
		t.Fatalf("output path mismatch: got=%s want=%s", result.OutputPath, wantPath)
	}
	saved, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("output not found: %v", err)
	}
	if !bytes.Equal(saved, result.Data) {
		t.Fatalf("saved data mismatch")
	}
	if result.Artifacts == nil {
		t.Fatalf("artifacts missing")
	}
	if result.Artifacts.GltfPath != filepath.Join(artifactDir, "sample.gltf") {
		t.Fatalf("gltf path mismatch: got=%s", result.Artifacts.GltfPath)
	}
	if _, err := os.Stat(result.Artifacts.BinPath); err != nil {
		t.Fatalf("bin artifact not found: %v", err)
	}

	order := []ConvertProgressEventType{
		ConvertProgressEventTypeInputValidated,
		ConvertProgressEventTypeOutputPathResolved,
		ConvertProgressEventTypeMotionLoaded,
		ConvertProgressEventTypeBoneMappingCompleted,
		ConvertProgressEventTypeTracksNormalized,
		ConvertProgressEventTypeExported,
		ConvertProgressEventTypeSaved,
		ConvertProgressEventTypeArtifactsExported,
	}
	previous := -1
	for _, eventType := range order {
		index := collector.findIndex(eventType)
		if index <= previous {
			t.Fatalf("progress event order mismatch: type=%s index=%d previous=%d", eventType, index, previous)
		}
		previous = index
	}
}

func TestBvh2VrmaUsecaseConvertRequiresVrmaExt(t *testing.T) {
	uc := NewBvh2VrmaUsecase(Bvh2VrmaUsecaseDeps{})
	_, err := uc.Convert(ConvertRequest{InputPath: "sample.bvh", OutputPath: "sample.glb", Options: DefaultConvertOptions()})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestBvh2VrmaUsecaseConvertMotionReportsDuplicateNames(t *testing.T) {
	uc := newTestUsecase()
	motion, err := uc.ParseMotion("shoulder", []byte(shoulderBvh))
	if err != nil {
		t.Fatalf("ParseMotion failed: %v", err)
	}
	motion.Skeleton.Joints[3].Name = "LeftShoulder"

	result, err := uc.ConvertMotion(motion, DefaultConvertOptions(), nil)
	if err != nil {
		t.Fatalf("ConvertMotion failed: %v", err)
	}
	if !containsWarning(result.Warnings, model.BvhWarningDuplicateJointName) {
		t.Fatalf("duplicate warning missing: %v", result.Warnings)
	}
	seen := map[string]struct{}{}
	for _, warning := range result.Warnings {
		if _, exists := seen[warning]; exists {
			t.Fatalf("warning duplicated: %s", warning)
		}
		seen[warning] = struct{}{}
	}
}
