// 指示: miu200521358
package vrma

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/qmuntal/gltf"
	"github.com/tidwall/gjson"
	"gonum.org/v1/gonum/spatial/r3"
)

// newTestAnimation はhips/spine/endの3関節と3トラックを持つアニメーションを生成する。
func newTestAnimation(t *testing.T) *model.VrmAnimation {
	t.Helper()
	skeleton, err := model.BuildSkeleton([]model.Joint{
		{Name: "Hips", Offset: r3.Vec{Y: 1}, ParentIndex: model.NoParent},
		{Name: "Spine", Offset: r3.Vec{Y: 0.1}, ParentIndex: 0},
		{Name: "Spine_end", Offset: r3.Vec{Y: 0.05}, ParentIndex: 1, IsEndSite: true},
	})
	if err != nil {
		t.Fatalf("BuildSkeleton failed: %v", err)
	}
	boneMap := model.NewHumanoidBoneMap()
	boneMap.Set(model.HUMAN_BONE_HIPS, 0)
	boneMap.Set(model.HUMAN_BONE_SPINE, 1)
	times := []float64{0, 0.5}
	return &model.VrmAnimation{
		Skeleton: skeleton,
		Humanoid: boneMap,
		Clip: &model.AnimationClip{
			Name: "walk",
			Tracks: []model.Track{
				{JointIndex: 0, JointName: "Hips", Kind: model.TRACK_KIND_POSITION, Times: times,
					Positions: []r3.Vec{{}, {X: 0.25, Y: 0.5}}},
				{JointIndex: 0, JointName: "Hips", Kind: model.TRACK_KIND_ROTATION, Times: times,
					Rotations: []mgl64.Quat{mgl64.QuatIdent(), mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})}},
				{JointIndex: 1, JointName: "Spine", Kind: model.TRACK_KIND_ROTATION, Times: times,
					Rotations: []mgl64.Quat{mgl64.QuatIdent(), mgl64.QuatIdent()}},
			},
		},
	}
}

func TestExporterWritesGLBContainer(t *testing.T) {
	data, err := NewExporter().Export(newTestAnimation(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := binary.LittleEndian.Uint32(data[0:4]); got != glbMagic {
		t.Fatalf("magic mismatch: got=%x want=%x", got, glbMagic)
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); got != glbVersion {
		t.Fatalf("version mismatch: got=%d want=%d", got, glbVersion)
	}
	if got := int(binary.LittleEndian.Uint32(data[8:12])); got != len(data) {
		t.Fatalf("total length mismatch: got=%d want=%d", got, len(data))
	}
	if got := binary.LittleEndian.Uint32(data[16:20]); got != glbJSONChunkType {
		t.Fatalf("first chunk should be JSON: got=%x", got)
	}
	jsonLength := int(binary.LittleEndian.Uint32(data[12:16]))
	if jsonLength%4 != 0 {
		t.Fatalf("json chunk should be 4 byte aligned: %d", jsonLength)
	}

	jsonChunk, binChunk, err := parseGLBChunks(data)
	if err != nil {
		t.Fatalf("parseGLBChunks failed: %v", err)
	}
	if len(binChunk)%4 != 0 || len(binChunk) == 0 {
		t.Fatalf("bin chunk length mismatch: %d", len(binChunk))
	}
	doc := gjson.ParseBytes(bytes.TrimRight(jsonChunk, " "))

	if got := doc.Get("nodes.#").Int(); got != 3 {
		t.Fatalf("node count mismatch: got=%d want=%d", got, 3)
	}
	if got := doc.Get("nodes.0.name").String(); got != "Hips" {
		t.Fatalf("root node name mismatch: got=%s", got)
	}
	if got := doc.Get("nodes.1.translation.1").Float(); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("spine translation mismatch: got=%v", got)
	}
	if got := doc.Get("scenes.0.nodes.0").Int(); got != 0 {
		t.Fatalf("scene root mismatch: got=%d", got)
	}
	if got := doc.Get("animations.0.channels.#").Int(); got != 3 {
		t.Fatalf("channel count mismatch: got=%d want=%d", got, 3)
	}
	if got := doc.Get("extensionsUsed.0").String(); got != VrmAnimationExtensionName {
		t.Fatalf("extensionsUsed mismatch: got=%s", got)
	}

	ext := doc.Get("extensions." + VrmAnimationExtensionName)
	if got := ext.Get("specVersion").String(); got != VrmAnimationSpecVersion {
		t.Fatalf("specVersion mismatch: got=%s", got)
	}
	if got := ext.Get("humanoid.humanBones.hips.node").Int(); got != 0 {
		t.Fatalf("hips node mismatch: got=%d", got)
	}
	if got := ext.Get("humanoid.humanBones.spine.node").Int(); got != 1 {
		t.Fatalf("spine node mismatch: got=%d", got)
	}
	if got := ext.Get("extras.duration").Float(); got != 0.5 {
		t.Fatalf("duration mismatch: got=%v", got)
	}
	translation := ext.Get("extras.humanBoneChannels.hips.translation")
	if !translation.Exists() {
		t.Fatalf("hips translation channel missing")
	}
	if ext.Get("extras.humanBoneChannels.spine.translation").Exists() {
		t.Fatalf("spine should not have translation channel")
	}
	channel := doc.Get("animations.0.channels." + translation.String())
	if channel.Get("target.path").String() != "translation" || channel.Get("target.node").Int() != 0 {
		t.Fatalf("translation channel target mismatch: %s", channel.Raw)
	}

	sampler := doc.Get("animations.0.samplers." + channel.Get("sampler").String())
	input := doc.Get("accessors." + sampler.Get("input").String())
	if input.Get("type").String() != "SCALAR" || input.Get("max.0").Float() != 0.5 {
		t.Fatalf("input accessor mismatch: %s", input.Raw)
	}
	output := doc.Get("accessors." + sampler.Get("output").String())
	if output.Get("type").String() != "VEC3" || output.Get("count").Int() != 2 {
		t.Fatalf("output accessor mismatch: %s", output.Raw)
	}
	view := doc.Get("bufferViews." + output.Get("bufferView").String())
	offset := int(view.Get("byteOffset").Int())
	// 2番目のサンプルのX
	x := math.Float32frombits(binary.LittleEndian.Uint32(binChunk[offset+12 : offset+16]))
	if x != 0.25 {
		t.Fatalf("translation sample mismatch: got=%v want=%v", x, 0.25)
	}
}

func TestExporterDecodesAsGltfDocument(t *testing.T) {
	data, err := NewExporter().Export(newTestAnimation(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.Animations) != 1 || len(doc.Animations[0].Channels) != 3 {
		t.Fatalf("animation mismatch: %+v", doc.Animations)
	}
	channel := doc.Animations[0].Channels[1]
	if channel.Target.Path != gltf.TRSRotation || channel.Target.Node == nil || *channel.Target.Node != 0 {
		t.Fatalf("rotation channel target mismatch: %+v", channel.Target)
	}
	sampler := doc.Animations[0].Samplers[channel.Sampler]
	accessor := doc.Accessors[sampler.Output]
	if accessor.Type != gltf.AccessorVec4 || accessor.Count != 2 || accessor.BufferView == nil {
		t.Fatalf("rotation accessor mismatch: %+v", accessor)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.ByteLength != 2*4*4 {
		t.Fatalf("rotation view length mismatch: got=%d want=%d", view.ByteLength, 2*4*4)
	}
	payload := doc.Buffers[view.Buffer].Data[view.ByteOffset : view.ByteOffset+view.ByteLength]
	// 2サンプル目の y, w
	y := math.Float32frombits(binary.LittleEndian.Uint32(payload[20:24]))
	w := math.Float32frombits(binary.LittleEndian.Uint32(payload[28:32]))
	want := float32(math.Sqrt2 / 2)
	if math.Abs(float64(y-want)) > 1e-6 || math.Abs(float64(w-want)) > 1e-6 {
		t.Fatalf("rotation sample mismatch: got=(%v,%v) want=%v", y, w, want)
	}
}

func TestExporterOmitsUnanimatedBones(t *testing.T) {
	animation := newTestAnimation(t)
	animation.Clip.Tracks = animation.Clip.Tracks[:2]
	data, err := NewExporter().Export(animation)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	summary, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if _, ok := summary.HumanBones["spine"]; ok {
		t.Fatalf("spine without tracks should not be listed")
	}
	if got := summary.TranslationBones(); len(got) != 1 || got[0] != "hips" {
		t.Fatalf("translation bones mismatch: got=%v", got)
	}
}

func TestExporterRejectsMissingHips(t *testing.T) {
	animation := newTestAnimation(t)
	animation.Humanoid = model.NewHumanoidBoneMap()
	if _, err := NewExporter().Export(animation); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInspectSummarizesExport(t *testing.T) {
	animation := newTestAnimation(t)
	animation.Warnings = []string{model.BvhWarningAlreadyGrounded}
	data, err := NewExporter().Export(animation)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	summary, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if summary.NodeCount != 3 || summary.ChannelCount != 3 || summary.AccessorCount != 6 {
		t.Fatalf("summary count mismatch: %+v", summary)
	}
	if summary.AnimationName != "walk" || summary.Generator != defaultGenerator {
		t.Fatalf("summary name mismatch: %+v", summary)
	}
	if summary.SpecVersion != VrmAnimationSpecVersion || summary.Duration != 0.5 {
		t.Fatalf("summary extension mismatch: %+v", summary)
	}
	names := summary.BoneNames()
	if len(names) != 2 || names[0] != "hips" || names[1] != "spine" {
		t.Fatalf("bone names mismatch: got=%v", names)
	}
	if len(summary.Warnings) != 1 || summary.Warnings[0] != model.BvhWarningAlreadyGrounded {
		t.Fatalf("warnings mismatch: got=%v", summary.Warnings)
	}
	if summary.HumanBones["spine"].Translation != -1 || summary.HumanBones["spine"].Rotation < 0 {
		t.Fatalf("spine channels mismatch: %+v", summary.HumanBones["spine"])
	}

	if _, err := Inspect([]byte("not a glb")); err == nil {
		t.Fatalf("invalid data should fail")
	}
}

func TestExportArtifactsSplitsChunks(t *testing.T) {
	data, err := NewExporter().Export(newTestAnimation(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	dir := t.TempDir()
	paths, err := ExportArtifacts(data, dir, "walk")
	if err != nil {
		t.Fatalf("ExportArtifacts failed: %v", err)
	}
	gltfBytes, err := os.ReadFile(paths.GltfPath)
	if err != nil {
		t.Fatalf("gltf not written: %v", err)
	}
	if got := gjson.GetBytes(gltfBytes, "buffers.0.uri").String(); got != "walk.bin" {
		t.Fatalf("buffer uri mismatch: got=%s want=%s", got, "walk.bin")
	}
	binBytes, err := os.ReadFile(paths.BinPath)
	if err != nil {
		t.Fatalf("bin not written: %v", err)
	}
	if int64(len(binBytes)) < gjson.GetBytes(gltfBytes, "buffers.0.byteLength").Int() {
		t.Fatalf("bin length mismatch: got=%d", len(binBytes))
	}
}

func TestVrmaRepositoryWriteAndLoad(t *testing.T) {
	data, err := NewExporter().Export(newTestAnimation(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	path := t.TempDir() + "/out/walk.vrma"
	repository := NewVrmaRepository()
	if err := repository.Write(path, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	summary, err := repository.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if summary.NodeCount != 3 {
		t.Fatalf("node count mismatch: got=%d", summary.NodeCount)
	}
}

func TestVrmaRepositorySplit(t *testing.T) {
	data, err := NewExporter().Export(newTestAnimation(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	dir := t.TempDir()
	path := dir + "/walk.vrma"
	repository := NewVrmaRepository()
	if err := repository.Write(path, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	paths, err := repository.Split(path, dir+"/glTF")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if paths.GltfPath != dir+"/glTF/walk.gltf" {
		t.Fatalf("gltf path mismatch: got=%s", paths.GltfPath)
	}
	if _, err := repository.Split(dir+"/walk.glb", dir); err == nil {
		t.Fatalf("expected extension error")
	}
}
