// 指示: miu200521358
package vrma

import (
	"bytes"
	"fmt"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/shared/base/logging"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	// defaultGenerator はasset.generatorへ書き込む名前。
	defaultGenerator = "mu_bvh2vrma"
)

// channelBinding は関節ごとのアニメーションチャンネル番号を表す。
type channelBinding struct {
	Rotation    *int
	Translation *int
}

// exportState は1回の出力処理で構築中の文書を表す。アクセサのデータは文書の先頭バッファへ追記される。
type exportState struct {
	doc              *gltf.Document
	nodeIndexByJoint map[int]int
	bindings         map[int]*channelBinding
}

// Exporter はVRMAnimationをGLBバイト列へ出力する。状態を持たないため並行に利用できる。
type Exporter struct {
	generator string
}

// NewExporter はExporterを生成する。
func NewExporter() *Exporter {
	return &Exporter{generator: defaultGenerator}
}

// Export はアニメーションをglTF文書へ組み立て、VRMアニメーション拡張を書き込んでGLBとして出力する。
func (e *Exporter) Export(animation *model.VrmAnimation) ([]byte, error) {
	if err := animation.Validate(); err != nil {
		return nil, err
	}
	state, err := e.buildDocument(animation)
	if err != nil {
		return nil, err
	}
	if err := writeVrmAnimationExtension(state.doc, animation, state.nodeIndexByJoint, state.bindings); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	encoder := gltf.NewEncoder(&out)
	encoder.AsBinary = true
	if err := encoder.Encode(state.doc); err != nil {
		return nil, fmt.Errorf("GLBのエンコードに失敗しました: %w", err)
	}
	logVrmaDebug("VRMA出力: nodes=%d accessors=%d channels=%d bytes=%d",
		len(state.doc.Nodes), len(state.doc.Accessors), len(state.doc.Animations[0].Channels), out.Len())
	return out.Bytes(), nil
}

// buildDocument は骨格をノード階層、トラックをアクセサとアニメーションチャンネルへ変換する。
func (e *Exporter) buildDocument(animation *model.VrmAnimation) (*exportState, error) {
	skeleton := animation.Skeleton
	state := &exportState{
		doc: &gltf.Document{
			Asset: gltf.Asset{Version: "2.0", Generator: e.generator},
		},
		nodeIndexByJoint: make(map[int]int, skeleton.Len()),
		bindings:         map[int]*channelBinding{},
	}

	for nodeIndex, jointIndex := range skeleton.Order {
		state.nodeIndexByJoint[jointIndex] = nodeIndex
	}
	for _, jointIndex := range skeleton.Order {
		joint := skeleton.Joints[jointIndex]
		children := make([]int, 0, len(joint.Children))
		for _, child := range joint.Children {
			children = append(children, state.nodeIndexByJoint[child])
		}
		state.doc.Nodes = append(state.doc.Nodes, &gltf.Node{
			Name:        joint.Name,
			Children:    children,
			Translation: [3]float64{joint.Offset.X, joint.Offset.Y, joint.Offset.Z},
			Rotation:    [4]float64{0, 0, 0, 1},
			Scale:       [3]float64{1, 1, 1},
			Matrix:      [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		})
	}
	if len(animation.Warnings) > 0 {
		state.doc.Asset.Extras = map[string]any{
			model.BvhWarningExtensionKey: append([]string(nil), animation.Warnings...),
		}
	}

	rootNode := state.nodeIndexByJoint[skeleton.RootIndex]
	state.doc.Scenes = []*gltf.Scene{{Nodes: []int{rootNode}}}
	state.doc.Scene = gltf.Index(0)

	gltfAnimation := &gltf.Animation{Name: animation.Clip.Name}
	for i := range animation.Clip.Tracks {
		track := &animation.Clip.Tracks[i]
		input := state.appendTimes(track.Times)
		var output int
		var path gltf.TRSProperty
		switch track.Kind {
		case model.TRACK_KIND_POSITION:
			output = state.appendVec3(track)
			path = gltf.TRSTranslation
		case model.TRACK_KIND_ROTATION:
			output = state.appendQuat(track)
			path = gltf.TRSRotation
		default:
			return nil, fmt.Errorf("トラック種別が不正です: %s", track.Kind)
		}

		samplerIndex := len(gltfAnimation.Samplers)
		gltfAnimation.Samplers = append(gltfAnimation.Samplers, &gltf.AnimationSampler{
			Input:         input,
			Interpolation: gltf.InterpolationLinear,
			Output:        output,
		})
		channelIndex := len(gltfAnimation.Channels)
		gltfAnimation.Channels = append(gltfAnimation.Channels, &gltf.AnimationChannel{
			Sampler: samplerIndex,
			Target: gltf.AnimationChannelTarget{
				Node: gltf.Index(state.nodeIndexByJoint[track.JointIndex]),
				Path: path,
			},
		})
		state.bind(track, channelIndex)
	}
	state.doc.Animations = []*gltf.Animation{gltfAnimation}
	return state, nil
}

// bind は関節のチャンネル番号を記録する。
func (s *exportState) bind(track *model.Track, channelIndex int) {
	binding, ok := s.bindings[track.JointIndex]
	if !ok {
		binding = &channelBinding{}
		s.bindings[track.JointIndex] = binding
	}
	index := channelIndex
	if track.Kind == model.TRACK_KIND_POSITION {
		binding.Translation = &index
		return
	}
	binding.Rotation = &index
}

// appendTimes はキーフレーム時刻をSCALARアクセサとして追加する。
func (s *exportState) appendTimes(times []float64) int {
	values := make([]float32, len(times))
	for i, t := range times {
		values[i] = float32(t)
	}
	index := modeler.WriteAccessor(s.doc, gltf.TargetNone, values)
	accessor := s.doc.Accessors[index]
	accessor.Min = []float64{float64(values[0])}
	accessor.Max = []float64{float64(values[len(values)-1])}
	return index
}

// appendVec3 は移動サンプルをVEC3アクセサとして追加する。
func (s *exportState) appendVec3(track *model.Track) int {
	values := make([][3]float32, len(track.Positions))
	for i, p := range track.Positions {
		values[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	return modeler.WriteAccessor(s.doc, gltf.TargetNone, values)
}

// appendQuat は回転サンプルを xyzw 順のVEC4アクセサとして追加する。
func (s *exportState) appendQuat(track *model.Track) int {
	values := make([][4]float32, len(track.Rotations))
	for i, q := range track.Rotations {
		values[i] = [4]float32{float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)}
	}
	return modeler.WriteAccessor(s.doc, gltf.TargetNone, values)
}

// logVrmaDebug はVRMA出力のデバッグログを出力する。
func logVrmaDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logVrmaInfo はVRMA出力の情報ログを出力する。
func logVrmaInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}
