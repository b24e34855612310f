// 指示: miu200521358
package vrma

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/qmuntal/gltf"
	"github.com/tidwall/gjson"
)

// BoneChannels はヒューマノイドボーン1件のチャンネル対応を表す。
type BoneChannels struct {
	Node        int
	Rotation    int
	Translation int
}

// InspectSummary はVRMAの自己記述内容の要約を表す。
type InspectSummary struct {
	Generator      string
	SpecVersion    string
	ExtensionsUsed []string
	NodeCount      int
	AccessorCount  int
	AnimationName  string
	ChannelCount   int
	Duration       float64
	HumanBones     map[string]BoneChannels
	Warnings       []string
}

// BoneNames はヒューマノイドボーン名を昇順で返す。
func (s *InspectSummary) BoneNames() []string {
	names := make([]string, 0, len(s.HumanBones))
	for name := range s.HumanBones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TranslationBones は移動チャンネルを持つボーン名を昇順で返す。
func (s *InspectSummary) TranslationBones() []string {
	names := []string{}
	for _, name := range s.BoneNames() {
		if s.HumanBones[name].Translation >= 0 {
			names = append(names, name)
		}
	}
	return names
}

// Inspect はVRMAバイト列を読み戻し、ノード数・ヒューマノイドボーン・チャンネル対応・尺を要約する。
func Inspect(data []byte) (*InspectSummary, error) {
	jsonChunk, _, err := parseGLBChunks(data)
	if err != nil {
		return nil, err
	}
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("GLBのデコードに失敗しました: %w", err)
	}
	if len(doc.Animations) == 0 {
		return nil, fmt.Errorf("アニメーションがありません")
	}

	root := gjson.ParseBytes(jsonChunk)
	extension := root.Get("extensions." + VrmAnimationExtensionName)
	if !extension.Exists() {
		return nil, fmt.Errorf("%s 拡張がありません", VrmAnimationExtensionName)
	}

	summary := &InspectSummary{
		Generator:     doc.Asset.Generator,
		SpecVersion:   extension.Get("specVersion").String(),
		NodeCount:     len(doc.Nodes),
		AccessorCount: len(doc.Accessors),
		AnimationName: doc.Animations[0].Name,
		ChannelCount:  len(doc.Animations[0].Channels),
		Duration:      extension.Get("extras.duration").Float(),
		HumanBones:    map[string]BoneChannels{},
	}
	summary.ExtensionsUsed = append(summary.ExtensionsUsed, doc.ExtensionsUsed...)
	root.Get("asset.extras." + model.BvhWarningExtensionKey).ForEach(func(_, value gjson.Result) bool {
		summary.Warnings = append(summary.Warnings, value.String())
		return true
	})

	channels := extension.Get("extras.humanBoneChannels")
	extension.Get("humanoid.humanBones").ForEach(func(key, value gjson.Result) bool {
		bone := BoneChannels{Node: int(value.Get("node").Int()), Rotation: -1, Translation: -1}
		boneChannels := channels.Get(key.String())
		if rotation := boneChannels.Get("rotation"); rotation.Exists() {
			bone.Rotation = int(rotation.Int())
		}
		if translation := boneChannels.Get("translation"); translation.Exists() {
			bone.Translation = int(translation.Int())
		}
		summary.HumanBones[key.String()] = bone
		return true
	})
	return summary, nil
}
