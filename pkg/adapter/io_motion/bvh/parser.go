// 指示: miu200521358
package bvh

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"gonum.org/v1/gonum/spatial/r3"
)

// endSiteSuffix は End Site から生成する関節名の接尾辞。
const endSiteSuffix = "_end"

// maxChannelsPerJoint は1関節が宣言できるチャンネル数の上限。
const maxChannelsPerJoint = 6

// ParseResult はBVH解析結果を表す。
type ParseResult struct {
	Motion       *model.Motion
	ShiftJIS     bool
	ChannelCount int
}

// Parse はBVHバイト列を骨格とアニメーションクリップへ変換する。
func Parse(name string, data []byte) (*ParseResult, error) {
	text, shiftJIS := decodeText(data)
	result, err := ParseString(name, text)
	if err != nil {
		return nil, err
	}
	result.ShiftJIS = shiftJIS
	return result, nil
}

// ParseString はBVHテキストを骨格とアニメーションクリップへ変換する。
func ParseString(name string, text string) (*ParseResult, error) {
	stream := &tokenStream{tokens: tokenize(text)}
	if err := stream.expect("HIERARCHY"); err != nil {
		return nil, err
	}

	parser := &hierarchyParser{stream: stream}
	if err := stream.expect("ROOT"); err != nil {
		return nil, err
	}
	if err := parser.parseJoint(model.NoParent, stream.tokens[stream.position-1].line); err != nil {
		return nil, err
	}
	skeleton, err := model.BuildSkeleton(parser.joints)
	if err != nil {
		return nil, err
	}

	frameCount, frameTime, err := parseMotionHeader(stream)
	if err != nil {
		return nil, err
	}
	frames, err := parseFrames(stream, frameCount, parser.channelCount)
	if err != nil {
		return nil, err
	}
	logBvhDebug("BVH解析: joints=%d channels=%d frames=%d frameTime=%f",
		skeleton.Len(), parser.channelCount, frameCount, frameTime)

	clip := buildClip(name, skeleton, frames, frameTime)
	return &ParseResult{
		Motion: &model.Motion{
			Name:       name,
			Skeleton:   skeleton,
			Clip:       clip,
			FrameCount: frameCount,
			FrameTime:  frameTime,
		},
		ChannelCount: parser.channelCount,
	}, nil
}

// hierarchyParser はHIERARCHY節を関節アリーナへ展開する。
type hierarchyParser struct {
	stream       *tokenStream
	joints       []model.Joint
	channelCount int
}

// parseJoint は ROOT/JOINT キーワード直後から関節ブロックを読む。
func (p *hierarchyParser) parseJoint(parentIndex int, keywordLine int) error {
	name := p.stream.restOfLine(keywordLine)
	if name == "" {
		return merrors.NewBvhParseError(keywordLine, "関節名がありません", nil)
	}
	index := len(p.joints)
	p.joints = append(p.joints, model.Joint{Name: name, ParentIndex: parentIndex})

	if err := p.stream.expect("{"); err != nil {
		return err
	}
	offset, err := p.parseOffset()
	if err != nil {
		return err
	}
	p.joints[index].Offset = offset

	if strings.EqualFold(p.stream.peek(), "CHANNELS") {
		channels, err := p.parseChannels()
		if err != nil {
			return err
		}
		p.joints[index].Channels = channels
		p.channelCount += len(channels)
	}

	for {
		tok, err := p.stream.next()
		if err != nil {
			return merrors.NewBvhParseError(p.stream.line(), "関節ブロックが閉じていません: %s", err, name)
		}
		switch {
		case tok.text == "}":
			return nil
		case strings.EqualFold(tok.text, "JOINT"):
			if err := p.parseJoint(index, tok.line); err != nil {
				return err
			}
		case strings.EqualFold(tok.text, "End"):
			if err := p.stream.expect("Site"); err != nil {
				return err
			}
			if err := p.parseEndSite(index); err != nil {
				return err
			}
		default:
			return merrors.NewBvhParseError(tok.line, "関節ブロック内に不明な語があります: %s", nil, tok.text)
		}
	}
}

// parseEndSite は End Site ブロックを終端関節として読む。
func (p *hierarchyParser) parseEndSite(parentIndex int) error {
	if err := p.stream.expect("{"); err != nil {
		return err
	}
	offset, err := p.parseOffset()
	if err != nil {
		return err
	}
	if err := p.stream.expect("}"); err != nil {
		return err
	}
	p.joints = append(p.joints, model.Joint{
		Name:        p.joints[parentIndex].Name + endSiteSuffix,
		Offset:      offset,
		ParentIndex: parentIndex,
		IsEndSite:   true,
	})
	return nil
}

func (p *hierarchyParser) parseOffset() (r3.Vec, error) {
	if err := p.stream.expect("OFFSET"); err != nil {
		return r3.Vec{}, err
	}
	values := [3]float64{}
	for i := range values {
		value, err := p.stream.nextFloat()
		if err != nil {
			return r3.Vec{}, err
		}
		values[i] = value
	}
	return r3.Vec{X: values[0], Y: values[1], Z: values[2]}, nil
}

func (p *hierarchyParser) parseChannels() ([]model.ChannelType, error) {
	if err := p.stream.expect("CHANNELS"); err != nil {
		return nil, err
	}
	line := p.stream.line()
	count, err := p.stream.nextInt()
	if err != nil {
		return nil, err
	}
	if count < 0 || count > maxChannelsPerJoint {
		return nil, merrors.NewBvhParseError(line, "CHANNELS の数が不正です: %d", nil, count)
	}
	channels := make([]model.ChannelType, 0, count)
	for i := 0; i < count; i++ {
		tok, err := p.stream.next()
		if err != nil {
			return nil, err
		}
		channel, ok := model.ParseChannelType(tok.text)
		if !ok {
			return nil, merrors.NewBvhParseError(tok.line, "不明なチャンネルです: %s", nil, tok.text)
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

// parseMotionHeader は MOTION / Frames / Frame Time を読む。
func parseMotionHeader(stream *tokenStream) (int, float64, error) {
	if err := stream.expect("MOTION"); err != nil {
		return 0, 0, err
	}
	if err := stream.expect("Frames:"); err != nil {
		return 0, 0, err
	}
	line := stream.line()
	frameCount, err := stream.nextInt()
	if err != nil {
		return 0, 0, err
	}
	if frameCount <= 0 {
		return 0, 0, merrors.NewUnsupportedInputError("フレーム数が0です", merrors.NewBvhParseError(line, "Frames: %d", nil, frameCount))
	}
	if err := stream.expect("Frame"); err != nil {
		return 0, 0, err
	}
	if err := stream.expect("Time:"); err != nil {
		return 0, 0, err
	}
	line = stream.line()
	frameTime, err := stream.nextFloat()
	if err != nil {
		return 0, 0, err
	}
	if !(frameTime > 0) || math.IsInf(frameTime, 0) {
		return 0, 0, merrors.NewBvhParseError(line, "Frame Time が不正です: %f", nil, frameTime)
	}
	return frameCount, frameTime, nil
}

// parseFrames はフレーム値を frameCount 行分読む。
func parseFrames(stream *tokenStream, frameCount int, channelCount int) ([][]float64, error) {
	frames := make([][]float64, frameCount)
	for frameIndex := range frames {
		values := make([]float64, channelCount)
		for i := range values {
			value, err := stream.nextFloat()
			if err != nil {
				return nil, merrors.NewBvhParseError(stream.line(), "フレーム値が不足しています: frame=%d", err, frameIndex)
			}
			values[i] = value
		}
		frames[frameIndex] = values
	}
	if !stream.done() {
		logBvhWarn("BVH解析: フレーム値が余っています: remaining=%d", len(stream.tokens)-stream.position)
	}
	return frames, nil
}

// buildClip はフレーム値を関節ごとの移動・回転トラックへ展開する。フレーム値の列は関節の宣言順に並ぶ。
// 移動チャンネルの値はそのままローカル位置として扱い、回転チャンネルは宣言順に右から合成する。
func buildClip(name string, skeleton *model.Skeleton, frames [][]float64, frameTime float64) *model.AnimationClip {
	times := make([]float64, len(frames))
	for i := range times {
		times[i] = float64(i) * frameTime
	}

	clip := &model.AnimationClip{Name: name}
	column := 0
	for index, joint := range skeleton.Joints {
		if len(joint.Channels) == 0 {
			continue
		}
		var positions []r3.Vec
		var rotations []mgl64.Quat
		if joint.HasPositionChannel() {
			positions = make([]r3.Vec, len(frames))
		}
		if joint.HasRotationChannel() {
			rotations = make([]mgl64.Quat, len(frames))
		}
		for frameIndex, values := range frames {
			position := r3.Vec{}
			rotation := mgl64.QuatIdent()
			for channelIndex, channel := range joint.Channels {
				value := values[column+channelIndex]
				switch channel {
				case model.CHANNEL_X_POSITION:
					position.X = value
				case model.CHANNEL_Y_POSITION:
					position.Y = value
				case model.CHANNEL_Z_POSITION:
					position.Z = value
				default:
					rotation = rotation.Mul(mgl64.QuatRotate(mgl64.DegToRad(value), channel.Axis()))
				}
			}
			if positions != nil {
				positions[frameIndex] = position
			}
			if rotations != nil {
				rotations[frameIndex] = rotation.Normalize()
			}
		}
		column += len(joint.Channels)

		if positions != nil {
			clip.Tracks = append(clip.Tracks, model.Track{
				JointIndex: index,
				JointName:  joint.Name,
				Kind:       model.TRACK_KIND_POSITION,
				Times:      append([]float64(nil), times...),
				Positions:  positions,
			})
		}
		if rotations != nil {
			clip.Tracks = append(clip.Tracks, model.Track{
				JointIndex: index,
				JointName:  joint.Name,
				Kind:       model.TRACK_KIND_ROTATION,
				Times:      append([]float64(nil), times...),
				Rotations:  rotations,
			})
		}
	}
	return clip
}
