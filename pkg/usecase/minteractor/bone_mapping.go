// 指示: miu200521358
package minteractor

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
)

// boneSide は関節名から判定した左右を表す。
type boneSide int

const (
	boneSideCenter boneSide = iota
	boneSideLeft
	boneSideRight
)

// humanBoneRule は正規化済み関節名から正規ボーンへの対応ルールを表す。
// Patterns は特定度の高い順に評価する。
type humanBoneRule struct {
	Bone     model.HumanBoneName
	Side     boneSide
	Patterns []*regexp.Regexp
}

// normalizedJointName は照合用に分解した関節名を表す。
// Core は左右の語を除いた語を連結したもの、Words はその分割前の語列。
type normalizedJointName struct {
	Side  boneSide
	Core  string
	Words []string
}

// matchScope は関節名のどの範囲をパターンと照合するかを表す。
type matchScope int

const (
	// matchScopeWhole は名前全体での一致。
	matchScopeWhole matchScope = iota
	// matchScopeWords は連続する語の並びでの一致。
	matchScopeWords
)

// matchScopes は照合の優先順。名前全体での一致を語単位の一致より優先する。
var matchScopes = []matchScope{matchScopeWhole, matchScopeWords}

// matches はパターンが関節名に一致するか判定する。
func (n normalizedJointName) matches(pattern *regexp.Regexp, scope matchScope) bool {
	if scope == matchScopeWhole {
		return pattern.MatchString(n.Core)
	}
	for start := range n.Words {
		for end := start + 1; end <= len(n.Words); end++ {
			if pattern.MatchString(strings.Join(n.Words[start:end], "")) {
				return true
			}
		}
	}
	return false
}

var (
	namespacePrefixPattern = regexp.MustCompile(`^.*:`)
	rigPrefixPattern       = regexp.MustCompile(`(?i)^(mixamorig\d*_|bip0*1[\s_]*|cc_base_)`)
	torsoChainPattern      = regexp.MustCompile(`^(spine\d*|lowerback|abdomen\d*|chest\d*|upperchest|torso)$`)
)

// requiredHumanBones はVRMヒューマノイドで必須のボーンを保持する。
var requiredHumanBones = []model.HumanBoneName{
	model.HUMAN_BONE_HIPS,
	model.HUMAN_BONE_SPINE,
	model.HUMAN_BONE_HEAD,
	model.HUMAN_BONE_LEFT_UPPER_LEG,
	model.HUMAN_BONE_LEFT_LOWER_LEG,
	model.HUMAN_BONE_LEFT_FOOT,
	model.HUMAN_BONE_RIGHT_UPPER_LEG,
	model.HUMAN_BONE_RIGHT_LOWER_LEG,
	model.HUMAN_BONE_RIGHT_FOOT,
	model.HUMAN_BONE_LEFT_UPPER_ARM,
	model.HUMAN_BONE_LEFT_LOWER_ARM,
	model.HUMAN_BONE_LEFT_HAND,
	model.HUMAN_BONE_RIGHT_UPPER_ARM,
	model.HUMAN_BONE_RIGHT_LOWER_ARM,
	model.HUMAN_BONE_RIGHT_HAND,
}

var hipsRule = humanBoneRule{
	Bone:     model.HUMAN_BONE_HIPS,
	Side:     boneSideCenter,
	Patterns: compilePatterns(`^hips$`, `^hip$`, `^pelvis$`),
}

// humanBoneRules は体幹チェーン以外の正規ボーン対応ルールを保持する。
var humanBoneRules = buildHumanBoneRules()

func buildHumanBoneRules() []humanBoneRule {
	rules := []humanBoneRule{
		{Bone: model.HUMAN_BONE_NECK, Side: boneSideCenter, Patterns: compilePatterns(`^neck$`, `^neck\d+$`)},
		{Bone: model.HUMAN_BONE_HEAD, Side: boneSideCenter, Patterns: compilePatterns(`^head$`)},
		{Bone: model.HUMAN_BONE_JAW, Side: boneSideCenter, Patterns: compilePatterns(`^jaw$`)},
	}
	for _, side := range []boneSide{boneSideLeft, boneSideRight} {
		rules = append(rules,
			sidedRule(side, model.HUMAN_BONE_LEFT_EYE, model.HUMAN_BONE_RIGHT_EYE, `^eye$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_UPPER_LEG, model.HUMAN_BONE_RIGHT_UPPER_LEG,
				`^(upleg|upperleg)$`, `^thigh$`, `^(hip|femur)$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_LOWER_LEG, model.HUMAN_BONE_RIGHT_LOWER_LEG,
				`^(leg|lowerleg)$`, `^(knee|shin|calf|tibia)$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_FOOT, model.HUMAN_BONE_RIGHT_FOOT, `^foot$`, `^ankle$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_TOES, model.HUMAN_BONE_RIGHT_TOES, `^(toebase|toes?)$`, `^(ball|toe0?1)$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_SHOULDER, model.HUMAN_BONE_RIGHT_SHOULDER,
				`^shoulder$`, `^(clavicle|collar)$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_UPPER_ARM, model.HUMAN_BONE_RIGHT_UPPER_ARM,
				`^(arm|upperarm)$`, `^(uparm|humerus)$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_LOWER_ARM, model.HUMAN_BONE_RIGHT_LOWER_ARM,
				`^(forearm|lowerarm)$`, `^(elbow|radius)$`),
			sidedRule(side, model.HUMAN_BONE_LEFT_HAND, model.HUMAN_BONE_RIGHT_HAND, `^hand$`, `^wrist$`),
		)
		rules = append(rules, fingerRules(side)...)
	}
	return rules
}

// fingerRules は指ボーンの対応ルールを生成する。親指は中手骨から数える。
func fingerRules(side boneSide) []humanBoneRule {
	type fingerSegments struct {
		alias string
		left  [3]model.HumanBoneName
		right [3]model.HumanBoneName
	}
	fingers := []fingerSegments{
		{alias: `thumb`,
			left:  [3]model.HumanBoneName{model.HUMAN_BONE_LEFT_THUMB_METACARPAL, model.HUMAN_BONE_LEFT_THUMB_PROXIMAL, model.HUMAN_BONE_LEFT_THUMB_DISTAL},
			right: [3]model.HumanBoneName{model.HUMAN_BONE_RIGHT_THUMB_METACARPAL, model.HUMAN_BONE_RIGHT_THUMB_PROXIMAL, model.HUMAN_BONE_RIGHT_THUMB_DISTAL}},
		{alias: `index`,
			left:  [3]model.HumanBoneName{model.HUMAN_BONE_LEFT_INDEX_PROXIMAL, model.HUMAN_BONE_LEFT_INDEX_INTERMEDIATE, model.HUMAN_BONE_LEFT_INDEX_DISTAL},
			right: [3]model.HumanBoneName{model.HUMAN_BONE_RIGHT_INDEX_PROXIMAL, model.HUMAN_BONE_RIGHT_INDEX_INTERMEDIATE, model.HUMAN_BONE_RIGHT_INDEX_DISTAL}},
		{alias: `middle`,
			left:  [3]model.HumanBoneName{model.HUMAN_BONE_LEFT_MIDDLE_PROXIMAL, model.HUMAN_BONE_LEFT_MIDDLE_INTERMEDIATE, model.HUMAN_BONE_LEFT_MIDDLE_DISTAL},
			right: [3]model.HumanBoneName{model.HUMAN_BONE_RIGHT_MIDDLE_PROXIMAL, model.HUMAN_BONE_RIGHT_MIDDLE_INTERMEDIATE, model.HUMAN_BONE_RIGHT_MIDDLE_DISTAL}},
		{alias: `ring`,
			left:  [3]model.HumanBoneName{model.HUMAN_BONE_LEFT_RING_PROXIMAL, model.HUMAN_BONE_LEFT_RING_INTERMEDIATE, model.HUMAN_BONE_LEFT_RING_DISTAL},
			right: [3]model.HumanBoneName{model.HUMAN_BONE_RIGHT_RING_PROXIMAL, model.HUMAN_BONE_RIGHT_RING_INTERMEDIATE, model.HUMAN_BONE_RIGHT_RING_DISTAL}},
		{alias: `(little|pinky)`,
			left:  [3]model.HumanBoneName{model.HUMAN_BONE_LEFT_LITTLE_PROXIMAL, model.HUMAN_BONE_LEFT_LITTLE_INTERMEDIATE, model.HUMAN_BONE_LEFT_LITTLE_DISTAL},
			right: [3]model.HumanBoneName{model.HUMAN_BONE_RIGHT_LITTLE_PROXIMAL, model.HUMAN_BONE_RIGHT_LITTLE_INTERMEDIATE, model.HUMAN_BONE_RIGHT_LITTLE_DISTAL}},
	}

	rules := make([]humanBoneRule, 0, len(fingers)*3)
	for _, finger := range fingers {
		for segment := 0; segment < 3; segment++ {
			bones := finger.left
			if side == boneSideRight {
				bones = finger.right
			}
			patterns := []string{`^(hand)?(finger)?` + finger.alias + `0?` + string(rune('1'+segment)) + `$`}
			if segment == 0 {
				// 番号なしの指名は根元として扱う。
				patterns = append(patterns, `^(hand)?(finger)?`+finger.alias+`$`)
			}
			rules = append(rules, humanBoneRule{Bone: bones[segment], Side: side, Patterns: compilePatterns(patterns...)})
		}
	}
	return rules
}

func sidedRule(side boneSide, left model.HumanBoneName, right model.HumanBoneName, patterns ...string) humanBoneRule {
	bone := left
	if side == boneSideRight {
		bone = right
	}
	return humanBoneRule{Bone: bone, Side: side, Patterns: compilePatterns(patterns...)}
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}
	return compiled
}

// MapHumanoidBones は骨格の関節名を正規ヒューマノイドボーンへ対応付ける。
func MapHumanoidBones(skeleton *model.Skeleton) (*model.HumanoidBoneMap, []string, error) {
	if skeleton == nil || skeleton.Len() == 0 {
		return nil, nil, merrors.NewUnsupportedInputError("ボーン対応付け対象の骨格がありません", nil)
	}
	if err := skeleton.Validate(); err != nil {
		return nil, nil, err
	}
	names := normalizeJointNames(skeleton)
	boneMap := model.NewHumanoidBoneMap()

	hipsIndex, err := resolveHips(skeleton, names)
	if err != nil {
		return nil, nil, err
	}
	boneMap.Set(model.HUMAN_BONE_HIPS, hipsIndex)

	assignTorsoChain(skeleton, names, boneMap, hipsIndex)
	for _, rule := range humanBoneRules {
		if _, exists := boneMap.Get(rule.Bone); exists {
			continue
		}
		if index, ok := findRuleMatch(skeleton, names, boneMap, rule); ok {
			boneMap.Set(rule.Bone, index)
		}
	}

	warnings := []string{}
	missing := []string{}
	for _, bone := range requiredHumanBones {
		if _, ok := boneMap.Get(bone); !ok {
			missing = append(missing, string(bone))
		}
	}
	if len(missing) > 0 {
		logConvertWarn("ヒューマノイドボーン未検出: %s", strings.Join(missing, ","))
		warnings = append(warnings, model.BvhWarningHumanBoneMissing)
	}
	logConvertDebug("ヒューマノイドボーン対応付け完了: mapped=%d joints=%d", boneMap.Len(), skeleton.Len())
	return boneMap, warnings, nil
}

// resolveHips はhipsの関節を決定する。名前全体での一致を語単位の一致より優先し、
// 最初に一致したパターンが祖先関係にない複数関節へ一致した場合は曖昧として拒否する。
func resolveHips(skeleton *model.Skeleton, names []normalizedJointName) (int, error) {
	for _, scope := range matchScopes {
		for _, pattern := range hipsRule.Patterns {
			matches := []int{}
			for _, index := range skeleton.Order {
				if skeleton.Joints[index].IsEndSite {
					continue
				}
				name := names[index]
				if name.Side != hipsRule.Side || !name.matches(pattern, scope) {
					continue
				}
				matches = append(matches, index)
			}
			if len(matches) == 0 {
				continue
			}
			for _, other := range matches[1:] {
				if !skeleton.IsAncestor(matches[0], other) {
					return model.NoParent, merrors.NewUnmappableSkeletonError(
						"hipsの候補が複数あります: %s, %s", nil,
						skeleton.Joints[matches[0]].Name, skeleton.Joints[other].Name)
				}
			}
			return matches[0], nil
		}
	}
	return model.NoParent, merrors.NewUnmappableSkeletonError("hipsに該当する関節が見つかりません", nil)
}

// assignTorsoChain はhips配下の体幹関節列を spine, chest, upperChest へ割り当てる。
func assignTorsoChain(
	skeleton *model.Skeleton,
	names []normalizedJointName,
	boneMap *model.HumanoidBoneMap,
	hipsIndex int,
) {
	chain := []int{}
	for _, index := range skeleton.Order {
		joint := skeleton.Joints[index]
		if joint.IsEndSite || index == hipsIndex || !skeleton.IsAncestor(hipsIndex, index) {
			continue
		}
		name := names[index]
		if name.Side != boneSideCenter || !name.matches(torsoChainPattern, matchScopeWords) {
			continue
		}
		if len(chain) > 0 && !skeleton.IsAncestor(chain[len(chain)-1], index) {
			continue
		}
		chain = append(chain, index)
	}
	if len(chain) == 0 {
		return
	}
	boneMap.Set(model.HUMAN_BONE_SPINE, chain[0])
	if len(chain) >= 2 {
		boneMap.Set(model.HUMAN_BONE_CHEST, chain[1])
	}
	if len(chain) >= 3 {
		boneMap.Set(model.HUMAN_BONE_UPPER_CHEST, chain[len(chain)-1])
	}
}

// findRuleMatch はルールのパターンを名前全体、語単位の順に評価し、未割り当ての最初の関節を返す。
func findRuleMatch(
	skeleton *model.Skeleton,
	names []normalizedJointName,
	boneMap *model.HumanoidBoneMap,
	rule humanBoneRule,
) (int, bool) {
	for _, scope := range matchScopes {
		for _, pattern := range rule.Patterns {
			for _, index := range skeleton.Order {
				if skeleton.Joints[index].IsEndSite {
					continue
				}
				if _, claimed := boneMap.BoneOf(index); claimed {
					continue
				}
				name := names[index]
				if name.Side == rule.Side && name.matches(pattern, scope) {
					return index, true
				}
			}
		}
	}
	return model.NoParent, false
}

// normalizeJointNames は全関節名を照合用に分解する。
func normalizeJointNames(skeleton *model.Skeleton) []normalizedJointName {
	names := make([]normalizedJointName, skeleton.Len())
	for i, joint := range skeleton.Joints {
		names[i] = normalizeJointName(joint.Name)
	}
	return names
}

// normalizeJointName は名前空間を除去し、左右の語を切り出して残りを小文字で連結する。
func normalizeJointName(name string) normalizedJointName {
	trimmed := namespacePrefixPattern.ReplaceAllString(strings.TrimSpace(name), "")
	trimmed = rigPrefixPattern.ReplaceAllString(trimmed, "")
	words := splitNameWords(trimmed)
	side := boneSideCenter
	if len(words) > 1 {
		if s := sideOfWord(words[0]); s != boneSideCenter {
			side = s
			words = words[1:]
		} else if s := sideOfWord(words[len(words)-1]); s != boneSideCenter {
			side = s
			words = words[:len(words)-1]
		} else {
			// 接頭辞付きの名前では left/right が途中に現れる。
			for i, word := range words {
				if word == "left" || word == "right" {
					side = sideOfWord(word)
					words = append(words[:i:i], words[i+1:]...)
					break
				}
			}
		}
	}
	return normalizedJointName{Side: side, Core: strings.Join(words, ""), Words: words}
}

func sideOfWord(word string) boneSide {
	switch word {
	case "l", "left":
		return boneSideLeft
	case "r", "right":
		return boneSideRight
	}
	return boneSideCenter
}

// splitNameWords は区切り文字とキャメルケースの境界で名前を小文字の語へ分割する。
func splitNameWords(name string) []string {
	words := []string{}
	current := []rune{}
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(current) > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}
