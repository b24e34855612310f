// 指示: miu200521358
// Package config はINI形式の変換プリセットとCLIフラグの解決を提供する。
package config

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/minteractor"
	"gopkg.in/ini.v1"
)

const (
	sectionConvert = "convert"
	sectionApp     = "app"

	keyScale     = "scale"
	keyArmSpread = "arm_spread"
	keyNoScaling = "no_scaling"
	keyArtifacts = "artifacts"
	keyLang      = "lang"
	keyLogLevel  = "log_level"
)

// Preset は変換設定を表す。ゼロ値のフィールドはResolveで既定値に置き換える。
type Preset struct {
	Scale       float64
	ArmSpread   float64
	NoScaling   bool
	ArtifactDir string
	Lang        string
	LogLevel    string
}

// Flags はCLIで明示指定された値を表す。nil は未指定。
type Flags struct {
	Scale       *float64
	ArmSpread   *float64
	NoScaling   *bool
	ArtifactDir *string
	Lang        *string
	LogLevel    *string
}

// DefaultPreset は既定の変換設定を返す。
func DefaultPreset() Preset {
	options := minteractor.DefaultConvertOptions()
	return Preset{
		Scale:     options.Scale,
		ArmSpread: options.ArmSpread,
		Lang:      "ja",
		LogLevel:  "info",
	}
}

// Load はINIファイルを読み込む。記載のないキーは既定値のまま残す。
func Load(path string) (Preset, error) {
	preset := DefaultPreset()
	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveSections:     true,
		InsensitiveKeys:         true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return Preset{}, fmt.Errorf("設定ファイルの読み込みに失敗しました: %s: %w", path, err)
	}

	convert := file.Section(sectionConvert)
	if key := convert.Key(keyScale); key.String() != "" {
		if preset.Scale, err = key.Float64(); err != nil {
			return Preset{}, fmt.Errorf("設定値が不正です: %s.%s: %w", sectionConvert, keyScale, err)
		}
	}
	if key := convert.Key(keyArmSpread); key.String() != "" {
		if preset.ArmSpread, err = key.Float64(); err != nil {
			return Preset{}, fmt.Errorf("設定値が不正です: %s.%s: %w", sectionConvert, keyArmSpread, err)
		}
	}
	if key := convert.Key(keyNoScaling); key.String() != "" {
		if preset.NoScaling, err = key.Bool(); err != nil {
			return Preset{}, fmt.Errorf("設定値が不正です: %s.%s: %w", sectionConvert, keyNoScaling, err)
		}
	}
	preset.ArtifactDir = strings.TrimSpace(convert.Key(keyArtifacts).String())

	app := file.Section(sectionApp)
	preset.Lang = app.Key(keyLang).MustString(preset.Lang)
	preset.LogLevel = app.Key(keyLogLevel).MustString(preset.LogLevel)
	return preset, nil
}

// Resolve はCLIフラグで明示指定された値を設定へ上書きする。
func (p *Preset) Resolve(flags Flags) {
	if flags.Scale != nil {
		p.Scale = *flags.Scale
	}
	if flags.ArmSpread != nil {
		p.ArmSpread = *flags.ArmSpread
	}
	if flags.NoScaling != nil {
		p.NoScaling = *flags.NoScaling
	}
	if flags.ArtifactDir != nil {
		p.ArtifactDir = strings.TrimSpace(*flags.ArtifactDir)
	}
	if flags.Lang != nil && strings.TrimSpace(*flags.Lang) != "" {
		p.Lang = strings.TrimSpace(*flags.Lang)
	}
	if flags.LogLevel != nil && strings.TrimSpace(*flags.LogLevel) != "" {
		p.LogLevel = strings.TrimSpace(*flags.LogLevel)
	}
}

// EffectiveScale は倍率無効指定を反映した倍率を返す。
func (p Preset) EffectiveScale() float64 {
	if p.NoScaling {
		return 1.0
	}
	return p.Scale
}

// ConvertOptions は変換時オプションへ変換する。
func (p Preset) ConvertOptions(name string) minteractor.ConvertOptions {
	return minteractor.ConvertOptions{
		Name:      name,
		Scale:     p.EffectiveScale(),
		ArmSpread: p.ArmSpread,
	}
}

// Validate は設定値を検証する。
func (p Preset) Validate() error {
	return p.ConvertOptions("").Validate()
}
