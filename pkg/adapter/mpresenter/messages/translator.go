// 指示: miu200521358
package messages

import (
	"embed"

	"github.com/miu200521358/mu_bvh2vrma/pkg/shared/base/i18n"
	"golang.org/x/text/language"
)

//go:embed i18n/*.json
var catalogFiles embed.FS

// catalogDir は埋め込みカタログのディレクトリ。
const catalogDir = "i18n"

// DefaultLang はカタログの既定言語。
var DefaultLang = language.Japanese

// NewTranslator は埋め込みカタログから翻訳器を生成する。
func NewTranslator(lang string) (i18n.II18n, error) {
	translator, err := i18n.NewTranslator(catalogFiles, catalogDir, DefaultLang, lang)
	if err != nil {
		return nil, err
	}
	return translator, nil
}
