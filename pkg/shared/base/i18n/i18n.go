// 指示: miu200521358
// Package i18n はメッセージキーの翻訳を提供する。
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// 未翻訳キーを囲む記号。
const missingMark = "●●"

// II18n は翻訳契約を表す。
type II18n interface {
	// Lang は使用中の言語タグを返す。
	Lang() string
	// T はキーを翻訳する。見つからない場合はエラーを返す。
	T(key string) (string, error)
}

// Translator は go-i18n のバンドルを使う翻訳器。
type Translator struct {
	lang      language.Tag
	localizer *goi18n.Localizer
}

// NewTranslator は埋め込みカタログを読み込み、指定言語の翻訳器を生成する。
// 言語が空または不正な場合は既定言語を使う。
func NewTranslator(catalogs fs.FS, dir string, defaultLang language.Tag, lang string) (*Translator, error) {
	bundle := goi18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(catalogs, dir)
	if err != nil {
		return nil, fmt.Errorf("翻訳カタログの一覧取得に失敗しました: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(catalogs, path.Join(dir, entry.Name())); err != nil {
			return nil, fmt.Errorf("翻訳カタログの読み込みに失敗しました: %s: %w", entry.Name(), err)
		}
	}

	tag := ResolveLang(lang, defaultLang)
	return &Translator{
		lang:      tag,
		localizer: goi18n.NewLocalizer(bundle, tag.String(), defaultLang.String()),
	}, nil
}

// ResolveLang は言語指定を解決する。空または不正な場合は既定言語を返す。
func ResolveLang(lang string, defaultLang language.Tag) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return defaultLang
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return defaultLang
	}
	base, _ := tag.Base()
	return language.Make(base.String())
}

// Lang は使用中の言語タグを返す。
func (t *Translator) Lang() string {
	return t.lang.String()
}

// T はキーを翻訳する。
func (t *Translator) T(key string) (string, error) {
	return t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: key})
}

// TranslateOrMark は翻訳できない場合にキーを記号で囲んで返す。
func TranslateOrMark(translator II18n, key string) string {
	if translator == nil {
		return missingMark + key + missingMark
	}
	text, err := translator.T(key)
	if err != nil || text == "" {
		return missingMark + key + missingMark
	}
	return text
}
