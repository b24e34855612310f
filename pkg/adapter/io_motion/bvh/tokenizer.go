// 指示: miu200521358
package bvh

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/miu200521358/mu_bvh2vrma/pkg/domain/model/merrors"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// utf8BOM はUTF-8のバイトオーダーマーク。
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// token はBVHテキストの空白区切り語と行番号を表す。
type token struct {
	text string
	line int
}

// decodeText はBVHバイト列を文字列へ変換する。UTF-8として不正な場合はShift_JISとして読む。
func decodeText(data []byte) (string, bool) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), false
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return string(data), false
	}
	return string(decoded), true
}

// tokenize はテキストを行番号付きの語へ分解する。
func tokenize(text string) []token {
	tokens := make([]token, 0, len(text)/4)
	for lineIndex, line := range strings.Split(text, "\n") {
		for _, field := range strings.Fields(line) {
			tokens = append(tokens, token{text: field, line: lineIndex + 1})
		}
	}
	return tokens
}

// tokenStream は語列の逐次読み出しを表す。
type tokenStream struct {
	tokens   []token
	position int
}

func (s *tokenStream) done() bool {
	return s.position >= len(s.tokens)
}

// line は次に読む語の行番号を返す。終端では最終行を返す。
func (s *tokenStream) line() int {
	if s.done() {
		if len(s.tokens) == 0 {
			return 0
		}
		return s.tokens[len(s.tokens)-1].line
	}
	return s.tokens[s.position].line
}

func (s *tokenStream) peek() string {
	if s.done() {
		return ""
	}
	return s.tokens[s.position].text
}

func (s *tokenStream) next() (token, error) {
	if s.done() {
		return token{}, merrors.NewBvhParseError(s.line(), "予期しないファイル終端です", nil)
	}
	tok := s.tokens[s.position]
	s.position++
	return tok, nil
}

// expect は大文字小文字を無視して指定語を読み進める。
func (s *tokenStream) expect(keyword string) error {
	tok, err := s.next()
	if err != nil {
		return merrors.NewBvhParseError(s.line(), "%s が必要です", err, keyword)
	}
	if !strings.EqualFold(tok.text, keyword) {
		return merrors.NewBvhParseError(tok.line, "%s が必要です: got=%s", nil, keyword, tok.text)
	}
	return nil
}

// restOfLine は現在行の残りの語を空白で連結して返す。
func (s *tokenStream) restOfLine(line int) string {
	parts := []string{}
	for !s.done() && s.tokens[s.position].line == line && s.tokens[s.position].text != "{" {
		parts = append(parts, s.tokens[s.position].text)
		s.position++
	}
	return strings.Join(parts, " ")
}

func (s *tokenStream) nextFloat() (float64, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		return 0, merrors.NewBvhParseError(tok.line, "数値として解釈できません: %s", err, tok.text)
	}
	return value, nil
}

func (s *tokenStream) nextInt() (int, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(tok.text)
	if err != nil {
		return 0, merrors.NewBvhParseError(tok.line, "整数として解釈できません: %s", err, tok.text)
	}
	return value, nil
}
