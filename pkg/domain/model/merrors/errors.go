// 指示: miu200521358
// Package merrors は変換パイプラインのエラー種別を定義する。
package merrors

import (
	"errors"
	"fmt"
)

const (
	// MalformedSkeletonErrorID は骨格構造不正のエラーID。
	MalformedSkeletonErrorID = "MalformedSkeletonError"
	// UnmappableSkeletonErrorID はhips特定不可のエラーID。
	UnmappableSkeletonErrorID = "UnmappableSkeletonError"
	// ScaleOutOfRangeErrorID はスケール範囲外のエラーID。
	ScaleOutOfRangeErrorID = "ScaleOutOfRangeError"
	// UnsupportedInputErrorID は変換不能入力のエラーID。
	UnsupportedInputErrorID = "UnsupportedInputError"
	// BvhParseErrorID はBVH構文不正のエラーID。
	BvhParseErrorID = "BvhParseError"
)

// convertError は変換エラー共通の本体を表す。
type convertError struct {
	message string
	cause   error
}

func newConvertError(format string, cause error, params ...any) convertError {
	message := format
	if len(params) > 0 {
		message = fmt.Sprintf(format, params...)
	}
	return convertError{message: message, cause: cause}
}

func (e convertError) text(id string) string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", id, e.message)
	}
	return fmt.Sprintf("%s: %s: %v", id, e.message, e.cause)
}

// MalformedSkeletonError はルート数不正や循環など骨格構造の異常を表す。
type MalformedSkeletonError struct{ convertError }

// NewMalformedSkeletonError はMalformedSkeletonErrorを生成する。
func NewMalformedSkeletonError(format string, cause error, params ...any) *MalformedSkeletonError {
	return &MalformedSkeletonError{newConvertError(format, cause, params...)}
}

func (e *MalformedSkeletonError) Error() string   { return e.text(e.ErrorID()) }
func (e *MalformedSkeletonError) Unwrap() error   { return e.cause }
func (e *MalformedSkeletonError) ErrorID() string { return MalformedSkeletonErrorID }

// UnmappableSkeletonError はhipsボーンを特定できないことを表す。
type UnmappableSkeletonError struct{ convertError }

// NewUnmappableSkeletonError はUnmappableSkeletonErrorを生成する。
func NewUnmappableSkeletonError(format string, cause error, params ...any) *UnmappableSkeletonError {
	return &UnmappableSkeletonError{newConvertError(format, cause, params...)}
}

func (e *UnmappableSkeletonError) Error() string   { return e.text(e.ErrorID()) }
func (e *UnmappableSkeletonError) Unwrap() error   { return e.cause }
func (e *UnmappableSkeletonError) ErrorID() string { return UnmappableSkeletonErrorID }

// ScaleOutOfRangeError は0以下などスケール指定が不正なことを表す。
type ScaleOutOfRangeError struct {
	convertError
	Scale float64
}

// NewScaleOutOfRangeError はScaleOutOfRangeErrorを生成する。
func NewScaleOutOfRangeError(scale float64) *ScaleOutOfRangeError {
	return &ScaleOutOfRangeError{
		convertError: newConvertError("スケールは0より大きい有限値で指定してください: %v", nil, scale),
		Scale:        scale,
	}
}

func (e *ScaleOutOfRangeError) Error() string   { return e.text(e.ErrorID()) }
func (e *ScaleOutOfRangeError) Unwrap() error   { return e.cause }
func (e *ScaleOutOfRangeError) ErrorID() string { return ScaleOutOfRangeErrorID }

// UnsupportedInputError は解析はできたが変換に使えない入力を表す。
type UnsupportedInputError struct{ convertError }

// NewUnsupportedInputError はUnsupportedInputErrorを生成する。
func NewUnsupportedInputError(format string, cause error, params ...any) *UnsupportedInputError {
	return &UnsupportedInputError{newConvertError(format, cause, params...)}
}

func (e *UnsupportedInputError) Error() string   { return e.text(e.ErrorID()) }
func (e *UnsupportedInputError) Unwrap() error   { return e.cause }
func (e *UnsupportedInputError) ErrorID() string { return UnsupportedInputErrorID }

// BvhParseError はBVHテキストの構文異常を表す。
type BvhParseError struct {
	convertError
	Line int
}

// NewBvhParseError はBvhParseErrorを生成する。lineが0以下の場合は行番号を持たない。
func NewBvhParseError(line int, format string, cause error, params ...any) *BvhParseError {
	return &BvhParseError{convertError: newConvertError(format, cause, params...), Line: line}
}

func (e *BvhParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.text(e.ErrorID()), e.Line)
	}
	return e.text(e.ErrorID())
}
func (e *BvhParseError) Unwrap() error   { return e.cause }
func (e *BvhParseError) ErrorID() string { return BvhParseErrorID }

// IErrorID はエラーIDを持つエラーの契約を表す。
type IErrorID interface {
	error
	ErrorID() string
}

// ErrorID はエラー連鎖から最初に見つかったエラーIDを返す。
func ErrorID(err error) string {
	var idErr IErrorID
	if errors.As(err, &idErr) {
		return idErr.ErrorID()
	}
	return ""
}
