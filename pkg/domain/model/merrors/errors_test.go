// 指示: miu200521358
package merrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIDsAreResolvedThroughWrapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewMalformedSkeletonError("ルートが複数あります: %d", nil, 2), MalformedSkeletonErrorID},
		{NewUnmappableSkeletonError("hipsが見つかりません", nil), UnmappableSkeletonErrorID},
		{NewScaleOutOfRangeError(0), ScaleOutOfRangeErrorID},
		{NewUnsupportedInputError("トラックがありません", nil), UnsupportedInputErrorID},
		{NewBvhParseError(3, "OFFSET が不足しています", nil), BvhParseErrorID},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("変換に失敗しました: %w", tc.err)
		if got := ErrorID(wrapped); got != tc.want {
			t.Fatalf("error id mismatch: got=%s want=%s", got, tc.want)
		}
		if !strings.HasPrefix(tc.err.Error(), tc.want) {
			t.Fatalf("error text should start with id: %s", tc.err.Error())
		}
	}
	if got := ErrorID(errors.New("plain")); got != "" {
		t.Fatalf("plain error should not have id: %s", got)
	}
}

func TestErrorsAsAndUnwrap(t *testing.T) {
	cause := errors.New("cycle")
	err := fmt.Errorf("wrap: %w", NewMalformedSkeletonError("循環があります", cause))

	var malformed *MalformedSkeletonError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedSkeletonError")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable")
	}

	var scaleErr *ScaleOutOfRangeError
	if errors.As(err, &scaleErr) {
		t.Fatalf("unexpected ScaleOutOfRangeError")
	}
}

func TestBvhParseErrorLine(t *testing.T) {
	err := NewBvhParseError(12, "CHANNELS の数が不正です: %s", nil, "x")
	if !strings.Contains(err.Error(), "line 12") {
		t.Fatalf("line missing: %s", err.Error())
	}
	noLine := NewBvhParseError(0, "MOTION がありません", nil)
	if strings.Contains(noLine.Error(), "line") {
		t.Fatalf("line should be omitted: %s", noLine.Error())
	}
}
