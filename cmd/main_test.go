// 指示: miu200521358
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBvh = `HIERARCHY
ROOT Hips
{
  OFFSET 0 90 0
  CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
  JOINT Spine
  {
    OFFSET 0 10 0
    CHANNELS 3 Zrotation Xrotation Yrotation
    End Site
    {
      OFFSET 0 10 0
    }
  }
}
MOTION
Frames: 2
Frame Time: 0.5
0 90 0 0 0 0 0 0 0
1 91 0 0 10 0 5 0 0
`

func TestRunConvertWritesVrma(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "walk.bvh")
	if err := os.WriteFile(inPath, []byte(sampleBvh), 0o644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	out := bytes.NewBuffer(nil)
	errOut := bytes.NewBuffer(nil)
	if err := run([]string{"convert", inPath, "--arm-spread", "10", "--log-level", "error"}, out, errOut); err != nil {
		t.Fatalf("run failed: %v stderr=%s", err, errOut.String())
	}
	outPath := filepath.Join(tempDir, "walk.vrma")
	if strings.TrimSpace(out.String()) != outPath {
		t.Fatalf("stdout mismatch: got=%s want=%s", out.String(), outPath)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("output not found: %v", err)
	}
}

func TestRunConvertRejectsZeroScale(t *testing.T) {
	inPath := filepath.Join(t.TempDir(), "walk.bvh")
	if err := os.WriteFile(inPath, []byte(sampleBvh), 0o644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	err := run([]string{"convert", inPath, "--scale", "0", "--log-level", "error"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, statErr := os.Stat(strings.TrimSuffix(inPath, ".bvh") + ".vrma"); statErr == nil {
		t.Fatalf("output should not be written")
	}
}

func TestRunRequiresInput(t *testing.T) {
	if err := run([]string{"convert"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunInspectAfterConvert(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "walk.bvh")
	if err := os.WriteFile(inPath, []byte(sampleBvh), 0o644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	outPath := filepath.Join(tempDir, "out", "result.vrma")
	if err := run([]string{"convert", inPath, outPath, "--log-level", "error"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	out := bytes.NewBuffer(nil)
	if err := run([]string{"inspect", outPath, "--log-level", "error"}, out, bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"specVersion: 1.0", "VRMC_vrm_animation", "hips", "spine"} {
		if !strings.Contains(text, want) {
			t.Fatalf("inspect output missing %q: %s", want, text)
		}
	}
}
