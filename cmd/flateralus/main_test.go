package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/flateralus"
	"github.com/phanxgames/flateralus/particles"
	"github.com/phanxgames/flateralus/settings"
)

func runCmd(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestUsage(t *testing.T) {
	code, _, stderr := runCmd(t)
	if code != 2 || !strings.Contains(stderr, "commands:") {
		t.Errorf("code=%d stderr=%q", code, stderr)
	}
	code, _, stderr = runCmd(t, "bogus")
	if code != 2 || !strings.Contains(stderr, `unknown command "bogus"`) {
		t.Errorf("code=%d stderr=%q", code, stderr)
	}
	if code, _, _ := runCmd(t, "defaults", "-h"); code != 2 {
		t.Errorf("-h code = %d, want 2", code)
	}
}

func TestDefaults(t *testing.T) {
	code, stdout, stderr := runCmd(t, "defaults")
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
	doc, err := settings.Decode([]byte(stdout), settings.JSON)
	if err != nil {
		t.Fatal(err)
	}
	if doc.ManifestID != "particles" {
		t.Errorf("manifestId = %q", doc.ManifestID)
	}
	if err := doc.Validate(particles.Manifest, nil); err != nil {
		t.Error(err)
	}

	code, stdout, _ = runCmd(t, "defaults", "-manifest", "stage", "-format", "yaml")
	if code != 0 || !strings.Contains(stdout, "manifestId: stage") {
		t.Errorf("code=%d stdout=%s", code, stdout)
	}
}

func TestRandomSeeded(t *testing.T) {
	_, a, _ := runCmd(t, "random", "-seed", "7")
	_, b, _ := runCmd(t, "random", "-seed", "7")
	if a != b {
		t.Error("same seed printed different documents")
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(a), &raw); err != nil {
		t.Fatal(err)
	}
	doc, _ := settings.Decode([]byte(a), settings.JSON)
	if err := doc.Validate(particles.Manifest, nil); err != nil {
		t.Errorf("random values invalid: %v", err)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	code, stdout, _ := runCmd(t, "manifest")
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	path := filepath.Join(t.TempDir(), "particles.yaml")
	if err := os.WriteFile(path, []byte(stdout), 0o644); err != nil {
		t.Fatal(err)
	}
	code, stdout, stderr := runCmd(t, "check", path)
	if code != 0 || !strings.Contains(stdout, "ok   "+path+" (particles, 12 controls)") {
		t.Errorf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
}

func TestCheckFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(path, []byte(`{"id": "bad", "controls": [{"type": "select", "name": "s"}]}`), 0o644)
	code, stdout, stderr := runCmd(t, "check", path)
	if code != 1 || !strings.Contains(stdout, "FAIL "+path) || !strings.Contains(stderr, "1 of 1 manifests invalid") {
		t.Errorf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if code, _, _ := runCmd(t, "check"); code != 1 {
		t.Errorf("no args code = %d, want 1", code)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.yaml")
	if err := settings.Write(good, settings.Document{
		ManifestID:    "particles",
		ControlValues: flateralus.ControlValues{particles.ControlSpeed: 100},
	}); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(bad, []byte("manifestId: particles\ncontrolValues:\n  speed: 9000\n"), 0o644)

	code, stdout, _ := runCmd(t, "validate", "-jobs", "2", good, bad)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if lines[0] != "ok   "+good || lines[1] != "FAIL "+bad {
		t.Errorf("stdout = %q", stdout)
	}

	code, _, _ = runCmd(t, "validate", good)
	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.json")
	_ = os.WriteFile(script, []byte(`{"steps": [
		{"action": "wait", "frames": 5},
		{"action": "snapshot", "label": "start"},
		{"action": "update", "values": {"source": "burst"}},
		{"action": "snapshot", "label": "burst"}
	]}`), 0o644)

	out := filepath.Join(dir, "out")
	code, stdout, stderr := runCmd(t, "render", "-width", "64", "-height", "48", "-frames", "30",
		"-seed", "3", "-script", script, "-out", out)
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
	for _, name := range []string{"final.png", "000005_start.png", "000007_burst.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v\nstdout: %s", name, err, stdout)
		}
	}
	if !strings.Contains(stdout, "final.png (8 frames)") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRenderWithSettings(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "settings.json")
	if err := settings.Write(doc, settings.Document{
		ManifestID:    "particles",
		ControlValues: flateralus.ControlValues{particles.ControlEmitRate: 500},
		StageControls: &settings.StageDocument{
			ManifestID:    flateralus.StageManifestID,
			ControlValues: flateralus.ControlValues{flateralus.StageBackgroundColor: "#202020"},
		},
	}); err != nil {
		t.Fatal(err)
	}
	code, stdout, stderr := runCmd(t, "render", "-width", "32", "-height", "32", "-frames", "4",
		"-settings", doc, "-out", dir)
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "(4 frames)") {
		t.Errorf("stdout = %q", stdout)
	}

	_ = os.WriteFile(doc, []byte(`{"manifestId": "particles", "controlValues": {"count": 1}}`), 0o644)
	if code, _, _ := runCmd(t, "render", "-frames", "1", "-settings", doc, "-out", dir); code != 1 {
		t.Errorf("invalid settings code = %d, want 1", code)
	}
}
