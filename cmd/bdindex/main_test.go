package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bdindex/internal/config"
	"bdindex/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeJSON(t *testing.T, data string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(data), v); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, data)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}

// twoItemPlaylist has two 23.976 fps items; the first has chapters at 0 and
// 90 seconds (frames 0 and 2158), the second a single chapter at 0.
func twoItemPlaylist(clipA, clipB string) testsupport.MPLS {
	return testsupport.MPLS{
		Items: []testsupport.PlayItemSpec{
			testsupport.Item(clipA, 0, 45000*600),
			testsupport.Item(clipB, 0, 45000*600),
		},
		Marks: append(testsupport.Marks(0, 0, 45000*90), testsupport.Marks(1, 0)...),
	}
}

// makeRelease lays out two volumes, each with playlist 00001, under a new
// release folder and returns its path.
func makeRelease(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testsupport.MakeVolume(t, filepath.Join(root, "Disc 1"), map[string]testsupport.MPLS{
		"00001": twoItemPlaylist("00010", "00011"),
	})
	testsupport.MakeVolume(t, filepath.Join(root, "Disc 2"), map[string]testsupport.MPLS{
		"00001": twoItemPlaylist("00020", "00021"),
	})
	return root
}
