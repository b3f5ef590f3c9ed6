package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/keysheet/internal/config"
	"github.com/1broseidon/keysheet/internal/storage"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seededDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := runCLI(t, "--data-dir", dir, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir
}

func TestInitSeedsListsOnce(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "--data-dir", dir, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "seeded default shortcut lists") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCLI(t, "--data-dir", dir, "init")
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out, "already present") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInitWriteConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "keysheet", "config.yaml")

	out, err := runCLI(t, "--data-dir", t.TempDir(), "--config", cfgPath, "init", "--write-config")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "wrote "+cfgPath) {
		t.Fatalf("unexpected output %q", out)
	}
	res, err := config.LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected config file to exist, loaded %v", res.Files)
	}
}

func TestAppsListPrintsTSVWhenNotATerminal(t *testing.T) {
	dir := seededDataDir(t)

	out, err := runCLI(t, "--data-dir", dir, "apps", "list")
	if err != nil {
		t.Fatalf("apps list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "ID\tNAME\tPROCESS\tSOURCE\tLISTS" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("expected 2 applications, got %q", out)
	}
	if !strings.Contains(out, "\tVisual Studio Code\tCode.exe\tbundled\t1") {
		t.Fatalf("missing VS Code row in %q", out)
	}
}

func TestAppsSaveOverridesBundledEntry(t *testing.T) {
	dir := seededDataDir(t)

	if _, err := runCLI(t, "--data-dir", dir, "apps", "save", "--process", "code", "--name", "Code OSS"); err != nil {
		t.Fatalf("apps save: %v", err)
	}

	out, err := runCLI(t, "--data-dir", dir, "apps", "list")
	if err != nil {
		t.Fatalf("apps list: %v", err)
	}
	if strings.Contains(out, "Visual Studio Code") {
		t.Fatalf("override should replace the bundled entry: %q", out)
	}
	if !strings.Contains(out, "\tCode OSS\tcode\toverride\t1") {
		t.Fatalf("override should keep the bundled ID and its list: %q", out)
	}
}

func TestAppsListDebugDumpsJSON(t *testing.T) {
	dir := seededDataDir(t)

	out, err := runCLI(t, "--data-dir", dir, "apps", "list", "--debug")
	if err != nil {
		t.Fatalf("apps list --debug: %v", err)
	}
	for _, want := range []string{`"bundled": [`, `"user": []`, `"effective": [`, `"data_dir": "` + dir + `"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}

func TestAppsLookup(t *testing.T) {
	dir := seededDataDir(t)

	out, err := runCLI(t, "--data-dir", dir, "apps", "lookup", "/usr/share/code/CODE.EXE")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.Contains(out, "name:    Visual Studio Code") {
		t.Fatalf("unexpected output %q", out)
	}

	_, err = runCLI(t, "--data-dir", dir, "apps", "lookup", "chrom")
	if err == nil {
		t.Fatalf("expected lookup miss")
	}
	if !strings.Contains(err.Error(), `did you mean "chrome.exe"?`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestListsShowByApplication(t *testing.T) {
	dir := seededDataDir(t)

	out, err := runCLI(t, "--data-dir", dir, "lists", "show", "code")
	if err != nil {
		t.Fatalf("lists show: %v", err)
	}
	if !strings.HasPrefix(out, "General (") {
		t.Fatalf("unexpected heading in %q", out)
	}
	if !strings.Contains(out, "KEYS\tDESCRIPTION\nCtrl+Shift+P\tCommand Palette\n") {
		t.Fatalf("expected shortcuts in order, got %q", out)
	}
}

func TestListsDeleteUnknown(t *testing.T) {
	dir := seededDataDir(t)

	_, err := runCLI(t, "--data-dir", dir, "lists", "delete", "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListsUseRejectsForeignList(t *testing.T) {
	dir := seededDataDir(t)
	store := storage.New(dir)
	lists, err := store.LoadLists()
	if err != nil {
		t.Fatalf("load lists: %v", err)
	}
	var chromeList string
	for _, l := range lists {
		if l.Name == "Navigation" {
			chromeList = l.ID
		}
	}

	_, err = runCLI(t, "--data-dir", dir, "lists", "use", "code", chromeList)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	out, err := runCLI(t, "--data-dir", dir, "lists", "use", "chrome", chromeList)
	if err != nil {
		t.Fatalf("lists use: %v", err)
	}
	if !strings.Contains(out, `Google Chrome now shows "Navigation"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConfigSetSavesFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCLI(t, "--config", cfgPath, "config", "set", "anchor_corner", "TopLeft", "--reload=false")
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	if out != "anchor_corner = TopLeft\n" {
		t.Fatalf("unexpected output %q", out)
	}
	res, err := config.LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.AnchorCorner != "TopLeft" {
		t.Fatalf("anchor not saved: %q", res.Config.AnchorCorner)
	}

	if _, err := runCLI(t, "--config", cfgPath, "config", "set", "overlay.width", "wide", "--reload=false"); err == nil {
		t.Fatalf("expected invalid value error")
	}
}

func TestConfigPathAndExplain(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	writeTestFile(t, cfgPath, "placement:\n  taskbar_reserve: 32\n")

	out, err := runCLI(t, "--config", cfgPath, "config", "path")
	if err != nil || out != cfgPath+"\n" {
		t.Fatalf("config path = %q, %v", out, err)
	}

	out, err = runCLI(t, "--config", cfgPath, "config", "explain", "placement.taskbar_reserve")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasPrefix(out, "path: placement.taskbar_reserve\nsource: file:") ||
		!strings.HasSuffix(out, ":2:20\nvalue:\n32\n") {
		t.Fatalf("unexpected explain output %q", out)
	}
}

func TestStatusWithoutDaemon(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "missing.sock")
	_, err := runCLI(t, "--socket", sock, "status")
	if err == nil || !strings.Contains(err.Error(), "is the daemon running?") {
		t.Fatalf("expected daemon hint, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil || out != "keysheet dev\n" {
		t.Fatalf("version = %q, %v", out, err)
	}
}

func writeTestFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
