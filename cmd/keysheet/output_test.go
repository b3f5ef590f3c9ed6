package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestTSVRowsReplacesSeparators(t *testing.T) {
	got := tsvRows([]string{"A", "B"}, [][]string{{"x\ty", "multi\nline"}})
	want := []string{"A\tB", "x y\tmulti line"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tsvRows = %q, want %q", got, want)
	}
}

func TestAlignRowsPadsColumns(t *testing.T) {
	got := alignRows(
		[]string{"ID", "NAME"},
		[][]string{{"1", "Visual Studio Code"}, {"1234", "Chrome"}},
		0,
	)
	want := []string{
		"ID    NAME",
		"1     Visual Studio Code",
		"1234  Chrome",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("alignRows = %q, want %q", got, want)
	}
}

func TestAlignRowsFitsTerminalWidth(t *testing.T) {
	got := alignRows([]string{"ID", "NAME"}, [][]string{{"1", "Visual Studio Code"}}, 12)
	if got[1] != "1   Visua..." {
		t.Fatalf("expected truncated row, got %q", got[1])
	}
	if got[0] != "ID  NAME" {
		t.Fatalf("short header should be untouched, got %q", got[0])
	}
}

func TestFitWidth(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"abcdef", 0, "abcdef"},
		{"abcdef", 6, "abcdef"},
		{"abcdef", 5, "ab..."},
		{"abcdef", 2, "ab"},
		{"äöüßxyz", 6, "äöü..."},
	}
	for _, tc := range cases {
		if got := fitWidth(tc.in, tc.width); got != tc.want {
			t.Errorf("fitWidth(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestTableFallsBackToTSVForPipes(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTable(&buf, "A", "B")
	tbl.Row("1", "2")
	if err := tbl.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if buf.String() != "A\tB\n1\t2\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if newTable(f, "A").aligned {
		t.Fatalf("a regular file is not a terminal")
	}
}

func TestAutostartLifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "autostart")
	path := filepath.Join(dir, autostartFile)

	changed, err := syncAutostart(dir, "/usr/bin/keysheet", false)
	if err != nil || changed {
		t.Fatalf("disabling a missing entry: changed=%v err=%v", changed, err)
	}

	changed, err = syncAutostart(dir, "/usr/bin/keysheet", true)
	if err != nil || !changed {
		t.Fatalf("enable: changed=%v err=%v", changed, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !strings.Contains(string(data), "Exec=\"/usr/bin/keysheet\" daemon\n") {
		t.Fatalf("unexpected entry:\n%s", data)
	}

	changed, err = syncAutostart(dir, "/usr/bin/keysheet", true)
	if err != nil || changed {
		t.Fatalf("re-enable should be a no-op: changed=%v err=%v", changed, err)
	}

	changed, err = syncAutostart(dir, "/usr/bin/keysheet", false)
	if err != nil || !changed {
		t.Fatalf("disable: changed=%v err=%v", changed, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("entry should be removed, stat err=%v", err)
	}
}

func TestAutostartDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	dir, err := autostartDir()
	if err != nil || dir != "/tmp/xdg-config/autostart" {
		t.Fatalf("autostartDir = %q, %v", dir, err)
	}
}
