package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildOpenCommand(t *testing.T) {
	path := filepath.Join("datos", "sensores.xlsx")
	cases := []struct {
		goos string
		name string
		args string
	}{
		{"windows", "cmd", "/c start  " + path},
		{"darwin", "open", path},
		{"linux", "xdg-open", path},
		{"freebsd", "xdg-open", path},
	}
	for _, c := range cases {
		name, args := buildOpenCommand(c.goos, path)
		if name != c.name {
			t.Fatalf("%s: command %q want %q", c.goos, name, c.name)
		}
		if got := strings.Join(args, " "); got != c.args {
			t.Fatalf("%s: args %q want %q", c.goos, got, c.args)
		}
		if args[len(args)-1] != path {
			t.Fatalf("%s: path must be the last argument, got %v", c.goos, args)
		}
	}
}

func TestOpenLogFile_MissingFile(t *testing.T) {
	err := openLogFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
