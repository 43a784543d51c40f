package cli

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveDir(t *testing.T) {
	tests := []struct {
		name string
		cwd  string
		dir  string
		want string
	}{
		{name: "relative", cwd: "/work", dir: "my-app", want: filepath.Join("/work", "my-app")},
		{name: "dot", cwd: "/work", dir: ".", want: "/work"},
		{name: "absolute", cwd: "/work", dir: "/tmp/site/../app", want: "/tmp/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDir(tt.cwd, tt.dir); got != tt.want {
				t.Fatalf("resolveDir(%q, %q) = %q, want %q", tt.cwd, tt.dir, got, tt.want)
			}
		})
	}
}

func TestProjectDirDefaultsToWorkingDirectory(t *testing.T) {
	d := &deps{getwd: func() (string, error) { return "/work", nil }}

	got, err := d.projectDir("")
	if err != nil {
		t.Fatalf("projectDir failed: %v", err)
	}
	if got != "/work" {
		t.Fatalf("expected /work, got %q", got)
	}
}

func TestProjectDirPropagatesGetwdError(t *testing.T) {
	d := &deps{getwd: func() (string, error) { return "", errors.New("boom") }}

	if _, err := d.projectDir("site"); err == nil {
		t.Fatal("expected error from getwd")
	}
}
