package toolchain

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wpnuxt/wpnuxi/internal/pkgmanager"
)

// NodeTimeout bounds the `node --version` lookup.
const NodeTimeout = 5 * time.Second

// Giget downloads project templates through the giget CLI.
type Giget struct {
	Runner Runner
}

// Download fetches repo (a giget source such as github:wpnuxt/starter) into
// dir, overwriting whatever is there.
func (g Giget) Download(ctx context.Context, repo, dir string) error {
	if err := g.Runner.LookPath("npx"); err != nil {
		return fmt.Errorf("download template: %w", err)
	}
	err := g.Runner.Run(ctx, Command{
		Name: "npx",
		Args: []string{"--yes", "giget@latest", repo, dir, "--force"},
	})
	if err != nil {
		return fmt.Errorf("download template %s: %w", repo, err)
	}
	return nil
}

// Installer installs project dependencies with a package manager.
type Installer struct {
	Runner Runner
	// Output receives the package manager's output. Nil keeps it quiet.
	Output io.Writer
}

// Install runs the install command of pm inside dir.
func (i Installer) Install(ctx context.Context, dir string, pm pkgmanager.Name) error {
	if err := i.Runner.LookPath(pm.String()); err != nil {
		return fmt.Errorf("install dependencies: %w", err)
	}
	err := i.Runner.Run(ctx, Command{
		Name:   pm.String(),
		Args:   pkgmanager.InstallArgs(pm),
		Dir:    dir,
		Stdout: i.Output,
		Stderr: i.Output,
	})
	if err != nil {
		return fmt.Errorf("install dependencies: %w", err)
	}
	return nil
}

// Git initializes repositories.
type Git struct {
	Runner Runner
}

// InitialCommit creates a repository in dir and commits every file.
func (g Git) InitialCommit(ctx context.Context, dir string) error {
	steps := [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", "initial commit"},
	}
	for _, args := range steps {
		if err := g.Runner.Run(ctx, Command{Name: "git", Args: args, Dir: dir}); err != nil {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
	}
	return nil
}

// NodeVersion returns the output of `node --version`, such as "v20.11.0".
func NodeVersion(ctx context.Context, r Runner) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, NodeTimeout)
	defer cancel()

	version, err := r.Output(ctx, Command{Name: "node", Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	if version == "" {
		return "", fmt.Errorf("node --version printed nothing")
	}
	return version, nil
}
