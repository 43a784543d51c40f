package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpnuxt/wpnuxi/internal/config"
	"github.com/wpnuxt/wpnuxi/internal/prompt"
	"github.com/wpnuxt/wpnuxi/internal/toolchain"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// fakeRunner records commands. A giget download writes files into its
// target directory.
type fakeRunner struct {
	missing  map[string]bool
	failing  map[string]error
	outputs  map[string]string
	download map[string]string
	calls    []string
}

func (f *fakeRunner) LookPath(name string) error {
	if f.missing[name] {
		return fmt.Errorf("%s not found in PATH", name)
	}
	return nil
}

func (f *fakeRunner) Run(ctx context.Context, cmd toolchain.Command) error {
	f.calls = append(f.calls, cmd.String())
	if err := f.failing[cmd.Name]; err != nil {
		return err
	}
	if cmd.Name == "npx" && len(cmd.Args) >= 4 {
		return writeFiles(cmd.Args[3], f.download)
	}
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, cmd toolchain.Command) (string, error) {
	f.calls = append(f.calls, cmd.String())
	if out, ok := f.outputs[cmd.Name]; ok {
		return out, nil
	}
	return "", errors.New("executable file not found")
}

// scriptedPrompter answers by title and falls back to each prompt's default.
type scriptedPrompter struct {
	inputs   map[string]string
	selects  map[string]string
	confirms map[string]bool
	asked    []string
}

func (p *scriptedPrompter) Input(title, _, def string, validate func(string) error) (string, error) {
	p.asked = append(p.asked, title)
	value, ok := p.inputs[title]
	if !ok {
		value = def
	}
	if validate != nil {
		if err := validate(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (p *scriptedPrompter) Select(title string, _ []prompt.Option, initial string) (string, error) {
	p.asked = append(p.asked, title)
	if value, ok := p.selects[title]; ok {
		return value, nil
	}
	return initial, nil
}

func (p *scriptedPrompter) Confirm(title string, initial bool) (bool, error) {
	p.asked = append(p.asked, title)
	if value, ok := p.confirms[title]; ok {
		return value, nil
	}
	return initial, nil
}

type testEnv struct {
	cwd      string
	runner   *fakeRunner
	prompter *scriptedPrompter
	deps     *deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"WPNUXI_PM", "WPNUXI_TEMPLATE", "WPNUXI_WORDPRESS_URL", "WPNUXI_SKIP_INSTALL", "WPNUXI_SKIP_GIT", "WPNUXI_VERBOSE"} {
		t.Setenv(key, "")
	}

	env := &testEnv{
		cwd:      t.TempDir(),
		runner:   &fakeRunner{},
		prompter: &scriptedPrompter{},
	}
	env.deps = &deps{
		loader:     &config.Loader{ConfigPath: filepath.Join(t.TempDir(), "config.yml")},
		runner:     env.runner,
		httpClient: http.DefaultClient,
		prompter:   func(*cobra.Command) prompt.Prompter { return env.prompter },
		getwd:      func() (string, error) { return env.cwd, nil },
		getenv:     func(string) string { return "" },
		logger:     zap.NewNop(),
	}
	return env
}

func (e *testEnv) run(args ...string) (string, error) {
	root := newRootCmd(e.deps)
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFiles(dir string, files map[string]string) error {
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}
	}
	return nil
}

func mustWriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := writeFiles(dir, files); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func containsCall(calls []string, want string) bool {
	for _, call := range calls {
		if call == want {
			return true
		}
	}
	return false
}

func assertContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

const starterConfig = `export default defineNuxtConfig({
  modules: ['@wpnuxt/core'],
  devtools: { enabled: true }
})
`

const starterLayout = `<script setup lang="ts">
const { data: menu } = await useMenu({ name: 'main' })
</script>

<template>
  <nav v-if="menu">
    <NuxtLink to="/">Home</NuxtLink>
  </nav>
  <NuxtPage />
</template>
`

func minimalStarter() map[string]string {
	return map[string]string{
		"nuxt.config.ts": starterConfig,
		"package.json":   `{"name":"wpnuxt-starter-minimal","dependencies":{"@wpnuxt/core":"latest","nuxt":"^4.0.0"}}`,
		"app/app.vue":    starterLayout,
		"blueprint.json": `{"landingPage":"/wp-admin/","steps":[{"step":"login"}]}`,
	}
}
