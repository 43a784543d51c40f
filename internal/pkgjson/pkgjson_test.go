package pkgjson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const starter = `{
  "name": "starter-minimal",
  "private": true,
  "scripts": {
    "dev": "nuxt dev"
  },
  "dependencies": {
    "@wpnuxt/core": "^2.0.0",
    "nuxt": "^4.1.0"
  },
  "devDependencies": {
    "@nuxt/ui": "^3.3.0"
  }
}
`

func TestMergeDependencyAddsMissing(t *testing.T) {
	m, err := Parse([]byte(starter))
	require.NoError(t, err)

	changed, err := m.MergeDependency("@wpnuxt/auth", "latest")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "latest", m.Version("@wpnuxt/auth"))

	out, err := m.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), "    \"nuxt\": \"^4.1.0\",\n    \"@wpnuxt/auth\": \"latest\"\n")
}

func TestMergeDependencyKeepsExistingPin(t *testing.T) {
	m, err := Parse([]byte(starter))
	require.NoError(t, err)

	changed, err := m.MergeDependency("nuxt", "latest")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "^4.1.0", m.Version("nuxt"))
}

func TestMergeDependencyIsIdempotent(t *testing.T) {
	once, err := Parse([]byte(starter))
	require.NoError(t, err)
	_, err = once.MergeDependency("@wpnuxt/blocks", "latest")
	require.NoError(t, err)
	onceBytes, err := once.Bytes()
	require.NoError(t, err)

	twice, err := Parse(onceBytes)
	require.NoError(t, err)
	_, err = twice.MergeDependency("@wpnuxt/blocks", "latest")
	require.NoError(t, err)
	twiceBytes, err := twice.Bytes()
	require.NoError(t, err)

	assert.Equal(t, string(onceBytes), string(twiceBytes))
}

func TestMergeDependencyCreatesSection(t *testing.T) {
	m, err := Parse([]byte(`{"name":"x"}`))
	require.NoError(t, err)

	_, err = m.MergeDependency("@wpnuxt/auth", "latest")
	require.NoError(t, err)

	out, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"x\",\n  \"dependencies\": {\n    \"@wpnuxt/auth\": \"latest\"\n  }\n}\n", string(out))
}

func TestVersionFallsBackToDevDependencies(t *testing.T) {
	m, err := Parse([]byte(starter))
	require.NoError(t, err)

	assert.Equal(t, "^3.3.0", m.Version("@nuxt/ui"))
	assert.True(t, m.HasDependency("@nuxt/ui"))
	assert.False(t, m.HasDependency("@wpnuxt/auth"))
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(starter), 0o600))

	m, err := LoadDir(dir)
	require.NoError(t, err)
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, starter, string(data))

	_, err = LoadDir(t.TempDir())
	assert.True(t, os.IsNotExist(err))
}
