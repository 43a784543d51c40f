package nuxtconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `// https://nuxt.com/docs/api/configuration/nuxt-config
export default defineNuxtConfig({
  modules: ['@wpnuxt/core'],
  wpNuxt: {
    wordpressUrl: process.env.WPNUXT_WORDPRESS_URL
  },
  compatibilityDate: '2025-07-15',
  devtools: { enabled: true }
})
`

var authProviders = Fields{
	{Key: "password", Value: true},
	{Key: "headlessLogin", Value: true},
}

func TestAddModuleAndProviders(t *testing.T) {
	doc, err := Load([]byte(minimalConfig))
	require.NoError(t, err)

	changed, err := doc.AddModule("@wpnuxt/auth")
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, doc.Set([]string{"wpNuxtAuth", "providers"}, authProviders))

	want := `// https://nuxt.com/docs/api/configuration/nuxt-config
export default defineNuxtConfig({
  modules: ['@wpnuxt/core', '@wpnuxt/auth'],
  wpNuxt: {
    wordpressUrl: process.env.WPNUXT_WORDPRESS_URL
  },
  compatibilityDate: '2025-07-15',
  devtools: { enabled: true },
  wpNuxtAuth: {
    providers: {
      password: true,
      headlessLogin: true
    }
  }
})
`
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestPatchTwiceIsIdempotent(t *testing.T) {
	patch := func(src []byte) []byte {
		doc, err := Load(src)
		require.NoError(t, err)
		_, err = doc.AddModule("@wpnuxt/auth")
		require.NoError(t, err)
		require.NoError(t, doc.Set([]string{"wpNuxtAuth", "providers"}, authProviders))
		return doc.Bytes()
	}

	once := patch([]byte(minimalConfig))
	twice := patch(once)
	assert.Equal(t, string(once), string(twice))

	doc, err := Load(twice)
	require.NoError(t, err)
	modules, err := doc.Strings("modules")
	require.NoError(t, err)
	assert.Equal(t, []string{"@wpnuxt/core", "@wpnuxt/auth"}, modules)

	changed, err := doc.AddModule("@wpnuxt/auth")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestAddModuleCreatesModulesArray(t *testing.T) {
	src := `export default defineNuxtConfig({
  devtools: { enabled: true },
})
`
	doc, err := Load([]byte(src))
	require.NoError(t, err)

	changed, err := doc.AddModule("@wpnuxt/blocks")
	require.NoError(t, err)
	assert.True(t, changed)

	want := `export default defineNuxtConfig({
  devtools: { enabled: true },
  modules: ['@wpnuxt/blocks'],
})
`
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestAddModuleToEmptyConfig(t *testing.T) {
	doc, err := Load([]byte("export default defineNuxtConfig({})\n"))
	require.NoError(t, err)

	_, err = doc.AddModule("@wpnuxt/auth")
	require.NoError(t, err)

	assert.Equal(t, "export default defineNuxtConfig({\n  modules: ['@wpnuxt/auth']\n})\n", string(doc.Bytes()))
}

func TestAppendToMultilineArrayKeepsStyle(t *testing.T) {
	src := `export default defineNuxtConfig({
    modules: [
        "@wpnuxt/core", // data layer
        "@nuxt/ui",
    ],
})
`
	doc, err := Load([]byte(src))
	require.NoError(t, err)

	_, err = doc.AddModule("@wpnuxt/auth")
	require.NoError(t, err)

	want := `export default defineNuxtConfig({
    modules: [
        "@wpnuxt/core", // data layer
        "@nuxt/ui",
        "@wpnuxt/auth",
    ],
})
`
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestSetOverwritesValueAndKeepsSiblings(t *testing.T) {
	src := `export default {
  wpNuxtAuth: {
    redirect: '/account',
    providers: { password: false }
  }
}
`
	doc, err := Load([]byte(src))
	require.NoError(t, err)

	require.NoError(t, doc.Set([]string{"wpNuxtAuth", "providers"}, authProviders))

	want := `export default {
  wpNuxtAuth: {
    redirect: '/account',
    providers: {
      password: true,
      headlessLogin: true
    }
  }
}
`
	assert.Equal(t, want, string(doc.Bytes()))

	has, err := doc.Has("wpNuxtAuth", "redirect")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSetScalarsAndQuotedKeys(t *testing.T) {
	doc, err := Load([]byte("export default defineNuxtConfig({ ssr: true })\n"))
	require.NoError(t, err)

	require.NoError(t, doc.Set([]string{"ssr"}, false))
	require.NoError(t, doc.Set([]string{"app-name"}, "it's"))

	assert.Equal(t, "export default defineNuxtConfig({ ssr: false, 'app-name': 'it\\'s' })\n", string(doc.Bytes()))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no default export", "const config = {}\nexport { config }\n", ErrNoDefaultExport},
		{"call without argument", "export default defineNuxtConfig()\n", ErrUnsupportedExport},
		{"identifier export", "const c = {}\nexport default c\n", ErrUnsupportedExport},
		{"syntax error", "export default defineNuxtConfig({ modules: [ })\n", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.src))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	doc, err := Load([]byte("export default defineNuxtConfig({ modules: 'oops', wpNuxtAuth: true })\n"))
	require.NoError(t, err)

	_, err = doc.AddModule("@wpnuxt/auth")
	assert.True(t, errors.Is(err, ErrType))

	err = doc.Set([]string{"wpNuxtAuth", "providers"}, authProviders)
	assert.True(t, errors.Is(err, ErrType))
}

func TestShorthandPropertyIsNotReplaced(t *testing.T) {
	src := "const modules = ['@nuxt/ui']\nexport default defineNuxtConfig({\n  modules,\n  wpNuxtAuth,\n})\n"
	doc, err := Load([]byte(src))
	require.NoError(t, err)

	_, err = doc.AddModule("@wpnuxt/auth")
	assert.ErrorIs(t, err, ErrType)

	err = doc.Set([]string{"wpNuxtAuth", "providers"}, authProviders)
	assert.ErrorIs(t, err, ErrType)

	has, err := doc.Has("modules")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, src, string(doc.Bytes()))
}

func TestCRLFLineEndingsAreKept(t *testing.T) {
	src := "export default defineNuxtConfig({\r\n  modules: [\r\n    '@wpnuxt/core',\r\n  ],\r\n})\r\n"
	doc, err := Load([]byte(src))
	require.NoError(t, err)

	_, err = doc.AddModule("@wpnuxt/auth")
	require.NoError(t, err)
	require.NoError(t, doc.Set([]string{"wpNuxtAuth", "providers"}, authProviders))

	out := string(doc.Bytes())
	assert.Contains(t, out, "'@wpnuxt/core',\r\n    '@wpnuxt/auth',\r\n")
	assert.Contains(t, out, "wpNuxtAuth: {\r\n")
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n", "every inserted line break should be CRLF")
}

func TestLoadFileAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	_, err = doc.AddModule("@wpnuxt/blocks")
	require.NoError(t, err)
	require.NoError(t, doc.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "modules: ['@wpnuxt/core', '@wpnuxt/blocks'],")

	_, err = LoadFile(filepath.Join(t.TempDir(), FileName))
	assert.True(t, os.IsNotExist(err))
}
