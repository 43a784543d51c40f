package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// FileName is the env file read from a project root.
const FileName = ".env"

// WordPressURLKey holds the WordPress site URL consumed by @wpnuxt/core.
const WordPressURLKey = "WPNUXT_WORDPRESS_URL"

// Parse reads a KEY=VALUE file. A missing file yields an empty map.
// Malformed lines are ignored rather than rejected.
func Parse(path string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return ParseString(string(data)), nil
}

// ParseDir reads the .env file located in dir.
func ParseDir(dir string) (map[string]string, error) {
	return Parse(filepath.Join(dir, FileName))
}

// ParseString applies the same rules as Parse to in-memory content.
func ParseString(content string) map[string]string {
	env := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		env[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	return env
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' || first == '\'') && first == last {
		return value[1 : len(value)-1]
	}
	return value
}

// Write stores env at path, one KEY=VALUE line per key in sorted order.
func Write(path string, env map[string]string) error {
	content, err := Marshal(env)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Marshal renders env so that ParseString and dotenv loaders read back the
// same values. Plain values stay unquoted; others are single-quoted, which
// dotenv takes literally. A value neither form can carry is an error.
func Marshal(env map[string]string) (string, error) {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key + "=" + quote(env[key]) + "\n")
	}
	content := b.String()

	loaded, err := godotenv.Unmarshal(content)
	if err != nil {
		return "", err
	}
	parsed := ParseString(content)
	for _, key := range keys {
		if loaded[key] != env[key] || parsed[key] != env[key] {
			return "", fmt.Errorf("%s: value cannot be stored in %s unambiguously", key, FileName)
		}
	}
	return content, nil
}

func quote(value string) string {
	if value == "" || plainValue.MatchString(value) {
		return value
	}
	return "'" + value + "'"
}

var plainValue = regexp.MustCompile(`^[A-Za-z0-9_./:@%+,=~?&!\[\]-]+$`)
