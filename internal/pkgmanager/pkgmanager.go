// Package pkgmanager identifies the JavaScript package manager of a project
// and knows how to invoke it.
package pkgmanager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Name identifies a package manager.
type Name string

const (
	PNPM    Name = "pnpm"
	NPM     Name = "npm"
	Yarn    Name = "yarn"
	Bun     Name = "bun"
	Unknown Name = "unknown"
)

// Default is used when nothing else points at a manager.
const Default = PNPM

// UserAgentEnv is set by package managers for the processes they spawn.
const UserAgentEnv = "npm_config_user_agent"

// All lists the supported managers in prompt order.
var All = []Name{PNPM, NPM, Yarn, Bun}

// lockfiles are checked in order; the first hit wins.
var lockfiles = []struct {
	file    string
	manager Name
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"package-lock.json", NPM},
}

func (n Name) String() string { return string(n) }

// Parse validates a manager name given on the command line or in config.
func Parse(value string) (Name, error) {
	name := Name(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range All {
		if name == known {
			return name, nil
		}
	}
	return "", fmt.Errorf("unsupported package manager %q (expected one of pnpm, npm, yarn, bun)", value)
}

// DetectFromLockfile inspects dir for a lockfile and returns Unknown when
// none is found.
func DetectFromLockfile(dir string) Name {
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.manager
		}
	}
	return Unknown
}

// DetectFromUserAgent reads an npm_config_user_agent value such as
// "pnpm/9.1.0 npm/? node/v20.11.0 linux x64". It returns Unknown when the
// leading token is not a supported manager.
func DetectFromUserAgent(ua string) Name {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return Unknown
	}
	product, _, _ := strings.Cut(fields[0], "/")
	name, err := Parse(product)
	if err != nil {
		return Unknown
	}
	return name
}

// Preferred picks the default offered by init: a lockfile in cwd, then the
// user agent of the invoking manager, then pnpm.
func Preferred(cwd, userAgent string) Name {
	if name := DetectFromLockfile(cwd); name != Unknown {
		return name
	}
	if name := DetectFromUserAgent(userAgent); name != Unknown {
		return name
	}
	return Default
}

// InstallArgs returns the arguments that install dependencies with pm.
// pnpm ignores any enclosing workspace so a project scaffolded inside a
// monorepo gets its own node_modules.
func InstallArgs(pm Name) []string {
	if pm == PNPM {
		return []string{"install", "--ignore-workspace"}
	}
	return []string{"install"}
}

// RunScript formats the command line that runs a package.json script.
func RunScript(pm Name, script string) string {
	return fmt.Sprintf("%s run %s", pm, script)
}
