package features

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wpnuxt/wpnuxi/internal/nuxtconfig"
	"github.com/wpnuxt/wpnuxi/internal/textpatch"
)

// AuthProviders is written to wpNuxtAuth.providers.
var AuthProviders = nuxtconfig.Fields{
	{Key: "password", Value: true},
	{Key: "headlessLogin", Value: true},
}

// layoutPatch wires login and logout links into the starter layout. It is
// skipped when the layout already references the login route or composable.
var layoutPatch = textpatch.Patch{
	Sentinels: []string{"/login", "useWPAuth"},
	Rules: []textpatch.Rule{
		{
			Name:        "script setup",
			Anchor:      `<script setup lang="ts">`,
			Replacement: "<script setup lang=\"ts\">\nconst { isAuthenticated, logout } = useWPAuth()",
		},
		{
			Name:        "nav",
			Anchor:      `<nav v-if="menu">`,
			Replacement: `<nav v-if="menu" style="display: flex; gap: 1rem; align-items: center;">`,
		},
		{
			Name:   "nav end",
			Anchor: "</nav>",
			Replacement: "  <NuxtLink v-if=\"!isAuthenticated\" to=\"/login\" style=\"margin-left: auto;\">Login</NuxtLink>\n" +
				"      <button v-else style=\"margin-left: auto;\" @click=\"logout()\">Logout</button>\n" +
				"    </nav>",
		},
	},
}

// AddAuth registers @wpnuxt/auth, enables its providers, scaffolds a login
// page and adds login/logout links to the layout.
func AddAuth(opts Options) (Report, error) {
	log := opts.logger()
	report := Report{Feature: Auth}

	p, err := loadProject(opts.Dir)
	if err != nil {
		return report, err
	}
	if err := p.addModule(Auth); err != nil {
		return report, err
	}
	if err := p.config.Set([]string{"wpNuxtAuth", "providers"}, AuthProviders); err != nil {
		return report, err
	}
	if err := p.save(&report, log); err != nil {
		return report, err
	}

	variant := PlainLogin
	if p.manifest.HasDependency("@nuxt/ui") {
		variant = NuxtUILogin
	}
	if err := writeLoginPage(opts, variant, &report, log); err != nil {
		return report, err
	}
	if err := patchLayout(opts.Dir, &report, log); err != nil {
		return report, err
	}
	return report, nil
}

func writeLoginPage(opts Options, variant LoginVariant, report *Report, log *zap.Logger) error {
	pagesDir := "pages"
	if exists(filepath.Join(opts.Dir, "app")) {
		pagesDir = filepath.Join("app", "pages")
	}
	rel := filepath.Join(pagesDir, "login.vue")
	path := filepath.Join(opts.Dir, rel)

	if exists(path) && !opts.Force {
		report.Kept = append(report.Kept, rel)
		return nil
	}
	page, err := RenderLoginPage(variant, DefaultLoginPage)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return err
	}
	report.Written = append(report.Written, rel)
	log.Debug("wrote file", zap.String("path", rel), zap.String("variant", string(variant)))
	return nil
}

func patchLayout(dir string, report *Report, log *zap.Logger) error {
	var rel string
	for _, candidate := range []string{filepath.Join("app", "app.vue"), "app.vue"} {
		if exists(filepath.Join(dir, candidate)) {
			rel = candidate
			break
		}
	}
	if rel == "" {
		return nil
	}

	path := filepath.Join(dir, rel)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res := layoutPatch.Apply(string(data))
	if res.Skipped {
		report.Kept = append(report.Kept, rel)
		return nil
	}
	for _, name := range res.Missing {
		report.Missing = append(report.Missing, rel+": "+name)
	}
	if !res.Changed() {
		return nil
	}
	if err := os.WriteFile(path, []byte(res.Output), 0o644); err != nil {
		return err
	}
	report.Written = append(report.Written, rel)
	log.Debug("patched file", zap.String("path", rel), zap.Strings("applied", res.Applied), zap.Strings("missing", res.Missing))
	return nil
}
