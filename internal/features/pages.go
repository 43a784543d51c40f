package features

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// LoginVariant selects the login page flavor.
type LoginVariant string

const (
	NuxtUILogin LoginVariant = "nuxt-ui"
	PlainLogin  LoginVariant = "plain"
)

// LoginPage parameterizes the generated login page.
type LoginPage struct {
	Title string
	// Redirect is the route visited after a successful login.
	Redirect string
}

// DefaultLoginPage is what `add auth` generates.
var DefaultLoginPage = LoginPage{Title: "Login", Redirect: "/"}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

// Vue already owns {{ }}.
const leftDelim, rightDelim = "[[", "]]"

// RenderLoginPage renders the login page for variant.
func RenderLoginPage(variant LoginVariant, page LoginPage) (string, error) {
	var name string
	switch variant {
	case NuxtUILogin:
		name = "login_nuxt_ui.vue.tmpl"
	case PlainLogin:
		name = "login_plain.vue.tmpl"
	default:
		return "", fmt.Errorf("unknown login variant %q", variant)
	}

	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func loadTemplate(name string) (*template.Template, error) {
	if value, ok := templateCache.Load(name); ok {
		return value.(*template.Template), nil
	}
	tmpl, err := template.New(name).
		Delims(leftDelim, rightDelim).
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}
