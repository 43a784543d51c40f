// Package features adds optional WPNuxt modules to an existing Nuxt project.
package features

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wpnuxt/wpnuxi/internal/nuxtconfig"
	"github.com/wpnuxt/wpnuxi/internal/pkgjson"
)

// Name identifies a feature module.
type Name string

const (
	Auth   Name = "auth"
	Blocks Name = "blocks"
)

// Module returns the npm package of the feature.
func (n Name) Module() string {
	return "@wpnuxt/" + string(n)
}

// ErrNotNuxtProject is returned when dir has no nuxt.config.ts.
var ErrNotNuxtProject = errors.New("nuxt.config.ts not found. Are you in a Nuxt project?")

// Options controls where and how a feature is added.
type Options struct {
	Dir string
	// Force overwrites generated files that already exist.
	Force  bool
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Report lists what adding a feature changed. Paths are relative to the
// project directory.
type Report struct {
	Feature Name     `json:"feature"`
	Written []string `json:"written,omitempty"`
	Kept    []string `json:"kept,omitempty"`
	// Missing names layout anchors that were not found, leaving that part
	// of the layout unpatched.
	Missing []string `json:"missing,omitempty"`
}

// Set is a selection of features.
type Set struct {
	Blocks bool
	Auth   bool
}

// Any reports whether at least one feature is selected.
func (s Set) Any() bool { return s.Blocks || s.Auth }

// Names lists the selected features in install order.
func (s Set) Names() []Name {
	var names []Name
	if s.Blocks {
		names = append(names, Blocks)
	}
	if s.Auth {
		names = append(names, Auth)
	}
	return names
}

// ParseSet reads a comma-separated list such as "blocks,auth". Unknown
// entries are returned so the caller can warn about them.
func ParseSet(list string) (Set, []string) {
	var (
		set     Set
		unknown []string
	)
	for _, item := range strings.Split(list, ",") {
		switch strings.TrimSpace(item) {
		case "":
		case string(Blocks):
			set.Blocks = true
		case string(Auth):
			set.Auth = true
		default:
			unknown = append(unknown, strings.TrimSpace(item))
		}
	}
	return set, unknown
}

// Add runs the feature called name against opts.Dir.
func Add(name Name, opts Options) (Report, error) {
	switch name {
	case Auth:
		return AddAuth(opts)
	case Blocks:
		return AddBlocks(opts)
	default:
		return Report{}, errors.New("unknown feature " + string(name))
	}
}

// project holds the two manifests every feature edits.
type project struct {
	dir      string
	config   *nuxtconfig.Document
	original []byte
	manifest *pkgjson.Manifest
	depAdded bool
}

func loadProject(dir string) (*project, error) {
	configPath := filepath.Join(dir, nuxtconfig.FileName)
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotNuxtProject
		}
		return nil, err
	}
	doc, err := nuxtconfig.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	manifest, err := pkgjson.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return &project{dir: dir, config: doc, original: doc.Bytes(), manifest: manifest}, nil
}

// addModule lists the feature module in nuxt.config.ts and package.json.
func (p *project) addModule(name Name) error {
	if _, err := p.config.AddModule(name.Module()); err != nil {
		return err
	}
	added, err := p.manifest.MergeDependency(name.Module(), "latest")
	if err != nil {
		return err
	}
	p.depAdded = p.depAdded || added
	return nil
}

// save writes back whichever manifests changed.
func (p *project) save(report *Report, log *zap.Logger) error {
	if string(p.config.Bytes()) != string(p.original) {
		if err := p.config.Save(filepath.Join(p.dir, nuxtconfig.FileName)); err != nil {
			return err
		}
		report.Written = append(report.Written, nuxtconfig.FileName)
		log.Debug("patched file", zap.String("path", nuxtconfig.FileName))
	}
	if p.depAdded {
		if err := p.manifest.Save(filepath.Join(p.dir, pkgjson.FileName)); err != nil {
			return err
		}
		report.Written = append(report.Written, pkgjson.FileName)
		log.Debug("patched file", zap.String("path", pkgjson.FileName))
	}
	return nil
}

// AddBlocks registers @wpnuxt/blocks.
func AddBlocks(opts Options) (Report, error) {
	report := Report{Feature: Blocks}
	p, err := loadProject(opts.Dir)
	if err != nil {
		return report, err
	}
	if err := p.addModule(Blocks); err != nil {
		return report, err
	}
	if err := p.save(&report, opts.logger()); err != nil {
		return report, err
	}
	return report, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
