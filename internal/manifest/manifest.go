// Package manifest parses hook manifests and overlays configuration onto them.
//
// Every remote hook repository declares its hooks in a .pre-commit-hooks.yaml
// file at its root: a list of hook definitions. A project's configuration
// selects hooks by id and may override individual fields; Resolve merges the
// two with configuration fields winning.
package manifest

import (
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/paths"
	"github.com/prehook/prehook/pkg/fileutil"
)

// Languages prehook executes natively. Anything else falls back to system
// with a doctor warning.
const (
	LanguageSystem = "system"
	LanguageScript = "script"
	LanguageFail   = "fail"
)

// Hook is a fully resolved hook definition, ready for execution.
type Hook struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Entry         string   `yaml:"entry"`
	Language      string   `yaml:"language"`
	Args          []string `yaml:"args"`
	Files         string   `yaml:"files"`
	Exclude       string   `yaml:"exclude"`
	Types         []string `yaml:"types"`
	TypesOr       []string `yaml:"types_or"`
	ExcludeTypes  []string `yaml:"exclude_types"`
	Stages        []string `yaml:"stages"`
	PassFilenames *bool    `yaml:"pass_filenames"`
	AlwaysRun     bool     `yaml:"always_run"`
	RequireSerial bool     `yaml:"require_serial"`
	Verbose       bool     `yaml:"verbose"`
}

// DisplayName returns the label shown in run output.
func (h Hook) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// ShouldPassFilenames reports whether matched filenames are appended to the
// hook command. The default is true.
func (h Hook) ShouldPassFilenames() bool {
	return h.PassFilenames == nil || *h.PassFilenames
}

// RunsAtStage reports whether the hook participates in the given stage.
// Hooks without explicit stages fall back to defaultStages; an empty
// result means the hook runs at every stage.
func (h Hook) RunsAtStage(stage string, defaultStages []string) bool {
	stages := h.Stages
	if len(stages) == 0 {
		stages = defaultStages
	}
	if len(stages) == 0 {
		return true
	}
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Manifest is the set of hooks a repository exports, keyed by id.
type Manifest struct {
	hooks map[string]Hook
	order []string
}

// Parse parses a manifest from raw YAML.
func Parse(data []byte) (*Manifest, error) {
	var defs []Hook
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, errors.Wrap(err, "parsing hook manifest")
	}

	m := &Manifest{hooks: make(map[string]Hook, len(defs))}
	for _, def := range defs {
		if def.ID == "" {
			return nil, errors.New("manifest hook missing id")
		}
		if _, dup := m.hooks[def.ID]; dup {
			return nil, errors.Newf("manifest defines hook %q twice", def.ID)
		}
		m.hooks[def.ID] = def
		m.order = append(m.order, def.ID)
	}
	return m, nil
}

// LoadDir reads the manifest from a cloned hook repository directory.
func LoadDir(repoPath string) (*Manifest, error) {
	data, err := fileutil.ReadFileWithLimit(filepath.Join(repoPath, paths.ManifestFileName))
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest in %s", repoPath)
	}
	return Parse(data)
}

// IDs returns the hook ids in manifest order.
func (m *Manifest) IDs() []string {
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

// Lookup returns the hook definition for id.
func (m *Manifest) Lookup(id string) (Hook, bool) {
	h, ok := m.hooks[id]
	return h, ok
}

// Resolve overlays a configuration hook entry onto its manifest definition.
// Configuration fields win where set. Returns ErrHookNotFound if the id is
// not in the manifest.
func (m *Manifest) Resolve(cfg config.Hook) (Hook, error) {
	base, ok := m.hooks[cfg.ID]
	if !ok {
		return Hook{}, errors.WithDetailf(errors.ErrHookNotFound, "hook %q is not defined by this repository (available: %v)", cfg.ID, m.order)
	}
	return overlay(base, cfg), nil
}

// FromConfig builds a hook definition directly from a local configuration
// entry, with no manifest involved.
func FromConfig(cfg config.Hook) Hook {
	return overlay(Hook{ID: cfg.ID}, cfg)
}

func overlay(base Hook, cfg config.Hook) Hook {
	h := base
	if cfg.Name != "" {
		h.Name = cfg.Name
	}
	if cfg.Entry != "" {
		h.Entry = cfg.Entry
	}
	if cfg.Language != "" {
		h.Language = cfg.Language
	}
	if len(cfg.Args) > 0 {
		h.Args = cfg.Args
	}
	if cfg.Files != "" {
		h.Files = cfg.Files
	}
	if cfg.Exclude != "" {
		h.Exclude = cfg.Exclude
	}
	if len(cfg.Types) > 0 {
		h.Types = cfg.Types
	}
	if len(cfg.TypesOr) > 0 {
		h.TypesOr = cfg.TypesOr
	}
	if len(cfg.ExcludeTypes) > 0 {
		h.ExcludeTypes = cfg.ExcludeTypes
	}
	if len(cfg.Stages) > 0 {
		h.Stages = cfg.Stages
	}
	if cfg.PassFilenames != nil {
		h.PassFilenames = cfg.PassFilenames
	}
	if cfg.AlwaysRun {
		h.AlwaysRun = true
	}
	if cfg.RequireSerial {
		h.RequireSerial = true
	}
	if cfg.Verbose {
		h.Verbose = true
	}
	return h
}
