package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"speckeeper/internal/spec"
)

/**
 * Installed-package metadata document (share/pkgs/<name>.json)
 * @property {spec.PackageIdent} ident - Fully qualified identity of the
 *                               installed package
 * @property {[]string} required_binds - Bind names the package cannot start without
 * @property {[]string} optional_binds - Bind names the package can run without
 * @property {[]spec.PackageIdent} services - Member identities, composites only
 * @property {map} bind_map - Member identity string -> declared bind mappings,
 *                 composites only
 */
type PackageInfo struct {
	Ident        spec.PackageIdent             `json:"ident"`
	Required     []string                      `json:"required_binds,omitempty"`
	Optional     []string                      `json:"optional_binds,omitempty"`
	Services     []spec.PackageIdent           `json:"services,omitempty"`
	BindMappings map[string][]BindMappingEntry `json:"bind_map,omitempty"`
}

type BindMappingEntry struct {
	Bind              string            `json:"bind"`
	SatisfyingService spec.PackageIdent `json:"satisfying_service"`
}

// RequiredBinds implements spec.PackageMetadata.
func (p *PackageInfo) RequiredBinds() ([]string, error) {
	return p.Required, nil
}

// OptionalBinds implements spec.PackageMetadata.
func (p *PackageInfo) OptionalBinds() ([]string, error) {
	return p.Optional, nil
}

// IsComposite reports whether the package expands into member services.
func (p *PackageInfo) IsComposite() bool {
	return len(p.Services) > 0
}

/**
 * Build a fresh BindMap from the package's declared mappings
 * @returns {spec.BindMap} Mutable map, consumed by one composite load
 * @returns {error} Returns error when a member identity key fails to parse
 * @description Each call returns a new map: resolution removes entries, so
 * a consumed map must never be reused for another load.
 */
func (p *PackageInfo) BindMap() (spec.BindMap, error) {
	bindMap := make(spec.BindMap, len(p.BindMappings))
	for identStr, entries := range p.BindMappings {
		ident, err := spec.ParsePackageIdent(identStr)
		if err != nil {
			return nil, fmt.Errorf("bind map key %q of package %s: %w", identStr, p.Ident, err)
		}
		mappings := make([]spec.BindMapping, 0, len(entries))
		for _, e := range entries {
			mappings = append(mappings, spec.BindMapping{
				BindName:          e.Bind,
				SatisfyingService: e.SatisfyingService,
			})
		}
		bindMap[ident] = mappings
	}
	return bindMap, nil
}

// PackageStore reads installed-package metadata documents from the share
// directory. It is the keeper-local implementation of the package metadata
// collaborator; nothing here talks to a builder.
type PackageStore struct {
	dir string
}

func NewPackageStore(dir string) *PackageStore {
	return &PackageStore{dir: dir}
}

/**
 * Look up the installed package for a name
 * @param {string} name - Package name (the ident's name component)
 * @returns {*PackageInfo} Parsed metadata document
 * @returns {error} Returns error when the document is missing or malformed
 */
func (ps *PackageStore) Get(name string) (*PackageInfo, error) {
	fname := filepath.Join(ps.dir, name+".json")
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("package %q is not installed: %w", name, err)
	}
	var info PackageInfo
	if err := json.Unmarshal(bytes, &info); err != nil {
		return nil, fmt.Errorf("unmarshal %q failed: %w", fname, err)
	}
	if info.Ident.IsZero() {
		return nil, fmt.Errorf("package document %q carries no ident", fname)
	}
	return &info, nil
}

/**
 * Write a package metadata document
 * @param {*PackageInfo} info - Document to persist
 * @returns {error} Returns error on marshal or write failure
 */
func (ps *PackageStore) Put(info *PackageInfo) error {
	if err := os.MkdirAll(ps.dir, 0755); err != nil {
		return err
	}
	bytes, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fname := filepath.Join(ps.dir, info.Ident.Name+".json")
	return os.WriteFile(fname, bytes, 0644)
}
