// Package spec is the persisted desired-state layer of the keeper: the
// versioned service spec record, the binding grammar, the composite bind
// resolver and the bind contract validator. Everything here is a pure or
// file-reading function; nothing in this package logs, retries or spawns
// concurrent work.
package spec

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	// SpecFileExt is the extension of every spec file in the watch directory.
	SpecFileExt = "spec"

	specFileGlob = "*." + SpecFileExt

	// DefaultGroup is the service group a spec belongs to when none is given.
	DefaultGroup = "default"

	// DefaultChannel is the builder channel followed when none is given.
	DefaultChannel = "stable"

	// DefaultBldrURL is the builder endpoint used when none is given.
	DefaultBldrURL = "https://bldr.speckeeper.dev"
)

/**
 * Desired-state record for exactly one service instance (current schema)
 * @property {PackageIdent} Ident - Package identity; required, the zero
 *                          value is never valid for read or write
 * @property {string} Group - Logical service group name
 * @property {*ApplicationEnvironment} ApplicationEnvironment - Optional app/env pair
 * @property {string} BldrURL - Package source endpoint
 * @property {string} Channel - Package source channel
 * @property {Topology} Topology - Clustering topology
 * @property {UpdateStrategy} UpdateStrategy - Release-following policy
 * @property {[]ServiceBind} Binds - Declared binds, keyed by name (last
 *                           write wins on duplicates)
 * @property {BindingMode} BindingMode - strict/relaxed optional-bind policy
 * @property {string} ConfigFrom - Development-only template override directory
 * @property {DesiredState} DesiredState - up/down
 * @property {string} SvcEncryptedPassword - Platform-specific service password
 * @property {string} Composite - Name of the owning composite, if any
 */
type ServiceSpec struct {
	Ident                  PackageIdent            `toml:"ident" json:"ident"`
	Group                  string                  `toml:"group" json:"group"`
	ApplicationEnvironment *ApplicationEnvironment `toml:"application_environment,omitempty" json:"application_environment,omitempty"`
	BldrURL                string                  `toml:"bldr_url" json:"bldr_url"`
	Channel                string                  `toml:"channel" json:"channel"`
	Topology               Topology                `toml:"topology" json:"topology"`
	UpdateStrategy         UpdateStrategy          `toml:"update_strategy" json:"update_strategy"`
	Binds                  []ServiceBind           `toml:"binds,omitempty" json:"binds,omitempty"`
	BindingMode            BindingMode             `toml:"binding_mode" json:"binding_mode"`
	ConfigFrom             string                  `toml:"config_from,omitempty" json:"config_from,omitempty"`
	DesiredState           DesiredState            `toml:"desired_state" json:"desired_state"`
	SvcEncryptedPassword   string                  `toml:"svc_encrypted_password,omitempty" json:"svc_encrypted_password,omitempty"`
	Composite              string                  `toml:"composite,omitempty" json:"composite,omitempty"`
}

// DefaultServiceSpec returns a spec with every field at its documented
// default. The result is not yet valid: the ident still has to be set.
func DefaultServiceSpec() ServiceSpec {
	return ServiceSpec{
		Group:          DefaultGroup,
		BldrURL:        DefaultBldrURL,
		Channel:        DefaultChannel,
		Topology:       TopologyStandalone,
		UpdateStrategy: UpdateStrategyNone,
		BindingMode:    BindingModeStrict,
		DesiredState:   DesiredUp,
	}
}

/**
 * Build a default spec bound to an identity
 * @param {PackageIdent} ident - Package identity for the new spec
 * @returns {ServiceSpec} Default spec with the ident set
 */
func DefaultFor(ident PackageIdent) ServiceSpec {
	s := DefaultServiceSpec()
	s.Ident = ident
	return s
}

/**
 * Parse a current-schema spec document
 * @param {string} doc - TOML document text
 * @returns {*ServiceSpec} Parsed spec with defaults applied to absent fields
 * @returns {error} ErrMissingRequiredIdent when the ident is absent or the
 *                  default value; *ParseError preserving the decoder
 *                  diagnostic on any other failure
 * @description Unknown keys in the document are ignored.
 */
func ParseServiceSpec(doc string) (*ServiceSpec, error) {
	s := DefaultServiceSpec()
	if err := toml.Unmarshal([]byte(doc), &s); err != nil {
		return nil, &ParseError{Err: err}
	}
	if s.Ident.IsZero() {
		return nil, ErrMissingRequiredIdent
	}
	return &s, nil
}

/**
 * Serialize the spec to a TOML document
 * @returns {string} Rendered document
 * @returns {error} ErrMissingRequiredIdent for the default ident;
 *                  *ParseError on encoder failure
 */
func (s *ServiceSpec) ToTomlString() (string, error) {
	if s.Ident.IsZero() {
		return "", ErrMissingRequiredIdent
	}
	out, err := toml.Marshal(s)
	if err != nil {
		return "", &ParseError{Err: err}
	}
	return string(out), nil
}

// FileName derives the canonical spec file name from the ident's name
// component only. Two idents that share a name but differ in origin collide
// on the same file; callers own that sharp edge.
func (s *ServiceSpec) FileName() string {
	return s.Ident.Name + "." + SpecFileExt
}

/**
 * Read a current-schema spec from a file
 * @param {string} path - Spec file path
 * @returns {*ServiceSpec} Parsed spec
 * @returns {error} *FileIOError carrying path on I/O failure, otherwise the
 *                  ParseServiceSpec errors
 */
func ServiceSpecFromFile(path string) (*ServiceSpec, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	return ParseServiceSpec(string(buf))
}

/**
 * Write the spec to a file
 * @param {string} path - Destination path
 * @returns {error} ErrMissingRequiredIdent before anything is written when
 *                  the ident is the default; *FileIOError on write failure
 */
func (s *ServiceSpec) ToFile(path string) error {
	doc, err := s.ToTomlString()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return &FileIOError{Path: path, Err: err}
	}
	return nil
}

/**
 * Load a spec from a file, upgrading superseded schemas
 * @param {string} path - Spec file path
 * @returns {*ServiceSpec} Current-schema spec
 * @returns {bool} true when the document was read through the legacy schema
 * @returns {error} The current-schema error when neither schema matches;
 *                  ErrMissingRequiredIdent is fatal under both schemas and
 *                  never triggers the legacy retry
 */
func LoadServiceSpec(path string) (*ServiceSpec, bool, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, false, &FileIOError{Path: path, Err: err}
	}
	doc := string(buf)
	s, err := ParseServiceSpec(doc)
	if err == nil {
		return s, false, nil
	}
	if errors.Is(err, ErrMissingRequiredIdent) {
		return nil, false, err
	}
	legacy, lerr := ParseServiceSpecLegacy(doc)
	if lerr != nil {
		return nil, false, err
	}
	upgraded := legacy.ToCurrent()
	return &upgraded, true, nil
}

/**
 * Enumerate the spec files in a directory
 * @param {string} dir - Watch directory
 * @returns {[]string} Paths of every regular file matching *.spec, in
 *                     unspecified order
 * @returns {error} *FileIOError when the directory cannot be scanned
 * @description Point-in-time snapshot: files created or removed during the
 * scan may or may not appear.
 */
func SpecFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, specFileGlob))
	if err != nil {
		return nil, &FileIOError{Path: dir, Err: err}
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}
