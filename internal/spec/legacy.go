package spec

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

/**
 * Superseded on-disk spec schema
 * @description
 * The previous generation of the spec file: the builder endpoint was still
 * called depot_url, channels and composites did not exist yet, and the enum
 * values were spelled in CamelCase. Read-only; legacy documents are upgraded
 * to the current schema on load and never written back in this form.
 */
type ServiceSpecLegacy struct {
	Ident                  PackageIdent            `toml:"ident"`
	Group                  string                  `toml:"group"`
	ApplicationEnvironment *ApplicationEnvironment `toml:"application_environment,omitempty"`
	DepotURL               string                  `toml:"depot_url"`
	Topology               legacyTopology          `toml:"topology"`
	UpdateStrategy         legacyUpdateStrategy    `toml:"update_strategy"`
	Binds                  []ServiceBind           `toml:"binds,omitempty"`
	BindingMode            legacyBindingMode       `toml:"binding_mode"`
	ConfigFrom             string                  `toml:"config_from,omitempty"`
	DesiredState           legacyDesiredState      `toml:"desired_state"`
	SvcEncryptedPassword   string                  `toml:"svc_encrypted_password,omitempty"`
}

// Legacy enum spellings. Each maps onto the corresponding current value and
// rejects anything else; the empty string means the field was absent.

type legacyTopology Topology

func (t *legacyTopology) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Standalone":
		*t = legacyTopology(TopologyStandalone)
	case "Leader":
		*t = legacyTopology(TopologyLeader)
	default:
		return fmt.Errorf("invalid topology %q", string(text))
	}
	return nil
}

type legacyUpdateStrategy UpdateStrategy

func (u *legacyUpdateStrategy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "None":
		*u = legacyUpdateStrategy(UpdateStrategyNone)
	case "AtOnce":
		*u = legacyUpdateStrategy(UpdateStrategyAtOnce)
	case "Rolling":
		*u = legacyUpdateStrategy(UpdateStrategyRolling)
	default:
		return fmt.Errorf("invalid update strategy %q", string(text))
	}
	return nil
}

type legacyBindingMode BindingMode

func (m *legacyBindingMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Strict":
		*m = legacyBindingMode(BindingModeStrict)
	case "Relaxed":
		*m = legacyBindingMode(BindingModeRelaxed)
	default:
		return fmt.Errorf("invalid binding mode %q", string(text))
	}
	return nil
}

type legacyDesiredState DesiredState

func (d *legacyDesiredState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Up":
		*d = legacyDesiredState(DesiredUp)
	case "Down":
		*d = legacyDesiredState(DesiredDown)
	default:
		return fmt.Errorf("invalid desired state %q", string(text))
	}
	return nil
}

/**
 * Parse a legacy-schema spec document
 * @param {string} doc - TOML document text
 * @returns {*ServiceSpecLegacy} Parsed legacy record, fields left at their
 *                               zero values when absent
 * @returns {error} ErrMissingRequiredIdent or *ParseError, same policy as
 *                  the current schema
 */
func ParseServiceSpecLegacy(doc string) (*ServiceSpecLegacy, error) {
	var s ServiceSpecLegacy
	if err := toml.Unmarshal([]byte(doc), &s); err != nil {
		return nil, &ParseError{Err: err}
	}
	if s.Ident.IsZero() {
		return nil, ErrMissingRequiredIdent
	}
	return &s, nil
}

/**
 * Read a legacy-schema spec from a file
 * @param {string} path - Spec file path
 * @returns {*ServiceSpecLegacy} Parsed legacy record
 * @returns {error} *FileIOError carrying path, or the parse errors
 */
func ServiceSpecLegacyFromFile(path string) (*ServiceSpecLegacy, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	return ParseServiceSpecLegacy(string(buf))
}

// FileName derives the spec file name the same way the current schema does.
func (l *ServiceSpecLegacy) FileName() string {
	return l.Ident.Name + "." + SpecFileExt
}

/**
 * Upgrade the legacy record to the current schema
 * @returns {ServiceSpec} Current-schema spec
 * @description
 * Total, field-by-field mapping. Legacy fields that were absent leave the
 * current field at its default instead of being explicitly set: a legacy
 * document predating channels upgrades to the current default channel, not
 * to an empty string.
 */
func (l *ServiceSpecLegacy) ToCurrent() ServiceSpec {
	s := DefaultFor(l.Ident)
	if l.Group != "" {
		s.Group = l.Group
	}
	s.ApplicationEnvironment = l.ApplicationEnvironment
	if l.DepotURL != "" {
		s.BldrURL = l.DepotURL
	}
	if l.Topology != "" {
		s.Topology = Topology(l.Topology)
	}
	if l.UpdateStrategy != "" {
		s.UpdateStrategy = UpdateStrategy(l.UpdateStrategy)
	}
	s.Binds = l.Binds
	if l.BindingMode != "" {
		s.BindingMode = BindingMode(l.BindingMode)
	}
	s.ConfigFrom = l.ConfigFrom
	if l.DesiredState != "" {
		s.DesiredState = DesiredState(l.DesiredState)
	}
	s.SvcEncryptedPassword = l.SvcEncryptedPassword
	return s
}
