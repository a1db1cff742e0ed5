package spec

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

/**
 * Composite descriptor: a named group of services loaded from one composite
 * package and expanded into per-member specs
 * @property {PackageIdent} Ident - Identity of the composite package itself;
 *                          required, the zero value is never valid
 * @property {[]PackageIdent} Services - Member service identities, owned by
 *                            the descriptor
 */
type CompositeSpec struct {
	Ident    PackageIdent   `toml:"ident" json:"ident"`
	Services []PackageIdent `toml:"services" json:"services"`
}

// Name is the composite's name component, used to stamp member specs.
func (c *CompositeSpec) Name() string {
	return c.Ident.Name
}

// FileName derives the descriptor file name from the ident's name component,
// the same way service specs do.
func (c *CompositeSpec) FileName() string {
	return c.Ident.Name + "." + SpecFileExt
}

/**
 * Parse a composite descriptor document
 * @param {string} doc - TOML document text
 * @returns {*CompositeSpec} Parsed descriptor
 * @returns {error} ErrMissingRequiredIdent or *ParseError, same policy as
 *                  service specs
 */
func ParseCompositeSpec(doc string) (*CompositeSpec, error) {
	var c CompositeSpec
	if err := toml.Unmarshal([]byte(doc), &c); err != nil {
		return nil, &ParseError{Err: err}
	}
	if c.Ident.IsZero() {
		return nil, ErrMissingRequiredIdent
	}
	return &c, nil
}

func CompositeSpecFromFile(path string) (*CompositeSpec, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	return ParseCompositeSpec(string(buf))
}

func (c *CompositeSpec) ToFile(path string) error {
	if c.Ident.IsZero() {
		return ErrMissingRequiredIdent
	}
	out, err := toml.Marshal(c)
	if err != nil {
		return &ParseError{Err: err}
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return &FileIOError{Path: path, Err: err}
	}
	return nil
}

// Spec is the outcome of converting a load request: either one standalone
// service spec, or a composite descriptor with one customized spec per
// member. The variant set is closed; switch exhaustively over ServiceOnly
// and Composite wherever an identity or bind set is needed.
type Spec interface {
	// SpecIdent is the identity of the standalone service or of the
	// composite package.
	SpecIdent() PackageIdent

	sealedSpec()
}

// ServiceOnly wraps a standalone service spec.
type ServiceOnly struct {
	Service *ServiceSpec
}

func (s ServiceOnly) SpecIdent() PackageIdent { return s.Service.Ident }
func (ServiceOnly) sealedSpec()               {}

// Composite pairs a composite descriptor with its expanded member specs.
// Member specs are independent values once expanded; they keep no reference
// back to the descriptor beyond the stamped composite name.
type Composite struct {
	Descriptor *CompositeSpec
	Members    []ServiceSpec
}

func (c Composite) SpecIdent() PackageIdent { return c.Descriptor.Ident }
func (Composite) sealedSpec()               {}

/**
 * Build-time bind mapping declared by a composite package
 * @property {string} BindName - Name of the bind being satisfied
 * @property {PackageIdent} SatisfyingService - Member that satisfies it
 */
type BindMapping struct {
	BindName          string
	SatisfyingService PackageIdent
}

// BindMap maps a member identity to the bind mappings the composite declared
// for it. Resolution consumes entries: resolving one member removes its key,
// so one BindMap instance serves exactly one composite load and must not be
// shared across concurrent resolutions.
type BindMap map[PackageIdent][]BindMapping

/**
 * Resolve the final binding set for one composite member
 * @param {*ServiceSpec} s - Member spec, ident already set
 * @param {BindMap} bindMap - Composite-declared mappings, consumed for this
 *                  member's identity
 * @param {[]ServiceBind} overrides - Caller-supplied composite-scoped binds
 * @description
 * Declaration-time mappings are turned into composite binds addressed at
 * (member app/env, satisfying service's name, member group) with no
 * organization. Overrides whose service name equals the member's package
 * name then replace same-named entries; matching is by package name, not
 * full identity, since the override list has no per-identity granularity.
 * Whatever binds the spec held before are discarded. Output order is
 * unspecified.
 *
 * Panics when a mapping yields a malformed service group: composite
 * metadata is validated upstream and a violation here is unrecoverable.
 */
func SetCompositeBinds(s *ServiceSpec, bindMap BindMap, overrides []ServiceBind) {
	finalBinds := make(map[string]ServiceBind)

	if mappings, ok := bindMap[s.Ident]; ok {
		delete(bindMap, s.Ident)
		for _, mapping := range mappings {
			var appEnv ApplicationEnvironment
			if s.ApplicationEnvironment != nil {
				appEnv = *s.ApplicationEnvironment
			}
			// No organization: composite binds never carry one, even when
			// the spec's own binds were parsed from strings that did.
			group, err := NewServiceGroup(appEnv, mapping.SatisfyingService.Name, s.Group, "")
			if err != nil {
				panic(fmt.Sprintf("bind mapping %q of %s produced no valid service group: %v",
					mapping.BindName, s.Ident, err))
			}
			finalBinds[mapping.BindName] = ServiceBind{
				Name:         mapping.BindName,
				ServiceGroup: group,
				ServiceName:  mapping.BindName,
			}
		}
	}

	for _, bind := range overrides {
		if bind.ServiceName == s.Ident.Name {
			finalBinds[bind.Name] = bind
		}
	}

	binds := make([]ServiceBind, 0, len(finalBinds))
	for _, b := range finalBinds {
		binds = append(binds, b)
	}
	s.Binds = binds
}
