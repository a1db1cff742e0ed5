package spec

import "sort"

// PackageMetadata is the contract the installed package declares about its
// binds. Provided by the package store; this package never reads package
// metadata itself.
type PackageMetadata interface {
	// RequiredBinds returns the bind names the package cannot start without.
	RequiredBinds() ([]string, error)
	// OptionalBinds returns the bind names the package can run without.
	OptionalBinds() ([]string, error)
}

/**
 * Validate the spec against an installed package
 * @param {PackageMetadata} pkg - Bind contract of the installed package
 * @returns {error} nil, *MissingRequiredBindError, or *InvalidBindsError
 */
func (s *ServiceSpec) Validate(pkg PackageMetadata) error {
	return s.validateBinds(pkg)
}

// validateBinds checks that every required package bind is declared by the
// spec and that every remaining spec bind matches an optional package bind.
// Only bind names are compared. Validation is collect-all: each error kind
// carries the complete offending set, never just the first hit.
func (s *ServiceSpec) validateBinds(pkg PackageMetadata) error {
	svcBinds := make(map[string]struct{}, len(s.Binds))
	for _, b := range s.Binds {
		svcBinds[b.Name] = struct{}{}
	}

	required, err := pkg.RequiredBinds()
	if err != nil {
		return err
	}
	var missing []string
	for _, reqBind := range required {
		if _, ok := svcBinds[reqBind]; ok {
			delete(svcBinds, reqBind)
		} else {
			missing = append(missing, reqBind)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingRequiredBindError{Binds: missing}
	}

	optional, err := pkg.OptionalBinds()
	if err != nil {
		return err
	}
	for _, optBind := range optional {
		delete(svcBinds, optBind)
	}
	if len(svcBinds) > 0 {
		invalid := make([]string, 0, len(svcBinds))
		for name := range svcBinds {
			invalid = append(invalid, name)
		}
		sort.Strings(invalid)
		return &InvalidBindsError{Binds: invalid}
	}

	return nil
}
