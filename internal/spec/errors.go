package spec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequiredIdent is returned whenever a spec is read or written
// with the default (empty) package identifier. A spec without an ident is
// never valid, regardless of which on-disk schema matched.
var ErrMissingRequiredIdent = errors.New("service spec requires a package identifier")

/**
 * Spec document parse failure
 * @property {error} Err - Original decoder diagnostic, preserved verbatim
 */
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid service spec: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

/**
 * Spec file open/read/write failure
 * @property {string} Path - Path of the spec file involved
 * @property {error} Err - Underlying I/O cause
 */
type FileIOError struct {
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("spec file I/O error for %s: %v", e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error { return e.Err }

// InvalidBindingError reports a single binding string that violates the
// binding grammar. Binding carries the offending input verbatim.
type InvalidBindingError struct {
	Binding string
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("invalid binding %q, must be of the form <bind>:<service_group> or <service>:<bind>:<service_group>", e.Binding)
}

// InvalidServiceGroupError reports a string that does not satisfy the
// service group grammar [app.env#]service.group[@organization].
type InvalidServiceGroupError struct {
	Value string
}

func (e *InvalidServiceGroupError) Error() string {
	return fmt.Sprintf("invalid service group %q", e.Value)
}

// InvalidApplicationEnvironmentError reports a string that does not satisfy
// the app.env grammar.
type InvalidApplicationEnvironmentError struct {
	Value string
}

func (e *InvalidApplicationEnvironmentError) Error() string {
	return fmt.Sprintf("invalid application environment %q, must be of the form <application>.<environment>", e.Value)
}

// InvalidPackageIdentError reports a string that does not satisfy the
// origin/name[/version[/release]] grammar.
type InvalidPackageIdentError struct {
	Value string
}

func (e *InvalidPackageIdentError) Error() string {
	return fmt.Sprintf("invalid package identifier %q, must be of the form origin/name[/version[/release]]", e.Value)
}

/**
 * Bind contract violation: spec binds that match neither a required nor an
 * optional package bind. Carries the complete leftover set, not just the
 * first offender.
 * @property {[]string} Binds - Every unmatched bind name
 */
type InvalidBindsError struct {
	Binds []string
}

func (e *InvalidBindsError) Error() string {
	return fmt.Sprintf("invalid binds: %s", strings.Join(e.Binds, ", "))
}

/**
 * Bind contract violation: required package binds absent from the spec.
 * Carries every missing name so a caller can report them all in one pass.
 * @property {[]string} Binds - Every missing required bind name
 */
type MissingRequiredBindError struct {
	Binds []string
}

func (e *MissingRequiredBindError) Error() string {
	return fmt.Sprintf("missing required binds: %s", strings.Join(e.Binds, ", "))
}
