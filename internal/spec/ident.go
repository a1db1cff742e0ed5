package spec

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

/**
 * Package identifier
 * @property {string} Origin - Publishing origin
 * @property {string} Name - Package name
 * @property {string} Version - Package version (optional)
 * @property {string} Release - Build release timestamp (optional)
 * @description
 * The zero value is the invalid "default" identifier; a spec carrying it is
 * rejected on read and on write.
 */
type PackageIdent struct {
	Origin  string
	Name    string
	Version string
	Release string
}

/**
 * Parse a package identifier string
 * @param {string} s - Identifier in origin/name[/version[/release]] form
 * @returns {PackageIdent} Parsed identifier
 * @returns {error} *InvalidPackageIdentError if the segment count is wrong
 *                  or a segment is empty
 */
func ParsePackageIdent(s string) (PackageIdent, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 4 {
		return PackageIdent{}, &InvalidPackageIdentError{Value: s}
	}
	for _, p := range parts {
		if p == "" {
			return PackageIdent{}, &InvalidPackageIdentError{Value: s}
		}
	}
	ident := PackageIdent{Origin: parts[0], Name: parts[1]}
	if len(parts) > 2 {
		ident.Version = parts[2]
	}
	if len(parts) > 3 {
		ident.Release = parts[3]
	}
	return ident, nil
}

// IsZero reports whether the identifier is the invalid default value.
func (i PackageIdent) IsZero() bool {
	return i == PackageIdent{}
}

func (i PackageIdent) String() string {
	parts := []string{i.Origin, i.Name}
	if i.Version != "" {
		parts = append(parts, i.Version)
		if i.Release != "" {
			parts = append(parts, i.Release)
		}
	}
	return strings.Join(parts, "/")
}

/**
 * Report whether this identifier is a strictly newer build of other
 * @param {PackageIdent} other - Identifier to compare against
 * @returns {bool} true when origin and name match and this version/release
 *                 sorts after other's
 * @description
 * - Versions are compared semantically where both parse; otherwise they fall
 *   back to a lexical comparison
 * - Equal versions are ordered by release timestamp
 */
func (i PackageIdent) Newer(other PackageIdent) bool {
	if i.Origin != other.Origin || i.Name != other.Name {
		return false
	}
	switch compareVersions(i.Version, other.Version) {
	case 1:
		return true
	case -1:
		return false
	}
	return i.Release > other.Release
}

func compareVersions(a, b string) int {
	if a == b {
		return 0
	}
	av, aerr := goversion.NewVersion(a)
	bv, berr := goversion.NewVersion(b)
	if aerr != nil || berr != nil {
		// Non-semantic versions sort lexically.
		return strings.Compare(a, b)
	}
	return av.Compare(bv)
}

func (i PackageIdent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *PackageIdent) UnmarshalText(text []byte) error {
	ident, err := ParsePackageIdent(string(text))
	if err != nil {
		return err
	}
	*i = ident
	return nil
}
