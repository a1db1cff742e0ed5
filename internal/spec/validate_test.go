package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePackage struct {
	required []string
	optional []string
	err      error
}

func (p fakePackage) RequiredBinds() ([]string, error) { return p.required, p.err }
func (p fakePackage) OptionalBinds() ([]string, error) { return p.optional, p.err }

func specWithBinds(t *testing.T, binds ...string) *ServiceSpec {
	t.Helper()
	ident, err := ParsePackageIdent("origin/web/1.0.0")
	require.NoError(t, err)
	s := DefaultFor(ident)
	for _, b := range binds {
		bind, err := ParseServiceBind(b)
		require.NoError(t, err)
		s.Binds = append(s.Binds, bind)
	}
	return &s
}

func TestValidateSatisfiedBinds(t *testing.T) {
	s := specWithBinds(t, "db:postgres.default")
	pkg := fakePackage{required: []string{"db"}}

	assert.NoError(t, s.Validate(pkg))
}

func TestValidateNoContractNoBinds(t *testing.T) {
	s := specWithBinds(t)

	assert.NoError(t, s.Validate(fakePackage{}))
}

func TestValidateMissingRequired(t *testing.T) {
	s := specWithBinds(t)
	pkg := fakePackage{required: []string{"db"}}

	err := s.Validate(pkg)
	var missing *MissingRequiredBindError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"db"}, missing.Binds)
}

func TestValidateMissingRequiredCollectsAll(t *testing.T) {
	s := specWithBinds(t, "cache:redis.default")
	pkg := fakePackage{
		required: []string{"router", "cache", "db"},
	}

	err := s.Validate(pkg)
	var missing *MissingRequiredBindError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"db", "router"}, missing.Binds, "names are sorted")
}

func TestValidateInvalidBinds(t *testing.T) {
	s := specWithBinds(t, "db:postgres.default", "extra:extra.default")
	pkg := fakePackage{required: []string{"db"}, optional: []string{"cache"}}

	err := s.Validate(pkg)
	var invalid *InvalidBindsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"extra"}, invalid.Binds)
}

func TestValidateInvalidBindsCollectsAll(t *testing.T) {
	s := specWithBinds(t, "zeta:a.default", "alpha:b.default", "cache:c.default")
	pkg := fakePackage{optional: []string{"cache"}}

	err := s.Validate(pkg)
	var invalid *InvalidBindsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"alpha", "zeta"}, invalid.Binds, "names are sorted")
}

func TestValidateMissingReportedBeforeInvalid(t *testing.T) {
	// When both failure kinds are present, the missing-required report wins
	// and the stray binds are not mentioned.
	s := specWithBinds(t, "stray:a.default")
	pkg := fakePackage{required: []string{"db"}}

	err := s.Validate(pkg)
	var missing *MissingRequiredBindError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"db"}, missing.Binds)
}

func TestValidateOptionalDeclared(t *testing.T) {
	s := specWithBinds(t, "cache:redis.default")
	pkg := fakePackage{optional: []string{"cache"}}

	assert.NoError(t, s.Validate(pkg))
}

func TestValidateMetadataError(t *testing.T) {
	s := specWithBinds(t)
	metaErr := errors.New("corrupt metadata")

	err := s.Validate(fakePackage{err: metaErr})
	assert.ErrorIs(t, err, metaErr)
}
