package spec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberIdent(t *testing.T, s string) PackageIdent {
	t.Helper()
	ident, err := ParsePackageIdent(s)
	require.NoError(t, err)
	return ident
}

func TestSetCompositeBindsFromMap(t *testing.T) {
	web := memberIdent(t, "origin/web/1.0.0")
	s := DefaultFor(web)
	bindMap := BindMap{
		web: {{BindName: "db", SatisfyingService: memberIdent(t, "origin/postgres/9.6.2")}},
	}

	SetCompositeBinds(&s, bindMap, nil)

	require.Len(t, s.Binds, 1)
	bind := s.Binds[0]
	assert.Equal(t, "db", bind.Name)
	assert.Equal(t, "db", bind.ServiceName, "composite binds are scoped by bind name")
	assert.Equal(t, "postgres.default", bind.ServiceGroup.String(),
		"group derives from the satisfying service's name and the member's group")
	assert.Empty(t, bindMap, "resolution consumes the member's entry")
}

func TestSetCompositeBindsUsesMemberAppEnv(t *testing.T) {
	web := memberIdent(t, "origin/web/1.0.0")
	s := DefaultFor(web)
	appEnv, err := ParseApplicationEnvironment("shop.prod")
	require.NoError(t, err)
	s.ApplicationEnvironment = &appEnv
	s.Group = "frontend"
	bindMap := BindMap{
		web: {{BindName: "db", SatisfyingService: memberIdent(t, "origin/postgres/9.6.2")}},
	}

	SetCompositeBinds(&s, bindMap, nil)

	require.Len(t, s.Binds, 1)
	assert.Equal(t, "shop.prod#postgres.frontend", s.Binds[0].ServiceGroup.String())
}

func TestSetCompositeBindsOverrideWins(t *testing.T) {
	web := memberIdent(t, "origin/web/1.0.0")
	s := DefaultFor(web)
	bindMap := BindMap{
		web: {{BindName: "db", SatisfyingService: memberIdent(t, "origin/postgres/9.6.2")}},
	}
	override, err := ParseServiceBind("web:db:custom.group")
	require.NoError(t, err)

	SetCompositeBinds(&s, bindMap, []ServiceBind{override})

	require.Len(t, s.Binds, 1)
	assert.Equal(t, override, s.Binds[0], "a caller override replaces the map-derived bind")
}

func TestSetCompositeBindsOverrideMatchesByName(t *testing.T) {
	web := memberIdent(t, "origin/web/1.0.0")
	s := DefaultFor(web)
	otherMember, err := ParseServiceBind("api:db:custom.group")
	require.NoError(t, err)
	forThisMember, err := ParseServiceBind("web:cache:redis.cache")
	require.NoError(t, err)

	SetCompositeBinds(&s, BindMap{}, []ServiceBind{otherMember, forThisMember})

	require.Len(t, s.Binds, 1)
	assert.Equal(t, "cache", s.Binds[0].Name, "overrides for other members are ignored")
}

func TestSetCompositeBindsDiscardsPriorBinds(t *testing.T) {
	web := memberIdent(t, "origin/web/1.0.0")
	s := DefaultFor(web)
	stale, err := ParseServiceBind("stale:old.group")
	require.NoError(t, err)
	s.Binds = []ServiceBind{stale}

	SetCompositeBinds(&s, BindMap{}, nil)

	assert.Empty(t, s.Binds, "whatever binds the spec held before are ignored")
}

func TestSetCompositeBindsDropsOrganization(t *testing.T) {
	// The parser accepts an organization on a bind string, but map-derived
	// composite binds never carry one; the round-trip loss is intentional.
	web := memberIdent(t, "origin/web/1.0.0")
	s := DefaultFor(web)
	bindMap := BindMap{
		web: {{BindName: "db", SatisfyingService: memberIdent(t, "origin/postgres/9.6.2")}},
	}

	SetCompositeBinds(&s, bindMap, nil)

	require.Len(t, s.Binds, 1)
	assert.Empty(t, s.Binds[0].ServiceGroup.Organization)
	assert.NotContains(t, s.Binds[0].String(), "@")
}

func TestSpecUnion(t *testing.T) {
	svc := DefaultFor(memberIdent(t, "core/redis/4.0.1"))
	descriptor := &CompositeSpec{
		Ident:    memberIdent(t, "origin/shop/2.0.0"),
		Services: []PackageIdent{svc.Ident},
	}

	var loaded Spec = ServiceOnly{Service: &svc}
	assert.Equal(t, svc.Ident, loaded.SpecIdent())

	loaded = Composite{Descriptor: descriptor, Members: []ServiceSpec{svc}}
	assert.Equal(t, descriptor.Ident, loaded.SpecIdent())

	switch v := loaded.(type) {
	case ServiceOnly:
		t.Fatalf("unexpected variant %T", v)
	case Composite:
		assert.Equal(t, "shop", v.Descriptor.Name())
		require.Len(t, v.Members, 1)
	}
}

func TestCompositeSpecFileRoundTrip(t *testing.T) {
	descriptor := &CompositeSpec{
		Ident: memberIdent(t, "origin/shop/2.0.0/20230101000000"),
		Services: []PackageIdent{
			memberIdent(t, "origin/web/1.0.0"),
			memberIdent(t, "origin/postgres/9.6.2"),
		},
	}
	path := filepath.Join(t.TempDir(), descriptor.FileName())

	require.NoError(t, descriptor.ToFile(path))

	read, err := CompositeSpecFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, descriptor, read)
}

func TestCompositeSpecMissingIdent(t *testing.T) {
	_, err := ParseCompositeSpec(`services = ["origin/web/1.0.0"]`)
	assert.ErrorIs(t, err, ErrMissingRequiredIdent)

	empty := &CompositeSpec{}
	err = empty.ToFile(filepath.Join(t.TempDir(), "x.spec"))
	assert.ErrorIs(t, err, ErrMissingRequiredIdent)
}
