package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speckeeper/internal/spec"
)

func testIdent(t *testing.T, s string) spec.PackageIdent {
	t.Helper()
	ident, err := spec.ParsePackageIdent(s)
	require.NoError(t, err)
	return ident
}

func newTestManager(t *testing.T) (*SpecManager, *PackageStore) {
	t.Helper()
	root := t.TempDir()
	store := NewPackageStore(filepath.Join(root, "pkgs"))
	sm := NewSpecManager(
		filepath.Join(root, "specs"),
		filepath.Join(root, "specs", "composites"),
		store,
	)
	return sm, store
}

func putPackage(t *testing.T, store *PackageStore, info *PackageInfo) {
	t.Helper()
	require.NoError(t, store.Put(info))
}

func TestPackageStoreRoundTrip(t *testing.T) {
	store := NewPackageStore(t.TempDir())
	info := &PackageInfo{
		Ident:    testIdent(t, "origin/web/1.0.0/20230101000000"),
		Required: []string{"db"},
		Optional: []string{"cache"},
	}
	putPackage(t, store, info)

	got, err := store.Get("web")
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestPackageStoreGetMissing(t *testing.T) {
	store := NewPackageStore(t.TempDir())

	_, err := store.Get("ghost")
	assert.ErrorContains(t, err, "not installed")
}

func TestPackageStoreGetNoIdent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web.json"), []byte(`{}`), 0644))

	_, err := NewPackageStore(dir).Get("web")
	assert.ErrorContains(t, err, "no ident")
}

func TestPackageInfoBindMap(t *testing.T) {
	info := &PackageInfo{
		Ident: testIdent(t, "origin/shop/2.0.0"),
		BindMappings: map[string][]BindMappingEntry{
			"origin/web/1.0.0": {
				{Bind: "db", SatisfyingService: testIdent(t, "origin/postgres/9.6.2")},
			},
		},
	}

	bindMap, err := info.BindMap()
	require.NoError(t, err)
	mappings, ok := bindMap[testIdent(t, "origin/web/1.0.0")]
	require.True(t, ok)
	require.Len(t, mappings, 1)
	assert.Equal(t, "db", mappings[0].BindName)

	info.BindMappings["not an ident"] = nil
	_, err = info.BindMap()
	assert.Error(t, err)
}

func TestSpecManagerLoadStandalone(t *testing.T) {
	sm, store := newTestManager(t)
	putPackage(t, store, &PackageInfo{Ident: testIdent(t, "origin/web/1.0.0")})

	loaded, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/web/1.0.0")})
	require.NoError(t, err)

	svc, ok := loaded.(spec.ServiceOnly)
	require.True(t, ok)
	assert.Equal(t, "web", svc.Service.Ident.Name)
	assert.FileExists(t, filepath.Join(sm.dir, "web.spec"))

	got, ok := sm.Get("web")
	require.True(t, ok)
	assert.Equal(t, spec.DefaultGroup, got.Group)
}

func TestSpecManagerLoadMissingIdent(t *testing.T) {
	sm, _ := newTestManager(t)

	_, err := sm.Load(&spec.LoadRequest{})
	assert.ErrorIs(t, err, spec.ErrMissingRequiredIdent)
}

func TestSpecManagerLoadUninstalledPackage(t *testing.T) {
	sm, _ := newTestManager(t)

	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/ghost/1.0.0")})
	assert.ErrorContains(t, err, "not installed")
}

func TestSpecManagerLoadMissingRequiredBind(t *testing.T) {
	sm, store := newTestManager(t)
	putPackage(t, store, &PackageInfo{
		Ident:    testIdent(t, "origin/web/1.0.0"),
		Required: []string{"db"},
	})

	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/web/1.0.0")})
	var missing *spec.MissingRequiredBindError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"db"}, missing.Binds)
	assert.NoFileExists(t, filepath.Join(sm.dir, "web.spec"),
		"a spec that fails validation is never persisted")
}

func TestSpecManagerLoadUpdatesExisting(t *testing.T) {
	sm, store := newTestManager(t)
	putPackage(t, store, &PackageInfo{Ident: testIdent(t, "origin/web/1.0.0")})

	channel := "unstable"
	_, err := sm.Load(&spec.LoadRequest{
		Ident:   testIdent(t, "origin/web/1.0.0"),
		Channel: &channel,
	})
	require.NoError(t, err)

	group := "frontend"
	_, err = sm.Load(&spec.LoadRequest{
		Ident: testIdent(t, "origin/web/2.0.0"),
		Group: &group,
	})
	require.NoError(t, err)

	got, ok := sm.Get("web")
	require.True(t, ok)
	assert.Equal(t, "origin/web/2.0.0", got.Ident.String())
	assert.Equal(t, "frontend", got.Group)
	assert.Equal(t, "unstable", got.Channel, "absent request fields keep prior values")
}

func compositeFixtures(t *testing.T, store *PackageStore) {
	t.Helper()
	putPackage(t, store, &PackageInfo{
		Ident:    testIdent(t, "origin/shop/2.0.0"),
		Services: []spec.PackageIdent{testIdent(t, "origin/web/1.0.0"), testIdent(t, "origin/postgres/9.6.2")},
		BindMappings: map[string][]BindMappingEntry{
			"origin/web/1.0.0": {
				{Bind: "db", SatisfyingService: testIdent(t, "origin/postgres/9.6.2")},
			},
		},
	})
	putPackage(t, store, &PackageInfo{
		Ident:    testIdent(t, "origin/web/1.0.0"),
		Required: []string{"db"},
	})
	putPackage(t, store, &PackageInfo{Ident: testIdent(t, "origin/postgres/9.6.2")})
}

func TestSpecManagerLoadComposite(t *testing.T) {
	sm, store := newTestManager(t)
	compositeFixtures(t, store)

	loaded, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/shop/2.0.0")})
	require.NoError(t, err)

	composite, ok := loaded.(spec.Composite)
	require.True(t, ok)
	assert.Equal(t, "shop", composite.Descriptor.Name())
	require.Len(t, composite.Members, 2)

	web, ok := sm.Get("web")
	require.True(t, ok)
	assert.Equal(t, "shop", web.Composite)
	require.Len(t, web.Binds, 1)
	assert.Equal(t, "db", web.Binds[0].Name)
	assert.Equal(t, "postgres.default", web.Binds[0].ServiceGroup.String())

	assert.FileExists(t, filepath.Join(sm.dir, "web.spec"))
	assert.FileExists(t, filepath.Join(sm.dir, "postgres.spec"))
	assert.FileExists(t, filepath.Join(sm.compositeDir, "shop.spec"))
}

func TestSpecManagerUpdateCompositeMember(t *testing.T) {
	sm, store := newTestManager(t)
	compositeFixtures(t, store)

	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/shop/2.0.0")})
	require.NoError(t, err)

	group := "frontend"
	loaded, err := sm.Load(&spec.LoadRequest{
		Ident: testIdent(t, "origin/web/1.0.0"),
		Group: &group,
	})
	require.NoError(t, err)

	svc, ok := loaded.(spec.ServiceOnly)
	require.True(t, ok)
	assert.Equal(t, "frontend", svc.Service.Group)
	assert.Equal(t, "shop", svc.Service.Composite, "membership survives member updates")
	require.Len(t, svc.Service.Binds, 1)
	assert.Equal(t, "postgres.default", svc.Service.Binds[0].ServiceGroup.String(),
		"binds are untouched when the request carries none")
}

func TestSpecManagerUpdateCompositeMemberBinds(t *testing.T) {
	sm, store := newTestManager(t)
	compositeFixtures(t, store)

	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/shop/2.0.0")})
	require.NoError(t, err)

	override, err := spec.ParseServiceBind("web:db:custom.group")
	require.NoError(t, err)
	loaded, err := sm.Load(&spec.LoadRequest{
		Ident: testIdent(t, "origin/web/1.0.0"),
		Binds: []spec.ServiceBind{override},
	})
	require.NoError(t, err)

	svc, ok := loaded.(spec.ServiceOnly)
	require.True(t, ok)
	require.Len(t, svc.Service.Binds, 1)
	assert.Equal(t, override, svc.Service.Binds[0],
		"a present bind list re-resolves against the composite's bind map")
}

func TestSpecManagerUnloadStandalone(t *testing.T) {
	sm, store := newTestManager(t)
	putPackage(t, store, &PackageInfo{Ident: testIdent(t, "origin/web/1.0.0")})
	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/web/1.0.0")})
	require.NoError(t, err)

	require.NoError(t, sm.Unload("web"))
	assert.NoFileExists(t, filepath.Join(sm.dir, "web.spec"))
	_, ok := sm.Get("web")
	assert.False(t, ok)

	assert.Error(t, sm.Unload("web"))
}

func TestSpecManagerUnloadComposite(t *testing.T) {
	sm, store := newTestManager(t)
	compositeFixtures(t, store)
	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/shop/2.0.0")})
	require.NoError(t, err)

	require.NoError(t, sm.Unload("shop"))
	assert.NoFileExists(t, filepath.Join(sm.dir, "web.spec"))
	assert.NoFileExists(t, filepath.Join(sm.dir, "postgres.spec"))
	assert.NoFileExists(t, filepath.Join(sm.compositeDir, "shop.spec"))
}

func TestSpecManagerRescan(t *testing.T) {
	sm, _ := newTestManager(t)
	require.NoError(t, os.MkdirAll(sm.dir, 0755))

	current := `
ident = 'origin/web/1.0.0'
channel = 'unstable'
`
	legacy := `
ident = 'origin/worker/0.5.0'
depot_url = 'https://depot.example.com'
topology = 'Leader'
`
	broken := `ident = [`
	require.NoError(t, os.WriteFile(filepath.Join(sm.dir, "web.spec"), []byte(current), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sm.dir, "worker.spec"), []byte(legacy), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sm.dir, "broken.spec"), []byte(broken), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sm.dir, "notes.txt"), []byte("ignored"), 0644))

	require.NoError(t, sm.Rescan())

	specs := sm.Specs()
	require.Len(t, specs, 2, "the broken file is skipped, the .txt file ignored")

	web, ok := sm.Get("web")
	require.True(t, ok)
	assert.Equal(t, "unstable", web.Channel)

	worker, ok := sm.Get("worker")
	require.True(t, ok)
	assert.Equal(t, "https://depot.example.com", worker.BldrURL)
	assert.Equal(t, spec.TopologyLeader, worker.Topology)
	assert.Equal(t, spec.DefaultChannel, worker.Channel,
		"legacy documents predate channels and get the default")
}

func TestSpecManagerSetDesiredState(t *testing.T) {
	sm, store := newTestManager(t)
	putPackage(t, store, &PackageInfo{Ident: testIdent(t, "origin/web/1.0.0")})
	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/web/1.0.0")})
	require.NoError(t, err)

	require.NoError(t, sm.SetDesiredState("web", spec.DesiredDown))

	reread, err := spec.ServiceSpecFromFile(filepath.Join(sm.dir, "web.spec"))
	require.NoError(t, err)
	assert.Equal(t, spec.DesiredDown, reread.DesiredState)

	assert.Error(t, sm.SetDesiredState("ghost", spec.DesiredUp))
}

func TestSpecManagerWantsNewerPackage(t *testing.T) {
	sm, store := newTestManager(t)
	putPackage(t, store, &PackageInfo{Ident: testIdent(t, "origin/web/1.0.0")})
	_, err := sm.Load(&spec.LoadRequest{Ident: testIdent(t, "origin/web/2.0.0")})
	require.NoError(t, err)

	newer, err := sm.WantsNewerPackage("web")
	require.NoError(t, err)
	assert.True(t, newer)

	putPackage(t, store, &PackageInfo{Ident: testIdent(t, "origin/web/2.0.0")})
	newer, err = sm.WantsNewerPackage("web")
	require.NoError(t, err)
	assert.False(t, newer)
}
