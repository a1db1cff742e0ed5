package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"speckeeper/internal/config"
	"speckeeper/internal/env"
	"speckeeper/internal/logger"
	"speckeeper/internal/spec"
)

/**
 * Spec manager: owns the spec directory view
 * @property {string} dir - Watch directory holding *.spec files
 * @property {string} compositeDir - Directory holding composite descriptors
 * @property {*PackageStore} store - Installed-package metadata provider
 * @description
 * Loads every spec file (upgrading legacy documents in memory), applies
 * load requests, expands composites, validates bind contracts and persists
 * the results. All operations serialize on one mutex; the spec core itself
 * is single-threaded by contract.
 */
type SpecManager struct {
	mu           sync.Mutex
	dir          string
	compositeDir string
	store        *PackageStore
	specs        map[string]*spec.ServiceSpec
}

var specManager *SpecManager

func GetSpecManager() *SpecManager {
	if specManager != nil {
		return specManager
	}
	sm := NewSpecManager(
		config.Config.Specs.Dir,
		config.Config.Specs.CompositeDir,
		NewPackageStore(filepath.Join(env.ShareDir(), "pkgs")),
	)
	if err := sm.Rescan(); err != nil {
		logger.Errorf("initial spec scan failed: %v", err)
	}
	specManager = sm
	return specManager
}

func NewSpecManager(dir, compositeDir string, store *PackageStore) *SpecManager {
	return &SpecManager{
		dir:          dir,
		compositeDir: compositeDir,
		store:        store,
		specs:        make(map[string]*spec.ServiceSpec),
	}
}

/**
 * Rescan the spec directory
 * @returns {error} Returns error when the directory cannot be enumerated
 * @description
 * Point-in-time snapshot: replaces the in-memory view with whatever parses.
 * Legacy documents are upgraded in memory; the file is rewritten in the new
 * schema only on the next explicit save. Files that fail both schemas are
 * logged and skipped, never silently dropped from metrics.
 */
func (sm *SpecManager) Rescan() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	files, err := spec.SpecFiles(sm.dir)
	if err != nil {
		return err
	}
	next := make(map[string]*spec.ServiceSpec, len(files))
	for _, path := range files {
		s, migrated, err := spec.LoadServiceSpec(path)
		if err != nil {
			CountSpecLoadFailure(loadFailureReason(err))
			logger.Warnf("skipping spec file %s: %v", path, err)
			continue
		}
		if migrated {
			CountSpecLoad("legacy")
			logger.Infof("upgraded legacy spec %s for %s", path, s.Ident)
		} else {
			CountSpecLoad("current")
		}
		next[s.Ident.Name] = s
	}
	sm.specs = next
	return nil
}

func loadFailureReason(err error) string {
	var parseErr *spec.ParseError
	var ioErr *spec.FileIOError
	switch {
	case errors.Is(err, spec.ErrMissingRequiredIdent):
		return "missing_ident"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &ioErr):
		return "io"
	default:
		return "other"
	}
}

// Specs returns the loaded specs sorted by package name.
func (sm *SpecManager) Specs() []*spec.ServiceSpec {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	names := make([]string, 0, len(sm.specs))
	for name := range sm.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*spec.ServiceSpec, 0, len(names))
	for _, name := range names {
		out = append(out, sm.specs[name])
	}
	return out
}

func (sm *SpecManager) Get(name string) (*spec.ServiceSpec, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s, ok := sm.specs[name]
	return s, ok
}

/**
 * Apply a load request
 * @param {*spec.LoadRequest} req - Inbound request; Ident is required
 * @returns {spec.Spec} ServiceOnly for standalone packages, Composite with
 *                      one member spec per service for composite packages
 * @returns {error} Package lookup, validation or persistence failure
 * @description
 * - Standalone target: partial-updates the existing spec (or a default one),
 *   validates the bind contract and writes <name>.spec
 * - Member of a loaded composite: partial-updates the member in place and
 *   re-resolves its composite binds against a fresh bind map
 * - Composite target: expands a base spec per member, resolves composite
 *   binds consuming one shared bind map, validates and persists every
 *   member plus the descriptor
 */
func (sm *SpecManager) Load(req *spec.LoadRequest) (spec.Spec, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if req.Ident.IsZero() {
		return nil, spec.ErrMissingRequiredIdent
	}
	pkg, err := sm.store.Get(req.Ident.Name)
	if err != nil {
		return nil, err
	}
	if pkg.IsComposite() {
		return sm.loadComposite(req, pkg)
	}
	return sm.loadService(req, pkg)
}

func (sm *SpecManager) loadService(req *spec.LoadRequest, pkg *PackageInfo) (spec.Spec, error) {
	var s spec.ServiceSpec
	if existing, ok := sm.specs[req.Ident.Name]; ok {
		s = *existing
		if s.Composite != "" {
			return sm.updateCompositeMember(req, &s, pkg)
		}
	} else {
		s = spec.DefaultServiceSpec()
	}
	req.ApplyTo(&s)
	if err := sm.validateAndSave(&s, pkg); err != nil {
		return nil, err
	}
	return spec.ServiceOnly{Service: sm.specs[s.Ident.Name]}, nil
}

func (sm *SpecManager) updateCompositeMember(req *spec.LoadRequest, s *spec.ServiceSpec, pkg *PackageInfo) (spec.Spec, error) {
	owner, err := sm.store.Get(s.Composite)
	if err != nil {
		return nil, fmt.Errorf("composite %q of %s: %w", s.Composite, s.Ident, err)
	}
	bindMap, err := owner.BindMap()
	if err != nil {
		return nil, err
	}
	req.UpdateComposite(bindMap, s)
	CountCompositeResolve()
	if err := sm.validateAndSave(s, pkg); err != nil {
		return nil, err
	}
	return spec.ServiceOnly{Service: sm.specs[s.Ident.Name]}, nil
}

func (sm *SpecManager) loadComposite(req *spec.LoadRequest, pkg *PackageInfo) (spec.Spec, error) {
	bindMap, err := pkg.BindMap()
	if err != nil {
		return nil, err
	}
	members := req.ToCompositeSpecs(pkg.Ident.Name, pkg.Services, bindMap)
	for range members {
		CountCompositeResolve()
	}

	descriptor := &spec.CompositeSpec{Ident: pkg.Ident, Services: pkg.Services}
	for i := range members {
		memberPkg, err := sm.store.Get(members[i].Ident.Name)
		if err != nil {
			return nil, fmt.Errorf("composite member %s: %w", members[i].Ident, err)
		}
		if err := sm.validateAndSave(&members[i], memberPkg); err != nil {
			return nil, fmt.Errorf("composite member %s: %w", members[i].Ident, err)
		}
	}
	if err := os.MkdirAll(sm.compositeDir, 0755); err != nil {
		return nil, &spec.FileIOError{Path: sm.compositeDir, Err: err}
	}
	if err := descriptor.ToFile(filepath.Join(sm.compositeDir, descriptor.FileName())); err != nil {
		return nil, err
	}
	return spec.Composite{Descriptor: descriptor, Members: members}, nil
}

func (sm *SpecManager) validateAndSave(s *spec.ServiceSpec, pkg *PackageInfo) error {
	if err := s.Validate(pkg); err != nil {
		var missing *spec.MissingRequiredBindError
		var invalid *spec.InvalidBindsError
		switch {
		case errors.As(err, &missing):
			CountValidateFailure("missing_required")
		case errors.As(err, &invalid):
			CountValidateFailure("invalid_binds")
		}
		return err
	}
	if err := os.MkdirAll(sm.dir, 0755); err != nil {
		return &spec.FileIOError{Path: sm.dir, Err: err}
	}
	if err := s.ToFile(filepath.Join(sm.dir, s.FileName())); err != nil {
		return err
	}
	kept := *s
	sm.specs[s.Ident.Name] = &kept
	return nil
}

/**
 * Remove a spec by package name
 * @param {string} name - Package name; a composite name removes the
 *                 descriptor and every member spec stamped with it
 * @returns {error} Returns error when nothing by that name is loaded or a
 *                  file removal fails
 */
func (sm *SpecManager) Unload(name string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	descriptorPath := filepath.Join(sm.compositeDir, name+"."+spec.SpecFileExt)
	if descriptor, err := spec.CompositeSpecFromFile(descriptorPath); err == nil {
		for _, member := range descriptor.Services {
			if s, ok := sm.specs[member.Name]; ok && s.Composite == name {
				if err := sm.removeSpecFile(member.Name); err != nil {
					return err
				}
			}
		}
		if err := os.Remove(descriptorPath); err != nil {
			return &spec.FileIOError{Path: descriptorPath, Err: err}
		}
		return nil
	}

	if _, ok := sm.specs[name]; !ok {
		return fmt.Errorf("no spec loaded for %q", name)
	}
	return sm.removeSpecFile(name)
}

func (sm *SpecManager) removeSpecFile(name string) error {
	path := filepath.Join(sm.dir, name+"."+spec.SpecFileExt)
	if err := os.Remove(path); err != nil {
		return &spec.FileIOError{Path: path, Err: err}
	}
	delete(sm.specs, name)
	return nil
}

/**
 * Set the desired state of a loaded spec
 * @param {string} name - Package name
 * @param {spec.DesiredState} state - up or down
 * @returns {error} Returns error when the spec is unknown or cannot be saved
 */
func (sm *SpecManager) SetDesiredState(name string, state spec.DesiredState) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.specs[name]
	if !ok {
		return fmt.Errorf("no spec loaded for %q", name)
	}
	updated := *s
	updated.DesiredState = state
	if err := updated.ToFile(filepath.Join(sm.dir, updated.FileName())); err != nil {
		return err
	}
	sm.specs[name] = &updated
	return nil
}

/**
 * Report whether a loaded spec asks for a newer build than the one installed
 * @param {string} name - Package name
 * @returns {bool} true when the spec's ident is newer than the installed one
 * @returns {error} Returns error when spec or package is unknown
 */
func (sm *SpecManager) WantsNewerPackage(name string) (bool, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.specs[name]
	if !ok {
		return false, fmt.Errorf("no spec loaded for %q", name)
	}
	pkg, err := sm.store.Get(name)
	if err != nil {
		return false, err
	}
	return s.Ident.Newer(pkg.Ident), nil
}
