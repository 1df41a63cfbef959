// Package validate checks capability declarations against the compiled
// manifest set. It is a pure read-only pass: manifests and capabilities are
// never mutated, and the first violation aborts the build.
package validate

import (
	"sort"

	"github.com/CodeEditorLand/tauri/pkg/acl"
	"github.com/CodeEditorLand/tauri/pkg/manifest"
)

// Manifests resolves every permission-set and default-permission reference
// in every namespace. References may be forward-declared while a namespace
// is assembled; they must resolve by the time validation runs.
func Manifests(manifests map[string]*manifest.Manifest) error {
	for _, ns := range sortedKeys(manifests) {
		if err := manifests[ns].ResolveReferences(ns); err != nil {
			return err
		}
	}
	return nil
}

// Capabilities confirms that every permission reference of every capability
// resolves against the manifest set.
//
// A capability with a platform allow-list that excludes the build target is
// skipped entirely: it may reference permissions only meaningful on other
// platforms. The core namespace's `default` is always accepted, independent
// of manifest contents. Everything else resolves per namespace: `default`,
// a permission key, or a permission-set key. Capabilities are visited in
// identifier order so the first reported violation is reproducible.
func Capabilities(manifests map[string]*manifest.Manifest, capabilities map[string]acl.Capability, target acl.Target) error {
	for _, id := range sortedKeys(capabilities) {
		capability := capabilities[id]
		if !capability.HasPlatform(target) {
			continue
		}

		for _, entry := range capability.Permissions {
			identifier := acl.ParseIdentifier(entry.Identifier)

			if identifier.Namespace == acl.CoreNamespace && identifier.Base == acl.DefaultIdentifier {
				continue
			}

			if !resolves(manifests, identifier) {
				return &acl.InvalidCapabilityPermissionError{
					Capability: capability.Identifier,
					Permission: identifier.String(),
					Known:      KnownPermissions(manifests),
				}
			}
		}
	}
	return nil
}

// resolves applies the reference rule: the namespace must exist, and the
// base must be `default`, a permission, or a permission set of it.
func resolves(manifests map[string]*manifest.Manifest, id acl.Identifier) bool {
	m, ok := manifests[id.Namespace]
	if !ok {
		return false
	}
	if id.Base == acl.DefaultIdentifier {
		return true
	}
	if _, ok := m.Permissions[id.Base]; ok {
		return true
	}
	_, ok = m.PermissionSets[id.Base]
	return ok
}

// KnownPermissions enumerates every valid identifier across every namespace
// in display form: namespaces in lexicographic order; per namespace the
// default permission (when materialized), permissions, then permission sets,
// each sorted by identifier. The app namespace renders without a prefix.
//
// The per-namespace order here is part of the error-message contract and
// deliberately differs from the schema enumeration order (sets, default,
// permissions); keep the two independent.
func KnownPermissions(manifests map[string]*manifest.Manifest) []string {
	var known []string
	for _, ns := range sortedKeys(manifests) {
		m := manifests[ns]
		if m.DefaultPermission != nil {
			known = append(known, acl.CanonicalID(ns, acl.DefaultIdentifier))
		}
		for _, id := range sortedKeys(m.Permissions) {
			known = append(known, acl.CanonicalID(ns, id))
		}
		for _, id := range sortedKeys(m.PermissionSets) {
			known = append(known, acl.CanonicalID(ns, id))
		}
	}
	return known
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
