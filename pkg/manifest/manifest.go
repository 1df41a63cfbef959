// Package manifest assembles per-namespace ACL manifests: the compiled,
// authoritative description of a namespace's permissions, permission sets
// and default permission. Manifests are built once per build invocation and
// immutable afterwards.
package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/CodeEditorLand/tauri/pkg/acl"
)

// Manifest is one namespace's compiled ACL.
type Manifest struct {
	DefaultPermission *acl.DefaultPermission       `json:"default_permission,omitempty"`
	Permissions       map[string]acl.Permission    `json:"permissions,omitempty"`
	PermissionSets    map[string]acl.PermissionSet `json:"permission_sets,omitempty"`
	GlobalScopeSchema json.RawMessage              `json:"global_scope_schema,omitempty"`
	Version           string                       `json:"version,omitempty"`
}

// New builds a manifest from parsed permission files. Identifier tables use
// insert-or-fail: a colliding permission or set identifier aborts the build
// instead of silently shadowing the earlier record. A non-empty version must
// be valid semver. The global scope schema, if any, is attached verbatim.
func New(namespace, version string, files []acl.PermissionFile, globalScopeSchema json.RawMessage) (*Manifest, error) {
	if version != "" {
		if _, err := semver.NewVersion(version); err != nil {
			return nil, fmt.Errorf("namespace %q version %q: %w", namespace, version, err)
		}
	}

	m := &Manifest{
		Permissions:       make(map[string]acl.Permission),
		PermissionSets:    make(map[string]acl.PermissionSet),
		GlobalScopeSchema: globalScopeSchema,
		Version:           version,
	}

	for _, file := range files {
		if file.Default != nil {
			if m.DefaultPermission != nil {
				return nil, &acl.DuplicateIdentifierError{
					Namespace:  namespace,
					Kind:       "default permission",
					Identifier: acl.DefaultIdentifier,
				}
			}
			m.DefaultPermission = file.Default
		}
		for _, set := range file.Sets {
			if _, exists := m.PermissionSets[set.Identifier]; exists {
				return nil, &acl.DuplicateIdentifierError{
					Namespace:  namespace,
					Kind:       "permission set",
					Identifier: set.Identifier,
				}
			}
			m.PermissionSets[set.Identifier] = set
		}
		for _, permission := range file.Permissions {
			if _, exists := m.Permissions[permission.Identifier]; exists {
				return nil, &acl.DuplicateIdentifierError{
					Namespace:  namespace,
					Kind:       "permission",
					Identifier: permission.Identifier,
				}
			}
			m.Permissions[permission.Identifier] = permission
		}
	}

	return m, nil
}

// IsEmpty reports whether the manifest declares nothing. An empty app
// manifest is not inserted into the manifest map.
func (m *Manifest) IsEmpty() bool {
	return m.DefaultPermission == nil && len(m.Permissions) == 0 && len(m.PermissionSets) == 0
}

// ResolveReferences checks that every permission-set member and every
// default-permission member names a permission of this namespace.
// References may be forward-declared during assembly; this runs once the
// namespace is fully built, before capability validation.
func (m *Manifest) ResolveReferences(namespace string) error {
	for _, set := range m.PermissionSets {
		for _, member := range set.Permissions {
			if _, ok := m.Permissions[member]; !ok {
				return &acl.UnresolvedReferenceError{Namespace: namespace, Set: set.Identifier, Reference: member}
			}
		}
	}
	if m.DefaultPermission != nil {
		for _, member := range m.DefaultPermission.Permissions {
			if _, ok := m.Permissions[member]; !ok {
				return &acl.UnresolvedReferenceError{Namespace: namespace, Set: acl.DefaultIdentifier, Reference: member}
			}
		}
	}
	return nil
}
