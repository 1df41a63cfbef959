package manifest_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeEditorLand/tauri/pkg/acl"
	"github.com/CodeEditorLand/tauri/pkg/manifest"
)

func permission(id string) acl.Permission {
	return acl.Permission{Identifier: id, Commands: acl.Commands{Allow: []string{id}}}
}

func TestNew_AssemblesManifest(t *testing.T) {
	scope := json.RawMessage(`{"type":"object"}`)
	files := []acl.PermissionFile{
		{
			Default:     &acl.DefaultPermission{Identifier: "default", Permissions: []string{"read-file"}},
			Permissions: []acl.Permission{permission("read-file")},
		},
		{
			Sets:        []acl.PermissionSet{{Identifier: "read-all", Description: "reads", Permissions: []string{"read-file"}}},
			Permissions: []acl.Permission{permission("write-file")},
		},
	}

	m, err := manifest.New("fs", "2.1.0", files, scope)
	require.NoError(t, err)

	assert.Len(t, m.Permissions, 2)
	assert.Len(t, m.PermissionSets, 1)
	require.NotNil(t, m.DefaultPermission)
	assert.Equal(t, "2.1.0", m.Version)
	assert.Equal(t, scope, m.GlobalScopeSchema)
	assert.False(t, m.IsEmpty())
	require.NoError(t, m.ResolveReferences("fs"))
}

func TestNew_DuplicatePermission(t *testing.T) {
	files := []acl.PermissionFile{
		{Permissions: []acl.Permission{permission("read-file")}},
		{Permissions: []acl.Permission{permission("read-file")}},
	}

	_, err := manifest.New("fs", "", files, nil)
	var dup *acl.DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "fs", dup.Namespace)
	assert.Equal(t, "read-file", dup.Identifier)
}

func TestNew_DuplicateSet(t *testing.T) {
	set := acl.PermissionSet{Identifier: "read-all", Permissions: []string{"read-file"}}
	files := []acl.PermissionFile{{Sets: []acl.PermissionSet{set, set}}}

	_, err := manifest.New("fs", "", files, nil)
	var dup *acl.DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "permission set", dup.Kind)
}

func TestNew_TwoDefaults(t *testing.T) {
	def := &acl.DefaultPermission{Identifier: "default"}
	files := []acl.PermissionFile{{Default: def}, {Default: def}}

	_, err := manifest.New("fs", "", files, nil)
	var dup *acl.DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "default permission", dup.Kind)
}

func TestNew_InvalidVersion(t *testing.T) {
	_, err := manifest.New("fs", "not-a-version", nil, nil)
	require.Error(t, err)
}

func TestResolveReferences_UnresolvedSetMember(t *testing.T) {
	files := []acl.PermissionFile{{
		Sets: []acl.PermissionSet{{Identifier: "read-all", Permissions: []string{"missing"}}},
	}}

	m, err := manifest.New("fs", "", files, nil)
	require.NoError(t, err)

	err = m.ResolveReferences("fs")
	var unresolved *acl.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "read-all", unresolved.Set)
	assert.Equal(t, "missing", unresolved.Reference)
}

func TestResolveReferences_UnresolvedDefaultMember(t *testing.T) {
	files := []acl.PermissionFile{{
		Default: &acl.DefaultPermission{Identifier: "default", Permissions: []string{"missing"}},
	}}

	m, err := manifest.New("fs", "", files, nil)
	require.NoError(t, err)
	require.Error(t, m.ResolveReferences("fs"))
}

func TestDefaultPermissionRule_AllowAllCommands(t *testing.T) {
	_, generated := acl.AutogenerateCommandPermissions([]string{"ping", "pong"}, nil)

	def, err := manifest.AllowAllCommands().Resolve(generated)
	require.NoError(t, err)
	assert.Equal(t, acl.DefaultIdentifier, def.Identifier)
	assert.Equal(t, []string{"allow-ping", "allow-pong"}, def.Permissions)
}

// An explicit allow-list selects exactly the listed permissions.
func TestDefaultPermissionRule_Allow(t *testing.T) {
	_, generated := acl.AutogenerateCommandPermissions([]string{"ping", "pong"}, nil)

	def, err := manifest.Allow("allow-ping").Resolve(generated)
	require.NoError(t, err)
	assert.Equal(t, []string{"allow-ping"}, def.Permissions)
	assert.NotContains(t, def.Permissions, "allow-pong")
}

func TestDefaultPermissionRule_AllowUnknown(t *testing.T) {
	_, generated := acl.AutogenerateCommandPermissions([]string{"ping"}, nil)

	_, err := manifest.Allow("allow-launch-missiles").Resolve(generated)
	require.Error(t, err)
}

// Serializing a manifest map and re-parsing it loses nothing.
func TestManifestMap_RoundTrip(t *testing.T) {
	files := []acl.PermissionFile{{
		Default:     &acl.DefaultPermission{Identifier: "default", Description: "d", Permissions: []string{"read-file"}},
		Sets:        []acl.PermissionSet{{Identifier: "read-all", Description: "reads", Permissions: []string{"read-file"}}},
		Permissions: []acl.Permission{permission("read-file")},
	}}
	m, err := manifest.New("fs", "1.0.0", files, json.RawMessage(`{"type":"object"}`))
	require.NoError(t, err)

	manifests := map[string]*manifest.Manifest{"fs": m, acl.AppNamespace: {}}

	data, err := json.Marshal(manifests)
	require.NoError(t, err)

	var decoded map[string]*manifest.Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Contains(t, decoded, "fs")
	assert.Equal(t, m.Permissions, decoded["fs"].Permissions)
	assert.Equal(t, m.PermissionSets, decoded["fs"].PermissionSets)
	assert.Equal(t, m.DefaultPermission, decoded["fs"].DefaultPermission)
	assert.JSONEq(t, string(m.GlobalScopeSchema), string(decoded["fs"].GlobalScopeSchema))
	assert.Equal(t, m.Version, decoded["fs"].Version)
}
