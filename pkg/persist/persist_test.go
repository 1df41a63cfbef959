package persist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeEditorLand/tauri/pkg/acl"
	"github.com/CodeEditorLand/tauri/pkg/manifest"
	"github.com/CodeEditorLand/tauri/pkg/persist"
	"github.com/CodeEditorLand/tauri/pkg/schema"
)

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	changed, err := persist.WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.True(t, changed)

	// Identical content must never produce a new write.
	changed, err = persist.WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = persist.WriteIfChanged(path, []byte("two"))
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func testManifests(t *testing.T) map[string]*manifest.Manifest {
	t.Helper()
	permissions, _ := acl.AutogenerateCommandPermissions([]string{"ping"}, nil)
	m, err := manifest.New("fs", "", []acl.PermissionFile{{Permissions: permissions}}, nil)
	require.NoError(t, err)
	return map[string]*manifest.Manifest{"fs": m}
}

// Running persistence twice with unchanged logical input produces zero
// additional writes on the second run.
func TestArtifacts_Idempotence(t *testing.T) {
	dir := t.TempDir()
	manifests := testManifests(t)
	capabilities := map[string]acl.Capability{
		"main": {Identifier: "main", Permissions: []acl.PermissionEntry{{Identifier: "fs:allow-ping"}}},
	}
	doc, err := schema.Synthesize(manifests)
	require.NoError(t, err)

	first := &persist.Artifacts{Dir: dir}
	_, err = first.SaveManifests(manifests)
	require.NoError(t, err)
	_, err = first.SaveCapabilities(capabilities)
	require.NoError(t, err)
	require.NoError(t, first.SaveSchema(doc, acl.TargetLinux))
	assert.NotEmpty(t, first.Written)

	second := &persist.Artifacts{Dir: dir}
	_, err = second.SaveManifests(manifests)
	require.NoError(t, err)
	_, err = second.SaveCapabilities(capabilities)
	require.NoError(t, err)
	require.NoError(t, second.SaveSchema(doc, acl.TargetLinux))
	assert.Empty(t, second.Written)
}

func TestArtifacts_SchemaFileNames(t *testing.T) {
	dir := t.TempDir()
	doc, err := schema.Synthesize(testManifests(t))
	require.NoError(t, err)

	a := &persist.Artifacts{Dir: dir}
	require.NoError(t, a.SaveSchema(doc, acl.TargetAndroid))

	assert.FileExists(t, filepath.Join(dir, "android-schema.json"))
	assert.FileExists(t, filepath.Join(dir, "mobile-schema.json"))

	require.NoError(t, a.SaveSchema(doc, acl.TargetLinux))
	assert.FileExists(t, filepath.Join(dir, "linux-schema.json"))
	assert.FileExists(t, filepath.Join(dir, "desktop-schema.json"))
}
