package build_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeEditorLand/tauri/pkg/build"
)

func TestFSDiscovery_GroupsByNamespace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "permissions", "fs", "read.toml"), "[[permission]]\nidentifier = \"read-file\"\n")
	writeFile(t, filepath.Join(root, "permissions", "fs", "nested", "write.toml"), "[[permission]]\nidentifier = \"write-file\"\n")
	writeFile(t, filepath.Join(root, "permissions", "fs", "scope-schema.json"), `{"type":"object"}`)
	writeFile(t, filepath.Join(root, "permissions", "fs", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, "permissions", "net", "net.yaml"), "permission:\n  - identifier: fetch\n")

	d := &build.FSDiscovery{PermissionsDir: filepath.Join(root, "permissions")}

	docs, err := d.PermissionDocuments()
	require.NoError(t, err)
	require.Contains(t, docs, "fs")
	require.Contains(t, docs, "net")
	// The scope schema and unsupported extensions are not permission
	// documents.
	assert.Len(t, docs["fs"], 2)
	assert.Len(t, docs["net"], 1)

	schemas, err := d.GlobalScopeSchemas()
	require.NoError(t, err)
	require.Contains(t, schemas, "fs")
	assert.NotContains(t, schemas, "net")
}

func TestFSDiscovery_MissingDirectories(t *testing.T) {
	d := &build.FSDiscovery{
		PermissionsDir:  filepath.Join(t.TempDir(), "nope"),
		CapabilitiesDir: filepath.Join(t.TempDir(), "nope"),
	}

	docs, err := d.PermissionDocuments()
	require.NoError(t, err)
	assert.Empty(t, docs)

	schemas, err := d.GlobalScopeSchemas()
	require.NoError(t, err)
	assert.Empty(t, schemas)

	caps, err := d.CapabilityDocuments()
	require.NoError(t, err)
	assert.Empty(t, caps)
}
