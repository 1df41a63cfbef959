package build

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/CodeEditorLand/tauri/pkg/acl"
)

// ScopeSchemaFileName is the per-namespace file holding the global scope
// schema inside a namespace's permissions directory.
const ScopeSchemaFileName = "scope-schema.json"

// FSDiscovery discovers permission and capability documents on the
// filesystem. The permissions directory holds one subdirectory per
// namespace; every document inside it belongs to that namespace, except the
// scope schema file. The capabilities directory is scanned recursively.
// A missing directory yields no documents rather than an error.
type FSDiscovery struct {
	PermissionsDir  string
	CapabilitiesDir string
}

// PermissionDocuments returns permission-definition documents grouped by
// namespace subdirectory.
func (d *FSDiscovery) PermissionDocuments() (map[string][]Document, error) {
	docs := make(map[string][]Document)

	entries, err := os.ReadDir(d.PermissionsDir)
	if os.IsNotExist(err) {
		return docs, nil
	}
	if err != nil {
		return nil, &acl.IOError{Path: d.PermissionsDir, Op: "read directory", Err: err}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		namespace := entry.Name()
		files, err := collectDocuments(filepath.Join(d.PermissionsDir, namespace), func(name string) bool {
			return name != ScopeSchemaFileName
		})
		if err != nil {
			return nil, err
		}
		docs[namespace] = files
	}

	return docs, nil
}

// GlobalScopeSchemas returns each namespace's scope schema file contents,
// keyed by namespace, for namespaces that provide one.
func (d *FSDiscovery) GlobalScopeSchemas() (map[string]json.RawMessage, error) {
	schemas := make(map[string]json.RawMessage)

	entries, err := os.ReadDir(d.PermissionsDir)
	if os.IsNotExist(err) {
		return schemas, nil
	}
	if err != nil {
		return nil, &acl.IOError{Path: d.PermissionsDir, Op: "read directory", Err: err}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(d.PermissionsDir, entry.Name(), ScopeSchemaFileName)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, &acl.IOError{Path: path, Op: "read", Err: err}
		}
		schemas[entry.Name()] = data
	}

	return schemas, nil
}

// CapabilityDocuments returns every capability document under the
// capabilities directory.
func (d *FSDiscovery) CapabilityDocuments() ([]Document, error) {
	if _, err := os.Stat(d.CapabilitiesDir); os.IsNotExist(err) {
		return nil, nil
	}
	return collectDocuments(d.CapabilitiesDir, nil)
}

// collectDocuments walks dir in lexical order, reading every file with a
// supported document extension that passes the filter.
func collectDocuments(dir string, include func(name string) bool) ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return &acl.IOError{Path: path, Op: "walk", Err: err}
		}
		if entry.IsDir() {
			return nil
		}
		if _, err := acl.DetectFormat(path); err != nil {
			return nil
		}
		if include != nil && !include(entry.Name()) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return &acl.IOError{Path: path, Op: "read", Err: err}
		}
		docs = append(docs, Document{Path: path, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
