// Package persist writes the compiled ACL artifacts with a rebuild-avoidance
// contract: a file is rewritten only when its new content differs byte for
// byte from what is already on disk, so repeated builds over unchanged input
// never invalidate dependent build steps.
package persist

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/CodeEditorLand/tauri/pkg/acl"
	"github.com/CodeEditorLand/tauri/pkg/canonicalize"
	"github.com/CodeEditorLand/tauri/pkg/manifest"
	"github.com/CodeEditorLand/tauri/pkg/schema"
)

// Artifact file names under the output directory.
const (
	ManifestsFileName    = "acl-manifests.json"
	CapabilitiesFileName = "capabilities.json"
	SchemaFileName       = "schema.json"
)

// WriteIfChanged writes data to path unless the file already holds exactly
// those bytes. Parent directories are created as needed. It reports whether
// a write occurred.
func WriteIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, &acl.IOError{Path: filepath.Dir(path), Op: "create directory", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, &acl.IOError{Path: path, Op: "write", Err: err}
	}
	return true, nil
}

// Artifacts persists the pipeline outputs under one directory.
type Artifacts struct {
	Dir string

	// Written records the paths actually rewritten by this build.
	Written []string
}

func (a *Artifacts) write(name string, data []byte) (string, error) {
	path := filepath.Join(a.Dir, name)
	changed, err := WriteIfChanged(path, data)
	if err != nil {
		return "", err
	}
	if changed {
		a.Written = append(a.Written, path)
	}
	return path, nil
}

// Save writes an arbitrary artifact at a path relative to the output
// directory, subject to the write-if-changed contract.
func (a *Artifacts) Save(name string, data []byte) (string, error) {
	return a.write(name, data)
}

// SaveManifests writes the namespace-sorted manifest map in canonical form.
func (a *Artifacts) SaveManifests(manifests map[string]*manifest.Manifest) (string, error) {
	data, err := canonicalize.Canonical(manifests)
	if err != nil {
		return "", err
	}
	return a.write(ManifestsFileName, data)
}

// SaveCapabilities writes the identifier-sorted capability map in canonical
// form.
func (a *Artifacts) SaveCapabilities(capabilities map[string]acl.Capability) (string, error) {
	data, err := canonicalize.Canonical(capabilities)
	if err != nil {
		return "", err
	}
	return a.write(CapabilitiesFileName, data)
}

// SaveSchema writes the synthesized schema twice: once under the concrete
// target's name and once under the target's platform class (desktop or
// mobile), both only on change.
func (a *Artifacts) SaveSchema(doc *schema.Document, target acl.Target) error {
	data, err := doc.MarshalIndent()
	if err != nil {
		return err
	}
	if _, err := a.write(target.String()+"-"+SchemaFileName, data); err != nil {
		return err
	}
	_, err = a.write(target.PlatformClass()+"-"+SchemaFileName, data)
	return err
}
