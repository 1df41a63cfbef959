// Package build orchestrates the ACL compilation pipeline: discovery output
// is parsed into per-namespace manifests, the capability schema is
// synthesized, capability declarations are validated, and all artifacts are
// persisted through the write-if-changed layer. The pipeline runs once per
// build invocation, synchronously, and never reads ambient environment
// state; everything it needs is injected.
package build

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/CodeEditorLand/tauri/pkg/acl"
	"github.com/CodeEditorLand/tauri/pkg/manifest"
	"github.com/CodeEditorLand/tauri/pkg/persist"
	"github.com/CodeEditorLand/tauri/pkg/schema"
	"github.com/CodeEditorLand/tauri/pkg/validate"
)

// Document is one raw permission or capability document supplied by a
// discovery collaborator.
type Document struct {
	Path string
	Data []byte
}

// Discovery supplies the pipeline's inputs. Implementations own all file
// and environment access.
type Discovery interface {
	// PermissionDocuments returns permission-definition documents grouped
	// by namespace.
	PermissionDocuments() (map[string][]Document, error)
	// GlobalScopeSchemas returns the optional per-namespace scope schema.
	GlobalScopeSchemas() (map[string]json.RawMessage, error)
	// CapabilityDocuments returns the capability declarations to validate.
	CapabilityDocuments() ([]Document, error)
}

// InlinedPlugin declares a plugin compiled into the application itself
// rather than discovered from its own package: its commands get allow/deny
// permissions autogenerated, optionally folded into a default permission.
type InlinedPlugin struct {
	Commands  []string
	Version   string
	Default   *manifest.DefaultPermissionRule
	Documents []Document
}

// AppManifest declares the application's own commands and permission
// documents, compiled under the reserved application namespace.
type AppManifest struct {
	Commands  []string
	Documents []Document
}

// Pipeline compiles and validates the full ACL for one build.
type Pipeline struct {
	Discovery      Discovery
	Target         acl.Target
	OutDir         string
	App            AppManifest
	InlinedPlugins map[string]InlinedPlugin

	// PluginVersions optionally maps a namespace to its package version,
	// recorded on the manifest after semver validation.
	PluginVersions map[string]string

	// StrictSchema additionally validates every parsed capability against
	// the synthesized schema.
	StrictSchema bool

	Logger *slog.Logger
}

// Result is the compiled output of one pipeline run.
type Result struct {
	Manifests    map[string]*manifest.Manifest
	Capabilities map[string]acl.Capability
	Schema       *schema.Document

	// Written lists the artifact paths rewritten by this run; unchanged
	// artifacts are skipped.
	Written []string
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Run executes the pipeline. Any failure is terminal; there is no
// partial-success mode.
func (p *Pipeline) Run() (*Result, error) {
	manifests, err := p.buildManifests()
	if err != nil {
		return nil, err
	}

	if err := validate.Manifests(manifests); err != nil {
		return nil, err
	}

	doc, err := schema.Synthesize(manifests)
	if err != nil {
		return nil, err
	}
	compiled, err := doc.Compile()
	if err != nil {
		return nil, err
	}

	capabilities, err := p.parseCapabilities()
	if err != nil {
		return nil, err
	}

	if err := validate.Capabilities(manifests, capabilities, p.Target); err != nil {
		return nil, err
	}

	if p.StrictSchema {
		for _, id := range sortedKeys(capabilities) {
			capability := capabilities[id]
			if !capability.HasPlatform(p.Target) {
				continue
			}
			data, err := json.Marshal(capability)
			if err != nil {
				return nil, err
			}
			if err := schema.Validate(compiled, data); err != nil {
				return nil, fmt.Errorf("capability %q does not match the capability schema: %w", capability.Identifier, err)
			}
		}
	}

	artifacts := &persist.Artifacts{Dir: p.OutDir}
	if err := p.saveGeneratedDefaults(artifacts); err != nil {
		return nil, err
	}
	if _, err := artifacts.SaveManifests(manifests); err != nil {
		return nil, err
	}
	if err := artifacts.SaveSchema(doc, p.Target); err != nil {
		return nil, err
	}
	if _, err := artifacts.SaveCapabilities(capabilities); err != nil {
		return nil, err
	}

	p.logger().Info("acl build complete",
		"target", p.Target,
		"namespaces", len(manifests),
		"capabilities", len(capabilities),
		"written", len(artifacts.Written))

	return &Result{
		Manifests:    manifests,
		Capabilities: capabilities,
		Schema:       doc,
		Written:      artifacts.Written,
	}, nil
}

func (p *Pipeline) buildManifests() (map[string]*manifest.Manifest, error) {
	permissionDocs, err := p.Discovery.PermissionDocuments()
	if err != nil {
		return nil, err
	}
	scopeSchemas, err := p.Discovery.GlobalScopeSchemas()
	if err != nil {
		return nil, err
	}

	manifests := make(map[string]*manifest.Manifest)

	for _, ns := range sortedKeys(permissionDocs) {
		files, err := parsePermissionDocuments(permissionDocs[ns])
		if err != nil {
			return nil, err
		}
		m, err := manifest.New(ns, p.PluginVersions[ns], files, scopeSchemas[ns])
		if err != nil {
			return nil, err
		}
		manifests[ns] = m
		p.logger().Debug("compiled namespace manifest", "namespace", ns,
			"permissions", len(m.Permissions), "sets", len(m.PermissionSets))
	}

	app, err := p.buildAppManifest()
	if err != nil {
		return nil, err
	}
	if !app.IsEmpty() {
		manifests[acl.AppNamespace] = app
	}

	// Inlined plugins shadow a discovered plugin of the same name, matching
	// the precedence of the application build configuration.
	for _, name := range sortedKeys(p.InlinedPlugins) {
		m, err := p.buildInlinedPlugin(name, p.InlinedPlugins[name], scopeSchemas[name])
		if err != nil {
			return nil, err
		}
		manifests[name] = m
	}

	return manifests, nil
}

func (p *Pipeline) buildAppManifest() (*manifest.Manifest, error) {
	var files []acl.PermissionFile

	if len(p.App.Commands) > 0 {
		permissions, _ := acl.AutogenerateCommandPermissions(p.App.Commands, nil)
		files = append(files, acl.PermissionFile{Permissions: permissions})
	}

	parsed, err := parsePermissionDocuments(p.App.Documents)
	if err != nil {
		return nil, err
	}
	files = append(files, parsed...)

	return manifest.New(acl.AppNamespace, "", files, nil)
}

func (p *Pipeline) buildInlinedPlugin(name string, plugin InlinedPlugin, scopeSchema json.RawMessage) (*manifest.Manifest, error) {
	var files []acl.PermissionFile

	if len(plugin.Commands) > 0 {
		permissions, generated := acl.AutogenerateCommandPermissions(plugin.Commands, nil)
		file := acl.PermissionFile{Permissions: permissions}

		if plugin.Default != nil {
			def, err := plugin.Default.Resolve(generated)
			if err != nil {
				return nil, fmt.Errorf("inlined plugin %q: %w", name, err)
			}
			file.Default = def
		}
		files = append(files, file)
	}

	parsed, err := parsePermissionDocuments(plugin.Documents)
	if err != nil {
		return nil, err
	}
	files = append(files, parsed...)

	return manifest.New(name, plugin.Version, files, scopeSchema)
}

// saveGeneratedDefaults materializes each inlined plugin's resolved default
// permission as a generated document, so the effective default is inspectable
// in the output tree.
func (p *Pipeline) saveGeneratedDefaults(artifacts *persist.Artifacts) error {
	for _, name := range sortedKeys(p.InlinedPlugins) {
		plugin := p.InlinedPlugins[name]
		if plugin.Default == nil || len(plugin.Commands) == 0 {
			continue
		}
		_, generated := acl.AutogenerateCommandPermissions(plugin.Commands, nil)
		def, err := plugin.Default.Resolve(generated)
		if err != nil {
			return fmt.Errorf("inlined plugin %q: %w", name, err)
		}
		if _, err := artifacts.Save("plugins/"+name+"/default.toml", renderDefaultTOML(def)); err != nil {
			return err
		}
	}
	return nil
}

func renderDefaultTOML(def *acl.DefaultPermission) []byte {
	quoted := make([]string, 0, len(def.Permissions))
	for _, p := range def.Permissions {
		quoted = append(quoted, fmt.Sprintf("%q", p))
	}
	return []byte(fmt.Sprintf("# Automatically generated - DO NOT EDIT!\n\n[default]\npermissions = [%s]\n",
		strings.Join(quoted, ",")))
}

func parsePermissionDocuments(docs []Document) ([]acl.PermissionFile, error) {
	files := make([]acl.PermissionFile, 0, len(docs))
	for _, doc := range docs {
		file, err := acl.ParsePermissionFile(doc.Path, doc.Data)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (p *Pipeline) parseCapabilities() (map[string]acl.Capability, error) {
	docs, err := p.Discovery.CapabilityDocuments()
	if err != nil {
		return nil, err
	}

	capabilities := make(map[string]acl.Capability)
	for _, doc := range docs {
		parsed, err := acl.ParseCapabilityFile(doc.Path, doc.Data)
		if err != nil {
			return nil, err
		}
		for _, capability := range parsed {
			if _, exists := capabilities[capability.Identifier]; exists {
				return nil, &acl.DuplicateIdentifierError{Kind: "capability", Identifier: capability.Identifier}
			}
			capabilities[capability.Identifier] = capability
		}
	}
	return capabilities, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
