package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/CodeEditorLand/tauri/pkg/acl"
	"github.com/CodeEditorLand/tauri/pkg/manifest"
)

// Draft is the JSON Schema dialect of every synthesized document.
const Draft = "https://json-schema.org/draft/2020-12/schema"

const (
	defIdentifier      = "Identifier"
	defPermissionEntry = "PermissionEntry"
	defCapability      = "Capability"
)

// Document is a synthesized capability-file schema. Marshaling is
// deterministic: $defs is a map (lexicographic key order) and every branch
// slice is constructed in total order.
type Document struct {
	Schema      string          `json:"$schema"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	AnyOf       []Node          `json:"anyOf"`
	Defs        map[string]Node `json:"$defs"`
}

// MarshalIndent renders the pretty-printed wire form written to disk.
func (d *Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Compile runs the document through a real JSON Schema compiler as a
// self-check that synthesis produced a loadable schema.
func (d *Document) Compile() (*jsonschema.Schema, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal capability schema: %w", err)
	}
	return compileSchema("capability.schema.json", data)
}

// Validate checks one decoded capability-file document against the compiled
// schema.
func Validate(compiled *jsonschema.Schema, document []byte) error {
	var v any
	if err := json.Unmarshal(document, &v); err != nil {
		return fmt.Errorf("decode capability document: %w", err)
	}
	return compiled.Validate(v)
}

func compileSchema(url string, data []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", url, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return compiled, nil
}

// Synthesize builds the capability-file schema for the given manifest set.
// Every legal permission identifier across every namespace becomes a closed
// enumeration branch; namespaces that declare a global scope schema extend
// the scoped permission-entry form into a discriminated union. Repeated runs
// over the same manifests produce byte-identical documents.
func Synthesize(manifests map[string]*manifest.Manifest) (*Document, error) {
	defs := map[string]Node{
		defIdentifier: identifierNode(manifests),
		defCapability: capabilityNode(),
	}

	entry, err := permissionEntryNode(manifests, defs)
	if err != nil {
		return nil, err
	}
	defs[defPermissionEntry] = entry

	return &Document{
		Schema:      Draft,
		Title:       "CapabilityFile",
		Description: "Capability formats accepted in a capability file.",
		AnyOf: []Node{
			Ref{defCapability},
			ArrayOf{Items: Ref{defCapability}, Description: "A list of capabilities."},
			Object{
				Description: "An object mapping a capability list.",
				Properties:  map[string]Node{"capabilities": ArrayOf{Items: Ref{defCapability}}},
				Required:    []string{"capabilities"},
			},
		},
		Defs: defs,
	}, nil
}

// identifierNode builds the Identifier definition. The metaschema requires
// a non-empty oneOf, so with no compiled namespaces the definition rejects
// every instance instead of enumerating nothing; the schema still compiles
// and validation of the zero-namespace build proceeds.
func identifierNode(manifests map[string]*manifest.Manifest) Node {
	branches := identifierBranches(manifests)
	if len(branches) == 0 {
		return Never{}
	}
	return OneOf{
		Description: "Permission identifier",
		Branches:    branches,
	}
}

// branch synthesizes one enumeration branch for an identifier owned by a
// namespace, labeled "id -> description" when a description exists.
func branch(namespace, base, description string) Node {
	id := acl.CanonicalID(namespace, base)
	label := ""
	if description != "" {
		label = id + " -> " + description
	}
	return StringEnum{Value: id, Description: label}
}

// identifierBranches enumerates every namespace in lexicographic order;
// within a namespace: permission sets, the default permission, then
// permissions, each group sorted by identifier. The default branch is always
// present because `default` is a valid reference target whether or not it is
// materialized.
func identifierBranches(manifests map[string]*manifest.Manifest) []Node {
	var branches []Node
	for _, ns := range sortedKeys(manifests) {
		m := manifests[ns]
		for _, id := range sortedKeys(m.PermissionSets) {
			branches = append(branches, branch(ns, id, m.PermissionSets[id].Description))
		}
		branches = append(branches, branch(ns, acl.DefaultIdentifier, defaultDescription(m)))
		for _, id := range sortedKeys(m.Permissions) {
			branches = append(branches, branch(ns, id, m.Permissions[id].Description))
		}
	}
	return branches
}

// namespaceIdentifierBranches is the single-namespace enumeration used by
// scoped permission-entry branches: default, then sets, then permissions.
func namespaceIdentifierBranches(ns string, m *manifest.Manifest) []Node {
	branches := []Node{branch(ns, acl.DefaultIdentifier, defaultDescription(m))}
	for _, id := range sortedKeys(m.PermissionSets) {
		branches = append(branches, branch(ns, id, m.PermissionSets[id].Description))
	}
	for _, id := range sortedKeys(m.Permissions) {
		branches = append(branches, branch(ns, id, m.Permissions[id].Description))
	}
	return branches
}

func defaultDescription(m *manifest.Manifest) string {
	if m.DefaultPermission == nil {
		return ""
	}
	return m.DefaultPermission.Description
}

// permissionEntryNode builds the PermissionEntry definition: a bare
// identifier reference, or the extended scoped form. When at least one
// namespace declares a global scope schema the extended form becomes a
// oneOf discriminated on the namespace's own identifier enumeration, with
// allow/deny typed as arrays of that namespace's scope-item schema. Nested
// definitions of a scope schema are hoisted into defs so references resolve.
func permissionEntryNode(manifests map[string]*manifest.Manifest, defs map[string]Node) (Node, error) {
	var scoped []Node
	for _, ns := range sortedKeys(manifests) {
		m := manifests[ns]
		if len(m.GlobalScopeSchema) == 0 {
			continue
		}

		item, err := scopeItemSchema(ns, m.GlobalScopeSchema, defs)
		if err != nil {
			return nil, err
		}

		scoped = append(scoped, Object{
			Properties: map[string]Node{
				"identifier": OneOf{Branches: namespaceIdentifierBranches(ns, m)},
				"allow":      ArrayOf{Items: item, Description: "Data that defines what is allowed by the scope."},
				"deny":       ArrayOf{Items: item, Description: "Data that defines what is denied by the scope."},
			},
			Required: []string{"identifier"},
		})
	}

	extended := extendedEntryNode(scoped)

	return AnyOf{
		Description: "An entry for a permission value in a capability permissions array: either an identifier or an object with the identifier and scope values.",
		Branches:    []Node{Ref{defIdentifier}, extended},
	}, nil
}

// extendedEntryNode keeps the structurally unconstrained scoped form when no
// namespace declares a scope shape, since there is nothing to discriminate on.
func extendedEntryNode(scoped []Node) Node {
	description := "Reference a permission or permission set with additional scope configuration."
	if len(scoped) == 0 {
		return Object{
			Description: description,
			Properties: map[string]Node{
				"identifier": Ref{defIdentifier},
				"allow":      ArrayOf{Items: Any{}, Description: "Data that defines what is allowed by the scope."},
				"deny":       ArrayOf{Items: Any{}, Description: "Data that defines what is denied by the scope."},
			},
			Required: []string{"identifier"},
		}
	}
	return OneOf{Description: description, Branches: scoped}
}

// scopeItemSchema validates a namespace's global scope schema, hoists its
// nested definitions into the top-level table, and returns the remaining
// root as the scope item schema. Hoisted definitions live under the
// document's $defs, so draft-07 style "#/definitions/" references are
// repointed to "#/$defs/" before the schema is split.
func scopeItemSchema(ns string, raw json.RawMessage, defs map[string]Node) (Node, error) {
	if _, err := compileSchema(ns+".scope.schema.json", raw); err != nil {
		return nil, fmt.Errorf("invalid global scope schema for namespace %q: %w", ns, err)
	}

	raw = bytes.ReplaceAll(raw, []byte(`"#/definitions/`), []byte(`"#/$defs/`))

	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("decode global scope schema for namespace %q: %w", ns, err)
	}

	for _, table := range []string{"$defs", "definitions"} {
		nested, ok := root[table]
		if !ok {
			continue
		}
		delete(root, table)
		var hoisted map[string]json.RawMessage
		if err := json.Unmarshal(nested, &hoisted); err != nil {
			return nil, fmt.Errorf("decode %s of global scope schema for namespace %q: %w", table, ns, err)
		}
		for _, name := range sortedKeys(hoisted) {
			if _, exists := defs[name]; exists || name == defPermissionEntry {
				return nil, fmt.Errorf("global scope schema for namespace %q defines %q, which collides with another schema definition", ns, name)
			}
			defs[name] = Raw(hoisted[name])
		}
	}
	delete(root, "$schema")

	item, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	return Raw(item), nil
}

func capabilityNode() Node {
	platforms := make([]string, 0, len(acl.Targets()))
	for _, t := range acl.Targets() {
		platforms = append(platforms, t.String())
	}

	return Object{
		Description: "A grant of permissions to part of the application, optionally restricted to a set of target platforms.",
		Properties: map[string]Node{
			"identifier":  Str{Description: "Identifier of the capability, unique per build."},
			"description": Str{Description: "Human-readable description of what the capability grants."},
			"local":       Bool{Description: "Whether the capability applies to local application surfaces."},
			"remote": Object{
				Description: "Remote origins this capability extends to.",
				Properties:  map[string]Node{"urls": ArrayOf{Items: Str{}}},
				Required:    []string{"urls"},
			},
			"platforms": ArrayOf{
				Items:       Enum{Values: platforms},
				Description: "Target platforms this capability applies to. Applies to all platforms when omitted.",
			},
			"permissions": ArrayOf{Items: Ref{defPermissionEntry}, Description: "Permissions granted by this capability."},
		},
		Required: []string{"identifier", "permissions"},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
