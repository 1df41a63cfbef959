// Package acl defines the access-control-list data model: permissions,
// permission sets, capabilities and the identifier/platform grammar used to
// reference them. Parsing and command autogeneration live here too; manifest
// assembly, schema synthesis and validation build on top of this package.
package acl

// AppNamespace is the reserved namespace of the application itself.
// Authors reference it with a bare (unprefixed) identifier.
const AppNamespace = "__app__"

// CoreNamespace is the namespace of the base runtime. Its `default`
// permission is always a valid reference target.
const CoreNamespace = "core"

// DefaultIdentifier is the reserved identifier of a namespace's default
// permission.
const DefaultIdentifier = "default"

// Commands bundles the command names a permission allows and denies.
type Commands struct {
	Allow []string `json:"allow,omitempty" toml:"allow" yaml:"allow"`
	Deny  []string `json:"deny,omitempty" toml:"deny" yaml:"deny"`
}

// Scopes holds the namespace-specific scope values attached to a permission.
// The shape of each value is defined by the owning namespace's global scope
// schema; this package carries them opaquely.
type Scopes struct {
	Allow []any `json:"allow,omitempty" toml:"allow" yaml:"allow"`
	Deny  []any `json:"deny,omitempty" toml:"deny" yaml:"deny"`
}

// Permission is the smallest grantable unit.
type Permission struct {
	Identifier  string   `json:"identifier" toml:"identifier" yaml:"identifier"`
	Description string   `json:"description,omitempty" toml:"description" yaml:"description"`
	Commands    Commands `json:"commands" toml:"commands" yaml:"commands"`
	Scopes      *Scopes  `json:"scope,omitempty" toml:"scope" yaml:"scope"`
}

// PermissionSet is a named group of permission identifiers. Members reference
// permissions of the same namespace; sets never nest.
type PermissionSet struct {
	Identifier  string   `json:"identifier" toml:"identifier" yaml:"identifier"`
	Description string   `json:"description" toml:"description" yaml:"description"`
	Permissions []string `json:"permissions" toml:"permissions" yaml:"permissions"`
}

// DefaultPermission is the at-most-one-per-namespace default grant. Its
// identifier is fixed to "default"; the parser rejects any other value and
// the builder always materializes it explicitly.
type DefaultPermission struct {
	Identifier  string   `json:"identifier" toml:"identifier" yaml:"identifier"`
	Description string   `json:"description,omitempty" toml:"description" yaml:"description"`
	Permissions []string `json:"permissions" toml:"permissions" yaml:"permissions"`
}

// PermissionFile is one parsed permission-definition document.
type PermissionFile struct {
	Default     *DefaultPermission `json:"default,omitempty" toml:"default" yaml:"default"`
	Sets        []PermissionSet    `json:"set,omitempty" toml:"set" yaml:"set"`
	Permissions []Permission       `json:"permission,omitempty" toml:"permission" yaml:"permission"`
}

// CapabilityRemote configures remote origins a capability extends to.
type CapabilityRemote struct {
	URLs []string `json:"urls" toml:"urls" yaml:"urls"`
}

// Capability grants a bundle of permission references to part of the
// application, optionally restricted to a set of target platforms.
type Capability struct {
	Identifier  string            `json:"identifier" toml:"identifier" yaml:"identifier"`
	Description string            `json:"description,omitempty" toml:"description" yaml:"description"`
	Local       bool              `json:"local" toml:"local" yaml:"local"`
	Remote      *CapabilityRemote `json:"remote,omitempty" toml:"remote" yaml:"remote"`
	Platforms   []Target          `json:"platforms,omitempty" toml:"platforms" yaml:"platforms"`
	Permissions []PermissionEntry `json:"permissions" toml:"permissions" yaml:"permissions"`
}

// HasPlatform reports whether the capability applies to the given target.
// A capability without a platform allow-list applies everywhere.
func (c *Capability) HasPlatform(target Target) bool {
	if len(c.Platforms) == 0 {
		return true
	}
	for _, p := range c.Platforms {
		if p == target {
			return true
		}
	}
	return false
}
