package manifest

import (
	"fmt"

	"github.com/CodeEditorLand/tauri/pkg/acl"
)

// DefaultPermissionRule selects which autogenerated permissions form a
// namespace's default permission.
type DefaultPermissionRule struct {
	allowAll bool
	allow    []string
}

// AllowAllCommands grants every autogenerated allow-* permission by default.
func AllowAllCommands() DefaultPermissionRule {
	return DefaultPermissionRule{allowAll: true}
}

// Allow grants exactly the given permission identifiers by default. The
// identifiers refer to permissions, not command names: a command `execute`
// is allowed as `allow-execute`.
func Allow(permissions ...string) DefaultPermissionRule {
	return DefaultPermissionRule{allow: permissions}
}

// Resolve materializes the rule against the autogenerated identifier
// partition. Explicit allow-lists must be drawn from the generated
// identifiers.
func (r DefaultPermissionRule) Resolve(generated acl.Autogenerated) (*acl.DefaultPermission, error) {
	var members []string
	if r.allowAll {
		members = append(members, generated.Allowed...)
	} else {
		known := make(map[string]struct{}, len(generated.Allowed)+len(generated.Denied))
		for _, id := range generated.Allowed {
			known[id] = struct{}{}
		}
		for _, id := range generated.Denied {
			known[id] = struct{}{}
		}
		for _, id := range r.allow {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("default permission references %q which is not an autogenerated permission", id)
			}
			members = append(members, id)
		}
	}

	return &acl.DefaultPermission{
		Identifier:  acl.DefaultIdentifier,
		Description: "Default permissions for the plugin.",
		Permissions: members,
	}, nil
}
