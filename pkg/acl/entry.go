package acl

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// PermissionEntry is one permission reference inside a capability: either a
// bare identifier string, or the extended form carrying scope values whose
// shape belongs to the referenced namespace.
type PermissionEntry struct {
	Identifier string
	Allow      []any
	Deny       []any
}

// IsExtended reports whether the entry carries scope values.
func (e PermissionEntry) IsExtended() bool {
	return len(e.Allow) > 0 || len(e.Deny) > 0
}

type permissionEntryObject struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Allow      []any  `json:"allow,omitempty" yaml:"allow"`
	Deny       []any  `json:"deny,omitempty" yaml:"deny"`
}

// MarshalJSON keeps bare references bare so serialized capabilities stay
// byte-stable against their source form.
func (e PermissionEntry) MarshalJSON() ([]byte, error) {
	if !e.IsExtended() {
		return json.Marshal(e.Identifier)
	}
	return json.Marshal(permissionEntryObject{Identifier: e.Identifier, Allow: e.Allow, Deny: e.Deny})
}

func (e *PermissionEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Identifier)
	}
	var obj permissionEntryObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Identifier == "" {
		return fmt.Errorf("permission entry object is missing an identifier")
	}
	e.Identifier, e.Allow, e.Deny = obj.Identifier, obj.Allow, obj.Deny
	return nil
}

func (e *PermissionEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&e.Identifier)
	}
	var obj permissionEntryObject
	if err := value.Decode(&obj); err != nil {
		return err
	}
	if obj.Identifier == "" {
		return fmt.Errorf("permission entry object is missing an identifier")
	}
	e.Identifier, e.Allow, e.Deny = obj.Identifier, obj.Allow, obj.Deny
	return nil
}

// UnmarshalTOML accepts the decoded TOML value: a string or a table.
func (e *PermissionEntry) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case string:
		e.Identifier = t
		return nil
	case map[string]any:
		id, _ := t["identifier"].(string)
		if id == "" {
			return fmt.Errorf("permission entry table is missing an identifier")
		}
		e.Identifier = id
		e.Allow = asSlice(t["allow"])
		e.Deny = asSlice(t["deny"])
		return nil
	}
	return fmt.Errorf("permission entry must be a string or a table, got %T", v)
}

func asSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	default:
		return []any{t}
	}
}
