// Package schema synthesizes the capability-file JSON schema from the
// compiled manifest set. Nodes form a small typed algebra constructed
// functionally and flattened to the wire format only at serialization time,
// so synthesis is unit-testable node by node and free of order-dependent
// mutation.
package schema

import "encoding/json"

// Node is one schema tree fragment. Every variant controls its own wire
// representation through MarshalJSON.
type Node interface {
	json.Marshaler
}

// StringEnum is a single-value string enumeration branch. The description is
// documentation metadata, not a validation constraint.
type StringEnum struct {
	Value       string
	Description string
}

func (n StringEnum) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string   `json:"description,omitempty"`
		Type        string   `json:"type"`
		Enum        []string `json:"enum"`
	}{n.Description, "string", []string{n.Value}})
}

// Enum is a closed multi-value string enumeration.
type Enum struct {
	Values      []string
	Description string
}

func (n Enum) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string   `json:"description,omitempty"`
		Type        string   `json:"type"`
		Enum        []string `json:"enum"`
	}{n.Description, "string", n.Values})
}

// OneOf matches exactly one of its branches.
type OneOf struct {
	Branches    []Node
	Description string
}

func (n OneOf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string `json:"description,omitempty"`
		OneOf       []Node `json:"oneOf"`
	}{n.Description, n.Branches})
}

// AnyOf matches at least one of its branches.
type AnyOf struct {
	Branches    []Node
	Description string
}

func (n AnyOf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string `json:"description,omitempty"`
		AnyOf       []Node `json:"anyOf"`
	}{n.Description, n.Branches})
}

// Object is an object schema with typed properties. Properties marshal in
// lexicographic key order.
type Object struct {
	Properties  map[string]Node
	Required    []string
	Description string
}

func (n Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string          `json:"description,omitempty"`
		Type        string          `json:"type"`
		Required    []string        `json:"required,omitempty"`
		Properties  map[string]Node `json:"properties,omitempty"`
	}{n.Description, "object", n.Required, n.Properties})
}

// ArrayOf is an array schema with a fixed item schema.
type ArrayOf struct {
	Items       Node
	Description string
}

func (n ArrayOf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string `json:"description,omitempty"`
		Type        string `json:"type"`
		Items       Node   `json:"items"`
	}{n.Description, "array", n.Items})
}

// Ref references a definition in the document's $defs table.
type Ref struct {
	Name string
}

func (n Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Ref string `json:"$ref"`
	}{"#/$defs/" + n.Name})
}

// Str is an unconstrained string schema.
type Str struct {
	Description string
}

func (n Str) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string `json:"description,omitempty"`
		Type        string `json:"type"`
	}{n.Description, "string"})
}

// Bool is a boolean schema.
type Bool struct {
	Description string
}

func (n Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string `json:"description,omitempty"`
		Type        string `json:"type"`
	}{n.Description, "boolean"})
}

// Any accepts every instance.
type Any struct{}

func (Any) MarshalJSON() ([]byte, error) { return []byte("true"), nil }

// Never rejects every instance.
type Never struct{}

func (Never) MarshalJSON() ([]byte, error) { return []byte("false"), nil }

// Raw embeds a pre-serialized schema fragment verbatim, used for
// namespace-supplied global scope schemas and their hoisted definitions.
type Raw json.RawMessage

func (n Raw) MarshalJSON() ([]byte, error) {
	if len(n) == 0 {
		return []byte("true"), nil
	}
	return json.RawMessage(n).MarshalJSON()
}
