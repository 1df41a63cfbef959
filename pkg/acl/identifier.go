package acl

import "strings"

// Identifier is a parsed permission reference of the form `namespace:base`
// or bare `base`. A bare reference always resolves to the application
// namespace, never to any ambient context.
type Identifier struct {
	Namespace string
	Base      string
}

// ParseIdentifier splits a reference on the first colon. The namespace of a
// bare reference is AppNamespace.
func ParseIdentifier(raw string) Identifier {
	if ns, base, ok := strings.Cut(raw, ":"); ok {
		return Identifier{Namespace: ns, Base: base}
	}
	return Identifier{Namespace: AppNamespace, Base: raw}
}

// String renders the canonical form: bare for the application namespace,
// prefixed otherwise.
func (id Identifier) String() string {
	if id.Namespace == AppNamespace {
		return id.Base
	}
	return id.Namespace + ":" + id.Base
}

// CanonicalID renders the canonical reference string for an identifier owned
// by the given namespace.
func CanonicalID(namespace, base string) string {
	return Identifier{Namespace: namespace, Base: base}.String()
}
