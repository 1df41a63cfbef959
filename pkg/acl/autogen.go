package acl

import "fmt"

// Autogenerated partitions the identifiers produced by
// AutogenerateCommandPermissions for default-rule resolution.
type Autogenerated struct {
	Allowed []string
	Denied  []string
}

// AutogenerateCommandPermissions derives an allow-<command> / deny-<command>
// permission pair for every command accepted by the inclusion predicate
// (nil accepts all). Command order is preserved so generated output is
// byte-stable across builds.
func AutogenerateCommandPermissions(commands []string, include func(string) bool) ([]Permission, Autogenerated) {
	permissions := make([]Permission, 0, 2*len(commands))
	var generated Autogenerated

	for _, command := range commands {
		if include != nil && !include(command) {
			continue
		}

		allowed := "allow-" + command
		denied := "deny-" + command

		permissions = append(permissions,
			Permission{
				Identifier:  allowed,
				Description: fmt.Sprintf("Enables the %s command without any pre-configured scope.", command),
				Commands:    Commands{Allow: []string{command}},
			},
			Permission{
				Identifier:  denied,
				Description: fmt.Sprintf("Denies the %s command without any pre-configured scope.", command),
				Commands:    Commands{Deny: []string{command}},
			},
		)
		generated.Allowed = append(generated.Allowed, allowed)
		generated.Denied = append(generated.Denied, denied)
	}

	return permissions, generated
}
