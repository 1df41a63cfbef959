package acl

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target is a build target platform.
type Target string

const (
	TargetLinux   Target = "linux"
	TargetMacOS   Target = "macos"
	TargetWindows Target = "windows"
	TargetAndroid Target = "android"
	TargetIOS     Target = "ios"
)

// Targets lists all known platforms in canonical order.
func Targets() []Target {
	return []Target{TargetLinux, TargetMacOS, TargetWindows, TargetAndroid, TargetIOS}
}

// ParseTarget parses a platform name case-insensitively ("macOS", "iOS" and
// "darwin" spellings included).
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "linux":
		return TargetLinux, nil
	case "macos", "darwin":
		return TargetMacOS, nil
	case "windows":
		return TargetWindows, nil
	case "android":
		return TargetAndroid, nil
	case "ios":
		return TargetIOS, nil
	}
	return "", fmt.Errorf("unknown target platform %q", s)
}

// TargetFromTriple derives the platform from a target triple such as
// x86_64-unknown-linux-gnu or aarch64-apple-ios.
func TargetFromTriple(triple string) (Target, error) {
	parts := strings.Split(triple, "-")
	for _, candidate := range []string{"ios", "android", "androideabi", "darwin", "windows", "linux"} {
		for _, p := range parts {
			if p != candidate {
				continue
			}
			switch candidate {
			case "androideabi":
				return TargetAndroid, nil
			case "darwin":
				return TargetMacOS, nil
			default:
				return ParseTarget(candidate)
			}
		}
	}
	return "", fmt.Errorf("cannot determine target platform from triple %q", triple)
}

// IsDesktop reports whether the target belongs to the desktop platform class.
func (t Target) IsDesktop() bool {
	return t == TargetLinux || t == TargetMacOS || t == TargetWindows
}

// IsMobile reports whether the target belongs to the mobile platform class.
func (t Target) IsMobile() bool {
	return t == TargetAndroid || t == TargetIOS
}

// PlatformClass is "desktop" or "mobile"; it selects the class-level schema
// file name.
func (t Target) PlatformClass() string {
	if t.IsMobile() {
		return "mobile"
	}
	return "desktop"
}

func (t Target) String() string { return string(t) }

// UnmarshalText accepts any case variant of a platform name. Used by the
// JSON and TOML decoders.
func (t *Target) UnmarshalText(data []byte) error {
	parsed, err := ParseTarget(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText renders the canonical lowercase name.
func (t Target) MarshalText() ([]byte, error) { return []byte(t), nil }

// UnmarshalYAML decodes a scalar platform name. yaml.v3 does not consult
// encoding.TextUnmarshaler, so the hook is explicit.
func (t *Target) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}
