package acl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies a document encoding, derived from the file extension.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat maps a file path to its document format. JSON5/JSONC
// extensions map to FormatJSON; the decoder strips comments.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json", ".json5", ".jsonc":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
}

func decode(format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(jsonc.ToJSON(data), v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("unknown format %q", format)
}

// ParsePermissionFile parses one permission-definition document. The format
// is derived from the path extension. A `default` entry whose identifier
// field is present but not literally "default" is rejected.
func ParsePermissionFile(path string, data []byte) (PermissionFile, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return PermissionFile{}, &ParseError{Path: path, Message: "permission file", Err: err}
	}

	var file PermissionFile
	if err := decode(format, data, &file); err != nil {
		return PermissionFile{}, &ParseError{Path: path, Message: "malformed permission file", Err: err}
	}

	if file.Default != nil {
		switch file.Default.Identifier {
		case "":
			file.Default.Identifier = DefaultIdentifier
		case DefaultIdentifier:
		default:
			return PermissionFile{}, &ParseError{
				Path:    path,
				Message: fmt.Sprintf("default permission identifier must be %q, got %q", DefaultIdentifier, file.Default.Identifier),
			}
		}
	}
	for _, p := range file.Permissions {
		if p.Identifier == "" {
			return PermissionFile{}, &ParseError{Path: path, Message: "permission is missing an identifier"}
		}
	}
	for _, s := range file.Sets {
		if s.Identifier == "" {
			return PermissionFile{}, &ParseError{Path: path, Message: "permission set is missing an identifier"}
		}
		if len(s.Permissions) == 0 {
			return PermissionFile{}, &ParseError{Path: path, Message: fmt.Sprintf("permission set %q has no members", s.Identifier)}
		}
	}

	return file, nil
}

type capabilityFile struct {
	Capabilities []Capability `json:"capabilities" toml:"capabilities" yaml:"capabilities"`
}

// ParseCapabilityFile parses one capability document. A document may hold a
// single capability object, an object with a `capabilities` list, or (for
// JSON and YAML) a bare list.
func ParseCapabilityFile(path string, data []byte) ([]Capability, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &ParseError{Path: path, Message: "capability file", Err: err}
	}

	caps, err := parseCapabilities(format, data)
	if err != nil {
		return nil, &ParseError{Path: path, Message: "malformed capability file", Err: err}
	}
	for i := range caps {
		if caps[i].Identifier == "" {
			return nil, &ParseError{Path: path, Message: "capability is missing an identifier"}
		}
	}
	return caps, nil
}

func parseCapabilities(format Format, data []byte) ([]Capability, error) {
	if format == FormatJSON {
		data = jsonc.ToJSON(data)
	}

	if isList(format, data) {
		var caps []Capability
		if err := decodeDirect(format, data, &caps); err != nil {
			return nil, err
		}
		return caps, nil
	}

	var wrapper capabilityFile
	if err := decodeDirect(format, data, &wrapper); err == nil && wrapper.Capabilities != nil {
		return wrapper.Capabilities, nil
	}

	var single Capability
	if err := decodeDirect(format, data, &single); err != nil {
		return nil, err
	}
	return []Capability{single}, nil
}

// decodeDirect is decode without re-running the JSONC comment stripper.
func decodeDirect(format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("unknown format %q", format)
}

func isList(format Format, data []byte) bool {
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		return len(trimmed) > 0 && trimmed[0] == '['
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
			return false
		}
		return doc.Content[0].Kind == yaml.SequenceNode
	}
	return false
}
