package acl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodeEditorLand/tauri/pkg/acl"
)

func TestParseIdentifier(t *testing.T) {
	id := acl.ParseIdentifier("fs:read-file")
	assert.Equal(t, "fs", id.Namespace)
	assert.Equal(t, "read-file", id.Base)
	assert.Equal(t, "fs:read-file", id.String())

	// A bare identifier always resolves to the application namespace,
	// never to any ambient context.
	bare := acl.ParseIdentifier("allow-ping")
	assert.Equal(t, acl.AppNamespace, bare.Namespace)
	assert.Equal(t, "allow-ping", bare.Base)
	assert.Equal(t, "allow-ping", bare.String())
}

func TestParseIdentifier_SplitsOnFirstColon(t *testing.T) {
	id := acl.ParseIdentifier("fs:scope:home")
	assert.Equal(t, "fs", id.Namespace)
	assert.Equal(t, "scope:home", id.Base)
}

func TestCanonicalID(t *testing.T) {
	assert.Equal(t, "allow-ping", acl.CanonicalID(acl.AppNamespace, "allow-ping"))
	assert.Equal(t, "fs:default", acl.CanonicalID("fs", "default"))
}
