package main

import (
	"runtime"

	"github.com/CodeEditorLand/tauri/pkg/acl"
)

// hostTarget maps the build machine's OS to a target platform, used when no
// explicit target is configured.
func hostTarget() acl.Target {
	switch runtime.GOOS {
	case "darwin":
		return acl.TargetMacOS
	case "windows":
		return acl.TargetWindows
	case "android":
		return acl.TargetAndroid
	case "ios":
		return acl.TargetIOS
	default:
		return acl.TargetLinux
	}
}
