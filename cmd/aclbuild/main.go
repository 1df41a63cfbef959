// Command aclbuild compiles and validates the application's ACL: it reads
// permission definitions and capability declarations, assembles per-namespace
// manifests, synthesizes the capability schema for the build target and
// writes all artifacts, failing the build on the first policy violation.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/CodeEditorLand/tauri/pkg/acl"
	"github.com/CodeEditorLand/tauri/pkg/build"
)

func main() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run is the entrypoint, split from main for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("aclbuild", flag.ContinueOnError)
	flags.SetOutput(stderr)

	permissionsDir := flags.String("permissions", envOr("PERMISSIONS_DIR", "permissions"), "directory holding per-namespace permission definitions")
	capabilitiesDir := flags.String("capabilities", envOr("CAPABILITIES_DIR", "capabilities"), "directory holding capability declarations")
	outDir := flags.String("out", envOr("OUT_DIR", "gen/schemas"), "output directory for compiled artifacts")
	triple := flags.String("target", os.Getenv("TARGET"), "target triple of the build (or a platform name)")
	logLevel := flags.String("log-level", envOr("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	strict := flags.Bool("strict", false, "additionally validate capabilities against the synthesized schema")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)})).
		With("build_id", uuid.NewString())

	target, err := resolveTarget(*triple)
	if err != nil {
		logger.Error("invalid build target", "error", err)
		return 2
	}

	pipeline := &build.Pipeline{
		Discovery: &build.FSDiscovery{
			PermissionsDir:  *permissionsDir,
			CapabilitiesDir: *capabilitiesDir,
		},
		Target:       target,
		OutDir:       *outDir,
		StrictSchema: *strict,
		Logger:       logger,
	}

	result, err := pipeline.Run()
	if err != nil {
		logger.Error("acl build failed", "error", err)
		return 1
	}

	for _, path := range result.Written {
		fmt.Fprintln(stdout, path)
	}
	return 0
}

// resolveTarget accepts either a full target triple or a bare platform name;
// an empty value defaults to the host platform of the build machine.
func resolveTarget(s string) (acl.Target, error) {
	if s == "" {
		return hostTarget(), nil
	}
	if !strings.Contains(s, "-") {
		return acl.ParseTarget(s)
	}
	return acl.TargetFromTriple(s)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
