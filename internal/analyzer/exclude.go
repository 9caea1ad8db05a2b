// internal/analyzer/exclude.go
package analyzer

import (
	"path"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

var lockfiles = map[string]bool{
	"package-lock.json":   true,
	"npm-shrinkwrap.json": true,
	"yarn.lock":           true,
	"pnpm-lock.yaml":      true,
	"bun.lockb":           true,
	"go.sum":              true,
	"cargo.lock":          true,
	"composer.lock":       true,
	"gemfile.lock":        true,
	"poetry.lock":         true,
	"pipfile.lock":        true,
	"podfile.lock":        true,
	"packages.lock.json":  true,
	"mix.lock":            true,
	"pubspec.lock":        true,
}

var buildDirs = []string{
	"node_modules/", "vendor/", "dist/", "build/", "out/", "target/", "bin/", "obj/",
	".next/", ".nuxt/", "coverage/", "__pycache__/", ".gradle/",
}

var generatedSuffixes = []string{
	".min.js", ".min.css", ".map", ".pb.go", "_pb2.py", ".g.dart", ".designer.cs",
	"_generated.go", ".generated.ts", ".pyc", ".class", ".dll", ".exe", ".so",
}

// IsExcludedPath reports whether a file is a lockfile, build output, vendored dependency or
// generated code, none of which should count toward real churn.
func IsExcludedPath(filename string) bool {
	p := strings.ToLower(strings.TrimPrefix(filename, "/"))
	if p == "" {
		return false
	}

	if lockfiles[path.Base(p)] {
		return true
	}
	for _, dir := range buildDirs {
		if strings.HasPrefix(p, dir) || strings.Contains(p, "/"+dir) {
			return true
		}
	}
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}

	return enry.IsVendor(filename) || enry.IsGenerated(filename, nil)
}
