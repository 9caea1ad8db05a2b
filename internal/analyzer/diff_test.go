// internal/analyzer/diff_test.go
package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiff_GitFormat(t *testing.T) {
	diff := `diff --git a/cmd/main.go b/cmd/main.go
index 83db48f..bf269f4 100644
--- a/cmd/main.go
+++ b/cmd/main.go
@@ -3,4 +3,5 @@ import (
 	"fmt"
-	"log"
+	"log/slog"
+	"os"
 )

diff --git a/README.md b/README.md
new file mode 100644
--- /dev/null
+++ b/README.md
@@ -0,0 +1,2 @@
+# Title
+body
\ No newline at end of file
`
	files := ParseDiff(diff)
	require.Len(t, files, 2)

	assert.Equal(t, "cmd/main.go", files[0].Path)
	assert.Equal(t, 1, files[0].Hunks)
	assert.Equal(t, []string{"\t\"log/slog\"", "\t\"os\""}, files[0].Added)
	assert.Equal(t, []string{"\t\"log\""}, files[0].Removed)
	assert.Len(t, files[0].Blocks, 1)

	assert.Equal(t, "README.md", files[1].Path)
	assert.Equal(t, []string{"# Title", "body"}, files[1].Added)
}

func TestParseDiff_HeaderOnlyPatches(t *testing.T) {
	diff := `--- a/a.txt
+++ b/a.txt
@@ -1 +1 @@
-old
+new
--- a/b.txt
+++ b/b.txt
@@ -1,2 +1,2 @@
 same
-gone
+here
`
	files := ParseDiff(diff)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Path)
	assert.Equal(t, []string{"new"}, files[0].Added)
	assert.Equal(t, "b.txt", files[1].Path)
	assert.Equal(t, []string{"here"}, files[1].Added)
	assert.Equal(t, []string{"gone"}, files[1].Removed)
}

func TestParseDiff_BareHunk(t *testing.T) {
	files := ParseDiff("@@ -1,0 +1,2 @@\n+one\n+two\n")
	require.Len(t, files, 1)
	assert.Equal(t, "", files[0].Path)
	assert.Equal(t, []string{"one", "two"}, files[0].Added)
}

func TestParseDiff_AddedLinesThatLookLikeHeaders(t *testing.T) {
	diff := "diff --git a/notes.md b/notes.md\n@@ -1,0 +1,2 @@\n+++ not a header\n+--- still content\n"
	files := ParseDiff(diff)
	require.Len(t, files, 1)
	assert.Equal(t, []string{"++ not a header", "--- still content"}, files[0].Added)
}

func TestParseDiff_BlocksSplitOnContext(t *testing.T) {
	diff := "diff --git a/x.go b/x.go\n@@ -1,3 +1,5 @@\n+a\n+b\n ctx\n-old\n+c\n ctx2\n"
	files := ParseDiff(diff)
	require.Len(t, files, 1)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, files[0].Blocks)
}

func TestParseDiff_NoHunks(t *testing.T) {
	assert.Empty(t, ParseDiff(""))
	assert.Empty(t, ParseDiff("Diff content is not available from this provider."))
}

func TestIsExcludedPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"package-lock.json", true},
		{"frontend/yarn.lock", true},
		{"go.sum", true},
		{"web/node_modules/react/index.js", true},
		{"dist/app.js", true},
		{"static/js/app.min.js", true},
		{"api/v1/service.pb.go", true},
		{"vendor/github.com/pkg/errors/errors.go", true},
		{"internal/syncer/syncer.go", false},
		{"pkg/buildinfo/version.go", false},
		{"README.md", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExcludedPath(tt.path))
		})
	}
}
