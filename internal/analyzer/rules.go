// internal/analyzer/rules.go
package analyzer

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var vagueMessages = map[string]bool{
	"fix": true, "fixes": true, "fixed": true, "fix bug": true, "bug fix": true, "bugfix": true,
	"small fix": true, "minor fix": true, "quick fix": true, "wip": true, "update": true,
	"updates": true, "updated": true, "misc": true, "change": true, "changes": true,
	"minor changes": true, "stuff": true, "tmp": true, "temp": true, "test": true, "cleanup": true,
	"typo": true, "oops": true, "asdf": true, "commit": true, "save": true, "progress": true,
	"more": true, "tweak": true, "tweaks": true,
}

var repeatedPunctuation = regexp.MustCompile(`^[[:punct:]]{2,}$`)

// vagueReason returns why a first message line is low-information, or "" when it is not.
func vagueReason(firstLine string) string {
	msg := strings.TrimSpace(firstLine)
	switch {
	case len([]rune(msg)) < VagueMessageMinLength:
		return "short_message"
	case repeatedPunctuation.MatchString(msg):
		return "repeated_punctuation"
	case vagueMessages[strings.TrimRight(strings.ToLower(msg), ".!:; ")]:
		return "generic_message"
	case !strings.ContainsAny(msg, " \t") && len([]rune(msg)) < SingleWordMaxLength:
		return "single_word"
	}
	return ""
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}

func smallVagueRule(c *commitContext) (Flag, bool) {
	changed := c.in.linesChanged()
	if changed >= SmallCommitMaxLines {
		return Flag{}, false
	}
	first := firstLine(c.in.Message)
	reason := vagueReason(first)
	if reason == "" {
		return Flag{}, false
	}
	return Flag{Type: FlagSmallVague, Details: map[string]any{
		"lines_changed": changed,
		"message":       strings.TrimSpace(first),
		"reason":        reason,
	}}, true
}

func largeRule(c *commitContext) (Flag, bool) {
	changed := c.in.linesChanged()
	if changed <= LargeCommitLines && c.in.FilesChanged <= LargeCommitFiles {
		return Flag{}, false
	}
	return Flag{Type: FlagLarge, Details: map[string]any{
		"lines_changed":   changed,
		"files_changed":   c.in.FilesChanged,
		"threshold_lines": LargeCommitLines,
		"threshold_files": LargeCommitFiles,
	}}, true
}

var configExtensions = map[string]bool{
	".json": true, ".xml": true, ".yml": true, ".yaml": true, ".toml": true, ".ini": true,
	".env": true, ".cfg": true, ".conf": true, ".config": true, ".properties": true,
	".plist": true, ".editorconfig": true,
}

func isConfigFile(name string) bool {
	base := strings.ToLower(path.Base(name))
	if strings.HasPrefix(base, ".env") {
		return true
	}
	return configExtensions[path.Ext(base)]
}

// touchedFiles prefers the file list from commit details and falls back to the diff.
func (c *commitContext) touchedFiles() []string {
	if len(c.in.Files) > 0 {
		return c.in.Files
	}
	var names []string
	for _, f := range c.files {
		if f.Path != "" {
			names = append(names, f.Path)
		}
	}
	return names
}

func configOnlyRule(c *commitContext) (Flag, bool) {
	files := c.touchedFiles()
	if len(files) == 0 {
		return Flag{}, false
	}
	for _, f := range files {
		if !isConfigFile(f) {
			return Flag{}, false
		}
	}
	return Flag{Type: FlagConfigOnly, Details: map[string]any{"files": len(files)}}, true
}

var commentPrefixes = []string{"//", "/*", "*/", "<!--", "-->", `"""`, "'''"}

// Markers that only mean a comment in some languages, keyed by lower-case extension.
var (
	preprocessorExts = map[string]bool{
		".c": true, ".h": true, ".cc": true, ".cpp": true, ".cxx": true, ".hpp": true, ".hh": true,
		".m": true, ".mm": true, ".cs": true,
	}
	dashCommentExts    = map[string]bool{".sql": true, ".lua": true, ".hs": true, ".elm": true, ".ada": true, ".adb": true, ".ads": true}
	percentCommentExts = map[string]bool{".tex": true, ".sty": true, ".cls": true, ".erl": true, ".hrl": true}
)

// isCommentLine reports whether a trimmed diff line is a comment in the language of filePath.
// A leading "*" counts only as a block comment continuation, so it must stand alone or be followed by a space.
func isCommentLine(filePath, trimmed string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	if trimmed == "*" || strings.HasPrefix(trimmed, "* ") {
		return true
	}
	ext := strings.ToLower(path.Ext(filePath))
	switch {
	case strings.HasPrefix(trimmed, "#"):
		return !preprocessorExts[ext]
	case strings.HasPrefix(trimmed, "--"):
		return dashCommentExts[ext]
	case strings.HasPrefix(trimmed, "%"):
		return percentCommentExts[ext]
	}
	return false
}

func commentOnlyRule(c *commitContext) (Flag, bool) {
	if !c.hasHunks() {
		return Flag{}, false
	}
	lines, files := 0, 0
	for _, f := range c.files {
		if f.Hunks == 0 {
			continue
		}
		touched := false
		for _, set := range [][]string{f.Added, f.Removed} {
			for _, l := range set {
				t := strings.TrimSpace(l)
				if t == "" {
					continue
				}
				if !isCommentLine(f.Path, t) {
					return Flag{}, false
				}
				lines++
				touched = true
			}
		}
		if touched {
			files++
		}
	}
	if lines == 0 {
		return Flag{}, false
	}
	return Flag{Type: FlagCommentOnly, Details: map[string]any{"lines": lines, "files": files}}, true
}

type chunkStat struct {
	count int
	files map[string]bool
}

func copyPasteRule(c *commitContext) (Flag, bool) {
	if !c.hasHunks() {
		return Flag{}, false
	}

	chunks := make(map[uint64]*chunkStat)
	for _, f := range c.files {
		for _, block := range f.Blocks {
			for _, run := range nonBlankRuns(block) {
				for i := 0; i+CopyPasteWindow <= len(run); i++ {
					window := run[i : i+CopyPasteWindow]
					h := xxhash.Sum64String(strings.Join(window, "\n"))
					st := chunks[h]
					if st == nil {
						st = &chunkStat{files: make(map[string]bool)}
						chunks[h] = st
					}
					st.count++
					st.files[f.Path] = true
				}
			}
		}
	}

	duplicated, maxOccurrences := 0, 0
	fileSet := make(map[string]bool)
	for _, st := range chunks {
		if st.count < 2 {
			continue
		}
		duplicated++
		if st.count > maxOccurrences {
			maxOccurrences = st.count
		}
		for f := range st.files {
			fileSet[f] = true
		}
	}
	if duplicated == 0 {
		return Flag{}, false
	}

	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}
	sort.Strings(files)

	return Flag{Type: FlagCopyPaste, Details: map[string]any{
		"duplicated_chunks": duplicated,
		"occurrences":       maxOccurrences,
		"files":             files,
	}}, true
}

// nonBlankRuns splits lines into runs of consecutive non-blank, trimmed lines.
func nonBlankRuns(lines []string) [][]string {
	var runs [][]string
	var cur []string
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			if len(cur) > 0 {
				runs = append(runs, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}
