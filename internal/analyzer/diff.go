// internal/analyzer/diff.go
package analyzer

import (
	"regexp"
	"strconv"
	"strings"
)

// FileDiff is the part of a unified diff that touches one file.
type FileDiff struct {
	Path    string
	Hunks   int
	Added   []string
	Removed []string
	// Blocks groups added lines that were consecutive in the diff.
	Blocks [][]string
}

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseDiff scans unified diff text into per-file added and removed lines.
//
// The scanner is lenient: it accepts full `git diff` output, bare per-file patches that start at
// `---`/`+++` or `@@`, and truncated hunks. Text that contains no hunks yields no files.
func ParseDiff(text string) []FileDiff {
	var (
		files   []FileDiff
		cur     *FileDiff
		inHunk  bool
		oldLeft = -1
		newLeft = -1
		block   []string
	)

	flushBlock := func() {
		if cur != nil && len(block) > 0 {
			cur.Blocks = append(cur.Blocks, block)
		}
		block = nil
	}
	startFile := func(path string) {
		flushBlock()
		files = append(files, FileDiff{Path: path})
		cur = &files[len(files)-1]
		inHunk = false
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if strings.HasPrefix(line, "diff --git ") {
			startFile(pathFromGitHeader(line))
			continue
		}

		if m := hunkHeader.FindStringSubmatch(line); m != nil {
			if cur == nil {
				startFile("")
			}
			flushBlock()
			cur.Hunks++
			inHunk = true
			oldLeft = hunkCount(m[2])
			newLeft = hunkCount(m[4])
			continue
		}

		if inHunk && oldLeft == 0 && newLeft == 0 {
			inHunk = false
		}

		if !inHunk {
			switch {
			case strings.HasPrefix(line, "--- "):
				// A header without a preceding `diff --git` line starts a new file.
				if cur == nil || cur.Hunks > 0 {
					startFile(stripDiffPrefix(strings.TrimPrefix(line, "--- ")))
				}
			case strings.HasPrefix(line, "+++ "):
				if cur != nil {
					if p := stripDiffPrefix(strings.TrimPrefix(line, "+++ ")); p != "/dev/null" {
						cur.Path = p
					}
				}
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			content := line[1:]
			cur.Added = append(cur.Added, content)
			block = append(block, content)
			newLeft--
		case strings.HasPrefix(line, "-"):
			flushBlock()
			cur.Removed = append(cur.Removed, line[1:])
			oldLeft--
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"
		default:
			flushBlock()
			oldLeft--
			newLeft--
		}
	}
	flushBlock()

	return files
}

// hunkCount parses the optional line count of a hunk range. A missing count means one line.
func hunkCount(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func pathFromGitHeader(line string) string {
	rest := strings.TrimPrefix(line, "diff --git ")
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+3:]
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return stripDiffPrefix(fields[len(fields)-1])
}

func stripDiffPrefix(p string) string {
	if i := strings.IndexByte(p, '\t'); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		return p[2:]
	}
	return p
}
