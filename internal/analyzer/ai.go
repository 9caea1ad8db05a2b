// internal/analyzer/ai.go
package analyzer

import (
	"regexp"
	"strings"
)

// Signal weights in percentage points; they sum to 100.
const (
	weightVerboseComments = 25
	weightGenericNames    = 20
	weightUniformIndent   = 15
	weightBoilerplate     = 20
	weightDocstrings      = 20
)

// Density thresholds for the individual signals.
const (
	verboseCommentDensity = 0.15
	verboseCommentLength  = 60
	genericNameDensity    = 0.2
	boilerplateDensity    = 0.1
	docstringRatio        = 0.8
	docstringMinFunctions = 2
)

var (
	explanatoryComment = regexp.MustCompile(`(?i)^(this (function|method|class|module|code|block|helper)|here we|we (first|then|now|need)|note:|the following|first,|next,|then,|finally,|step \d|ensure that|make sure)`)

	genericIdentifier = regexp.MustCompile(`\b(data|result|results|temp|tmp|value|val|item|items|obj|res|response|output|input|info|foo|bar|baz|helper|element|elem)\b`)
	declaration       = regexp.MustCompile(`(:=|\blet\b|\bconst\b|\bvar\b|\bdef\b|\bfunc\b|\bfunction\b|[^=!<>]=[^=])`)

	boilerplate = regexp.MustCompile(`(?i)(^try\s*[{:]|^except\b|^catch\s*\(|^\}\s*catch|raise NotImplementedError|throw new Error\(|console\.log\(|^print\(|logger\.(info|debug)\(|TODO: implement|@param\b|@returns?\b|:param\b|:returns?:|^Args:|^Returns:|__name__ == ["']__main__["']|^if err != nil \{)`)

	functionDef   = regexp.MustCompile(`^\s*(func\s|def\s|function\s|async\s+function\s|(public|private|protected|static)\s+[\w<>\[\],]+\s+\w+\s*\(|(export\s+)?const\s+\w+\s*=\s*(async\s*)?\([^)]*\)\s*=>)`)
	docstringOpen = regexp.MustCompile(`^\s*("""|'''|/\*\*|///|// [A-Z]\w* )`)
)

// aiScore accumulates weighted signals over the added lines of a diff.
// It returns a score in percentage points and the names of the signals that contributed.
func aiScore(files []FileDiff) (int, []string) {
	var nonBlank []string
	var verbose, generic, boiler, functions, docs int
	for _, f := range files {
		for _, l := range f.Added {
			t := strings.TrimSpace(l)
			if t == "" {
				continue
			}
			nonBlank = append(nonBlank, l)
			if isCommentLine(f.Path, t) {
				text := strings.TrimSpace(strings.TrimLeft(t, "/#*-<!%\"' "))
				if len(text) >= verboseCommentLength || explanatoryComment.MatchString(text) {
					verbose++
				}
			} else if declaration.MatchString(t) && genericIdentifier.MatchString(t) {
				generic++
			}
			if boilerplate.MatchString(t) {
				boiler++
			}
			if functionDef.MatchString(l) {
				functions++
			}
			if docstringOpen.MatchString(l) {
				docs++
			}
		}
	}
	total := len(nonBlank)
	if total < AIMinAddedLines {
		return 0, nil
	}

	score := 0
	var signals []string
	density := func(n int) float64 { return float64(n) / float64(total) }

	if density(verbose) >= verboseCommentDensity {
		score += weightVerboseComments
		signals = append(signals, "verbose_comments")
	}
	if density(generic) >= genericNameDensity {
		score += weightGenericNames
		signals = append(signals, "generic_names")
	}
	if total >= AIMinUniformLines && uniformIndentation(nonBlank) {
		score += weightUniformIndent
		signals = append(signals, "uniform_indentation")
	}
	if density(boiler) >= boilerplateDensity {
		score += weightBoilerplate
		signals = append(signals, "boilerplate")
	}
	if functions >= docstringMinFunctions && float64(docs)/float64(functions) >= docstringRatio {
		score += weightDocstrings
		signals = append(signals, "docstrings")
	}

	return score, signals
}

// uniformIndentation reports whether indented lines share one indentation style:
// never mixing tabs and spaces, and with space indents all multiples of 2 or 4.
func uniformIndentation(lines []string) bool {
	indented, tabs, spaces := 0, 0, 0
	unit := 0
	for _, l := range lines {
		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if indent == "" {
			continue
		}
		indented++
		hasTab := strings.Contains(indent, "\t")
		hasSpace := strings.Contains(indent, " ")
		switch {
		case hasTab && hasSpace:
			return false
		case hasTab:
			tabs++
		default:
			spaces++
			unit = gcd(unit, len(indent))
		}
	}
	if indented*2 < len(lines) {
		return false
	}
	if tabs > 0 && spaces > 0 {
		return false
	}
	if spaces > 0 {
		return unit == 2 || unit == 4
	}
	return true
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func aiGeneratedRule(c *commitContext) (Flag, bool) {
	if !c.hasHunks() {
		return Flag{}, false
	}
	score, signals := aiScore(c.files)
	if score <= AIConfidenceThreshold {
		return Flag{}, false
	}
	return Flag{Type: FlagAIGenerated, Details: map[string]any{
		"confidence": score,
		"score":      float64(score) / 100,
		"signals":    signals,
	}}, true
}
