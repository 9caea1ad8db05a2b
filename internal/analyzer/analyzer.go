// internal/analyzer/analyzer.go
package analyzer

// FlagType is one heuristic classification a commit can receive.
type FlagType string

const (
	FlagSmallVague  FlagType = "small_vague_commit"
	FlagLarge       FlagType = "large_commit"
	FlagConfigOnly  FlagType = "config_only"
	FlagCommentOnly FlagType = "comment_only"
	FlagCopyPaste   FlagType = "possible_copy_paste"
	FlagAIGenerated FlagType = "possible_ai_generated"
)

// Thresholds. Comparisons against them are strict.
const (
	SmallCommitMaxLines   = 10
	VagueMessageMinLength = 10
	SingleWordMaxLength   = 20
	LargeCommitLines      = 500
	LargeCommitFiles      = 20

	CopyPasteWindow = 5

	AIMinAddedLines       = 5
	AIMinUniformLines     = 10
	AIConfidenceThreshold = 60
)

// Input is the commit metadata the analyzer needs.
type Input struct {
	Message      string
	LinesAdded   int
	LinesRemoved int
	FilesChanged int
	Files        []string
}

func (in Input) linesChanged() int {
	return in.LinesAdded + in.LinesRemoved
}

// Flag is one classification plus a JSON-serializable details payload.
type Flag struct {
	Type    FlagType       `json:"type"`
	Details map[string]any `json:"details"`
}

type commitContext struct {
	in    Input
	files []FileDiff
}

// hasHunks reports whether diff text was supplied and contained at least one hunk.
func (c *commitContext) hasHunks() bool {
	for _, f := range c.files {
		if f.Hunks > 0 {
			return true
		}
	}
	return false
}

type rule func(c *commitContext) (Flag, bool)

// rules are independent of each other; their order only affects the order of the result.
var rules = []rule{
	smallVagueRule,
	largeRule,
	configOnlyRule,
	commentOnlyRule,
	copyPasteRule,
	aiGeneratedRule,
}

// Analyze classifies a commit. diff may be empty, in which case only metadata rules can fire.
// Each flag type appears at most once in the result.
func Analyze(in Input, diff string) []Flag {
	c := &commitContext{in: in}
	if diff != "" {
		c.files = ParseDiff(diff)
	}

	var flags []Flag
	for _, r := range rules {
		if f, ok := r(c); ok {
			flags = append(flags, f)
		}
	}
	return flags
}
