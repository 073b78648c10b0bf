package ai

import "strings"

// TaskPromptPrefix is prepended to a brief when asking for a task list.
const TaskPromptPrefix = "Break this project idea into concrete technical tasks (short list):\n"

// BuildTaskPrompt forms the planning prompt for a brief. The brief is used
// verbatim.
func BuildTaskPrompt(brief string) string {
	var b strings.Builder
	b.Grow(len(TaskPromptPrefix) + len(brief))
	b.WriteString(TaskPromptPrefix)
	b.WriteString(brief)
	return b.String()
}
