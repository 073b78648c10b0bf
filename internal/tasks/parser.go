package tasks

import "strings"

// Parse turns a model answer into tasks, one per non-blank line, in order.
// Lines may be bulleted with "-" or numbered with a single digit followed by
// "." or ")". The result may be empty.
func Parse(text string) []Task {
	var out []Task
	for _, line := range strings.Split(text, "\n") {
		name := taskName(strings.TrimSpace(line))
		if name == "" {
			continue
		}
		out = append(out, newAutoTask(name))
	}
	return out
}

// ParseOrFallback is Parse, substituting Fallback for an empty result.
func ParseOrFallback(text string) []Task {
	if parsed := Parse(text); len(parsed) > 0 {
		return parsed
	}
	return Fallback()
}

func taskName(line string) string {
	switch {
	case line == "":
		return ""
	case line[0] == '-':
		return strings.TrimSpace(strings.TrimLeft(line, "- "))
	case len(line) > 1 && isDigit(line[0]) && (line[1] == '.' || line[1] == ')'):
		return strings.TrimSpace(line[2:])
	default:
		return line
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func newAutoTask(name string) Task {
	return Task{Name: name, Description: "Task for " + name, AssignedTo: AssignedAuto}
}
