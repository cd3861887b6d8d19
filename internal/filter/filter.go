package filter

import (
	"strings"
)

// WorkflowPrefix marks request paths that belong to the certification workflow.
const WorkflowPrefix = "/caseflow/certifications/"

// IsWorkflow reports whether the resource belongs to the certification workflow.
func IsWorkflow(resource string) bool {
	return strings.HasPrefix(resource, WorkflowPrefix)
}

// Classify splits a workflow resource of the form
// /caseflow/certifications/<key>/<action>[?query] into its session key and action.
// Anything past the fifth slash is folded into the last segment before the split.
func Classify(resource string) (key, action string, ok bool) {
	if !IsWorkflow(resource) {
		return "", "", false
	}
	chunks := strings.SplitN(resource, "/", 6)
	if len(chunks) < 5 {
		return "", "", false
	}
	key = chunks[len(chunks)-2]
	action, _, _ = strings.Cut(chunks[len(chunks)-1], "?")
	return key, action, true
}
