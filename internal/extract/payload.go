package extract

import (
	"regexp"
	"strings"
)

var (
	fencedBlock   = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	arrayLiteral  = regexp.MustCompile(`(?s)\[.*\]`)
	objectLiteral = regexp.MustCompile(`(?s)\{.*\}`)
)

// JSONPayload pulls the JSON text out of a model reply. It tries, in order, the first
// fenced code block, the outermost array span, the outermost object span, and finally
// the trimmed reply.
func JSONPayload(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := arrayLiteral.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if m := objectLiteral.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(text)
}
