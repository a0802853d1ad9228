package ai

import (
	"errors"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls a JSON object out of a free-text model reply.
// The fallback chain is fixed for compatibility: a fenced code block
// first, then the widest {...} span, else failure.
func ExtractJSON(reply string) (string, error) {
	if m := fencedBlock.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1]), nil
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		return reply[start : end+1], nil
	}

	return "", errors.New("no JSON found in response")
}
