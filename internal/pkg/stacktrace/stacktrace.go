// Package stacktrace trims debug.Stack output down to the service's own frames.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that lives under an internal/ directory, innermost first.
func InternalPaths(stack []byte) []string {
	var frames []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		// File lines are tab-indented: "\t/abs/path/file.go:42 +0x1d".
		line := sc.Text()
		if !strings.HasPrefix(line, "\t") {
			continue
		}

		loc, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		_, rel, ok := strings.Cut(loc, marker)
		if !ok || !strings.Contains(rel, ".go:") {
			continue
		}
		frames = append(frames, "internal/"+rel)
	}

	return frames
}
