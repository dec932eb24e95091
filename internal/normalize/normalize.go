// Package normalize strips markdown artifacts from extracted text before it
// is tokenized and embedded.
package normalize

import (
	"regexp"
	"strings"
)

var (
	imagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	newlines     = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")
)

// Normalize rewrites markdown links to their label, drops images and emphasis
// markers, and removes line breaks. The rewrite sequence is applied until a
// fixpoint: marker or newline removal can expose a link pattern an earlier
// pass never saw (e.g. "[label]\n(url)"), so a single pass is not idempotent.
// The result satisfies Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	for {
		next := rewrite(s)
		if next == s {
			return s
		}
		s = next
	}
}

// rewrite applies one pass of the rules in order. Link and image patterns are
// resolved before literal marker stripping; images are matched first so their
// leading "!" is consumed with the pattern. Every rule strictly shrinks the
// text when it matches, so the fixpoint loop terminates.
func rewrite(s string) string {
	s = imagePattern.ReplaceAllString(s, "")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	return newlines.Replace(s)
}
