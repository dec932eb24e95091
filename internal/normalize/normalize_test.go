package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"link keeps label", "[label](http://x)", "label"},
		{"image removed", "![alt](http://x)", ""},
		{"emphasis stripped", "a**b**c", "abc"},
		{"newlines removed", "a\nb\r\nc", "abc"},
		{"mixed", "See ![diagram](img.png)the **[docs](http://d)**\nfor details", "See the docsfor details"},
		{"plain text untouched", "nothing to do here.", "nothing to do here."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"[label](http://x) and ![alt](http://y)",
		"a**b**c\nnext line",
		"already plain",
		"**[bold link](http://z)**",
		// stripping markers or newlines exposes a link pattern a single
		// pass would miss
		"[label]\n(http://x)",
		"[label]**(http://x)",
		"!\n[alt]\n(http://x)",
		"[outer [inner]\n(http://i)](http://o)",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeResolvesExposedPatterns(t *testing.T) {
	// a newline inside the link syntax is removed by the newline pass, and
	// the resulting link must still be rewritten to its label
	assert.Equal(t, "label", Normalize("[label]\n(http://x)"))
	assert.Equal(t, "label", Normalize("[label]**(http://x)"))
}
