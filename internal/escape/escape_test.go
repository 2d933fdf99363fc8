package escape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Smith", want: "Smith"},
		{name: "empty", in: "", want: ""},
		{name: "ampersand", in: "A&B", want: "A&amp;B"},
		{name: "angles", in: "<b>", want: "&lt;b&gt;"},
		{name: "quotes", in: `say "hi" it's`, want: "say &quot;hi&quot; it&apos;s"},
		{name: "existingEntityEscapedOnce", in: "&lt;", want: "&amp;lt;"},
		{name: "sentinel", in: "line1::line2", want: "line1\nline2"},
		{name: "oddSentinelRun", in: ":::", want: "\n:"},
		{name: "singleColon", in: "12:30", want: "12:30"},
		{name: "mixed", in: "a<b&c>::'d'", want: "a&lt;b&amp;c&gt;\n&apos;d&apos;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

// unescape reverses Value for strings without raw newlines.
func unescape(s string) string {
	return strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"\n", NewlineSentinel,
	).Replace(s)
}

func TestValueRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"&<>\"'::",
		"::&amp;::",
		"&&&",
		"'quoted' \"double\" <tag attr=\"x\"/>",
		"first line::second line::third & last",
		"::",
		"no reserved characters at all",
	}
	for _, in := range inputs {
		assert.Equal(t, in, unescape(Value(in)), "round trip of %q", in)
	}
}

func TestTableIsACopy(t *testing.T) {
	t.Parallel()

	tbl := Table()
	assert.Equal(t, "&", tbl[0].Old, "ampersand must be first")
	tbl[0].New = "mutated"
	assert.Equal(t, "&amp;", Table()[0].New)
	assert.Equal(t, "&amp;", Value("&"))
}

func TestAttrKeepsSentinel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a::b &amp; &quot;c&quot;", Attr(`a::b & "c"`))
	assert.Equal(t, "http://naaccr.org/naaccrxml", Attr("http://naaccr.org/naaccrxml"))
}
