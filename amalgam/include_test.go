package amalgam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	text := "#include <stdio.h>\n" +
		"#include \"a.h\"\r\n" +
		"  #include <indented.h>\n" +
		"#pragma once\n" +
		"int x;\n" +
		"#include \"../dir/b.h\""
	got := Extract(text)
	assert.Equal(t, []Directive{
		{Kind: SystemInclude, Name: "stdio.h", Start: 0, End: 19},
		{Kind: LocalInclude, Name: "a.h", Start: 19, End: 35},
		{Kind: Pragma, Name: "once", Start: 59, End: 72},
		{Kind: LocalInclude, Name: "../dir/b.h", Start: 79, End: 100},
	}, got)
	for _, d := range got {
		assert.Equal(t, '#', rune(text[d.Start]))
	}
	// Pure function of the text.
	assert.Equal(t, got, Extract(text))
}

func TestExtractPragmaCarriageReturn(t *testing.T) {
	got := Extract("#pragma pack(1)\r\nint x;\n")
	assert.Equal(t, []Directive{{Kind: Pragma, Name: "pack(1)", Start: 0, End: 17}}, got)
}

func TestIncludeNames(t *testing.T) {
	text := "#include <stdio.h>\n#include <stdlib.h>\n#include <stdio.h>\n#include \"x.h\"\n#include <>\n#include \"\"\n"
	assert.Equal(t, []string{"stdio.h", "stdlib.h", "stdio.h"}, SystemIncludes(text))
	assert.Equal(t, []string{"x.h"}, LocalIncludes(text))
	assert.Empty(t, LocalIncludes("// #include \"commented.h\"\n"))
	assert.Empty(t, SystemIncludes("#  include <spaced.h>\n"))
}

func TestStripDirectives(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "all kinds",
			input:    "#include <stdio.h>\n#include \"a.h\"\n#pragma once\nint x;\n",
			expected: "int x;\n",
		},
		{
			name:     "crlf terminators go with the line",
			input:    "#include \"a.h\"\r\nint x;\r\n#pragma warning(disable: 4996)\r\n",
			expected: "int x;\r\n",
		},
		{
			name:     "only line initial directives",
			input:    "int y; #include <stdio.h>\n  #pragma once\n",
			expected: "int y; #include <stdio.h>\n  #pragma once\n",
		},
		{
			name:     "no trailing newline",
			input:    "int x;\n#include <stdio.h>",
			expected: "int x;\n",
		},
		{
			name:     "system include exposed by local strip",
			input:    "#include \"a.h\"#include <stdio.h>\nint x;\n",
			expected: "int x;\n",
		},
		{
			name:     "pragma needs a body",
			input:    "#pragma \n#pragma\nint x;\n",
			expected: "#pragma \n#pragma\nint x;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripDirectives(tt.input))
		})
	}
}

func TestDirectiveKindString(t *testing.T) {
	assert.Equal(t, "system", SystemInclude.String())
	assert.Equal(t, "local", LocalInclude.String())
	assert.Equal(t, "pragma", Pragma.String())
	assert.Equal(t, "unknown", DirectiveKind(42).String())
}
