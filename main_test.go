package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "include"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestRunAmalgamation(t *testing.T) {
	root := project(t, map[string]string{
		"include/a.h": "#include \"b.h\"\nint a(void);\n",
		"include/b.h": "#define B 2\n",
		"src/main.c":  "#include <stdio.h>\n#include \"a.h\"\nint main() { return a(); }\n",
		"src/a.c":     "#include \"a.h\"\nint a(void) { return B; }\n",
	})
	var out, errOut bytes.Buffer
	code := run(context.Background(), config{}, []string{root}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut.String())
	assert.Equal(t, "#include <stdio.h>\n\n#define B 2\n\nint a(void);\n\nint a(void) { return B; }\n\nint main() { return a(); }\n", out.String())
}

func TestRunEngineError(t *testing.T) {
	root := project(t, map[string]string{"src/lib.c": "int lib;\n"})
	var out, errOut bytes.Buffer
	code := run(context.Background(), config{}, []string{root}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
	assert.Equal(t, "Amalgamator error: No main function was found\n", errOut.String())
}

func TestRunMissingDirectory(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), config{}, []string{filepath.Join(t.TempDir(), "nope")}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(errOut.String(), "Amalgamator error: include directory"), errOut.String())
}

func TestRunOrder(t *testing.T) {
	root := project(t, map[string]string{
		"include/a.h": "#include \"b.h\"\n",
		"include/b.h": "",
	})
	var out, errOut bytes.Buffer
	code := run(context.Background(), config{order: true}, []string{root}, &out, &errOut)
	assert.Equal(t, 0, code)
	inc := filepath.Join(root, "include")
	assert.Equal(t, filepath.Join(inc, "b.h")+"\n"+filepath.Join(inc, "a.h")+"\n", out.String())
}

func TestRunDot(t *testing.T) {
	root := project(t, map[string]string{
		"include/a.h": "#include \"b.h\"\n",
		"include/b.h": "#include \"a.h\"\n",
	})
	var out, errOut bytes.Buffer
	code := run(context.Background(), config{dot: true, left2Right: true}, []string{root}, &out, &errOut)
	assert.Equal(t, 0, code)
	dot := out.String()
	assert.True(t, strings.HasPrefix(dot, "digraph includes {\n"))
	assert.Contains(t, dot, "label=\"include/a.h\"")
	assert.Contains(t, dot, "rankdir=\"LR\"")
	assert.Contains(t, dot, "color=\"red\"")
}

func TestRunCycleReported(t *testing.T) {
	root := project(t, map[string]string{
		"include/a.h": "#include \"b.h\"\n",
		"include/b.h": "#include \"a.h\"\n",
		"src/main.c":  "int main() {}\n",
	})
	var out, errOut bytes.Buffer
	code := run(context.Background(), config{}, []string{root}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Amalgamator error: Cyclic include dependency detected: ")
}
