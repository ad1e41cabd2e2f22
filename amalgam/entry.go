package amalgam

import (
	"context"
	"regexp"
	"sort"

	"fortio.org/log"
)

var mainFunctionRe = regexp.MustCompile(`(?m)^int main\(`)

// HasEntryPoint reports whether text has a line starting with "int main(".
func HasEntryPoint(text string) bool {
	return mainFunctionRe.MatchString(text)
}

// findEntryPoint returns the single source file defining main. The sources
// are scanned concurrently; candidates are reported sorted.
func findEntryPoint(ctx context.Context, r *sourceReader, sources []string) (string, error) {
	texts, err := r.ReadAll(ctx, sources)
	if err != nil {
		return "", err
	}
	var found []string
	for i, text := range texts {
		if HasEntryPoint(text) {
			log.LogVf("main function found in %s", sources[i])
			found = append(found, sources[i])
		}
	}
	switch len(found) {
	case 0:
		return "", &Error{Kind: ErrNoEntryPoint, Msg: "No main function was found"}
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", ambiguousEntryPoint(found)
	}
}
