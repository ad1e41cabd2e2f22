package amalgam

import (
	"regexp"
	"sort"
	"strings"
)

// DirectiveKind tells what a line-initial preprocessor directive is.
type DirectiveKind int

const (
	SystemInclude DirectiveKind = iota // #include <name>
	LocalInclude                       // #include "path"
	Pragma                             // #pragma ...
)

func (k DirectiveKind) String() string {
	switch k {
	case SystemInclude:
		return "system"
	case LocalInclude:
		return "local"
	case Pragma:
		return "pragma"
	default:
		return "unknown"
	}
}

// Directive is one match in a source text. Start and End delimit the full
// match, including the line terminator when there is one, so that
// text[Start:End] is exactly what stripping removes.
type Directive struct {
	Kind DirectiveKind
	// Name is the bare header for system includes, the path as written for
	// local ones and the directive body for pragmas.
	Name       string
	Start, End int
}

// All three only match at the start of a line and swallow one trailing line
// break. The include name may not be empty.
var (
	systemIncludeRe = regexp.MustCompile(`(?m)^#include <([^>]+)>\r?\n?`)
	localIncludeRe  = regexp.MustCompile(`(?m)^#include "([^"]+)"\r?\n?`)
	pragmaRe        = regexp.MustCompile(`(?m)^#pragma (.+)\r?\n?`)
)

// Extract returns every include and pragma directive of text, in text order.
func Extract(text string) []Directive {
	var res []Directive
	res = appendMatches(res, text, SystemInclude, systemIncludeRe)
	res = appendMatches(res, text, LocalInclude, localIncludeRe)
	res = appendMatches(res, text, Pragma, pragmaRe)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Start < res[j].Start })
	return res
}

func appendMatches(res []Directive, text string, kind DirectiveKind, re *regexp.Regexp) []Directive {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if kind == Pragma {
			// .+ stops at \n but not at \r
			name = strings.TrimSuffix(name, "\r")
		}
		res = append(res, Directive{Kind: kind, Name: name, Start: m[0], End: m[1]})
	}
	return res
}

// SystemIncludes returns the names of the <...> includes of text, in order,
// duplicates kept.
func SystemIncludes(text string) []string {
	return names(text, systemIncludeRe)
}

// LocalIncludes returns the "..." include paths of text as written, in order,
// duplicates kept.
func LocalIncludes(text string) []string {
	return names(text, localIncludeRe)
}

func names(text string, re *regexp.Regexp) []string {
	var res []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		res = append(res, m[1])
	}
	return res
}

// StripDirectives removes local includes, then system includes, then pragma
// lines. The passes are sequential, so a directive that only becomes
// line-initial once an earlier pass removed the text in front of it is still
// stripped.
func StripDirectives(text string) string {
	text = localIncludeRe.ReplaceAllLiteralString(text, "")
	text = systemIncludeRe.ReplaceAllLiteralString(text, "")
	return pragmaRe.ReplaceAllLiteralString(text, "")
}
