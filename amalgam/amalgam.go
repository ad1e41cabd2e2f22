// Package amalgam merges the headers and sources of a small C project into a
// single self-contained source file.
//
// A project is a root with an include/ directory of .h files and a src/
// directory of .c files, exactly one of which defines main. The output is the
// leading comment of the main file, the sorted set of system includes, the
// headers in dependency order, the other sources and finally the main file,
// with local includes, system includes and pragmas stripped from each file.
package amalgam

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/log"
	"github.com/ldemailly/camalgam/graph"
)

// Options for an Amalgamator. The zero value is usable.
type Options struct {
	// FileNameComments prefixes each file with a banner naming it.
	FileNameComments bool
	// CacheSize bounds the number of file texts kept in memory during a run,
	// DefaultCacheSize when not positive.
	CacheSize int
}

// Amalgamator is stateless between runs and safe for concurrent use.
type Amalgamator struct {
	opts Options
}

func New(opts Options) *Amalgamator {
	return &Amalgamator{opts: opts}
}

// project is everything derived from the file system for a single run.
type project struct {
	layout  Layout
	headers []string
	sources []string
	reader  *sourceReader
}

func (a *Amalgamator) load(ctx context.Context, root string) (*project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layout, err := NewLayout(root)
	if err != nil {
		return nil, err
	}
	headers, err := FindHeaders(layout)
	if err != nil {
		return nil, err
	}
	sources, err := FindSources(layout)
	if err != nil {
		return nil, err
	}
	reader, err := newSourceReader(a.opts.CacheSize)
	if err != nil {
		return nil, err
	}
	log.Infof("Project %s: %d headers, %d sources", layout.Root, len(headers), len(sources))
	return &project{layout: layout, headers: headers, sources: sources, reader: reader}, nil
}

// HeaderGraph returns the local include graph of the project's headers.
func (a *Amalgamator) HeaderGraph(ctx context.Context, root string) (*graph.Graph, error) {
	p, err := a.load(ctx, root)
	if err != nil {
		return nil, err
	}
	return buildHeaderGraph(ctx, p.reader, p.headers)
}

// HeaderOrder returns the project's headers in the order they are emitted.
func (a *Amalgamator) HeaderOrder(ctx context.Context, root string) ([]string, error) {
	p, err := a.load(ctx, root)
	if err != nil {
		return nil, err
	}
	g, err := buildHeaderGraph(ctx, p.reader, p.headers)
	if err != nil {
		return nil, err
	}
	return orderHeaders(g, p.headers)
}

// Amalgamate produces the single file source of the project under root. On
// any error no output is returned.
func (a *Amalgamator) Amalgamate(ctx context.Context, root string) (string, error) {
	p, err := a.load(ctx, root)
	if err != nil {
		return "", err
	}
	mainFile, err := findEntryPoint(ctx, p.reader, p.sources)
	if err != nil {
		return "", err
	}
	log.Infof("Entry point: %s", mainFile)

	var b strings.Builder

	mainText, err := p.reader.Read(ctx, mainFile)
	if err != nil {
		return "", err
	}
	if comment, ok := LeadingComment(mainText); ok {
		b.WriteString(comment)
		b.WriteString("\n\n")
	}

	includes, err := collectSystemIncludes(ctx, p.reader, append(append([]string(nil), p.headers...), p.sources...))
	if err != nil {
		return "", err
	}
	if len(includes) > 0 {
		for _, inc := range includes {
			fmt.Fprintf(&b, "#include <%s>\n", inc)
		}
		b.WriteString("\n")
	}

	g, err := buildHeaderGraph(ctx, p.reader, p.headers)
	if err != nil {
		return "", err
	}
	order, err := orderHeaders(g, p.headers)
	if err != nil {
		return "", err
	}
	for _, h := range order {
		if err := a.appendFile(ctx, &b, p, h); err != nil {
			return "", err
		}
	}
	for _, s := range p.sources {
		if s == mainFile {
			continue
		}
		if err := a.appendFile(ctx, &b, p, s); err != nil {
			return "", err
		}
	}
	if err := a.appendFile(ctx, &b, p, mainFile); err != nil {
		return "", err
	}
	return NormalizeWhitespace(b.String()), nil
}

var separatorComment = strings.Repeat("/", 80)

func (a *Amalgamator) appendFile(ctx context.Context, b *strings.Builder, p *project, path string) error {
	text, err := p.reader.Read(ctx, path)
	if err != nil {
		return err
	}
	if a.opts.FileNameComments {
		name := path
		if rel, err := filepath.Rel(p.layout.Root, path); err == nil {
			name = filepath.ToSlash(rel)
		}
		b.WriteString(separatorComment + "\n")
		fmt.Fprintf(b, "// %s\n", name)
		b.WriteString(separatorComment + "\n\n")
	}
	b.WriteString(StripDirectives(text))
	b.WriteString("\n\n")
	return nil
}

// collectSystemIncludes returns the distinct system include names of all
// files, sorted bytewise. Names are compared exactly as written.
func collectSystemIncludes(ctx context.Context, r *sourceReader, files []string) ([]string, error) {
	texts, err := r.ReadAll(ctx, files)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, text := range texts {
		for _, name := range SystemIncludes(text) {
			set[name] = struct{}{}
		}
	}
	res := make([]string, 0, len(set))
	for name := range set {
		res = append(res, name)
	}
	sort.Strings(res)
	log.LogVf("System includes: %v", res)
	return res, nil
}

// LeadingComment returns the block comment text starts with, ignoring leading
// white space. Only the first comment counts and it ends at the first "*/".
// A "/**" opening other than "/**/" does not count.
func LeadingComment(text string) (string, bool) {
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	rest := text[i:]
	if !strings.HasPrefix(rest, "/*") {
		return "", false
	}
	if len(rest) > 2 && rest[2] == '*' && (len(rest) < 4 || rest[3] != '/') {
		return "", false
	}
	end := strings.Index(rest[2:], "*/")
	if end < 0 {
		return "", false
	}
	return rest[:2+end+2], true
}

var consecutiveNewLinesRe = regexp.MustCompile(`(?:\r?\n){3,}`)

// NormalizeWhitespace collapses runs of three or more line breaks into one
// blank line, trims the ends and terminates the text with a single newline.
func NormalizeWhitespace(text string) string {
	text = consecutiveNewLinesRe.ReplaceAllLiteralString(text, "\n\n")
	return strings.TrimSpace(text) + "\n"
}
