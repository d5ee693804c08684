package chain

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of assembled clusters.
//
// Each cluster becomes a subgraph. Strips of the primary chain are linked
// left to right with solid edges; leftover chunks are drawn with dashed
// borders and dashed links so partial reconstructions stand out.
//
// labels maps a strip index to its display label. Pass nil to show indices.
func ToDOT(results []Result, labels func(int) string) string {
	if labels == nil {
		labels = func(i int) string { return fmt.Sprint(i) }
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Chains {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	for ci, r := range results {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", ci)
		fmt.Fprintf(&buf, "    label=%s;\n", dotQuote(fmt.Sprintf("cluster %d (%d/%d)", ci, len(r.Primary), r.Size)))
		writeDOTChunk(&buf, ci, 0, r.Primary, labels, false)
		for li, c := range r.Leftovers {
			writeDOTChunk(&buf, ci, li+1, c, labels, true)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTChunk(buf *bytes.Buffer, cluster, chunk int, strips []int, labels func(int) string, leftover bool) {
	style := ""
	if leftover {
		style = ", style=\"dashed,rounded\""
	}
	for k, idx := range strips {
		fmt.Fprintf(buf, "    c%d_%d_%d [label=%s%s];\n", cluster, chunk, k, dotQuote(labels(idx)), style)
	}
	for k := 1; k < len(strips); k++ {
		attr := ""
		if leftover {
			attr = " [style=dashed]"
		}
		fmt.Fprintf(buf, "    c%d_%d_%d -> c%d_%d_%d%s;\n", cluster, chunk, k-1, cluster, chunk, k, attr)
	}
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotQuote returns s as a DOT quoted string. Non-ASCII text is passed through
// as UTF-8.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// RenderSVG renders the DOT representation of results as an SVG document.
//
// Rendering runs in process through go-graphviz. All errors are wrapped with
// context.
func RenderSVG(ctx context.Context, results []Result, labels func(int) string) ([]byte, error) {
	dot := ToDOT(results, labels)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
