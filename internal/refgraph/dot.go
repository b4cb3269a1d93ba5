package refgraph

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/zboralski/lattice/render"
)

// Theme holds colors for graph rendering.
type Theme struct {
	Background   string
	NodeFill     string
	NodeBorder   string
	TextColor    string
	EdgeDirect   string // Methodref
	EdgeDispatch string // InterfaceMethodref
	ExternalFill string // classes referenced but not among the inputs
	ExternalText string
}

// NASA is a geometric, mostly monochrome theme.
var NASA = Theme{
	Background:   "#F5F5F5",
	NodeFill:     "white",
	NodeBorder:   "#1A1A1A",
	TextColor:    "#1A1A1A",
	EdgeDirect:   "#424242",
	EdgeDispatch: "#0B3D91",
	ExternalFill: "#ECEFF1",
	ExternalText: "#9E9E9E",
}

// MethodDOT renders the class -> method graph built from refs.
func MethodDOT(refs []Ref, title string) string {
	return render.DOT(Build(refs), title)
}

// ClassDOT renders a class-level graph: one node per class and one edge per
// referencing/referenced class pair, weighted by the number of distinct
// methods referenced. Classes among the inputs are drawn solid, others in
// the external style. maxNodes limits the rendered classes by involvement
// (0 = all). Output is deterministic.
func ClassDOT(refs []Ref, title string, t Theme, maxNodes int) string {
	type classEdge struct{ from, to string }
	type edgeInfo struct {
		count     int
		dispatch  bool
		distincts map[string]bool
	}

	inputs := make(map[string]bool)
	edges := make(map[classEdge]*edgeInfo)
	for _, r := range refs {
		inputs[r.From] = true
		if r.From == r.Owner {
			continue
		}
		ce := classEdge{r.From, r.Owner}
		e := edges[ce]
		if e == nil {
			e = &edgeInfo{distincts: make(map[string]bool)}
			edges[ce] = e
		}
		key := r.Name + r.Descriptor
		if !e.distincts[key] {
			e.distincts[key] = true
			e.count++
		}
		e.dispatch = e.dispatch || r.Interface
	}

	involvement := make(map[string]int)
	for name := range inputs {
		involvement[name] = 0
	}
	for ce, e := range edges {
		involvement[ce.from] += e.count
		involvement[ce.to] += e.count
	}

	type rankedClass struct {
		name        string
		involvement int
	}
	ranked := make([]rankedClass, 0, len(involvement))
	for name, inv := range involvement {
		ranked = append(ranked, rankedClass{name, inv})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].involvement != ranked[j].involvement {
			return ranked[i].involvement > ranked[j].involvement
		}
		return ranked[i].name < ranked[j].name
	})
	limit := len(ranked)
	if maxNodes > 0 && limit > maxNodes {
		limit = maxNodes
	}
	renderSet := make(map[string]bool, limit)
	for _, rc := range ranked[:limit] {
		renderSet[rc.name] = true
	}

	var b strings.Builder
	b.WriteString("digraph classgraph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  splines=true;\n")
	b.WriteString("  nodesep=0.5;\n")
	b.WriteString("  ranksep=0.8;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", t.Background)
	fmt.Fprintf(&b, "  node [shape=rect, style=\"filled,rounded\", fillcolor=%q, color=%q, penwidth=0.5, fontname=\"Helvetica Neue,Helvetica,Arial\", fontsize=10, fontcolor=%q, height=0.4, margin=\"0.15,0.08\"];\n",
		t.NodeFill, t.NodeBorder, t.TextColor)
	fmt.Fprintf(&b, "  edge [penwidth=0.5, arrowsize=0.5, arrowhead=vee, color=%q];\n", t.EdgeDirect)
	if title != "" {
		b.WriteString("  labelloc=t;\n  labeljust=l;\n")
		fmt.Fprintf(&b, "  label=<<font face=\"Helvetica Neue,Helvetica\" point-size=\"8\" color=\"%s\">%s</font>>;\n",
			t.TextColor, dotEscape(title))
	}
	b.WriteByte('\n')

	for _, rc := range ranked[:limit] {
		label := fmt.Sprintf("<<font point-size=\"10\">%s</font>>", dotEscape(javaName(rc.name)))
		if inputs[rc.name] {
			fmt.Fprintf(&b, "  %s [label=%s];\n", dotID(rc.name), label)
		} else {
			fmt.Fprintf(&b, "  %s [label=%s, fillcolor=%q, fontcolor=%q];\n",
				dotID(rc.name), label, t.ExternalFill, t.ExternalText)
		}
	}
	b.WriteByte('\n')

	keys := make([]classEdge, 0, len(edges))
	maxCount := 1
	for ce, e := range edges {
		if !renderSet[ce.from] || !renderSet[ce.to] {
			continue
		}
		keys = append(keys, ce)
		maxCount = max(maxCount, e.count)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})
	for _, ce := range keys {
		e := edges[ce]
		pw := 0.5 + 2.0*math.Log2(float64(e.count)+1)/math.Log2(float64(maxCount)+1)
		attrs := fmt.Sprintf("penwidth=%.1f", pw)
		if e.dispatch {
			attrs += fmt.Sprintf(", color=%q", t.EdgeDispatch)
		}
		if e.count > 1 {
			attrs += fmt.Sprintf(", label=<<font point-size=\"7\" color=\"%s\">%d</font>>",
				t.ExternalText, e.count)
		}
		fmt.Fprintf(&b, "  %s -> %s [%s];\n", dotID(ce.from), dotID(ce.to), attrs)
	}

	b.WriteString("}\n")
	return b.String()
}

// javaName converts an internal class name to its dotted form:
// "java/lang/String" -> "java.lang.String".
func javaName(s string) string { return strings.ReplaceAll(s, "/", ".") }

// dotEscape escapes a string for use in DOT HTML labels.
func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// dotID creates a safe DOT identifier from a class name.
func dotID(name string) string {
	var b strings.Builder
	b.WriteString("n_")
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			fmt.Fprintf(&b, "_%04x", c)
		}
	}
	return b.String()
}
