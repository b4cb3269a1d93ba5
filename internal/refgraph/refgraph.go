// Package refgraph builds reference graphs from the member references in
// class file constant pools.
package refgraph

import (
	"github.com/zboralski/lattice"

	"classlint/internal/classfile"
)

// Ref is one Methodref or InterfaceMethodref held by a class.
type Ref struct {
	From       string `json:"from"`  // referencing class, internal form
	Owner      string `json:"owner"` // class declaring the target
	Name       string `json:"name"`
	Descriptor string `json:"descriptor"`
	Interface  bool   `json:"interface,omitempty"`
}

// Target returns "Owner.Name", the graph node for the referenced method.
func (r Ref) Target() string { return r.Owner + "." + r.Name }

// Refs lists the method references in cf's constant pool in index order.
// References that fail to resolve are skipped and counted in skipped.
func Refs(cf *classfile.ClassFile) (refs []Ref, skipped int, err error) {
	from, err := cf.Name()
	if err != nil {
		return nil, 0, err
	}
	cf.Pool.Each(func(index uint16, c classfile.Constant) {
		if c.Tag() != classfile.TagMethodref && c.Tag() != classfile.TagInterfaceMethodref {
			return
		}
		r, rerr := cf.Pool.Ref(index)
		if rerr != nil {
			skipped++
			return
		}
		refs = append(refs, Ref{
			From:       from,
			Owner:      r.Owner,
			Name:       r.Name,
			Descriptor: r.Descriptor,
			Interface:  r.Kind == classfile.TagInterfaceMethodref,
		})
	})
	return refs, skipped, nil
}

// Build constructs a lattice.Graph with one node per referencing class and
// per referenced method, and one edge per distinct reference.
func Build(refs []Ref) *lattice.Graph {
	g := &lattice.Graph{}
	seen := make(map[string]bool)
	node := func(n string) {
		if !seen[n] {
			seen[n] = true
			g.Nodes = append(g.Nodes, n)
		}
	}
	for _, r := range refs {
		node(r.From)
		node(r.Target())
		g.Edges = append(g.Edges, lattice.Edge{
			Caller: r.From,
			Callee: r.Target(),
		})
	}
	g.Dedup()
	return g
}
