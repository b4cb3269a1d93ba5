// Package jvmfmt holds the byte stream, error kinds and decode options shared
// by the class file packages.
package jvmfmt

import "fmt"

// DiagKind names the class file structure a diagnostic concerns.
type DiagKind string

const (
	DiagTrailing   DiagKind = "trailing"   // bytes after the attributes table
	DiagDescriptor DiagKind = "descriptor" // method descriptor fails the grammar
	DiagVersion    DiagKind = "version"    // major version outside the release table
	DiagUnresolved DiagKind = "unresolved" // method descriptor index does not resolve
)

// NoMethodIndex marks a diagnostic that is not tied to a method_info entry.
const NoMethodIndex = -1

// Diag is a recoverable defect in a class file. The decoder keeps going and
// the lint rules still run; strict mode turns some of these into errors.
type Diag struct {
	Kind   DiagKind `json:"kind"`
	Offset int      `json:"offset"` // file offset of the affected structure
	Method int      `json:"method"` // method table index, or NoMethodIndex
	Msg    string   `json:"msg"`
}

// String renders d as "kind @0x001a: msg" or "kind @0x001a method #2: msg".
func (d Diag) String() string {
	if d.Method == NoMethodIndex {
		return fmt.Sprintf("%s @0x%04x: %s", d.Kind, d.Offset, d.Msg)
	}
	return fmt.Sprintf("%s @0x%04x method #%d: %s", d.Kind, d.Offset, d.Method, d.Msg)
}

// Diags collects diagnostics in the order the decoder meets them.
type Diags []Diag

// Classf records a class-level diagnostic.
func (d *Diags) Classf(offset int, kind DiagKind, format string, args ...any) {
	*d = append(*d, Diag{Kind: kind, Offset: offset, Method: NoMethodIndex, Msg: fmt.Sprintf(format, args...)})
}

// Methodf records a diagnostic against method index i of the method table.
func (d *Diags) Methodf(offset, i int, kind DiagKind, format string, args ...any) {
	*d = append(*d, Diag{Kind: kind, Offset: offset, Method: i, Msg: fmt.Sprintf(format, args...)})
}

// Mode selects what happens to recoverable defects.
type Mode int

const (
	ModeBestEffort Mode = iota // record a Diag and continue
	ModeStrict                 // fail the decode
)

// Options controls decoding.
type Options struct {
	Mode     Mode
	MaxBytes int64 // largest class file Open reads; 0 = DefaultMaxBytes
}

// DefaultMaxBytes caps a single class file read. The format's own u4
// lengths allow far more, but no real class file comes close.
const DefaultMaxBytes = 64 << 20

func (o Options) EffectiveMaxBytes() int64 {
	if o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return DefaultMaxBytes
}
