// Package topoerr classifies every error the topology engine can return into
// the small taxonomy the rest of the engine branches on: GraphLoad,
// GraphStructure, Attribute, Routing, and Lookup. Sentinels are package-level
// vars, never stringified at definition, and callers branch with errors.Is /
// errors.As against Kind rather than matching message text.
package topoerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error raised by the topology engine, per §7.
type Kind int

const (
	// KindGraphLoad: the topology file could not be opened or its GML was malformed.
	KindGraphLoad Kind = iota
	// KindGraphStructure: the parsed graph fails a structural invariant (not
	// strongly connected, clusterCount != 1, useShortest=false on an
	// incomplete graph).
	KindGraphStructure
	// KindAttribute: a required vertex/edge attribute is missing, mistyped,
	// or out of range, or a bandwidth/duration string failed to parse.
	KindAttribute
	// KindRouting: Dijkstra or an edge lookup returned a non-success code
	// during a query against a topology that should be fully routable.
	KindRouting
	// KindLookup: an address is not attached to the topology. Never fatal;
	// callers surface it as a missing result, not a panic.
	KindLookup
)

func (k Kind) String() string {
	switch k {
	case KindGraphLoad:
		return "GraphLoad"
	case KindGraphStructure:
		return "GraphStructure"
	case KindAttribute:
		return "Attribute"
	case KindRouting:
		return "Routing"
	case KindLookup:
		return "Lookup"
	default:
		return "Unknown"
	}
}

// Error is a classified topology error. Kind is the taxonomy tag consulted
// by the propagation policy in §7; Err is the underlying cause, wrapped with
// %w so errors.Is/errors.As still reach it.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("topology: %s", e.Kind)
	}
	return fmt.Sprintf("topology: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified Error wrapping err under kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf builds a classified Error from a format string, matching the
// fmt.Errorf-with-%w convention the rest of the corpus uses for context.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err is a topoerr.Error of the given kind. Preferred
// over a type assertion since it also unwraps.
func Is(err error, kind Kind) bool {
	var te *Error
	if !errors.As(err, &te) {
		return false
	}
	return te.Kind == kind
}

// Sentinel errors for conditions that do not need a dynamic message — used
// with errors.Is directly, or wrapped in a *Error via New when a Kind needs
// to travel with them.
var (
	ErrNotStronglyConnected = errors.New("topoerr: graph is not strongly connected")
	ErrMultipleClusters     = errors.New("topoerr: graph has more than one cluster")
	ErrIncompleteGraph      = errors.New("topoerr: useShortest=false requires a complete graph")
	ErrMissingAttribute     = errors.New("topoerr: required attribute missing")
	ErrAttributeOutOfRange  = errors.New("topoerr: attribute value out of range")
	ErrAttributeWrongType   = errors.New("topoerr: attribute has the wrong GML type")
	ErrAddressNotAttached   = errors.New("topoerr: address is not attached to the topology")
)
