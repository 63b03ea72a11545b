// File: gml.go
// Role: hand-rolled GML (Graph Modelling Language) reader, standing in for
// the source's igraph_read_graph_gml()+igraph_cattribute_table combination.
// No GML parser appears anywhere in the retrieved reference corpus (see
// DESIGN.md), so this is a small recursive-descent parser against the
// standard library only: tokenize, build an ordered key/value tree, then
// walk the "graph" block's "node"/"edge" entries into Graph.
package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// tokKind enumerates the handful of lexical classes GML needs.
type tokKind int

const (
	tokIdent tokKind = iota
	tokNumber
	tokString
	tokLBracket
	tokRBracket
	tokEOF
)

type token struct {
	kind tokKind
	text string
}

// lex tokenizes the entire GML source. GML comments run from '#' to end of
// line; strings are double-quoted; everything else is whitespace-delimited.
func lex(r io.Reader) ([]token, error) {
	br := bufio.NewReader(r)
	var toks []token
	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch {
		case ch == '#':
			for {
				c, _, err := br.ReadRune()
				if err != nil || c == '\n' {
					break
				}
			}
		case ch == '[':
			toks = append(toks, token{kind: tokLBracket})
		case ch == ']':
			toks = append(toks, token{kind: tokRBracket})
		case ch == '"':
			var sb strings.Builder
			for {
				c, _, err := br.ReadRune()
				if err != nil {
					return nil, fmt.Errorf("core: unterminated string literal")
				}
				if c == '"' {
					break
				}
				sb.WriteRune(c)
			}
			toks = append(toks, token{kind: tokString, text: sb.String()})
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			// skip
		default:
			var sb strings.Builder
			sb.WriteRune(ch)
			for {
				c, _, err := br.ReadRune()
				if err != nil {
					break
				}
				if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '[' || c == ']' || c == '"' || c == '#' {
					_ = br.UnreadRune()
					break
				}
				sb.WriteRune(c)
			}
			text := sb.String()
			if _, err := strconv.ParseFloat(text, 64); err == nil {
				toks = append(toks, token{kind: tokNumber, text: text})
			} else {
				toks = append(toks, token{kind: tokIdent, text: text})
			}
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

// kv is one "key value" pair parsed out of a GML bracketed list. value is
// exactly one of: scalar (kind != 0-value) or children (a nested list).
type kv struct {
	key      string
	isList   bool
	children []kv
	// scalar form
	attr AttrValue
}

// parseList parses a sequence of "key value" pairs up to (and consuming) a
// matching tokRBracket, or tokEOF at the top level.
func parseList(toks []token, pos *int, topLevel bool) ([]kv, error) {
	var out []kv
	for {
		t := toks[*pos]
		if t.kind == tokRBracket {
			if topLevel {
				return nil, fmt.Errorf("core: unexpected ']' at top level")
			}
			*pos++
			return out, nil
		}
		if t.kind == tokEOF {
			if topLevel {
				return out, nil
			}
			return nil, fmt.Errorf("core: unexpected end of file inside '[' block")
		}
		if t.kind != tokIdent {
			return nil, fmt.Errorf("core: expected attribute key, got %q", t.text)
		}
		key := t.text
		*pos++

		valTok := toks[*pos]
		switch valTok.kind {
		case tokLBracket:
			*pos++
			children, err := parseList(toks, pos, false)
			if err != nil {
				return nil, err
			}
			out = append(out, kv{key: key, isList: true, children: children})
		case tokString:
			*pos++
			out = append(out, kv{key: key, attr: AttrValue{Kind: AttrString, Str: valTok.text}})
		case tokNumber:
			*pos++
			num, err := strconv.ParseFloat(valTok.text, 64)
			if err != nil {
				return nil, fmt.Errorf("core: malformed numeric literal %q", valTok.text)
			}
			out = append(out, kv{key: key, attr: AttrValue{Kind: AttrNumeric, Str: valTok.text, Number: num}})
		default:
			return nil, fmt.Errorf("core: expected a value after key %q, got %q", key, valTok.text)
		}
	}
}

func find(fields []kv, key string) (kv, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.key, key) {
			return f, true
		}
	}
	return kv{}, false
}

func findAll(fields []kv, key string) []kv {
	var out []kv
	for _, f := range fields {
		if strings.EqualFold(f.key, key) {
			out = append(out, f)
		}
	}
	return out
}

func toAttrFields(fields []kv) []attrField {
	out := make([]attrField, 0, len(fields))
	for _, f := range fields {
		if f.isList {
			continue // GML topology attributes here are always scalar
		}
		out = append(out, attrField{Key: f.key, Value: f.attr})
	}
	return out
}

// NewFromGML parses the GML file at path into a Graph. Beyond rejecting a
// node without an "id" or with a duplicate one (edges are resolved by id),
// it does not validate attribute presence, type, or range — that is
// package validate's job, which runs against the Graph this returns.
func NewFromGML(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("core: opening topology file: %w", err)
	}
	defer f.Close()
	return ParseGML(f)
}

// ParseGML parses GML source from r into a Graph. Exported so tests and the
// validator's fixtures can build graphs from in-memory strings.
func ParseGML(r io.Reader) (*Graph, error) {
	toks, err := lex(r)
	if err != nil {
		return nil, fmt.Errorf("core: tokenizing GML: %w", err)
	}
	pos := 0
	top, err := parseList(toks, &pos, true)
	if err != nil {
		return nil, fmt.Errorf("core: parsing GML: %w", err)
	}

	graphKV, ok := find(top, "graph")
	if !ok || !graphKV.isList {
		return nil, fmt.Errorf("core: GML file has no top-level 'graph' block")
	}
	fields := graphKV.children

	directed := false
	if d, ok := find(fields, "directed"); ok && !d.isList {
		directed = d.attr.Number != 0
	}

	nodeKVs := findAll(fields, "node")
	g := NewGraph(directed, len(nodeKVs))

	idToIndex := make(map[int]int, len(nodeKVs))
	for _, n := range nodeKVs {
		idField, ok := find(n.children, "id")
		if !ok || idField.isList {
			return nil, fmt.Errorf("core: a 'node' block is missing its required 'id' attribute")
		}
		declaredID := int(idField.attr.Number)
		idx := g.addVertex(toAttrFields(n.children))
		if _, dup := idToIndex[declaredID]; dup {
			return nil, fmt.Errorf("%w: id=%d", ErrDuplicateVertexID, declaredID)
		}
		idToIndex[declaredID] = idx
	}

	for _, e := range findAll(fields, "edge") {
		srcField, ok1 := find(e.children, "source")
		dstField, ok2 := find(e.children, "target")
		if !ok1 || !ok2 || srcField.isList || dstField.isList {
			return nil, fmt.Errorf("core: an 'edge' block is missing 'source' or 'target'")
		}
		from, ok := idToIndex[int(srcField.attr.Number)]
		if !ok {
			return nil, fmt.Errorf("core: edge references unknown source id %d", int(srcField.attr.Number))
		}
		to, ok := idToIndex[int(dstField.attr.Number)]
		if !ok {
			return nil, fmt.Errorf("core: edge references unknown target id %d", int(dstField.attr.Number))
		}
		g.addEdge(from, to, toAttrFields(e.children))
	}

	return g, nil
}
