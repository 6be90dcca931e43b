// Package nhx reads and writes phylogenetic trees in the NHX dialect of
// the Newick format.
//
// The grammar follows the New Hampshire eXtended convention: a tree is
// a subtree terminated by a semicolon, a subtree is an optional
// parenthesized child list followed by a node, and a node is an
// optional name, an optional ":length" branch length, and an optional
// "[&&NHX:key=value...]" tag list. Identifiers may be quoted with
// double quotes, doubling embedded quotes. Square-bracket comments that
// do not open a tag list are skipped, as is whitespace.
//
//	(child,(grand,grand)child)root[&&NHX:event=speciation];
//
// The package deals purely in tagged nodes; mapping tags onto event
// trees lives in the tree package.
package nhx

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by all parse errors.
var ErrSyntax = errors.New("nhx syntax error")

// TaggedNode is the payload of one node of an NHX tree: a name, a
// branch length, and free-form string tags.
type TaggedNode struct {
	Name   string
	Length float64
	Tags   map[string]string
}

// Equal reports whether two tagged nodes carry the same name, length
// and tags.
func (n TaggedNode) Equal(other TaggedNode) bool {
	if n.Name != other.Name || n.Length != other.Length {
		return false
	}
	if len(n.Tags) != len(other.Tags) {
		return false
	}
	for k, v := range n.Tags {
		if other.Tags[k] != v {
			return false
		}
	}
	return true
}

// Node is a node of a parsed NHX tree together with its children.
type Node struct {
	TaggedNode
	Children []*Node
}

// Parse reads a single NHX tree from the input string. The whole input
// must be consumed: trailing content after the closing semicolon is an
// error.
func Parse(input string) (*Node, error) {
	p := &parser{input: input}
	p.skip()
	root, err := p.subtree()
	if err != nil {
		return nil, err
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	p.skip()
	if p.pos != len(p.input) {
		return nil, p.errorf("expected end of input")
	}
	return root, nil
}

// Format renders the tree in NHX syntax, children first, terminated by
// a semicolon. Tags are emitted in sorted key order so output is
// deterministic. Format is the inverse of Parse up to whitespace.
func Format(root *Node) string {
	var b strings.Builder
	formatNode(&b, root)
	b.WriteByte(';')
	return b.String()
}

func formatNode(b *strings.Builder, n *Node) {
	if len(n.Children) > 0 {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			formatNode(b, c)
		}
		b.WriteByte(')')
	}

	if n.Name != "" {
		b.WriteString(escape(n.Name))
	}
	if n.Length != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
	}
	if len(n.Tags) > 0 {
		b.WriteString("[&&NHX")
		keys := make([]string, 0, len(n.Tags))
		for k := range n.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(':')
			b.WriteString(escape(k))
			b.WriteByte('=')
			b.WriteString(escape(n.Tags[k]))
		}
		b.WriteByte(']')
	}
}

// delimiters are the characters that end an unquoted identifier.
const delimiters = "()[],:;= \t\r\n"

// escape quotes an identifier if it contains delimiter characters,
// doubling any embedded double quotes.
func escape(s string) string {
	if !strings.ContainsAny(s, delimiters) && !strings.Contains(s, `"`) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteString(`""`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	found := "<end>"
	if p.pos < len(p.input) {
		end := p.pos + 10
		if end > len(p.input) {
			end = len(p.input)
		}
		found = strconv.Quote(p.input[p.pos:end])
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at character %d, found %s", ErrSyntax, msg, p.pos, found)
}

// skip consumes whitespace and bracket comments. A bracket that opens a
// "[&&NHX" tag list is not a comment and stops the skip.
func (p *parser) skip() {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '[' && !strings.HasPrefix(p.input[p.pos+1:], "&&NHX"):
			end := strings.IndexByte(p.input[p.pos:], ']')
			if end < 0 {
				return
			}
			p.pos += end + 1
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos < len(p.input) {
		return p.input[p.pos], true
	}
	return 0, false
}

func (p *parser) expect(c byte) error {
	if got, ok := p.peek(); !ok || got != c {
		return p.errorf("expected %q", string(c))
	}
	p.pos++
	p.skip()
	return nil
}

// accept consumes c if it is next and reports whether it did.
func (p *parser) accept(c byte) bool {
	if got, ok := p.peek(); ok && got == c {
		p.pos++
		p.skip()
		return true
	}
	return false
}

func (p *parser) subtree() (*Node, error) {
	var children []*Node

	if p.accept('(') {
		for {
			child, err := p.subtree()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
			if !p.accept(',') {
				break
			}
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
	}

	node, err := p.node()
	if err != nil {
		return nil, err
	}
	node.Children = children
	return node, nil
}

func (p *parser) node() (*Node, error) {
	n := &Node{}

	if c, ok := p.peek(); ok && (c == '"' || !isDelimiter(c)) {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		n.Name = name
	}

	if p.accept(':') {
		length, err := p.number()
		if err != nil {
			return nil, err
		}
		n.Length = length
	}

	if c, ok := p.peek(); ok && c == '[' {
		tags, err := p.tagmap()
		if err != nil {
			return nil, err
		}
		n.Tags = tags
	}

	return n, nil
}

func (p *parser) tagmap() (map[string]string, error) {
	if !strings.HasPrefix(p.input[p.pos:], "[&&NHX") {
		return nil, p.errorf("expected tag list")
	}
	p.pos += len("[&&NHX")
	p.skip()

	tags := make(map[string]string)
	for p.accept(':') {
		key, err := p.ident()
		if err != nil {
			return nil, err
		}
		if err := p.expect('='); err != nil {
			return nil, err
		}
		value, err := p.ident()
		if err != nil {
			return nil, err
		}
		tags[key] = value
	}

	if len(tags) == 0 {
		return nil, p.errorf("expected at least one tag")
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return tags, nil
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && !isDelimiter(p.input[p.pos]) {
		p.pos++
	}
	text := p.input[start:p.pos]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf("expected branch length")
	}
	p.skip()
	return value, nil
}

func (p *parser) ident() (string, error) {
	if c, ok := p.peek(); ok && c == '"' {
		return p.quoted()
	}

	start := p.pos
	for p.pos < len(p.input) && !isDelimiter(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	text := p.input[start:p.pos]
	p.skip()
	return text, nil
}

func (p *parser) quoted() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c != '"' {
			b.WriteByte(c)
			p.pos++
			continue
		}
		if strings.HasPrefix(p.input[p.pos:], `""`) {
			b.WriteByte('"')
			p.pos += 2
			continue
		}
		p.pos++ // closing quote
		p.skip()
		return b.String(), nil
	}
	return "", p.errorf("unterminated quoted identifier")
}

func isDelimiter(c byte) bool {
	return strings.IndexByte(delimiters, c) >= 0
}
