package parser

import (
	"math"
	"slices"
	"strconv"

	"github.com/valyala/fastjson/fastfloat"

	"github.com/biggeezerdevelopment/stackjson/internal/scanner"
	"github.com/biggeezerdevelopment/stackjson/internal/stack"
)

// construct is the kind of an open-construct entry.
type construct uint8

const (
	objectOpen construct = iota + 1
	arrayOpen
	numberOpen
	stringOpen
	trueOpen
	falseOpen
	nullOpen
)

func (c construct) String() string {
	switch c {
	case objectOpen:
		return "object"
	case arrayOpen:
		return "array"
	case numberOpen:
		return "number"
	case stringOpen:
		return "string"
	case trueOpen:
		return "true literal"
	case falseOpen:
		return "false literal"
	case nullOpen:
		return "null literal"
	}
	return "construct"
}

func (c construct) aggregate() bool {
	return c == objectOpen || c == arrayOpen
}

// literal returns the letters that must follow the opening letter.
func (c construct) literal() (string, Value) {
	switch c {
	case trueOpen:
		return "rue", NewBool(true)
	case falseOpen:
		return "alse", NewBool(false)
	}
	return "ull", NewNull()
}

// openEntry is a construct whose opening character has been seen.
type openEntry struct {
	kind  construct
	start int

	// Bookkeeping for aggregates. Ownership of completed values is decided
	// by start ordering alone; these only validate separators.
	children   int
	separators int
	phaseBase  int
}

// completed is a fully scanned value not yet attached to its parent.
type completed struct {
	value Value
	start int
}

type phase uint8

const (
	parsingKey phase = iota + 1
	parsingValue
)

const stackHint = 128

// Parser turns JSON text into a Value tree with an explicit state machine.
// A Parser is reusable but not safe for concurrent use.
type Parser struct {
	opts     Options
	maxDepth int

	src    *scanner.Source
	cursor int
	depth  int

	open    *stack.Stack[openEntry]
	results *stack.Stack[completed]
	phases  *stack.Stack[phase]
}

func New(opts Options) *Parser {
	return &Parser{
		opts:     opts,
		maxDepth: opts.maxDepth(),
		open:     stack.New[openEntry](stackHint),
		results:  stack.New[completed](stackHint),
		phases:   stack.New[phase](stackHint),
	}
}

// Reset clears all parse state and installs opts.
func (p *Parser) Reset(opts Options) {
	p.opts = opts
	p.maxDepth = opts.maxDepth()
	p.reset()
}

func (p *Parser) reset() {
	if p.src != nil {
		p.src.Release()
		p.src = nil
	}
	p.cursor = 0
	p.depth = 0
	p.open.Reset(4 * stackHint)
	p.results.Reset(4 * stackHint)
	p.phases.Reset(4 * stackHint)
}

// Parse scans text once and returns its root value. On error no partial
// value is returned.
func (p *Parser) Parse(text string) (Value, error) {
	src, err := scanner.New(text)
	if err != nil {
		return Value{}, &SyntaxError{Kind: EndOfInputTooEarly}
	}
	p.reset()
	p.src = src
	defer p.reset()

	n := src.Len()
	for p.cursor < n {
		if err := p.step(); err != nil {
			return Value{}, err
		}
	}
	return p.finish()
}

func (p *Parser) step() error {
	c := p.src.At(p.cursor)
	top, ok := p.open.Peek()

	if scanner.IsWhitespace(c) && (!ok || top.kind.aggregate()) {
		p.cursor++
		return nil
	}

	if !ok {
		if !p.results.Empty() {
			if p.opener(c) == 0 {
				return newUnexpected(p.cursor, c)
			}
			return &SyntaxError{Kind: MultipleRootValues, Offset: p.cursor}
		}
		return p.openAt(c)
	}

	switch top.kind {
	case stringOpen:
		return p.scanString(top)
	case numberOpen:
		if p.isNumber(c) {
			p.cursor++
			return nil
		}
		return p.closeNumber(top, p.cursor)
	case trueOpen, falseOpen, nullOpen:
		return p.scanLiteral(top)
	case arrayOpen:
		return p.stepArray(top, c)
	case objectOpen:
		return p.stepObject(top, c)
	}
	return newUnexpected(p.cursor, c)
}

func (p *Parser) isNumber(c rune) bool {
	if p.opts.StandardNumbers {
		return scanner.IsNumber(c)
	}
	return scanner.IsLegacyNumber(c)
}

// opener returns the construct that c begins, or 0.
func (p *Parser) opener(c rune) construct {
	switch c {
	case '"':
		return stringOpen
	case '{':
		return objectOpen
	case '[':
		return arrayOpen
	case 't':
		return trueOpen
	case 'f':
		return falseOpen
	case 'n':
		return nullOpen
	}
	if p.opts.StandardNumbers {
		if scanner.IsNumberStart(c) {
			return numberOpen
		}
	} else if scanner.IsLegacyNumber(c) {
		return numberOpen
	}
	return 0
}

// openAt pushes the construct beginning at the cursor and moves past its
// opening character.
func (p *Parser) openAt(c rune) error {
	kind := p.opener(c)
	if kind == 0 {
		return newUnexpected(p.cursor, c)
	}
	entry := openEntry{kind: kind, start: p.cursor}
	if kind.aggregate() {
		p.depth++
		if p.maxDepth > 0 && p.depth > p.maxDepth {
			return &SyntaxError{
				Kind:   MaxDepthExceeded,
				Offset: p.cursor,
				Reason: "exceeded max depth of " + strconv.Itoa(p.maxDepth),
			}
		}
		entry.phaseBase = p.phases.Len()
		if kind == objectOpen {
			p.phases.Push(parsingKey)
		}
	}
	p.open.Push(entry)
	p.cursor++
	return nil
}

// emit records a finished value and credits it to the enclosing aggregate.
func (p *Parser) emit(v Value, start int) {
	p.results.Push(completed{value: v, start: start})
	if parent := p.open.Top(); parent != nil {
		parent.children++
	}
}

func (p *Parser) scanString(top openEntry) error {
	n := p.src.Len()
	for p.cursor < n {
		switch p.src.At(p.cursor) {
		case '\\':
			p.cursor += 2
		case '"':
			body := p.src.Runes(top.start+1, p.cursor)
			var s string
			if p.opts.DecodeEscapes {
				decoded, at, err := unescape(body)
				if err != nil {
					return newUnexpected(top.start+1+at, body[at])
				}
				s = decoded
			} else {
				s = string(body)
			}
			p.open.Pop()
			p.emit(NewString(s), top.start)
			p.cursor++
			return nil
		default:
			p.cursor++
		}
	}
	return nil
}

// closeNumber converts the span [top.start, end) and pops the number. The
// character at end, if any, is left for the enclosing state.
func (p *Parser) closeNumber(top openEntry, end int) error {
	span := p.src.Runes(top.start, end)
	if p.opts.StandardNumbers {
		if at, err := scanner.ValidNumber(span); err != nil {
			return p.unexpectedAt(top.start + at)
		}
	}
	f, err := fastfloat.Parse(string(span))
	if err != nil || math.IsInf(f, 0) {
		return p.unexpectedAt(end)
	}
	p.open.Pop()
	p.emit(NewNumber(f), top.start)
	return nil
}

func (p *Parser) unexpectedAt(offset int) *SyntaxError {
	var c rune
	if offset < p.src.Len() {
		c = p.src.At(offset)
	}
	return newUnexpected(offset, c)
}

func (p *Parser) scanLiteral(top openEntry) error {
	rest, v := top.kind.literal()
	match, short := p.src.HasPrefixAt(p.cursor, rest)
	if short {
		return &SyntaxError{Kind: UnterminatedInput, Offset: top.start, Reason: "unterminated " + top.kind.String()}
	}
	if !match {
		return newUnexpected(top.start, p.src.At(top.start))
	}
	p.cursor += len(rest)
	p.open.Pop()
	p.emit(v, top.start)
	return nil
}

func (p *Parser) stepArray(top openEntry, c rune) error {
	elementDone := top.children == top.separators+1
	switch c {
	case ']':
		if !elementDone && top.separators > 0 {
			return newStructural(p.cursor, "trailing comma in array")
		}
		return p.closeArray()
	case ',':
		if !elementDone {
			return newStructural(p.cursor, "unexpected comma in array")
		}
		p.open.Top().separators++
		p.cursor++
		return nil
	}
	if elementDone {
		// A character nothing can start, such as the 0 in 10 under the
		// narrow grammar, is a bad tail rather than a missing comma.
		if p.opener(c) == 0 {
			return newUnexpected(p.cursor, c)
		}
		return newStructural(p.cursor, "expected ',' or ']' after array element")
	}
	return p.openAt(c)
}

func (p *Parser) closeArray() error {
	entry, _ := p.open.Pop()
	items := make([]Value, 0, entry.children)
	for {
		r, ok := p.results.Peek()
		if !ok || r.start <= entry.start {
			break
		}
		p.results.Pop()
		items = append(items, r.value)
	}
	if len(items) != entry.children {
		return newStructural(p.cursor, "array element stack inconsistency")
	}
	slices.Reverse(items)
	p.depth--
	p.emit(NewArray(items...), entry.start)
	p.cursor++
	return nil
}

func (p *Parser) stepObject(top openEntry, c rune) error {
	last, ok := p.phases.Peek()
	if !ok || p.phases.Len() == top.phaseBase {
		return newStructural(p.cursor, "no last phase")
	}
	markers := p.phases.Len() - top.phaseBase
	slotDone := top.children == markers

	switch c {
	case '}':
		switch {
		case slotDone && last == parsingValue:
		case markers == 1 && top.children == 0:
		case slotDone:
			return newStructural(p.cursor, "expected ':' after object key")
		case last == parsingValue:
			return newStructural(p.cursor, "expected value after ':'")
		default:
			return newStructural(p.cursor, "trailing comma in object")
		}
		return p.closeObject()
	case ':':
		if last == parsingValue {
			return newStructural(p.cursor, "last phase was value")
		}
		if !slotDone {
			return newStructural(p.cursor, "missing object key before ':'")
		}
		p.phases.Push(parsingValue)
		p.cursor++
		return nil
	case ',':
		if !slotDone || last != parsingValue {
			return newStructural(p.cursor, "unexpected comma in object")
		}
		p.phases.Push(parsingKey)
		p.cursor++
		return nil
	}

	if slotDone {
		if p.opener(c) == 0 {
			return newUnexpected(p.cursor, c)
		}
		if last == parsingKey {
			return newStructural(p.cursor, "expected ':' after object key")
		}
		return newStructural(p.cursor, "expected ',' or '}' after object value")
	}
	if last == parsingKey {
		kind := p.opener(c)
		if kind == 0 {
			return newUnexpected(p.cursor, c)
		}
		if kind != stringOpen {
			return newStructural(p.cursor, "object key not string")
		}
	}
	return p.openAt(c)
}

func (p *Parser) closeObject() error {
	entry, _ := p.open.Pop()
	members := make(map[string]Value, entry.children/2)
	for {
		r, ok := p.results.Peek()
		if !ok || r.start <= entry.start {
			break
		}
		val, _ := p.results.Pop()

		key, ok := p.results.Peek()
		if !ok || key.start <= entry.start {
			return newStructural(p.cursor, "object member without key")
		}
		p.results.Pop()
		name, isString := key.value.AsString()
		if !isString {
			return newStructural(p.cursor, "object key not string")
		}
		// Pairs come off the stack last member first, so an earlier
		// duplicate must not overwrite a later one.
		if _, seen := members[name]; !seen {
			members[name] = val.value
		}
	}
	p.phases.Truncate(entry.phaseBase)
	p.depth--
	p.emit(NewObject(members), entry.start)
	p.cursor++
	return nil
}

func (p *Parser) finish() (Value, error) {
	if top, ok := p.open.Peek(); ok && top.kind == numberOpen {
		if err := p.closeNumber(top, p.src.Len()); err != nil {
			return Value{}, err
		}
	}
	if top, ok := p.open.Peek(); ok {
		return Value{}, &SyntaxError{
			Kind:   UnterminatedInput,
			Offset: top.start,
			Reason: "unterminated " + top.kind.String(),
		}
	}
	switch p.results.Len() {
	case 0:
		return Value{}, &SyntaxError{Kind: EndOfInputTooEarly, Offset: p.src.Len()}
	case 1:
		root, _ := p.results.Pop()
		return root.value, nil
	}
	second, _ := p.results.At(p.results.Len() - 2)
	return Value{}, &SyntaxError{Kind: MultipleRootValues, Offset: second.start}
}
