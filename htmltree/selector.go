package htmltree

import "strings"

// Selector is a compiled CSS-subset query (spec.md §4.E). It is safe to
// reuse against multiple subtrees.
type Selector struct {
	steps []selectorStep
}

type combinator int

const (
	combNone combinator = iota // the first step, no combinator before it
	combDescendant
	combChild
)

type selectorStep struct {
	comb     combinator
	tag      string // "" means any tag ("*" or omitted)
	classes  []string
	id       string
	contains string
	hasText  bool // whether :contains(...) was present
}

// matches reports whether e satisfies this step's tag/class/id/
// contains conjunction, ignoring the combinator.
func (s selectorStep) matches(e Element) bool {
	if s.tag != "" && e.Tag() != s.tag {
		return false
	}
	if s.id != "" {
		if v, ok := e.Attr("id"); !ok || v != s.id {
			return false
		}
	}
	if len(s.classes) > 0 {
		cl := e.ClassList()
		for _, c := range s.classes {
			if _, ok := cl[c]; !ok {
				return false
			}
		}
	}
	if s.hasText {
		if !strings.Contains(e.TextContent(), s.contains) {
			return false
		}
	}
	return true
}

// Compile parses a CSS fragment restricted to tag names, `*`, `.class`,
// `#id`, `:contains("…")`/`:contains(…)`, descendant (whitespace) and
// child (`>`) combinators. Grounded on spec.md §4.E; implemented as a
// hand-written recursive-descent scan over the selector text rather than
// a regex, in the style of the teacher's chtml/attr_scanner.go cursor-
// based token scanning.
func Compile(selector string) (*Selector, error) {
	p := &selParser{s: selector}
	steps, err := p.parse()
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, ErrInvalidSelector
	}
	return &Selector{steps: steps}, nil
}

// Select evaluates the selector against root's subtree (root itself is
// never included, matching a descendant-style query root), returning
// matches in first-encountered document order with duplicates removed.
func (sel *Selector) Select(root Element) []Element {
	return evalSelector(sel, root)
}

// evalSelector is the actual matcher: for each step in sequence, it
// expands the current candidate set by either a full descendant search
// (combDescendant) or a direct-children-only search (combChild),
// filtering by that step's simple-selector conjunction.
func evalSelector(sel *Selector, root Element) []Element {
	candidates := []Element{root}

	for i, step := range sel.steps {
		var next []Element
		seen := make(map[int]bool)

		for _, c := range candidates {
			var found []Element
			if i == 0 || step.comb == combDescendant {
				c.Descendants(func(d Element) bool {
					if step.matches(d) {
						found = append(found, d)
					}
					return true
				})
			} else { // combChild
				for ch := c.FirstChild(); !ch.IsZero(); ch = ch.NextSibling() {
					if step.matches(ch) {
						found = append(found, ch)
					}
				}
			}
			for _, f := range found {
				if !seen[f.idx] {
					seen[f.idx] = true
					next = append(next, f)
				}
			}
		}
		candidates = next
	}

	return candidates
}

type selParser struct {
	s   string
	pos int
}

func (p *selParser) parse() ([]selectorStep, error) {
	var steps []selectorStep
	comb := combDescendant

	for {
		p.skipSpace()
		if p.pos >= len(p.s) {
			break
		}

		if p.s[p.pos] == '>' {
			p.pos++
			p.skipSpace()
			comb = combChild
			continue
		}

		step, err := p.parseSimple()
		if err != nil {
			return nil, err
		}
		if len(steps) == 0 {
			step.comb = combNone
		} else {
			step.comb = comb
		}
		steps = append(steps, step)
		comb = combDescendant

		if p.pos < len(p.s) && !isSelSpace(p.s[p.pos]) && p.s[p.pos] != '>' {
			return nil, ErrInvalidSelector
		}
	}

	return steps, nil
}

func (p *selParser) parseSimple() (selectorStep, error) {
	var step selectorStep
	sawAny := false

	if p.pos < len(p.s) && p.s[p.pos] == '*' {
		p.pos++
		sawAny = true
	} else if p.pos < len(p.s) && isNameStart(p.s[p.pos]) {
		start := p.pos
		for p.pos < len(p.s) && isNameChar(p.s[p.pos]) {
			p.pos++
		}
		step.tag = strings.ToLower(p.s[start:p.pos])
		sawAny = true
	}

	for p.pos < len(p.s) {
		switch {
		case p.s[p.pos] == '.':
			p.pos++
			start := p.pos
			for p.pos < len(p.s) && isNameChar(p.s[p.pos]) {
				p.pos++
			}
			if p.pos == start {
				return step, ErrInvalidSelector
			}
			step.classes = append(step.classes, p.s[start:p.pos])
			sawAny = true

		case p.s[p.pos] == '#':
			p.pos++
			start := p.pos
			for p.pos < len(p.s) && isNameChar(p.s[p.pos]) {
				p.pos++
			}
			if p.pos == start {
				return step, ErrInvalidSelector
			}
			step.id = p.s[start:p.pos]
			sawAny = true

		case strings.HasPrefix(p.s[p.pos:], ":contains("):
			p.pos += len(":contains(")
			text, err := p.parseContainsArg()
			if err != nil {
				return step, err
			}
			step.contains = text
			step.hasText = true
			sawAny = true

		default:
			if !sawAny {
				return step, ErrInvalidSelector
			}
			return step, nil
		}
	}

	if !sawAny {
		return step, ErrInvalidSelector
	}
	return step, nil
}

func (p *selParser) parseContainsArg() (string, error) {
	if p.pos >= len(p.s) {
		return "", ErrInvalidSelector
	}
	if p.s[p.pos] == '"' || p.s[p.pos] == '\'' {
		quote := p.s[p.pos]
		p.pos++
		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] != quote {
			p.pos++
		}
		if p.pos >= len(p.s) {
			return "", ErrInvalidSelector
		}
		text := p.s[start:p.pos]
		p.pos++ // closing quote
		if p.pos >= len(p.s) || p.s[p.pos] != ')' {
			return "", ErrInvalidSelector
		}
		p.pos++
		return text, nil
	}

	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != ')' {
		p.pos++
	}
	if p.pos >= len(p.s) {
		return "", ErrInvalidSelector
	}
	text := p.s[start:p.pos]
	p.pos++
	return text, nil
}

func (p *selParser) skipSpace() {
	for p.pos < len(p.s) && isSelSpace(p.s[p.pos]) {
		p.pos++
	}
}

func isSelSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

func isNameStart(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}
