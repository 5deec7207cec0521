package clixon

import (
	"strconv"
	"strings"

	"github.com/PaesslerAG/gval"
)

// xpathStep is one "/name[predicate][predicate]..." step of a parsed
// XPath expression. name == "*" selects every child regardless of name.
type xpathStep struct {
	name       string
	predicates []string
}

// ParseXPath tokenizes the W3C XPath 1.0 subset spec.md §6 describes as
// the external XPath evaluator's input: an absolute path of named steps,
// each optionally followed by one or more bracketed predicates.
func ParseXPath(expr string) ([]xpathStep, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, nil
	}
	if s[0] != '/' {
		return nil, NewErrorf(ETagBadFormat, "xpath %q must be absolute", expr)
	}
	s = s[1:]
	var steps []xpathStep
	var cur xpathStep
	depth := 0
	begin := 0
	flushName := func(end int) {
		if cur.name == "" && begin < end {
			cur.name = s[begin:end]
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '/':
			if depth == 0 {
				flushName(i)
				steps = append(steps, cur)
				cur = xpathStep{}
				begin = i + 1
			}
		case '[':
			if depth == 0 {
				flushName(i)
				begin = i + 1
			}
			depth++
		case ']':
			depth--
			if depth == 0 {
				cur.predicates = append(cur.predicates, s[begin:i])
				begin = i + 1
			}
		}
	}
	flushName(len(s))
	steps = append(steps, cur)
	for _, st := range steps {
		if st.name == "" {
			return nil, NewErrorf(ETagBadFormat, "xpath %q has an empty step", expr)
		}
	}
	return steps, nil
}

// eqToGval loosens the single '=' XPath uses for equality into the '=='
// gval's expression language expects, leaving existing !=, <=, >=, ==
// untouched. The predicate grammar this module accepts is intentionally a
// subset (spec.md §6 "W3C XPath 1.0 subset"): simple comparisons and the
// position()/last() functions, which covers every predicate form spec.md
// §8's scenarios use.
func eqToGval(pred string) string {
	var b strings.Builder
	for i := 0; i < len(pred); i++ {
		c := pred[i]
		if c == '=' {
			prev := byte(0)
			if i > 0 {
				prev = pred[i-1]
			}
			next := byte(0)
			if i+1 < len(pred) {
				next = pred[i+1]
			}
			if prev == '!' || prev == '<' || prev == '>' || prev == '=' || next == '=' {
				b.WriteByte(c)
				continue
			}
			b.WriteString("==")
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func matchesPredicate(candidate *XmlNode, pos, count int, pred string) (bool, error) {
	pred = strings.TrimSpace(pred)
	if n, err := strconv.Atoi(pred); err == nil {
		return pos == n, nil
	}
	lang := gval.Full(
		gval.Function("position", func() int { return pos }),
		gval.Function("last", func() int { return count }),
	)
	vars := make(map[string]interface{}, len(candidate.Children))
	for _, c := range candidate.Children {
		if c.IsLeaf() {
			vars[c.Name] = c.Body
		}
	}
	val, err := lang.Evaluate(eqToGval(pred), vars)
	if err != nil {
		return false, NewErrorf(ETagBadFormat, "xpath predicate %q: %v", pred, err)
	}
	b, ok := val.(bool)
	if !ok {
		return false, NewErrorf(ETagBadFormat, "xpath predicate %q did not evaluate to a boolean", pred)
	}
	return b, nil
}

// Evaluate runs an XPath expression against root and returns the set of
// matching element handles (spec.md §6: "XPath evaluator ... returns a
// set of node handles within an XML tree"). It realizes, for this module,
// the external XPath-evaluator contract that Pruner (C5) consumes.
func Evaluate(root *XmlNode, expr string) ([]*XmlNode, error) {
	steps, err := ParseXPath(expr)
	if err != nil {
		return nil, err
	}
	candidates := []*XmlNode{root}
	for _, step := range steps {
		var next []*XmlNode
		for _, cand := range candidates {
			matched := make([]*XmlNode, 0, len(cand.Children))
			for _, c := range cand.Children {
				if step.name == "*" || c.Name == step.name {
					matched = append(matched, c)
				}
			}
			for pos, m := range matched {
				ok := true
				for _, pred := range step.predicates {
					good, err := matchesPredicate(m, pos+1, len(matched), pred)
					if err != nil {
						return nil, err
					}
					if !good {
						ok = false
						break
					}
				}
				if ok {
					next = append(next, m)
				}
			}
		}
		candidates = next
	}
	return candidates, nil
}

// Mark sets the MARK bit on every node in matches, per spec.md §4.4 step 1.
func Mark(matches []*XmlNode) {
	for _, n := range matches {
		n.Marked = true
	}
}

// Prune implements Pruner (spec.md §4.4, component C5): a node survives
// iff it is marked or any of its descendants survives; unmarked siblings
// with no surviving descendants are removed. MARK is cleared on exit so
// the tree remains reusable (I5).
func Prune(root *XmlNode) {
	pruneWalk(root)
	ClearMarks(root)
}

func pruneWalk(n *XmlNode) bool {
	survive := n.Marked
	kept := n.Children[:0]
	for _, c := range n.Children {
		if pruneWalk(c) {
			kept = append(kept, c)
			survive = true
		}
	}
	n.Children = kept
	return survive
}
