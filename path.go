package clixon

import (
	"regexp"
	"strings"
)

// KeyFormat is an XmlKey with every list-key / leaf-list placeholder
// position replaced by the literal "%s" (spec.md §3, §6).
type KeyFormat string

// XmlKey is the concrete, value-substituted form of a KeyFormat
// (spec.md §3, §6): '/' segment ( '/' segment )*.
type XmlKey string

// ValueVec is an ordered sequence of string-valued variables. Index 0 is
// reserved (the CLI command label) and is never substituted (spec.md §4.1).
type ValueVec []string

// SchemaToFormat implements PathCodec.schema_to_format (spec.md §4.1):
// ascend to the module root, then render downward, skipping choice/case
// (schema-only) nodes, appending one "%s" per list key leaf and exactly
// one "%s" for a leaf-list.
func SchemaToFormat(schema *SchemaNode) (KeyFormat, error) {
	chain := make([]*SchemaNode, 0, 8)
	for s := schema; s != nil && !s.IsRoot; s = s.Parent {
		chain = append(chain, s)
	}
	var b strings.Builder
	for i := len(chain) - 1; i >= 0; i-- {
		n := chain[i]
		if n.IsSchemaOnly() {
			continue
		}
		b.WriteByte('/')
		b.WriteString(n.Name)
		switch {
		case n.IsList():
			if len(n.Keyname) == 0 {
				return "", NewErrorf(ETagListWithoutKey, "list %q has no key", n.Name)
			}
			for range n.Keyname {
				b.WriteString("/%s")
			}
		case n.IsLeafList():
			b.WriteString("/%s")
		}
	}
	return KeyFormat(b.String()), nil
}

// FormatAndValuesToKey implements PathCodec.format_and_values_to_key
// (spec.md §4.1): scan fmt, copying literal characters, consuming one
// value (starting at index 1 of values; index 0 is the non-substitutable
// label) per "%s" placeholder. An over-length values is logged-and-
// ignored (no logger is wired into this pure function, so it is simply
// ignored, as the spec allows); a critically short values fails with
// BadFormat.
func FormatAndValuesToKey(format KeyFormat, values ValueVec) (XmlKey, error) {
	var b strings.Builder
	next := 1
	s := string(format)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+1 < len(s) && s[i+1] == 's' {
			if next >= len(values) {
				return "", NewErrorf(ETagBadFormat, "not enough values for format %q", format)
			}
			b.WriteString(values[next])
			next++
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return XmlKey(b.String()), nil
}

// FormatAndValuesToRegex is the mutation-engine variant of
// FormatAndValuesToKey: once values is exhausted, remaining placeholders
// become ".*" wildcards and the result is anchored as "^...$" for
// prefix/wildcard deletion (spec.md §4.1).
func FormatAndValuesToRegex(format KeyFormat, values ValueVec) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')
	next := 1
	s := string(format)
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '%' && i+1 < len(s) && s[i+1] == 's':
			if next < len(values) {
				b.WriteString(regexp.QuoteMeta(values[next]))
				next++
			} else {
				b.WriteString(".*")
			}
			i++
		case strings.ContainsRune(`.+*?()[]{}|^$\`, rune(s[i])):
			b.WriteByte('\\')
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('$')
	return regexp.Compile(b.String())
}

// SplitKey tokenizes an XmlKey into its '/'-separated elements, rejecting
// keys that do not begin with '/' or that yield fewer than 2 tokens
// (spec.md §4.3 step 1, error MalformedKey).
func SplitKey(key XmlKey) ([]string, error) {
	s := string(key)
	if len(s) == 0 || s[0] != '/' {
		return nil, NewErrorf(ETagMalformedKey, "key %q does not start with '/'", key)
	}
	tokens := strings.Split(s[1:], "/")
	if len(tokens) < 2 {
		return nil, NewErrorf(ETagMalformedKey, "key %q has fewer than 2 path elements", key)
	}
	for _, t := range tokens {
		if t == "" {
			return nil, NewErrorf(ETagMalformedKey, "key %q has an empty path element", key)
		}
	}
	return tokens, nil
}

// JoinKey is the inverse of SplitKey: it composes an XmlKey from path
// elements in order.
func JoinKey(elems ...string) XmlKey {
	return XmlKey("/" + strings.Join(elems, "/"))
}
