package sanitize

// Action is the treatment a tag receives during sanitization.
type Action int

const (
	// AllowAttrs keeps the tag, removing every attribute not in Rule.Attrs.
	AllowAttrs Action = iota
	// Unwrap removes the tag itself but keeps its children.
	Unwrap
	// DropWithContents removes the tag and everything inside it.
	DropWithContents
)

// Rule is the policy applied to a single tag name.
type Rule struct {
	Action Action
	Attrs  map[string]struct{}
}

// Allows reports whether the named attribute survives this rule.
func (r Rule) Allows(attr string) bool {
	if r.Action != AllowAttrs {
		return false
	}
	_, ok := r.Attrs[attr]
	return ok
}

func allow(attrs ...string) Rule {
	set := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		set[a] = struct{}{}
	}
	return Rule{Action: AllowAttrs, Attrs: set}
}

var (
	unwrapRule = Rule{Action: Unwrap}
	dropRule   = Rule{Action: DropWithContents}

	// defaultRule applies to every tag without an entry in rules.
	defaultRule = allow("style")

	rules = map[string]Rule{
		"html": unwrapRule,
		"body": unwrapRule,

		"head":   dropRule,
		"script": dropRule,
		"style":  dropRule,
		// Raw text elements; the tokenizer does not decode entities inside them.
		"iframe":    dropRule,
		"noembed":   dropRule,
		"noframes":  dropRule,
		"noscript":  dropRule,
		"plaintext": dropRule,
		"xmp":       dropRule,

		"a":   allow("href"),
		"img": allow("src", "width", "height"),
	}
)

// RuleFor returns the policy rule for the named (lower case) tag.
func RuleFor(tag string) Rule {
	if r, ok := rules[tag]; ok {
		return r
	}
	return defaultRule
}

// voidElements never have content or an end tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {}, "input": {},
	"link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}
