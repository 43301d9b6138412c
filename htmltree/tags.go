package htmltree

// voidTags is the set of elements with no end tag and no children
// (spec.md §4.C).
var voidTags = map[string]bool{
	"area": true, "br": true, "embed": true, "img": true, "keygen": true,
	"wbr": true, "input": true, "param": true, "source": true, "track": true,
	"hr": true, "image": true, "base": true, "basefont": true, "bgsound": true,
	"link": true, "meta": true, "col": true, "frame": true, "menuitem": true,
}

// formattingTags is the set of inline formatters subject to the active-
// formatting-list reconstruction and misnesting-recovery algorithms
// (spec.md §4.D).
var formattingTags = map[string]bool{
	"b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "s": true, "small": true, "strike": true, "strong": true,
	"tt": true, "u": true, "a": true,
}

// blockOpeningTags close an open <p> in scope before they are opened
// (spec.md §4.D.1 step 3).
var blockOpeningTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "header": true, "hgroup": true, "main": true, "menu": true,
	"nav": true, "ol": true, "p": true, "section": true, "summary": true,
	"ul": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "pre": true, "listing": true, "form": true,
}

// tableContainerTags self-close their own open instance in table scope
// (spec.md §4.D.1 step 4).
var tableContainerTags = map[string]bool{
	"caption": true, "colgroup": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "tr": true,
}

// listItemTags self-close in list scope (spec.md §4.D.1 step 5).
var listItemTags = map[string]bool{"dd": true, "dt": true, "li": true}

// selectItemTags self-close in select scope (spec.md §4.D.1 step 6).
var selectItemTags = map[string]bool{"optgroup": true, "option": true}

// Scope sets, named per spec.md §4.D's table.
var (
	defaultScope = map[string]bool{
		"applet": true, "caption": true, "table": true, "marquee": true,
		"object": true, "template": true,
	}
	listScope   = unionWith(defaultScope, "ol", "ul")
	buttonScope = unionWith(defaultScope, "button")
	blockScope  = unionBlock()
	tableScope  = map[string]bool{"html": true, "table": true, "template": true}
	selectScope = map[string]bool{"optgroup": true, "option": true}
)

func unionWith(base map[string]bool, extra ...string) map[string]bool {
	out := make(map[string]bool, len(base)+len(extra))
	for k := range base {
		out[k] = true
	}
	for _, e := range extra {
		out[e] = true
	}
	return out
}

func unionBlock() map[string]bool {
	out := make(map[string]bool, len(defaultScope)+len(blockOpeningTags)+1)
	for k := range defaultScope {
		out[k] = true
	}
	for k := range blockOpeningTags {
		out[k] = true
	}
	out["button"] = true
	return out
}
