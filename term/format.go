package term

import (
	"fmt"
	"strings"

	"github.com/c360studio/semottr/vocabulary/ottr"
)

var defaultPrefixes = ottr.DefaultPrefixes()

// Format renders t in stOTTR-like syntax, shortening IRIs with prefixes.
func Format(t Term, prefixes ottr.Prefixes) string {
	var sb strings.Builder
	write(&sb, t, prefixes)
	return sb.String()
}

func write(sb *strings.Builder, t Term, prefixes ottr.Prefixes) {
	switch x := t.(type) {
	case None:
		sb.WriteString("none")
	case IRI:
		switch {
		case x.iri == ottr.None && !x.variable:
			sb.WriteString("none")
		case x.variable:
			sb.WriteString("?")
			sb.WriteString(prefixes.Shorten(x.iri))
		default:
			sb.WriteString(prefixes.Shorten(x.iri))
		}
	case Literal:
		if x.variable {
			sb.WriteString("?")
		}
		sb.WriteString(`"`)
		sb.WriteString(escapeString(x.value))
		sb.WriteString(`"`)
		switch {
		case x.lang != "":
			sb.WriteString("@")
			sb.WriteString(x.lang)
		case x.datatype != "" && x.datatype != ottr.XSDString:
			sb.WriteString("^^")
			sb.WriteString(prefixes.Shorten(x.datatype))
		}
	case Blank:
		if x.variable {
			sb.WriteString("?")
		} else {
			sb.WriteString("_:")
		}
		sb.WriteString(x.label)
	case List:
		if x.variable {
			sb.WriteString("?")
		}
		sb.WriteString("(")
		for i, e := range x.elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, e, prefixes)
		}
		sb.WriteString(")")
	default:
		panic(fmt.Sprintf("term: unknown term %T", t))
	}
}

// escapeString escapes special characters for a quoted literal.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
