// Package naming derives url segments, element names and component names
// from Go identifiers.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kebab converts "ProjectType" or "projectType" to "project-type". Runs of
// upper case letters are kept together ("HTMLPage" -> "html-page").
func Kebab(s string) string {
	runes := []rune(strings.TrimSpace(s))
	var b strings.Builder

	for i, r := range runes {
		switch {
		case r == '_' || r == ' ' || r == '-':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteRune('-')
			}
			continue
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") && (prevLower || (prevUpper && nextLower)) {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "-")
}

// Resource turns a type name into the plural kebab-case segment used in urls
// ("ProjectType" -> "project-types").
func Resource(name string) string {
	parts := strings.Split(Kebab(name), "-")
	parts[len(parts)-1] = inflection.Plural(parts[len(parts)-1])
	return strings.Join(parts, "-")
}

func Plural(s string) string {
	return inflection.Plural(s)
}

func Singular(s string) string {
	return inflection.Singular(s)
}

// Title turns "send-mail" or "send_mail" into "Send Mail".
func Title(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(s)
}
