// Package templates renders site pages by flat placeholder substitution and
// ships the starter templates written by `mdsite init`.
//
// A template is plain text with {name} placeholders. There is no expression
// language: each placeholder is replaced by the value of the same name, "{{"
// and "}}" produce literal braces, and anything else between braces is an
// error.
package templates

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPlaceholder is returned when a template names a value that was not supplied.
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
	// ErrMalformedTemplate is returned for braces that do not form a placeholder.
	ErrMalformedTemplate = errors.New("malformed template")
)

// Format substitutes every {name} placeholder in tpl with values[name].
// Unused values are ignored. Nothing is returned on error.
func Format(tpl string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tpl))

	for i := 0; i < len(tpl); {
		switch tpl[i] {
		case '{':
			if i+1 < len(tpl) && tpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tpl[i+1:], '}')
			if end < 0 {
				return "", malformed(tpl, i, "unclosed '{'")
			}
			name := tpl[i+1 : i+1+end]
			if !validName(name) {
				return "", malformed(tpl, i, fmt.Sprintf("invalid placeholder %q", name))
			}
			value, ok := values[name]
			if !ok {
				return "", fmt.Errorf("%w %q at line %d", ErrUnknownPlaceholder, name, lineAt(tpl, i))
			}
			b.WriteString(value)
			i += end + 2
		case '}':
			if i+1 < len(tpl) && tpl[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", malformed(tpl, i, "single '}'")
		default:
			b.WriteByte(tpl[i])
			i++
		}
	}
	return b.String(), nil
}

// Placeholders lists the distinct placeholder names of tpl in order of first use.
func Placeholders(tpl string) ([]string, error) {
	var names []string
	seen := map[string]bool{}
	collect := map[string]string{}

	for i := 0; i < len(tpl); i++ {
		if tpl[i] != '{' {
			continue
		}
		if i+1 < len(tpl) && tpl[i+1] == '{' {
			i++
			continue
		}
		end := strings.IndexByte(tpl[i+1:], '}')
		if end < 0 {
			break
		}
		name := tpl[i+1 : i+1+end]
		if validName(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
			collect[name] = ""
		}
		i += end + 1
	}

	// Format reports any remaining syntax error.
	if _, err := Format(tpl, collect); err != nil {
		return nil, err
	}
	return names, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func malformed(tpl string, pos int, reason string) error {
	return fmt.Errorf("%w: %s at line %d", ErrMalformedTemplate, reason, lineAt(tpl, pos))
}

func lineAt(s string, pos int) int {
	return strings.Count(s[:pos], "\n") + 1
}
