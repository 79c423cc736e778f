package engine

// kwPrefix marks keyword arguments rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     need to be bound as globals.
//  2. kebab-case identifiers become snake_case (cube-mesh -> cube_mesh),
//     since zygomys reads a hyphen as subtraction.
//  3. ; and ;; line comments become // comments.
//
// String literals are copied untouched. Line structure is preserved so
// error line numbers still refer to the original source.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch c := b[i]; {
		case c == '"':
			j := skipQuoted(b, i, '"', true)
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := skipQuoted(b, i, '`', false)
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the literal opened at b[start].
func skipQuoted(b []byte, start int, quote byte, escapes bool) int {
	i := start + 1
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			i += 2
			continue
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
