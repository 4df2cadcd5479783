package symbols

// Visibility patterns use a small glob dialect over identity strings:
//
//	?    exactly one character that is not ':' or '/'
//	**/  zero or more characters of any kind (the trailing slash is
//	     consumed by the token and not required in the input)
//	**   zero or more characters of any kind
//	*    zero or more characters that are not ':' or '/'
//
// Patterns are anchored at both ends. Compilation scans the longest
// token first so "**" is never misread as two "*". The matcher works
// directly on this grammar rather than substituting into a regex
// engine; one consequence is that literal characters always match
// literally, where the historical regex-based resolver let stray
// metacharacters like '.' widen the match (see DESIGN.md).

type patternToken int

const (
	tokLiteral patternToken = iota // matches exactly one named rune
	tokOne                         // '?': one rune excluding ':' and '/'
	tokRun                         // '*': any run excluding ':' and '/'
	tokAny                         // '**' or '**/': any run
)

// Pattern is a compiled visibility glob.
type Pattern struct {
	source   string
	tokens   []patternToken
	literals []rune // parallel to tokens; meaningful for tokLiteral only
}

// CompilePattern tokenizes a glob pattern. Compilation cannot fail:
// every input is a valid pattern in this dialect.
func CompilePattern(source string) *Pattern {
	p := &Pattern{source: source}
	runes := []rune(source)
	for i := 0; i < len(runes); {
		switch {
		case runes[i] == '*' && i+2 < len(runes) && runes[i+1] == '*' && runes[i+2] == '/':
			p.push(tokAny, 0)
			i += 3
		case runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '*':
			p.push(tokAny, 0)
			i += 2
		case runes[i] == '*':
			p.push(tokRun, 0)
			i++
		case runes[i] == '?':
			p.push(tokOne, 0)
			i++
		default:
			p.push(tokLiteral, runes[i])
			i++
		}
	}
	return p
}

func (p *Pattern) push(tok patternToken, literal rune) {
	p.tokens = append(p.tokens, tok)
	p.literals = append(p.literals, literal)
}

// Source returns the original pattern string.
func (p *Pattern) Source() string {
	return p.source
}

// Match tests the whole input against the whole pattern.
func (p *Pattern) Match(input string) bool {
	return p.match(0, []rune(input), 0)
}

func isSeparator(r rune) bool {
	return r == ':' || r == '/'
}

// match is a backtracking walk over tokens and input runes. Wildcard
// tokens try the shortest expansion first and grow on failure; inputs
// here are identity strings, short enough that memoization would cost
// more than it saves.
func (p *Pattern) match(ti int, input []rune, ii int) bool {
	for ti < len(p.tokens) {
		switch p.tokens[ti] {
		case tokLiteral:
			if ii >= len(input) || input[ii] != p.literals[ti] {
				return false
			}
			ti++
			ii++
		case tokOne:
			if ii >= len(input) || isSeparator(input[ii]) {
				return false
			}
			ti++
			ii++
		case tokRun:
			for skip := 0; ; skip++ {
				if p.match(ti+1, input, ii+skip) {
					return true
				}
				if ii+skip >= len(input) || isSeparator(input[ii+skip]) {
					return false
				}
			}
		case tokAny:
			for skip := 0; ; skip++ {
				if p.match(ti+1, input, ii+skip) {
					return true
				}
				if ii+skip >= len(input) {
					return false
				}
			}
		}
	}
	return ii == len(input)
}
