package planner

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// snippetLimit bounds the offending-text excerpt carried by a SanitizeError.
const snippetLimit = 240

var (
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_-]*)\s*:`)
	singleQuotedRe  = regexp.MustCompile(`:\s*'((?:[^'\\]|\\.)*)'`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// SanitizeResponse recovers a syntactically valid JSON string from a raw
// model response. Models routinely wrap the payload in markdown fences and
// surround it with prose, and occasionally emit near-JSON (unquoted keys,
// single quotes, raw newlines inside strings, trailing commas). The repair
// pass is a cheap regex heuristic, not a grammar corrector; anything it
// cannot fix becomes a SanitizeError and the caller falls back.
func SanitizeResponse(raw string) (string, error) {
	text := stripFences(raw)
	text = sliceToBraces(text)

	if json.Valid([]byte(text)) {
		return text, nil
	}
	strictErr := strictParseError(text)

	repaired := repairJSON(text)
	if json.Valid([]byte(repaired)) {
		return repaired, nil
	}

	return "", &SanitizeError{
		StrictErr: strictErr,
		RepairErr: strictParseError(repaired),
		Snippet:   truncate(raw, snippetLimit),
	}
}

// stripFences removes markdown code-fence markers and surrounding whitespace.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// sliceToBraces cuts the text down to the span between the first '{' and the
// last '}', discarding any leading or trailing prose the model added.
func sliceToBraces(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// repairJSON applies the second-pass textual repairs in a fixed order:
// quote bare object keys, rewrite single-quoted values, collapse raw
// newlines/tabs inside string values, strip trailing commas.
func repairJSON(text string) string {
	text = unquotedKeyRe.ReplaceAllString(text, `$1"$2":`)

	text = singleQuotedRe.ReplaceAllStringFunc(text, func(match string) string {
		inner := singleQuotedRe.FindStringSubmatch(match)[1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		return `: "` + inner + `"`
	})

	text = collapseRawWhitespace(text)
	text = trailingCommaRe.ReplaceAllString(text, `$1`)
	return text
}

// collapseRawWhitespace replaces unescaped newlines and tabs inside string
// values with single spaces. Raw control characters inside strings break
// strict JSON parsers.
func collapseRawWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false
	for _, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r == '\n' || r == '\r' || r == '\t':
				b.WriteRune(' ')
				continue
			}
		} else if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

func strictParseError(text string) error {
	var v interface{}
	return json.Unmarshal([]byte(text), &v)
}

func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	// Back up to a rune boundary so the snippet stays valid UTF-8.
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
