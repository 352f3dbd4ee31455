// Package jsonrepair coerces near-JSON model output into parseable JSON.
//
// Generated text fails to parse in mostly boring ways: code fences around the
// payload, a truncated closing brace, unquoted keys, single quotes, missing
// or trailing commas. The engine applies a strictly ordered sequence of
// string transforms, cheapest first, and stops at the first point where the
// text parses. Only pathological responses reach the expensive extraction
// pass, which re-reads the original text for the outermost object span.
//
// The engine is total: RepairOrDefault never fails, it falls back to the
// caller-supplied serialized default record when every pass is exhausted.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Level controls how aggressive a repair attempt is allowed to get. Callers
// retrying on the same raw text escalate the level between attempts.
type Level int

const (
	// LevelBasic applies fence stripping, truncation repair, key quoting,
	// quote normalization and delimiter fixes.
	LevelBasic Level = iota + 1
	// LevelDeep additionally collapses whitespace and patches the text at
	// the decoder's reported error offset.
	LevelDeep
	// LevelExtract additionally extracts the outermost object span from the
	// original text and repairs that.
	LevelExtract
)

var (
	openFenceRe     = regexp.MustCompile("^```[a-zA-Z]*[ \t]*\n?")
	closeFenceRe    = regexp.MustCompile("\n?```$")
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)
	brokenLineRe    = regexp.MustCompile(`"\s*\n\s*"`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	emptyObjectRe   = regexp.MustCompile(`\{\s+\}`)
	emptyArrayRe    = regexp.MustCompile(`\[\s+\]`)
	objectSpanRe    = regexp.MustCompile(`(?s)\{.*\}`)
)

// Repair attempts to turn raw into a parseable JSON string using passes up to
// the given level. The returned bool reports success; on failure the best
// effort string is returned anyway for diagnostics.
func Repair(raw string, level Level) (string, bool) {
	// A response that already parses is never touched. This guards the
	// quote-normalization pass, which is unsound for apostrophes inside
	// legitimate string values.
	if parses(raw) {
		return raw, true
	}

	text := applyBasic(raw)
	if parses(text) {
		return text, true
	}

	if level >= LevelDeep {
		collapsed := collapseWhitespace(text)
		if parses(collapsed) {
			return collapsed, true
		}
		text = collapsed

		if patched, ok := repairAtError(text); ok {
			return patched, true
		}
	}

	if level >= LevelExtract {
		if extracted, ok := extractAndRepair(raw); ok {
			return extracted, true
		}
	}

	return text, false
}

// RepairOrDefault runs the full pass sequence and falls back to the supplied
// serialized default record when nothing parses. The result is guaranteed to
// parse as long as fallback does.
func RepairOrDefault(raw, fallback string) string {
	if repaired, ok := Repair(raw, LevelExtract); ok {
		return repaired
	}
	return fallback
}

// applyBasic runs passes 1-5 in order, each on the output of the previous.
func applyBasic(text string) string {
	text = stripFences(text)
	text = closeTruncation(text)
	text = quoteKeys(text)
	text = normalizeQuotes(text)
	return fixDelimiters(text)
}

// stripFences removes leading/trailing markdown code-fence markers and
// surrounding whitespace.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = openFenceRe.ReplaceAllString(text, "")
		text = closeFenceRe.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// closeTruncation appends a closing brace when the text does not end with
// one. Truncated generation output is the single most common failure.
func closeTruncation(text string) string {
	if !strings.HasSuffix(strings.TrimSpace(text), "}") {
		return text + "}"
	}
	return text
}

// quoteKeys wraps bare identifiers used as object keys in double quotes.
func quoteKeys(text string) string {
	return unquotedKeyRe.ReplaceAllString(text, `$1"$2"$3`)
}

// normalizeQuotes replaces single quotes with double quotes. Accepted risk:
// this breaks apostrophes inside string values, which is why Repair never
// touches text that already parses.
func normalizeQuotes(text string) string {
	return strings.ReplaceAll(text, "'", `"`)
}

// fixDelimiters inserts commas between quoted tokens separated only by a line
// break and strips trailing commas before a closing brace or bracket.
func fixDelimiters(text string) string {
	text = brokenLineRe.ReplaceAllString(text, "\",\n\"")
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// collapseWhitespace flattens whitespace runs and normalizes empty
// object/array literals.
func collapseWhitespace(text string) string {
	text = whitespaceRunRe.ReplaceAllString(text, " ")
	text = emptyObjectRe.ReplaceAllString(text, "{}")
	return emptyArrayRe.ReplaceAllString(text, "[]")
}

// repairAtError patches the text at the byte offset reported by the decoder.
// An error inside a string literal gets a closing quote, an error after a
// value gets a comma. The insertion is bounds-checked; anything else is left
// for the extraction pass.
func repairAtError(text string) (string, bool) {
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return text, true
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return text, false
	}

	offset := int(syntaxErr.Offset)
	if offset < 1 || offset > len(text) {
		return text, false
	}
	// Offset is the number of bytes read when decoding failed, so the
	// offending byte sits just before it.
	at := offset - 1

	msg := syntaxErr.Error()
	var patched string
	switch {
	case strings.Contains(msg, "in string literal"), strings.Contains(msg, "unexpected end of JSON input"):
		patched = text[:at] + `"` + text[at:]
	case strings.Contains(msg, "after object key:value pair"), strings.Contains(msg, "after array element"):
		patched = text[:at] + "," + text[at:]
	default:
		return text, false
	}

	if parses(patched) {
		return patched, true
	}
	return text, false
}

// extractAndRepair searches the original text for the outermost {...} span
// and re-runs the basic passes on that substring, additionally escaping
// quotes that look like unescaped literal-value quotes.
func extractAndRepair(raw string) (string, bool) {
	span := objectSpanRe.FindString(raw)
	if span == "" {
		return "", false
	}

	text := applyBasic(span)
	if parses(text) {
		return text, true
	}

	text = escapeInteriorQuotes(text)
	if parses(text) {
		return text, true
	}
	return text, false
}

// escapeInteriorQuotes escapes double quotes that sit inside what looks like
// a string value: not preceded by a backslash, not opening after a
// structural character, and not closing before one.
func escapeInteriorQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '"' {
			b.WriteByte(c)
			continue
		}
		if i > 0 && text[i-1] == '\\' {
			b.WriteByte(c)
			continue
		}
		if isStructural(prevNonSpace(text, i), "{[,:") || isStructural(nextNonSpace(text, i), `,:}]"`) {
			b.WriteByte(c)
			continue
		}
		b.WriteString(`\"`)
	}

	return b.String()
}

// prevNonSpace returns the closest non-space byte before index i, or 0 at the
// start of the text.
func prevNonSpace(text string, i int) byte {
	for j := i - 1; j >= 0; j-- {
		if text[j] != ' ' && text[j] != '\t' && text[j] != '\n' && text[j] != '\r' {
			return text[j]
		}
	}
	return 0
}

// nextNonSpace returns the closest non-space byte after index i, or 0 at the
// end of the text.
func nextNonSpace(text string, i int) byte {
	for j := i + 1; j < len(text); j++ {
		if text[j] != ' ' && text[j] != '\t' && text[j] != '\n' && text[j] != '\r' {
			return text[j]
		}
	}
	return 0
}

func isStructural(c byte, set string) bool {
	// Start/end of text counts as structural so quotes at the boundaries
	// are kept.
	if c == 0 {
		return true
	}
	return strings.IndexByte(set, c) >= 0
}

func parses(text string) bool {
	var v any
	return json.Unmarshal([]byte(text), &v) == nil
}
