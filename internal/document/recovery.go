package document

import (
	"encoding/json"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

var (
	reFenceJSONOpen = regexp.MustCompile("(?im)^```json[ \\t]*")
	reFenceOpen     = regexp.MustCompile("(?im)^```[ \\t]*")
	reFenceClose    = regexp.MustCompile("(?m)\\s*```\\s*$")
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	reLineComment   = regexp.MustCompile(`//[^\n]*`)
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// ExtractJSON strips markdown fences and surrounding noise from a model
// reply and slices out the outermost JSON object. Best effort: the result is
// not guaranteed to parse.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	// Markdown code fences, in any of the shapes models emit them
	text = reFenceJSONOpen.ReplaceAllString(text, "")
	text = reFenceOpen.ReplaceAllString(text, "")
	text = reFenceClose.ReplaceAllString(text, "")

	// Slice to the outermost object if one is present
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last != -1 && last > first {
		text = text[first : last+1]
	}

	text = strings.TrimPrefix(text, "\xEF\xBB\xBF")

	// Drop control characters, keeping tab, newline and carriage return
	text = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, text)

	return strings.TrimSpace(text)
}

// repairJSON fixes the two malformations models produce most often:
// trailing commas and comments
func repairJSON(text string) string {
	text = reTrailingComma.ReplaceAllString(text, "$1")
	text = reLineComment.ReplaceAllString(text, "")
	text = reBlockComment.ReplaceAllString(text, "")
	return text
}

// ParseNLPReply parses a model reply into a Record, repairing malformed JSON
// where it can. On unrecoverable input it returns the error variant carrying
// the parser message and the cleaned text, so validation can short-circuit
// instead of crashing.
func ParseNLPReply(text string) NLPResult {
	cleaned := ExtractJSON(text)

	var record Record
	if err := json.Unmarshal([]byte(cleaned), &record); err == nil {
		return NLPResult{Record: &record}
	}

	fixed := repairJSON(cleaned)
	record = Record{}
	parseErr := json.Unmarshal([]byte(fixed), &record)
	if parseErr == nil {
		return NLPResult{Record: &record}
	}

	// Last resort: aggressive repair. The result must still decode as an
	// object, otherwise the failure is reported from the pass above.
	if repaired, err := jsonrepair.RepairJSON(fixed); err == nil {
		record = Record{}
		if err := json.Unmarshal([]byte(repaired), &record); err == nil {
			return NLPResult{Record: &record}
		}
	}

	return NLPResult{
		Err:         "JSON parsing failed: " + parseErr.Error(),
		RawResponse: cleaned,
	}
}
