package recovery

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Boilerplate prefixes models like to wrap answers in. Compared lowercased.
var boilerplatePrefixes = []string{
	"here is the json response:",
	"here is the json:",
	"here's the json:",
	"here is the extracted data:",
	"json response:",
	"response:",
	"output:",
	"sure, here is the json:",
}

var (
	reFence      = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")
	reBareKey    = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	reTrailComma = regexp.MustCompile(`,\s*([}\]])`)
	reSingleVal  = regexp.MustCompile(`:\s*'([^']*)'`)
	rePair       = regexp.MustCompile(`(?m)["']?([A-Za-z_][A-Za-z0-9_ ]*?)["']?\s*:\s*("(?:[^"\\]|\\.)*"|-?\d+(?:\.\d+)?|true|false|null)`)
)

// trimBoilerplate strips known prefixes/suffixes and parses the remainder.
func trimBoilerplate(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, p := range boilerplatePrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	return requireObject(strings.TrimSpace(s))
}

// fencedBlock extracts the first fenced code block and parses its contents.
func fencedBlock(raw string) ([]byte, error) {
	m := reFence.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("no fenced block")
	}
	return requireObject(strings.TrimSpace(m[1]))
}

// balancedBraces scans for balanced-brace substrings and tries the longest
// first, up to three attempts.
func balancedBraces(raw string) ([]byte, error) {
	var spans []string
	depth := 0
	start := -1
	for i, c := range raw {
		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					spans = append(spans, raw[start:i+1])
					start = -1
				}
			}
		}
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("no balanced-brace substring")
	}
	sort.Slice(spans, func(i, j int) bool { return len(spans[i]) > len(spans[j]) })
	if len(spans) > 3 {
		spans = spans[:3]
	}
	for _, s := range spans {
		if b, err := requireObject(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("no balanced-brace candidate parsed")
}

// braceSlice parses the slice from the first '{' to the last '}'.
func braceSlice(raw string) ([]byte, error) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last <= first {
		return nil, fmt.Errorf("no brace-delimited slice")
	}
	return requireObject(raw[first : last+1])
}

// textualRepairs applies the classic fixes to the brace slice: trailing
// commas, collapsed whitespace, bare keys, single-quoted values.
func textualRepairs(raw string) ([]byte, error) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last <= first {
		return nil, fmt.Errorf("no brace-delimited slice")
	}
	s := raw[first : last+1]
	s = strings.Join(strings.Fields(s), " ")
	s = reTrailComma.ReplaceAllString(s, "$1")
	s = reBareKey.ReplaceAllString(s, `$1"$2":`)
	s = reSingleVal.ReplaceAllString(s, `: "$1"`)
	return requireObject(s)
}

// libraryRepair hands the brace slice to the json-repair library, which also
// handles unclosed containers and uppercase literals.
func libraryRepair(raw string) ([]byte, error) {
	s := raw
	if first := strings.Index(raw, "{"); first >= 0 {
		s = raw[first:]
	}
	repaired, err := jsonrepair.RepairJSON(s)
	if err != nil {
		return nil, fmt.Errorf("json repair: %w", err)
	}
	return requireObject(repaired)
}

// hjsonLenient parses the brace slice as Hjson (unquoted keys and strings,
// optional commas, comments) and re-encodes it as standard JSON.
func hjsonLenient(raw string) ([]byte, error) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last <= first {
		return nil, fmt.Errorf("no brace-delimited slice")
	}
	var v map[string]any
	if err := hjson.Unmarshal([]byte(raw[first:last+1]), &v); err != nil {
		return nil, fmt.Errorf("hjson: %w", err)
	}
	return json.Marshal(v)
}

// lineReconstruct accumulates lines from the first line containing '{' until
// brace depth returns to zero, then parses the concatenation.
func lineReconstruct(raw string) ([]byte, error) {
	var b strings.Builder
	depth := 0
	collecting := false
	for _, line := range strings.Split(raw, "\n") {
		if !collecting {
			if !strings.Contains(line, "{") {
				continue
			}
			collecting = true
		}
		b.WriteString(line)
		b.WriteString("\n")
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			break
		}
	}
	if !collecting {
		return nil, fmt.Errorf("no opening brace found")
	}
	return requireObject(strings.TrimSpace(b.String()))
}

// requireObject verifies that s parses as a JSON object and returns it.
func requireObject(s string) ([]byte, error) {
	if s == "" || !strings.HasPrefix(strings.TrimSpace(s), "{") {
		return nil, fmt.Errorf("not a JSON object")
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return []byte(s), nil
}
