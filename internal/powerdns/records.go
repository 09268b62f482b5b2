package powerdns

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/joeig/go-powerdns/v3"
)

const (
	defaultRecordType = "TXT"
	apexName          = "@"
)

// quotedStringSequenceRE matches one or more RFC-1035-style quoted strings
// separated by whitespace, allowing backslash escapes inside each.
var quotedStringSequenceRE = regexp.MustCompile(`^\s*"([^"\\]|\\.)*"(?:\s+"([^"\\]|\\.)*")*\s*$`)

// recordTypeRE restricts types to what PowerDNS accepts as an RR type mnemonic.
var recordTypeRE = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

// quoteContent wraps TXT and SPF content in double quotes unless it already
// is a sequence of quoted strings. Other types are returned unchanged.
func quoteContent(rrType, content string) string {
	switch rrType {
	case "TXT", "SPF":
		s := strings.TrimSpace(content)
		if s == "" {
			return `""`
		}

		if quotedStringSequenceRE.MatchString(s) {
			return s
		}

		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	default:
		return content
	}
}

// canonical appends the trailing dot PowerDNS expects on names.
func canonical(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}

	return name + "."
}

// parseKey splits a parameter key "<name>/<TYPE>" into the fully qualified
// record name and RR type. "@" is the zone apex, relative names are
// qualified with zone and a missing type means TXT.
func parseKey(zone, key string) (name, rrType string, err error) {
	name, rrType, _ = strings.Cut(strings.TrimSpace(key), "/")
	name = strings.TrimSpace(name)
	rrType = strings.ToUpper(strings.TrimSpace(rrType))

	if rrType == "" {
		rrType = defaultRecordType
	}

	if name == "" || !recordTypeRE.MatchString(rrType) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRecordKey, key)
	}

	zone = canonical(zone)

	switch {
	case name == apexName:
		name = zone
	case strings.HasSuffix(name, "."):
	case strings.EqualFold(canonical(name), zone) || strings.HasSuffix(strings.ToLower(canonical(name)), "."+strings.ToLower(zone)):
		name = canonical(name)
	default:
		name = name + "." + zone
	}

	return name, rrType, nil
}

// buildRRsets turns params into one REPLACE RRset per record name and type,
// ordered by the first key naming it. A value holds one record per non-empty
// line. Keys resolving to the same RRset, such as "www" and "www/TXT", are
// merged and repeated contents are dropped. An empty TXT value sets a single
// empty string record.
func buildRRsets(zone string, params map[string]string, ttl uint32) ([]powerdns.RRset, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type rrsetKey struct{ name, rrType string }

	var (
		order    []rrsetKey
		contents = make(map[rrsetKey][]string, len(keys))
	)

	for _, key := range keys {
		name, rrType, err := parseKey(zone, key)
		if err != nil {
			return nil, err
		}

		k := rrsetKey{name: name, rrType: rrType}
		if _, seen := contents[k]; !seen {
			order = append(order, k)
			contents[k] = []string{}
		}

		for _, line := range strings.Split(params[key], "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			content := quoteContent(rrType, line)
			if !slices.Contains(contents[k], content) {
				contents[k] = append(contents[k], content)
			}
		}
	}

	sets := make([]powerdns.RRset, 0, len(order))
	for _, k := range order {
		lines := contents[k]
		if len(lines) == 0 && k.rrType == defaultRecordType {
			lines = []string{quoteContent(k.rrType, "")}
		}

		records := make([]powerdns.Record, 0, len(lines))
		for _, content := range lines {
			disabled := false
			records = append(records, powerdns.Record{Content: &content, Disabled: &disabled})
		}

		name := k.name
		t := powerdns.RRType(k.rrType)
		recordTTL := ttl
		changeType := powerdns.ChangeTypeReplace
		sets = append(sets, powerdns.RRset{
			Name:       &name,
			Type:       &t,
			TTL:        &recordTTL,
			ChangeType: &changeType,
			Records:    records,
		})
	}

	return sets, nil
}
