package variation

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Suffixes and prefixes in priority order. The early entries are the
// patterns seen most often on real alternate accounts, so they survive a
// small cap.
var (
	suffixes = buildSuffixes()
	prefixes = []string{"the", "real", "mr", "ms", "official"}
)

func buildSuffixes() []string {
	s := []string{"123", "69", "88", "tv", "yt", "x", "official"}
	for year := 1990; year <= 2026; year++ {
		s = append(s, strconv.Itoa(year))
	}
	return append(s, "_", "__", ".", "pro", "real", "hq", "fan", "live")
}

// lower folds usernames case-insensitively. Most platforms treat handles
// as caseless, and Unicode-aware folding handles non-ASCII bases too.
var lower = cases.Lower(language.Und)

// Generate returns up to max variations of the base username, the
// normalized base itself always first.
//
// Design decision: generation is fully deterministic. Enumerating forms in
// a fixed priority order makes runs reproducible and diffs between runs
// meaningful, where randomized selection would reshuffle the probe set
// every time.
func Generate(base string, max int) []string {
	base = lower.String(strings.TrimSpace(base))
	if base == "" || max <= 0 {
		return nil
	}

	out := make([]string, 0, max)
	seen := make(map[string]bool, max)
	add := func(v string) {
		if len(out) < max && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	add(base)

	for _, suffix := range suffixes {
		if len(out) >= max {
			return out
		}
		add(base + suffix)
		add(base + "_" + suffix)
		add(base + "." + suffix)
	}

	if len(base) > 4 {
		mid := len(base) / 2
		add(base[:mid] + "_" + base[mid:])
		add(base[:mid] + "." + base[mid:])
	}

	for _, prefix := range prefixes {
		add(prefix + base)
		add(prefix + "_" + base)
	}

	return out
}

// Expand applies Generate to every base and concatenates the results,
// deduplicating across bases while preserving order.
func Expand(bases []string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, base := range bases {
		for _, v := range Generate(base, max) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
