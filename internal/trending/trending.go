// Package trending tallies hashtag and word frequencies over recent tweet
// bodies. The tally is recomputed in full on every call; nothing here is
// persisted or cached.
package trending

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"microblog/internal/domain"
)

const (
	// MaxTweets caps how many recent tweet bodies a tally scans.
	MaxTweets = 1000
	// TopN is how many entries a tally returns.
	TopN = 10

	minTokenLen = 3
)

// Hashtags are a leading '#' followed by word characters, including CJK and
// Hangul ranges so non-Latin tags count too.
var (
	hashtagRe = regexp.MustCompile(`#[\w\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}\x{AC00}-\x{D7AF}]+`)
	urlRe     = regexp.MustCompile(`https?://[^\s]+`)
	nonWordRe = regexp.MustCompile(`[^\w\s\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}\x{AC00}-\x{D7AF}]`)
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"the is at which on a an as are was were been be have has had do does did " +
			"will would should could may might must can of to in for with by from about " +
			"into through during before after above below between under again further " +
			"then once here there when where why how all both each few more most other " +
			"some such no nor not only own same so than too very and but or if because " +
			"that this these those i you he she it we they what who my your his her its " +
			"our their me him us them") {
		stopWords[w] = struct{}{}
	}
}

// Extract tallies hashtags and plain words across the given tweet bodies and
// returns the top entries by frequency. Only tokens seen more than once
// qualify; ties keep first-encountered order.
func Extract(contents []string) []domain.TrendingWord {
	counts := make(map[string]int)
	var order []string

	bump := func(token string) {
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	for _, content := range contents {
		content = strings.ToLower(content)

		for _, tag := range hashtagRe.FindAllString(content, -1) {
			bump(tag)
		}

		stripped := hashtagRe.ReplaceAllString(content, "")
		stripped = urlRe.ReplaceAllString(stripped, "")
		stripped = nonWordRe.ReplaceAllString(stripped, " ")

		for _, word := range strings.Fields(stripped) {
			if utf8.RuneCountInString(word) < minTokenLen {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			bump(word)
		}
	}

	trending := make([]domain.TrendingWord, 0, len(order))
	for _, token := range order {
		if counts[token] > 1 {
			trending = append(trending, domain.TrendingWord{Word: token, Count: counts[token]})
		}
	}

	// Stable sort preserves first-encountered order among equal counts.
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Count > trending[j].Count
	})

	if len(trending) > TopN {
		trending = trending[:TopN]
	}

	return trending
}
