package analyzer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// stopwords are words excluded from keyword extraction. The list mixes
// common English function words with web-navigation vocabulary that
// dominates page chrome ("menu", "login") but carries no topical signal.
var stopwords = map[string]bool{
	"the": true, "be": true, "to": true, "of": true, "and": true, "a": true,
	"in": true, "that": true, "have": true, "i": true, "it": true, "for": true,
	"not": true, "on": true, "with": true, "he": true, "as": true, "you": true,
	"do": true, "at": true, "this": true, "but": true, "his": true, "by": true,
	"from": true, "they": true, "we": true, "say": true, "her": true, "she": true,
	"or": true, "an": true, "will": true, "my": true, "one": true, "all": true,
	"would": true, "there": true, "their": true, "what": true, "so": true,
	"up": true, "out": true, "if": true, "about": true, "who": true, "get": true,
	"which": true, "go": true, "me": true, "when": true, "make": true,
	"can": true, "like": true, "time": true, "no": true, "just": true,
	"him": true, "know": true, "take": true, "into": true, "your": true,
	"some": true, "could": true, "them": true, "see": true, "other": true,
	"than": true, "then": true, "now": true, "look": true, "only": true,
	"come": true, "its": true, "over": true, "also": true, "back": true,
	"after": true, "use": true, "two": true, "how": true, "our": true,
	"work": true, "first": true, "well": true, "way": true, "even": true,
	"new": true, "want": true, "because": true, "any": true, "these": true,
	"most": true, "www": true, "com": true, "org": true, "net": true,
	"html": true, "http": true, "https": true, "page": true, "site": true,
	"website": true, "home": true, "contact": true, "privacy": true,
	"terms": true, "policy": true, "copyright": true, "reserved": true,
	"rights": true, "click": true, "here": true, "more": true, "read": true,
	"view": true, "menu": true, "navigation": true, "footer": true,
	"header": true, "search": true, "find": true, "login": true,
	"register": true, "sign": true, "submit": true, "button": true,
	"link": true, "next": true, "previous": true, "last": true, "free": true,
	"online": true, "web": true, "email": true, "today": true, "best": true,
	"top": true, "good": true, "great": true,
}

// Tokenize splits text into lowercase alphanumeric words.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// KeywordFrequencies counts keyword occurrences in text, skipping
// stopwords, pure digits, and words shorter than minLen.
func KeywordFrequencies(text string, minLen int) map[string]int {
	freq := make(map[string]int)
	for _, w := range Tokenize(text) {
		if len(w) < minLen || stopwords[w] || isDigits(w) {
			continue
		}
		freq[w]++
	}
	return freq
}

// KeywordCount is one keyword and its occurrence count.
type KeywordCount struct {
	Word  string
	Count int
}

// TopKeywords returns the n most frequent keywords, most frequent
// first. Ties break alphabetically so extraction is deterministic.
func TopKeywords(freq map[string]int, n int) []KeywordCount {
	pairs := make([]KeywordCount, 0, len(freq))
	for w, c := range freq {
		pairs = append(pairs, KeywordCount{Word: w, Count: c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Word < pairs[j].Word
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// DocumentText extracts the visible text of a document, excluding
// script and style contents which goquery's Text() would include.
func DocumentText(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript").Remove()
	return clone.Text()
}

// IsStopword reports whether the word carries no topical signal.
func IsStopword(word string) bool {
	return stopwords[strings.ToLower(word)]
}
