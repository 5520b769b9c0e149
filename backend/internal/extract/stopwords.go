package extract

import "sort"

// englishStopWords are common English function words
var englishStopWords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
	"yourself", "yourselves", "he", "him", "his", "himself", "she", "her", "hers",
	"herself", "it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having", "do", "does",
	"did", "doing", "a", "an", "the", "and", "but", "if", "or", "because", "as", "until",
	"while", "of", "at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then", "once", "here",
	"there", "when", "where", "why", "how", "all", "any", "both", "each", "few", "more",
	"most", "other", "some", "such", "no", "nor", "not", "only", "own", "same", "so",
	"than", "too", "very", "s", "t", "can", "will", "just", "don", "should", "now",
}

// chatStopWords are filler terms that dominate chat transcripts.
// Entries already present in englishStopWords are omitted.
var chatStopWords = []string{
	"would", "could", "really", "like", "think", "know", "want", "need", "good",
	"great", "thanks", "thank", "please", "sorry", "yes", "ok", "okay", "sure",
	"chatgpt", "gpt", "ai", "assistant", "help", "get", "use", "one", "also",
	"make", "much", "many", "time", "etc",
}

var stopWords = buildStopWordSet(englishStopWords, chatStopWords)

func buildStopWordSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, w := range list {
			set[w] = struct{}{}
		}
	}
	return set
}

// IsStopWord reports whether w is excluded from frequency counting
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// StopWords returns the stop-word list in alphabetical order
func StopWords() []string {
	words := make([]string, 0, len(stopWords))
	for w := range stopWords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
