package extract

import "strings"

// maxTopicTags caps how many tags a document receives.
const maxTopicTags = 5

// topicSet is one topic with its membership keywords.
type topicSet struct {
	name     string
	keywords []string
}

// topicSets is the fixed classification table. Slice, not map: the
// iteration order decides tag order in the catalog and must be stable.
var topicSets = []topicSet{
	{"mutual_funds", []string{"mutual fund", "mf", "nav", "amc", "sip"}},
	{"equity", []string{"equity", "stock", "share", "nse", "bse", "sensex", "nifty"}},
	{"taxation", []string{"tax", "income tax", "gst", "tds", "itr", "assessment"}},
	{"gold", []string{"gold", "sgb", "sovereign gold bond", "precious metal"}},
	{"insurance", []string{"insurance", "policy", "premium", "claim"}},
	{"banking", []string{"bank", "rbi", "loan", "credit", "deposit"}},
	{"regulatory", []string{"sebi", "rbi", "circular", "regulation", "compliance"}},
	{"education", []string{"education", "awareness", "investor", "guide", "handbook"}},
}

// TopicTags classifies text and title into topic tags by keyword
// membership over their lowercased concatenation. At most five tags are
// returned, in fixed table order; this is membership, not relevance
// ranking.
func TopicTags(text, title string) []string {
	combined := strings.ToLower(title + " " + text)

	var tags []string
	for _, topic := range topicSets {
		for _, keyword := range topic.keywords {
			if strings.Contains(combined, keyword) {
				tags = append(tags, topic.name)
				break
			}
		}
		if len(tags) == maxTopicTags {
			break
		}
	}
	return tags
}
