package validation

import (
	"regexp"
	"strings"
)

var spamKeywords = []string{
	"viagra", "casino", "lottery", "winner", "congratulations",
	"click here", "free money", "make money", "business opportunity",
}

var linkPattern = regexp.MustCompile(`https?://`)

// DetectSpam applies content heuristics to an already validated
// submission: keyword density over name and message, link flooding,
// and all-caps shouting. Any single positive marks the submission as
// spam. Pure function of its input.
func DetectSpam(name, message string) bool {
	content := strings.ToLower(name + " " + message)

	keywordCount := 0
	for _, keyword := range spamKeywords {
		if strings.Contains(content, keyword) {
			keywordCount++
		}
	}
	if keywordCount >= 2 {
		return true
	}

	if len(linkPattern.FindAllStringIndex(message, -1)) > 2 {
		return true
	}

	upper, letters := 0, 0
	for _, r := range message {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
			letters++
		case r >= 'a' && r <= 'z':
			letters++
		}
	}

	return letters > 0 && float64(upper)/float64(letters) > 0.7
}
