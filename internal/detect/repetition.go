package detect

import "strings"

// IsRepetitive reports whether a transcription looks like a model
// hallucination. Two signals are checked against the normalized text:
// a short phrase repeating three or more times consecutively past
// consecutiveRatio of the text, or a single phrase appearing often enough to
// dominate past dominantRatio. Texts under 20 characters or 5 words are too
// short to judge and pass.
func IsRepetitive(text string, consecutiveRatio, dominantRatio float64) bool {
	if len(text) < 20 {
		return false
	}

	normalized := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(normalized)
	if len(words) < 5 {
		return false
	}
	normalized = strings.Join(words, " ")

	if hasConsecutiveRepetition(words, normalized, consecutiveRatio) {
		return true
	}
	return hasDominantPhrase(words, normalized, dominantRatio)
}

// hasConsecutiveRepetition looks for sequences of 2-10 words repeating three
// or more times back to back.
func hasConsecutiveRepetition(words []string, normalized string, maxRatio float64) bool {
	maxSeqLen := len(words) / 2
	if maxSeqLen > 10 {
		maxSeqLen = 10
	}
	for seqLen := 2; seqLen <= maxSeqLen; seqLen++ {
		for i := 0; i < len(words)-seqLen*2; i++ {
			sequence := strings.Join(words[i:i+seqLen], " ")
			remaining := strings.Join(words[i:], " ")

			count := 0
			pos := 0
			for pos < len(remaining) {
				end := pos + len(sequence)
				if end > len(remaining) || remaining[pos:end] != sequence {
					break
				}
				count++
				pos = end + 1 // skip the joining space
			}

			if count >= 3 {
				ratio := float64(count*len(sequence)) / float64(len(normalized))
				if ratio > maxRatio {
					return true
				}
			}
		}
	}
	return false
}

// hasDominantPhrase looks for a 3-7 word phrase whose occurrences cover more
// of the text than the threshold allows.
func hasDominantPhrase(words []string, normalized string, maxRatio float64) bool {
	maxSeqLen := len(words) / 3
	if maxSeqLen > 7 {
		maxSeqLen = 7
	}
	for seqLen := 3; seqLen <= maxSeqLen; seqLen++ {
		for i := 0; i < len(words)-seqLen; i++ {
			sequence := strings.Join(words[i:i+seqLen], " ")
			count := strings.Count(normalized, sequence)
			if count > 1 {
				ratio := float64(count*len(sequence)) / float64(len(normalized))
				if ratio > maxRatio {
					return true
				}
			}
		}
	}
	return false
}
