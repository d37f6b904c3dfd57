package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"mediascribe/internal/domain"
)

const summarySystemPrompt = "You are an assistant that summarizes transcripts. Use only the provided text; do not invent content."

const summaryUserPrompt = `Summarize the following text in approximately %d words, then list the top %d key ideas.

Respond in exactly this format:
SUMMARY:
<the summary>

KEY IDEAS:
- <first key idea>
- <second key idea>

Text:
%s`

var (
	reKeyIdeasMarker = regexp.MustCompile(`(?im)^\s*key ideas\s*:?\s*$`)
	reBulletPrefix   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
)

const (
	minSummaryWords = 50
	maxSummaryWords = 2000
	minKeyIdeas     = 1
	maxKeyIdeas     = 20
)

// Summarize generates a summary and key-idea list for a ready session's
// transcript. words and ideas of zero fall back to configured defaults; both
// are clamped to sane bounds.
func (p *Pipeline) Summarize(ctx context.Context, sessionID string, words, ideas int) (domain.Summary, error) {
	sess, err := p.ready(sessionID)
	if err != nil {
		return domain.Summary{}, err
	}

	if strings.TrimSpace(sess.Transcript) == "" {
		return domain.Summary{}, fmt.Errorf("%w: transcript is empty", domain.ErrSummarization)
	}

	words = clamp(words, p.cfg.SummaryWords, minSummaryWords, maxSummaryWords)
	ideas = clamp(ideas, p.cfg.KeyIdeas, minKeyIdeas, maxKeyIdeas)

	out, err := p.completer.Complete(ctx, summarySystemPrompt, fmt.Sprintf(summaryUserPrompt, words, ideas, sess.Transcript))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%w: %v", domain.ErrSummarization, err)
	}

	sum := parseSummary(out)
	if err := p.store.SetSummary(sessionID, sum); err != nil {
		return domain.Summary{}, err
	}

	return sum, nil
}

// parseSummary splits a model response into the summary text and the bullet
// list that follows the KEY IDEAS marker. Responses without the marker are
// treated as summary-only.
func parseSummary(out string) domain.Summary {
	out = strings.TrimSpace(out)

	summaryPart := out
	var ideasPart string
	if loc := reKeyIdeasMarker.FindStringIndex(out); loc != nil {
		summaryPart = out[:loc[0]]
		ideasPart = out[loc[1]:]
	}

	summaryPart = strings.TrimSpace(summaryPart)
	summaryPart = strings.TrimPrefix(summaryPart, "SUMMARY:")
	summaryPart = strings.TrimSpace(summaryPart)

	var ideasList []string
	for _, line := range strings.Split(ideasPart, "\n") {
		line = strings.TrimSpace(reBulletPrefix.ReplaceAllString(line, ""))
		if line != "" {
			ideasList = append(ideasList, line)
		}
	}

	return domain.Summary{Summary: summaryPart, KeyIdeas: ideasList}
}

func clamp(v, fallback, min, max int) int {
	if v == 0 {
		v = fallback
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
