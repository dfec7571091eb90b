package extractor

import (
	"regexp"
	"strings"
)

var (
	captionPattern  = regexp.MustCompile(`^(figure|fig\.?|table|chart|diagram|graph)\s*\d+`)
	abstractHeading = regexp.MustCompile(`(?i)^\s*abstract\b[.:]?\s*$`)
	abstractInline  = regexp.MustCompile(`(?i)^\s*abstract\b[.:\s—-]+(.+)$`)
	abstractEnd     = regexp.MustCompile(`(?i)^\s*(1[.\s]|introduction\b|keywords\b|index terms\b)`)
	sectionHeading  = regexp.MustCompile(`(?i)^\s*(?:\d+[.\s]+)?(introduction|conclusion|conclusions|discussion|results)\b\s*$`)
	anyHeading      = regexp.MustCompile(`^\s*\d+[.\s]+\S`)
	arxivPattern    = regexp.MustCompile(`(?i)arxiv[:\s]*(\d{4}\.\d{4,5})`)
)

const (
	maxTitleLines     = 3
	maxSectionChars   = 1500
	arxivSniffWindow  = 2000
	minSubstantialLen = 15
)

// extractTitle takes the first few substantial lines of the first page as the
// paper title. Academic PDFs put the title before authors and affiliations.
func extractTitle(firstPage string) string {
	var parts []string
	for _, line := range strings.Split(firstPage, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minSubstantialLen {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if looksLikeAuthorLine(line) || arxivPattern.MatchString(line) {
			break
		}
		parts = append(parts, line)
		if len(parts) == maxTitleLines {
			break
		}
	}
	return strings.Join(parts, " ")
}

// extractAuthors looks at the lines right after the title for something that
// reads like a byline. Best effort, empty when nothing matches.
func extractAuthors(firstPage, title string) string {
	pastTitle := title == ""
	for _, line := range strings.Split(firstPage, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !pastTitle {
			if strings.Contains(title, line) {
				continue
			}
			pastTitle = true
		}
		if looksLikeAuthorLine(line) {
			return line
		}
		// Stop once real body content starts
		if abstractHeading.MatchString(line) || abstractInline.MatchString(line) {
			break
		}
	}
	return ""
}

func looksLikeAuthorLine(line string) bool {
	if len(line) > 200 {
		return false
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "@") || strings.Contains(lower, "university") ||
		strings.Contains(lower, "institute") || strings.Contains(lower, "department") {
		return false
	}
	// Multiple comma- or and-separated capitalized names
	sep := strings.Count(line, ",") + strings.Count(lower, " and ")
	if sep == 0 {
		return false
	}
	words := strings.Fields(line)
	caps := 0
	for _, w := range words {
		r := []rune(w)
		if len(r) > 1 && r[0] >= 'A' && r[0] <= 'Z' {
			caps++
		}
	}
	return caps >= len(words)/2
}

// extractAbstract captures the block following an Abstract heading until the
// first section heading, introduction, or keywords line.
func extractAbstract(text string) string {
	lines := strings.Split(text, "\n")
	var parts []string
	capturing := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !capturing {
			if abstractHeading.MatchString(line) {
				capturing = true
				continue
			}
			if m := abstractInline.FindStringSubmatch(line); m != nil {
				capturing = true
				parts = append(parts, m[1])
				continue
			}
			continue
		}
		if abstractEnd.MatchString(line) {
			break
		}
		if line != "" {
			parts = append(parts, line)
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// KeySections pulls the introduction and conclusion bodies so prompts
// can lean on the parts of a paper that carry the argument.
func KeySections(text string) map[string]string {
	sections := map[string]string{}
	lines := strings.Split(text, "\n")

	current := ""
	var body []string
	flush := func() {
		if current == "" || len(body) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(body, " "))
		if len(joined) > maxSectionChars {
			joined = joined[:maxSectionChars]
		}
		if _, seen := sections[current]; !seen && joined != "" {
			sections[current] = joined
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if m := sectionHeading.FindStringSubmatch(line); m != nil {
			flush()
			name := strings.ToLower(m[1])
			if name == "conclusions" {
				name = "conclusion"
			}
			current = name
			body = nil
			continue
		}
		if current != "" {
			if anyHeading.MatchString(line) {
				flush()
				current = ""
				body = nil
				continue
			}
			if line != "" {
				body = append(body, line)
			}
		}
	}
	flush()

	return sections
}

// ArxivID sniffs an arXiv identifier from the start of the document text.
func ArxivID(text string) string {
	window := text
	if len(window) > arxivSniffWindow {
		window = window[:arxivSniffWindow]
	}
	if m := arxivPattern.FindStringSubmatch(window); m != nil {
		return m[1]
	}
	return ""
}

func figureCaption(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "figure") || strings.HasPrefix(lower, "fig")
}

// relevanceScore mirrors how captions are ranked for post attachment: a caption
// sitting under an open figure region scores highest, a bare figure caption
// next, tables and charts lowest. Early pages get a boost since key figures
// usually lead the paper.
func relevanceScore(caption string, pageNum int, gapAbove bool) float64 {
	score := 0.3
	if figureCaption(caption) {
		score = 0.6
		if gapAbove {
			score = 0.8
		}
	}
	if pageNum <= 3 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
