package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"draftline/internal/models"
)

// Context budgets, in characters. Oversized documents are truncated rather
// than split across calls.
const (
	sectionBudget        = 2000
	analysisContextMax   = 12000
	analysisSectionFloor = 8000
	generateContentMax   = 6000
	refineContentMax     = 6000
	refineAnalysisMax    = 2500
	maxStyleExamples     = 5
)

var toneDirectives = map[string]string{
	models.ToneProfessional:  "authoritative yet accessible - like a senior expert sharing insights",
	models.ToneCasual:        "conversational and relatable - like texting a smart friend",
	models.ToneThoughtLeader: "bold and visionary - challenge conventional thinking",
	models.ToneEducational:   "teaching mode - break down complex ideas step by step",
	models.ToneStorytelling:  "narrative-driven - use story structure and concrete examples",
}

var lengthDirectives = map[string]string{
	models.LengthShort:  "Concise and punchy - under 500 characters. Every word earns its place.",
	models.LengthMedium: "Substantial but scannable - 500-1500 characters with clear structure",
	models.LengthLong:   "Deep dive - 1500+ characters with detailed breakdown and multiple insights",
}

// AnalysisContext assembles the document context fed to the analyze template:
// metadata first, then extracted sections, then as much of the full text as
// the budget allows.
func AnalysisContext(title, author, abstract, introduction, conclusion, text string) string {
	var parts []string

	if title != "" {
		parts = append(parts, "Title: "+title)
	}
	if author != "" {
		parts = append(parts, "Source/Author: "+author)
	}
	if abstract != "" {
		parts = append(parts, "Summary/Abstract: "+truncate(abstract, sectionBudget))
	}
	if introduction != "" {
		parts = append(parts, "Opening section: "+truncate(introduction, sectionBudget))
	}
	if conclusion != "" {
		parts = append(parts, "Conclusion/Key points: "+truncate(conclusion, sectionBudget))
	}

	if used := len(strings.Join(parts, "\n")); used < analysisSectionFloor {
		remaining := analysisContextMax - used
		parts = append(parts, "Full content: "+truncate(text, remaining))
	}

	return strings.Join(parts, "\n\n")
}

// AnalysisAngle formats the user's custom focus for the analyze template.
func AnalysisAngle(instructions string) string {
	if instructions == "" {
		return ""
	}
	return fmt.Sprintf("\nUSER'S SPECIFIC ANGLE/FOCUS:\n%s\n\nTailor your analysis to emphasize this perspective while maintaining accuracy.\n", instructions)
}

// GenerationAngle formats the user's custom focus for the generate template.
func GenerationAngle(instructions string) string {
	if instructions == "" {
		return ""
	}
	return fmt.Sprintf("\nUSER'S SPECIFIC ANGLE/FOCUS:\n%s\n\nFrame the entire post around this perspective.\n", instructions)
}

// StyleRequirements renders the preference bullet list for the generate
// template. Unknown tones and lengths fall back to the defaults.
func StyleRequirements(tone, length string, includeEmojis, includeHashtags bool) string {
	toneLine, ok := toneDirectives[tone]
	if !ok {
		toneLine = toneDirectives[models.ToneProfessional]
	}
	lengthLine, ok := lengthDirectives[length]
	if !ok {
		lengthLine = lengthDirectives[models.LengthMedium]
	}

	lines := []string{"- Tone: " + toneLine}
	if includeEmojis {
		lines = append(lines, "- Use emojis strategically for visual breaks and emphasis (not excessively)")
	} else {
		lines = append(lines, "- Do not use emojis")
	}
	if includeHashtags {
		lines = append(lines, "- End with 3-5 relevant hashtags")
	} else {
		lines = append(lines, "- Do not include hashtags")
	}
	lines = append(lines, "- "+lengthLine)

	return strings.Join(lines, "\n")
}

// StyleExamples renders up to five of the user's sample posts as style
// guidance.
func StyleExamples(samples []string) string {
	if len(samples) == 0 {
		return ""
	}
	if len(samples) > maxStyleExamples {
		samples = samples[:maxStyleExamples]
	}

	var b strings.Builder
	b.WriteString("\n\nMATCH THIS WRITING STYLE (user's previous posts):\n")
	for i, post := range samples {
		fmt.Fprintf(&b, "\n--- Example %d ---\n%s\n", i+1, post)
	}
	return b.String()
}

// GenerationContent renders the truncated full document section for the
// generate template.
func GenerationContent(text string) string {
	return fullContentSection(text, generateContentMax, "... [content truncated for length]")
}

// RefineContent renders the truncated full document section for the refine
// template.
func RefineContent(text string) string {
	return fullContentSection(text, refineContentMax, "... [content truncated]")
}

// RefineAnalysis truncates the stored analysis for the refine template.
func RefineAnalysis(analysis string) string {
	return truncate(analysis, refineAnalysisMax)
}

func fullContentSection(text string, limit int, marker string) string {
	if text == "" {
		return ""
	}
	truncated := text
	if len(text) > limit {
		truncated = truncate(text, limit) + "\n" + marker
	}
	return fmt.Sprintf("\nFULL DOCUMENT CONTENT (use this to pull specific quotes, numbers, and details):\n%s\n", truncated)
}

// truncate cuts s to at most limit bytes without splitting a multi-byte rune
// at the boundary.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
