package prompts

import "strings"

// Template is a named (system prompt, user prompt) pair. The user prompt
// carries {placeholder} variables substituted at call time. Templates are pure
// data: the transparency endpoint returns exactly the strings executed here.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	System      string   `json:"system"`
	User        string   `json:"user"`
	Variables   []string `json:"variables"`
}

// Render substitutes the given variables into the user prompt. Placeholders
// with no value collapse to empty strings so optional sections disappear
// cleanly.
func (t Template) Render(vars map[string]string) string {
	out := t.User
	for _, v := range t.Variables {
		out = strings.ReplaceAll(out, "{"+v+"}", vars[v])
	}
	return out
}

// All returns the templates in pipeline order.
func All() []Template {
	return []Template{Summarize, Analyze, Generate, Refine}
}

// Summarize produces a short plain-language summary of a document.
var Summarize = Template{
	ID:          "summarize",
	Name:        "Document Summary",
	Description: "Produces a brief plain-text summary of the document.",
	System:      "You are a research analyst who writes tight, factual summaries. You never speculate beyond what the source material states, and you keep every number exactly as written.",
	User: `Summarize the following document in 3-4 sentences for a busy professional.

TITLE: {title}
BY: {author}

DOCUMENT:
{content}

Rules:
- Lead with the single most important finding or claim
- Keep every statistic exactly as stated in the document
- No hype words, no editorializing
- Output plain text only, no headings or bullets`,
	Variables: []string{"title", "author", "content"},
}

// Analyze extracts the structured executive briefing the generation step
// builds posts from. The response must be valid JSON.
var Analyze = Template{
	ID:          "analyze",
	Name:        "Executive Analysis",
	Description: "Extracts concrete, data-driven insights from the document as structured JSON.",
	System:      "You are a senior research analyst preparing executive briefings. Your job is to extract ONLY concrete, data-backed findings. Never use vague language like 'transformative', 'revolutionary', or 'game-changing'. Every claim must cite specific numbers, sample sizes, or direct quotes from the source material. If data isn't available for a point, explicitly state 'Data not provided in source.' You always respond with valid JSON.",
	User: `You are a senior research analyst preparing a briefing for C-suite executives. Extract CONCRETE, DATA-DRIVEN insights from this content.

CONTENT TO ANALYZE:
{context}
{custom_angle}
CRITICAL RULES:
- NO fluffy language ("transformative", "paradigm shift", "revolutionize", "game-changing")
- NO vague predictions ("this will impact X, Y, Z")
- EVERY claim must be backed by specific data, numbers, or direct quotes from the document
- If the document doesn't provide data for a point, say "Data not provided" rather than speculating

Extract the following:

1. CORE FINDING (2-3 sentences):
   - What is the primary claim or discovery?
   - What specific evidence supports it? (Include exact numbers, sample sizes, percentages, dollar amounts)
   - Example format: "The study found that X increased by 47% (n=1,200, p<0.05) when Y was implemented."

2. DOCUMENT SECTIONS (provide a detailed breakdown of 4-8 key sections):
   For each major section or topic covered in the document:
   - section_title: A clear title for this section/topic
   - summary: 2-4 sentences explaining what this section covers and its key points
   - key_details: 2-3 bullet points with specific facts, data, or arguments from this section

   Example sections might include: Introduction/Background, Methodology, Results, Case Studies, Discussion, Conclusions, etc.
   Tailor to what's actually in the document - news articles might have: Context, Main Story, Expert Opinions, Implications, etc.

3. KEY DATA POINTS (5-7 items):
   Extract the most important quantitative findings. For each:
   - State the specific metric/finding with exact numbers
   - Include methodology context (sample size, time period, comparison baseline)
   - Note any limitations or caveats mentioned

   BAD: "Significant cost savings were achieved"
   GOOD: "Operating costs decreased 23% ($4.2M annually) over 18 months, measured across 47 facilities vs. control group of 12 facilities"

4. EXECUTIVE IMPLICATIONS:
   What should a CEO/CFO/CTO actually DO with this information? Be specific:
   - Financial impact: What's the potential ROI, cost, or revenue implication? Use numbers from the document.
   - Operational impact: What processes or resources would need to change?
   - Timeline: When would results be expected based on the data?
   - Risk factors: What could go wrong? What are the documented failure cases or limitations?

5. METHODOLOGY & CREDIBILITY:
   - How was this research conducted? (Sample size, duration, methodology)
   - Who conducted it? (Institution, potential conflicts of interest)
   - What are the stated limitations?
   - How does this compare to prior work? (If mentioned)

6. QUOTABLE FACTS (3 items):
   Pull the 3 most striking, specific facts that would make an executive pay attention.
   These must be DIRECTLY from the document - no paraphrasing into vague statements.

   BAD: "AI is becoming more important"
   GOOD: "Companies using AI-assisted decision making saw 34% faster time-to-market (median 6.2 vs 9.4 months, n=89 product launches)"

Format as JSON with keys: core_finding, document_sections (array of objects with "section_title", "summary", "key_details"), key_data_points (array of objects with "finding", "context", "limitations"), executive_implications (object with "financial", "operational", "timeline", "risks"), methodology (object with "approach", "credibility", "limitations", "prior_work"), quotable_facts (array)`,
	Variables: []string{"context", "custom_angle"},
}

// Generate writes the LinkedIn post from the analysis plus the user's style.
var Generate = Template{
	ID:          "generate",
	Name:        "Post Generation",
	Description: "Writes a LinkedIn post from the analysis, matched to the user's style preferences.",
	System: `You are a top LinkedIn content creator known for posts that get massive engagement. Your style:
- You find the non-obvious angle that makes people stop scrolling
- You teach specific, actionable insights (not generic advice)
- You write with authority but stay accessible
- You use concrete numbers, examples, and details
- You challenge conventional thinking when the evidence supports it
- Your hooks are irresistible - they create genuine curiosity

CRITICAL: LinkedIn does NOT support markdown. Output plain text only. No **, no *, no # headers. Use line breaks, numbers, and emojis for formatting.`,
	User: `Create a high-engagement LinkedIn post about this content.

SOURCE: {title}
BY: {author}

EXECUTIVE ANALYSIS (use these concrete data points):
{analysis}
{full_content_section}

STYLE REQUIREMENTS:
{style_requirements}
{style_examples}
{custom_angle}

YOUR POST MUST:
1. Lead with a SPECIFIC data point or finding (use exact numbers from the analysis)
2. Include at least 2-3 concrete statistics, percentages, or dollar figures
3. Explain what this means for executives/decision-makers (use the executive_implications from the analysis)
4. Cite methodology context where relevant (sample size, timeframe) to build credibility

STRUCTURE:

1. HOOK (First 2 lines):
   - Open with the most striking statistic or finding
   - Example: "47% improvement. 18 months. $4.2M saved. Here's the data nobody's talking about:"

2. BODY (The substance):
   - Present 3-5 key findings WITH their numbers
   - For each, briefly explain what it means practically
   - Use the quotable_facts and key_data_points from the analysis
   - Include context (sample size, methodology) to add credibility
   - Add executive implications: "For a mid-size company, this translates to..."

3. CLOSE:
   - One concrete takeaway or action
   - A specific question that invites discussion about the data

CRITICAL FORMATTING (LinkedIn has NO markdown support):
- Plain text ONLY - no **, no *, no # headers, no [links](url)
- Use line breaks generously for readability
- Use arrows or bullet characters for lists
- Numbers (1. 2. 3.) work great for lists
- Emojis sparingly for visual breaks

Output ONLY the post content. No explanations.`,
	Variables: []string{"title", "author", "analysis", "full_content_section", "style_requirements", "style_examples", "custom_angle"},
}

// Refine rewrites an existing post per the user's instruction.
var Refine = Template{
	ID:          "refine",
	Name:        "Post Refinement",
	Description: "Applies the user's requested changes to an existing post.",
	System:      "You are an expert LinkedIn content editor who makes posts more engaging while keeping them specific and valuable. You have access to the full document to pull specific quotes, numbers, and details. You never water down insights into generic advice. LinkedIn does NOT support markdown - output plain text only.",
	User: `You are a top LinkedIn content editor helping refine a post for maximum engagement.

ORIGINAL CONTENT CONTEXT:
Title: {title}
Source: {author}

AI Analysis:
{analysis}
{full_content_section}

CURRENT POST VERSION:
{current_post}

USER'S REFINEMENT REQUEST:
{instruction}

REFINEMENT GUIDELINES:
1. Apply the user's requested changes precisely
2. Maintain the specific insights and details - don't make it more generic
3. Keep the hook strong (or make it stronger if that's the request)
4. Ensure every point delivers real value, not fluff
5. Preserve accuracy to the source content
6. You can pull specific quotes, numbers, or details from the full document if helpful

FORMATTING (LinkedIn has NO markdown):
- Plain text only - no **, no *, no # headers
- Use line breaks for readability
- Numbers (1. 2. 3.) and arrows work well
- Emojis are fine for visual breaks

Output ONLY the refined post. No explanations or meta-commentary.`,
	Variables: []string{"title", "author", "analysis", "full_content_section", "current_post", "instruction"},
}
