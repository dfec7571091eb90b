package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"draftline/internal/models"
	"draftline/internal/observability"
)

// Page is the extracted content of a web article.
type Page struct {
	URL         string
	Title       string
	Author      string
	Description string
	Content     string
	Published   string
	ImageURL    string
	Domain      string
}

// contentSelectors are tried in order to locate the main article body.
var contentSelectors = []string{
	"article",
	"[role=\"main\"]",
	".post-content",
	".article-content",
	".entry-content",
	".content-body",
	".story-body",
	".article-body",
	"main",
	".main-content",
	".article-text",
	".story-content",
	".post-body",
	"#content",
	"#main-content",
	".content",
}

// removeSelectors strip navigation, ads, and scripts before content extraction.
var removeSelectors = []string{
	"nav", "header", "footer", "aside",
	".advertisement", ".ad", ".ads", ".sidebar",
	".comments", ".comment-section", ".social-share",
	".related-posts", ".recommended", ".newsletter",
	"script", "style", "noscript", "iframe",
	".nav", ".menu", ".footer", ".header",
}

var authorSelectors = []string{
	".author", ".byline", ".author-name",
	"[rel=\"author\"]", ".post-author",
	"[itemprop=\"author\"]", ".article-author",
}

var navWords = []string{"home", "about", "contact", "privacy", "terms", "cookie", "subscribe", "login", "sign up"}

var (
	byPrefix  = regexp.MustCompile(`(?i)^by\s+`)
	manyBlank = regexp.MustCompile(`\n{3,}`)
)

const (
	minContentLen   = 100
	minParagraphLen = 20
	fetchTimeout    = 30 * time.Second
	userAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper fetches and extracts article content from URLs.
type Scraper struct {
	client *http.Client
}

func New() *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Scrape fetches the URL and extracts title, author, and main content.
// Pages without enough readable content fail rather than producing a
// near-empty document.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	done := observability.TrackExtraction(models.SourceURL)
	defer done()

	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return nil, models.NewValidationError("invalid url")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, models.NewExtractionError("could not reach the website, please check the URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewExtractionError(
			fmt.Sprintf("the website returned HTTP %d, try a different URL", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, models.NewExtractionError("could not parse the page", err)
	}

	page := &Page{
		URL:         normalized,
		Title:       extractTitle(doc),
		Author:      extractAuthor(doc),
		Description: extractDescription(doc),
		Published:   extractDate(doc),
		ImageURL:    extractImage(doc),
		Domain:      domainOf(normalized),
	}

	page.Content = extractContent(doc)
	if len(strings.TrimSpace(page.Content)) < minContentLen {
		return nil, models.NewExtractionError(
			"could not extract meaningful content from the page", nil)
	}

	if page.Author == "" {
		page.Author = page.Domain
	}

	return page, nil
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url is required")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid url")
	}
	return u.String(), nil
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func extractTitle(doc *goquery.Document) string {
	if t := metaContent(doc, `meta[property="og:title"]`); t != "" {
		return t
	}
	if t := metaContent(doc, `meta[name="twitter:title"]`); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return "Untitled"
}

func extractAuthor(doc *goquery.Document) string {
	for _, sel := range []string{
		`meta[name="author"]`,
		`meta[property="article:author"]`,
		`meta[name="twitter:creator"]`,
	} {
		if a := metaContent(doc, sel); a != "" {
			return a
		}
	}

	for _, sel := range authorSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		text = byPrefix.ReplaceAllString(text, "")
		if text != "" && len(text) < 100 {
			return text
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	if d := metaContent(doc, `meta[property="og:description"]`); d != "" {
		return d
	}
	return metaContent(doc, `meta[name="description"]`)
}

func extractDate(doc *goquery.Document) string {
	for _, sel := range []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[name="publish-date"]`,
	} {
		if d := metaContent(doc, sel); d != "" {
			return d
		}
	}
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(dt)
	}
	return ""
}

func extractImage(doc *goquery.Document) string {
	if img := metaContent(doc, `meta[property="og:image"]`); img != "" {
		return img
	}
	return metaContent(doc, `meta[name="twitter:image"]`)
}

func extractContent(doc *goquery.Document) string {
	for _, sel := range removeSelectors {
		doc.Find(sel).Remove()
	}

	var main *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			main = s
			break
		}
	}
	if main == nil {
		main = doc.Find("body").First()
	}
	if main.Length() == 0 {
		return ""
	}

	var parts []string
	seen := map[string]bool{}
	main.Find("p, h1, h2, h3, h4, h5, h6, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) <= minParagraphLen || seen[text] {
			return
		}
		// Short lines full of site chrome words are navigation, not content
		if len(text) < 50 && containsNavWord(text) {
			return
		}
		parts = append(parts, text)
		seen[text] = true
	})

	result := strings.Join(parts, "\n\n")
	if len(result) < 200 {
		// Sparse markup, fall back to the whole node's text
		all := strings.TrimSpace(main.Text())
		all = manyBlank.ReplaceAllString(all, "\n\n")
		if len(all) > len(result) {
			return all
		}
	}
	return result
}

func containsNavWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range navWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
