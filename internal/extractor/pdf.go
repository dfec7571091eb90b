package extractor

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"draftline/internal/models"
	"draftline/internal/observability"
)

// Result holds everything pulled out of a PDF document.
type Result struct {
	Title     string
	Authors   string
	Abstract  string
	Text      string
	PageCount int
	Sections  map[string]string
	Figures   []Figure
}

// Figure describes a detected figure or table region, identified by its caption.
type Figure struct {
	PageNumber     int
	Caption        string
	IsFigure       bool
	Ref            string
	RelevanceScore float64
	Width          float64
	Height         float64
}

// Extract parses a PDF from an in-memory buffer and runs the metadata and
// figure heuristics over its text. A PDF with no extractable text is an error,
// never an empty success.
func Extract(ra io.ReaderAt, size int64) (res *Result, err error) {
	done := observability.TrackExtraction(models.SourcePDF)
	defer done()

	// The pdf library panics on some malformed files instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = models.NewExtractionError("file is not a readable PDF", fmt.Errorf("pdf parse: %v", r))
		}
	}()

	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, models.NewExtractionError("file is not a readable PDF", err)
	}

	res = &Result{
		PageCount: r.NumPage(),
		Sections:  map[string]string{},
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		rows := groupTextsIntoRows(p.Content().Text)
		lines := rowLines(rows)
		pages = append(pages, strings.Join(lines, "\n"))

		res.Figures = append(res.Figures, detectFigures(rows, i)...)
	}

	res.Text = strings.TrimSpace(strings.Join(pages, "\n\n"))
	if res.Text == "" {
		return nil, models.NewExtractionError("no extractable text in PDF", nil)
	}

	firstPage := ""
	if len(pages) > 0 {
		firstPage = pages[0]
	}
	res.Title = extractTitle(firstPage)
	res.Authors = extractAuthors(firstPage, res.Title)
	res.Abstract = extractAbstract(res.Text)
	res.Sections = KeySections(res.Text)

	return res, nil
}

type rowData struct {
	y        float64
	contents []string
	xCoords  []float64
}

// groupTextsIntoRows buckets positioned text fragments into visual rows.
// Fragments within the Y tolerance belong to the same line.
func groupTextsIntoRows(texts []pdf.Text) []rowData {
	if len(texts) == 0 {
		return nil
	}

	var rows []rowData
	tolerance := 2.0

	for _, t := range texts {
		content := strings.TrimSpace(t.S)
		if content == "" {
			continue
		}

		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < tolerance {
				rows[i].contents = append(rows[i].contents, content)
				rows[i].xCoords = append(rows[i].xCoords, t.X)
				placed = true
				break
			}
		}

		if !placed {
			rows = append(rows, rowData{
				y:        t.Y,
				contents: []string{content},
				xCoords:  []float64{t.X},
			})
		}
	}

	// PDF Y grows upward, so larger Y means closer to the top of the page
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for i := range rows {
		sortRowByX(&rows[i])
	}

	return rows
}

func sortRowByX(row *rowData) {
	idx := make([]int, len(row.contents))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return row.xCoords[idx[a]] < row.xCoords[idx[b]] })

	contents := make([]string, len(idx))
	xs := make([]float64, len(idx))
	for i, j := range idx {
		contents[i] = row.contents[j]
		xs[i] = row.xCoords[j]
	}
	row.contents = contents
	row.xCoords = xs
}

func rowLines(rows []rowData) []string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := strings.TrimSpace(strings.Join(row.contents, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectFigures finds caption rows and records the region above each caption
// as a figure candidate. The ref names the page and vertical position so a
// renderer can locate the region later.
func detectFigures(rows []rowData, pageNum int) []Figure {
	var figures []Figure
	for i, row := range rows {
		line := strings.TrimSpace(strings.Join(row.contents, " "))
		if !captionPattern.MatchString(strings.ToLower(line)) {
			continue
		}

		// A large vertical gap above the caption means the figure body sits there;
		// the gap is also the best estimate of the region's height
		gapAbove := false
		height := 0.0
		if i > 0 {
			height = rows[i-1].y - row.y
			if height > 30 {
				gapAbove = true
			}
		}

		// Caption rows span the figure region horizontally, so the caption's
		// X extent approximates the region width
		width := 0.0
		if n := len(row.xCoords); n > 1 {
			width = row.xCoords[n-1] - row.xCoords[0]
		}

		figures = append(figures, Figure{
			PageNumber:     pageNum,
			Caption:        line,
			IsFigure:       figureCaption(line),
			Ref:            fmt.Sprintf("page-%d/y-%.0f", pageNum, row.y),
			RelevanceScore: relevanceScore(line, pageNum, gapAbove),
			Width:          width,
			Height:         height,
		})
	}
	return figures
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
