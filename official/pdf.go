package official

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// A4 portrait, used when a page carries no MediaBox.
	defaultPageWidth  = 595
	defaultPageHeight = 842

	wordGap = 2
)

// ReadPDF extracts the positioned words of every page.
func ReadPDF(r io.ReaderAt, size int64) (pages []Page, err error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	// The content stream decoder panics on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("read pdf content: %v", rec)
		}
	}()

	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		width, height := pageSize(p)
		pages = append(pages, Page{
			Width:  width,
			Height: height,
			Words:  groupGlyphs(p.Content().Text, height),
		})
	}
	return pages, nil
}

func pageSize(p pdf.Page) (float64, float64) {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			return box.Index(2).Float64() - box.Index(0).Float64(),
				box.Index(3).Float64() - box.Index(1).Float64()
		}
	}
	return defaultPageWidth, defaultPageHeight
}

// groupGlyphs joins glyphs sharing a baseline into words. Spaces stay inside
// a word, so "Total Licencié" is a single word as long as the glyphs touch.
func groupGlyphs(glyphs []pdf.Text, pageHeight float64) []Word {
	byLine := map[float64][]pdf.Text{}
	for _, g := range glyphs {
		key := math.Round(pageHeight - g.Y)
		byLine[key] = append(byLine[key], g)
	}

	var words []Word
	for top, line := range byLine {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

		var current *Word
		var text strings.Builder
		flush := func() {
			if current == nil {
				return
			}
			current.Text = strings.TrimSpace(text.String())
			if current.Text != "" {
				words = append(words, *current)
			}
			current = nil
			text.Reset()
		}
		for _, g := range line {
			if current != nil && g.X-current.X1 > wordGap {
				flush()
			}
			if current == nil {
				current = &Word{X0: g.X, Top: top}
			}
			text.WriteString(g.S)
			current.X1 = g.X + g.W
		}
		flush()
	}
	return words
}
