// Package official reads the federation ranking PDFs (LSEF and CMER) into
// per-category leaderboards.
package official

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	BoardLSEF = "lsef"
	BoardCMER = "cmer"

	lsefTitle = "Championnat Ligue Sud-Est de Fléchettes - Classement"
	cmerTitle = "Championnat Comité Méridional de Fléchettes - Classement"
)

var (
	ErrUnknownBoard = errors.New("unknown official leaderboard")
	ErrNoCategories = errors.New("no leaderboard category found in document")
)

// Boards lists the supported leaderboards in display order.
var Boards = []string{BoardLSEF, BoardCMER}

var cmerColumns = []string{"joueur", "oc1", "cc", "oc2", "oc3", "oc4", "oc5", "e1", "e2", "pts", "clt"}

var cmerExcluded = regexp.MustCompile(`(?i)Total|Autre|Non|#N/A`)

// Word is a run of glyphs on one line. Top grows downwards from the top of
// the page.
type Word struct {
	Text string
	X0   float64
	X1   float64
	Top  float64
}

type Page struct {
	Width  float64
	Height float64
	Words  []Word
}

// Entry is one ranking row keyed by column name.
type Entry map[string]string

type Category struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

// KnownBoard reports whether board names a supported leaderboard.
func KnownBoard(board string) bool {
	for _, b := range Boards {
		if b == board {
			return true
		}
	}
	return false
}

// Parse turns the pages of a ranking document into categories, in the order
// they first appear. A category started on one page carries over to the
// following pages until another title is found.
func Parse(board string, pages []Page) ([]Category, error) {
	var (
		title    string
		category func(string) string
		table    func(Page) []Entry
	)
	switch board {
	case BoardLSEF:
		title, category, table = lsefTitle, lsefCategory, lsefTable
	case BoardCMER:
		title, category, table = cmerTitle, cmerCategory, cmerTable
	default:
		return nil, ErrUnknownBoard
	}

	var (
		order   []string
		entries = map[string][]Entry{}
		current string
	)
	for _, page := range pages {
		for _, l := range page.lines() {
			if strings.Contains(l.text, title) {
				current = category(l.text)
				break
			}
		}
		if current == "" {
			continue
		}

		rows := table(page)
		if len(rows) == 0 {
			continue
		}
		if _, seen := entries[current]; !seen {
			order = append(order, current)
		}
		entries[current] = append(entries[current], rows...)
	}

	if len(order) == 0 {
		return nil, ErrNoCategories
	}
	categories := make([]Category, 0, len(order))
	for _, name := range order {
		categories = append(categories, Category{Category: name, Entries: entries[name]})
	}
	return categories, nil
}

func titleSuffix(title string) string {
	parts := strings.Split(title, "-")
	return strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
}

func lsefCategory(title string) string {
	name := titleSuffix(title)
	has := func(s string) bool { return strings.Contains(name, s) }
	switch {
	case has("mixte") && has("individuel"):
		return "individuel_mixte"
	case has("féminin") && has("individuel"):
		return "individuel_feminin"
	case has("vétéran"):
		return "individuel_veteran"
	case has("junior"):
		return "individuel_junior"
	case has("mixte") && has("double"):
		return "double_mixte"
	case has("féminin") && has("double"):
		return "double_feminin"
	}
	return ""
}

func cmerCategory(title string) string {
	name := titleSuffix(title)
	has := func(s string) bool { return strings.Contains(name, s) }
	switch {
	case has("mixte") && has("individuel"):
		return "individuel_mixte"
	case has("féminine") && has("individuel"):
		return "individuel_feminin"
	case has("vétéran") && has("individuel"):
		return "individuel_veteran"
	case has("junior") && has("individuel"):
		return "individuel_junior"
	case has("mixte") && has("double"):
		return "double_mixte"
	case has("féminin") && has("double"):
		return "double_feminin"
	}
	return ""
}

type line struct {
	top   float64
	words []Word
	text  string
}

// lines groups words by rounded top, ordered top to bottom and left to right.
func (p Page) lines() []line {
	byTop := map[float64][]Word{}
	for _, w := range p.Words {
		key := math.Round(w.Top)
		byTop[key] = append(byTop[key], w)
	}

	lines := make([]line, 0, len(byTop))
	for top, words := range byTop {
		sort.SliceStable(words, func(i, j int) bool { return words[i].X0 < words[j].X0 })
		texts := make([]string, len(words))
		for i, w := range words {
			texts[i] = w.Text
		}
		lines = append(lines, line{top: top, words: words, text: strings.Join(texts, " ")})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].top < lines[j].top })
	return lines
}

type grid struct {
	columns []string
	rows    [][]string
}

// extractGrid finds the first line whose words satisfy isHeader and slices the
// lines below it into columns that start at each header word. The bottom
// tenth of the page is footer.
func extractGrid(p Page, isHeader func([]Word) bool, columnName func(i int, text string) string) *grid {
	lines := p.lines()

	headerIdx := -1
	for i, l := range lines {
		if isHeader(l.words) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	header := lines[headerIdx]
	starts := make([]float64, len(header.words))
	g := &grid{columns: make([]string, len(header.words))}
	for i, w := range header.words {
		starts[i] = w.X0
		g.columns[i] = columnName(i, w.Text)
	}

	footer := p.Height * 0.9
	for _, l := range lines[headerIdx+1:] {
		if l.top >= footer {
			continue
		}
		row := make([]string, len(starts))
		for _, w := range l.words {
			mid := (w.X0 + w.X1) / 2
			for i, start := range starts {
				end := p.Width
				if i+1 < len(starts) {
					end = starts[i+1]
				}
				if start <= mid && mid < end {
					row[i] = w.Text
					break
				}
			}
		}
		g.rows = append(g.rows, row)
	}
	return g
}

func containsWord(words []Word, texts ...string) bool {
	for _, w := range words {
		for _, t := range texts {
			if w.Text == t {
				return true
			}
		}
	}
	return false
}

func lsefTable(p Page) []Entry {
	empty := 0
	g := extractGrid(p,
		func(words []Word) bool { return containsWord(words, "Joueur") },
		func(_ int, text string) string {
			name := strings.ToLower(text)
			if name == "" || name == "," || name == ",," {
				empty++
				return "empty" + strconv.Itoa(empty)
			}
			return strings.ReplaceAll(name, " ", "_")
		},
	)
	if g == nil {
		return nil
	}

	var entries []Entry
	for _, row := range g.rows {
		raw := make(map[string]string, len(g.columns))
		for i, col := range g.columns {
			raw[col] = row[i]
		}
		joueur := strings.TrimSpace(raw["joueur"])
		if joueur == "" || joueur == "Total Licencié" {
			continue
		}
		fixShiftedRank(g.columns, raw)

		entry := Entry{}
		for _, col := range g.columns {
			if !strings.HasPrefix(col, "empty") {
				entry[col] = raw[col]
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// fixShiftedRank handles ranks above 99, which are printed wide enough to
// land in the points column.
func fixShiftedRank(columns []string, row map[string]string) {
	var values []string
	for _, col := range columns {
		if col == "joueur" || col == "empty1" || col == "empty2" {
			continue
		}
		values = append(values, row[col])
	}
	if len(values) < 3 {
		return
	}
	last, prev := values[len(values)-1], values[len(values)-2]
	if !isDigits(last) || isDigits(prev) {
		return
	}
	if n, _ := strconv.Atoi(last); n <= 99 {
		return
	}
	if prev == "" {
		prev = "0"
	}
	row["pts"] = prev
	row["clt"] = last
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func cmerTable(p Page) []Entry {
	g := extractGrid(p,
		func(words []Word) bool { return containsWord(words, "Joueur", "Doublette") },
		func(i int, _ string) string {
			if i < len(cmerColumns) {
				return cmerColumns[i]
			}
			return ""
		},
	)
	if g == nil || len(g.columns) < len(cmerColumns) {
		return nil
	}

	var entries []Entry
	for _, row := range g.rows {
		joueur := row[0]
		if strings.TrimSpace(joueur) == "" ||
			cmerExcluded.MatchString(joueur) ||
			joueur == "Joueur" || joueur == "Doublette" {
			continue
		}
		entry := make(Entry, len(cmerColumns))
		for i, col := range cmerColumns {
			entry[col] = row[i]
		}
		entries = append(entries, entry)
	}
	return entries
}
