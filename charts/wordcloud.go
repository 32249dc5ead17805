package charts

import (
	"image"
	"sort"
	"strings"
	"unicode"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"movie-insights/models"
)

const (
	cloudTitle     = "Tags generated by the users for these movies"
	cloudMaxWords  = 120
	cloudMinFont   = 9.0
	cloudMaxFont   = 64.0
	cloudTitleSize = 11.0
	cloudMargin    = 12
	cloudGap       = 10
)

var cloudBackground = drawing.ColorBlack

// stopwords are dropped from the tag corpus before counting.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are as at be
		because been before being below between both but by can could did do does doing down during each
		few for from further had has have having he her here hers him his how i if in into is it its itself
		just me more most my no nor not of off on once only or other our out over own same she should so
		some such than that the their them then there these they this those through to too under until up
		very was we were what when where which while who whom why will with would you your`) {
		stopwords[w] = struct{}{}
	}
}

// WordCount is a word and how often it occurs in the tag corpus.
type WordCount struct {
	Word  string
	Count int
}

// WordFrequencies tokenises every tag of the given movies, lowercases the
// words, drops stopwords and single letters, and returns the counts sorted
// by frequency then alphabetically.
func WordFrequencies(movies []models.MovieSummary) []WordCount {
	counts := make(map[string]int)
	for _, m := range movies {
		for _, tag := range m.Tags {
			for _, w := range tokenize(tag) {
				counts[w]++
			}
		}
	}

	words := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		words = append(words, WordCount{Word: w, Count: n})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	return words
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	words := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		words = append(words, f)
	}
	return words
}

type placedWord struct {
	text string
	size float64
	w, h int
	col  drawing.Color
}

// renderWordCloud sizes each word by its frequency and flows the words into
// centred rows, largest first, until the panel is full.
func renderWordCloud(movies []models.MovieSummary, p Palette, width, height int) (image.Image, error) {
	words := WordFrequencies(movies)
	if len(words) == 0 {
		return placeholder(width, height, cloudTitle, "No tags available"), nil
	}
	if len(words) > cloudMaxWords {
		words = words[:cloudMaxWords]
	}

	c, err := newCanvas(width, height, drawing.ColorWhite)
	if err != nil {
		return nil, err
	}
	tb := c.measure(cloudTitle, cloudTitleSize)
	c.textCentered(cloudTitle, 10+tb.Height(), cloudTitleSize, colorAxis)

	top := 20 + tb.Height()
	c.fillRect(0, top, width, height, cloudBackground)

	maxFont := cloudMaxFont
	if limit := float64(height-top) / 5; limit < maxFont {
		maxFont = limit
	}
	if maxFont < cloudMinFont {
		maxFont = cloudMinFont
	}

	maxCount := float64(words[0].Count)
	var rows [][]placedWord
	var row []placedWord
	rowWidth := 0
	for i, wc := range words {
		size := cloudMinFont + (maxFont-cloudMinFont)*float64(wc.Count)/maxCount
		b := c.measure(wc.Word, size)
		pw := placedWord{
			text: wc.Word,
			size: size,
			w:    b.Width(),
			h:    b.Height(),
			col:  p.At(0.25 + 0.75*float64(i%len(p))/float64(len(p))),
		}
		if pw.w > width-2*cloudMargin {
			continue
		}
		if len(row) > 0 && rowWidth+cloudGap+pw.w > width-2*cloudMargin {
			rows = append(rows, row)
			row, rowWidth = nil, 0
		}
		if len(row) > 0 {
			rowWidth += cloudGap
		}
		row = append(row, pw)
		rowWidth += pw.w
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	y := top + cloudMargin
	for _, r := range rows {
		rowHeight, total := 0, 0
		for _, pw := range r {
			if pw.h > rowHeight {
				rowHeight = pw.h
			}
			total += pw.w
		}
		total += cloudGap * (len(r) - 1)
		if y+rowHeight > height-cloudMargin {
			break
		}

		x := (width - total) / 2
		for _, pw := range r {
			c.text(pw.text, x, y+rowHeight, pw.size, pw.col)
			x += pw.w + cloudGap
		}
		y += rowHeight + cloudGap/2
	}
	return c.image()
}
