package parser

import (
	"regexp"
	"strings"

	"github.com/gubarz/coursemd/internal/content"
	"github.com/gubarz/coursemd/internal/course"
)

// SubsectionView is a parsed subsection joined with its generated record.
// Index is the position in detailedSubsections, or -1 when nothing matched.
type SubsectionView struct {
	Number      string       `json:"number"`
	Title       string       `json:"title"`
	Unit        string       `json:"unit,omitempty"`
	UnitContext string       `json:"unitContext,omitempty"`
	Section     string       `json:"section,omitempty"`
	Index       int          `json:"index"`
	Content     content.View `json:"content"`
}

var (
	titleNumberRegex = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)`)
	// titlePrefixRegex also eats the separator after the number
	titlePrefixRegex = regexp.MustCompile(`^\s*\d+(?:\.\d+)*[.:)]?\s*`)
)

// TitleNumber returns the leading dotted number of a generated subsection
// title, e.g. "2.1.3" for "2.1.3 Newton's Laws"
func TitleNumber(title string) string {
	if m := titleNumberRegex.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// Merge orders subsection views by the outline and attaches the generated
// record whose title number matches. Generated records without a heading are
// left out. When the outline has no subsections at all the generated records
// are used in array order.
func Merge(outline Outline, detailed []course.Subsection) []SubsectionView {
	if len(outline.Subsections) == 0 {
		return fromDetailed(outline, detailed)
	}

	byNumber := make(map[string]int, len(detailed))
	for i, d := range detailed {
		n := TitleNumber(d.Title)
		if n == "" {
			continue
		}
		if _, dup := byNumber[n]; !dup {
			byNumber[n] = i
		}
	}

	views := make([]SubsectionView, 0, len(outline.Subsections))
	for _, s := range outline.Subsections {
		view := SubsectionView{
			Number:      s.Number,
			Title:       s.Name,
			Unit:        s.Unit,
			UnitContext: s.UnitContext,
			Section:     outline.Section(s.Number),
			Index:       -1,
		}
		if i, ok := byNumber[strings.TrimSuffix(s.Number, ".")]; ok {
			view.Index = i
			view.Content = content.NewView(content.Classify(detailed[i]))
		} else {
			view.Content = content.NewView(content.NewEmpty())
		}
		views = append(views, view)
	}
	return views
}

func fromDetailed(outline Outline, detailed []course.Subsection) []SubsectionView {
	views := make([]SubsectionView, 0, len(detailed))
	for i, d := range detailed {
		number := TitleNumber(d.Title)
		unit := ""
		if number != "" {
			unit = strings.SplitN(number, ".", 2)[0]
		}
		title := strings.TrimSpace(titlePrefixRegex.ReplaceAllString(d.Title, ""))
		if title == "" {
			title = d.Title
		}
		views = append(views, SubsectionView{
			Number:      number,
			Title:       title,
			Unit:        unit,
			UnitContext: unitContext(unit, outline.Units[unit]),
			Section:     outline.Section(number),
			Index:       i,
			Content:     content.NewView(content.Classify(d)),
		})
	}
	return views
}
