package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Subsection is a level-4 heading found in a module's content
type Subsection struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	UnitTitle   string `json:"unitTitle,omitempty"`
	UnitContext string `json:"unitContext"`
}

// Outline is the Unit -> Section -> Subsection structure of one module
type Outline struct {
	Units       map[string]string `json:"units,omitempty"`
	Sections    map[string]string `json:"sections"`
	Subsections []Subsection      `json:"subsections"`
}

var (
	unitRegex       = regexp.MustCompile(`(?i)^#+\s*(Unit|Chapter)\s*(\d+)[:\s]*(.*)`)
	sectionRegex    = regexp.MustCompile(`^###\s+([\d.]+)\s+(.*)`)
	subsectionRegex = regexp.MustCompile(`^####\s+([\d.]+)\s+(.*)`)
	codeFenceRegex  = regexp.MustCompile("^\\s*```")
)

// maxLine bounds a single scanned line; generated content can carry long
// paragraphs without breaks.
const maxLine = 1 << 20

// ParseHeadings derives the heading hierarchy of a markdown string. Numbers
// are taken as written, in document order, without validation.
func ParseHeadings(markdown string) Outline {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	return parseLines(strings.Split(markdown, "\n"))
}

// Parse reads markdown from r and derives its heading hierarchy
func Parse(r io.Reader) (Outline, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Outline{}, err
	}
	return parseLines(lines), nil
}

// ParseFile parses the headings of a markdown file on disk
func ParseFile(path string) (Outline, error) {
	file, err := os.Open(path)
	if err != nil {
		return Outline{}, err
	}
	defer file.Close()
	return Parse(file)
}

func parseLines(lines []string) Outline {
	out := Outline{
		Units:       make(map[string]string),
		Sections:    make(map[string]string),
		Subsections: make([]Subsection, 0),
	}
	var inCodeBlock bool

	for _, line := range lines {
		if codeFenceRegex.MatchString(line) {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		// Unit headings may use any level, so they are checked first
		if matches := unitRegex.FindStringSubmatch(line); matches != nil {
			out.Units[matches[2]] = strings.TrimSpace(matches[3])
			continue
		}

		if matches := sectionRegex.FindStringSubmatch(line); matches != nil {
			out.Sections[matches[1]] = strings.TrimSpace(matches[2])
			continue
		}

		if matches := subsectionRegex.FindStringSubmatch(line); matches != nil {
			number := matches[1]
			unit := strings.SplitN(number, ".", 2)[0]
			title := out.Units[unit]
			out.Subsections = append(out.Subsections, Subsection{
				Number:      number,
				Name:        strings.TrimSpace(matches[2]),
				Unit:        unit,
				UnitTitle:   title,
				UnitContext: unitContext(unit, title),
			})
		}
	}

	return out
}

func unitContext(unit, title string) string {
	if unit == "" {
		return ""
	}
	if title == "" {
		return fmt.Sprintf("Unit %s", unit)
	}
	return fmt.Sprintf("Unit %s: %s", unit, title)
}

// Section returns the title of the section a subsection number belongs to,
// e.g. "1.1" for "1.1.3"
func (o Outline) Section(number string) string {
	number = strings.TrimSuffix(number, ".")
	if idx := strings.LastIndex(number, "."); idx != -1 {
		return o.Sections[number[:idx]]
	}
	return ""
}
