package markup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gubarz/coursemd/internal/mathspan"
)

// Placeholders use Unicode Private Use Area runes. No markdown rule matches them and
// goldmark passes them through unchanged.
const (
	stashOpen  = "\uE000"
	stashClose = "\uE001"
)

var stashRe = regexp.MustCompile(stashOpen + `(\d+)` + stashClose)

// stash holds finished fragments that later rules must not touch
type stash struct {
	items  []string
	blocks map[int]bool
}

func (s *stash) put(fragment string) string {
	s.items = append(s.items, fragment)
	return stashOpen + strconv.Itoa(len(s.items)-1) + stashClose
}

// putBlock stashes a fragment that must stand on its own line
func (s *stash) putBlock(fragment string) string {
	if s.blocks == nil {
		s.blocks = make(map[int]bool)
	}
	s.blocks[len(s.items)] = true
	return s.put(fragment)
}

// isBlock reports whether line is exactly one block placeholder
func (s *stash) isBlock(line string) bool {
	m := stashRe.FindStringSubmatchIndex(line)
	if m == nil || m[0] != 0 || m[1] != len(line) {
		return false
	}
	idx, err := strconv.Atoi(line[m[2]:m[3]])
	return err == nil && s.blocks[idx]
}

// restore expands placeholders, including ones nested inside stashed fragments
func (s *stash) restore(text string) string {
	for depth := 0; depth <= len(s.items) && strings.Contains(text, stashOpen); depth++ {
		text = stashRe.ReplaceAllStringFunc(text, func(m string) string {
			idx, err := strconv.Atoi(stashRe.FindStringSubmatch(m)[1])
			if err != nil || idx >= len(s.items) {
				return m
			}
			return s.items[idx]
		})
	}
	return text
}

// maskMath hides math tokens behind stash placeholders so emphasis rules
// never see their underscores
func (s *stash) maskMath(shielded string) string {
	return mathspan.TokenPattern.ReplaceAllStringFunc(shielded, s.put)
}
