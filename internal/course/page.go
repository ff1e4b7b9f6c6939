package course

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// pageFields has Page's layout without its codec methods
type pageFields Page

// bare reports whether the page is nothing but legacy text
func (p Page) bare() bool {
	return p.Text != "" && p.Title == "" && p.PageTitle == "" && p.Content == "" &&
		p.HTML == "" && p.KeyTakeaway == "" && !p.IsManuallyEdited &&
		p.LastEditedAt == nil && p.Flashcards == nil
}

// MarshalJSON writes bare text pages back as strings and keeps an empty
// flashcards list, which omitempty would drop.
func (p Page) MarshalJSON() ([]byte, error) {
	switch {
	case p.bare():
		return json.Marshal(p.Text)
	case p.Flashcards != nil && len(p.Flashcards) == 0:
		return json.Marshal(struct {
			pageFields
			Flashcards []Flashcard `json:"flashcards"`
		}{pageFields(p), p.Flashcards})
	default:
		return json.Marshal(pageFields(p))
	}
}

// UnmarshalJSON accepts an object or any other value, which is kept as Text
func (p *Page) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '{' || bytes.Equal(data, []byte("null")) {
		return json.Unmarshal(data, (*pageFields)(p))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	*p = Page{Text: s}
	return nil
}

func (p Page) MarshalYAML() (any, error) {
	switch {
	case p.bare():
		return p.Text, nil
	case p.Flashcards != nil && len(p.Flashcards) == 0:
		var n yaml.Node
		if err := n.Encode(pageFields(p)); err != nil {
			return nil, err
		}
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "flashcards"},
			&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle},
		)
		return &n, nil
	default:
		return pageFields(p), nil
	}
}

func (p *Page) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		return n.Decode((*pageFields)(p))
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		*p = Page{Text: n.Value}
	default:
		out, err := yaml.Marshal(n)
		if err != nil {
			return err
		}
		*p = Page{Text: strings.TrimSpace(string(out))}
	}
	return nil
}
