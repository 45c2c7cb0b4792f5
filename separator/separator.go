// Package separator implements kaoyan.SectionParser over literal separator
// tokens embedded in model output, such as "|||FOCUS|||".
package separator

import (
	"slices"
	"strings"

	"github.com/fwojciec/kaoyan"
)

// Interface compliance check.
var _ kaoyan.SectionParser = (*Parser)(nil)

// Parser splits a growing text into sections. While no section is open it
// looks for any separator; while section i is open it looks for the earliest
// separator of any later section, so a missing separator only empties its
// own section. The last section absorbs all remaining text.
//
// A tail suffix that could be the start of a separator is held back until
// the next Feed or Flush, so separators split across chunks are recognized.
type Parser struct {
	sections []kaoyan.Section
	open     int // -1 while seeking
	tail     string
	texts    []string
}

// New creates a Parser for sections. If the first section's separator is
// empty, that section is open from the start.
func New(sections []kaoyan.Section) *Parser {
	p := &Parser{
		sections: slices.Clone(sections),
		open:     -1,
		texts:    make([]string, len(sections)),
	}
	if len(sections) > 0 && sections[0].Separator == "" {
		p.open = 0
	}
	return p
}

// NewSectionParser adapts New to kaoyan.ParserFactory.
func NewSectionParser(sections []kaoyan.Section) kaoyan.SectionParser {
	return New(sections)
}

// Split parses a complete text in one pass.
func Split(text string, sections []kaoyan.Section) map[string]string {
	p := New(sections)
	p.Feed(text)
	p.Flush()
	return p.Sections()
}

// Feed appends text and returns the names of sections whose text grew.
func (p *Parser) Feed(text string) []string {
	var changed []int
	p.tail += text
	for {
		i, pos, n := p.nextSeparator()
		if i < 0 {
			break
		}
		if p.open >= 0 {
			changed = p.appendText(changed, p.open, p.tail[:pos])
		}
		p.tail = p.tail[pos+n:]
		p.open = i
	}

	keep := p.holdBack()
	if p.open >= 0 {
		changed = p.appendText(changed, p.open, p.tail[:len(p.tail)-keep])
	}
	p.tail = p.tail[len(p.tail)-keep:]
	return p.names(changed)
}

// Flush gives the held-back tail to the open section. Text seen while no
// section was ever opened is discarded.
func (p *Parser) Flush() []string {
	var changed []int
	if p.open >= 0 {
		changed = p.appendText(changed, p.open, p.tail)
	}
	p.tail = ""
	return p.names(changed)
}

// Section returns the accumulated text of the named section.
func (p *Parser) Section(name string) string {
	for i, s := range p.sections {
		if s.Name == name {
			return p.texts[i]
		}
	}
	return ""
}

// Sections returns every section's text keyed by name.
func (p *Parser) Sections() map[string]string {
	m := make(map[string]string, len(p.sections))
	for i, s := range p.sections {
		m[s.Name] = p.texts[i]
	}
	return m
}

// candidates returns the indices of separators that can still open a section.
func (p *Parser) candidates() []int {
	var idx []int
	for i := p.open + 1; i < len(p.sections); i++ {
		if p.sections[i].Separator != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

// nextSeparator finds the earliest candidate separator in the tail. Ties go
// to the longer separator. It returns -1 when none is present.
func (p *Parser) nextSeparator() (index, pos, length int) {
	index, pos = -1, -1
	for _, i := range p.candidates() {
		sep := p.sections[i].Separator
		at := strings.Index(p.tail, sep)
		if at < 0 {
			continue
		}
		if index < 0 || at < pos || (at == pos && len(sep) > length) {
			index, pos, length = i, at, len(sep)
		}
	}
	return index, pos, length
}

// holdBack returns the length of the longest tail suffix that is a proper
// prefix of a candidate separator.
func (p *Parser) holdBack() int {
	keep := 0
	for _, i := range p.candidates() {
		sep := p.sections[i].Separator
		for k := min(len(sep)-1, len(p.tail)); k > keep; k-- {
			if strings.HasSuffix(p.tail, sep[:k]) {
				keep = k
				break
			}
		}
	}
	return keep
}

func (p *Parser) appendText(changed []int, i int, text string) []int {
	if text == "" {
		return changed
	}
	p.texts[i] += text
	if !slices.Contains(changed, i) {
		changed = append(changed, i)
	}
	return changed
}

func (p *Parser) names(idx []int) []string {
	if len(idx) == 0 {
		return nil
	}
	names := make([]string, len(idx))
	for j, i := range idx {
		names[j] = p.sections[i].Name
	}
	return names
}
