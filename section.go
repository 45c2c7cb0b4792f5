package kaoyan

// Section names one slice of a generated response and the literal token that
// opens it. A Separator of "" is only meaningful for the first section and
// means the section is open from the start of the text.
type Section struct {
	Name      string
	Separator string
}

// SectionParser incrementally splits one growing text into named sections.
// Sections are discovered in the caller-supplied order; a section whose
// separator never appears stays empty. Text before the first separator is
// discarded.
//
// Feed appends text and returns the names of sections whose text grew, in
// order. Flush hands the held-back tail to the open section and returns the
// names that grew. Section returns the accumulated text of one section and
// Sections a copy of every section's text keyed by name.
type SectionParser interface {
	Feed(text string) []string
	Flush() []string
	Section(name string) string
	Sections() map[string]string
}

// ParserFactory creates a fresh SectionParser for one generation.
type ParserFactory func(sections []Section) SectionParser
