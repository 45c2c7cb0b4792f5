package kaoyan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Mood is a daily mood rating from 1 (awful) to 5 (great).
type Mood int

const (
	MoodAwful Mood = iota + 1
	MoodBad
	MoodOkay
	MoodGood
	MoodGreat
)

// Label returns the display label of the mood.
func (m Mood) Label() string {
	switch m {
	case MoodAwful:
		return "很糟糕"
	case MoodBad:
		return "不太好"
	case MoodOkay:
		return "一般般"
	case MoodGood:
		return "还不错"
	case MoodGreat:
		return "棒极了"
	default:
		return "未知"
	}
}

// Positive reports whether the mood counts toward a positive streak.
func (m Mood) Positive() bool { return m >= MoodGood }

// MoodEntry is one journal entry. There is at most one entry per date.
type MoodEntry struct {
	Date string `json:"date"` // YYYY-MM-DD
	Mood Mood   `json:"mood"`
	Text string `json:"text,omitempty"`
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// Summary section names.
const (
	SectionSummary    = "summary"
	SectionSuggestion = "suggestion"
)

// MoodSummarySections splits a mood summary from its suggestion.
var MoodSummarySections = []Section{
	{Name: SectionSummary},
	{Name: SectionSuggestion, Separator: "|||"},
}

// MinSummaryEntries is the number of entries required before a summary is
// generated; at most summaryWindow recent entries are sent to the model.
const (
	MinSummaryEntries = 3
	summaryWindow     = 7
)

// MoodSummary is the generated reflection on recent entries.
type MoodSummary struct {
	Summary    string
	Suggestion string
	Fallback   bool
}

type summaryCache struct {
	Signature string `json:"signature"`
	Text      string `json:"text"`
}

// Journal stores mood entries and summarizes them.
type Journal struct {
	client    *Client
	store     Store
	newParser ParserFactory
	cfg       serviceConfig
}

// NewJournal creates a Journal.
func NewJournal(client *Client, store Store, newParser ParserFactory, opts ...ServiceOption) *Journal {
	return &Journal{client: client, store: store, newParser: newParser, cfg: newServiceConfig(opts)}
}

// Entries returns all entries sorted by date.
func (j *Journal) Entries(ctx context.Context) ([]MoodEntry, error) {
	m, err := j.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortedEntries(m), nil
}

// Save validates e and stores it, replacing any entry for the same date.
func (j *Journal) Save(ctx context.Context, e MoodEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	m, err := j.load(ctx)
	if err != nil {
		return err
	}
	m[e.Date] = e
	return saveJSON(ctx, j.store, KeyMoodEntries, m)
}

// Delete removes the entry for date. It returns ErrNotFound if there is none.
func (j *Journal) Delete(ctx context.Context, date string) error {
	m, err := j.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := m[date]; !ok {
		return fmt.Errorf("mood entry %s: %w", date, ErrNotFound)
	}
	delete(m, date)
	return saveJSON(ctx, j.store, KeyMoodEntries, m)
}

func (j *Journal) load(ctx context.Context) (map[string]MoodEntry, error) {
	m := make(map[string]MoodEntry)
	if err := loadJSONOrZero(ctx, j.store, KeyMoodEntries, &m); err != nil {
		return nil, fmt.Errorf("mood journal: %w", err)
	}
	if m == nil {
		m = make(map[string]MoodEntry)
	}
	return m, nil
}

func sortedEntries(m map[string]MoodEntry) []MoodEntry {
	entries := slices.Collect(maps.Values(m))
	slices.SortFunc(entries, func(a, b MoodEntry) int { return strings.Compare(a.Date, b.Date) })
	return entries
}

// Summary returns a reflection on the most recent entries. It is served
// from cache while the entries are unchanged. Fewer than MinSummaryEntries
// entries fail with ErrNotEnoughEntries. When generation fails the fallback
// summary is returned together with the error.
func (j *Journal) Summary(ctx context.Context, pc ProviderConfig) (MoodSummary, error) {
	entries, err := j.Entries(ctx)
	if err != nil {
		return MoodSummary{}, err
	}
	if len(entries) < MinSummaryEntries {
		return MoodSummary{}, fmt.Errorf("mood summary needs %d entries, have %d: %w", MinSummaryEntries, len(entries), ErrNotEnoughEntries)
	}

	sig, err := signature(entries)
	if err != nil {
		return MoodSummary{}, err
	}
	var cached summaryCache
	if err := loadJSONOrZero(ctx, j.store, KeyMoodSummary, &cached); err != nil {
		return MoodSummary{}, fmt.Errorf("mood summary: %w", err)
	}
	if cached.Signature == sig && cached.Text != "" {
		return j.split(cached.Text), nil
	}

	recent := entries[max(0, len(entries)-summaryWindow):]
	text, err := j.client.Complete(ctx, pc, Request{Prompt: moodPrompt(recent)})
	if err != nil {
		fb := j.split(moodFallback)
		fb.Fallback = true
		return fb, fmt.Errorf("mood summary: %w", err)
	}
	if err := saveJSON(ctx, j.store, KeyMoodSummary, summaryCache{Signature: sig, Text: text}); err != nil {
		return j.split(text), fmt.Errorf("mood summary: %w", err)
	}
	return j.split(text), nil
}

func (j *Journal) split(text string) MoodSummary {
	p := j.newParser(MoodSummarySections)
	p.Feed(text)
	p.Flush()
	return MoodSummary{
		Summary:    strings.TrimSpace(p.Section(SectionSummary)),
		Suggestion: strings.TrimSpace(p.Section(SectionSuggestion)),
	}
}

func signature(entries []MoodEntry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("mood summary: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func moodPrompt(recent []MoodEntry) string {
	var sb strings.Builder
	for _, e := range recent {
		fmt.Fprintf(&sb, "- 日期: %s, 心情: %d (%s)", e.Date, e.Mood, e.Mood.Label())
		if e.Text != "" {
			fmt.Fprintf(&sb, ", 笔记: \"%s...\"", truncateRunes(strings.ReplaceAll(e.Text, "\n", " "), 50))
		}
		sb.WriteByte('\n')
	}
	return fmt.Sprintf(moodPromptTemplate, len(recent), sb.String())
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

const moodPromptTemplate = `你是一位温暖而有洞察力的朋友，正在为一位准备考研的同学分析心情数据。这是过去%d天的心情和日记摘要：
%s(心情指数: 5代表“棒极了”，1代表“很糟糕”)

根据这些数据，请提供：
1. 一段简短、积极且鼓励人心的话，总结情绪状态（约50-80字）。
2. 一条可行的、温和的建议，帮助保持良好心态（约50-80字）。
请用中文回答。使用Markdown加粗关键词。用 '|||' 分隔总结和建议。
格式示例: **总结:** [你的总结]|||**小建议:** [你的建议]`

const moodFallback = "AI分析加载失败，但你的努力我们有目共睹，继续加油！|||**小建议:** 记得多喝水，适当休息哦！"

// MoodStats aggregates the journal.
type MoodStats struct {
	Total                 int
	Counts                map[Mood]int
	MaxCount              int
	LongestPositiveStreak int // consecutive entries with a positive mood
}

// ComputeMoodStats aggregates entries, which must be sorted by date.
func ComputeMoodStats(entries []MoodEntry) MoodStats {
	stats := MoodStats{
		Total:  len(entries),
		Counts: map[Mood]int{MoodAwful: 0, MoodBad: 0, MoodOkay: 0, MoodGood: 0, MoodGreat: 0},
	}
	streak := 0
	for _, e := range entries {
		stats.Counts[e.Mood]++
		if e.Mood.Positive() {
			streak++
			stats.LongestPositiveStreak = max(stats.LongestPositiveStreak, streak)
		} else {
			streak = 0
		}
	}
	for _, n := range stats.Counts {
		stats.MaxCount = max(stats.MaxCount, n)
	}
	return stats
}
