package kaoyan

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Keyword sources.
const (
	KeywordSourceAI   = "ai"
	KeywordSourceUser = "user"
)

// Keyword is one brainstorm topic.
type Keyword struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// ReportTimeout bounds the wait for the first chunk of a brainstorm report.
const ReportTimeout = 60 * time.Second

// BrainstormService suggests study topics and writes reports about them.
type BrainstormService struct {
	client *Client
	store  Store
}

// NewBrainstormService creates a BrainstormService.
func NewBrainstormService(client *Client, store Store) *BrainstormService {
	return &BrainstormService{client: client, store: store}
}

// Keywords returns the stored keywords.
func (s *BrainstormService) Keywords(ctx context.Context) ([]Keyword, error) {
	var kws []Keyword
	if err := loadJSONOrZero(ctx, s.store, KeyBrainstormTopics, &kws); err != nil {
		return nil, fmt.Errorf("brainstorm: %w", err)
	}
	return kws, nil
}

// Suggest asks the model for new keywords, replacing earlier suggestions
// while keeping keywords the user added. When the call fails the fallback
// keywords are stored and returned together with the error.
func (s *BrainstormService) Suggest(ctx context.Context, pc ProviderConfig) ([]Keyword, error) {
	var genErr error
	text, err := s.client.Complete(ctx, pc, Request{Prompt: keywordPrompt})
	suggested := ParseKeywords(text)
	if err != nil || len(suggested) == 0 {
		suggested = fallbackKeywords
		if err != nil {
			genErr = fmt.Errorf("brainstorm: %w", err)
		}
	}

	current, err := s.Keywords(ctx)
	if err != nil {
		return nil, err
	}
	kws := make([]Keyword, 0, len(suggested)+len(current))
	for _, t := range suggested {
		kws = appendKeyword(kws, Keyword{Text: t, Source: KeywordSourceAI})
	}
	for _, k := range current {
		if k.Source == KeywordSourceUser {
			kws = appendKeyword(kws, k)
		}
	}
	if err := saveJSON(ctx, s.store, KeyBrainstormTopics, kws); err != nil {
		return kws, fmt.Errorf("brainstorm: %w", err)
	}
	return kws, genErr
}

// AddKeyword stores a user keyword. Duplicates are ignored.
func (s *BrainstormService) AddKeyword(ctx context.Context, text string) ([]Keyword, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("keyword must not be empty: %w", ErrValidation)
	}
	kws, err := s.Keywords(ctx)
	if err != nil {
		return nil, err
	}
	kws = appendKeyword(kws, Keyword{Text: text, Source: KeywordSourceUser})
	if err := saveJSON(ctx, s.store, KeyBrainstormTopics, kws); err != nil {
		return nil, fmt.Errorf("brainstorm: %w", err)
	}
	return kws, nil
}

// RemoveKeyword deletes a keyword. It returns ErrNotFound if absent.
func (s *BrainstormService) RemoveKeyword(ctx context.Context, text string) error {
	kws, err := s.Keywords(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(kws, func(k Keyword) bool { return k.Text == text })
	if i < 0 {
		return fmt.Errorf("keyword %q: %w", text, ErrNotFound)
	}
	kws = slices.Delete(kws, i, i+1)
	return saveJSON(ctx, s.store, KeyBrainstormTopics, kws)
}

// Report streams a study report about keywords.
func (s *BrainstormService) Report(ctx context.Context, pc ProviderConfig, keywords []string, opts ...GenerateOption) (Result, error) {
	if len(keywords) == 0 {
		return Result{}, fmt.Errorf("report needs at least one keyword: %w", ErrValidation)
	}
	req := Request{
		Prompt:  fmt.Sprintf(reportPrompt, strings.Join(keywords, ", ")),
		Timeout: ReportTimeout,
	}
	res, err := s.client.Generate(ctx, pc, req, nil, opts...)
	if err != nil {
		return res, fmt.Errorf("brainstorm: %w", err)
	}
	return res, nil
}

// ParseKeywords splits a comma separated model response into keywords.
// Both ASCII and full-width commas are accepted.
func ParseKeywords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，' || r == '、' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func appendKeyword(kws []Keyword, k Keyword) []Keyword {
	if slices.ContainsFunc(kws, func(e Keyword) bool { return e.Text == k.Text }) {
		return kws
	}
	return append(kws, k)
}

var fallbackKeywords = []string{"矛盾的同一性", "虚拟语气", "三羧酸循环"}

const keywordPrompt = `为准备考研的学生推荐5个相关的、值得深入研究的核心概念（可以是政治、英语或西医综合）。请只返回一个以逗号分隔的字符串列表，不要有任何其他文字。例如: 剩余价值理论,定语从句,细胞凋亡,矛盾的普遍性,新民主主义革命`

const reportPrompt = `你是一位知识渊博的考研辅导老师。请围绕以下核心概念：[%s]，生成一份学习报告。报告应包含：
1. **核心概念解释**: 对每个概念进行清晰、简洁的定义，并解释它们之间的内在联系。
2. **例题与解析**: 提供1-2道与这些概念相关的高质量考研模拟题（选择题或简答题），并附上详细的解析。
报告需条理清晰，重点突出。请使用Markdown格式。`
