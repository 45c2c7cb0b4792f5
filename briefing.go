package kaoyan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Briefing section names.
const (
	SectionFocus         = "focus"
	SectionClarification = "clarification"
	SectionWord          = "word"
	SectionEncouragement = "encouragement"
)

// BriefingSections is the separator contract of the daily briefing prompt.
var BriefingSections = []Section{
	{Name: SectionFocus, Separator: "|||FOCUS|||"},
	{Name: SectionClarification, Separator: "|||CLARIFICATION|||"},
	{Name: SectionWord, Separator: "|||WORD|||"},
	{Name: SectionEncouragement, Separator: "|||ENCOURAGEMENT|||"},
}

// Briefing is the daily dashboard content generated from one combined prompt.
type Briefing struct {
	Focus         string    `json:"focus"`
	Clarification string    `json:"clarification"`
	Word          string    `json:"word"`
	Encouragement string    `json:"encouragement"`
	DailyNote     string    `json:"daily_note"`
	GeneratedAt   time.Time `json:"generated_at"`

	// Fallback lists the sections the model did not produce, which hold
	// substitute content instead.
	Fallback []string `json:"fallback,omitempty"`
}

// Section returns the text of the named section.
func (b Briefing) Section(name string) string {
	switch name {
	case SectionFocus:
		return b.Focus
	case SectionClarification:
		return b.Clarification
	case SectionWord:
		return b.Word
	case SectionEncouragement:
		return b.Encouragement
	default:
		return ""
	}
}

func (b *Briefing) setSection(name, text string) {
	switch name {
	case SectionFocus:
		b.Focus = text
	case SectionClarification:
		b.Clarification = text
	case SectionWord:
		b.Word = text
	case SectionEncouragement:
		b.Encouragement = text
	}
}

// BriefingService generates and caches the daily briefing.
type BriefingService struct {
	client    *Client
	store     Store
	newParser ParserFactory
	cfg       serviceConfig
}

// NewBriefingService creates a BriefingService.
func NewBriefingService(client *Client, store Store, newParser ParserFactory, opts ...ServiceOption) *BriefingService {
	return &BriefingService{client: client, store: store, newParser: newParser, cfg: newServiceConfig(opts)}
}

// Cached returns the stored briefing, or ErrNotFound.
func (s *BriefingService) Cached(ctx context.Context) (Briefing, error) {
	var b Briefing
	if err := loadJSON(ctx, s.store, KeyBriefing, &b); err != nil {
		return Briefing{}, err
	}
	return b, nil
}

// Get returns the cached briefing unless refresh is set or nothing is
// cached, in which case a new one is generated.
func (s *BriefingService) Get(ctx context.Context, pc ProviderConfig, refresh bool, opts ...GenerateOption) (Briefing, error) {
	if !refresh {
		b, err := s.Cached(ctx)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Briefing{}, fmt.Errorf("briefing: %w", err)
		}
	}
	return s.Generate(ctx, pc, opts...)
}

// Generate streams a new briefing. Sections the model leaves empty are
// filled from a fallback briefing. The result is cached unless every
// section fell back.
func (s *BriefingService) Generate(ctx context.Context, pc ProviderConfig, opts ...GenerateOption) (Briefing, error) {
	res, err := s.client.Generate(ctx, pc, Request{Prompt: briefingPrompt}, s.newParser(BriefingSections), opts...)
	if err != nil {
		return Briefing{}, fmt.Errorf("briefing: %w", err)
	}

	b := Briefing{
		DailyNote:   pick(s.cfg, dailyNotes),
		GeneratedAt: s.cfg.now(),
	}
	fallback := pick(s.cfg, fallbackBriefings)
	for _, sec := range BriefingSections {
		text := strings.TrimSpace(res.Sections[sec.Name])
		if text == "" {
			text = fallback.Section(sec.Name)
			b.Fallback = append(b.Fallback, sec.Name)
		}
		b.setSection(sec.Name, text)
	}

	if len(b.Fallback) == len(BriefingSections) {
		return b, nil
	}
	if err := saveJSON(ctx, s.store, KeyBriefing, b); err != nil {
		return b, fmt.Errorf("briefing: %w", err)
	}
	return b, nil
}

const briefingPrompt = `为一款中国考研学习App生成四段独立、简洁的内容。严格按照指定的分隔符开始每个部分，分隔符必须原样输出，并严格遵守各部分的格式和字数限制。

|||FOCUS|||
列出2-3个针对中国考研西医综合或政治的、高度具体的核心复习概念。使用项目符号。要求极简(总共50字以内)。例如:
- 心脏周期
- 矛盾的同一性

|||CLARIFICATION|||
主动选择一对中国考研(政治或西医综合)中极易混淆的概念，并用一句话解释其核心区别。要求极简(80字以内)。用Markdown **加粗** 关键概念。

|||WORD|||
提供一个与学术阅读(如考研英语)相关的高阶英语单词。格式如下:
**单词**
EN: [简短英文释义]
ZH: [简短中文释义]
Ex: [简短例句]

|||ENCOURAGEMENT|||
写一句温暖、具体的鼓励话语(30字以内)。`

var dailyNotes = []string{
	"每一个不曾起舞的日子，都是对生命的辜负。",
	"乾坤未定，你我皆是黑马。坚持住！",
	"星光不问赶路人，时光不负有心人。",
	"你的努力，终将成就无可替代的自己。",
	"今天多记住一个知识点，考场上就多一分从容。",
}

var fallbackBriefings = []Briefing{
	{
		Focus:         "- 心脏的传导系统\n- 剩余价值理论",
		Clarification: "**第一信号系统**与**第二信号系统**: 第一信号系统是具体信号刺激引起的条件反射，人和动物共有；第二信号系统由语言文字信号引起，是人类特有的。",
		Word:          "**Ambiguous**\nEN: Open to more than one interpretation.\nZH: 模棱两可的，不明确的\nEx: The election result was ambiguous.",
		Encouragement: "慢慢来，比较快。今天也要好好复习哦！",
	},
	{
		Focus:         "- 糖酵解的关键酶\n- 实践与认识的辩证关系",
		Clarification: "**量变**与**质变**: 量变是事物数量的增减和场所的变更，质变是事物根本性质的变化；量变是质变的必要准备。",
		Word:          "**Inevitable**\nEN: Certain to happen; unavoidable.\nZH: 不可避免的\nEx: Change is inevitable.",
		Encouragement: "你已经走了这么远，别在这里停下。",
	},
}
