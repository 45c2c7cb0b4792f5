package kaoyan

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Question section names.
const (
	SectionQuestion = "question"
	SectionAnswer   = "answer"
)

// QuestionSections splits a self-test question from its answer.
var QuestionSections = []Section{
	{Name: SectionQuestion},
	{Name: SectionAnswer, Separator: "====="},
}

// Question is a generated multiple-choice self-test question.
type Question struct {
	Subject     string    `json:"subject"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	GeneratedAt time.Time `json:"generated_at"`
}

// QuestionService generates and caches self-test questions.
type QuestionService struct {
	client    *Client
	store     Store
	newParser ParserFactory
	cfg       serviceConfig
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(client *Client, store Store, newParser ParserFactory, opts ...ServiceOption) *QuestionService {
	return &QuestionService{client: client, store: store, newParser: newParser, cfg: newServiceConfig(opts)}
}

// Cached returns the last generated question, or ErrNotFound.
func (s *QuestionService) Cached(ctx context.Context) (Question, error) {
	var q Question
	if err := loadJSON(ctx, s.store, KeyQuestion, &q); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Generate streams a new question on a randomly chosen subject. A response
// without question text is returned with placeholder text and not cached.
func (s *QuestionService) Generate(ctx context.Context, pc ProviderConfig, opts ...GenerateOption) (Question, error) {
	subject := pick(s.cfg, questionSubjects)
	req := Request{Prompt: fmt.Sprintf(questionPrompt, subject)}
	res, err := s.client.Generate(ctx, pc, req, s.newParser(QuestionSections), opts...)
	if err != nil {
		return Question{}, fmt.Errorf("question: %w", err)
	}

	q := Question{
		Subject:     subject,
		Question:    strings.TrimSpace(res.Sections[SectionQuestion]),
		Answer:      strings.TrimSpace(res.Sections[SectionAnswer]),
		GeneratedAt: s.cfg.now(),
	}
	if q.Question == "" {
		q.Question = questionUnavailable
		return q, nil
	}
	if err := saveJSON(ctx, s.store, KeyQuestion, q); err != nil {
		return q, fmt.Errorf("question: %w", err)
	}
	return q, nil
}

var questionSubjects = []string{"西医综合306", "考研政治"}

const questionUnavailable = "抱歉，题目生成失败，请稍后再试。"

const questionPrompt = `As an expert in China's graduate school entrance exams for %s, create one challenging multiple-choice question about a core concept. Provide four options (A, B, C, D). Do NOT bold, star, or otherwise emphasize the correct answer within the question or options. Use markdown for general emphasis if needed. Then, on a new line after a separator "=====", provide the correct answer and a detailed explanation for why the correct answer is right and the others are wrong. The entire response must be in Chinese.`
