package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/minhlq/coursecast/config"
	"github.com/minhlq/coursecast/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	// ExamQuestionCount is the fixed number of questions in every generated exam.
	ExamQuestionCount = 10
	// OptionsPerQuestion is the fixed number of choices per question.
	OptionsPerQuestion = 4

	defaultModelName = "gemini-2.5-flash"
)

// supportedModels mirrors the model selector exposed to clients. Unknown
// names fall back to the default model rather than failing the request.
var supportedModels = map[string]bool{
	"gemini-2.5-flash": true,
	"gemini-1.5-flash": true,
	"gemini-1.5-pro":   true,
}

// ChapterOutline is one entry of a generated course outline.
type ChapterOutline struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// CourseOutline is the structured result of course generation.
type CourseOutline struct {
	Title    string           `json:"title"`
	Chapters []ChapterOutline `json:"chapters"`
}

// GeminiService wraps every call to the hosted generation API: structured
// exam generation, structured course outlines and streamed chapter content.
type GeminiService interface {
	GenerateExamQuestions(ctx context.Context, topic, courseContent, modelName string) ([]model.Question, error)
	GenerateCourseOutline(ctx context.Context, topic, modelName string) (*CourseOutline, error)
	GenerateChapterContent(ctx context.Context, topic string, chapter *model.Chapter, modelName string) (string, error)
}

type geminiService struct {
	client *genai.Client
	cfg    *config.Config
}

func NewGeminiService(cfg *config.Config) (GeminiService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiService will be non-functional.")
		return &geminiService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiService{client: client, cfg: cfg}, nil
}

func (s *geminiService) model(name string) *genai.GenerativeModel {
	if !supportedModels[name] {
		log.Warn().Str("model", name).Str("fallback", defaultModelName).Msg("Unknown model name, using fallback")
		name = defaultModelName
	}
	return s.client.GenerativeModel(name)
}

// examSchema constrains generation to exactly the shape the grader expects:
// a list of multiple-choice questions whose correct_answer repeats one option
// verbatim.
var examSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"questions": {
			Type:        genai.TypeArray,
			Description: "Exactly 10 multiple-choice questions forming a comprehensive exam.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString},
					"options": {
						Type:        genai.TypeArray,
						Description: "4 possible answers. One must be correct.",
						Items:       &genai.Schema{Type: genai.TypeString},
					},
					"correct_answer": {
						Type:        genai.TypeString,
						Description: "The exact text of the correct option.",
					},
				},
				Required: []string{"question", "options", "correct_answer"},
			},
		},
	},
	Required: []string{"questions"},
}

var outlineSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {Type: genai.TypeString, Description: "A concise course title."},
		"chapters": {
			Type:        genai.TypeArray,
			Description: "5 to 8 chapters covering the topic from fundamentals to advanced.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":   {Type: genai.TypeString},
					"summary": {Type: genai.TypeString, Description: "2-3 sentence chapter summary."},
				},
				Required: []string{"title", "summary"},
			},
		},
	},
	Required: []string{"title", "chapters"},
}

func (s *geminiService) GenerateExamQuestions(ctx context.Context, topic, courseContent, modelName string) ([]model.Question, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	m := s.model(modelName)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = examSchema

	prompt := fmt.Sprintf(
		"Based on the following course summary on %q, generate a %d-question comprehensive final exam.\n\nCOURSE CONTENT:\n%s",
		topic, ExamQuestionCount, courseContent)

	text, err := s.generateText(ctx, m, prompt)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		log.Warn().Err(err).Str("raw", text).Msg("Gemini exam response is not valid JSON")
		return nil, fmt.Errorf("malformed exam payload: %w", err)
	}
	if err := validateQuestions(payload.Questions); err != nil {
		log.Warn().Err(err).Msg("Gemini exam response violates the question schema")
		return nil, err
	}
	return payload.Questions, nil
}

// validateQuestions enforces the exactly-10 / 4-options / verbatim-answer
// invariants before anything is persisted.
func validateQuestions(questions []model.Question) error {
	if len(questions) != ExamQuestionCount {
		return fmt.Errorf("expected %d questions, got %d", ExamQuestionCount, len(questions))
	}
	for i, q := range questions {
		if len(q.Options) != OptionsPerQuestion {
			return fmt.Errorf("question %d has %d options, expected %d", i, len(q.Options), OptionsPerQuestion)
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: correct answer does not match any option", i)
		}
	}
	return nil
}

func (s *geminiService) GenerateCourseOutline(ctx context.Context, topic, modelName string) (*CourseOutline, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	m := s.model(modelName)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = outlineSchema

	prompt := fmt.Sprintf(
		"Design a podcast-style learning course about %q. Produce a course title and an ordered chapter outline with a short summary per chapter.",
		topic)

	text, err := s.generateText(ctx, m, prompt)
	if err != nil {
		return nil, err
	}

	var outline CourseOutline
	if err := json.Unmarshal([]byte(text), &outline); err != nil {
		log.Warn().Err(err).Str("raw", text).Msg("Gemini outline response is not valid JSON")
		return nil, fmt.Errorf("malformed outline payload: %w", err)
	}
	if outline.Title == "" || len(outline.Chapters) == 0 {
		return nil, fmt.Errorf("outline payload missing title or chapters")
	}
	return &outline, nil
}

// GenerateChapterContent streams long-form chapter content. Whatever text has
// accumulated is returned even when the stream errors out (including caller
// cancellation), so the caller can still persist partial content.
func (s *geminiService) GenerateChapterContent(ctx context.Context, topic string, chapter *model.Chapter, modelName string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	m := s.model(modelName)

	prompt := fmt.Sprintf(
		"Write the full long-form content for one chapter of a course about %q.\nChapter title: %s\nChapter summary: %s\n\nWrite engaging, detailed teaching material in plain prose.",
		topic, chapter.Title, chapter.Summary)

	iter := m.GenerateContentStream(ctx, genai.Text(prompt))
	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Warn().Err(err).Uint("chapterID", chapter.ID).Msg("Chapter content stream interrupted")
			return sb.String(), err
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if txt, ok := part.(genai.Text); ok {
					sb.WriteString(string(txt))
				}
			}
		}
	}
	return sb.String(), nil
}

func (s *geminiService) generateText(ctx context.Context, m *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return sb.String(), nil
}
