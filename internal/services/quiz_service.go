// file: internal/services/quiz_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"coursehub/internal/gemini"
	"coursehub/internal/models"
	"coursehub/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// quizService implements QuizService over the course catalog and the Gemini
// provider
type quizService struct {
	courseRepo repositories.CourseRepository
	provider   *gemini.Client
	logger     *zap.Logger
	config     *QuizServiceConfig
}

// QuizServiceConfig holds quiz service configuration
type QuizServiceConfig struct {
	DefaultQuestions int `json:"default_questions"`
	MaxQuestions     int `json:"max_questions"`
}

// NewQuizService creates a new quiz service
func NewQuizService(
	courseRepo repositories.CourseRepository,
	provider *gemini.Client,
	logger *zap.Logger,
	config *QuizServiceConfig,
) QuizService {
	if config == nil {
		config = DefaultQuizConfig()
	}
	return &quizService{
		courseRepo: courseRepo,
		provider:   provider,
		logger:     logger,
		config:     config,
	}
}

// DefaultQuizConfig returns default quiz service configuration
func DefaultQuizConfig() *QuizServiceConfig {
	return &QuizServiceConfig{
		DefaultQuestions: 5,
		MaxQuestions:     20,
	}
}

// GenerateQuiz builds a prompt from the requested lecture or course, asks
// the provider for a structured quiz and validates the result. The batch is
// all-or-nothing: one malformed question fails the whole request.
func (s *quizService) GenerateQuiz(ctx context.Context, req *GenerateQuizRequest) (*models.GeneratedQuiz, error) {
	if (req.CourseID == "") == (req.LectureID == "") {
		return nil, NewValidationError("exactly one of courseId or lectureId is required", nil)
	}

	count := req.NumQuestions
	if count < 1 {
		count = s.config.DefaultQuestions
	}
	if count > s.config.MaxQuestions {
		count = s.config.MaxQuestions
	}

	prompt, source, title, err := s.buildPrompt(ctx, req, count)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, NewServiceUnavailableError("quiz provider request failed", err)
	}

	questions, err := extractQuizJSON(raw)
	if err != nil {
		s.logger.Error("Quiz provider returned unparseable output", zap.Error(err))
		return nil, NewInternalError("quiz provider returned malformed output", err)
	}
	if err := coerceQuestions(questions); err != nil {
		return nil, NewInternalError("quiz provider returned an incomplete question", err)
	}

	return &models.GeneratedQuiz{
		Questions:      questions,
		Source:         source,
		Title:          title,
		TotalQuestions: len(questions),
	}, nil
}

// buildPrompt assembles the provider prompt from the lecture title or the
// full course outline.
func (s *quizService) buildPrompt(ctx context.Context, req *GenerateQuizRequest, count int) (prompt, source, title string, err error) {
	if req.LectureID != "" {
		lectureID, err := primitive.ObjectIDFromHex(req.LectureID)
		if err != nil {
			return "", "", "", NewValidationError("invalid lecture id", err)
		}
		lecture, err := s.courseRepo.GetLectureByID(ctx, lectureID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return "", "", "", NewNotFoundError("lecture not found")
			}
			return "", "", "", NewInternalError("failed to get lecture", err)
		}
		return lecturePrompt(lecture.LectureTitle, count), "lecture", lecture.LectureTitle, nil
	}

	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return "", "", "", NewValidationError("invalid course id", err)
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return "", "", "", NewNotFoundError("course not found")
		}
		return "", "", "", NewInternalError("failed to get course", err)
	}
	lectures, err := s.courseRepo.GetLectureTitles(ctx, course.Lectures)
	if err != nil {
		return "", "", "", NewInternalError("failed to get lecture titles", err)
	}
	return coursePrompt(course, lectures, count), "course", course.CourseTitle, nil
}

func lecturePrompt(lectureTitle string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions about the lecture topic: %q.\n\n", count, lectureTitle)
	writePromptFormat(&b)
	return b.String()
}

func coursePrompt(course *models.Course, lectureTitles []string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions covering the course %q.\n", count, course.CourseTitle)
	if course.SubTitle != "" {
		fmt.Fprintf(&b, "Subtitle: %s\n", course.SubTitle)
	}
	if course.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", course.Description)
	}
	if len(lectureTitles) > 0 {
		fmt.Fprintf(&b, "Lectures covered: %s\n", strings.Join(lectureTitles, "; "))
	}
	b.WriteString("\n")
	writePromptFormat(&b)
	return b.String()
}

func writePromptFormat(b *strings.Builder) {
	b.WriteString("Respond with only a JSON array. Each element must have the fields: ")
	b.WriteString(`"question" (string), "options" (array of 4 strings), "answer" (string matching one option), `)
	b.WriteString(`"difficulty" (one of "Easy", "Medium", "Hard") and "taxonomyLevel" (a Bloom's taxonomy level).`)
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractQuizJSON pulls the question array out of the raw provider text,
// unwrapping a code fence when present and otherwise trimming to the
// outermost JSON array.
func extractQuizJSON(raw string) ([]models.QuizQuestion, error) {
	text := raw
	if m := codeFence.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, errors.New("no JSON array in provider output")
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.New("provider returned an empty question array")
	}
	return questions, nil
}

// coerceQuestions validates structural completeness and normalizes the
// advisory fields in place.
func coerceQuestions(questions []models.QuizQuestion) error {
	for i := range questions {
		q := &questions[i]
		if q.Question == "" || len(q.Options) == 0 || q.Answer == "" {
			return fmt.Errorf("question %d is missing required fields", i+1)
		}
		q.Difficulty = coerceDifficulty(q.Difficulty)
		if q.TaxonomyLevel == "" {
			q.TaxonomyLevel = models.DefaultTaxonomyLevel
		}
	}
	return nil
}

// coerceDifficulty maps free-form difficulty text onto the fixed scale,
// defaulting to Medium.
func coerceDifficulty(value string) string {
	for _, d := range models.QuizDifficulties {
		if strings.EqualFold(value, d) {
			return d
		}
	}
	return models.DefaultDifficulty
}
