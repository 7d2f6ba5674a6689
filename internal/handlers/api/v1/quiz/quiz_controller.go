// file: internal/handlers/api/v1/quiz/quiz_controller.go
package quiz

import (
	"encoding/json"
	"net/http"

	"coursehub/internal/models"
	"coursehub/internal/response"
	"coursehub/internal/services"

	"go.uber.org/zap"
)

// QuizController handles the quiz generation endpoint
type QuizController struct {
	service services.QuizService
	logger  *zap.Logger
	writer  *response.Writer
}

// NewQuizController creates a new quiz controller
func NewQuizController(service services.QuizService, logger *zap.Logger, writer *response.Writer) *QuizController {
	return &QuizController{service: service, logger: logger, writer: writer}
}

// quizEnvelope wraps a generated quiz in the success envelope the quiz
// clients expect.
type quizEnvelope struct {
	Success bool                  `json:"success"`
	Data    *models.GeneratedQuiz `json:"data"`
}

// GenerateQuiz handles POST /api/v1/quiz/generate
func (c *QuizController) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := c.service.GenerateQuiz(ctx, &req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}

	c.logger.Info("Quiz generated",
		zap.String("source", result.Source),
		zap.Int("questions", result.TotalQuestions),
	)
	c.writer.WriteJSON(ctx, w, http.StatusOK, quizEnvelope{Success: true, Data: result})
}
