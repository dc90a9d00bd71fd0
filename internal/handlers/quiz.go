package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanadlabs/sanad-backend/internal/services"
)

type QuizHandler struct {
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (qh *QuizHandler) Start(c *gin.Context) {
	size := 0
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	questions, err := qh.quizService.StartQuiz(c.Request.Context(), size)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"questions": questions})
}

func (qh *QuizHandler) Submit(c *gin.Context) {
	var req struct {
		Answers []services.QuizAnswer `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := qh.quizService.SubmitQuiz(c.Request.Context(), req.Answers)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
