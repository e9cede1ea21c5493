package httpHandler

import (
	"net/http"

	"dream-journal/apperrors"
	"dream-journal/entities"
	"dream-journal/usecases"

	"github.com/gin-gonic/gin"
)

type InterpretationHandler struct {
	useCase *usecases.InterpretationUseCase
}

func NewInterpretationHandler(useCase *usecases.InterpretationUseCase) *InterpretationHandler {
	return &InterpretationHandler{useCase: useCase}
}

// GetRandom handles GET /api/v1/interpretations/random?keyword=
func (h *InterpretationHandler) GetRandom(c *gin.Context) {
	interpretation, err := h.useCase.RandomOrExact(c.Query("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, interpretation)
}

// ListInterpretations handles GET /api/v1/interpretations (admin only)
func (h *InterpretationHandler) ListInterpretations(c *gin.Context) {
	interpretations, err := h.useCase.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(interpretations),
		"data":    interpretations,
	})
}

// CreateInterpretation handles POST /api/v1/interpretations (admin only)
func (h *InterpretationHandler) CreateInterpretation(c *gin.Context) {
	var interpretation entities.Interpretation
	if err := c.ShouldBindJSON(&interpretation); err != nil {
		respondError(c, apperrors.Validation("Invalid request body"))
		return
	}

	if err := h.useCase.Create(&interpretation); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, interpretation)
}
