package httpHandler

import (
	"net/http"

	"dream-journal/apperrors"
	"dream-journal/entities"
	"dream-journal/usecases"

	"github.com/gin-gonic/gin"
)

type DreamHandler struct {
	useCase *usecases.DreamUseCase
}

func NewDreamHandler(useCase *usecases.DreamUseCase) *DreamHandler {
	return &DreamHandler{useCase: useCase}
}

// ListDreams handles GET /api/v1/dreams
func (h *DreamHandler) ListDreams(c *gin.Context) {
	user := CurrentUser(c)
	q := parseListQuery(c)

	dreams, pagination, err := h.useCase.ListDreams(user.ID, q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(dreams),
		"pagination": pagination,
		"data":       dreams,
	})
}

// GetDream handles GET /api/v1/dreams/:id
func (h *DreamHandler) GetDream(c *gin.Context) {
	user := CurrentUser(c)

	dream, err := h.useCase.GetDream(c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dream)
}

// CreateDream handles POST /api/v1/dreams
func (h *DreamHandler) CreateDream(c *gin.Context) {
	user := CurrentUser(c)

	var dream entities.Dream
	if err := c.ShouldBindJSON(&dream); err != nil {
		respondError(c, apperrors.Validation("Invalid request body"))
		return
	}

	if err := h.useCase.CreateDream(user.ID, &dream); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dream)
}

// UpdateDream handles PUT /api/v1/dreams/:id
func (h *DreamHandler) UpdateDream(c *gin.Context) {
	user := CurrentUser(c)

	var input usecases.DreamUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.Validation("Invalid request body"))
		return
	}

	dream, err := h.useCase.UpdateDream(c.Param("id"), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, dream)
}

// DeleteDream handles DELETE /api/v1/dreams/:id
func (h *DreamHandler) DeleteDream(c *gin.Context) {
	user := CurrentUser(c)

	if err := h.useCase.DeleteDream(c.Param("id"), user.ID); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

// GetStats handles GET /api/v1/dreams/stats
func (h *DreamHandler) GetStats(c *gin.Context) {
	user := CurrentUser(c)

	stats, err := h.useCase.GetStats(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, stats)
}
