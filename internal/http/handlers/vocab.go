package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/http/response"
	"github.com/yungbote/rehabdir-backend/internal/platform/apierr"
	"github.com/yungbote/rehabdir-backend/internal/services"
)

type VocabHandler struct {
	vocab services.VocabService
}

func NewVocabHandler(vocab services.VocabService) *VocabHandler {
	return &VocabHandler{vocab: vocab}
}

type createManyBody struct {
	Items []domainagg.TermRef `json:"items"`
}

// POST /api/vocab/:kind
func (h *VocabHandler) CreateMany(c *gin.Context) {
	var body createManyBody
	if !bindJSON(c, &body) {
		return
	}
	if len(body.Items) == 0 {
		response.RespondErr(c, apierr.BadRequest("invalid_body", errors.New("items required")))
		return
	}
	rows, err := h.vocab.CreateMany(c.Request.Context(), types.VocabKind(c.Param("kind")), body.Items)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": rows})
}

// GET /api/vocab/:kind
func (h *VocabHandler) FindAll(c *gin.Context) {
	rows, err := h.vocab.FindAll(c.Request.Context(), types.VocabKind(c.Param("kind")))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": rows})
}
