package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-topup/internal/metrics"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/models/dto"
	"github.com/sirupsen/logrus"
)

const (
	terminalKey          = "terminal"
	idempotencyKeyHeader = "Idempotency-Key"
)

type TopUpService interface {
	Authenticate(ctx context.Context, token string) (*models.Terminal, error)
	CheckTopUp(ctx context.Context, terminal *models.Terminal, topUp models.NewTopUp) (models.PendingTopUp, error)
	BookTopUp(ctx context.Context, terminal *models.Terminal, topUp models.NewTopUp) (models.CompletedTopUp, bool, error)
}

type TopUpHandler struct {
	Service TopUpService
}

func NewTopUpHandler(s TopUpService) *TopUpHandler {
	return &TopUpHandler{Service: s}
}

// Authenticate resolves the terminal from the bearer token and stores it in
// the request context.
func (h *TopUpHandler) Authenticate(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))

	terminal, err := h.Service.Authenticate(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		c.Abort()
		return
	}
	c.Set(terminalKey, terminal)
	c.Next()
}

// POST /api/v1/topups/check
func (h *TopUpHandler) CheckTopUp(c *gin.Context) {
	started := time.Now()
	terminal, topUp, ok := h.bind(c)
	if !ok {
		metrics.ObserveRequest("check", "invalid", started)
		return
	}

	pending, err := h.Service.CheckTopUp(c.Request.Context(), terminal, topUp)
	if err != nil {
		metrics.ObserveRequest("check", h.fail(c, err), started)
		return
	}

	metrics.ObserveRequest("check", "ok", started)
	c.JSON(http.StatusOK, pending)
}

// POST /api/v1/topups/book
func (h *TopUpHandler) BookTopUp(c *gin.Context) {
	started := time.Now()
	terminal, topUp, ok := h.bind(c)
	if !ok {
		metrics.ObserveRequest("book", "invalid", started)
		return
	}

	completed, replayed, err := h.Service.BookTopUp(c.Request.Context(), terminal, topUp)
	if err != nil {
		metrics.ObserveRequest("book", h.fail(c, err), started)
		return
	}

	if replayed {
		metrics.ObserveRequest("book", "replayed", started)
		c.JSON(http.StatusOK, completed)
		return
	}
	metrics.ObserveRequest("book", "ok", started)
	c.JSON(http.StatusCreated, completed)
}

func (h *TopUpHandler) bind(c *gin.Context) (*models.Terminal, models.NewTopUp, bool) {
	var req dto.TopUp
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Code: models.CodeInvalidRequest})
		return nil, models.NewTopUp{}, false
	}
	req.Sanitize()

	header := strings.TrimSpace(c.GetHeader(idempotencyKeyHeader))
	if header == "" || header != req.IdempotencyKey {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Idempotency-Key header must match idempotency_key",
			Code:  models.CodeInvalidRequest,
		})
		return nil, models.NewTopUp{}, false
	}

	topUp, err := req.ToNewTopUp()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: models.CodeInvalidRequest})
		return nil, models.NewTopUp{}, false
	}

	terminal, ok := c.MustGet(terminalKey).(*models.Terminal)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: models.ErrUnauthorized.Error()})
		return nil, models.NewTopUp{}, false
	}
	return terminal, topUp, true
}

// fail writes the response for err and returns the outcome label for it.
func (h *TopUpHandler) fail(c *gin.Context, err error) string {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: validation.Reason, Code: validation.Code})
		return "rejected"
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
		return "unauthorized"
	default:
		logrus.Errorf("top-up request failed: %s", err.Error())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return "error"
	}
}
