package reconcile

import (
	"net/http"

	"melodex/internal/domain"
	"melodex/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Run handles POST /api/v1/admin/reconcile?kind=artist&apply=true.
// Without apply=true the run is a dry-run and touches nothing.
func (h *Handler) Run(c *gin.Context) {
	kind, ok := domain.ParseEntityKind(c.Query("kind"))
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "kind must be artist or album")
		return
	}

	dryRun := c.Query("apply") != "true"

	report, err := h.service.Reconcile(c.Request.Context(), kind, dryRun)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	response.Success(c, http.StatusOK, report)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/reconcile", h.Run)
}
