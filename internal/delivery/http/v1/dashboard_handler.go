package v1

import (
	"net/http"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardUC domain.DashboardUsecase
	healthUC    usecase.HealthUsecase
}

func NewDashboardHandler(public, protected *gin.RouterGroup, dashboardUC domain.DashboardUsecase, healthUC usecase.HealthUsecase) {
	handler := &DashboardHandler{dashboardUC: dashboardUC, healthUC: healthUC}

	public.GET("/health", handler.Health)
	protected.GET("/dashboard", handler.Summary)
}

// Health godoc
// @Summary      Health check
// @Description  Reports database and cache reachability; 503 when the database is down
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *DashboardHandler) Health(c *gin.Context) {
	status, healthy := h.healthUC.Check(c.Request.Context())
	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
		return
	}
	response.Success(c, http.StatusOK, "System operational", status)
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Employers get their job count and application counts by status; jobseekers get their application counts by status
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.DashboardSummary}
// @Failure      401  {object}  response.Response
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardUC.Summary(c.Request.Context(), middleware.CurrentRequester(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard fetched", summary)
}
