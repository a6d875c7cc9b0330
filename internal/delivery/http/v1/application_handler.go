package v1

import (
	"net/http"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}
	employerOnly := middleware.RequireRole(domain.RoleEmployer)

	apps := protected.Group("/applications")
	{
		apps.POST("/:jobId", middleware.RequireRole(domain.RoleJobseeker), middleware.ValidateObjectID("jobId"), handler.Apply)
		apps.GET("/my", handler.ListMine)

		apps.GET("/job/:jobId", employerOnly, middleware.ValidateObjectID("jobId"), handler.ListForJob)
		apps.GET("/job/:jobId/count", employerOnly, middleware.ValidateObjectID("jobId"), handler.Count)
		apps.PUT("/status/:appId", employerOnly, middleware.ValidateObjectID("appId"), handler.UpdateStatus)
		apps.PUT("/review/:appId", employerOnly, middleware.ValidateObjectID("appId"), handler.UpdateReviewStatus)

		apps.GET("/employer/jobs", employerOnly, handler.EmployerJobs)
		apps.GET("/employer/all", employerOnly, handler.EmployerApplications)
	}
}

type ApplyRequest struct {
	ResumeURL string `json:"resumeUrl" binding:"required,max=2048"`
}

type countResult struct {
	Count int64 `json:"count"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Jobseekers only; one application per job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        jobId    path      string        true  "Job ID"
// @Param        request  body      ApplyRequest  true  "Resume reference"
// @Success      201      {object}  response.Response{data=domain.Application}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications/{jobId} [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.Apply(c.Request.Context(), middleware.CurrentRequester(c), c.Param("jobId"), req.ResumeURL)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// ListMine godoc
// @Summary      My applications
// @Description  Each application carries its job, or null when the job no longer exists
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ApplicationWithJob}
// @Failure      401  {object}  response.Response
// @Router       /applications/my [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applicationUC.ListMine(c.Request.Context(), middleware.CurrentRequester(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications fetched", apps)
}

// ListForJob godoc
// @Summary      Applications for a job
// @Tags         applications
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.ApplicationWithApplicant}
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /applications/job/{jobId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	apps, err := h.applicationUC.ListForJob(c.Request.Context(), middleware.CurrentRequester(c), c.Param("jobId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications fetched", apps)
}

// Count godoc
// @Summary      Count applications for a job
// @Tags         applications
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response{data=countResult}
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /applications/job/{jobId}/count [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Count(c *gin.Context) {
	n, err := h.applicationUC.CountForJob(c.Request.Context(), middleware.CurrentRequester(c), c.Param("jobId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications counted", countResult{Count: n})
}

// UpdateStatus godoc
// @Summary      Set application status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        appId    path      string         true  "Application ID"
// @Param        request  body      StatusRequest  true  "pending, accepted or rejected"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications/status/{appId} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	updateStatus(c, h.applicationUC, c.Param("appId"))
}

// UpdateReviewStatus godoc
// @Summary      Set application review status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        appId    path      string               true  "Application ID"
// @Param        request  body      ReviewStatusRequest  true  "Review status"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications/review/{appId} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateReviewStatus(c *gin.Context) {
	updateReviewStatus(c, h.applicationUC, c.Param("appId"))
}

// EmployerJobs godoc
// @Summary      Jobs posted by the employer
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Failure      403  {object}  response.Response
// @Router       /applications/employer/jobs [get]
// @Security     BearerAuth
func (h *ApplicationHandler) EmployerJobs(c *gin.Context) {
	jobs, err := h.applicationUC.ListEmployerJobs(c.Request.Context(), middleware.CurrentRequester(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched", jobs)
}

// EmployerApplications godoc
// @Summary      All applications to the employer's jobs
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      403  {object}  response.Response
// @Router       /applications/employer/all [get]
// @Security     BearerAuth
func (h *ApplicationHandler) EmployerApplications(c *gin.Context) {
	apps, err := h.applicationUC.ListEmployerApplications(c.Request.Context(), middleware.CurrentRequester(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications fetched", apps)
}
