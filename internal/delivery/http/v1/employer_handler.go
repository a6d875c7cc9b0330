package v1

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/security"

	"github.com/gin-gonic/gin"
)

type EmployerHandler struct {
	jobUC         domain.JobUsecase
	applicationUC domain.ApplicationUsecase
	exportUC      domain.ApplicantExportUsecase
	companyUC     domain.CompanyUsecase
	audit         *security.AuditLogger
}

func NewEmployerHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase, applicationUC domain.ApplicationUsecase, exportUC domain.ApplicantExportUsecase, companyUC domain.CompanyUsecase, audit *security.AuditLogger) {
	handler := &EmployerHandler{
		jobUC:         jobUC,
		applicationUC: applicationUC,
		exportUC:      exportUC,
		companyUC:     companyUC,
		audit:         audit,
	}
	jobIDParam := middleware.ValidateObjectID("jobId")
	appIDParam := middleware.ValidateObjectID("appId")

	employer := protected.Group("/employer", middleware.RequireRole(domain.RoleEmployer))
	{
		employer.GET("/jobs", handler.ListJobs)
		employer.POST("/jobs", handler.CreateJob)
		employer.PUT("/jobs/:jobId", jobIDParam, handler.UpdateJob)
		employer.DELETE("/jobs/:jobId", jobIDParam, handler.DeleteJob)

		employer.GET("/jobs/search/:keyword", handler.SearchJobs)
		employer.GET("/jobs/filter", handler.ListJobs)
		employer.GET("/jobs/sort/:order", handler.SortJobs)

		employer.GET("/jobs/:jobId/applications", jobIDParam, handler.ListApplications)
		employer.PUT("/applications/:appId/status", appIDParam, handler.UpdateStatus)
		employer.PUT("/applications/:appId/review", appIDParam, handler.UpdateReviewStatus)

		employer.GET("/jobs/:jobId/download-resumes", jobIDParam, handler.DownloadResumes)
		employer.GET("/jobs/:jobId/export", jobIDParam, handler.ExportApplicants)

		employer.PUT("/profile/update", handler.UpdateCompanyProfile)
	}
}

type UpdateJobRequest struct {
	Title        *string            `json:"title" binding:"omitempty,max=200"`
	Description  *string            `json:"description"`
	Requirements *string            `json:"requirements"`
	Location     *string            `json:"location" binding:"omitempty,max=200"`
	Skills       *skillList         `json:"skills" swaggertype:"array,string"`
	Type         *string            `json:"type" binding:"omitempty,max=50"`
	Company      *domain.JobCompany `json:"company"`
	CompanyID    *string            `json:"companyId"`
}

func (r UpdateJobRequest) update() domain.JobUpdate {
	u := domain.JobUpdate{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		Type:         r.Type,
		Company:      r.Company,
		CompanyID:    r.CompanyID,
	}
	if r.Skills != nil {
		skills := []string(*r.Skills)
		u.Skills = &skills
	}
	return u
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReviewStatusRequest struct {
	ReviewStatus string `json:"reviewStatus" binding:"required"`
}

// jobFilter reads the shared list/search/filter/sort query parameters.
func jobFilter(c *gin.Context) domain.JobFilter {
	filter := domain.JobFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Type:     strings.TrimSpace(c.Query("type")),
		Skill:    strings.TrimSpace(c.Query("skill")),
		Location: strings.TrimSpace(c.Query("location")),
		SortBy:   strings.TrimSpace(c.Query("sort")),
		SortAsc:  strings.EqualFold(c.Query("order"), "asc"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
	if filter.SortBy != "" && !domain.SortableJobFields[filter.SortBy] && filter.SortBy != "newest" && filter.SortBy != "oldest" {
		filter.SortBy = ""
	}
	return filter
}

// ListJobs godoc
// @Summary      List own jobs
// @Description  Jobs of the employer's company (or, without a company, jobs the employer posted). Supports q, type, skill, location, sort and order.
// @Tags         employer
// @Produce      json
// @Param        q         query     string  false  "Search title, description, location, company name, skills"
// @Param        type      query     string  false  "Job type"
// @Param        skill     query     string  false  "Skill"
// @Param        location  query     string  false  "Location contains"
// @Param        sort      query     string  false  "createdAt, updatedAt, title, location, type, newest or oldest"
// @Param        order     query     string  false  "asc or desc"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size (5-50)"
// @Success      200       {object}  response.Response{data=domain.PaginatedResult[domain.Job]}
// @Failure      403       {object}  response.Response
// @Router       /employer/jobs [get]
// @Router       /employer/jobs/filter [get]
// @Security     BearerAuth
func (h *EmployerHandler) ListJobs(c *gin.Context) {
	h.listJobs(c, jobFilter(c))
}

// SearchJobs godoc
// @Summary      Search own jobs
// @Tags         employer
// @Produce      json
// @Param        keyword  path      string  true  "Keyword"
// @Success      200      {object}  response.Response{data=domain.PaginatedResult[domain.Job]}
// @Router       /employer/jobs/search/{keyword} [get]
// @Security     BearerAuth
func (h *EmployerHandler) SearchJobs(c *gin.Context) {
	filter := jobFilter(c)
	filter.Query = strings.TrimSpace(c.Param("keyword"))
	h.listJobs(c, filter)
}

// SortJobs godoc
// @Summary      Sort own jobs
// @Tags         employer
// @Produce      json
// @Param        order  path      string  true  "newest, oldest or a sortable field"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.Job]}
// @Router       /employer/jobs/sort/{order} [get]
// @Security     BearerAuth
func (h *EmployerHandler) SortJobs(c *gin.Context) {
	filter := jobFilter(c)
	order := c.Param("order")
	if order == "newest" || order == "oldest" || domain.SortableJobFields[order] {
		filter.SortBy = order
	}
	h.listJobs(c, filter)
}

func (h *EmployerHandler) listJobs(c *gin.Context, filter domain.JobFilter) {
	result, err := h.jobUC.ListEmployerJobs(c.Request.Context(), middleware.CurrentRequester(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched", result)
}

// CreateJob godoc
// @Summary      Post a job
// @Tags         employer
// @Accept       json
// @Produce      json
// @Param        job  body      CreateJobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employer/jobs [post]
// @Security     BearerAuth
func (h *EmployerHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), middleware.CurrentRequester(c), req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job posted successfully", job)
}

// UpdateJob godoc
// @Summary      Edit a job
// @Description  Only the fields present in the body change
// @Tags         employer
// @Accept       json
// @Produce      json
// @Param        jobId  path      string            true  "Job ID"
// @Param        job    body      UpdateJobRequest  true  "Fields to change"
// @Success      200    {object}  response.Response{data=domain.Job}
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /employer/jobs/{jobId} [put]
// @Security     BearerAuth
func (h *EmployerHandler) UpdateJob(c *gin.Context) {
	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), middleware.CurrentRequester(c), c.Param("jobId"), req.update())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Tags         employer
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /employer/jobs/{jobId} [delete]
// @Security     BearerAuth
func (h *EmployerHandler) DeleteJob(c *gin.Context) {
	if err := h.jobUC.DeleteJob(c.Request.Context(), middleware.CurrentRequester(c), c.Param("jobId")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job and related applications deleted", nil)
}

// ListApplications godoc
// @Summary      Applications for a job
// @Tags         employer
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.ApplicationWithApplicant}
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /employer/jobs/{jobId}/applications [get]
// @Security     BearerAuth
func (h *EmployerHandler) ListApplications(c *gin.Context) {
	apps, err := h.applicationUC.ListForJob(c.Request.Context(), middleware.CurrentRequester(c), c.Param("jobId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications fetched", apps)
}

// UpdateStatus godoc
// @Summary      Set application status
// @Tags         employer
// @Accept       json
// @Produce      json
// @Param        appId    path      string         true  "Application ID"
// @Param        request  body      StatusRequest  true  "pending, accepted or rejected"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /employer/applications/{appId}/status [put]
// @Security     BearerAuth
func (h *EmployerHandler) UpdateStatus(c *gin.Context) {
	updateStatus(c, h.applicationUC, c.Param("appId"))
}

// UpdateReviewStatus godoc
// @Summary      Set application review status
// @Tags         employer
// @Accept       json
// @Produce      json
// @Param        appId    path      string               true  "Application ID"
// @Param        request  body      ReviewStatusRequest  true  "shortlisted, under_review, rejected_review or none"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /employer/applications/{appId}/review [put]
// @Security     BearerAuth
func (h *EmployerHandler) UpdateReviewStatus(c *gin.Context) {
	updateReviewStatus(c, h.applicationUC, c.Param("appId"))
}

// DownloadResumes godoc
// @Summary      Download all resumes of a job
// @Description  Streams a zip of every stored resume; remote resume links are skipped
// @Tags         employer
// @Produce      application/zip
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {file}    file
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /employer/jobs/{jobId}/download-resumes [get]
// @Security     BearerAuth
func (h *EmployerHandler) DownloadResumes(c *gin.Context) {
	ctx := c.Request.Context()
	archive, err := h.exportUC.PrepareResumeArchive(ctx, middleware.CurrentRequester(c), c.Param("jobId"))
	if err != nil {
		c.Error(err)
		return
	}

	h.auditExport(c, "resume_archive", len(archive.Entries))

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.FileName))
	c.Status(http.StatusOK)

	// Headers are already sent; a failure here can only cut the stream.
	if err := h.exportUC.WriteResumeArchive(ctx, archive, c.Writer); err != nil {
		logger.Log.Error("resume archive aborted", "job_id", c.Param("jobId"), "error", err)
		c.Abort()
	}
}

// ExportApplicants godoc
// @Summary      Export applicants
// @Tags         employer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        jobId   path      string  true   "Job ID"
// @Param        format  query     string  false  "xlsx (default) or csv"
// @Success      200     {file}    file
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /employer/jobs/{jobId}/export [get]
// @Security     BearerAuth
func (h *EmployerHandler) ExportApplicants(c *gin.Context) {
	file, err := h.exportUC.ExportApplicants(c.Request.Context(), middleware.CurrentRequester(c), c.Param("jobId"), c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}

	h.auditExport(c, "applicants_"+strings.TrimPrefix(path.Ext(file.FileName), "."), -1)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// UpdateCompanyProfile godoc
// @Summary      Update company profile
// @Tags         employer
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CompanyUpdate  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.Company}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /employer/profile/update [put]
// @Security     BearerAuth
func (h *EmployerHandler) UpdateCompanyProfile(c *gin.Context) {
	var update domain.CompanyUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Error(bindError(err))
		return
	}

	company, err := h.companyUC.UpdateProfile(c.Request.Context(), middleware.CurrentRequester(c), update)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile updated", company)
}

// auditExport records a download of applicant data; files < 0 omits the count.
func (h *EmployerHandler) auditExport(c *gin.Context, kind string, files int) {
	event := middleware.NewAuditEvent(c, security.EventDataExport)
	event.SubjectType, event.SubjectValue = "user_id", middleware.CurrentRequester(c).UserID
	event.Details = map[string]string{"job_id": c.Param("jobId"), "kind": kind}
	if files >= 0 {
		event.Details["files"] = strconv.Itoa(files)
	}
	h.audit.Log(c.Request.Context(), event)
}

func updateStatus(c *gin.Context, applicationUC domain.ApplicationUsecase, appID string) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := applicationUC.UpdateStatus(c.Request.Context(), middleware.CurrentRequester(c), appID, req.Status); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", nil)
}

func updateReviewStatus(c *gin.Context, applicationUC domain.ApplicationUsecase, appID string) {
	var req ReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := applicationUC.UpdateReviewStatus(c.Request.Context(), middleware.CurrentRequester(c), appID, req.ReviewStatus); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Review status updated", nil)
}
