package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := public.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.GET("/search", handler.Search)
		jobs.GET("/:id", middleware.ValidateObjectID("id"), handler.GetDetails)
	}

	employer := protected.Group("/jobs", middleware.RequireRole(domain.RoleEmployer))
	{
		employer.POST("", handler.Create)
		employer.DELETE("/:id", middleware.ValidateObjectID("id"), handler.Delete)
	}
}

// skillList accepts either a JSON array of strings or one comma separated
// string.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = domain.NormalizeSkills(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return errors.New("skills must be an array or a comma separated string")
	}
	*s = domain.SplitSkills(joined)
	return nil
}

type CreateJobRequest struct {
	Title        string    `json:"title" binding:"required,max=200"`
	Description  string    `json:"description" binding:"required"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location" binding:"max=200"`
	Skills       skillList `json:"skills" swaggertype:"array,string"`
	Type         string    `json:"type" binding:"max=50"`
	CompanyID    string    `json:"companyId"`
	CompanyName  string    `json:"companyName"`
	CompanyLogo  string    `json:"companyLogo"`
}

func (r CreateJobRequest) input() domain.JobInput {
	return domain.JobInput{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		Skills:       r.Skills,
		Type:         r.Type,
		CompanyID:    r.CompanyID,
		CompanyName:  r.CompanyName,
		CompanyLogo:  r.CompanyLogo,
	}
}

// List godoc
// @Summary      List jobs
// @Description  All jobs, newest first
// @Tags         jobs
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (5-50, default 10)"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.Job]}
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	result, err := h.jobUC.ListJobs(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched", result)
}

// Search godoc
// @Summary      Search jobs
// @Description  Case-insensitive match on title and location; skills is a comma separated list matched against any job skill
// @Tags         jobs
// @Produce      json
// @Param        title     query     string  false  "Title contains"
// @Param        location  query     string  false  "Location contains"
// @Param        skills    query     string  false  "Comma separated skills"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  response.Response{data=domain.PaginatedResult[domain.Job]}
// @Router       /jobs/search [get]
func (h *JobHandler) Search(c *gin.Context) {
	result, err := h.jobUC.SearchJobs(c.Request.Context(), domain.JobFilter{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Skills:   domain.SplitSkills(c.Query("skills")),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched", result)
}

// GetDetails godoc
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job fetched", job)
}

// Create godoc
// @Summary      Create a job
// @Description  Posts a job for the employer's company (Employer only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      CreateJobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
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

// Delete godoc
// @Summary      Delete a job
// @Description  Deletes an owned job and every application to it (Employer only)
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobUC.DeleteJob(c.Request.Context(), middleware.CurrentRequester(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job and related applications deleted", nil)
}
