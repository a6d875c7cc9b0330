package v1

import (
	"net/http"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
	uploader  uploader
}

func NewCompanyHandler(public, protected *gin.RouterGroup, companyUC domain.CompanyUsecase, up uploader, quota gin.HandlerFunc) {
	handler := &CompanyHandler{companyUC: companyUC, uploader: up}

	public.GET("/company/verify/:companyId", handler.Verify)

	company := protected.Group("/company", middleware.RequireRole(domain.RoleEmployer))
	{
		company.POST("", handler.Create)
		company.POST("/upload-logo/:companyId", quota, handler.UploadLogo)
	}
}

type CreateCompanyRequest struct {
	CompanyID   string `json:"companyId" binding:"required,company_id"`
	CompanyName string `json:"companyName" binding:"required,max=120"`
	Address     string `json:"address"`
	Industry    string `json:"industry"`
	Website     string `json:"website" binding:"omitempty,url"`
	Description string `json:"description"`
	Size        string `json:"size"`
}

type verifyResult struct {
	Valid   bool            `json:"valid"`
	Company *domain.Company `json:"company"`
}

// Verify godoc
// @Summary      Check a company ID
// @Description  Reports whether a company with this ID exists
// @Tags         company
// @Produce      json
// @Param        companyId  path      string  true  "Company ID"
// @Success      200        {object}  response.Response{data=verifyResult}
// @Router       /company/verify/{companyId} [get]
func (h *CompanyHandler) Verify(c *gin.Context) {
	company, err := h.companyUC.Verify(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		c.Error(err)
		return
	}
	if company == nil {
		response.Success(c, http.StatusOK, "Company not found", verifyResult{Valid: false})
		return
	}
	response.Success(c, http.StatusOK, "Company verified", verifyResult{Valid: true, Company: company})
}

// Create godoc
// @Summary      Create a company
// @Description  Creates the company for an employer account that has none and links it
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        request  body      CreateCompanyRequest  true  "Company"
// @Success      201      {object}  response.Response{data=domain.Company}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /company [post]
// @Security     BearerAuth
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	company, err := h.companyUC.Create(c.Request.Context(), middleware.CurrentRequester(c), &domain.Company{
		CompanyID:   req.CompanyID,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		Industry:    req.Industry,
		Website:     req.Website,
		Description: req.Description,
		Size:        req.Size,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company created", company)
}

// UploadLogo godoc
// @Summary      Upload company logo
// @Tags         company
// @Accept       multipart/form-data
// @Produce      json
// @Param        companyId  path      string  true  "Company ID"
// @Param        logo       formData  file    true  "Logo image"
// @Success      200        {object}  response.Response{data=domain.Company}
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /company/upload-logo/{companyId} [post]
// @Security     BearerAuth
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	requester := middleware.CurrentRequester(c)
	companyID := c.Param("companyId")
	if requester.CompanyID == "" || requester.CompanyID != companyID {
		c.Error(apperror.Forbidden("You can only change your own company's logo"))
		return
	}

	ref, err := h.uploader.store(c, "logo", domain.UploadCompanyLogo)
	if err != nil {
		c.Error(err)
		return
	}

	company, err := h.companyUC.SetLogo(c.Request.Context(), requester, companyID, ref)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logo uploaded successfully", company)
}
