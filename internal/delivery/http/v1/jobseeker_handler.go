package v1

import (
	"net/http"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobseekerHandler struct {
	jobseekerUC   domain.JobseekerUsecase
	applicationUC domain.ApplicationUsecase
	uploader      uploader
}

func NewJobseekerHandler(protected *gin.RouterGroup, jobseekerUC domain.JobseekerUsecase, applicationUC domain.ApplicationUsecase, up uploader, quota gin.HandlerFunc) {
	handler := &JobseekerHandler{jobseekerUC: jobseekerUC, applicationUC: applicationUC, uploader: up}

	js := protected.Group("/jobseeker", middleware.RequireRole(domain.RoleJobseeker))
	{
		js.GET("/applications", handler.Applications)
		js.PUT("/marks", handler.UpdateMarks)
		js.POST("/upload-certificate", quota, handler.UploadCertificate)
		js.POST("/profile-image", quota, handler.UploadProfileImage)
		js.POST("/certificate", quota, handler.storeOnly("file", domain.UploadCertificate, "Certificate uploaded"))
		js.POST("/upload-marks", quota, handler.storeOnly("file", domain.UploadMarksSheet, "Marks file uploaded"))
	}
}

type MarksRequest struct {
	Tenth   *string `json:"tenth" binding:"omitempty,max=50"`
	Twelfth *string `json:"twelfth" binding:"omitempty,max=50"`
	Degree  *string `json:"degree" binding:"omitempty,max=50"`
}

// Applications godoc
// @Summary      My applications (jobseeker)
// @Tags         jobseeker
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ApplicationWithJob}
// @Failure      403  {object}  response.Response
// @Router       /jobseeker/applications [get]
// @Security     BearerAuth
func (h *JobseekerHandler) Applications(c *gin.Context) {
	apps, err := h.applicationUC.ListMine(c.Request.Context(), middleware.CurrentRequester(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications fetched", apps)
}

// UpdateMarks godoc
// @Summary      Update academic marks
// @Description  At least one of tenth, twelfth or degree is required; omitted fields keep their value
// @Tags         jobseeker
// @Accept       json
// @Produce      json
// @Param        request  body      MarksRequest  true  "Marks"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /jobseeker/marks [put]
// @Security     BearerAuth
func (h *JobseekerHandler) UpdateMarks(c *gin.Context) {
	var req MarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	user, err := h.jobseekerUC.UpdateMarks(c.Request.Context(), middleware.CurrentRequester(c), domain.Marks{
		Tenth:   req.Tenth,
		Twelfth: req.Twelfth,
		Degree:  req.Degree,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Marks updated", user)
}

// UploadCertificate godoc
// @Summary      Upload a certificate
// @Description  Stores the file and records it under certificates.<type> (default "other")
// @Tags         jobseeker
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "Certificate (jpg, png, webp, pdf)"
// @Param        type  formData  string  false  "Certificate type"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /jobseeker/upload-certificate [post]
// @Security     BearerAuth
func (h *JobseekerHandler) UploadCertificate(c *gin.Context) {
	ref, err := h.uploader.store(c, "file", domain.UploadCertificate)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.jobseekerUC.SetCertificate(c.Request.Context(), middleware.CurrentRequester(c), c.PostForm("type"), ref)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Certificate uploaded", user)
}

// UploadProfileImage godoc
// @Summary      Upload profile image (jobseeker)
// @Tags         jobseeker
// @Accept       multipart/form-data
// @Produce      json
// @Param        profileImage  formData  file  true  "Image"
// @Success      201           {object}  response.Response{data=domain.User}
// @Failure      400           {object}  response.Response
// @Failure      403           {object}  response.Response
// @Router       /jobseeker/profile-image [post]
// @Security     BearerAuth
func (h *JobseekerHandler) UploadProfileImage(c *gin.Context) {
	ref, err := h.uploader.store(c, "profileImage", domain.UploadProfileImage)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.jobseekerUC.SetProfileImage(c.Request.Context(), middleware.CurrentRequester(c), ref)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Profile image uploaded", user)
}

// storeOnly uploads a file without recording it on the user.
func (h *JobseekerHandler) storeOnly(field string, kind domain.UploadKind, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := h.uploader.store(c, field, kind)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusCreated, message, uploadResult{URL: ref})
	}
}
