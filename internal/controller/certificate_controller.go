package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/service"
	"github.com/rs/zerolog/log"
)

type CertificateController struct {
	certificateService service.CertificateService
}

func NewCertificateController(certificateService service.CertificateService) *CertificateController {
	return &CertificateController{certificateService: certificateService}
}

// ClaimCertificate godoc
// @Summary Claim a certificate for a passed exam
// @Description Creates the certificate on first claim; repeat claims return the existing certificate id and the originally stored name, ignoring the newly supplied one. Requires exam score >= 60 and ownership of the exam's course.
// @Tags Certificates
// @Accept json
// @Produce json
// @Param request body dto.ClaimCertificateRequest true "Exam ID and student display name"
// @Success 200 {object} dto.ClaimCertificateResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields or insufficient score"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the exam's course"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Certificate left unissued, retryable"
// @Security BearerAuth
// @Router /certificates/claim [post]
func (c *CertificateController) ClaimCertificate(ctx *gin.Context) {
	userID, ok := authedUser(ctx)
	if !ok {
		return
	}

	var req dto.ClaimCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{err.Error()}})
		return
	}

	result, err := c.certificateService.Claim(userID, req.ExamID, req.StudentName)
	if err != nil {
		log.Warn().Err(err).Uint("examID", req.ExamID).Msg("ClaimCertificate: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetCertificate godoc
// @Summary Fetch a certificate
// @Description Returns the immutable certificate record for rendering.
// @Tags Certificates
// @Produce json
// @Param certificate_id path int true "Certificate ID"
// @Success 200 {object} dto.CertificateResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /certificates/{certificate_id} [get]
func (c *CertificateController) GetCertificate(ctx *gin.Context) {
	userID, ok := authedUser(ctx)
	if !ok {
		return
	}

	certID, err := paramUint(ctx, "certificate_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid certificate ID format"})
		return
	}

	cert, err := c.certificateService.GetCertificate(userID, certID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cert)
}
