package controllers

import (
	"coursehub/backend/middleware"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CertificatesController struct {
	Certificates *services.CertificateService
}

func NewCertificatesController(certificates *services.CertificateService) *CertificatesController {
	return &CertificatesController{Certificates: certificates}
}

// GenerateCertificate godoc
// @Summary Issue the certificate for a completed course
// @Description Idempotent: a second call returns the existing certificate with 200.
// @Tags certificates
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Success 201 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/certificate [post]
func (cc *CertificatesController) GenerateCertificate(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	userID := middleware.UserID(c)
	cert, created, err := cc.Certificates.IssueCertificate(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	data, err := cc.Certificates.GetCertificate(c.UserContext(), userID, cert.ID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if created {
		return utils.Created(c, data)
	}
	return utils.Success(c, fiber.StatusOK, data)
}

func (cc *CertificatesController) ListCertificates(c *fiber.Ctx) error {
	certs, err := cc.Certificates.ListCertificates(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, certs)
}

func (cc *CertificatesController) GetCertificate(c *fiber.Ctx) error {
	certID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	data, err := cc.Certificates.GetCertificate(c.UserContext(), middleware.UserID(c), certID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, data)
}

// VerifyCertificate godoc
// @Summary Verify a certificate by its public code
// @Description Unknown codes answer 200 with null data.
// @Tags certificates
// @Produce json
// @Param code path string true "Verification code"
// @Success 200 {object} utils.SuccessResponse
// @Router /certificates/verify/{code} [get]
func (cc *CertificatesController) VerifyCertificate(c *fiber.Ctx) error {
	data, err := cc.Certificates.VerifyCertificate(c.UserContext(), c.Params("code"))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, data)
}
