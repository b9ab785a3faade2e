package services

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const (
	verificationCodeLength = 16
	certificateSuffixLen   = 6
	codeAlphabet           = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base36Alphabet         = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var defaultTemplateDesign = datatypes.JSON(`{"theme":"modern","colors":{"primary":"#2563eb","secondary":"#64748b","accent":"#f59e0b"}}`)

// CertificateData is the presentation view of a certificate. It never
// carries the owner's email.
type CertificateData struct {
	ID                uint           `json:"id"`
	CourseID          uint           `json:"course_id"`
	CertificateNumber string         `json:"certificate_number"`
	VerificationCode  string         `json:"verification_code"`
	IssuedAt          time.Time      `json:"issued_at"`
	TemplateDesign    datatypes.JSON `json:"template_design"`
	UserName          string         `json:"user_name"`
	CourseTitle       string         `json:"course_title"`
	CourseDescription string         `json:"course_description"`
	CompletionDate    *time.Time     `json:"completion_date,omitempty"`
}

// CertificateService issues and looks up completion certificates.
type CertificateService struct {
	certs         repository.CertificateRepo
	access        repository.AccessRepo
	catalog       repository.CatalogRepo
	notifications *NotificationService
	attempts      int
	now           func() time.Time
	newCodes      func(now time.Time) (number, code string, err error)
	log           *logger.Logger
}

func NewCertificateService(
	certs repository.CertificateRepo,
	access repository.AccessRepo,
	catalog repository.CatalogRepo,
	notifications *NotificationService,
	attempts int,
	now func() time.Time,
	baseLog *logger.Logger,
) *CertificateService {
	if attempts < 1 {
		attempts = 1
	}
	return &CertificateService{
		certs:         certs,
		access:        access,
		catalog:       catalog,
		notifications: notifications,
		attempts:      attempts,
		now:           now,
		newCodes:      generateCodes,
		log:           baseLog.With("service", "CertificateService"),
	}
}

func randomString(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

// generateCodes returns CERT-<last 8 digits of unix millis>-<6 base36> and
// a 16 character [A-Z0-9] verification code.
func generateCodes(now time.Time) (string, string, error) {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	if len(stamp) > 8 {
		stamp = stamp[len(stamp)-8:]
	}
	suffix, err := randomString(base36Alphabet, certificateSuffixLen)
	if err != nil {
		return "", "", errors.Wrap(err, "certificate number")
	}
	code, err := randomString(codeAlphabet, verificationCodeLength)
	if err != nil {
		return "", "", errors.Wrap(err, "verification code")
	}
	return fmt.Sprintf("CERT-%s-%s", stamp, suffix), code, nil
}

// GenerateCertificate issues the certificate for a completed course. It is
// idempotent per (user, course): an existing certificate is returned as is.
func (s *CertificateService) GenerateCertificate(ctx context.Context, userID, courseID uint) (*models.Certificate, error) {
	cert, _, err := s.IssueCertificate(ctx, userID, courseID)
	return cert, err
}

// IssueCertificate is GenerateCertificate that also reports whether this
// call created the certificate.
func (s *CertificateService) IssueCertificate(ctx context.Context, userID, courseID uint) (*models.Certificate, bool, error) {
	if err := requireUser(userID); err != nil {
		return nil, false, err
	}

	existing, err := s.certs.GetByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !stderrors.Is(err, apperr.ErrNotFound) {
		return nil, false, err
	}

	course, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	rec, err := s.access.Get(ctx, userID, courseID)
	if stderrors.Is(err, apperr.ErrNotFound) || (err == nil && rec.CompletionPercentage < 100) {
		return nil, false, apperr.New(apperr.ErrNotCompleted, "certificate.generate", nil)
	}
	if err != nil {
		return nil, false, err
	}

	for attempt := 1; attempt <= s.attempts; attempt++ {
		now := s.now().UTC()
		number, code, err := s.newCodes(now)
		if err != nil {
			return nil, false, apperr.New(apperr.ErrStoreFailure, "certificate.generate", err)
		}
		cert := &models.Certificate{
			UserID:            userID,
			CourseID:          courseID,
			CertificateNumber: number,
			VerificationCode:  code,
			IssuedAt:          now,
			TemplateDesign:    defaultTemplateDesign,
		}
		err = s.certs.Create(ctx, cert)
		if err == nil {
			s.log.Info("certificate issued", "user_id", userID, "course_id", courseID, "certificate_id", cert.ID)
			s.notifications.CertificateGenerated(ctx, userID, course.Title, cert.ID)
			return cert, true, nil
		}
		if !stderrors.Is(err, apperr.ErrConflict) {
			return nil, false, err
		}

		// Lost a race on (user, course), or drew a code already in use.
		existing, gerr := s.certs.GetByUserAndCourse(ctx, userID, courseID)
		if gerr == nil {
			return existing, false, nil
		}
		if !stderrors.Is(gerr, apperr.ErrNotFound) {
			return nil, false, gerr
		}
		s.log.Warn("certificate code collision, regenerating", "attempt", attempt, "course_id", courseID)
	}
	return nil, false, apperr.New(apperr.ErrConflict, "certificate.generate",
		errors.Errorf("no unique certificate code after %d attempts", s.attempts))
}

func (s *CertificateService) toData(ctx context.Context, cert *models.Certificate) *CertificateData {
	data := &CertificateData{
		ID:                cert.ID,
		CourseID:          cert.CourseID,
		CertificateNumber: cert.CertificateNumber,
		VerificationCode:  cert.VerificationCode,
		IssuedAt:          cert.IssuedAt,
		TemplateDesign:    cert.TemplateDesign,
		UserName:          cert.User.PublicLabel(),
	}
	if cert.Course != nil {
		data.CourseTitle = cert.Course.Title
		data.CourseDescription = cert.Course.Description
	}
	if rec, err := s.access.Get(ctx, cert.UserID, cert.CourseID); err == nil {
		completed := rec.UpdatedAt
		data.CompletionDate = &completed
	}
	return data
}

// VerifyCertificate is the public lookup. An unknown code yields nil data
// and no error.
func (s *CertificateService) VerifyCertificate(ctx context.Context, verificationCode string) (*CertificateData, error) {
	code := strings.ToUpper(strings.TrimSpace(verificationCode))
	if code == "" {
		return nil, nil
	}
	cert, err := s.certs.GetByVerificationCode(ctx, code)
	if stderrors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.toData(ctx, cert), nil
}

// GetCertificate returns one of the caller's certificates; another user's
// certificate reads as not found.
func (s *CertificateService) GetCertificate(ctx context.Context, userID, certID uint) (*CertificateData, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	cert, err := s.certs.GetByID(ctx, certID)
	if err != nil {
		return nil, err
	}
	if cert.UserID != userID {
		return nil, apperr.NotFound("certificate")
	}
	return s.toData(ctx, cert), nil
}

func (s *CertificateService) ListCertificates(ctx context.Context, userID uint) ([]CertificateData, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	certs, err := s.certs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CertificateData, 0, len(certs))
	for i := range certs {
		out = append(out, *s.toData(ctx, &certs[i]))
	}
	return out, nil
}
