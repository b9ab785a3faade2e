package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"coursehub/backend/apperr"
	"coursehub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodesFormat(t *testing.T) {
	now := time.UnixMilli(1704888000123)
	number, code, err := generateCodes(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CERT-88000123-[0-9A-Z]{6}$`), number)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{16}$`), code)

	_, other, err := generateCodes(now)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestGenerateCertificateBeforeCompletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Certificates.GenerateCertificate(ctx, h.user.ID, h.course.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotCompleted))

	_, err = h.svc.Progress.ToggleLessonCompletion(ctx, h.user.ID, h.lessons[0].ID, true)
	require.NoError(t, err)
	_, err = h.svc.Certificates.GenerateCertificate(ctx, h.user.ID, h.course.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotCompleted))

	var count int64
	h.db.Model(&models.Certificate{}).Count(&count)
	assert.Equal(t, int64(0), count)

	_, err = h.svc.Certificates.GenerateCertificate(ctx, 0, h.course.ID)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestGenerateCertificateUnknownCourse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Certificates.GenerateCertificate(ctx, h.user.ID, 9999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.False(t, errors.Is(err, apperr.ErrNotCompleted))
}

func TestIssueCertificateReportsCreation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.repos.Access.SetPercentage(ctx, h.user.ID, h.course.ID, 100, nil, h.clock.t))

	first, created, err := h.svc.Certificates.IssueCertificate(ctx, h.user.ID, h.course.ID)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := h.svc.Certificates.IssueCertificate(ctx, h.user.ID, h.course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}

func TestGenerateCertificateIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.completeAll(t, h.user.ID)

	first, err := h.svc.Certificates.GenerateCertificate(ctx, h.user.ID, h.course.ID)
	require.NoError(t, err)
	second, err := h.svc.Certificates.GenerateCertificate(ctx, h.user.ID, h.course.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.VerificationCode, second.VerificationCode)
	assert.JSONEq(t, string(defaultTemplateDesign), string(first.TemplateDesign))

	var count int64
	h.db.Model(&models.Certificate{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGenerateCertificateRetriesCodeCollisions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.completeAll(t, h.other.ID)
	taken, err := h.repos.Certificates.GetByUserAndCourse(ctx, h.other.ID, h.course.ID)
	require.NoError(t, err)

	h.completeAll(t, h.user.ID)
	require.NoError(t, h.db.Where("user_id = ?", h.user.ID).Delete(&models.Certificate{}).Error)

	calls := 0
	h.svc.Certificates.newCodes = func(time.Time) (string, string, error) {
		calls++
		if calls == 1 {
			return "CERT-00000000-AAAAAA", taken.VerificationCode, nil
		}
		return "CERT-00000000-BBBBBB", "FRESHCODE0000001", nil
	}

	cert, err := h.svc.Certificates.GenerateCertificate(ctx, h.user.ID, h.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "FRESHCODE0000001", cert.VerificationCode)
}

func TestGenerateCertificateGivesUpAfterAttempts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.completeAll(t, h.other.ID)
	taken, err := h.repos.Certificates.GetByUserAndCourse(ctx, h.other.ID, h.course.ID)
	require.NoError(t, err)

	h.completeAll(t, h.user.ID)
	require.NoError(t, h.db.Where("user_id = ?", h.user.ID).Delete(&models.Certificate{}).Error)

	calls := 0
	h.svc.Certificates.newCodes = func(time.Time) (string, string, error) {
		calls++
		return fmt.Sprintf("CERT-00000000-%06d", calls), taken.VerificationCode, nil
	}

	_, err = h.svc.Certificates.GenerateCertificate(ctx, h.user.ID, h.course.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 3, calls)
}

func TestVerifyCertificate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.completeAll(t, h.user.ID)
	cert, err := h.repos.Certificates.GetByUserAndCourse(ctx, h.user.ID, h.course.ID)
	require.NoError(t, err)

	data, err := h.svc.Certificates.VerifyCertificate(ctx, cert.VerificationCode)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "Go Basics", data.CourseTitle)
	assert.Equal(t, "Start here", data.CourseDescription)
	assert.Equal(t, "j******e", data.UserName)
	assert.NotContains(t, data.UserName, "jane.doe")
	assert.NotNil(t, data.CompletionDate)

	data, err = h.svc.Certificates.VerifyCertificate(ctx, "NOPE000000000000")
	assert.NoError(t, err)
	assert.Nil(t, data)

	data, err = h.svc.Certificates.VerifyCertificate(ctx, "   ")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestGetAndListCertificates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.completeAll(t, h.user.ID)
	cert, err := h.repos.Certificates.GetByUserAndCourse(ctx, h.user.ID, h.course.ID)
	require.NoError(t, err)

	data, err := h.svc.Certificates.GetCertificate(ctx, h.user.ID, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateNumber, data.CertificateNumber)

	_, err = h.svc.Certificates.GetCertificate(ctx, h.other.ID, cert.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	list, err := h.svc.Certificates.ListCertificates(ctx, h.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cert.ID, list[0].ID)

	list, err = h.svc.Certificates.ListCertificates(ctx, h.other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
