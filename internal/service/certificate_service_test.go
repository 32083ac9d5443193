package service_test

import (
	"sync"
	"testing"

	"github.com/minhlq/coursecast/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCertificateFixture(t *testing.T) (service.CertificateService, *fakeCourseRepo, *fakeExamRepo, *fakeCertificateRepo) {
	t.Helper()
	courseRepo := newFakeCourseRepo()
	examRepo := newFakeExamRepo()
	certRepo := newFakeCertificateRepo()
	svc := service.NewCertificateService(examRepo, courseRepo, certRepo)
	return svc, courseRepo, examRepo, certRepo
}

func seedPassedExam(courseRepo *fakeCourseRepo, examRepo *fakeExamRepo, userID uint, score int) uint {
	course := seedCourse(courseRepo, userID, "content")
	exam := seedExam(examRepo, course.ID, makeQuestions(10))
	if _, err := examRepo.Finalize(exam.ID, score, map[string]string{"0": "A0"}); err != nil {
		panic(err)
	}
	return exam.ID
}

func TestClaimCertificate(t *testing.T) {
	svc, courseRepo, examRepo, certRepo := newCertificateFixture(t)
	examID := seedPassedExam(courseRepo, examRepo, 1, 80)

	resp, err := svc.Claim(1, examID, "Ada Lovelace")
	require.NoError(t, err)
	assert.NotZero(t, resp.CertificateID)
	assert.Equal(t, "Ada Lovelace", resp.StudentName)

	stored, err := certRepo.FindByExamID(examID)
	require.NoError(t, err)
	assert.Equal(t, 80, stored.Score)
	assert.Equal(t, uint(1), stored.UserID)
}

func TestClaimCertificateIsIdempotentFirstNameWins(t *testing.T) {
	svc, courseRepo, examRepo, _ := newCertificateFixture(t)
	examID := seedPassedExam(courseRepo, examRepo, 1, 90)

	first, err := svc.Claim(1, examID, "First Name")
	require.NoError(t, err)

	second, err := svc.Claim(1, examID, "Second Name")
	require.NoError(t, err)

	assert.Equal(t, first.CertificateID, second.CertificateID)
	assert.Equal(t, "First Name", second.StudentName, "re-claiming must not update the stored name")
}

func TestClaimCertificatePassingGate(t *testing.T) {
	svc, courseRepo, examRepo, _ := newCertificateFixture(t)

	// Unscored exam.
	course := seedCourse(courseRepo, 1, "content")
	unscored := seedExam(examRepo, course.ID, makeQuestions(10))
	_, err := svc.Claim(1, unscored.ID, "Student")
	require.ErrorIs(t, err, service.ErrScoreTooLow)

	// Score just below the threshold.
	failing := seedPassedExam(courseRepo, examRepo, 1, 59)
	_, err = svc.Claim(1, failing, "Student")
	require.ErrorIs(t, err, service.ErrScoreTooLow)

	// Exactly the threshold passes.
	passing := seedPassedExam(courseRepo, examRepo, 1, 60)
	resp, err := svc.Claim(1, passing, "Student")
	require.NoError(t, err)
	assert.NotZero(t, resp.CertificateID)
}

func TestClaimCertificateOwnershipAndExistence(t *testing.T) {
	svc, courseRepo, examRepo, _ := newCertificateFixture(t)
	examID := seedPassedExam(courseRepo, examRepo, 1, 100)

	_, err := svc.Claim(2, examID, "Intruder")
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.Claim(1, 9999, "Student")
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Claim(1, examID, "")
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestClaimCertificateConcurrentClaimsCreateOneRow(t *testing.T) {
	svc, courseRepo, examRepo, certRepo := newCertificateFixture(t)
	examID := seedPassedExam(courseRepo, examRepo, 1, 75)

	const claimers = 8
	var wg sync.WaitGroup
	ids := make([]uint, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			resp, err := svc.Claim(1, examID, "Racer")
			if err == nil {
				ids[n] = resp.CertificateID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id, "all claimers must see the same certificate")
	}
	stored, err := certRepo.FindByExamID(examID)
	require.NoError(t, err)
	assert.Equal(t, ids[0], stored.ID)
}

func TestGetCertificate(t *testing.T) {
	svc, courseRepo, examRepo, _ := newCertificateFixture(t)
	examID := seedPassedExam(courseRepo, examRepo, 1, 70)

	claimed, err := svc.Claim(1, examID, "Grace Hopper")
	require.NoError(t, err)

	cert, err := svc.GetCertificate(1, claimed.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", cert.StudentName)
	assert.Equal(t, 70, cert.Score)
	assert.Equal(t, examID, cert.ExamID)

	_, err = svc.GetCertificate(2, claimed.CertificateID)
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.GetCertificate(1, 9999)
	require.ErrorIs(t, err, service.ErrNotFound)
}
