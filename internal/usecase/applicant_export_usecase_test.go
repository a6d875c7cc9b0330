package usecase_test

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"testing"
	"time"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type exportFixture struct {
	uc    domain.ApplicantExportUsecase
	apps  *MockApplicationRepo
	jobs  *MockJobRepo
	users *MockUserRepo
	files *memStorage
}

func newExportFixture() *exportFixture {
	f := &exportFixture{
		apps:  new(MockApplicationRepo),
		jobs:  new(MockJobRepo),
		users: new(MockUserRepo),
		files: newMemStorage(),
	}
	f.uc = usecase.NewApplicantExportUsecase(f.apps, f.jobs, f.users, f.files)
	return f
}

func (f *exportFixture) ownJob() {
	f.jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, Title: "Dev", CompanyID: "acme", Company: domain.JobCompany{Name: "Acme Corp"}}, nil)
}

func TestPrepareAndWriteResumeArchive(t *testing.T) {
	f := newExportFixture()
	f.ownJob()
	f.files.files["/uploads/resumes/cv.pdf"] = []byte("%PDF-first")
	f.files.files["/uploads/resumes/other/cv.pdf"] = []byte("%PDF-second")

	f.apps.On("ListByJob", mock.Anything, jobID).Return([]domain.Application{
		{ID: "a1", ApplicantID: "u1", ResumeURL: "/uploads/resumes/cv.pdf"},
		{ID: "a2", ApplicantID: "u2", ResumeURL: "/uploads/resumes/other/cv.pdf"},
		{ID: "a3", ApplicantID: "u3", ResumeURL: "https://drive.example.com/cv.pdf"},
		{ID: "a4", ApplicantID: "u4", ResumeURL: "/uploads/resumes/missing.pdf"},
	}, nil)
	f.users.On("GetByID", mock.Anything, "u1").Return(&domain.User{Name: "Jane Doe!"}, nil)
	f.users.On("GetByID", mock.Anything, "u2").Return(&domain.User{Name: "Jane Doe"}, nil)
	f.users.On("GetByID", mock.Anything, "u3").Return(&domain.User{Name: "Remote"}, nil)
	f.users.On("GetByID", mock.Anything, "u4").Return(nil, domain.ErrNotFound)

	archive, err := f.uc.PrepareResumeArchive(ctx, employer, jobID)
	require.NoError(t, err)
	assert.Equal(t, "Acme_Corp_resumes_"+jobID+".zip", archive.FileName)
	require.Len(t, archive.Entries, 2)
	assert.Equal(t, "Jane_Doe_cv.pdf", archive.Entries[0].Name)
	assert.Equal(t, "Jane_Doe_cv_2.pdf", archive.Entries[1].Name)

	var buf bytes.Buffer
	require.NoError(t, f.uc.WriteResumeArchive(ctx, archive, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-second", string(content))
}

func TestResumeArchiveNotFoundCases(t *testing.T) {
	t.Run("no applications", func(t *testing.T) {
		f := newExportFixture()
		f.ownJob()
		f.apps.On("ListByJob", mock.Anything, jobID).Return([]domain.Application{}, nil)
		_, err := f.uc.PrepareResumeArchive(ctx, employer, jobID)
		assertAppError(t, err, http.StatusNotFound)
	})

	t.Run("only remote resumes", func(t *testing.T) {
		f := newExportFixture()
		f.ownJob()
		f.apps.On("ListByJob", mock.Anything, jobID).Return([]domain.Application{{ApplicantID: "u1", ResumeURL: "https://x/cv.pdf"}}, nil)
		f.users.On("GetByID", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
		_, err := f.uc.PrepareResumeArchive(ctx, employer, jobID)
		assertAppError(t, err, http.StatusNotFound)
	})

	t.Run("other employer", func(t *testing.T) {
		f := newExportFixture()
		f.jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, CompanyID: "globex"}, nil)
		_, err := f.uc.PrepareResumeArchive(ctx, employer, jobID)
		assertAppError(t, err, http.StatusForbidden)
	})
}

func TestWriteResumeArchiveAbortsOnMissingFile(t *testing.T) {
	f := newExportFixture()
	archive := &domain.ResumeArchive{Entries: []domain.ArchiveEntry{{Name: "a.pdf", Ref: "/uploads/resumes/gone.pdf"}}}
	err := f.uc.WriteResumeArchive(ctx, archive, io.Discard)
	assert.Error(t, err)
}

func TestExportApplicants(t *testing.T) {
	applied := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	setup := func() *exportFixture {
		f := newExportFixture()
		f.ownJob()
		f.apps.On("ListByJob", mock.Anything, jobID).Return([]domain.Application{
			{ApplicantID: "u1", Status: "accepted", ReviewStatus: "shortlisted", AppliedAt: applied, ResumeURL: "/uploads/resumes/cv.pdf"},
		}, nil)
		f.users.On("GetByID", mock.Anything, "u1").Return(&domain.User{Name: "Jane", Email: "jane@example.com"}, nil)
		return f
	}

	t.Run("csv", func(t *testing.T) {
		f := setup()
		file, err := f.uc.ExportApplicants(ctx, employer, jobID, "CSV")
		require.NoError(t, err)
		assert.Equal(t, "text/csv", file.ContentType)

		records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"Jane", "jane@example.com", "accepted", "shortlisted", "2024-05-01T10:00:00Z", "/uploads/resumes/cv.pdf"}, records[1])
	})

	t.Run("xlsx default", func(t *testing.T) {
		f := setup()
		file, err := f.uc.ExportApplicants(ctx, employer, jobID, "")
		require.NoError(t, err)
		assert.Contains(t, file.FileName, ".xlsx")

		x, err := excelize.OpenReader(bytes.NewReader(file.Data))
		require.NoError(t, err)
		defer x.Close()
		v, err := x.GetCellValue("Applicants", "B2")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", v)
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newExportFixture()
		_, err := f.uc.ExportApplicants(ctx, employer, jobID, "pdf")
		assertAppError(t, err, http.StatusBadRequest)
	})
}
