package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/storage"

	"github.com/xuri/excelize/v2"
)

const maxArchiveNameLen = 60

type applicantExportUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	userRepo        domain.UserRepository
	files           domain.FileStorage
}

func NewApplicantExportUsecase(applicationRepo domain.ApplicationRepository, jobRepo domain.JobRepository, userRepo domain.UserRepository, files domain.FileStorage) domain.ApplicantExportUsecase {
	return &applicantExportUsecase{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		files:           files,
	}
}

type applicantRow struct {
	app       domain.Application
	applicant *domain.User
}

func (r applicantRow) name() string {
	if r.applicant != nil && r.applicant.Name != "" {
		return r.applicant.Name
	}
	if r.app.ApplicantName != "" {
		return r.app.ApplicantName
	}
	return "applicant"
}

func (r applicantRow) email() string {
	if r.applicant != nil {
		return r.applicant.Email
	}
	return ""
}

// applicants loads the owned job and its applications with applicants
// attached, newest first.
func (u *applicantExportUsecase) applicants(ctx context.Context, requester domain.Requester, jobID string) (*domain.Job, []applicantRow, error) {
	if err := requireEmployer(requester); err != nil {
		return nil, nil, err
	}
	job, err := ownedJob(ctx, u.jobRepo, requester, jobID)
	if err != nil {
		return nil, nil, err
	}

	apps, err := u.applicationRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if len(apps) == 0 {
		return nil, nil, apperror.NotFound("No applications found for this job")
	}

	rows := make([]applicantRow, 0, len(apps))
	for _, app := range apps {
		applicant, err := u.userRepo.GetByID(ctx, app.ApplicantID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperror.Internal(err)
		}
		rows = append(rows, applicantRow{app: app, applicant: applicant})
	}
	return job, rows, nil
}

// archiveName keeps letters, digits, '-' and '_' (spaces become '_') and
// truncates to maxArchiveNameLen.
func archiveName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxArchiveNameLen {
		out = out[:maxArchiveNameLen]
	}
	if out == "" {
		out = "file"
	}
	return out
}

// uniqueName appends _2, _3, ... before the extension until name is unused.
func uniqueName(name string, used map[string]bool) string {
	if !used[name] {
		used[name] = true
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}

// PrepareResumeArchive lists the resume files of a job that exist in
// storage. Remote resume URLs are skipped.
func (u *applicantExportUsecase) PrepareResumeArchive(ctx context.Context, requester domain.Requester, jobID string) (*domain.ResumeArchive, error) {
	job, rows, err := u.applicants(ctx, requester, jobID)
	if err != nil {
		return nil, err
	}

	used := map[string]bool{}
	var entries []domain.ArchiveEntry
	for _, row := range rows {
		ref := row.app.ResumeURL
		if !storage.IsLocalRef(ref) {
			continue
		}

		rc, err := u.files.Open(ctx, ref)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				logger.Log.Warn("resume unreadable", "application_id", row.app.ID, "ref", ref, "error", err)
			}
			continue
		}
		_ = rc.Close()

		name := archiveName(row.name()) + "_" + path.Base(ref)
		entries = append(entries, domain.ArchiveEntry{Name: uniqueName(name, used), Ref: ref})
	}

	if len(entries) == 0 {
		return nil, apperror.NotFound("No resume files found for this job")
	}

	company := job.Company.Name
	if company == "" {
		company = "company"
	}
	return &domain.ResumeArchive{
		FileName: fmt.Sprintf("%s_resumes_%s.zip", archiveName(company), job.ID),
		Entries:  entries,
	}, nil
}

// WriteResumeArchive streams the archive to w. A read failure aborts the
// stream and is returned; nothing is retried.
func (u *applicantExportUsecase) WriteResumeArchive(ctx context.Context, archive *domain.ResumeArchive, w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, entry := range archive.Entries {
		if err := u.copyEntry(ctx, zw, entry); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (u *applicantExportUsecase) copyEntry(ctx context.Context, zw *zip.Writer, entry domain.ArchiveEntry) error {
	rc, err := u.files.Open(ctx, entry.Ref)
	if err != nil {
		return fmt.Errorf("open %s: %w", entry.Ref, err)
	}
	defer rc.Close()

	dst, err := zw.Create(entry.Name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", entry.Name, err)
	}
	if _, err := io.Copy(dst, rc); err != nil {
		return fmt.Errorf("copy %s: %w", entry.Ref, err)
	}
	return nil
}

var exportHeaders = []string{"APPLICANT", "EMAIL", "STATUS", "REVIEW STATUS", "APPLIED AT", "RESUME"}

func (r applicantRow) values() []string {
	review := r.app.ReviewStatus
	if review == "" {
		review = domain.ReviewStatusNone
	}
	return []string{
		r.name(),
		r.email(),
		r.app.Status,
		review,
		r.app.AppliedAt.UTC().Format(time.RFC3339),
		r.app.ResumeURL,
	}
}

func (u *applicantExportUsecase) ExportApplicants(ctx context.Context, requester domain.Requester, jobID, format string) (*domain.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "csv" {
		return nil, apperror.BadRequest("Format must be xlsx or csv")
	}

	job, rows, err := u.applicants(ctx, requester, jobID)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("applicants_%s_%s", job.ID, time.Now().Format("20060102_150405"))
	if format == "csv" {
		data, err := exportCSV(rows)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{FileName: base + ".csv", ContentType: "text/csv", Data: data}, nil
	}

	data, err := exportExcel(job, rows)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.ExportFile{
		FileName:    base + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func exportCSV(rows []applicantRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.values()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func exportExcel(job *domain.Job, rows []applicantRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Applicants"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for r, row := range rows {
		for c, v := range row.values() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	for i := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 24)
	}
	f.SetDocProps(&excelize.DocProperties{Title: job.Title + " applicants"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
