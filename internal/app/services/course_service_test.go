package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

func newCourseService(f *institutionFake, storage *memoryStorage) *CourseService {
	return NewCourseService(f, f, storage, fakeTx[UploadStore](f, f), nopLogger)
}

func pdfUpload(body string) FileUpload {
	return FileUpload{
		Filename:    "syllabus.pdf",
		ContentType: "application/pdf; charset=binary",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func TestCourseService_CreateDefaultsActiveAndCurrency(t *testing.T) {
	f := newInstitutionFake()
	svc := newCourseService(f, newMemoryStorage())

	view, err := svc.CreateCourse(context.Background(), 70, &dto.CourseRequest{Title: "  Physics ", Fee: 25})
	require.NoError(t, err)
	assert.Equal(t, "Physics", view.Title)
	assert.Equal(t, int64(7), view.InstitutionID)
	assert.True(t, view.IsActive)
	assert.Equal(t, "USD", view.Currency)
	assert.Equal(t, "$25.00", view.DisplayFee)
}

func TestCourseService_UpdateKeepsActiveWhenOmitted(t *testing.T) {
	f := seededInstitution()
	svc := newCourseService(f, newMemoryStorage())

	view, err := svc.UpdateCourse(context.Background(), 70, 2, &dto.CourseRequest{Title: "Biology II", Fee: 60, Currency: "eur"})
	require.NoError(t, err)
	assert.False(t, view.IsActive)
	assert.Equal(t, "EUR", view.Currency)
	assert.Equal(t, "Biology II", f.courses[2].Title)
}

func TestCourseService_OtherInstitutionsCourse(t *testing.T) {
	f := seededInstitution()
	f.courses[9] = &models.Course{ID: 9, InstitutionID: 8, Title: "Elsewhere", IsActive: true}
	storage := newMemoryStorage()
	svc := newCourseService(f, storage)

	_, err := svc.UpdateCourse(context.Background(), 70, 9, &dto.CourseRequest{Title: "Mine now"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.UploadSyllabus(context.Background(), 70, 9, pdfUpload("%PDF"))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, storage.objects)
}

func TestCourseService_DeleteIsSoft(t *testing.T) {
	f := seededInstitution()
	svc := newCourseService(f, newMemoryStorage())

	view, err := svc.DeleteCourse(context.Background(), 70, 1)
	require.NoError(t, err)
	assert.False(t, view.IsActive)
	assert.Contains(t, f.courses, int64(1))
}

func TestCourseService_UploadSyllabus(t *testing.T) {
	f := seededInstitution()
	storage := newMemoryStorage()
	svc := newCourseService(f, storage)

	view, err := svc.UploadSyllabus(context.Background(), 70, 1, pdfUpload("%PDF-1.7"))
	require.NoError(t, err)
	require.NotNil(t, view.SyllabusURL)
	assert.Equal(t, "/uploads/syllabi/syllabus.pdf", *view.SyllabusURL)

	require.Len(t, f.files, 1)
	assert.Equal(t, "application/pdf", f.files[0].FileType)
	assert.Equal(t, models.FileCourseSyllabus, f.files[0].ResourceType)
	assert.Equal(t, int64(8), f.files[0].FileSize)
	assert.Equal(t, int64(1), *f.files[0].ResourceID)
}

func TestCourseService_UploadRejectsBadFiles(t *testing.T) {
	f := seededInstitution()
	storage := newMemoryStorage()
	svc := newCourseService(f, storage)
	ctx := context.Background()

	upload := pdfUpload("#!/bin/sh")
	upload.ContentType = "text/x-shellscript"
	_, err := svc.UploadSyllabus(ctx, 70, 1, upload)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UploadSyllabus(ctx, 70, 1, pdfUpload(""))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	big := pdfUpload("%PDF")
	big.Size = 11 << 20
	_, err = svc.UploadSyllabus(ctx, 70, 1, big)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.Empty(t, storage.objects)
	assert.Empty(t, f.files)
}

func TestCourseService_UploadCleansUpWhenRecordFails(t *testing.T) {
	f := seededInstitution()
	f.fail["attach"] = true
	storage := newMemoryStorage()
	svc := newCourseService(f, storage)

	_, err := svc.UploadSyllabus(context.Background(), 70, 1, pdfUpload("%PDF"))
	assert.ErrorIs(t, err, errStoreDown)

	assert.Empty(t, storage.objects)
	assert.Equal(t, []string{"syllabi/syllabus.pdf"}, storage.deleted)
	assert.Empty(t, f.files)
	assert.Nil(t, f.courses[1].SyllabusURL)
}

func TestCourseService_Faculty(t *testing.T) {
	f := seededInstitution()
	svc := newCourseService(f, newMemoryStorage())
	ctx := context.Background()

	added, err := svc.AddFaculty(ctx, 70, &dto.FacultyRequest{Name: " Prof. E "})
	require.NoError(t, err)
	assert.Equal(t, "Prof. E", added.Name)
	assert.Equal(t, int64(7), added.InstitutionID)

	updated, err := svc.UpdateFaculty(ctx, 70, added.ID, &dto.FacultyRequest{Name: "Prof. E", Subject: strPtr("Chemistry")})
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", *updated.Subject)

	tab, err := svc.Faculty(ctx, 70)
	require.NoError(t, err)
	assert.Len(t, tab.Items, 2)

	require.NoError(t, svc.RemoveFaculty(ctx, 70, added.ID))
	assert.ErrorIs(t, svc.RemoveFaculty(ctx, 70, added.ID), apperrors.ErrResourceNotFound)
}
