package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	"smarttester_backend/internals/features/school/tests/dto"
	"smarttester_backend/internals/features/school/tests/model"
	"smarttester_backend/internals/features/school/tests/repository"
	helper "smarttester_backend/internals/helpers"
)

// ErrNotOwner: test ada tapi bukan milik guru ini (dijawab 404 oleh controller).
var ErrNotOwner = errors.New("test not owned by caller")

type TestService struct {
	Repo      repository.TestRepository
	Classes   classRepo.ClassRepository
	Images    *helper.ImageStore
	Validator *validator.Validate
}

func NewTestService(repo repository.TestRepository, classes classRepo.ClassRepository, images *helper.ImageStore, v *validator.Validate) *TestService {
	return &TestService{Repo: repo, Classes: classes, Images: images, Validator: v}
}

// checkImageRefs: image_url dari klien yang menunjuk ke /uploads/ harus sudah
// dipakai test ini. File upload hanya dihapus lewat test pemiliknya.
func checkImageRefs(m *model.TestModel, owned []string, images map[int]*multipart.FileHeader) error {
	have := make(map[string]bool, len(owned))
	for _, u := range owned {
		have[u] = true
	}
	var fields []helper.FieldError
	for i, q := range m.Questions {
		if _, replaced := images[i]; replaced || q.QuestionImageURL == nil {
			continue
		}
		if u := *q.QuestionImageURL; helper.IsUploadURL(u) && !have[u] {
			fields = append(fields, helper.FieldError{
				Field: fmt.Sprintf("questions[%d].image_url", i),
				Error: "image_url bukan milik test ini",
			})
		}
	}
	if len(fields) > 0 {
		return helper.NewValidationError(errors.New("image_url tidak valid"), fields...)
	}
	return nil
}

// prepare: normalisasi + validasi request, cek kelas, simpan gambar upload.
// owned: URL gambar yang sudah dipakai test (kosong saat create).
// Mengembalikan model siap tulis dan URL file yang baru ditulis (untuk rollback).
func (s *TestService) prepare(ctx context.Context, teacherID uuid.UUID, req *dto.UpsertTestRequest, owned []string, images map[int]*multipart.FileHeader) (*model.TestModel, []string, error) {
	req.Normalize()
	if err := s.Validator.Struct(req); err != nil {
		return nil, nil, err
	}
	if err := req.ValidateShape(); err != nil {
		return nil, nil, helper.NewValidationError(err)
	}

	m, err := req.ToModel(teacherID)
	if err != nil {
		return nil, nil, helper.NewValidationError(err)
	}
	if err := checkImageRefs(m, owned, images); err != nil {
		return nil, nil, err
	}
	if _, err := s.Classes.FindClassByID(ctx, m.TestClassID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, helper.NewValidationError(err, helper.FieldError{Field: "class_id", Error: "class not found"})
		}
		return nil, nil, err
	}

	var written []string
	for i, fh := range images {
		if i < 0 || i >= len(m.Questions) {
			continue
		}
		if s.Images == nil {
			return nil, written, helper.BadInput("image upload is not configured")
		}
		url, err := s.Images.SaveQuestionImage(fh)
		if err != nil {
			s.Images.RemoveAll(written)
			if errors.Is(err, helper.ErrUnsupportedImage) || errors.Is(err, helper.ErrImageTooLarge) {
				return nil, nil, helper.NewValidationError(err, helper.FieldError{Field: fmt.Sprintf("images[%d]", i), Error: err.Error()})
			}
			return nil, nil, err
		}
		written = append(written, url)
		m.Questions[i].QuestionImageURL = &url
	}
	return m, written, nil
}

func (s *TestService) rollbackImages(urls []string) {
	if s.Images != nil && len(urls) > 0 {
		s.Images.RemoveAll(urls)
	}
}

func (s *TestService) Create(ctx context.Context, teacherID uuid.UUID, req *dto.UpsertTestRequest, images map[int]*multipart.FileHeader) (*model.TestModel, error) {
	m, written, err := s.prepare(ctx, teacherID, req, nil, images)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateTest(ctx, m); err != nil {
		s.rollbackImages(written)
		if errors.Is(err, database.ErrInvalidReference) {
			return nil, helper.NewValidationError(err)
		}
		return nil, err
	}
	log.Printf("[INFO] test %s created by %s (%d questions)", m.TestID, teacherID, len(m.Questions))
	return s.Repo.FindTestByID(ctx, m.TestID, true)
}

// FindOwned: test milik teacherID; bukan pemilik → ErrNotOwner.
func (s *TestService) FindOwned(ctx context.Context, teacherID, testID uuid.UUID, withQuestions bool) (*model.TestModel, error) {
	t, err := s.Repo.FindTestByID(ctx, testID, withQuestions)
	if err != nil {
		return nil, err
	}
	if !t.OwnedBy(teacherID) {
		return nil, ErrNotOwner
	}
	return t, nil
}

// Replace: full replace soal/opsi. Gambar lama yang tidak dipakai lagi dihapus.
func (s *TestService) Replace(ctx context.Context, teacherID, testID uuid.UUID, req *dto.UpsertTestRequest, images map[int]*multipart.FileHeader) (*model.TestModel, error) {
	current, err := s.FindOwned(ctx, teacherID, testID, true)
	if err != nil {
		return nil, err
	}
	m, written, err := s.prepare(ctx, teacherID, req, current.ImageURLs(), images)
	if err != nil {
		return nil, err
	}
	m.TestID = testID
	if err := s.Repo.ReplaceTest(ctx, m); err != nil {
		s.rollbackImages(written)
		if errors.Is(err, database.ErrInvalidReference) {
			return nil, helper.NewValidationError(err)
		}
		return nil, err
	}

	kept := make(map[string]bool)
	for _, u := range m.ImageURLs() {
		kept[u] = true
	}
	var stale []string
	for _, u := range current.ImageURLs() {
		if !kept[u] {
			stale = append(stale, u)
		}
	}
	s.rollbackImages(stale)
	return s.Repo.FindTestByID(ctx, testID, true)
}

func (s *TestService) Delete(ctx context.Context, teacherID, testID uuid.UUID) error {
	current, err := s.FindOwned(ctx, teacherID, testID, true)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteTest(ctx, testID); err != nil {
		return err
	}
	s.rollbackImages(current.ImageURLs())
	log.Printf("[INFO] test %s deleted by %s", testID, teacherID)
	return nil
}
