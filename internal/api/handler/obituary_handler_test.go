package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

type stubObituaryService struct {
	createFn func(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error)
	getFn    func(ctx context.Context, id int64) (*domain.Obituary, error)
	listFn   func(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error)
	updateFn func(ctx context.Context, requester ports.Requester, input ports.UpdateObituaryInput) error
	deleteFn func(ctx context.Context, requester ports.Requester, id int64) error
}

func (s *stubObituaryService) Create(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
	return s.createFn(ctx, input)
}

func (s *stubObituaryService) GetByID(ctx context.Context, id int64) (*domain.Obituary, error) {
	return s.getFn(ctx, id)
}

func (s *stubObituaryService) List(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubObituaryService) Update(ctx context.Context, requester ports.Requester, input ports.UpdateObituaryInput) error {
	return s.updateFn(ctx, requester, input)
}

func (s *stubObituaryService) Delete(ctx context.Context, requester ports.Requester, id int64) error {
	return s.deleteFn(ctx, requester, id)
}

type recordingPhotoStore struct {
	saved   [][]byte
	savedTo []string
}

func (s *recordingPhotoStore) Save(_ context.Context, data []byte, ext string) (string, error) {
	s.saved = append(s.saved, data)
	url := "/images/obituaries/photo" + ext
	s.savedTo = append(s.savedTo, url)
	return url, nil
}

func (s *recordingPhotoStore) Remove(context.Context, string) error { return nil }

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// multipartBody builds a multipart form with the given text fields and an
// optional photo part.
func multipartBody(t *testing.T, fields map[string]string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if photo != nil {
		part, err := w.CreateFormFile("Photo", "upload.bin")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(photo); err != nil {
			t.Fatalf("write photo: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"FullName":    "Jane Doe",
		"DateOfBirth": "1940-02-01",
		"DateOfDeath": "2024-06-15",
		"Biography":   "A long life, well lived.",
	}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestObituaryHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubObituaryService{
		createFn: func(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
			if input.FullName != "Jane Doe" || input.CreatorID != "user-1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
			return &domain.Obituary{
				ID:          7,
				FullName:    input.FullName,
				DateOfBirth: input.DateOfBirth,
				DateOfDeath: input.DateOfDeath,
				Biography:   input.Biography,
				PhotoURL:    input.PhotoURL,
				CreatorID:   input.CreatorID,
				CreatedAt:   now,
			}, nil
		},
	}
	handler := NewObituaryHandler(stub, &recordingPhotoStore{})

	body, contentType := multipartBody(t, validFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	c.Set("roles", []string{"user"})

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(7) || resp["full_name"] != "Jane Doe" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["date_of_birth"] != "1940-02-01" || resp["date_of_death"] != "2024-06-15" {
		t.Fatalf("unexpected dates: %+v", resp)
	}
}

func TestObituaryHandler_Create_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{}, &recordingPhotoStore{})

	body, contentType := multipartBody(t, validFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Create(c)
	if code := httpStatus(t, err); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestObituaryHandler_Create_InvertedDates(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		createFn: func(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}, &recordingPhotoStore{})

	fields := validFields()
	fields["DateOfBirth"] = "2024-06-15"
	fields["DateOfDeath"] = "1940-02-01"
	body, contentType := multipartBody(t, fields, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	err := handler.Create(c)
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestObituaryHandler_Create_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{}, &recordingPhotoStore{})

	fields := validFields()
	delete(fields, "FullName")
	body, contentType := multipartBody(t, fields, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	err := handler.Create(c)
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestObituaryHandler_Create_PhotoWrongMagicBytes(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		createFn: func(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}, &recordingPhotoStore{})

	// Declared as nothing in particular; the bytes are GIF, not JPEG/PNG,
	// so the upload must be rejected no matter the declared content type.
	body, contentType := multipartBody(t, validFields(), []byte("GIF89a...."))
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	err := handler.Create(c)
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestObituaryHandler_Create_PhotoTooLarge(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		createFn: func(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}, &recordingPhotoStore{})

	oversized := make([]byte, MaxPhotoSize+1)
	copy(oversized, jpegMagic)
	body, contentType := multipartBody(t, validFields(), oversized)
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	err := handler.Create(c)
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestObituaryHandler_Create_PhotoAtSizeBoundary(t *testing.T) {
	e := newTestEcho()
	store := &recordingPhotoStore{}
	handler := NewObituaryHandler(&stubObituaryService{
		createFn: func(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
			if input.PhotoURL != "/images/obituaries/photo.jpg" {
				t.Fatalf("expected saved photo url, got %q", input.PhotoURL)
			}
			return &domain.Obituary{ID: 1, FullName: input.FullName, CreatedAt: time.Now()}, nil
		},
	}, store)

	// Exactly at the limit: accepted.
	exact := make([]byte, MaxPhotoSize)
	copy(exact, jpegMagic)
	body, contentType := multipartBody(t, validFields(), exact)
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(store.saved) != 1 || len(store.saved[0]) != MaxPhotoSize {
		t.Fatalf("expected full photo saved, got %d files", len(store.saved))
	}
}

func TestObituaryHandler_Create_PNGPhotoSaved(t *testing.T) {
	e := newTestEcho()
	store := &recordingPhotoStore{}
	handler := NewObituaryHandler(&stubObituaryService{
		createFn: func(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
			return &domain.Obituary{ID: 2, FullName: input.FullName, PhotoURL: input.PhotoURL, CreatedAt: time.Now()}, nil
		},
	}, store)

	png := append([]byte{0x89, 0x50, 0x4E, 0x47}, []byte("rest-of-png")...)
	body, contentType := multipartBody(t, validFields(), png)
	req := httptest.NewRequest(http.MethodPost, "/api/obituaries", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(store.savedTo) != 1 || !strings.HasSuffix(store.savedTo[0], ".png") {
		t.Fatalf("expected .png save, got %v", store.savedTo)
	}
}

func TestObituaryHandler_Get_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		getFn: func(ctx context.Context, id int64) (*domain.Obituary, error) {
			if id != 42 {
				t.Fatalf("expected id 42, got %d", id)
			}
			return &domain.Obituary{ID: 42, FullName: "Jane Doe", CreatedAt: time.Now()}, nil
		},
	}, &recordingPhotoStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/obituaries/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestObituaryHandler_Get_BadID(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		getFn: func(ctx context.Context, id int64) (*domain.Obituary, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}, &recordingPhotoStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/obituaries/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := handler.Get(c)
	if code := httpStatus(t, err); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestObituaryHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		getFn: func(ctx context.Context, id int64) (*domain.Obituary, error) {
			return nil, domain.ErrObituaryNotFound
		},
	}, &recordingPhotoStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/obituaries/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := handler.Get(c); !errors.Is(err, domain.ErrObituaryNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestObituaryHandler_List_PassesQueryParams(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		listFn: func(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error) {
			if filter.Search != "doe" || filter.Page != 2 || filter.PageSize != 5 {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return &ports.ListObituariesResult{
				Items:      []*domain.Obituary{{ID: 1, FullName: "Jane Doe", CreatedAt: time.Now()}},
				Total:      6,
				Page:       2,
				PageSize:   5,
				TotalPages: 2,
			}, nil
		},
	}, &recordingPhotoStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/obituaries?search=doe&page=2&pageSize=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(6) || resp["total_pages"] != float64(2) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestObituaryHandler_Update_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		updateFn: func(ctx context.Context, requester ports.Requester, input ports.UpdateObituaryInput) error {
			if requester.ID != "user-1" || input.ID != 3 || input.FullName != "Jane Q. Doe" {
				t.Fatalf("unexpected args: %+v %+v", requester, input)
			}
			return nil
		},
	}, &recordingPhotoStore{})

	body := `{"full_name":"Jane Q. Doe","date_of_birth":"1940-02-01","date_of_death":"2024-06-15","biography":"Updated."}`
	req := httptest.NewRequest(http.MethodPut, "/api/obituaries/3", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", "user-1")
	c.Set("roles", []string{"user"})

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestObituaryHandler_Update_Forbidden(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		updateFn: func(ctx context.Context, requester ports.Requester, input ports.UpdateObituaryInput) error {
			return domain.ErrForbidden
		},
	}, &recordingPhotoStore{})

	body := `{"full_name":"Jane","date_of_birth":"1940-02-01","date_of_death":"2024-06-15","biography":"x"}`
	req := httptest.NewRequest(http.MethodPut, "/api/obituaries/3", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", "stranger")

	if err := handler.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestObituaryHandler_Update_BadID(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		updateFn: func(ctx context.Context, requester ports.Requester, input ports.UpdateObituaryInput) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}, &recordingPhotoStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/obituaries/nope", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	c.Set("user_id", "user-1")

	err := handler.Update(c)
	if code := httpStatus(t, err); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestObituaryHandler_Delete_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		deleteFn: func(ctx context.Context, requester ports.Requester, id int64) error {
			if requester.ID != "user-1" || id != 9 {
				t.Fatalf("unexpected args: %+v %d", requester, id)
			}
			return nil
		},
	}, &recordingPhotoStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/obituaries/9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("user_id", "user-1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestObituaryHandler_Delete_NotFound(t *testing.T) {
	e := newTestEcho()
	handler := NewObituaryHandler(&stubObituaryService{
		deleteFn: func(ctx context.Context, requester ports.Requester, id int64) error {
			return domain.ErrObituaryNotFound
		},
	}, &recordingPhotoStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/obituaries/404", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("404")
	c.Set("user_id", "user-1")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrObituaryNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
