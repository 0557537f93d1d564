package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

type stubObituaryService struct {
	listFn func(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error)
}

func (s *stubObituaryService) Create(context.Context, ports.CreateObituaryInput) (*domain.Obituary, error) {
	return nil, nil
}

func (s *stubObituaryService) GetByID(context.Context, int64) (*domain.Obituary, error) {
	return nil, nil
}

func (s *stubObituaryService) List(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubObituaryService) Update(context.Context, ports.Requester, ports.UpdateObituaryInput) error {
	return nil
}

func (s *stubObituaryService) Delete(context.Context, ports.Requester, int64) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) Create(context.Context, string) (string, error)  { return "", nil }
func (stubSessions) Resolve(context.Context, string) (string, error) { return "", nil }
func (stubSessions) Delete(context.Context, string) error            { return nil }

type stubUsers struct{}

func (stubUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (stubUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (stubUsers) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func newWebContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Renderer = NewRenderer()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func record(id int64, name, creator string) *domain.Obituary {
	return &domain.Obituary{
		ID:          id,
		FullName:    name,
		DateOfBirth: time.Date(1940, 2, 1, 0, 0, 0, 0, time.UTC),
		DateOfDeath: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		CreatorID:   creator,
		CreatedAt:   time.Now(),
	}
}

// A caller whose only record sits beyond the first page of the global
// listing must still see it on the manage page: the ownership restriction
// belongs to the query, not to post-filtering one global page.
func TestManage_FiltersByCreatorInQuery(t *testing.T) {
	var captured ports.ListObituariesFilter
	svc := &stubObituaryService{
		listFn: func(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error) {
			captured = filter
			// Dozens of stranger-owned records exist; only the creator
			// filter surfaces the caller's record on page 1.
			if filter.CreatorID != "user-1" {
				t.Fatalf("expected creator filter for non-admin, got %q", filter.CreatorID)
			}
			return &ports.ListObituariesResult{
				Items:      []*domain.Obituary{record(21, "Jane Doe", "user-1")},
				Total:      1,
				Page:       1,
				PageSize:   20,
				TotalPages: 1,
			}, nil
		},
	}
	h := NewHandler(svc, nil, stubUsers{}, stubSessions{}, zerolog.Nop())

	c, rec := newWebContext(t, "/web/manage")
	c.Set("user_id", "user-1")
	c.Set("roles", []string{domain.RoleUser})

	if err := h.Manage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if captured.CreatorID != "user-1" {
		t.Fatalf("creator filter not applied: %+v", captured)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Jane Doe") {
		t.Fatalf("expected caller's record in page, got: %s", body)
	}
	if strings.Contains(body, "No records found") {
		t.Fatalf("caller's record missing from manage page")
	}
	// The page count reflects the caller's records, not the global listing.
	if !strings.Contains(body, "Page 1 of 1") {
		t.Fatalf("expected own-record page count, got: %s", body)
	}
}

func TestManage_AdminSeesAllRecords(t *testing.T) {
	svc := &stubObituaryService{
		listFn: func(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error) {
			if filter.CreatorID != "" {
				t.Fatalf("admin listing must not be creator-filtered, got %q", filter.CreatorID)
			}
			return &ports.ListObituariesResult{
				Items:      []*domain.Obituary{record(1, "Someone Else", "user-2")},
				Total:      1,
				Page:       1,
				PageSize:   20,
				TotalPages: 1,
			}, nil
		},
	}
	h := NewHandler(svc, nil, stubUsers{}, stubSessions{}, zerolog.Nop())

	c, rec := newWebContext(t, "/web/manage")
	c.Set("user_id", "admin-1")
	c.Set("roles", []string{domain.RoleAdmin})

	if err := h.Manage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Someone Else") {
		t.Fatalf("expected other users' records for admin")
	}
}

func TestIndex_PublicListingUnfiltered(t *testing.T) {
	svc := &stubObituaryService{
		listFn: func(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error) {
			if filter.CreatorID != "" {
				t.Fatalf("public listing must not be creator-filtered, got %q", filter.CreatorID)
			}
			if filter.Search != "doe" {
				t.Fatalf("expected search passthrough, got %q", filter.Search)
			}
			return &ports.ListObituariesResult{
				Items:      []*domain.Obituary{record(1, "Jane Doe", "user-1")},
				Total:      1,
				Page:       1,
				PageSize:   20,
				TotalPages: 1,
			}, nil
		},
	}
	h := NewHandler(svc, nil, stubUsers{}, stubSessions{}, zerolog.Nop())

	c, rec := newWebContext(t, "/web?search=doe")

	if err := h.Index(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Jane Doe") {
		t.Fatalf("expected record in listing")
	}
}
