// Package web serves the server-rendered UI. It authenticates with a cookie
// session backed by Redis rather than bearer tokens, sharing the identity
// store with the API.
package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/obituaryapp/obituary-api/internal/api/middleware"
	"github.com/obituaryapp/obituary-api/internal/core/domain"
	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

// Sessions is the session lifecycle the web handlers need.
type Sessions interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type Handler struct {
	obituaries ports.ObituaryService
	auth       ports.AuthService
	users      ports.AuthRepository
	sessions   Sessions
	logger     zerolog.Logger
}

func NewHandler(obituaries ports.ObituaryService, auth ports.AuthService, users ports.AuthRepository, sessions Sessions, logger zerolog.Logger) *Handler {
	return &Handler{obituaries: obituaries, auth: auth, users: users, sessions: sessions, logger: logger}
}

// Register mounts the web routes. The manage page sits behind the session
// middleware and the role guard; the listing and login pages are public.
func (h *Handler) Register(e *echo.Echo, session echo.MiddlewareFunc) {
	g := e.Group("/web")
	g.GET("", h.Index)
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)

	manage := g.Group("/manage", session, middleware.RequireRole(domain.RoleUser, domain.RoleAdmin))
	manage.GET("", h.Manage)
}

type listPage struct {
	Title      string
	Items      []*domain.Obituary
	Search     string
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
	UserName   string
}

// Index renders the public listing with search and pagination.
func (h *Handler) Index(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	search := c.QueryParam("search")

	res, err := h.obituaries.List(c.Request().Context(), ports.ListObituariesFilter{
		Search: search,
		Page:   page,
	})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "obituaries", listPage{
		Title:      "Obituaries",
		Items:      res.Items,
		Search:     search,
		Page:       res.Page,
		PrevPage:   res.Page - 1,
		NextPage:   res.Page + 1,
		TotalPages: res.TotalPages,
		UserName:   h.currentUserName(c),
	})
}

// Manage renders the caller's own records; admins see everything. The
// ownership restriction is part of the query, so pagination and the page
// count reflect the caller's records, not the global listing.
func (h *Handler) Manage(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	userID, _ := c.Get("user_id").(string)
	roles, _ := c.Get("roles").([]string)
	isAdmin := false
	for _, r := range roles {
		if r == domain.RoleAdmin {
			isAdmin = true
		}
	}

	filter := ports.ListObituariesFilter{Page: page}
	if !isAdmin {
		filter.CreatorID = userID
	}

	res, err := h.obituaries.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "obituaries", listPage{
		Title:      "Manage obituaries",
		Items:      res.Items,
		Page:       res.Page,
		PrevPage:   res.Page - 1,
		NextPage:   res.Page + 1,
		TotalPages: res.TotalPages,
		UserName:   h.currentUserName(c),
	})
}

type loginPage struct {
	Error string
}

func (h *Handler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", loginPage{})
}

// Login verifies the password against the shared identity store and sets the
// session cookie on success.
func (h *Handler) Login(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	user, err := h.auth.VerifyPassword(c.Request().Context(), email, password)
	if err != nil {
		return c.Render(http.StatusUnauthorized, "login", loginPage{Error: "Invalid email or password."})
	}

	token, err := h.sessions.Create(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create session")
		return c.Render(http.StatusInternalServerError, "login", loginPage{Error: "Something went wrong."})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/web")
}

// Logout deletes the server-side session and clears the cookie.
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("failed to delete session")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusSeeOther, "/web")
}

func (h *Handler) currentUserName(c echo.Context) string {
	// Public pages run without the session middleware; resolve the cookie
	// opportunistically so the header reflects a signed-in user.
	cookie, err := c.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	userID, err := h.sessions.Resolve(c.Request().Context(), cookie.Value)
	if err != nil {
		return ""
	}
	user, err := h.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		return ""
	}
	return user.Email
}
