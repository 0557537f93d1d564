package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

// AssistantHandler proxies death-summary lookups to the inference backend.
type AssistantHandler struct {
	provider ports.DeathSummaryProvider
}

func NewAssistantHandler(provider ports.DeathSummaryProvider) *AssistantHandler {
	return &AssistantHandler{provider: provider}
}

type famousDeathRequest struct {
	PersonName string `json:"person_name" validate:"required"`
}

type famousDeathResponse struct {
	Response string `json:"response"`
}

// FamousDeath handles POST /api/assistant/famous-death.
//
// @Summary      Look up how a famous person died
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        body  body      famousDeathRequest  true  "Person to look up"
// @Success      200   {object}  famousDeathResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/assistant/famous-death [post]
func (h *AssistantHandler) FamousDeath(c echo.Context) error {
	var req famousDeathRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	answer, err := h.provider.FamousDeath(c.Request().Context(), req.PersonName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, famousDeathResponse{Response: answer})
}
