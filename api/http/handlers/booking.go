package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/api/http/presenter"
)

type BookingHandler struct {
	booker Booker
}

func NewBookingHandler(booker Booker) *BookingHandler { return &BookingHandler{booker: booker} }

type candidateActionRequest struct {
	CandidateID     string `json:"candidateId"`
	ExpectedVersion *int64 `json:"expectedVersion"`
}

type candidateAction struct {
	id          uuid.UUID
	candidateID uuid.UUID
	version     int64
}

// parseAction returns a non-zero status when the request must be rejected.
func parseAction(c *fiber.Ctx) (candidateAction, int, string) {
	var act candidateAction
	id, ok := paramUUID(c, "id")
	if !ok {
		return act, http.StatusBadRequest, "невалидный UUID"
	}
	var req candidateActionRequest
	if err := c.BodyParser(&req); err != nil {
		return act, http.StatusBadRequest, "невалидный JSON"
	}
	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return act, http.StatusBadRequest, "невалидный candidateId"
	}
	if req.ExpectedVersion == nil {
		return act, http.StatusBadRequest, "expectedVersion обязателен"
	}
	if status, msg := actorDenied(c, candidateID); status != 0 {
		return act, status, msg
	}
	return candidateAction{id: id, candidateID: candidateID, version: *req.ExpectedVersion}, 0, ""
}

// @Summary Принять слот
// @Description Кандидат занимает слот в статусе searching. Побеждает первый успешный CAS.
// @Tags    Бронирование
// @Accept  json
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Param   input body candidateActionRequest true "Кандидат и ожидаемая версия"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse "no_longer_available или invalid_transition"
// @Failure 422 {object} presenter.ErrorResponse "not_eligible"
// @Router  /assignments/{id}/accept [post]
func (h *BookingHandler) Accept(c *fiber.Ctx) error {
	act, status, msg := parseAction(c)
	if status != 0 {
		return presenter.Error(c, status, msg)
	}
	a, err := h.booker.TryAccept(c.Context(), act.id, act.candidateID, act.version)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// @Summary Отказаться от слота
// @Description Держатель слота отказывается; слот снова в поиске.
// @Tags    Бронирование
// @Accept  json
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Param   input body candidateActionRequest true "Кандидат и ожидаемая версия"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /assignments/{id}/decline [post]
func (h *BookingHandler) Decline(c *fiber.Ctx) error {
	act, status, msg := parseAction(c)
	if status != 0 {
		return presenter.Error(c, status, msg)
	}
	a, err := h.booker.Decline(c.Context(), act.id, act.candidateID, act.version)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// @Summary Подтвердить слот
// @Tags    Бронирование
// @Accept  json
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Param   input body versionRequest true "Ожидаемая версия"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /assignments/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req versionRequest
	if err := c.BodyParser(&req); err != nil || req.ExpectedVersion == nil {
		return presenter.Error(c, http.StatusBadRequest, "expectedVersion обязателен")
	}
	a, err := h.booker.Confirm(c.Context(), id, *req.ExpectedVersion)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, a)
}
