package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr/booking/api/http/presenter"
)

// ProjectHandler exposes the project lifecycle hooks to the project service.
type ProjectHandler struct {
	lifecycle ProjectLifecycle
}

func NewProjectHandler(lifecycle ProjectLifecycle) *ProjectHandler {
	return &ProjectHandler{lifecycle: lifecycle}
}

// @Summary Проект отменён
// @Description Завершает все живые слоты проекта и удаляет черновики.
// @Tags    Проекты
// @Produce json
// @Param   id path string true "ID проекта (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /projects/{id}/cancel [post]
func (h *ProjectHandler) Cancel(c *fiber.Ctx) error {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	ids, err := h.lifecycle.OnProjectCancelled(c.Context(), projectID)
	if err != nil {
		return domainError(c, err)
	}
	completed := make([]string, 0, len(ids))
	for _, id := range ids {
		completed = append(completed, id.String())
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"completed": completed})
}

// @Summary Все слоты проекта приняты
// @Description Подтверждает все принятые слоты. 409, если какой-то слот ещё не занят.
// @Tags    Проекты
// @Produce json
// @Param   id path string true "ID проекта (UUID)"
// @Security BearerAuth
// @Success 200 {array} assignment.Assignment
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /projects/{id}/confirm [post]
func (h *ProjectHandler) Confirm(c *fiber.Ctx) error {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	list, err := h.lifecycle.OnAllSlotsAccepted(c.Context(), projectID)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, nonNilList(list))
}
