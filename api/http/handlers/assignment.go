package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/api/http/presenter"
	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
)

// Booker is the booking state machine as seen by HTTP handlers.
type Booker interface {
	Publish(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
	TryAccept(ctx context.Context, id, candidateID uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
	Decline(ctx context.Context, id, candidateID uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
	Confirm(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
	Complete(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
}

// ProjectLifecycle reacts to project-level events.
type ProjectLifecycle interface {
	OnAssignmentPublished(ctx context.Context, id uuid.UUID) (assignment.Assignment, error)
	OnProjectCancelled(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
	OnAllSlotsAccepted(ctx context.Context, projectID uuid.UUID) ([]assignment.Assignment, error)
}

// Reprocessor re-runs the automated-candidate policy for one assignment.
type Reprocessor interface {
	Reprocess(ctx context.Context, id uuid.UUID) error
}

type AssignmentHandler struct {
	uc        assignment.UseCase
	booker    Booker
	lifecycle ProjectLifecycle
	policy    Reprocessor
}

func NewAssignmentHandler(uc assignment.UseCase, booker Booker, lifecycle ProjectLifecycle, policy Reprocessor) *AssignmentHandler {
	return &AssignmentHandler{uc: uc, booker: booker, lifecycle: lifecycle, policy: policy}
}

type criteriaRequest struct {
	RequiredRole       string   `json:"requiredRole"`
	RequiredSeniority  string   `json:"requiredSeniority"`
	RequiredLanguages  []string `json:"requiredLanguages"`
	RequiredExpertises []string `json:"requiredExpertises"`
}

func (r criteriaRequest) toCriteria() assignment.Criteria {
	return assignment.Criteria{
		Role:       r.RequiredRole,
		Seniority:  candidate.Seniority(r.RequiredSeniority),
		Languages:  r.RequiredLanguages,
		Expertises: r.RequiredExpertises,
	}
}

type createAssignmentRequest struct {
	ProjectID string `json:"projectId"`
	criteriaRequest
}

type updateCriteriaRequest struct {
	ExpectedVersion *int64 `json:"expectedVersion"`
	criteriaRequest
}

type versionRequest struct {
	ExpectedVersion *int64 `json:"expectedVersion"`
}

// @Summary Создать слот
// @Description Создаёт слот роли в проекте в статусе draft.
// @Tags        Слоты
// @Accept      json
// @Produce     json
// @Param       input body createAssignmentRequest true "Проект и требования"
// @Security    BearerAuth
// @Success     201 {object} assignment.Assignment
// @Failure     400 {object} presenter.ErrorResponse
// @Router      /assignments [post]
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	var req createAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный projectId")
	}
	a, err := h.uc.Create(c.Context(), projectID, req.toCriteria())
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, a)
}

// @Summary Получить слот
// @Tags    Слоты
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	a, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// @Summary Слоты в поиске
// @Tags    Слоты
// @Produce json
// @Param   limit query int false "Лимит (по умолчанию 50)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {array} assignment.Assignment
// @Router  /assignments [get]
func (h *AssignmentHandler) ListSearching(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	list, err := h.uc.ListSearching(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "не удалось получить список")
	}
	return presenter.JSON(c, http.StatusOK, nonNilList(list))
}

// @Summary Слоты проекта
// @Tags    Слоты
// @Produce json
// @Param   id path string true "ID проекта (UUID)"
// @Security BearerAuth
// @Success 200 {array} assignment.Assignment
// @Router  /projects/{id}/assignments [get]
func (h *AssignmentHandler) ListByProject(c *fiber.Ctx) error {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	list, err := h.uc.ListByProject(c.Context(), projectID)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "не удалось получить список")
	}
	return presenter.JSON(c, http.StatusOK, nonNilList(list))
}

// @Summary Обновить требования слота
// @Description Разрешено в draft и searching; версия увеличивается. Для searching сразу применяется политика автоматических кандидатов.
// @Tags    Слоты
// @Accept  json
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Param   input body updateCriteriaRequest true "Ожидаемая версия и новые требования"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /assignments/{id}/criteria [put]
func (h *AssignmentHandler) UpdateCriteria(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req updateCriteriaRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	if req.ExpectedVersion == nil {
		return presenter.Error(c, http.StatusBadRequest, "expectedVersion обязателен")
	}
	a, err := h.uc.UpdateCriteria(c.Context(), id, *req.ExpectedVersion, req.toCriteria())
	if err != nil {
		return domainError(c, err)
	}
	// новые требования могут подойти автоматическому кандидату
	if a.Status == assignment.StatusSearching {
		if err := h.policy.Reprocess(c.Context(), id); err == nil {
			if latest, err := h.uc.Get(c.Context(), id); err == nil {
				a = latest
			}
		}
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// @Summary Опубликовать слот
// @Description Переводит draft в searching. Без expectedVersion публикуется текущая версия.
// @Tags    Слоты
// @Accept  json
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Param   input body versionRequest false "Ожидаемая версия"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /assignments/{id}/publish [post]
func (h *AssignmentHandler) Publish(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req versionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
		}
	}
	var (
		a   assignment.Assignment
		err error
	)
	if req.ExpectedVersion == nil {
		a, err = h.lifecycle.OnAssignmentPublished(c.Context(), id)
	} else {
		a, err = h.booker.Publish(c.Context(), id, *req.ExpectedVersion)
	}
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// @Summary Завершить слот
// @Tags    Слоты
// @Accept  json
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Param   input body versionRequest true "Ожидаемая версия"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /assignments/{id}/complete [post]
func (h *AssignmentHandler) Complete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req versionRequest
	if err := c.BodyParser(&req); err != nil || req.ExpectedVersion == nil {
		return presenter.Error(c, http.StatusBadRequest, "expectedVersion обязателен")
	}
	a, err := h.booker.Complete(c.Context(), id, *req.ExpectedVersion)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// @Summary Удалить черновик слота
// @Tags    Слоты
// @Param   id path string true "ID слота (UUID)"
// @Param   expectedVersion query int true "Ожидаемая версия"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /assignments/{id} [delete]
func (h *AssignmentHandler) Discard(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	version, err := strconv.ParseInt(c.Query("expectedVersion"), 10, 64)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "expectedVersion обязателен")
	}
	if err := h.uc.DiscardDraft(c.Context(), id, version); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// @Summary Повторно применить политику автоматических кандидатов
// @Description Для слота в searching повторяет попытку автоматического бронирования. Идемпотентно.
// @Tags    Слоты
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Security BearerAuth
// @Success 200 {object} assignment.Assignment
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /assignments/{id}/reprocess [post]
func (h *AssignmentHandler) Reprocess(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	if err := h.policy.Reprocess(c.Context(), id); err != nil {
		return domainError(c, err)
	}
	a, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, a)
}

func nonNilList(list []assignment.Assignment) []assignment.Assignment {
	if list == nil {
		return []assignment.Assignment{}
	}
	return list
}
