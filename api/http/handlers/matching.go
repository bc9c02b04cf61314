package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr/booking/api/http/presenter"
	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
)

// Matcher answers offer queries. Results may be stale; accept re-checks.
type Matcher interface {
	FindEligibleAssignments(ctx context.Context, c candidate.Candidate) ([]assignment.Assignment, error)
	FindEligibleCandidates(ctx context.Context, a assignment.Assignment) ([]candidate.Candidate, error)
}

type MatchingHandler struct {
	matcher     Matcher
	assignments assignment.UseCase
	candidates  candidate.Directory
}

func NewMatchingHandler(matcher Matcher, assignments assignment.UseCase, candidates candidate.Directory) *MatchingHandler {
	return &MatchingHandler{matcher: matcher, assignments: assignments, candidates: candidates}
}

// @Summary Подходящие кандидаты для слота
// @Tags    Подбор
// @Produce json
// @Param   id path string true "ID слота (UUID)"
// @Security BearerAuth
// @Success 200 {array} candidateResponse
// @Failure 400 {object} presenter.ErrorResponse "invalid_criteria"
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /assignments/{id}/eligible-candidates [get]
func (h *MatchingHandler) EligibleCandidates(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	a, err := h.assignments.Get(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	list, err := h.matcher.FindEligibleCandidates(c.Context(), a)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toCandidateList(list))
}

// @Summary Подходящие слоты для кандидата
// @Tags    Подбор
// @Produce json
// @Param   id path string true "ID кандидата (UUID)"
// @Param   limit query int false "Лимит (по умолчанию 50)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {array} assignment.Assignment
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/eligible-assignments [get]
func (h *MatchingHandler) EligibleAssignments(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	cand, err := h.candidates.Get(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	list, err := h.matcher.FindEligibleAssignments(c.Context(), cand)
	if err != nil {
		return domainError(c, err)
	}
	limit, offset := parseLimitOffset(c, 50)
	return presenter.JSON(c, http.StatusOK, page(list, limit, offset))
}
