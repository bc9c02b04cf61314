package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/api/http/presenter"
	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/security/jwt"
)

const (
	CodeNoLongerAvailable = "no_longer_available"
	CodeInvalidTransition = "invalid_transition"
	CodeNotEligible       = "not_eligible"
	CodeInvalidCriteria   = "invalid_criteria"
	CodeInvalidProfile    = "invalid_profile"
	CodeNotFound          = "not_found"
)

// domainError maps engine errors onto HTTP. Losing a race and not qualifying
// must stay distinguishable for the caller.
func domainError(c *fiber.Ctx, err error) error {
	var verr assignment.ErrValidation
	switch {
	case errors.Is(err, assignment.ErrStaleVersion):
		return presenter.ErrorCode(c, http.StatusConflict, CodeNoLongerAvailable, "слот уже изменён, перечитайте и повторите")
	case errors.Is(err, assignment.ErrInvalidTransition):
		return presenter.ErrorCode(c, http.StatusConflict, CodeInvalidTransition, err.Error())
	case errors.Is(err, assignment.ErrNotEligible):
		return presenter.ErrorCode(c, http.StatusUnprocessableEntity, CodeNotEligible, "кандидат не подходит под требования слота")
	case errors.Is(err, assignment.ErrInvalidCriteria):
		return presenter.ErrorCode(c, http.StatusBadRequest, CodeInvalidCriteria, err.Error())
	case errors.Is(err, candidate.ErrInvalidProfile):
		return presenter.ErrorCode(c, http.StatusBadRequest, CodeInvalidProfile, err.Error())
	case errors.Is(err, assignment.ErrNotFound):
		return presenter.ErrorCode(c, http.StatusNotFound, CodeNotFound, "слот не найден")
	case errors.Is(err, candidate.ErrNotFound):
		return presenter.ErrorCode(c, http.StatusNotFound, CodeNotFound, "кандидат не найден")
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "внутренняя ошибка")
	}
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// actorDenied checks that the caller may act for candidateID: either the token
// subject is that candidate or the token is an admin (collaborator) token.
// It returns 0 when the call may proceed.
func actorDenied(c *fiber.Ctx, candidateID uuid.UUID) (int, string) {
	if jwt.IsAdmin(c) {
		return 0, ""
	}
	uid, ok := jwt.UserID(c)
	if !ok {
		return http.StatusUnauthorized, "не удалось определить пользователя"
	}
	if uid != candidateID {
		return http.StatusForbidden, "можно действовать только от своего имени"
	}
	return 0, ""
}
