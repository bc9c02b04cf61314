package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/api/http/presenter"
	"github.com/artem13815/hr/booking/pkg/candidate"
)

// CandidateHandler accepts profile syncs from the identity service.
type CandidateHandler struct {
	registry candidate.Registry
}

func NewCandidateHandler(registry candidate.Registry) *CandidateHandler {
	return &CandidateHandler{registry: registry}
}

type candidateResponse struct {
	ID           uuid.UUID  `json:"id"`
	DeclaredRole string     `json:"declaredRole"`
	Seniority    string     `json:"seniority"`
	Languages    []string   `json:"languages"`
	Expertises   []string   `json:"expertises"`
	Availability string     `json:"availability"`
	Kind         string     `json:"kind"`
	BindingID    *uuid.UUID `json:"automationBinding,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toCandidateResponse(c candidate.Candidate) candidateResponse {
	res := candidateResponse{
		ID:           c.ID,
		DeclaredRole: c.DeclaredRole,
		Seniority:    string(c.Seniority),
		Languages:    nonNilStrings(c.Languages),
		Expertises:   nonNilStrings(c.Expertises),
		Availability: string(c.Availability),
		Kind:         string(candidate.KindHuman),
		UpdatedAt:    c.UpdatedAt,
	}
	if p, ok := c.Profile.(candidate.AutomatedProfile); ok {
		res.Kind = string(candidate.KindAutomated)
		binding := p.BindingID
		res.BindingID = &binding
	}
	return res
}

func toCandidateList(list []candidate.Candidate) []candidateResponse {
	res := make([]candidateResponse, 0, len(list))
	for _, c := range list {
		res = append(res, toCandidateResponse(c))
	}
	return res
}

type upsertCandidateRequest struct {
	DeclaredRole string   `json:"declaredRole"`
	Seniority    string   `json:"seniority"`
	Languages    []string `json:"languages"`
	Expertises   []string `json:"expertises"`
	Availability string   `json:"availability"`
	Automated    bool     `json:"automated"`
}

type availabilityRequest struct {
	Availability string `json:"availability"`
}

// @Summary Получить кандидата
// @Tags    Кандидаты
// @Produce json
// @Param   id path string true "ID кандидата (UUID)"
// @Security BearerAuth
// @Success 200 {object} candidateResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [get]
func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	cand, err := h.registry.Get(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toCandidateResponse(cand))
}

// @Summary Синхронизировать профиль кандидата
// @Description Вызывается identity-сервисом. Автоматизированный кандидат привязывается к своему id и всегда доступен.
// @Tags    Кандидаты
// @Accept  json
// @Produce json
// @Param   id path string true "ID кандидата (UUID)"
// @Param   input body upsertCandidateRequest true "Профиль"
// @Security BearerAuth
// @Success 200 {object} candidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [put]
func (h *CandidateHandler) Upsert(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req upsertCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	cand := candidate.Candidate{
		ID:           id,
		DeclaredRole: req.DeclaredRole,
		Seniority:    candidate.Seniority(req.Seniority),
		Languages:    req.Languages,
		Expertises:   req.Expertises,
		Availability: candidate.Availability(req.Availability),
		Profile:      candidate.HumanProfile{},
	}
	if req.Automated {
		cand.Profile = candidate.NewAutomatedProfile(id)
	}
	if cand.Availability == "" {
		cand.Availability = candidate.Available
	}
	out, err := h.registry.Upsert(c.Context(), cand)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toCandidateResponse(out))
}

// @Summary Изменить доступность кандидата
// @Tags    Кандидаты
// @Accept  json
// @Produce json
// @Param   id path string true "ID кандидата (UUID)"
// @Param   input body availabilityRequest true "available | in_qualification | unavailable"
// @Security BearerAuth
// @Success 200 {object} candidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/availability [put]
func (h *CandidateHandler) SetAvailability(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "невалидный UUID")
	}
	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	av, err := candidate.ParseAvailability(req.Availability)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	out, err := h.registry.SetAvailability(c.Context(), id, av)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toCandidateResponse(out))
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
