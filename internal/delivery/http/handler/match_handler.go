package handler

import (
	"errors"
	"strings"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/match"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	discovery usecase.DiscoveryUsecase
	matches   usecase.MatchUsecase
}

func NewMatchHandler(discovery usecase.DiscoveryUsecase, matches usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{discovery: discovery, matches: matches}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/matches")
	grp.Get("/find", h.Find)
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Patch("/:id", h.UpdateStatus)
}

func (h *MatchHandler) Find(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid page", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", usecase.DefaultPageLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	minScore, err := parseQueryIntStrict(c, "min_score", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_score", nil, err)
	}

	res, err := h.discovery.FindMatches(c.Context(), userID, usecase.DiscoveryParams{
		Page:     page,
		Limit:    limit,
		MinScore: minScore,
		Skill:    c.Query("skill"),
	})
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Page(c, dto.NewCandidateListResponse(res.Items), res.Page, res.Limit, res.Total)
}

func (h *MatchHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.CreateMatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	targetID, err := uuid.Parse(strings.TrimSpace(req.TargetUserID))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid target_user_id", nil, err)
	}

	m, err := h.matches.Create(c.Context(), userID, usecase.CreateMatchInput{
		TargetUserID: targetID,
		SkillOffered: req.SkillOffered,
		SkillWanted:  req.SkillWanted,
	})
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewMatchResponse(m))
}

func (h *MatchHandler) UpdateStatus(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	matchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid match id", nil, err)
	}

	var req dto.UpdateMatchStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.matches.Respond(c.Context(), userID, matchID, match.Status(req.Status))
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(m))
}

func (h *MatchHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid page", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", usecase.DefaultPageLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	res, err := h.matches.List(c.Context(), userID, usecase.MatchListParams{
		Status: match.Status(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Page(c, dto.NewMatchListResponse(res.Items), res.Page, res.Limit, res.Total)
}

func mapMatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrSelfMatch):
		return middleware.NewAppError(fiber.StatusBadRequest, "Cannot match with yourself", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrNotRecipient):
		return middleware.NewAppError(fiber.StatusForbidden, "Only the recipient can answer this match", nil, err)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, usecase.ErrTargetNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Target user not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
	case errors.Is(err, usecase.ErrMatchExists):
		return middleware.NewAppError(fiber.StatusConflict, "Match already exists", nil, err)
	case errors.Is(err, usecase.ErrMatchInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Match request in progress", nil, err)
	case errors.Is(err, usecase.ErrMatchNotPending):
		return middleware.NewAppError(fiber.StatusConflict, "Match is no longer pending", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
