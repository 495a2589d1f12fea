// AngelaMos | 2026
// handler.go

package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/leasehub/backend/internal/core"
	"github.com/leasehub/backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Post("/me/roles", h.AddRole)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/tenants/{tenantID}", h.GetTenant)
		r.Get("/landlords/{landlordID}", h.GetLandlord)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(user))
}

// AddRole opens the other role account for the authenticated user. The
// response carries the new role-record ID; tokens pick it up when the user
// next logs in under that role.
func (h *Handler) AddRole(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req AddRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	roleID, err := h.service.AddRole(r.Context(), userID, req.Role)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, RoleResponse{Role: req.Role, RoleID: roleID})
}

func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	tenantID := chi.URLParam(r, "tenantID")
	leaseID := r.URL.Query().Get("lease_id")

	profile, err := h.service.TenantDetails(r.Context(), actor, tenantID, leaseID)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTenantDetailResponse(profile))
}

func (h *Handler) GetLandlord(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	landlordID := chi.URLParam(r, "landlordID")
	propertyID := r.URL.Query().Get("property_id")

	profile, err := h.service.LandlordDetails(
		r.Context(),
		actor,
		landlordID,
		propertyID,
	)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToLandlordDetailResponse(profile))
}

func actorFromContext(r *http.Request) core.Actor {
	ctx := r.Context()
	return core.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetUserRole(ctx),
		RoleID: middleware.GetRoleID(ctx),
	}
}
