// AngelaMos | 2026
// handler.go

package lease

import (
	"context"
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
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(middleware.RequireLandlord).
			Post("/properties/{propertyID}/leases", h.CreateLease)

		r.Route("/leases", func(r chi.Router) {
			r.Get("/", h.ListLeases)
			r.Get("/{leaseID}", h.GetLease)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireLandlord)
				r.Put("/{leaseID}", h.EditLease)
				r.Delete("/{leaseID}", h.CancelLease)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireTenant)
				r.Post("/{leaseID}/confirm", h.ConfirmMembership)
				r.Post("/{leaseID}/decline", h.DeclineMembership)
				r.Post("/{leaseID}/break", h.BreakMembership)
			})
		})
	})
}

func (h *Handler) CreateLease(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	propertyID := chi.URLParam(r, "propertyID")

	var req CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	lease, err := h.service.CreateLease(r.Context(), actor, propertyID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	memberships, err := h.service.repo.MembershipsWithTenants(
		r.Context(),
		lease.ID,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToLeaseResponse(lease, memberships))
}

func (h *Handler) EditLease(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	leaseID := chi.URLParam(r, "leaseID")

	var req EditLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	lease, err := h.service.EditLease(r.Context(), actor, leaseID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	memberships, err := h.service.repo.MembershipsWithTenants(
		r.Context(),
		lease.ID,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToLeaseResponse(lease, memberships))
}

func (h *Handler) CancelLease(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	leaseID := chi.URLParam(r, "leaseID")

	if err := h.service.CancelLease(r.Context(), actor, leaseID); err != nil {
		writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ConfirmMembership(w http.ResponseWriter, r *http.Request) {
	h.membershipOp(w, r, h.service.ConfirmMembership)
}

func (h *Handler) DeclineMembership(w http.ResponseWriter, r *http.Request) {
	h.membershipOp(w, r, h.service.DeclineMembership)
}

func (h *Handler) BreakMembership(w http.ResponseWriter, r *http.Request) {
	h.membershipOp(w, r, h.service.BreakMembership)
}

func (h *Handler) membershipOp(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, actor core.Actor, leaseID string) error,
) {
	actor := actorFromContext(r)
	leaseID := chi.URLParam(r, "leaseID")

	if err := op(r.Context(), actor, leaseID); err != nil {
		writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetLease(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	leaseID := chi.URLParam(r, "leaseID")

	lease, memberships, err := h.service.GetLease(r.Context(), actor, leaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.OK(w, ToLeaseResponse(lease, memberships))
}

func (h *Handler) ListLeases(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	leases, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.OK(w, LeaseListResponse{Leases: ToLeaseResponseList(leases)})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrContention):
		core.JSONError(w, core.ContentionError())
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "lease")
	default:
		core.InternalServerError(w, err)
	}
}

func actorFromContext(r *http.Request) core.Actor {
	ctx := r.Context()
	return core.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetUserRole(ctx),
		RoleID: middleware.GetRoleID(ctx),
	}
}
