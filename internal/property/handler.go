// AngelaMos | 2026
// handler.go

package property

import (
	"encoding/json"
	"net/http"
	"strconv"

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
	r.Route("/properties", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLandlord)
			r.Post("/", h.CreateProperty)
			r.Get("/", h.ListProperties)
			r.Put("/{propertyID}", h.UpdateProperty)
			r.Delete("/{propertyID}", h.DeleteProperty)
		})

		r.Get("/{propertyID}", h.GetProperty)
	})
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	property, err := h.service.CreateProperty(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.Created(w, ToPropertyResponse(property))
}

func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	page, perPage := parsePagination(r)

	properties, total, err := h.service.ListMine(r.Context(), actor, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.Paginated(w, ToPropertyResponseList(properties), page, perPage, total)
}

func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	propertyID := chi.URLParam(r, "propertyID")

	property, err := h.service.GetProperty(r.Context(), actor, propertyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.OK(w, ToPropertyResponse(property))
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	propertyID := chi.URLParam(r, "propertyID")

	var req UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	property, err := h.service.UpdateProperty(r.Context(), actor, propertyID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.OK(w, ToPropertyResponse(property))
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	propertyID := chi.URLParam(r, "propertyID")

	if err := h.service.DeleteProperty(r.Context(), actor, propertyID); err != nil {
		writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = 20

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > 100 {
		perPage = 100
	}

	return page, perPage
}

func writeServiceError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}
	core.InternalServerError(w, err)
}

func actorFromContext(r *http.Request) core.Actor {
	ctx := r.Context()
	return core.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetUserRole(ctx),
		RoleID: middleware.GetRoleID(ctx),
	}
}
