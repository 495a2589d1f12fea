// AngelaMos | 2026
// handler_test.go

package lease

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/leasehub/backend/internal/core"
	"github.com/leasehub/backend/internal/middleware"
)

// contendedRepo fails every transaction the way a lost lock race surfaces
// from the store: a wrapped contention sentinel.
type contendedRepo struct {
	Repository
}

func (contendedRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	return fmt.Errorf("transaction aborted: %w", core.ErrContention)
}

func authAs(role, roleID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = context.WithValue(ctx, middleware.UserIDKey, "u-"+roleID)
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			ctx = context.WithValue(ctx, middleware.RoleIDKey, roleID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestMembershipOpReportsContentionAsRetryableConflict(t *testing.T) {
	handler := NewHandler(NewService(contendedRepo{newFakeRepo()}))

	router := chi.NewRouter()
	handler.RegisterRoutes(router, authAs(core.RoleTenant, "t-1"))

	for _, op := range []string{"confirm", "decline", "break"} {
		req := httptest.NewRequest(
			http.MethodPost, "/leases/lease-1/"+op, nil,
		)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("%s: expected 409, got %d", op, rec.Code)
		}

		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode response: %v", op, err)
		}
		if body.Success || body.Error.Code != "CONTENTION" {
			t.Fatalf("%s: expected CONTENTION error code, got %+v", op, body)
		}
	}
}
