// internal/gateway/cart.go
//
// Cart and account handlers.
//
// Context
// -------
// Each request builds a fresh cart store bound to its guest session id,
// restoring any persisted customer identity.  The quantity floor is
// enforced here, before any backend call: an update below one unit is a
// client error, not a removal, so the backend never sees it.  Removals
// go through the dedicated remove route.
//
// Notes
// -----
// • Clear answers 204; the post-clear cart state is empty by definition.
// • Oxford commas, two spaces after periods.

package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/craftflow/storefront/internal/api"
	"github.com/craftflow/storefront/internal/cart"
)

//
// Cart
//

func (g *Gateway) handleCart(w http.ResponseWriter, r *http.Request) {
	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if err := st.FetchCart(r.Context()); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Cart())
}

type cartAddRequest struct {
	ProductID uint64 `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

func (g *Gateway) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		writeError(w, http.StatusUnprocessableEntity, "Quantity must be at least 1")
		return
	}

	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if err := st.AddToCart(r.Context(), req.ProductID, qty); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Cart())
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

func (g *Gateway) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	var req cartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusUnprocessableEntity, "Quantity must be at least 1")
		return
	}

	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if err := st.UpdateCartItem(r.Context(), itemID, req.Quantity); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Cart())
}

func (g *Gateway) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if err := st.RemoveFromCart(r.Context(), itemID); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Cart())
}

func (g *Gateway) handleCartClear(w http.ResponseWriter, r *http.Request) {
	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if err := st.ClearCart(r.Context()); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// Account
//

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	g.authenticate(w, r, st, func() (*api.AuthResponse, error) {
		return st.Client().Login(r.Context(), req.Email, req.Password)
	})
}

func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	g.authenticate(w, r, st, func() (*api.AuthResponse, error) {
		return st.Client().Register(r.Context(), req)
	})
}

// authenticate runs a credential exchange and persists the identity on
// success.
func (g *Gateway) authenticate(w http.ResponseWriter, r *http.Request, st *cart.Store, fn func() (*api.AuthResponse, error)) {
	resp, err := fn()
	if err != nil {
		writeBackendError(w, err)
		return
	}
	if err := st.SetCustomer(r.Context(), resp.Customer, resp.Token); err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) handleLogout(w http.ResponseWriter, r *http.Request) {
	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if err := st.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleMe(w http.ResponseWriter, r *http.Request) {
	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if !st.IsAuthenticated() {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cust, err := st.Client().Me(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cust)
}

func (g *Gateway) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	st, err := g.cartStore(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	if !st.IsAuthenticated() {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var cust api.Customer
	if err := json.NewDecoder(r.Body).Decode(&cust); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := st.Client().UpdateMe(r.Context(), cust)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
