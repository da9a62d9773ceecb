package httpapi

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/you/storefront/internal/shop"
	"github.com/you/storefront/internal/store"
)

type api struct {
	Deps
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	if err := a.DB.Ping(r.Context()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// orders

func (a *api) createOrder(w http.ResponseWriter, r *http.Request) {
	var in shop.NewOrder
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := a.Orders.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (a *api) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.Orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (a *api) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "order")
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := a.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// products

// listProducts serves both the category filter and the keyword search:
// GET /api/products?category=shoes&q=red+leather
func (a *api) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := a.Catalog.Products(r.Context(), q.Get("category"), q.Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *api) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.Catalog.Product(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) createProduct(w http.ResponseWriter, r *http.Request) {
	var in store.ProductInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.Catalog.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *api) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in store.ProductInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.Catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.Catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (a *api) suggestions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product")
	var nf *shop.NotFoundError
	if errors.As(err, &nf) {
		// an unknown product has no co-purchases
		writeJSON(w, http.StatusOK, []store.Suggestion{})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := a.Catalog.Suggestions(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *api) associations(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Associations.Top(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// users

type userBody struct {
	Name string `json:"name"`
}

func (a *api) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *api) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *api) createUser(w http.ResponseWriter, r *http.Request) {
	var in userBody
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.Users.Create(r.Context(), in.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (a *api) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in userBody
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.Users.Update(r.Context(), id, in.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *api) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
