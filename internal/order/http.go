package order

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

type Server struct {
	Orders *Service
	Log    *zap.Logger
}

type JSON struct {
	ID       string          `json:"id"`
	Items    []cart.ItemJSON `json:"items"`
	Count    int             `json:"count"`
	Total    json.Number     `json:"total"`
	PlacedAt time.Time       `json:"placedAt"`
}

func ToJSON(o Order) JSON {
	out := JSON{
		ID:       o.ID,
		Items:    make([]cart.ItemJSON, 0, len(o.Items)),
		Count:    o.Count,
		Total:    kit.Money(o.Total),
		PlacedAt: o.PlacedAt,
	}
	for _, l := range o.Items {
		out.Items = append(out.Items, cart.LineToJSON(l))
	}
	return out
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", s.checkout)
	r.Get("/{id}", s.get)

	return r
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	o, err := s.Orders.Checkout(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		cart.WriteError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, ToJSON(o))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, found, err := s.Orders.Get(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get order failed", zap.Error(err), zap.String("order_id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, ToJSON(o))
}
