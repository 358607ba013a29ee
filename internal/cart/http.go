package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

type Server struct {
	Carts Registry
	Log   *zap.Logger
}

type ItemJSON struct {
	ID        string              `json:"id"`
	ProductID string              `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Product   catalog.ProductJSON `json:"product"`
}

type CartJSON struct {
	Items []ItemJSON  `json:"items"`
	Count int         `json:"count"`
	Total json.Number `json:"total"`
}

type addReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func LineToJSON(l Line) ItemJSON {
	return ItemJSON{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		Product:   catalog.ToJSON(l.Product),
	}
}

func ToJSON(c Cart) CartJSON {
	out := CartJSON{
		Items: make([]ItemJSON, 0, len(c.Items)),
		Count: c.Count,
		Total: kit.Money(c.Total),
	}
	for _, l := range c.Items {
		out.Items = append(out.Items, LineToJSON(l))
	}
	return out
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.get)
	r.Get("/count", s.count)
	r.Post("/items", s.add)
	r.Delete("/items/{id}", s.remove)
	r.Delete("/", s.clear)

	return r
}

func (s *Server) store(r *http.Request) Handle {
	return For(s.Carts, session.FromContext(r.Context()))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	c, err := s.store(r).Snapshot()
	if err != nil {
		WriteError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, ToJSON(c))
}

func (s *Server) count(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]int{"count": s.store(r).Count()})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	line, err := s.store(r).Add(req.ProductID, req.Quantity)
	if err != nil {
		WriteError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, LineToJSON(line))
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	ok := s.store(r).Remove(chi.URLParam(r, "id"))
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	ok := s.store(r).Clear()
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}

// WriteError maps a Store error onto the HTTP error response.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var (
		pnf *ProductNotFoundError
		iq  *InvalidQuantityError
	)
	switch {
	case errors.As(err, &pnf):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"productId": pnf.ProductID})
	case errors.As(err, &iq):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid quantity", map[string]any{"quantity": iq.Quantity, "min": 1})
	case errors.Is(err, ErrEmptyCart):
		kit.WriteError(w, r, http.StatusBadRequest, "cart is empty", nil)
	case errors.Is(err, ErrInvalidArgument):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	default:
		if log != nil {
			log.Error("cart operation failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
