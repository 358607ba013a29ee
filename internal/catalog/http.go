package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type Server struct {
	Catalog *Catalog
	Log     *zap.Logger
}

// ProductJSON is the wire form of a product, shared by the cart and order
// endpoints that embed products.
type ProductJSON struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	ShortDescription string      `json:"shortDescription"`
	LongDescription  string      `json:"longDescription"`
	Price            json.Number `json:"price"`
	ImageURL         string      `json:"imageUrl,omitempty"`
	Rating           float64     `json:"rating"`
}

func ToJSON(p Product) ProductJSON {
	return ProductJSON{
		ID:               p.ID,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		LongDescription:  p.LongDescription,
		Price:            kit.Money(p.Price),
		ImageURL:         p.ImageURL,
		Rating:           p.Rating,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Get("/{id}", s.get)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products := s.Catalog.List()

	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		out = append(out, ToJSON(p))
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Catalog.Get(id)
	if !ok {
		if s.Log != nil {
			s.Log.Debug("product lookup miss", zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, ToJSON(p))
}
