package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/boundary-api/internal/metrics"
	"github.com/sells-group/boundary-api/internal/region"
)

// Handler serves the boundary endpoints.
type Handler struct {
	repo    region.Repository
	search  region.Searcher
	shape   Shaper
	metrics *metrics.Metrics
}

// NewHandler creates a Handler. m may be nil.
func NewHandler(repo region.Repository, search region.Searcher, m *metrics.Metrics) *Handler {
	return &Handler{
		repo:    repo,
		search:  search,
		shape:   NewShaper(m),
		metrics: m,
	}
}

// Health handles GET /health. It does not touch the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// ListAimags handles GET /api/aimags.
func (h *Handler) ListAimags(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.repo.ListProvinces(r.Context())
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.shape.Aimags(provinces))
}

// ListAimagSums handles GET /api/aimags/{aimagId}/sums.
func (h *Handler) ListAimagSums(w http.ResponseWriter, r *http.Request) {
	aimagID, ok := pathID(w, r, "aimagId")
	if !ok {
		return
	}
	districts, err := h.repo.ListDistricts(r.Context(), aimagID)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.shape.AimagSums(districts))
}

// ListAimagSumCenters handles GET /api/aimags/{aimagId}/sums/centers.
func (h *Handler) ListAimagSumCenters(w http.ResponseWriter, r *http.Request) {
	aimagID, ok := pathID(w, r, "aimagId")
	if !ok {
		return
	}
	centers, err := h.repo.ListDistrictCenters(r.Context(), aimagID)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.shape.SumCenters(centers))
}

// ListSums handles GET /api/sums.
func (h *Handler) ListSums(w http.ResponseWriter, r *http.Request) {
	districts, err := h.repo.ListAllDistricts(r.Context())
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.shape.Sums(districts))
}

// GetSum handles GET /api/sums/{sumId}.
func (h *Handler) GetSum(w http.ResponseWriter, r *http.Request) {
	sumID, ok := pathID(w, r, "sumId")
	if !ok {
		return
	}
	district, err := h.repo.GetDistrict(r.Context(), sumID)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.shape.Sum(*district))
}

// Search handles GET /api/search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SearchResults.Observe(float64(len(results)))
	}
	writeJSON(w, r, http.StatusOK, h.shape.Search(results))
}

// pathID parses a numeric path parameter, answering 400 when it is not an
// int64.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
