package handler

import (
	"net/http"

	"github.com/tripledger/api/internal/domain"
)

// AdminStatsResponse is the admin dashboard payload.
type AdminStatsResponse struct {
	Trips       int64 `json:"trips"`
	OpenTrips   int64 `json:"open_trips"`
	Expenses    int64 `json:"expenses"`
	Unconverted int64 `json:"unconverted"`
	Members     int64 `json:"members"`
	CachedBases int64 `json:"cached_bases"`
}

func (s *Server) getAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

func statsToResponse(st domain.AdminStats) AdminStatsResponse {
	return AdminStatsResponse{
		Trips:       st.Trips,
		OpenTrips:   st.OpenTrips,
		Expenses:    st.Expenses,
		Unconverted: st.Unconverted,
		Members:     st.Members,
		CachedBases: st.CachedBases,
	}
}
