package handler

import (
	"net/http"
)

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	report, err := s.reports.Build(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportToResponse(report))
}
