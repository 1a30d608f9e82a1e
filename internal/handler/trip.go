package handler

import (
	"net/http"

	"github.com/tripledger/api/internal/domain"
)

func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var body TripRequest
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	trip, err := requestToTrip(&body)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := s.trips.Create(r.Context(), userID, trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
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
	trip, err := s.trips.GetByID(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	params := pagination(r)
	trips, total, err := s.trips.List(r.Context(), userID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := TripListResponse{
		Data:       make([]TripResponse, 0, len(trips)),
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	}
	for _, t := range trips {
		resp.Data = append(resp.Data, tripToResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
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
	var body TripRequest
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	trip, err := requestToTrip(&body)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	trip.ID = tripID
	updated, err := s.trips.Update(r.Context(), userID, trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

func (s *Server) closeTrip(w http.ResponseWriter, r *http.Request) {
	s.setTripClosed(w, r, true)
}

func (s *Server) reopenTrip(w http.ResponseWriter, r *http.Request) {
	s.setTripClosed(w, r, false)
}

func (s *Server) setTripClosed(w http.ResponseWriter, r *http.Request, closed bool) {
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
	var trip domain.Trip
	if closed {
		trip, err = s.trips.Close(r.Context(), userID, tripID)
	} else {
		trip, err = s.trips.Reopen(r.Context(), userID, tripID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
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
	if err := s.trips.Delete(r.Context(), userID, tripID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
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
	var body MemberRequest
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	member, err := s.trips.AddMember(r.Context(), userID, tripID, body.UserID, domain.Role(body.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberToResponse(member))
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
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
	memberID, err := pathUUID(r, "userID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.trips.RemoveMember(r.Context(), userID, tripID, memberID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
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
	members, err := s.trips.ListMembers(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberToResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}
