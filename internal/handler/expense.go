package handler

import (
	"net/http"
)

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
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
	var body ExpenseRequest
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	expense, err := requestToExpense(tripID, &body)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := s.expenses.Create(r.Context(), userID, expense, body.ManualRate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseToResponse(created))
}

func (s *Server) getExpense(w http.ResponseWriter, r *http.Request) {
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
	expenseID, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	expense, err := s.expenses.GetByID(r.Context(), userID, tripID, expenseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(expense))
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
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
	params := pagination(r)
	expenses, total, err := s.expenses.List(r.Context(), userID, tripID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := ExpenseListResponse{
		Data:       make([]ExpenseResponse, 0, len(expenses)),
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	}
	for _, e := range expenses {
		resp.Data = append(resp.Data, expenseToResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
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
	expenseID, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var body ExpenseRequest
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	expense, err := requestToExpense(tripID, &body)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	expense.ID = expenseID
	updated, err := s.expenses.Update(r.Context(), userID, expense, body.ManualRate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(updated))
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
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
	expenseID, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.expenses.Delete(r.Context(), userID, tripID, expenseID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
