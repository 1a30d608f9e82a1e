package handler

import (
	"errors"
	"io"
	"net/http"
)

// maxReceiptBytes caps a receipt upload. Phone photos land well under this.
const maxReceiptBytes = 10 << 20

// scanReceipt answers POST /trips/{tripID}/expenses/scan. The image is sent
// as a multipart form field named "image". The extracted draft is returned
// to the client for review — nothing is persisted here.
func (s *Server) scanReceipt(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		writeJSON(w, http.StatusServiceUnavailable, errBody("scanning_unavailable", "receipt scanning is not configured"))
		return
	}
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

	// Membership check via the trip lookup; viewers may scan too, since
	// nothing is written.
	if _, err := s.trips.GetByID(r.Context(), userID, tripID); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errBody("payload_too_large", "receipt image exceeds the size limit"))
			return
		}
		writeBadRequest(w, "multipart field \"image\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeBadRequest(w, "failed to read uploaded image")
		return
	}

	receipt, err := s.scanner.ScanReceipt(r.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
