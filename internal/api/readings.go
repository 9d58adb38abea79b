package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openfell/telemetry-core/internal/device"
	"github.com/openfell/telemetry-core/internal/telemetry"
)

// handleListReadings returns readings sorted by timestamp ascending,
// optionally filtered with ?deviceId=.
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	var (
		readings []telemetry.Reading
		err      error
	)

	if deviceID := r.URL.Query().Get("deviceId"); deviceID != "" {
		readings, err = s.readings.ListByDevice(r.Context(), deviceID)
	} else {
		readings, err = s.readings.List(r.Context())
	}
	if err != nil {
		s.logger.Error("listing readings", "error", err)
		writeInternalError(w, "could not list readings")
		return
	}

	writeJSON(w, http.StatusOK, readings)
}

// handleCreateReading stores a new reading for a device. The metric set is
// validated against the device's kind; a missing timestamp defaults to now.
func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	var reading telemetry.Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if reading.DeviceID == "" {
		writeBadRequest(w, "deviceId is required")
		return
	}
	reading.ID = ""

	if err := s.readings.Create(r.Context(), &reading); err != nil {
		switch {
		case errors.Is(err, device.ErrDeviceNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, telemetry.ErrMissingMetric),
			errors.Is(err, telemetry.ErrWrongMetric):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("creating reading", "error", err)
			writeInternalError(w, "could not store reading")
		}
		return
	}

	writeJSON(w, http.StatusCreated, reading)
}

// handleGetReading returns a single reading by ID.
func (s *Server) handleGetReading(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reading, err := s.readings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, telemetry.ErrReadingNotFound) {
			writeNotFound(w, "reading not found")
			return
		}
		s.logger.Error("loading reading", "error", err, "reading_id", id)
		writeInternalError(w, "could not load reading")
		return
	}

	writeJSON(w, http.StatusOK, reading)
}

// handleUpdateReading applies a partial update to a reading's metrics or
// timestamp.
func (s *Server) handleUpdateReading(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd telemetry.Update
	if err := decodePartial(r, &upd); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	reading, err := s.readings.Update(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, telemetry.ErrReadingNotFound):
			writeNotFound(w, "reading not found")
		case errors.Is(err, telemetry.ErrMissingMetric),
			errors.Is(err, telemetry.ErrWrongMetric):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("updating reading", "error", err, "reading_id", id)
			writeInternalError(w, "could not update reading")
		}
		return
	}

	writeJSON(w, http.StatusOK, reading)
}

// handleDeleteReading removes a single reading.
func (s *Server) handleDeleteReading(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.readings.Delete(r.Context(), id); err != nil {
		if errors.Is(err, telemetry.ErrReadingNotFound) {
			writeNotFound(w, "reading not found")
			return
		}
		s.logger.Error("deleting reading", "error", err, "reading_id", id)
		writeInternalError(w, "could not delete reading")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "reading deleted",
	})
}
