package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openfell/telemetry-core/internal/device"
)

// createDeviceRequest is the payload for POST /create_sensor. The owner is
// always the authenticated user.
type createDeviceRequest struct {
	Name      string      `json:"name"`
	IPAddress string      `json:"ipAddress"`
	Kind      device.Kind `json:"kind"`
}

// handleListDevices returns all devices in insertion order.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.List(r.Context())
	if err != nil {
		s.logger.Error("listing devices", "error", err)
		writeInternalError(w, "could not list devices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sensors": devices,
	})
}

// handleDeviceDetail returns a device with its owner's name and full
// reading history, readings sorted by timestamp ascending.
func (s *Server) handleDeviceDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := s.devices.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("loading device detail", "error", err, "device_id", id)
		writeInternalError(w, "could not load device")
		return
	}

	readings, err := s.readings.ListByDevice(r.Context(), id)
	if err != nil {
		s.logger.Error("loading device readings", "error", err, "device_id", id)
		writeInternalError(w, "could not load device")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         detail.ID,
		"name":       detail.Name,
		"ipAddress":  detail.IPAddress,
		"kind":       detail.Kind,
		"ownerId":    detail.OwnerID,
		"ownerName":  detail.OwnerName,
		"createdAt":  detail.CreatedAt,
		"updatedAt":  detail.UpdatedAt,
		"dataPoints": readings,
	})
}

// handleCreateDevice registers a new device owned by the caller.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d := &device.Device{
		Name:      req.Name,
		IPAddress: req.IPAddress,
		Kind:      req.Kind,
		OwnerID:   claims.Subject,
	}

	if err := s.devices.Create(r.Context(), d); err != nil {
		switch {
		case errors.Is(err, device.ErrValidation):
			writeBadRequest(w, err.Error())
		case errors.Is(err, device.ErrDuplicateIP):
			writeBadRequest(w, "ip address already in use")
		case errors.Is(err, device.ErrOwnerNotFound):
			writeUnauthorized(w, "account no longer exists")
		default:
			s.logger.Error("creating device", "error", err)
			writeInternalError(w, "could not create device")
		}
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// handleUpdateDevice applies a partial update to a device's name or IP.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd device.Update
	if err := decodePartial(r, &upd); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	d, err := s.devices.Update(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrDeviceNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, device.ErrValidation):
			writeBadRequest(w, err.Error())
		case errors.Is(err, device.ErrDuplicateIP):
			writeBadRequest(w, "ip address already in use")
		default:
			s.logger.Error("updating device", "error", err, "device_id", id)
			writeInternalError(w, "could not update device")
		}
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// handleDeleteDevice removes a device and, through the cascade, all of its
// readings.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.devices.Delete(r.Context(), id); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("deleting device", "error", err, "device_id", id)
		writeInternalError(w, "could not delete device")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "device deleted",
	})
}
