package api

import (
	"errors"
	"net/http"

	"github.com/nerrad567/smarthouse/internal/home"
)

// errMissingDeviceType is returned when a device create body lacks "device".
var errMissingDeviceType = errors.New("device is required")

// handleListDevices returns the devices of a room.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id")
	if !ok {
		return
	}

	devices, err := s.repo.ListDevicesByRoom(r.Context(), ids[0], ids[1])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleCreateDevice adds a device to a room. New devices always start off,
// so a "state" in the body is accepted and ignored.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id")
	if !ok {
		return
	}

	var req deviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Name == nil {
		writeBadRequest(w, errMissingName.Error())
		return
	}
	if req.Device == nil {
		writeBadRequest(w, errMissingDeviceType.Error())
		return
	}

	in := home.DeviceInput{Name: *req.Name, DeviceType: *req.Device}
	if req.State != nil {
		in.State = *req.State
	}

	d, err := s.repo.CreateDevice(r.Context(), ids[0], ids[1], in)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.DeviceEvent(home.ActionCreated, ids[0], d.Room, d.ID, d))
	writeJSON(w, http.StatusOK, d)
}

// handleGetDevice returns a device of a room.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id", "device_id")
	if !ok {
		return
	}

	d, err := s.repo.GetDevice(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleUpdateDevice renames a device and, when present, changes its type and state.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id", "device_id")
	if !ok {
		return
	}

	var req deviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Name == nil {
		writeBadRequest(w, errMissingName.Error())
		return
	}

	d, err := s.repo.UpdateDevice(r.Context(), ids[0], ids[1], ids[2], home.DeviceUpdate{
		Name:       *req.Name,
		DeviceType: req.Device,
		State:      req.State,
	})
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.DeviceEvent(home.ActionUpdated, ids[0], d.Room, d.ID, d))
	writeJSON(w, http.StatusOK, d)
}

// handleDeleteDevice deletes a device of a room.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id", "device_id")
	if !ok {
		return
	}

	n, err := s.repo.DeleteDevice(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.DeviceEvent(home.ActionDeleted, ids[0], ids[1], ids[2], nil))
	writeJSON(w, http.StatusOK, n)
}
