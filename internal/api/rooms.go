package api

import (
	"net/http"

	"github.com/nerrad567/smarthouse/internal/home"
)

// handleListRooms returns the rooms of a house.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id")
	if !ok {
		return
	}

	rooms, err := s.repo.ListRoomsByHouse(r.Context(), ids[0])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// handleCreateRoom adds a room to a house.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id")
	if !ok {
		return
	}
	name, err := decodeName(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rm, err := s.repo.CreateRoom(r.Context(), ids[0], name)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.RoomEvent(home.ActionCreated, rm.House, rm.ID, rm))
	writeJSON(w, http.StatusOK, rm)
}

// handleGetRoom returns a room of a house.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id")
	if !ok {
		return
	}

	rm, err := s.repo.GetRoom(r.Context(), ids[0], ids[1])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

// handleUpdateRoom renames a room of a house.
func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id")
	if !ok {
		return
	}
	name, err := decodeName(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rm, err := s.repo.UpdateRoom(r.Context(), ids[0], ids[1], name)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.RoomEvent(home.ActionUpdated, rm.House, rm.ID, rm))
	writeJSON(w, http.StatusOK, rm)
}

// handleDeleteRoom deletes a room and its devices.
func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id", "room_id")
	if !ok {
		return
	}

	n, err := s.repo.DeleteRoom(r.Context(), ids[0], ids[1])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.RoomEvent(home.ActionDeleted, ids[0], ids[1], nil))
	writeJSON(w, http.StatusOK, n)
}
