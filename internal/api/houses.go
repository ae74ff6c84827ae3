package api

import (
	"net/http"

	"github.com/nerrad567/smarthouse/internal/home"
)

// handleListHouses returns every house ordered by id.
func (s *Server) handleListHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := s.repo.ListHouses(r.Context())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, houses)
}

// handleCreateHouse creates a house from {"name": ...}.
func (s *Server) handleCreateHouse(w http.ResponseWriter, r *http.Request) {
	name, err := decodeName(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	h, err := s.repo.CreateHouse(r.Context(), name)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.HouseEvent(home.ActionCreated, h.ID, h))
	writeJSON(w, http.StatusOK, h)
}

// handleDeleteAllHouses removes every house together with its rooms and devices.
func (s *Server) handleDeleteAllHouses(w http.ResponseWriter, r *http.Request) {
	n, err := s.repo.DeleteAllHouses(r.Context())
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.logger.Info("all houses deleted", "count", n, "request_id", requestIDFrom(r.Context()))
	s.emit(home.HouseEvent(home.ActionCleared, 0, nil))
	writeJSON(w, http.StatusOK, true)
}

// handleGetHouse returns a single house.
func (s *Server) handleGetHouse(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id")
	if !ok {
		return
	}

	h, err := s.repo.GetHouse(r.Context(), ids[0])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// handleUpdateHouse renames a house.
func (s *Server) handleUpdateHouse(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id")
	if !ok {
		return
	}
	name, err := decodeName(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	h, err := s.repo.UpdateHouse(r.Context(), ids[0], name)
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.HouseEvent(home.ActionUpdated, h.ID, h))
	writeJSON(w, http.StatusOK, h)
}

// handleDeleteHouse deletes a house and everything in it, returning the
// number of houses removed.
func (s *Server) handleDeleteHouse(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "house_id")
	if !ok {
		return
	}

	n, err := s.repo.DeleteHouse(r.Context(), ids[0])
	if err != nil {
		s.writeRepoError(w, r, err)
		return
	}

	s.emit(home.HouseEvent(home.ActionDeleted, ids[0], nil))
	writeJSON(w, http.StatusOK, n)
}
