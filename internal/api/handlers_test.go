package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"testing"

	"github.com/nerrad567/smarthouse/internal/home"
)

// seed creates house 1, room 1 and device 1 through the API.
func seed(t *testing.T, h http.Handler) {
	t.Helper()
	for _, step := range []struct{ path, body string }{
		{"/house", `{"name":"la casa"}`},
		{"/houses/1/rooms", `{"name":"cocina"}`},
		{"/houses/1/rooms/1/devices", `{"name":"t","state":false,"device":"termometro"}`},
	} {
		if w := do(t, h, http.MethodPost, step.path, step.body); w.Code != http.StatusOK {
			t.Fatalf("POST %s status = %d, body %s", step.path, w.Code, w.Body.String())
		}
	}
}

func TestListHouses_Empty(t *testing.T) {
	h := testServer(t).Handler()
	expectBody(t, do(t, h, http.MethodGet, "/house", ""), http.StatusOK, `[]`)
}

func TestCreateHouse_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing name", `{}`, http.StatusBadRequest},
		{"null name", `{"name":null}`, http.StatusBadRequest},
		{"wrong type", `{"name":42}`, http.StatusBadRequest},
		{"invalid json", `{"name":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"empty name allowed", `{"name":""}`, http.StatusOK},
		{"unknown fields ignored", `{"name":"x","colour":"red"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testServer(t).Handler()
			w := do(t, h, http.MethodPost, "/house", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusBadRequest {
				if e := decodeError(t, w); e.Code != ErrCodeBadRequest || e.Status != http.StatusBadRequest {
					t.Errorf("error = %+v, want bad_request", e)
				}
			}
		})
	}
}

func TestHouse_GetUpdateDelete(t *testing.T) {
	h := testServer(t).Handler()
	seed(t, h)

	expectBody(t, do(t, h, http.MethodGet, "/houses/1", ""), http.StatusOK, `{"id":1,"name":"la casa"}`)

	expectBody(t, do(t, h, http.MethodPut, "/houses/1", `{"name":"casa nueva"}`),
		http.StatusOK, `{"id":1,"name":"casa nueva"}`)
	expectBody(t, do(t, h, http.MethodGet, "/house", ""), http.StatusOK, `[{"id":1,"name":"casa nueva"}]`)

	expectBody(t, do(t, h, http.MethodDelete, "/houses/1", ""), http.StatusOK, `1`)

	// Cascade: the room and its device went with the house.
	if w := do(t, h, http.MethodGet, "/houses/1/rooms/1/devices/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("device of deleted house status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestNotFoundMapping(t *testing.T) {
	h := testServer(t).Handler()
	seed(t, h)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/houses/9", ""},
		{http.MethodPut, "/houses/9", `{"name":"x"}`},
		{http.MethodDelete, "/houses/9", ""},
		{http.MethodGet, "/houses/9/rooms", ""},
		{http.MethodPost, "/houses/9/rooms", `{"name":"x"}`},
		{http.MethodGet, "/houses/1/rooms/9", ""},
		{http.MethodPut, "/houses/1/rooms/9", `{"name":"x"}`},
		{http.MethodDelete, "/houses/1/rooms/9", ""},
		{http.MethodGet, "/houses/1/rooms/9/devices", ""},
		{http.MethodPost, "/houses/1/rooms/9/devices", `{"name":"x","device":"y"}`},
		{http.MethodGet, "/houses/1/rooms/1/devices/9", ""},
		{http.MethodPut, "/houses/1/rooms/1/devices/9", `{"name":"x"}`},
		{http.MethodDelete, "/houses/1/rooms/1/devices/9", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusNotFound, w.Body.String())
			}
			if e := decodeError(t, w); e.Code != ErrCodeNotFound {
				t.Errorf("code = %q, want %q", e.Code, ErrCodeNotFound)
			}
		})
	}
}

func TestNestedScoping(t *testing.T) {
	h := testServer(t).Handler()
	seed(t, h)
	if w := do(t, h, http.MethodPost, "/house", `{"name":"otra"}`); w.Code != http.StatusOK {
		t.Fatalf("create second house status = %d", w.Code)
	}

	// Room 1 belongs to house 1, not house 2.
	for _, path := range []string{"/houses/2/rooms/1", "/houses/2/rooms/1/devices", "/houses/2/rooms/1/devices/1"} {
		if w := do(t, h, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
	expectBody(t, do(t, h, http.MethodGet, "/houses/2/rooms", ""), http.StatusOK, `[]`)
}

func TestInvalidPathIDs(t *testing.T) {
	h := testServer(t).Handler()

	for _, path := range []string{
		"/houses/abc",
		"/houses/0",
		"/houses/-1",
		"/houses/1/rooms/x",
		"/houses/1/rooms/1/devices/1.5",
	} {
		if w := do(t, h, http.MethodGet, path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusBadRequest)
		}
	}
}

func TestRoom_CRUD(t *testing.T) {
	h := testServer(t).Handler()
	seed(t, h)

	expectBody(t, do(t, h, http.MethodPost, "/houses/1/rooms", `{"name":"salon"}`),
		http.StatusOK, `{"id":2,"house":1,"name":"salon"}`)
	expectBody(t, do(t, h, http.MethodGet, "/houses/1/rooms", ""),
		http.StatusOK, `[{"id":1,"house":1,"name":"cocina"},{"id":2,"house":1,"name":"salon"}]`)
	expectBody(t, do(t, h, http.MethodGet, "/houses/1/rooms/2", ""),
		http.StatusOK, `{"id":2,"house":1,"name":"salon"}`)
	expectBody(t, do(t, h, http.MethodPut, "/houses/1/rooms/2", `{"name":"comedor"}`),
		http.StatusOK, `{"id":2,"house":1,"name":"comedor"}`)

	if w := do(t, h, http.MethodPut, "/houses/1/rooms/2", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("update without name status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	expectBody(t, do(t, h, http.MethodDelete, "/houses/1/rooms/1", ""), http.StatusOK, `1`)
	expectBody(t, do(t, h, http.MethodGet, "/houses/1/rooms", ""),
		http.StatusOK, `[{"id":2,"house":1,"name":"comedor"}]`)
}

func TestDevice_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"device":"lampara"}`},
		{"missing device", `{"name":"luz"}`},
		{"null device", `{"name":"luz","device":null}`},
		{"state not bool", `{"name":"luz","device":"lampara","state":"on"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testServer(t).Handler()
			seed(t, h)
			if w := do(t, h, http.MethodPost, "/houses/1/rooms/1/devices", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestDevice_CreateWithoutState(t *testing.T) {
	h := testServer(t).Handler()
	seed(t, h)

	expectBody(t, do(t, h, http.MethodPost, "/houses/1/rooms/1/devices", `{"name":"luz","device":"lampara"}`),
		http.StatusOK, `{"id":2,"room":1,"name":"luz","device_type":"lampara","state":false}`)
}

func TestDevice_UpdatePartial(t *testing.T) {
	h := testServer(t).Handler()
	seed(t, h)

	// Type omitted keeps the stored type.
	expectBody(t, do(t, h, http.MethodPut, "/houses/1/rooms/1/devices/1", `{"name":"t2"}`),
		http.StatusOK, `{"id":1,"room":1,"name":"t2","device_type":"termometro","state":false}`)

	expectBody(t, do(t, h, http.MethodPut, "/houses/1/rooms/1/devices/1", `{"name":"t2","device":"higrometro","state":true}`),
		http.StatusOK, `{"id":1,"room":1,"name":"t2","device_type":"higrometro","state":true}`)

	if w := do(t, h, http.MethodPut, "/houses/1/rooms/1/devices/1", `{"state":false}`); w.Code != http.StatusBadRequest {
		t.Errorf("update without name status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	expectBody(t, do(t, h, http.MethodDelete, "/houses/1/rooms/1/devices/1", ""), http.StatusOK, `1`)
	expectBody(t, do(t, h, http.MethodGet, "/houses/1/rooms/1/devices", ""), http.StatusOK, `[]`)
}

func TestRepoErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"conflict", fmt.Errorf("inserting house: %w", home.ErrConflict), http.StatusConflict, ErrCodeConflict},
		{"unavailable", fmt.Errorf("inserting house: %w", home.ErrUnavailable), http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"internal", errors.New("disk I/O error"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := testDeps(t)
			deps.Repo = &stubRepo{createHouse: func(context.Context, string) (*home.House, error) {
				return nil, tt.err
			}}
			srv := newTestServer(t, deps)

			w := do(t, srv.Handler(), http.MethodPost, "/house", `{"name":"x"}`)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			e := decodeError(t, w)
			if e.Code != tt.wantCode || e.Status != tt.wantStatus {
				t.Errorf("error = %+v, want code %q status %d", e, tt.wantCode, tt.wantStatus)
			}
			if e.Message != tt.err.Error() {
				t.Errorf("message = %q, want %q", e.Message, tt.err.Error())
			}
		})
	}
}

func TestChangeEvents(t *testing.T) {
	deps := testDeps(t)
	pub := &recordingPublisher{}
	rec := &recordingRecorder{}
	deps.Publisher = pub
	deps.Recorder = rec
	h := newTestServer(t, deps).Handler()

	seed(t, h)
	do(t, h, http.MethodPut, "/houses/1/rooms/1/devices/1", `{"name":"t","state":true}`)
	do(t, h, http.MethodDelete, "/houses/1/rooms/1/devices/1", "")
	do(t, h, http.MethodGet, "/house", "")
	do(t, h, http.MethodDelete, "/house", "")

	want := []string{
		"house.created",
		"room.created",
		"device.created",
		"device.updated",
		"device.deleted",
		"house.cleared",
	}
	if got := pub.types(); !slices.Equal(got, want) {
		t.Errorf("published = %v, want %v", got, want)
	}

	pub.mu.Lock()
	updated := pub.events[3]
	pub.mu.Unlock()
	if updated.House != 1 || updated.Room != 1 || updated.ID != 1 {
		t.Errorf("device.updated path = house %d room %d id %d, want 1/1/1", updated.House, updated.Room, updated.ID)
	}
	if d, ok := updated.Device(); !ok || !d.State {
		t.Errorf("device.updated data = %+v, want device with state true", updated.Data)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != len(want) {
		t.Errorf("recorder saw %d events, want %d", len(rec.events), len(want))
	}
}

func TestChangeEvents_PublishFailureDoesNotFailRequest(t *testing.T) {
	deps := testDeps(t)
	deps.Publisher = &recordingPublisher{err: errors.New("not connected")}
	h := newTestServer(t, deps).Handler()

	expectBody(t, do(t, h, http.MethodPost, "/house", `{"name":"la casa"}`),
		http.StatusOK, `{"id":1,"name":"la casa"}`)
}

func TestNoEventOnFailedMutation(t *testing.T) {
	deps := testDeps(t)
	pub := &recordingPublisher{}
	deps.Publisher = pub
	h := newTestServer(t, deps).Handler()

	do(t, h, http.MethodPut, "/houses/7", `{"name":"x"}`)
	do(t, h, http.MethodPost, "/house", `{}`)

	if got := pub.types(); len(got) != 0 {
		t.Errorf("published = %v, want none", got)
	}
}

func TestDeleteCount_IsJSONNumber(t *testing.T) {
	h := testServer(t).Handler()
	seed(t, h)

	w := do(t, h, http.MethodDelete, "/houses/1/rooms/1", "")
	var n int64
	if err := json.Unmarshal(w.Body.Bytes(), &n); err != nil {
		t.Fatalf("delete body %q is not a number: %v", w.Body.String(), err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
