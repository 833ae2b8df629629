package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

func TestVehicleHandler_List(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{vehicles: []models.Vehicle{
		{Make: "Ford", Model: "Transit", Type: "ICE"},
		{Make: "Tesla", Model: "Model Y", Type: "EV"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.Vehicle
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestVehicleHandler_List_EmptyIsArray(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestVehicleHandler_Create(t *testing.T) {
	fake := &fakeVehicles{}
	handler := NewVehicleHandler(fake)

	body, _ := json.Marshal(models.Vehicle{
		Make: "Ford", Model: "Transit", Type: "ICE", LicensePlate: "AB12 CDE",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotNil(t, fake.inserted)
	assert.Equal(t, "active", fake.inserted.Status)
	assert.False(t, fake.inserted.CreatedAt.IsZero())
}

func TestVehicleHandler_Create_Validation(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{})

	tests := []struct {
		name string
		body string
	}{
		{"bad json", "{broken"},
		{"missing plate", `{"make":"Ford","model":"Transit","type":"ICE"}`},
		{"bad type", `{"make":"Ford","model":"Transit","type":"hybrid","license_plate":"AB12"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/vehicles", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Collection(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestVehicleHandler_Item_NotFound(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{byIDErr: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.Item(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVehicleHandler_MethodNotAllowed(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{})

	req := httptest.NewRequest(http.MethodDelete, "/api/vehicles", nil)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
