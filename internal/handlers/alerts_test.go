package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-dashboard/internal/alerts"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func actionRequest(t *testing.T, id string, body interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/alerts/"+id+"/action", bytes.NewBuffer(data))
	req.SetPathValue("id", id)
	claims := &models.Claims{UserID: "u1", Username: "ops", Role: models.RoleOperator}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func openAlert() *models.Alert {
	return &models.Alert{
		ID:        primitive.NewObjectID(),
		Rule:      models.RuleFuelAnomaly,
		VehicleID: "v1",
		DedupeKey: "fuel_anomaly:v1",
		Status:    models.AlertOpen,
	}
}

func TestAlertHandler_Action_Accept(t *testing.T) {
	fake := &fakeAlerts{byID: openAlert()}
	handler := NewAlertHandler(fake, alerts.NewWorkflow(fake, nil))

	req := actionRequest(t, fake.byID.ID.Hex(), models.AlertActionRequest{
		Action: "accept", Reason: "confirmed fuel theft",
	})
	w := httptest.NewRecorder()
	handler.Action(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.Alert
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.AlertAccepted, got.Status)
	assert.Equal(t, "u1", fake.appliedWith.ActorID)
}

func TestAlertHandler_Action_MissingReason(t *testing.T) {
	fake := &fakeAlerts{byID: openAlert()}
	handler := NewAlertHandler(fake, alerts.NewWorkflow(fake, nil))

	req := actionRequest(t, fake.byID.ID.Hex(), models.AlertActionRequest{Action: "deny"})
	w := httptest.NewRecorder()
	handler.Action(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertHandler_Action_InvalidAction(t *testing.T) {
	fake := &fakeAlerts{byID: openAlert()}
	handler := NewAlertHandler(fake, alerts.NewWorkflow(fake, nil))

	req := actionRequest(t, fake.byID.ID.Hex(), models.AlertActionRequest{
		Action: "snooze", Reason: "later",
	})
	w := httptest.NewRecorder()
	handler.Action(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertHandler_Action_NotFound(t *testing.T) {
	fake := &fakeAlerts{byIDErr: assert.AnError}
	handler := NewAlertHandler(fake, alerts.NewWorkflow(fake, nil))

	req := actionRequest(t, primitive.NewObjectID().Hex(), models.AlertActionRequest{
		Action: "accept", Reason: "ok",
	})
	w := httptest.NewRecorder()
	handler.Action(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAlertHandler_Action_AlreadyDecided(t *testing.T) {
	decided := openAlert()
	decided.Status = models.AlertAccepted
	fake := &fakeAlerts{byID: decided}
	handler := NewAlertHandler(fake, alerts.NewWorkflow(fake, nil))

	req := actionRequest(t, decided.ID.Hex(), models.AlertActionRequest{
		Action: "deny", Reason: "changed my mind",
	})
	w := httptest.NewRecorder()
	handler.Action(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAlertHandler_Action_NoUserContext(t *testing.T) {
	fake := &fakeAlerts{byID: openAlert()}
	handler := NewAlertHandler(fake, alerts.NewWorkflow(fake, nil))

	data, _ := json.Marshal(models.AlertActionRequest{Action: "accept", Reason: "ok"})
	req := httptest.NewRequest(http.MethodPost, "/api/alerts/x/action", bytes.NewBuffer(data))
	req.SetPathValue("id", "x")
	w := httptest.NewRecorder()
	handler.Action(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAlertHandler_List(t *testing.T) {
	fake := &fakeAlerts{alerts: []models.Alert{*openAlert(), *openAlert()}}
	handler := NewAlertHandler(fake, alerts.NewWorkflow(fake, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/alerts?status=open", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.Alert
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
