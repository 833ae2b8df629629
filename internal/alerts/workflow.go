package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

var (
	ErrInvalidAction  = errors.New("invalid alert action")
	ErrReasonRequired = errors.New("a reason is required")
	ErrAlertNotFound  = errors.New("alert not found")
	ErrAlertNotOpen   = errors.New("alert is not open")
)

// Workflow applies user decisions to alerts: accept, deny, or ignore with an
// optional duration.
type Workflow struct {
	alerts db.AlertCollection
	rdb    *redis.Client
}

// NewWorkflow creates an alert workflow.
func NewWorkflow(alerts db.AlertCollection, rdb *redis.Client) *Workflow {
	return &Workflow{alerts: alerts, rdb: rdb}
}

// Apply transitions an open alert according to the request. Ignoring with a
// duration also suppresses the rule for the vehicle until the duration
// passes; ignoring without one suppresses only this alert.
func (w *Workflow) Apply(ctx context.Context, alertID, actorID string, req models.AlertActionRequest) (*models.Alert, error) {
	if !models.IsValidAlertAction(req.Action) {
		return nil, ErrInvalidAction
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	alert, err := w.alerts.FindAlertByID(ctx, alertID)
	if err != nil {
		return nil, ErrAlertNotFound
	}
	if alert.Status != models.AlertOpen {
		return nil, ErrAlertNotOpen
	}

	action := models.AlertAction{
		Action:  req.Action,
		Reason:  req.Reason,
		ActorID: actorID,
		ActedAt: time.Now(),
	}
	if req.Action == "ignore" && req.IgnoreHours > 0 {
		until := time.Now().Add(time.Duration(req.IgnoreHours) * time.Hour)
		action.IgnoreUntil = &until
	}

	status := models.StatusForAction(req.Action)
	if err := w.alerts.ApplyAction(ctx, alertID, status, action); err != nil {
		return nil, ErrAlertNotOpen
	}

	if action.IgnoreUntil != nil && w.rdb != nil {
		ttl := time.Until(*action.IgnoreUntil)
		if err := w.rdb.Set(ctx, suppressKey(alert.DedupeKey), alertID, ttl).Err(); err != nil {
			// The alert state is already recorded; suppression is best effort.
			log.WithError(err).Warn("Failed to set alert suppression key")
		}
	}

	alert.Status = status
	alert.Action = &action
	log.WithFields(log.Fields{
		"alert_id": alertID,
		"action":   req.Action,
		"actor_id": actorID,
	}).Info("Alert actioned")
	return alert, nil
}

// Suppressed reports whether a rule/vehicle dedupe key is currently
// suppressed.
func (w *Workflow) Suppressed(ctx context.Context, dedupeKey string) (bool, error) {
	if w.rdb == nil {
		return false, nil
	}
	n, err := w.rdb.Exists(ctx, suppressKey(dedupeKey)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
