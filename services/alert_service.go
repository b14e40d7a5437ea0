package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nutriguard/models"
	"nutriguard/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlertService is the critical-alert notifier behind the risk engine. Every
// channel is best-effort: a dead websocket, SNS outage or SES failure must
// never bubble back into an evaluation.
type AlertService struct {
	db   *gorm.DB
	rt   *RealtimeHub
	push *PushService
	log  *zap.Logger

	// EmailEnabled adds an SES email on top of push/websocket delivery.
	EmailEnabled bool
}

func NewAlertService(db *gorm.DB, rt *RealtimeHub, push *PushService, logger *zap.Logger) *AlertService {
	return &AlertService{db: db, rt: rt, push: push, log: logger}
}

// Notify implements risk.Notifier.
func (a *AlertService) Notify(ctx context.Context, userID uint, eventType string, payload map[string]any) error {
	raw, _ := json.Marshal(payload)
	foodName, _ := payload["food"].(string)
	alertID, _ := payload["alert_id"].(string)
	message := fmt.Sprintf("We flagged %s as unsafe for you.", foodName)

	alert := &models.Alert{
		UserID:    userID,
		AlertID:   alertID,
		EventType: eventType,
		Message:   message,
		Payload:   string(raw),
		CreatedAt: time.Now(),
	}
	if err := a.db.WithContext(ctx).Create(alert).Error; err != nil {
		a.log.Warn("alert persist failed", zap.Uint("user_id", userID), zap.Error(err))
	}

	if a.rt != nil {
		a.rt.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": alert,
		})
	}
	if a.push != nil {
		a.push.PushToUser(ctx, userID, "Food safety alert", message, map[string]string{
			"type":    eventType,
			"alertId": alertID,
		})
	}
	if a.EmailEnabled {
		a.sendEmail(ctx, userID, foodName, payload)
	}
	return nil
}

func (a *AlertService) sendEmail(ctx context.Context, userID uint, foodName string, payload map[string]any) {
	var user models.User
	if err := a.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		a.log.Warn("alert email user lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	reasons := reasonsFromPayload(payload)
	if err := utils.SendCriticalAlertEmail(ctx, user.Email, foodName, reasons); err != nil {
		a.log.Warn("alert email failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func reasonsFromPayload(payload map[string]any) []string {
	switch v := payload["risks"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, r := range v {
			if s, ok := r.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ListAlerts returns the user's alert feed, newest first.
func (a *AlertService) ListAlerts(ctx context.Context, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	var alerts []models.Alert
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
