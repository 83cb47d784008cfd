package amqp

import (
	"encoding/json"
	"time"
)

// LimitAlertMessage is the lightweight event published when an expense
// crosses a budget limit. It carries identifiers only; the worker loads the
// full alert context from the database.
type LimitAlertMessage struct {
	AlertID   int64     `json:"alert_id"`
	ExpenseID int64     `json:"expense_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLimitAlertMessage(alertID, expenseID, userID int64) *LimitAlertMessage {
	return &LimitAlertMessage{
		AlertID:   alertID,
		ExpenseID: expenseID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *LimitAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LimitAlertMessageFromJSON(data []byte) (*LimitAlertMessage, error) {
	var msg LimitAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
