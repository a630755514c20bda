package store

import (
	"database/sql"
	"time"
)

// GestureEvent records a stable gesture being entered.
type GestureEvent struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Gesture   string    `json:"gesture"`
	Action    string    `json:"action"`
	Mode      string    `json:"mode"`
	At        time.Time `json:"at"`
}

// QualityEvent records a render tier change.
type QualityEvent struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Tier      string    `json:"tier"`
	FPS       float64   `json:"fps"`
	At        time.Time `json:"at"`
}

// EventRepository provides access to gesture and quality events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// AddGesture appends a gesture event and sets its ID.
func (r *EventRepository) AddGesture(e *GestureEvent) error {
	e.At = e.At.UTC()
	result, err := r.db.Exec(
		`INSERT INTO gesture_events (session_id, gesture, action, mode, at) VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Gesture, e.Action, e.Mode, e.At,
	)
	if err != nil {
		return err
	}
	e.ID, err = result.LastInsertId()
	return err
}

// AddQuality appends a quality event and sets its ID.
func (r *EventRepository) AddQuality(e *QualityEvent) error {
	e.At = e.At.UTC()
	result, err := r.db.Exec(
		`INSERT INTO quality_events (session_id, tier, fps, at) VALUES (?, ?, ?, ?)`,
		e.SessionID, e.Tier, e.FPS, e.At,
	)
	if err != nil {
		return err
	}
	e.ID, err = result.LastInsertId()
	return err
}

// Gestures returns the gesture events of a session in insertion order.
func (r *EventRepository) Gestures(sessionID string) ([]*GestureEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, gesture, action, mode, at
		 FROM gesture_events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*GestureEvent
	for rows.Next() {
		e := &GestureEvent{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Gesture, &e.Action, &e.Mode, &e.At); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Quality returns the quality events of a session in insertion order.
func (r *EventRepository) Quality(sessionID string) ([]*QualityEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, tier, fps, at
		 FROM quality_events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*QualityEvent
	for rows.Next() {
		e := &QualityEvent{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Tier, &e.FPS, &e.At); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GestureCounts returns how many times each gesture was entered in a session.
func (r *EventRepository) GestureCounts(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*) FROM gesture_events WHERE session_id = ? GROUP BY gesture`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var g string
		var n int
		if err := rows.Scan(&g, &n); err != nil {
			return nil, err
		}
		counts[g] = n
	}
	return counts, rows.Err()
}
