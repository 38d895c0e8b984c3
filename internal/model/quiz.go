package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Quiz represents a quiz question attached to a lesson
type Quiz struct {
	QuizID        string      `db:"id" json:"quiz_id"`
	LessonID      string      `db:"lesson_id" json:"lesson_id"`
	Question      string      `db:"question" json:"question"`
	Options       QuizOptions `db:"options" json:"options,omitempty"`
	CorrectAnswer string      `db:"correct_answer" json:"correct_answer"`
	IsAIGenerated bool        `db:"is_ai_generated" json:"is_ai_generated"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

// QuizOptions is the list of answer options (JSONB)
type QuizOptions []string

// Value implements the driver.Valuer interface for JSONB
func (o QuizOptions) Value() (driver.Value, error) {
	if o == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(o)
}

// Scan implements the sql.Scanner interface for JSONB
func (o *QuizOptions) Scan(value interface{}) error {
	if value == nil {
		*o = make(QuizOptions, 0)
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("unsupported scan type for QuizOptions: %T", value)
		}
	}
	return json.Unmarshal(b, o)
}
