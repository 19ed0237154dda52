package models

// GORM models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// JSONText stores a serialized JSON value in a text column.
type JSONText json.RawMessage

// NewJSONText serializes v. A nil value becomes an empty object.
func NewJSONText(v interface{}) (JSONText, error) {
	if v == nil {
		return JSONText("{}"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize value: %w", err)
	}
	return JSONText(data), nil
}

func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONText) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case string:
		*j = JSONText(v)
	case []byte:
		*j = append(JSONText(nil), v...)
	default:
		return fmt.Errorf("cannot scan %T into JSONText", value)
	}
	return nil
}

// MarshalJSON emits the stored value verbatim, or {} when nothing is stored.
func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

func (j *JSONText) UnmarshalJSON(data []byte) error {
	*j = append(JSONText(nil), data...)
	return nil
}

// Blog is a persisted synthesis result.
type Blog struct {
	ID                uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Topic             string    `json:"topic" gorm:"not null"`
	Content           string    `json:"content" gorm:"type:text;not null"`
	ResearchGaps      JSONText  `json:"research_gaps" gorm:"type:text"`
	ResearchQuestions JSONText  `json:"research_questions" gorm:"type:text"`
	Methodology       JSONText  `json:"methodology" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at" gorm:"index"`
}

// BlogSummary is the listing projection of a Blog.
type BlogSummary struct {
	ID        uint      `json:"id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

type BlogRepository interface {
	Create(ctx context.Context, blog *Blog) error
	List(ctx context.Context) ([]BlogSummary, error)
	GetByID(ctx context.Context, id uint) (*Blog, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

func (Blog) TableName() string { return "blogs" }

func (b *Blog) Validate() error {
	if b.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if b.Content == "" {
		return fmt.Errorf("content is required")
	}
	if len(b.ResearchGaps) == 0 || len(b.ResearchQuestions) == 0 {
		return fmt.Errorf("research gaps and questions are required")
	}
	if len(b.Methodology) == 0 {
		b.Methodology = JSONText("{}")
	}
	return nil
}

// GORM hooks
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	return b.Validate()
}
