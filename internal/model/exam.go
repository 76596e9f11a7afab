package model

import (
	"time"

	"gorm.io/gorm"
)

// Exam is one published version of an exam's question set. Rows are
// append-only: a republish of the same code inserts a new row with a new
// version token, and attempts created against older tokens keep scoring
// against the snapshot they took at creation.
type Exam struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Code         string         `json:"code" gorm:"not null;index;uniqueIndex:idx_exam_code_version"`
	VersionToken string         `json:"version_token" gorm:"not null;uniqueIndex:idx_exam_code_version"`
	Title        string         `json:"title" gorm:"not null"`
	Questions    QuestionList   `json:"questions" gorm:"type:jsonb;not null"`
	PublishedAt  time.Time      `json:"published_at" gorm:"not null;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuestionByID returns the question with the given id, if present in this
// version.
func (e *Exam) QuestionByID(id int) (Question, bool) {
	for _, q := range e.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
