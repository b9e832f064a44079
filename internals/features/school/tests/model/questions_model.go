package model

import "github.com/google/uuid"

type QuestionModel struct {
	QuestionID       uuid.UUID `gorm:"column:question_id;type:uuid;default:gen_random_uuid();primaryKey" json:"question_id"`
	QuestionTestID   uuid.UUID `gorm:"column:question_test_id;type:uuid;not null;index:idx_questions_test" json:"question_test_id"`
	QuestionPosition int       `gorm:"column:question_position;not null" json:"question_position"`
	QuestionText     string    `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionType     string    `gorm:"column:question_type;type:varchar(16);not null" json:"question_type"`
	QuestionImageURL *string   `gorm:"column:question_image_url;type:text" json:"question_image_url,omitempty"`
	QuestionFormula  *string   `gorm:"column:question_formula;type:text" json:"question_formula,omitempty"`

	Options []OptionModel `gorm:"foreignKey:OptionQuestionID;references:QuestionID" json:"options,omitempty"`
}

func (QuestionModel) TableName() string { return "questions" }

// CorrectTexts: teks option yang benar, urut sesuai posisi.
func (q *QuestionModel) CorrectTexts() []string {
	var out []string
	for _, o := range q.Options {
		if o.OptionIsCorrect {
			out = append(out, o.OptionText)
		}
	}
	return out
}

type OptionModel struct {
	OptionID         uuid.UUID `gorm:"column:option_id;type:uuid;default:gen_random_uuid();primaryKey" json:"option_id"`
	OptionQuestionID uuid.UUID `gorm:"column:option_question_id;type:uuid;not null;index:idx_options_question" json:"option_question_id"`
	OptionPosition   int       `gorm:"column:option_position;not null" json:"option_position"`
	OptionText       string    `gorm:"column:option_text;type:text;not null" json:"option_text"`
	OptionIsCorrect  bool      `gorm:"column:option_is_correct;not null;default:false" json:"option_is_correct"`
}

func (OptionModel) TableName() string { return "options" }
