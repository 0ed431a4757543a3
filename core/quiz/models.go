package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tracklearn/core"
)

type (
	Test struct {
		ID         string      `json:"id" db:"id"`
		Name       string      `json:"name" db:"name"`
		CategoryID null.String `json:"category_id" db:"category_id"`
		AuthorID   string      `json:"author_id" db:"author_id"`
		CreatedAt  time.Time   `json:"created_at" db:"created_at"` // UTC
		Questions  []Question  `json:"questions" db:"-"`
	}

	Question struct {
		ID         string      `json:"id" db:"id"`
		TestID     string      `json:"test_id" db:"test_id"`
		Text       string      `json:"text" db:"text"`
		Type       null.String `json:"type" db:"type"`
		IndexOrder int         `json:"index_order" db:"index_order"`
		Options    []Option    `json:"options" db:"-"`
	}

	Option struct {
		ID         string `json:"id" db:"id"`
		QuestionID string `json:"question_id" db:"question_id"`
		Text       string `json:"text" db:"text"`
		// IsCorrect is nil in the student view of a test.
		IsCorrect  *bool `json:"is_correct,omitempty" db:"is_correct"`
		IndexOrder int   `json:"index_order" db:"index_order"`
	}
)

// Correct reports whether the option belongs to the answer key.
func (o Option) Correct() bool {
	return o.IsCorrect != nil && *o.IsCorrect
}

// StudentView returns a copy of the test without its answer key.
func (t Test) StudentView() Test {
	questions := make([]Question, 0, len(t.Questions))
	for _, q := range t.Questions {
		opts := make([]Option, 0, len(q.Options))
		for _, o := range q.Options {
			o.IsCorrect = nil
			opts = append(opts, o)
		}
		q.Options = opts
		questions = append(questions, q)
	}
	t.Questions = questions
	return t
}

// AnswerKey maps each question ID of a test to the IDs of its correct options.
// Questions without any correct option map to an empty set.
type AnswerKey map[string]map[string]struct{}

func (t Test) AnswerKey() AnswerKey {
	key := make(AnswerKey, len(t.Questions))
	for _, q := range t.Questions {
		correct := make(map[string]struct{})
		for _, o := range q.Options {
			if o.Correct() {
				correct[o.ID] = struct{}{}
			}
		}
		key[q.ID] = correct
	}
	return key
}

// NewTest contains information needed to create a new Test with its questions and options.
// The slice order of questions (options) is used unless IndexOrder is set.
type NewTest struct {
	Name       string        `json:"name" validate:"notblank,max=255"`
	CategoryID string        `json:"category_id"`
	Questions  []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type NewQuestion struct {
	Text       string      `json:"text" validate:"notblank"`
	Type       string      `json:"type" validate:"omitempty,max=50"`
	IndexOrder *int        `json:"index_order" validate:"omitempty,min=0"`
	Options    []NewOption `json:"options" validate:"required,min=1,dive"`
}

type NewOption struct {
	Text       string `json:"text" validate:"notblank"`
	IsCorrect  bool   `json:"is_correct"`
	IndexOrder *int   `json:"index_order" validate:"omitempty,min=0"`
}

func (nt *NewTest) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.CategoryID = core.CleanString(nt.CategoryID)
	for i := range nt.Questions {
		q := &nt.Questions[i]
		q.Text = core.CleanString(q.Text)
		q.Type = core.CleanString(q.Type)
		for j := range q.Options {
			q.Options[j].Text = core.CleanString(q.Options[j].Text)
		}
	}
	return validate.Struct(nt)
}
