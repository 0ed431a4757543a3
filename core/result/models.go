package result

import (
	"encoding/json"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
)

// Status of a submitted attempt.
const StatusCompleted = "completed"

// TestResult is one scored attempt of a student at a test within a classroom.
// Results are never updated; every submission creates a new row.
type TestResult struct {
	ID             string    `json:"id" db:"id"`
	StudentID      string    `json:"student_id" db:"student_id"`
	ClassroomID    string    `json:"classroom_id" db:"classroom_id"`
	TestID         string    `json:"test_id" db:"test_id"`
	Score          int       `json:"score" db:"score"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	CorrectAnswers int       `json:"correct_answers" db:"correct_answers"`
	Status         string    `json:"status" db:"status"`
	StartedAt      time.Time `json:"started_at" db:"started_at"`             // UTC
	EndedAt        time.Time `json:"ended_at" db:"ended_at"`                 // UTC
	GradedByServer bool      `json:"graded_by_server" db:"graded_by_server"` // score derived from the answer key
	CreatedAt      time.Time `json:"created_at" db:"created_at"`             // UTC
}

// Summary is a TestResult joined with display names.
type Summary struct {
	TestResult
	StudentName   string `json:"student_name" db:"student_name"`
	ClassroomName string `json:"classroom_name" db:"classroom_name"`
	TestName      string `json:"test_name" db:"test_name"`
}

// Selection holds the option IDs picked for one question.
// It decodes from a single option ID or from a list of option IDs.
type Selection []string

func (s *Selection) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = Selection{}
		} else {
			*s = Selection{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("an answer must be an option id or a list of option ids")
	}
	*s = many
	return nil
}

// Answers maps question IDs to the selected options.
type Answers map[string]Selection

// NewResult is the body of a result submission.
// The nine declared fields are required; Answers, when present, replaces the declared score.
type NewResult struct {
	StudentID      *string `json:"student_id"`
	ClassroomID    *string `json:"classroom_id"`
	TestID         *string `json:"test_id"`
	Score          *int    `json:"score"`
	TotalQuestions *int    `json:"total_questions"`
	CorrectAnswers *int    `json:"correct_answers"`
	Status         *string `json:"status"`
	StartedAt      *string `json:"started_at"`
	EndedAt        *string `json:"ended_at"`
	Answers        Answers `json:"answers"`

	startedAt time.Time
	endedAt   time.Time
}

// Validate checks the presence and format of the submission.
// requireAnswers rejects submissions without Answers.
func (nr *NewResult) Validate(requireAnswers bool) error {
	strFields := []struct {
		name string
		val  *string
	}{
		{"student_id", nr.StudentID},
		{"classroom_id", nr.ClassroomID},
		{"test_id", nr.TestID},
	}
	for _, f := range strFields {
		if f.val == nil || core.CleanString(*f.val) == "" {
			return core.NewMissingFieldError(f.name)
		}
		*f.val = core.CleanString(*f.val)
	}
	intFields := []struct {
		name string
		val  *int
	}{
		{"score", nr.Score},
		{"total_questions", nr.TotalQuestions},
		{"correct_answers", nr.CorrectAnswers},
	}
	for _, f := range intFields {
		if f.val == nil {
			return core.NewMissingFieldError(f.name)
		}
	}
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"status", nr.Status},
		{"started_at", nr.StartedAt},
		{"ended_at", nr.EndedAt},
	} {
		if f.val == nil || core.CleanString(*f.val) == "" {
			return core.NewMissingFieldError(f.name)
		}
	}
	if requireAnswers && nr.Answers == nil {
		return core.NewMissingFieldError("answers")
	}

	var err error
	if nr.startedAt, err = core.ParseTimestamp(*nr.StartedAt); err != nil {
		return core.NewInvalidParameterError("Invalid started_at format")
	}
	if nr.endedAt, err = core.ParseTimestamp(*nr.EndedAt); err != nil {
		return core.NewInvalidParameterError("Invalid ended_at format")
	}
	if nr.endedAt.Before(nr.startedAt) {
		return core.NewInvalidParameterError("ended_at must not be before started_at")
	}

	if nr.Answers == nil {
		if *nr.Score < 0 || *nr.Score > 100 {
			return core.NewInvalidParameterError("score must be between 0 and 100")
		}
		if *nr.TotalQuestions < 0 {
			return core.NewInvalidParameterError("total_questions must not be negative")
		}
		if *nr.CorrectAnswers < 0 || *nr.CorrectAnswers > *nr.TotalQuestions {
			return core.NewInvalidParameterError("correct_answers must be between 0 and total_questions")
		}
	}
	return nil
}

// Filter narrows a result listing; empty fields match everything.
type Filter struct {
	StudentID   string
	ClassroomID string
	TestID      string
	// TeacherID keeps results from classrooms owned by this teacher; not a search parameter.
	TeacherID string
}

var filterParams = map[string]func(*Filter, string){
	"student":   func(f *Filter, v string) { f.StudentID = v },
	"classroom": func(f *Filter, v string) { f.ClassroomID = v },
	"test":      func(f *Filter, v string) { f.TestID = v },
}

// ParseFilter reads a Filter from search query parameters.
// Only "student", "classroom" and "test" are accepted, each at most once.
func ParseFilter(params url.Values) (Filter, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys) // report unknown keys deterministically

	var filter Filter
	for _, k := range keys {
		set, ok := filterParams[k]
		if !ok {
			return Filter{}, core.NewInvalidParameterError("Invalid search parameter: %s", k)
		}
		if len(params[k]) > 1 {
			return Filter{}, core.NewInvalidParameterError("Repeated search parameter: %s", k)
		}
		set(&filter, core.CleanString(params.Get(k)))
	}
	return filter, nil
}
