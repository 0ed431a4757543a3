package assignment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tracklearn/core"
)

// Assignment links a test to a classroom. (ClassroomID, TestID) is unique.
type Assignment struct {
	ClassroomID string      `json:"classroom_id" db:"classroom_id"`
	TestID      string      `json:"test_id" db:"test_id"`
	UnitID      null.String `json:"unit_id" db:"unit_id"`
	AssignedAt  time.Time   `json:"assigned_at" db:"assigned_at"` // UTC
	DueDate     null.Time   `json:"due_date" db:"due_date"`       // UTC
	TimeLimit   null.Int    `json:"time_limit" db:"time_limit"`   // minutes
	Visibility  bool        `json:"visibility" db:"visibility"`
	IsMandatory bool        `json:"is_mandatory" db:"is_mandatory"`
}

// Summary is an Assignment as listed for a classroom.
type Summary struct {
	TestID      string      `json:"test_id" db:"test_id"`
	TestName    string      `json:"test_name" db:"test_name"`
	UnitID      null.String `json:"unit_id" db:"unit_id"`
	UnitName    null.String `json:"unit_name" db:"unit_name"`
	AssignedAt  time.Time   `json:"assigned_at" db:"assigned_at"`
	DueDate     null.Time   `json:"due_date" db:"due_date"`
	TimeLimit   null.Int    `json:"time_limit" db:"time_limit"`
	Visibility  bool        `json:"visibility" db:"visibility"`
	IsMandatory bool        `json:"is_mandatory" db:"is_mandatory"`
}

// NewAssignment is the body of an assign request. Only ClassroomID and TestID are required.
// Empty strings count as omitted.
type NewAssignment struct {
	ClassroomID *string `json:"classroom_id"`
	TestID      *string `json:"test_id"`
	UnitID      *string `json:"unit_id"`
	DueDate     *string `json:"due_date"`
	TimeLimit   *int    `json:"time_limit"`
	Visibility  *bool   `json:"visibility"`
	IsMandatory *bool   `json:"is_mandatory"`

	dueDate null.Time
}

func (na *NewAssignment) Validate() error {
	if na.ClassroomID == nil || core.CleanString(*na.ClassroomID) == "" {
		return core.NewMissingFieldError("classroom_id")
	}
	if na.TestID == nil || core.CleanString(*na.TestID) == "" {
		return core.NewMissingFieldError("test_id")
	}
	*na.ClassroomID = core.CleanString(*na.ClassroomID)
	*na.TestID = core.CleanString(*na.TestID)

	if na.UnitID != nil {
		if id := core.CleanString(*na.UnitID); id != "" {
			*na.UnitID = id
		} else {
			na.UnitID = nil
		}
	}
	if na.DueDate != nil && core.CleanString(*na.DueDate) != "" {
		due, err := core.ParseTimestamp(*na.DueDate)
		if err != nil {
			return core.NewInvalidParameterError("Invalid due_date format")
		}
		na.dueDate = null.TimeFrom(due)
	}
	if na.TimeLimit != nil && *na.TimeLimit <= 0 {
		return core.NewInvalidParameterError("time_limit must be a positive number of minutes")
	}
	return nil
}

func (na *NewAssignment) assignment(now time.Time) Assignment {
	a := Assignment{
		ClassroomID: *na.ClassroomID,
		TestID:      *na.TestID,
		UnitID:      null.StringFromPtr(na.UnitID),
		AssignedAt:  now,
		DueDate:     na.dueDate,
		Visibility:  true,
	}
	if na.TimeLimit != nil {
		a.TimeLimit = null.IntFrom(*na.TimeLimit)
	}
	if na.Visibility != nil {
		a.Visibility = *na.Visibility
	}
	if na.IsMandatory != nil {
		a.IsMandatory = *na.IsMandatory
	}
	return a
}
