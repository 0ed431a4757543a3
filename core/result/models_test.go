package result

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tracklearn/core"
)

func TestSelection_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Selection
		wantErr bool
	}{
		{name: "single", data: `"o1"`, want: Selection{"o1"}},
		{name: "empty single", data: `""`, want: Selection{}},
		{name: "many", data: `["o1", "o2"]`, want: Selection{"o1", "o2"}},
		{name: "none", data: `[]`, want: Selection{}},
		{name: "number", data: `1`, wantErr: true},
		{name: "object", data: `{"id": "o1"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Selection
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewResult_Validate(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(i int) *int { return &i }
	valid := func() NewResult {
		return NewResult{
			StudentID:      str(" s1 "),
			ClassroomID:    str("c1"),
			TestID:         str("t1"),
			Score:          num(50),
			TotalQuestions: num(2),
			CorrectAnswers: num(1),
			Status:         str(StatusCompleted),
			StartedAt:      str("2024-03-01T10:00:00Z"),
			EndedAt:        str("2024-03-01T10:20:00Z"),
		}
	}

	tests := []struct {
		name           string
		modify         func(nr *NewResult)
		requireAnswers bool
		wantErr        string
	}{
		{name: "valid"},
		{name: "missing student", modify: func(nr *NewResult) { nr.StudentID = nil }, wantErr: "Missing required field: student_id"},
		{name: "blank test", modify: func(nr *NewResult) { nr.TestID = str(" ") }, wantErr: "Missing required field: test_id"},
		{name: "missing score", modify: func(nr *NewResult) { nr.Score = nil }, wantErr: "Missing required field: score"},
		{name: "missing status", modify: func(nr *NewResult) { nr.Status = nil }, wantErr: "Missing required field: status"},
		{name: "missing ended_at", modify: func(nr *NewResult) { nr.EndedAt = str("") }, wantErr: "Missing required field: ended_at"},
		{name: "answers required", requireAnswers: true, wantErr: "Missing required field: answers"},
		{
			name: "answers provided", requireAnswers: true,
			modify: func(nr *NewResult) { nr.Answers = Answers{"q1": {"o1"}}; nr.Score = num(500) },
		},
		{name: "invalid started_at", modify: func(nr *NewResult) { nr.StartedAt = str("lol") }, wantErr: "Invalid started_at format"},
		{name: "invalid ended_at", modify: func(nr *NewResult) { nr.EndedAt = str("lol") }, wantErr: "Invalid ended_at format"},
		{
			name:    "ended before started",
			modify:  func(nr *NewResult) { nr.EndedAt = str("2024-03-01T09:00:00Z") },
			wantErr: "ended_at must not be before started_at",
		},
		{name: "negative score", modify: func(nr *NewResult) { nr.Score = num(-1) }, wantErr: "score must be between 0 and 100"},
		{name: "negative total", modify: func(nr *NewResult) { nr.TotalQuestions = num(-1) }, wantErr: "total_questions must not be negative"},
		{
			name:    "more correct than total",
			modify:  func(nr *NewResult) { nr.CorrectAnswers = num(3) },
			wantErr: "correct_answers must be between 0 and total_questions",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nr := valid()
			if tt.modify != nil {
				tt.modify(&nr)
			}
			err := nr.Validate(tt.requireAnswers)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, core.IsArgumentKind(err, core.MissingField) || core.IsArgumentKind(err, core.InvalidParameter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s1", *nr.StudentID)
			assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), nr.startedAt)
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Filter
		wantErr string
	}{
		{name: "empty", query: ""},
		{name: "student", query: "student=s1", want: Filter{StudentID: "s1"}},
		{name: "all", query: "student=s1&classroom=c1&test=t1", want: Filter{StudentID: "s1", ClassroomID: "c1", TestID: "t1"}},
		{name: "trimmed", query: "test=%20t1%20", want: Filter{TestID: "t1"}},
		{name: "unknown", query: "student=s1&score=100", wantErr: "Invalid search parameter: score"},
		{name: "first unknown reported", query: "zzz=1&aaa=1", wantErr: "Invalid search parameter: aaa"},
		{name: "repeated", query: "student=s1&student=s2", wantErr: "Repeated search parameter: student"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseFilter(params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
