package inmemdb

import (
	"context"

	"github.com/trezcool/tracklearn/core/classroom"
)

type classroomRepository struct {
	db *DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db *DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func (repo *classroomRepository) CreateClassroom(_ context.Context, cls classroom.Classroom) (classroom.Classroom, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cls.ID = newID()
	repo.db.classrooms[cls.ID] = &cls
	return cls, nil
}

func (repo *classroomRepository) GetClassroom(_ context.Context, id string) (classroom.Classroom, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cls, ok := repo.db.classrooms[id]; ok {
		return *cls, nil
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *classroomRepository) enrollmentIndex(classroomID, studentID string) int {
	for i, enr := range repo.db.enrollments {
		if enr.ClassroomID == classroomID && enr.StudentID == studentID {
			return i
		}
	}
	return -1
}

func (repo *classroomRepository) CreateEnrollment(_ context.Context, enr classroom.Enrollment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.enrollmentIndex(enr.ClassroomID, enr.StudentID) >= 0 {
		return classroom.ErrAlreadyEnrolled
	}
	repo.db.enrollments = append(repo.db.enrollments, enr)
	return nil
}

func (repo *classroomRepository) DeleteEnrollment(_ context.Context, classroomID, studentID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.enrollmentIndex(classroomID, studentID)
	if i < 0 {
		return classroom.ErrEnrollmentNotFound
	}
	repo.db.enrollments = append(repo.db.enrollments[:i], repo.db.enrollments[i+1:]...)
	return nil
}

func (repo *classroomRepository) IsEnrolled(_ context.Context, classroomID, studentID string) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.enrollmentIndex(classroomID, studentID) >= 0, nil
}

func (repo *classroomRepository) QueryClassroomStudents(_ context.Context, classroomID string) ([]classroom.StudentSummary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]classroom.StudentSummary, 0)
	for _, enr := range repo.db.enrollments {
		if enr.ClassroomID != classroomID {
			continue
		}
		if usr, ok := repo.db.users[enr.StudentID]; ok {
			students = append(students, classroom.StudentSummary{
				ID:       usr.ID,
				Name:     usr.Name,
				Username: usr.Username,
				Email:    usr.Email,
			})
		}
	}
	return students, nil
}
