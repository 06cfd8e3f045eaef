// file: internals/features/academics/dto/student_dto.go
package dto

import "github.com/google/uuid"

type CreateStudentRequest struct {
	NIM         string     `json:"nim" validate:"required,max=30"`
	Name        string     `json:"name" validate:"required,max=120"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Phone       string     `json:"phone" validate:"omitempty,max=30"`
	ProgramID   *uuid.UUID `json:"program_id"`
	ProgramText string     `json:"program_text" validate:"omitempty,max=120"` // fallback data lama
	Status      string     `json:"status" validate:"omitempty,oneof=active inactive graduated"`
}

type UpdateStudentRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=120"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	Phone       *string    `json:"phone" validate:"omitempty,max=30"`
	ProgramID   *uuid.UUID `json:"program_id"`
	ProgramText *string    `json:"program_text" validate:"omitempty,max=120"`
	Status      *string    `json:"status" validate:"omitempty,oneof=active inactive graduated"`
}
