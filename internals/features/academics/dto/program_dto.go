// file: internals/features/academics/dto/program_dto.go
package dto

type CreateProgramRequest struct {
	Code   string `json:"code" validate:"required,max=20"`
	Name   string `json:"name" validate:"required,max=120"`
	Degree string `json:"degree" validate:"omitempty,max=10"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateProgramRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=120"`
	Degree *string `json:"degree" validate:"omitempty,max=10"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}
