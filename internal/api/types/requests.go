package types

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"max=200"`
	Description string `json:"description"`
	Audience    string `json:"audience"`
}

// ProjectUpdateRequest changes only the fields present in the body.
type ProjectUpdateRequest struct {
	Name              *string `json:"name" validate:"omitempty,max=200"`
	Description       *string `json:"description"`
	Audience          *string `json:"audience"`
	HasAppendixTab    *bool   `json:"has_appendix_tab"`
	HasMetricLogicTab *bool   `json:"has_metric_logic_tab"`
}

type AutosaveRequest struct {
	Field string `json:"field" validate:"required,oneof=name description audience"`
	Value string `json:"value"`
}

type ChatInputRequest struct {
	Input string `json:"input"`
}

type TaskCreateRequest struct {
	Description string `json:"description" validate:"required"`
}

// TaskUpdateRequest toggles completion, moves the task, or both.
type TaskUpdateRequest struct {
	Completed *bool `json:"completed"`
	Index     *int  `json:"index" validate:"omitempty,gte=0"`
}

type TaskOrderRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids" validate:"required"`
}
