package domain

import "time"

type User struct {
	UserID         string     `json:"id" dynamodbav:"user_id"`
	IDType         string     `json:"id_type" dynamodbav:"id_type"`
	Identification string     `json:"identification" dynamodbav:"identification"`
	FirstName      string     `json:"first_name" dynamodbav:"first_name"`
	LastName       string     `json:"last_name" dynamodbav:"last_name"`
	Email          string     `json:"email" dynamodbav:"email"`
	Phone          *string    `json:"phone" dynamodbav:"phone"`
	Username       string     `json:"username" dynamodbav:"username"`
	PasswordHash   string     `json:"-" dynamodbav:"password_hash"`
	RoleID         string     `json:"role_id" dynamodbav:"role_id"`
	RoleName       string     `json:"role" dynamodbav:"role_name"`
	Enable         bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	IDType         string  `json:"id_type" validate:"required"`
	Identification string  `json:"identification" validate:"required"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone"`
	Username       string  `json:"username" validate:"required"`
	Password       string  `json:"password" validate:"required,min=8,max=72"`
	RoleName       string  `json:"role" validate:"required,oneof=admin customer"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Username  *string `json:"username"`
	RoleName  *string `json:"role" validate:"omitempty,oneof=admin customer"`
}
