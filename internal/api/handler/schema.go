package handler

import "time"

// errorResponse documents the envelope rendered by the HTTP error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"user already exists"`
}

type messageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

// --- Account requests ---

type signUpRequest struct {
	Name     string `json:"name"     validate:"required,displayname"`
	Email    string `json:"email"    validate:"required,contactemail"`
	Password string `json:"password" validate:"required,min=6,max=20,strongpassword"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitnil,displayname"`
	Email *string `json:"email" validate:"omitnil,contactemail"`
	Role  *string `json:"role"  validate:"omitnil,oneof=admin tailor"`
}

type changePasswordRequest struct {
	Password        string `json:"password"        validate:"required,min=6,max=20,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"           validate:"required"`
	Password        string `json:"password"        validate:"required,min=6,max=20,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// --- Account responses ---

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type usersEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Users   []userResponse `json:"users"`
}

type loginEnvelope struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type recoveryTokenEnvelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// --- Client requests ---

// MeasurementFields are body measurements in centimeters, flat in the request body.
type MeasurementFields struct {
	Shoulder     *float64 `json:"shoulder"     validate:"omitempty,gte=0"`
	Chest        *float64 `json:"chest"        validate:"omitempty,gte=0"`
	Waist        *float64 `json:"waist"        validate:"omitempty,gte=0"`
	Hips         *float64 `json:"hips"         validate:"omitempty,gte=0"`
	SleeveLength *float64 `json:"sleeveLength" validate:"omitempty,gte=0"`
	Length       *float64 `json:"length"       validate:"omitempty,gte=0"`
	Neck         *float64 `json:"neck"         validate:"omitempty,gte=0"`
	Cuff         *float64 `json:"cuff"         validate:"omitempty,gte=0"`
}

type createClientRequest struct {
	CustomerName string `json:"customerName" validate:"required,notblank"`
	Email        string `json:"email"        validate:"omitempty,contactemail"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
	MeasurementFields
}

type updateClientRequest struct {
	CustomerName *string `json:"customerName" validate:"omitnil,notblank"`
	Email        *string `json:"email"        validate:"omitnil,optionalemail"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
	MeasurementFields
}

// --- Client responses ---

type creatorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type clientResponse struct {
	ID           string           `json:"id"`
	CustomerName string           `json:"customerName"`
	Email        string           `json:"email,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	Address      string           `json:"address,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Shoulder     *float64         `json:"shoulder"`
	Chest        *float64         `json:"chest"`
	Waist        *float64         `json:"waist"`
	Hips         *float64         `json:"hips"`
	SleeveLength *float64         `json:"sleeveLength"`
	Length       *float64         `json:"length"`
	Neck         *float64         `json:"neck"`
	Cuff         *float64         `json:"cuff"`
	UserID       string           `json:"userId"`
	Creator      *creatorResponse `json:"creator,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type clientEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Client  clientResponse `json:"client"`
}

type clientsEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Clients []clientResponse `json:"clients"`
}
