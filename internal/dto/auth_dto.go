package dto

type LoginRequest struct {
	Matricula string `json:"matricula" validate:"required"`
	Password  string `json:"password"  validate:"required,min=10"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	Usuario      UsuarioResponse `json:"usuario"`
}

type ResetPasswordRequest struct {
	PasswordNueva string `json:"password_nueva" validate:"required,min=10"`
}
