package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/config"
	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/validation"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, actor *Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, actor *Actor, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, actor *Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ResetPassword(ctx context.Context, actor *Actor, id uuid.UUID, nueva string) error
	DesactivarUsuario(ctx context.Context, actor *Actor, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, actor *Actor, id uuid.UUID) error
}

type authService struct {
	repo  repository.UsuarioRepository
	audit AuditSink
	cfg   *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, audit AuditSink, cfg *config.Config) AuthService {
	return &authService{repo: repo, audit: audit, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if msg := validation.ValidaLogin(req.Matricula, req.Password); msg != "" {
		return nil, Errf(CodeInvalidInput, "%s", msg)
	}

	user, err := s.repo.FindByMatricula(ctx, req.Matricula)
	if err != nil {
		// Mismo mensaje exista o no la matrícula.
		return nil, Errf(CodeUnauthorized, "Credenciales inválidas.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.audit.Append(ctx, &model.Bitacora{
			Categoria: model.BitacoraSistema,
			Accion:    "LOGIN_FALLIDO",
			Usuario:   strings.ToUpper(req.Matricula),
			Fecha:     time.Now(),
		})
		return nil, Errf(CodeUnauthorized, "Credenciales inválidas.")
	}

	return s.buildLoginResponse(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, Errf(CodeInvalidSession, "Refresh token inválido o expirado.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, Errf(CodeInvalidSession, "Token mal formado.")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, Errf(CodeInvalidSession, "Token mal formado.")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, Errf(CodeInvalidSession, "Token mal formado.")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, Errf(CodeInvalidSession, "Usuario no encontrado o inactivo.")
	}
	return s.buildLoginResponse(user)
}

func (s *authService) buildLoginResponse(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Usuario:      usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID.String(),
		"matricula": user.Matricula,
		"nombre":    user.Nombre,
		"rol":       string(user.Role),
		"unidad":    user.Unidad,
		"ooad":      user.OOAD,
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ── Administración de usuarios (sólo ADMIN_SISTEMA) ─────────────────────────

func (s *authService) requireAdmin(actor *Actor) error {
	if actor == nil {
		return Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}
	if actor.Role != rbac.AdminSistema {
		return Errf(CodeUnauthorized, "Sólo ADMIN_SISTEMA puede administrar usuarios.")
	}
	return nil
}

func (s *authService) CrearUsuario(ctx context.Context, actor *Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if faltas := validation.ValidaFortalezaPassword(req.Password); len(faltas) > 0 {
		return nil, Errf(CodeWeakCredential, "La contraseña no cumple la política: %s.", strings.Join(faltas, "; "))
	}
	role := rbac.Role(req.Role)
	if !rbac.Valida(role) {
		return nil, Errf(CodeInvalidInput, "Rol desconocido: %s.", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		ID:           uuid.New(),
		Matricula:    strings.ToUpper(strings.TrimSpace(req.Matricula)),
		Nombre:       req.Nombre,
		PasswordHash: string(hash),
		Role:         role,
		Unidad:       req.Unidad,
		OOAD:         req.OOAD,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, &model.Bitacora{
		Categoria: model.BitacoraSistema,
		Accion:    "USUARIO_CREADO",
		Usuario:   actor.Matricula,
		Datos:     map[string]any{"matricula": user.Matricula, "rol": req.Role},
		Fecha:     time.Now(),
	})
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, actor *Actor, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	var (
		users []model.Usuario
		err   error
	)
	if incluirInactivos {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		out = append(out, usuarioToResponse(&users[i]))
	}
	return out, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, actor *Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errf(CodeNotFound, "Usuario %s no encontrado.", id)
		}
		return nil, err
	}
	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.Role != nil {
		role := rbac.Role(*req.Role)
		if !rbac.Valida(role) {
			return nil, Errf(CodeInvalidInput, "Rol desconocido: %s.", *req.Role)
		}
		user.Role = role
	}
	if req.Unidad != nil {
		user.Unidad = *req.Unidad
	}
	if req.OOAD != nil {
		user.OOAD = *req.OOAD
	}
	if req.Password != nil {
		if faltas := validation.ValidaFortalezaPassword(*req.Password); len(faltas) > 0 {
			return nil, Errf(CodeWeakCredential, "La contraseña no cumple la política: %s.", strings.Join(faltas, "; "))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ResetPassword(ctx context.Context, actor *Actor, id uuid.UUID, nueva string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if faltas := validation.ValidaFortalezaPassword(nueva); len(faltas) > 0 {
		return Errf(CodeWeakCredential, "La contraseña no cumple la política: %s.", strings.Join(faltas, "; "))
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(CodeNotFound, "Usuario %s no encontrado.", id)
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(nueva), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.audit.Append(ctx, &model.Bitacora{
		Categoria: model.BitacoraSistema,
		Accion:    "PASSWORD_RESTABLECIDA",
		Usuario:   actor.Matricula,
		Datos:     map[string]any{"matricula": user.Matricula},
		Fecha:     time.Now(),
	})
	return nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, actor *Actor, id uuid.UUID) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivarUsuario(ctx context.Context, actor *Actor, id uuid.UUID) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	return s.repo.Reactivar(ctx, id)
}
