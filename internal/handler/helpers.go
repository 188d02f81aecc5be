package handler

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbcx07/SISTRA/internal/apierror"
	"github.com/mbcx07/SISTRA/internal/middleware"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeInvalidInput, "JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// actorFromClaims rebuilds the acting principal from the validated JWT.
func actorFromClaims(c *gin.Context) *service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, _ := uuid.Parse(claims.UserID)
	return &service.Actor{
		ID:        id,
		Matricula: claims.Matricula,
		Nombre:    claims.Nombre,
		Role:      rbac.Role(claims.Rol),
		Unidad:    claims.Unidad,
		OOAD:      claims.OOAD,
	}
}

// statusForCode maps the business taxonomy onto HTTP statuses.
func statusForCode(code service.Code) int {
	switch code {
	case service.CodeInvalidSession:
		return http.StatusUnauthorized
	case service.CodeUnauthorized:
		return http.StatusForbidden
	case service.CodeInvalidInput, service.CodeWeakCredential:
		return http.StatusUnprocessableEntity
	case service.CodeWorkflowViolation, service.CodeCapExceeded:
		return http.StatusConflict
	case service.CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError translates service errors into the API envelope. Unknown errors
// surface as opaque 500s so internals never leak.
func writeError(c *gin.Context, err error) {
	if e, ok := service.AsError(err); ok {
		env := apierror.New(string(e.Code), e.Detail)
		for _, s := range e.AllowedNext {
			env.EstatusSiguientes = append(env.EstatusSiguientes, string(s))
		}
		c.JSON(statusForCode(e.Code), env)
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apierror.New(apierror.CodeInternal, "Error interno del servidor"))
}

// parseID extracts a UUID path param, writing the 400 on failure.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeInvalidInput, "ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}
