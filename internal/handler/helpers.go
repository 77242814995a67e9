package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"koalgroup/internal/apierror"
	"koalgroup/internal/middleware"
	"koalgroup/internal/policy"
	"koalgroup/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
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

	// Report errors under the JSON (or query) name the client sent.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// Returns false and writes the 400 response if either step fails; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Field("non_field_errors", "JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query parameters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Field("non_field_errors", err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.Field("non_field_errors", err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es requerido."
	case "email":
		return "Introduzca una direccion de correo electronico valida."
	case "uuid":
		return "Identificador invalido."
	case "datetime":
		return fmt.Sprintf("Formato invalido, use %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Debe tener al menos %s.", fe.Param())
	case "max":
		return fmt.Sprintf("No puede exceder %s.", fe.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("Valor fuera de rango (%s %s).", fe.Tag(), fe.Param())
	}
	return "Valor invalido."
}

// respondError maps service errors to their HTTP response. Anything unknown
// is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, apierror.NewValidation(verr.Fields))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New(apierror.MsgInvalidCredentials))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, apierror.New(apierror.MsgForbidden))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(apierror.MsgNotFound))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(apierror.MsgConflict))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, apierror.New(apierror.MsgInternal))
	}
}

// callerOf returns the authenticated caller, writing a 401 when the route
// was mounted without JWTAuth.
func callerOf(c *gin.Context) (policy.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New(apierror.MsgAuthRequired))
	}
	return caller, ok
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// An id that cannot exist is indistinguishable from one outside scope.
		c.JSON(http.StatusNotFound, apierror.New(apierror.MsgNotFound))
		return uuid.Nil, false
	}
	return id, true
}
