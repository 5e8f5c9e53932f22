package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"mon-auxiliaire/internal/apperr"
	"mon-auxiliaire/internal/middleware"
	"mon-auxiliaire/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var validatorSetup sync.Once

// setupValidator fait remonter le nom JSON du champ dans les erreurs de validation
// et enregistre la règle notblank.
func setupValidator() {
	validatorSetup.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, body := apperr.From(err)
	if status >= 500 {
		h.log.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.RequestID(c)),
		)
	}
	c.JSON(status, body)
}

// normalizer nettoie une requête décodée avant sa validation.
type normalizer interface {
	Normalize()
}

// bind décode le corps JSON, le normalise puis le valide: les règles required et
// min portent donc sur les valeurs débarrassées de leurs espaces.
func bind(c *gin.Context, v any) error {
	if c.Request.Body == nil {
		return apperr.Validation("Corps de requête vide")
	}
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
		return bindingError(err)
	}
	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]apperr.FieldError, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return apperr.Validation("Données invalides", fields...)
	}

	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return apperr.Validation("Données invalides", apperr.FieldError{Field: te.Field, Message: "Type de valeur invalide"})
	}
	if errors.Is(err, io.EOF) {
		return apperr.Validation("Corps de requête vide")
	}
	return apperr.Validation("Corps JSON invalide")
}

// queryError traduit une erreur de ShouldBindQuery.
func queryError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return bindingError(err)
	}
	return apperr.Validation("Paramètres invalides")
}

var layoutNames = map[string]string{
	"2006-01-02": "AAAA-MM-JJ",
	"15:04":      "HH:MM",
}

func fieldMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Ce champ est requis"
	case "min":
		if isText {
			return fmt.Sprintf("Doit contenir au moins %s caractères", fe.Param())
		}
		return fmt.Sprintf("Doit être supérieur ou égal à %s", fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("Doit contenir au plus %s caractères", fe.Param())
		}
		return fmt.Sprintf("Doit être inférieur ou égal à %s", fe.Param())
	case "notblank":
		return "Ce champ ne peut pas être vide"
	case "email":
		return "Adresse e-mail invalide"
	case "oneof":
		return fmt.Sprintf("Valeur non autorisée (attendu : %s)", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("Format invalide (attendu : %s)", layoutNames[fe.Param()])
	default:
		return "Valeur invalide"
	}
}

// attachment pose un Content-Disposition dont le nom de fichier est échappé.
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Identifiant invalide")
	}
	return uint(id), nil
}

// queryID lit un identifiant optionnel dans la query string; 0 si absent.
func queryID(c *gin.Context, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Paramètre invalide", apperr.FieldError{Field: key, Message: "Identifiant invalide"})
	}
	return uint(id), nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

type amount struct {
	field string
	value *decimal.Decimal
}

// checkAmounts refuse les montants négatifs; les montants absents sont ignorés.
func checkAmounts(amounts ...amount) error {
	var fields []apperr.FieldError
	for _, a := range amounts {
		if a.value != nil && a.value.IsNegative() {
			fields = append(fields, apperr.FieldError{Field: a.field, Message: "Le montant ne peut pas être négatif"})
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("Données invalides", fields...)
	}
	return nil
}
