package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var themeSlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator with the custom rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("themeslug", func(fl validator.FieldLevel) bool {
			return themeSlugPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("isodatetime", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(time.RFC3339Nano, fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// Normalizer is implemented by inputs that trim or default their fields before validation.
type Normalizer interface {
	Normalize()
}

// FieldIssue describes one failed validation rule.
type FieldIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidateStruct normalizes v when supported and checks its validate tags.
func ValidateStruct(v any) error {
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return BadRequest("Invalid input.")
	}
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		issues = append(issues, FieldIssue{Field: field, Rule: fe.Tag(), Param: fe.Param()})
	}
	return BadRequest("Invalid input.").WithDetails(issues)
}

// DecodeStrict decodes a JSON object into dst, rejecting unknown fields.
func DecodeStrict(raw []byte, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return BadRequest("Invalid JSON body.")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return BadRequest("Invalid JSON body.")
		}
		return BadRequest("Invalid input.").WithDetails(err.Error())
	}
	if dec.More() {
		return BadRequest("Invalid JSON body.")
	}
	return nil
}

// ParseBody reads the request body into dst and validates it.
func ParseBody(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return BadRequest("Invalid JSON body.")
	}
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return BadRequest("Invalid JSON body.")
	}
	if err := DecodeStrict(raw, dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

// QueryLimit parses the limit query parameter, applying def when absent.
func QueryLimit(c *gin.Context, def, maxLimit int) (int, error) {
	raw, ok := c.GetQuery("limit")
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > maxLimit {
		return 0, BadRequest("Invalid input.").WithDetails([]FieldIssue{{Field: "limit", Rule: "range", Param: "1-" + strconv.Itoa(maxLimit)}})
	}
	return n, nil
}

// QueryBool parses an optional "true"/"false" query parameter.
func QueryBool(c *gin.Context, key string) (bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return false, nil
	}
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, BadRequest("Invalid boolean query parameter.")
}
