package handlers

import (
	"errors"
	"strings"

	"secondlife/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type pageParams struct {
	Limit  int
	Cursor string
}

func parsePage(c *gin.Context, defaultLimit, maxLimit int) (pageParams, error) {
	limit, err := utils.QueryLimit(c, defaultLimit, maxLimit)
	if err != nil {
		return pageParams{}, err
	}
	return pageParams{Limit: limit, Cursor: strings.TrimSpace(c.Query("cursor"))}, nil
}

// queryParam returns the trimmed value of key checked against a validator tag.
// An absent or empty parameter yields "".
func queryParam(c *gin.Context, key, tag string) (string, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return "", nil
	}
	if err := utils.Validator().Var(value, tag); err != nil {
		rule := tag
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			rule = verrs[0].Tag()
		}
		return "", utils.BadRequest("Invalid input.").WithDetails([]utils.FieldIssue{{Field: key, Rule: rule}})
	}
	return value, nil
}

// requiredQueryParam is queryParam for parameters that must be present.
func requiredQueryParam(c *gin.Context, key string) (string, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return "", utils.BadRequest("Invalid input.").WithDetails([]utils.FieldIssue{{Field: key, Rule: "required"}})
	}
	return value, nil
}
