package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"invoicehub-backend/config"
	"invoicehub-backend/logger"
)

func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithAppError writes err using its AppError status. Unexpected errors are logged and
// carry their stack outside production.
func RespondWithAppError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	if appErr.Status >= http.StatusInternalServerError {
		log := logger.WithComponent("http")
		log.Error().Err(appErr.Err).Str("path", c.Request.URL.Path).Msg("request failed")
		if !config.App.IsProduction() && appErr.Err != nil {
			body["detail"] = appErr.Err.Error()
			body["stack"] = fmt.Sprintf("%+v", appErr.Err)
		}
	}
	c.AbortWithStatusJSON(appErr.Status, body)
}

// BindingErrors turns a gin binding error into an AppError with a field to message map.
func BindingErrors(err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return BadRequest("Invalid input: " + err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonFieldName(fe)] = validationMessage(fe)
	}
	return ValidationError(fields)
}

func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		ns = fe.Field()
	}
	return lowerFirst(ns)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}

// Pagination is parsed from ?page=&limit= query parameters.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

const maxPageSize = 100

func GetPagination(c *gin.Context) Pagination {
	p := Pagination{Page: 1, Limit: 10}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p
}

// Paged is the list response envelope.
func Paged(data interface{}, total int64, p Pagination) gin.H {
	return gin.H{
		"data":         data,
		"totalRecords": total,
		"page":         p.Page,
		"limit":        p.Limit,
	}
}

// SearchPattern builds a case-insensitive LIKE pattern for the ?search= parameter.
func SearchPattern(c *gin.Context) (string, bool) {
	q := strings.TrimSpace(c.Query("search"))
	if q == "" {
		return "", false
	}
	return "%" + strings.ToLower(q) + "%", true
}
