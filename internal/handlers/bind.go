package handlers

import (
	"strings"

	"begw/api_contact/internal/validation"

	"github.com/gin-gonic/gin"
)

// bindSubmission reads the request body into an untyped map so the
// honeypot gate and schema validation see every submitted key,
// including ones no struct declares. JSON bodies keep their value
// types; form-encoded bodies yield strings, which the schema coerces
// for numeric fields.
func bindSubmission(c *gin.Context) (validation.Raw, error) {
	if strings.Contains(c.ContentType(), "json") {
		raw := validation.Raw{}
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}

	raw := validation.Raw{}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}
