package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/middleware"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

// requireActor writes a 401 and reports false when no authenticated user is present.
func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok || actor.ID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Actor{}, false
	}
	return actor, true
}

func requireParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" is required"))
		return "", false
	}
	return value, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}
