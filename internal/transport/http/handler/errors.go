package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"markmycampus/internal/app"
	"markmycampus/internal/transport/http/response"
)

// writeServiceError maps service errors to status codes; store failures are logged and hidden behind fallback.
func writeServiceError(c *gin.Context, log logrus.FieldLogger, err error, fallback string) {
	switch app.Classify(err) {
	case app.KindValidation, app.KindConflict:
		response.Error(c, http.StatusBadRequest, err.Error())
	case app.KindAuth:
		response.Error(c, http.StatusUnauthorized, err.Error())
	case app.KindNotFound:
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}
