package response

import "github.com/gin-gonic/gin"

type ErrorBody struct {
	Error string `json:"error"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Message(c *gin.Context, message string) {
	c.JSON(200, MessageBody{Message: message})
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// Abort writes the error body and stops the handler chain.
func Abort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Error: message})
}
