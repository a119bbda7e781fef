package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = ginCtx.ShouldBindQuery(&req)
		default:
			err = ginCtx.ShouldBindJSON(&req)
		}

		if err != nil {
			ginCtx.JSON(http.StatusBadRequest, newBindErrorResponse(err))
			return
		}

		resp, err := handler(r.requestContext(ginCtx), &req)
		if err != nil {
			ginCtx.JSON(http.StatusOK, newErrorResponse(err))
			return
		}

		ginCtx.JSON(http.StatusOK, newResponse(resp))
	}
}
