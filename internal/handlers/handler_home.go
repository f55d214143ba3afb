package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome reports that the API is up.
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "LTS Accounting API v1"})
}
