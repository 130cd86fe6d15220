package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) uploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid upload request")
		return
	}

	paths, err := h.images.SaveAll(form.File["images"])
	if err != nil {
		respondFromError(c, err, "could not store images")
		return
	}

	respondMessage(c, "images uploaded", paths)
}
