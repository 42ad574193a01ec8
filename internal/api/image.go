package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"

	"recipefinder/internal/screen"
)

// DefaultImageSize is the CDN variant fetched for thumbnails.
const DefaultImageSize = "312x231"

var sizePattern = regexp.MustCompile(`^\d{2,4}x\d{2,4}$`)

// RecipeThumbnail proxies a recipe image from the CDN, scaled down to ThumbWidth.
// Meal plan entries carry no image URL, so their cards point here.
func (h *Handler) RecipeThumbnail(c *gin.Context) {
	log := screen.Logger(c.Request.Context())

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid recipe id")
		return
	}
	size := c.DefaultQuery("size", DefaultImageSize)
	if !sizePattern.MatchString(size) {
		c.String(http.StatusBadRequest, "invalid image size")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	data, err := h.Images.RecipeImage(ctx, id, size)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "Image download timed out")
			return
		}
		log.WithError(err).WithField("recipe_id", id).Warn("image download failed")
		c.String(http.StatusBadGateway, "image not available")
		return
	}

	etag := `"` + imageHash(data) + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "public, max-age=86400")
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	thumb, err := thumbnail(data, h.ThumbWidth)
	if err != nil {
		log.WithError(err).WithField("recipe_id", id).Warn("image resize failed")
		c.String(http.StatusBadGateway, "image not available")
		return
	}

	c.Data(http.StatusOK, "image/jpeg", thumb)
}

// imageHash calculates the SHA256 hash of the image data.
func imageHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func thumbnail(data []byte, width uint) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if width > 0 && uint(img.Bounds().Dx()) > width {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
