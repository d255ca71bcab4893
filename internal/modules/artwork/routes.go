package artwork

import (
	"melodex/internal/domain"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public read path.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/artists/:id/images/:slot", h.serveImage(domain.KindArtist))
	r.GET("/albums/:id/images/:slot", h.serveImage(domain.KindAlbum))
}

// RegisterProtectedRoutes wires every mutating route; the group is expected
// to carry the auth middleware.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	for kind, prefix := range map[domain.EntityKind]string{
		domain.KindArtist: "/artists",
		domain.KindAlbum:  "/albums",
	} {
		g := r.Group(prefix)
		{
			g.POST("/:id/images/:slot", h.applyExternal(kind))
			g.DELETE("/:id/images/:slot", h.deleteImage(kind))
			g.POST("/:id/images/:slot/custom", h.uploadCustom(kind))
			g.GET("/:id/images/:slot/custom", h.listCustom(kind))
		}
	}

	assets := r.Group("/custom-assets")
	{
		assets.POST("/:id/apply", h.ApplyCustomAsset)
		assets.DELETE("/:id", h.DeleteCustomAsset)
	}
}
