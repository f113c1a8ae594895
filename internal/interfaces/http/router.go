package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Comprobantes ComprobanteService
	RIDE         RIDEDownloader
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Comprobantes electrónicos SRI
	comprobantes := protected.Group("/comprobantes")
	handler := NewComprobanteHandler(deps.Comprobantes, deps.RIDE)
	comprobantes.Post("/", handler.Emit)
	comprobantes.Get("/:accessKey", handler.GetByAccessKey)
	comprobantes.Post("/:accessKey/authorize", handler.Authorize)
	comprobantes.Get("/:accessKey/xml", handler.DownloadXML)
	comprobantes.Get("/:accessKey/ride", handler.DownloadRIDE)
}
