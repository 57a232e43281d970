package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// RegisterSwagger monta la UI de documentación en /docs si el archivo de
// especificación existe. El middleware de contrib entra en pánico cuando el
// archivo falta, así que sin él la UI se omite y el servidor arranca igual.
func RegisterSwagger(app *fiber.App, filePath string, log *logger.Logger) {
	if _, err := os.Stat(filePath); err != nil {
		log.Warn().Str("file", filePath).
			Msg("swagger.json no encontrado; UI de documentación deshabilitada")
		return
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))
}
