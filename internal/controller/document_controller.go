package controller

import (
	"io"
	"strings"

	"chainchat-be/internal/pkg/serverutils"
	"chainchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Sources(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	maxUploadSize   int
}

func NewDocumentController(documentService service.IDocumentService, maxUploadSize int) IDocumentController {
	return &documentController{
		documentService: documentService,
		maxUploadSize:   maxUploadSize,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("upload", c.Upload)
	h.Get("sources", c.Sources)
}

// Upload accepts a plain-text document as a multipart file. Extraction
// from richer formats (PDF and friends) happens upstream of this
// service; only already-extracted text arrives here.
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file field")
	}

	if fileHeader.Size > int64(c.maxUploadSize) {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file exceeds the maximum accepted size")
	}

	filename := fileHeader.Filename
	if !hasTextExtension(filename) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "only plain-text documents are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res := c.documentService.Add(ctx.Context(), string(content), filename)
	if !res.Success {
		// Duplicates carry the existing document id; everything else is
		// a bad upload.
		status := fiber.StatusBadRequest
		if res.DocumentId != "" {
			status = fiber.StatusConflict
		}
		return ctx.Status(status).JSON(res)
	}
	return ctx.JSON(res)
}

func (c *documentController) Sources(ctx *fiber.Ctx) error {
	res := c.documentService.Sources()
	return ctx.JSON(serverutils.SuccessResponse("Success get sources", res))
}

func hasTextExtension(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range []string{".txt", ".md", ".markdown", ".text"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
