package controller

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"attention-cv-be/internal/dto"
	"attention-cv-be/internal/pkg/serverutils"
	"attention-cv-be/internal/service"
	"attention-cv-be/pkg/document"

	"github.com/gofiber/fiber/v2"
)

type ISupervisorController interface {
	RegisterRoutes(r fiber.Router)
	Route(ctx *fiber.Ctx) error
	UploadDocument(ctx *fiber.Ctx) error
	GetConversationSummary(ctx *fiber.Ctx) error
	ClearConversation(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	SupportedFormats(ctx *fiber.Ctx) error
}

type supervisorController struct {
	supervisorService service.ISupervisorService
}

func NewSupervisorController(supervisorService service.ISupervisorService) ISupervisorController {
	return &supervisorController{
		supervisorService: supervisorService,
	}
}

func (c *supervisorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("supervisor", c.Route)
	h.Post("upload-document", c.UploadDocument)
	h.Get("conversation/:session_id", c.GetConversationSummary)
	h.Delete("conversation/:session_id", c.ClearConversation)
	h.Get("sessions", c.ListSessions)
	h.Get("document/supported-formats", c.SupportedFormats)
}

func (c *supervisorController) Route(ctx *fiber.Ctx) error {
	var req dto.SupervisorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.supervisorService.Route(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Request routed", res))
}

func (c *supervisorController) UploadDocument(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing 'file' form field")
	}
	sessionID := ctx.FormValue("session_id")

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot open uploaded file")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded file")
	}

	res, err := c.supervisorService.UploadDocument(ctx.Context(), sessionID, fileHeader.Filename, raw)
	if err != nil {
		var unsupported *document.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(
				"Unsupported file format. Supported formats: %s",
				strings.Join(c.supervisorService.SupportedFormats().SupportedFormats, ", "),
			))
		}
		var ingestion *document.IngestionError
		if errors.As(err, &ingestion) {
			return fiber.NewError(fiber.StatusBadRequest, ingestion.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(fmt.Sprintf("Successfully processed %s", fileHeader.Filename), res))
}

func (c *supervisorController) GetConversationSummary(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")

	res, err := c.supervisorService.GetConversationSummary(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation summary", res))
}

func (c *supervisorController) ClearConversation(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")

	res, err := c.supervisorService.ClearConversation(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear conversation", res))
}

func (c *supervisorController) ListSessions(ctx *fiber.Ctx) error {
	res, err := c.supervisorService.ListSessions(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *supervisorController) SupportedFormats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get supported formats", c.supervisorService.SupportedFormats()))
}
