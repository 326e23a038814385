package controller

import (
	"io"

	"tuddy-chat-be/internal/pkg/apperror"
	"tuddy-chat-be/internal/pkg/serverutils"
	"tuddy-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IArtifactController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetMyArtifacts(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type artifactController struct {
	artifactService service.IArtifactService
}

func NewArtifactController(artifactService service.IArtifactService) IArtifactController {
	return &artifactController{
		artifactService: artifactService,
	}
}

func (c *artifactController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/file/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.GetMyArtifacts)
	h.Delete(":id", c.Delete)
}

func (c *artifactController) Upload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Validation("file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apperror.Validation("failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return apperror.Validation("failed to read uploaded file")
	}

	res, err := c.artifactService.Upload(ctx.Context(), userId, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("File queued for indexing", res))
}

func (c *artifactController) GetMyArtifacts(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.artifactService.GetMyArtifacts(ctx.Context(), userId, ctx.Query("status"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get files", res))
}

func (c *artifactController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	artifactId, _ := uuid.Parse(idParam)

	err := c.artifactService.Delete(ctx.Context(), userId, artifactId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete file", nil))
}
