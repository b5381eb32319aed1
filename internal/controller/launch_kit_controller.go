package controller

import (
	"context"
	"errors"
	"io"
	"strings"

	"marketforge-be/internal/dto"
	"marketforge-be/internal/pkg/serverutils"
	"marketforge-be/internal/service"
	"marketforge-be/pkg/ai/pipeline"
	"marketforge-be/pkg/calendar"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DocumentField is the multipart field carrying the optional product document.
const DocumentField = "file"

type ILaunchKitController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Schedule(ctx *fiber.Ctx) error
}

type launchKitController struct {
	launchKitService service.ILaunchKitService
}

func NewLaunchKitController(launchKitService service.ILaunchKitService) ILaunchKitController {
	return &launchKitController{
		launchKitService: launchKitService,
	}
}

func (c *launchKitController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/launch-kit/v1")
	h.Post("generate", c.Generate)
	h.Post("schedule", c.Schedule)
	h.Get("", c.History)
	h.Get(":id", c.Show)
}

func (c *launchKitController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateLaunchKitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	doc, err := readDocument(ctx)
	if err != nil {
		return err
	}
	req.Document = doc

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.launchKitService.Generate(ctx.UserContext(), &req)
	if err != nil {
		return launchKitError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate launch kit", res))
}

func (c *launchKitController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid launch kit id")
	}

	res, err := c.launchKitService.Show(ctx.UserContext(), id)
	if err != nil {
		return launchKitError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show launch kit", res))
}

func (c *launchKitController) History(ctx *fiber.Ctx) error {
	res, err := c.launchKitService.Recent(ctx.UserContext(), ctx.QueryInt("limit", service.DefaultRecentLimit))
	if err != nil {
		return launchKitError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list launch kits", res))
}

func (c *launchKitController) Schedule(ctx *fiber.Ctx) error {
	var req dto.ScheduleLaunchKitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.launchKitService.Schedule(ctx.UserContext(), &req)
	if err != nil {
		return launchKitError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success schedule launch kit", res))
}

// readDocument returns nil when the request carries no file.
func readDocument(ctx *fiber.Ctx) (*dto.UploadedDocument, error) {
	if !strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := ctx.FormFile(DocumentField)
	if err != nil {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &dto.UploadedDocument{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func launchKitError(err error) error {
	var pipeErr *pipeline.PipelineError
	switch {
	case errors.Is(err, pipeline.ErrEmptyProductIdea):
		return serverutils.NewHTTPError(fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrNothingToSchedule), errors.Is(err, service.ErrMissingProductIdea):
		return serverutils.NewHTTPError(fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrLaunchKitNotFound):
		return serverutils.NewHTTPError(fiber.StatusNotFound, err.Error(), err)
	case errors.Is(err, calendar.ErrUnauthorized):
		return serverutils.NewHTTPError(fiber.StatusUnauthorized, "Google Calendar rejected the access token", err)
	case errors.Is(err, calendar.ErrRateLimited):
		return serverutils.NewHTTPError(fiber.StatusTooManyRequests, "Google Calendar rate limit exceeded", err)
	case errors.As(err, &pipeErr):
		code := fiber.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			code = fiber.StatusGatewayTimeout
		}
		return &serverutils.HTTPError{
			Code:    code,
			Message: pipeErr.Error(),
			Data:    fiber.Map{"stage": pipeErr.Stage},
			Err:     err,
		}
	default:
		return err
	}
}
