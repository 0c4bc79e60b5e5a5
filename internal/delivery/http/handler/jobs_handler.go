package handler

import (
	"job-board/internal/delivery/http/middleware"
	"job-board/internal/domain/job"
	"job-board/internal/pkg/apperror"
	"job-board/internal/pkg/response"
	"job-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	MessageJobCreated  = "Job created successfully"
	MessageJobApproved = "Job approved successfully"
	MessageJobDeleted  = "Job deleted successfully"
)

type JobsHandler struct {
	uc usecase.JobUsecase
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

type jobListResponse struct {
	Jobs []job.Job `json:"jobs"`
}

type jobApprovedResponse struct {
	Message string  `json:"message"`
	Job     job.Job `json:"job"`
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.HandleListJobs)
	r.Post("/", h.HandleCreateJob)
	r.Get("/:id", h.HandleGetJob)
	r.Put("/:id?", h.HandleApproveJob)
	r.Delete("/:id", h.HandleDeleteJob)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return mapJobUsecaseError(err)
	}
	if items == nil {
		items = []job.Job{}
	}
	return response.JSON(c, fiber.StatusOK, jobListResponse{Jobs: items})
}

func (h *JobsHandler) HandleCreateJob(c fiber.Ctx) error {
	if err := h.uc.Create(c.Context(), c.Body()); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, MessageJobCreated)
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	j, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, j)
}

func (h *JobsHandler) HandleApproveJob(c fiber.Ctx) error {
	view, err := h.uc.Approve(c.Context(), c.Params("id"), c.Body())
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, jobApprovedResponse{Message: MessageJobApproved, Job: view})
}

func (h *JobsHandler) HandleDeleteJob(c fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Message(c, fiber.StatusOK, MessageJobDeleted)
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	appErr, ok := apperror.From(err)
	if !ok {
		return middleware.NewAppError(0, response.MessageInternalServerError, nil, err)
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		return middleware.NewAppError(fiber.StatusBadRequest, appErr.Message, appErr.Details, err)
	case apperror.KindMissingParameter:
		return middleware.NewAppError(fiber.StatusBadRequest, appErr.Message, nil, err)
	case apperror.KindNotFound:
		return middleware.NewAppError(fiber.StatusNotFound, appErr.Message, nil, err)
	case apperror.KindStore:
		return middleware.NewAppError(fiber.StatusInternalServerError, appErr.Message, nil, err)
	default:
		return middleware.NewAppError(0, response.MessageInternalServerError, nil, err)
	}
}
