package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/api/transport"
	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/pkg/httpcontext"
	taskUC "github.com/fastygo/nexus/usecase/task"
)

type TaskService interface {
	Filter(filter taskUC.Filter) []domain.Task
	Get(id string) *domain.Task
	Create(ctx context.Context, input domain.TaskInput) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	AddComment(ctx context.Context, taskID, text string) (*domain.Comment, error)
}

type HistoryReader interface {
	History(entityID string) []domain.ActivityLog
}

type TaskHandler struct {
	baseHandler
	tasks   TaskService
	history HistoryReader
}

func NewTaskHandler(tasks TaskService, history HistoryReader, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		history:     history,
	}
}

// @Summary List visible tasks
// @Tags tasks
// @Param status query string false "pending, in-progress, completed or all"
// @Param q query string false "title search"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	filter := taskUC.Filter{
		Status: string(ctx.QueryArgs().Peek("status")),
		Search: string(ctx.QueryArgs().Peek("q")),
	}
	tasks := h.tasks.Filter(filter)
	h.respondJSON(ctx, http.StatusOK, transport.NewList(tasks, len(tasks)))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.tasks.Create(stdCtx, req.Input())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if created == nil {
		h.respondError(ctx, domain.ErrUnauthorized)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	task := h.tasks.Get(taskID(ctx))
	if task == nil {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Patch task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	var req transport.TaskPatchRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.tasks.Update(stdCtx, taskID(ctx), req.Patch())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if updated == nil {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	removed, err := h.tasks.Delete(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if !removed {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary Comment on task
// @Tags tasks
// @Router /api/v1/tasks/{id}/comments [post]
func (h *TaskHandler) Comment(ctx *fasthttp.RequestCtx) {
	var req transport.CommentRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comment, err := h.tasks.AddComment(stdCtx, taskID(ctx), req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if comment == nil {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, comment)
}

// @Summary Activity history of a task
// @Tags tasks
// @Router /api/v1/tasks/{id}/history [get]
func (h *TaskHandler) History(ctx *fasthttp.RequestCtx) {
	id := taskID(ctx)
	if h.tasks.Get(id) == nil {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}
	entries := h.history.History(id)
	h.respondJSON(ctx, http.StatusOK, transport.NewList(entries, len(entries)))
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
