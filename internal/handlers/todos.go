package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/avelis/habitdo/internal/commands"
	"github.com/avelis/habitdo/internal/middleware"
	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/go-chi/chi/v5"
)

type TodoHandler struct {
	addTodo      *commands.AddTodo
	readTodo     *commands.ReadTodo
	updateTodo   *commands.UpdateTodo
	completeTodo *commands.CompleteTodo
	listTodos    *commands.ListTodos
	deleteTodo   *commands.DeleteTodo
}

func NewTodoHandler(todoRepo repository.TodoRepository) *TodoHandler {
	return &TodoHandler{
		addTodo:      commands.NewAddTodo(todoRepo),
		readTodo:     commands.NewReadTodo(todoRepo),
		updateTodo:   commands.NewUpdateTodo(todoRepo),
		completeTodo: commands.NewCompleteTodo(todoRepo),
		listTodos:    commands.NewListTodos(todoRepo),
		deleteTodo:   commands.NewDeleteTodo(todoRepo),
	}
}

type todoPayload struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	CompletionPoints int      `json:"completionPoints"`
	Categories       []string `json:"categories"`
	Tags             []string `json:"tags"`
	TodoOwnerID      string   `json:"todoOwnerId"`
}

type periodPayload struct {
	PeriodType string           `json:"periodType"`
	Amount     int              `json:"amount"`
	Start      *models.WireTime `json:"start"`
}

type bufferPayload struct {
	BufferType string `json:"bufferType"`
	Amount     int    `json:"amount"`
}

type habitPayload struct {
	todoPayload
	PointsPer int           `json:"pointsPer"`
	Frequency int           `json:"frequency"`
	Period    periodPayload `json:"period"`
	Buffer    bufferPayload `json:"buffer"`
}

type repeatPayload struct {
	RepeatType string   `json:"repeatType"`
	When       []string `json:"when"`
}

type reoccurPayload struct {
	todoPayload
	Repeat   repeatPayload `json:"repeat"`
	Required bool          `json:"required"`
}

func (payload todoPayload) input() commands.TodoInput {
	return commands.TodoInput{
		OwnerID:          payload.TodoOwnerID,
		Name:             payload.Name,
		Description:      payload.Description,
		CompletionPoints: payload.CompletionPoints,
		Categories:       payload.Categories,
		Tags:             payload.Tags,
	}
}

func (payload habitPayload) input() commands.TodoInput {
	input := payload.todoPayload.input()
	var start *time.Time
	if payload.Period.Start != nil {
		converted := time.Time(*payload.Period.Start)
		start = &converted
	}
	input.Habit = &commands.HabitInput{
		PointsPer: payload.PointsPer,
		Frequency: payload.Frequency,
		Period: commands.PeriodInput{
			PeriodType: payload.Period.PeriodType,
			Amount:     payload.Period.Amount,
			Start:      start,
		},
		Buffer: commands.BufferInput{
			BufferType: payload.Buffer.BufferType,
			Amount:     payload.Buffer.Amount,
		},
	}
	return input
}

func (payload reoccurPayload) input() commands.TodoInput {
	input := payload.todoPayload.input()
	input.Reoccur = &commands.ReoccurInput{
		Repeat: commands.RepeatInput{
			RepeatType: payload.Repeat.RepeatType,
			When:       payload.Repeat.When,
		},
		Required: payload.Required,
	}
	return input
}

func (handler *TodoHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var payload todoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handler.create(w, r, payload.input(), models.TodoTypeTask)
}

func (handler *TodoHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var payload habitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handler.create(w, r, payload.input(), models.TodoTypeHabit)
}

func (handler *TodoHandler) CreateReoccur(w http.ResponseWriter, r *http.Request) {
	var payload reoccurPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handler.create(w, r, payload.input(), models.TodoTypeReoccur)
}

func (handler *TodoHandler) create(w http.ResponseWriter, r *http.Request, input commands.TodoInput, todoType models.TodoType) {
	actor := middleware.GetUser(r.Context())
	todo, err := handler.addTodo.Execute(r.Context(), actor, input, todoType)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo.Wire())
}

func (handler *TodoHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	handler.get(w, r, models.TodoTypeTask)
}

func (handler *TodoHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	handler.get(w, r, models.TodoTypeHabit)
}

func (handler *TodoHandler) GetReoccur(w http.ResponseWriter, r *http.Request) {
	handler.get(w, r, models.TodoTypeReoccur)
}

// get reads a todo through the kind-scoped route; an id stored under a
// different kind is not found in this namespace.
func (handler *TodoHandler) get(w http.ResponseWriter, r *http.Request, todoType models.TodoType) {
	actor := middleware.GetUser(r.Context())
	todo, err := handler.readTodo.Execute(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeCommandError(w, err)
		return
	}
	if todo.Type != todoType {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	writeJSON(w, http.StatusOK, todo.Wire())
}

func (handler *TodoHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var payload todoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handler.update(w, r, payload.input(), models.TodoTypeTask)
}

func (handler *TodoHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	var payload habitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handler.update(w, r, payload.input(), models.TodoTypeHabit)
}

func (handler *TodoHandler) UpdateReoccur(w http.ResponseWriter, r *http.Request) {
	var payload reoccurPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handler.update(w, r, payload.input(), models.TodoTypeReoccur)
}

func (handler *TodoHandler) update(w http.ResponseWriter, r *http.Request, input commands.TodoInput, todoType models.TodoType) {
	actor := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")

	existing, err := handler.readTodo.Execute(r.Context(), actor, id)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	if existing.Type != todoType {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}

	todo, err := handler.updateTodo.Execute(r.Context(), actor, id, input)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo.Wire())
}

func (handler *TodoHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	todo, err := handler.completeTodo.Execute(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo.Wire())
}

func (handler *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	ownerID := r.URL.Query().Get("owner")

	todos, err := handler.listTodos.Execute(r.Context(), actor, ownerID)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	wired := make([]any, 0, len(todos))
	for _, todo := range todos {
		wired = append(wired, todo.Wire())
	}
	writeJSON(w, http.StatusOK, wired)
}

func (handler *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if err := handler.deleteTodo.Execute(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeCommandError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeCommandError(w http.ResponseWriter, err error) {
	var validationErr *commands.ValidationError
	switch {
	case errors.Is(err, commands.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, repository.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "todo not found")
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Reason)
	default:
		slog.Error("command failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
