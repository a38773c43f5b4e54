package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/askoura/todolists/internal/auth"
	"github.com/askoura/todolists/internal/flash"
	"github.com/askoura/todolists/internal/models"
	"github.com/askoura/todolists/internal/store"
)

// ListStore defines the interface for list persistence.
type ListStore interface {
	CreateList(ctx context.Context, userID int64, name string) (*models.TodoList, error)
	ListByID(ctx context.Context, id int64) (*models.TodoList, error)
	ListByIDAndOwner(ctx context.Context, id, userID int64) (*models.TodoList, error)
	ListsByOwner(ctx context.Context, userID int64) ([]models.TodoList, error)
	ListByOwnerAndName(ctx context.Context, userID int64, name string) (*models.TodoList, error)
	ListByNameExcept(ctx context.Context, name string, excludeID int64) (*models.TodoList, error)
	RenameList(ctx context.Context, id int64, name string) error
	DeleteList(ctx context.Context, id int64) error
}

// TodoStore defines the interface for task persistence.
type TodoStore interface {
	CreateTodo(ctx context.Context, listID int64, task string, dueDate *string) (*models.Todo, error)
	TodoByID(ctx context.Context, id int64) (*models.Todo, error)
	TodosByList(ctx context.Context, listID int64) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, id int64, task string, dueDate *string) error
	ToggleTodo(ctx context.Context, id int64) error
	DeleteTodo(ctx context.Context, id int64) error
	ReorderTodos(ctx context.Context, ids []int64) error
}

// Handler holds the list and task HTTP handlers.
type Handler struct {
	lists ListStore
	todos TodoStore
}

func NewHandler(lists ListStore, todos TodoStore) *Handler {
	return &Handler{lists: lists, todos: todos}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ViewResponse is the payload the frontend renders for a list page.
type ViewResponse struct {
	Lists         []models.TodoList `json:"lists"`
	CurrentList   *models.TodoList  `json:"current_list"`
	Todos         []models.Todo     `json:"todos"`
	Flash         []flash.Message   `json:"flash"`
	Authenticated bool              `json:"authenticated"`
}

// demoView is what anonymous visitors see: a fixed list that is never
// persisted. The frontend disables all mutation controls in this mode.
func demoView() ([]models.TodoList, []models.Todo) {
	lists := []models.TodoList{{ID: 0, Name: "Demo list"}}
	todos := []models.Todo{
		{ID: 1, Task: "Welcome to the demo!", Position: 1},
		{ID: 2, Task: "You can drag tasks, but all buttons are disabled.", Position: 2},
		{ID: 3, Task: "Sign up to create and save your own lists (only username and password needed).", Position: 3},
		{ID: 4, Task: "This is a completed task.", Done: true, Position: 4},
	}
	return lists, todos
}

func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func listURL(id int64) string {
	return fmt.Sprintf("/list/%d", id)
}

// Home redirects to the first list owned by the current user, or to the
// demo view for anonymous visitors and owners of nothing.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if userID := auth.UserID(r.Context()); userID != 0 {
		lists, err := h.lists.ListsByOwner(r.Context(), userID)
		if err != nil {
			http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
			return
		}
		if len(lists) > 0 {
			http.Redirect(w, r, listURL(lists[0].ID), http.StatusFound)
			return
		}
	}
	http.Redirect(w, r, listURL(0), http.StatusFound)
}

// ViewList returns a list page payload. Authenticated users only ever see
// lists they own; a request for someone else's list falls back to their own
// first list. Anonymous visitors get the demo list.
func (h *Handler) ViewList(w http.ResponseWriter, r *http.Request) {
	listID, err := urlID(r, "listID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	userID := auth.UserID(r.Context())
	if userID == 0 {
		lists, todos := demoView()
		writeJSON(w, http.StatusOK, ViewResponse{
			Lists:       lists,
			CurrentList: &lists[0],
			Todos:       todos,
			Flash:       flash.Pop(w, r),
		})
		return
	}

	lists, err := h.lists.ListsByOwner(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	current, err := h.lists.ListByIDAndOwner(r.Context(), listID, userID)
	if errors.Is(err, store.ErrNotFound) {
		if len(lists) > 0 {
			http.Redirect(w, r, listURL(lists[0].ID), http.StatusFound)
			return
		}
		current = nil
	} else if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	todos := []models.Todo{}
	if current != nil {
		todos, err = h.todos.TodosByList(r.Context(), current.ID)
		if err != nil {
			http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
			return
		}
		if todos == nil {
			todos = []models.Todo{}
		}
	}
	if lists == nil {
		lists = []models.TodoList{}
	}

	writeJSON(w, http.StatusOK, ViewResponse{
		Lists:         lists,
		CurrentList:   current,
		Todos:         todos,
		Flash:         flash.Pop(w, r),
		Authenticated: true,
	})
}

// AddList creates a list for the current user. Duplicate names (per owner)
// flash a warning; a blank name is silently ignored.
func (h *Handler) AddList(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	name := trimmedForm(r, "new_list_name")
	if name == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := h.lists.ListByOwnerAndName(r.Context(), userID, name); err == nil {
		flash.Set(w, "warning", fmt.Sprintf("A list named '%s' already exists.", name))
		http.Redirect(w, r, refererOr(r, "/"), http.StatusSeeOther)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	list, err := h.lists.CreateList(r.Context(), userID, name)
	if err != nil {
		log.Printf("create list error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	flash.Set(w, "success", fmt.Sprintf("List '%s' created successfully.", name))
	http.Redirect(w, r, listURL(list.ID), http.StatusSeeOther)
}

// EditList renames a list. The duplicate-name check here spans all owners,
// not just the caller's lists.
func (h *Handler) EditList(w http.ResponseWriter, r *http.Request) {
	listID, err := urlID(r, "listID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := h.lists.ListByID(r.Context(), listID); err != nil {
		notFoundOr500(w, r, err)
		return
	}

	if newName := trimmedForm(r, "new_list_name"); newName != "" {
		if _, err := h.lists.ListByNameExcept(r.Context(), newName, listID); err == nil {
			flash.Set(w, "warning", fmt.Sprintf("A list named '%s' already exists.", newName))
		} else if !errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
			return
		} else if err := h.lists.RenameList(r.Context(), listID, newName); err != nil {
			notFoundOr500(w, r, err)
			return
		} else {
			flash.Set(w, "success", "List name updated.")
		}
	}
	http.Redirect(w, r, listURL(listID), http.StatusSeeOther)
}

// DeleteList removes a list and all of its tasks.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID, err := urlID(r, "listID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	list, err := h.lists.ListByID(r.Context(), listID)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}

	if err := h.lists.DeleteList(r.Context(), listID); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	flash.Set(w, "success", fmt.Sprintf("List '%s' was deleted.", list.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// AddTask appends a task to a list. Blank text is silently ignored.
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	listID, err := urlID(r, "listID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if task := trimmedForm(r, "task"); task != "" {
		dueDate, ok := formDueDate(w, r)
		if !ok {
			return
		}
		if _, err := h.todos.CreateTodo(r.Context(), listID, task, dueDate); err != nil {
			log.Printf("create todo error: %v", err)
			http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, listURL(listID), http.StatusSeeOther)
}

// EditTask overwrites a task's text and due date. Blank text skips the
// update entirely, due date included.
func (h *Handler) EditTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := urlID(r, "taskID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	todo, err := h.todos.TodoByID(r.Context(), taskID)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}

	if task := trimmedForm(r, "task"); task != "" {
		dueDate, ok := formDueDate(w, r)
		if !ok {
			return
		}
		if err := h.todos.UpdateTodo(r.Context(), taskID, task, dueDate); err != nil {
			notFoundOr500(w, r, err)
			return
		}
	}
	http.Redirect(w, r, listURL(todo.ListID), http.StatusSeeOther)
}

// ToggleTask flips a task's done flag.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := urlID(r, "taskID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	todo, err := h.todos.TodoByID(r.Context(), taskID)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	if err := h.todos.ToggleTodo(r.Context(), taskID); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	http.Redirect(w, r, listURL(todo.ListID), http.StatusSeeOther)
}

// DeleteTask removes a task and returns to its former list.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := urlID(r, "taskID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	todo, err := h.todos.TodoByID(r.Context(), taskID)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	if err := h.todos.DeleteTodo(r.Context(), taskID); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	http.Redirect(w, r, listURL(todo.ListID), http.StatusSeeOther)
}

// ReorderTasks assigns each submitted task the position matching its index
// in the request, 1-based. Any unknown id fails the whole request.
func (h *Handler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := h.todos.ReorderTodos(r.Context(), req.TaskIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("reorder error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func notFoundOr500(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	log.Printf("store error: %v", err)
	http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
}

// formDueDate reads the optional due_date form field. A blank or absent
// field means no due date. An unparseable one is a 400, written here;
// the false return tells the caller to stop.
func formDueDate(w http.ResponseWriter, r *http.Request) (*string, bool) {
	raw := r.PostFormValue("due_date")
	if raw == "" {
		return nil, true
	}
	d, err := parseDueDate(raw)
	if err != nil {
		http.Error(w, `{"error":"invalid due date"}`, http.StatusBadRequest)
		return nil, false
	}
	return &d, true
}

func trimmedForm(r *http.Request, field string) string {
	return strings.TrimSpace(r.PostFormValue(field))
}

func refererOr(r *http.Request, fallback string) string {
	if ref := r.Referer(); ref != "" {
		return ref
	}
	return fallback
}
