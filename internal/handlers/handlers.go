package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"staffdesk-backend/internal/auth"
	"staffdesk-backend/internal/events"
	"staffdesk-backend/internal/models"
	"staffdesk-backend/internal/storage"
	"staffdesk-backend/internal/uploads"
)

// EmployeeStore is the slice of the storage layer the employee handlers
// need.
type EmployeeStore interface {
	CreateEmployee(ctx context.Context, emp *models.Employee) error
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, emp *models.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, ownerID, search string) ([]models.Employee, error)
}

var validate = validator.New()

type Handler struct {
	store          EmployeeStore
	uploads        *uploads.Store
	events         events.Publisher
	maxUploadBytes int64
}

func New(store EmployeeStore, uploadStore *uploads.Store, publisher events.Publisher, maxUploadBytes int64) *Handler {
	return &Handler{
		store:          store,
		uploads:        uploadStore,
		events:         publisher,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/api/employees", func(r chi.Router) {
		r.Use(guard)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	// Uploaded profile images
	fileServer := http.FileServer(http.Dir(h.uploads.Dir()))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
}

type employeeInput struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Position   string `json:"position" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// List returns the caller's employees, optionally filtered by ?search=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	employees, err := h.store.ListEmployees(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		log.Printf("Error listing employees: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(employees),
		"data":    employees,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.ownedEmployee(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": emp})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	input, file, filename, err := h.decodeInput(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if file != nil {
		defer file.Close()
	}

	if err := validate.Struct(input); err != nil {
		respondError(w, http.StatusBadRequest, "Please provide first name, last name, a valid email, position and department")
		return
	}

	image := uploads.DefaultImage
	if file != nil {
		name, err := h.uploads.Save(file, filename)
		if err != nil {
			h.respondUploadError(w, err)
			return
		}
		image = name
	}

	emp := &models.Employee{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Position:     input.Position,
		Department:   input.Department,
		ProfileImage: image,
		CreatedBy:    userID,
	}

	if err := h.store.CreateEmployee(r.Context(), emp); err != nil {
		log.Printf("Error creating employee: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.publish(r.Context(), events.ActionCreated, emp)
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "data": emp})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.ownedEmployee(w, r)
	if !ok {
		return
	}

	input, file, filename, err := h.decodeInput(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if file != nil {
		defer file.Close()
	}

	// Partial update: blank fields keep their current value.
	if input.FirstName != "" {
		emp.FirstName = input.FirstName
	}
	if input.LastName != "" {
		emp.LastName = input.LastName
	}
	if input.Email != "" {
		if err := validate.Var(input.Email, "email"); err != nil {
			respondError(w, http.StatusBadRequest, "Please provide a valid email")
			return
		}
		emp.Email = input.Email
	}
	if input.Position != "" {
		emp.Position = input.Position
	}
	if input.Department != "" {
		emp.Department = input.Department
	}

	oldImage := ""
	if file != nil {
		name, err := h.uploads.Save(file, filename)
		if err != nil {
			h.respondUploadError(w, err)
			return
		}
		oldImage = emp.ProfileImage
		emp.ProfileImage = name
	}

	if err := h.store.UpdateEmployee(r.Context(), emp); err != nil {
		log.Printf("Error updating employee: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Row is updated; replacing the old file is best effort.
	if oldImage != "" {
		if err := h.uploads.Remove(oldImage); err != nil {
			log.Printf("Error removing old profile image %s: %v", oldImage, err)
		}
	}

	h.publish(r.Context(), events.ActionUpdated, emp)
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": emp})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.ownedEmployee(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteEmployee(r.Context(), emp.ID); err != nil {
		log.Printf("Error deleting employee: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := h.uploads.Remove(emp.ProfileImage); err != nil {
		log.Printf("Error removing profile image %s: %v", emp.ProfileImage, err)
	}

	h.publish(r.Context(), events.ActionDeleted, emp)
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{}})
}

// ownedEmployee loads the record from the URL and enforces ownership.
// Existence is checked first, so a caller probing someone else's record
// gets a 401 rather than a 404.
func (h *Handler) ownedEmployee(w http.ResponseWriter, r *http.Request) (*models.Employee, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return nil, false
	}

	emp, err := h.store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Employee not found")
			return nil, false
		}
		log.Printf("Error fetching employee: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return nil, false
	}

	if emp.CreatedBy != userID {
		respondError(w, http.StatusUnauthorized, "Not authorized to access this employee")
		return nil, false
	}

	return emp, true
}

// decodeInput reads an employee payload from either a JSON body or a
// multipart form with an optional profileImage file.
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (employeeInput, multipart.File, string, error) {
	var input employeeInput

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return input, nil, "", err
		}

		input.FirstName = r.FormValue("firstName")
		input.LastName = r.FormValue("lastName")
		input.Email = r.FormValue("email")
		input.Position = r.FormValue("position")
		input.Department = r.FormValue("department")

		file, header, err := r.FormFile("profileImage")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return input, nil, "", nil
			}
			return input, nil, "", err
		}
		return input, file, header.Filename, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return input, nil, "", err
	}
	return input, nil, "", nil
}

func (h *Handler) respondUploadError(w http.ResponseWriter, err error) {
	if errors.Is(err, uploads.ErrUnsupportedType) {
		respondError(w, http.StatusBadRequest, "Please upload a jpg, jpeg, png or gif image")
		return
	}
	log.Printf("Error saving upload: %v", err)
	respondError(w, http.StatusInternalServerError, "Server error")
}

func (h *Handler) publish(ctx context.Context, action string, emp *models.Employee) {
	event := events.Event{
		Action:     action,
		EmployeeID: emp.ID,
		OwnerID:    emp.CreatedBy,
		At:         time.Now().UTC(),
	}
	if err := h.events.EmployeeChanged(ctx, event); err != nil {
		log.Printf("Error publishing employee event: %v", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "message": message})
}
