package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"course-store/internal/domain"
	"course-store/internal/httpx"
	"course-store/internal/mappers"
	"course-store/internal/providers/scalev"
)

type CourseHandler struct {
	client *scalev.Client
	logger *zap.Logger
}

func NewCourseHandler(client *scalev.Client, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{client: client, logger: logger}
}

// Get serves both the catalog listing and, with ?id=, a single course.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		h.detail(w, r, id)
		return
	}
	h.list(w, r)
}

func (h *CourseHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.client.Products(r.Context())
	if errors.Is(err, scalev.ErrNoProducts) {
		// empty catalog is zero courses, not a failure
		writeJSON(w, http.StatusOK, []domain.Course{})
		return
	}
	if err != nil {
		h.logger.Error("course listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch courses")
		return
	}

	writeJSON(w, http.StatusOK, mappers.CoursesFromProducts(products, h.logger))
}

func (h *CourseHandler) detail(w http.ResponseWriter, r *http.Request, id string) {
	product, err := h.client.ProductByVariant(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "Variant not found")
			return
		}
		h.logger.Error("course detail failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch course")
		return
	}

	course, ok := mappers.CourseDetail(product, id)
	if !ok {
		writeError(w, http.StatusNotFound, "Variant not found")
		return
	}

	writeJSON(w, http.StatusOK, course)
}

func isNotFound(err error) bool {
	if errors.Is(err, scalev.ErrProductNotFound) || errors.Is(err, scalev.ErrNoProducts) {
		return true
	}
	var herr *httpx.HTTPError
	return errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound
}
