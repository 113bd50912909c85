package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxUploadSize caps a featured-image upload at 5 MiB.
const maxUploadSize = 5 << 20

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	uploadDir   string
}

// NewPostController creates a new PostController. Uploaded images are
// stored under uploadDir by generated filename.
func NewPostController(postService *services.PostService, uploadDir string) *PostController {
	return &PostController{
		postService: postService,
		uploadDir:   uploadDir,
	}
}

// Index handles GET /api/posts with pagination, search and category filter
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("q")
	if query == "" {
		query = r.URL.Query().Get("search")
	}

	posts, meta, err := pc.postService.List(page, limit, category, query)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]interface{}{
		"data":       posts,
		"pagination": meta,
	})
}

// Show handles GET /api/posts/{idOrSlug}
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.Get(mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]interface{}{"data": post})
}

// Create handles POST /api/posts, accepting JSON or a multipart form with
// an optional image attachment
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		sendError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	input, err := pc.parsePostInput(w, r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := pc.postService.Create(identity, *input)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusCreated, map[string]interface{}{"data": post})
}

// Edit handles PUT /api/posts/{id}
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		sendError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	input, err := pc.parsePostInput(w, r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := pc.postService.Update(identity, id, *input)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]interface{}{"data": post})
}

// Delete handles DELETE /api/posts/{id}
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		sendError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := pc.postService.Delete(identity, id); err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{}})
}

// AddComment handles POST /api/posts/{id}/comments
func (pc *PostController) AddComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		sendError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	comment, err := pc.postService.AddComment(identity, id, req.Content)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusCreated, map[string]interface{}{"data": comment})
}

// postRequest is the JSON body of a create or update. Pointer fields
// distinguish absent from empty.
type postRequest struct {
	Title       *string           `json:"title"`
	Content     *string           `json:"content"`
	Excerpt     *string           `json:"excerpt"`
	Category    *string           `json:"category"`
	Tags        *models.TagList   `json:"tags"`
	IsPublished *models.Published `json:"isPublished"`
}

// parsePostInput reads a post payload from either a JSON body or a
// multipart form, storing the attached image if one was sent.
func (pc *PostController) parsePostInput(w http.ResponseWriter, r *http.Request) (*services.PostInput, error) {
	input := &services.PostInput{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, err
		}

		input.Title = formValue(r, "title")
		input.Content = formValue(r, "content")
		input.Excerpt = formValue(r, "excerpt")
		input.Category = formValue(r, "category")
		if raw := formValue(r, "tags"); raw != nil {
			input.Tags = models.ParseTags(*raw)
		}
		if raw := formValue(r, "isPublished"); raw != nil {
			published := *raw == "true"
			input.IsPublished = &published
		}

		filename, err := pc.saveUpload(r)
		if err != nil {
			return nil, err
		}
		input.Image = filename
		return input, nil
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	input.Title = req.Title
	input.Content = req.Content
	input.Excerpt = req.Excerpt
	input.Category = req.Category
	if req.Tags != nil {
		input.Tags = []string(*req.Tags)
	}
	if req.IsPublished != nil {
		published := bool(*req.IsPublished)
		input.IsPublished = &published
	}
	return input, nil
}

// saveUpload stores the optional image attachment under a generated
// filename and returns the stored name, or nil when no file was sent.
func (pc *PostController) saveUpload(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		file, header, err = r.FormFile("featuredImage")
	}
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := os.MkdirAll(pc.uploadDir, 0755); err != nil {
		return nil, err
	}

	name := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(pc.uploadDir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return nil, err
	}
	return &name, nil
}

func formValue(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
