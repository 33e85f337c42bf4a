package handlers

import (
	"net/http"

	"blogapi/internal/blog"
	"blogapi/internal/models"
	"blogapi/internal/query"
	"blogapi/internal/respond"
)

// Blogs groups the blog HTTP handlers. Each handler resolves the caller
// once and hands the subject to the service explicitly.
type Blogs struct {
	blogs    *blog.Service
	resolver SubjectResolver
}

// NewBlogs creates a Blogs handler group.
func NewBlogs(blogs *blog.Service, resolver SubjectResolver) *Blogs {
	return &Blogs{blogs: blogs, resolver: resolver}
}

// Create handles POST /blogs.
func (h *Blogs) Create(w http.ResponseWriter, r *http.Request) {
	subject, err := requireSubject(h.resolver, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var in models.BlogInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.blogs.Create(r.Context(), subject, in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, b)
}

// List handles GET /blogs: the public feed of published blogs.
func (h *Blogs) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	listing, err := h.blogs.ListPublished(r.Context(), blog.PublicParams{
		Page:   query.ParsePage(q.Get("page"), q.Get("limit")),
		Search: q.Get("search"),
		Sort: query.Sort{
			Field: query.ParseSortField(q.Get("sortBy")),
			Order: query.ParseOrder(q.Get("order")),
		},
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listing)
}

// Mine handles GET /blogs/user/my-blogs.
func (h *Blogs) Mine(w http.ResponseWriter, r *http.Request) {
	subject := h.resolver.Resolve(r)
	q := r.URL.Query()

	listing, err := h.blogs.ListMine(r.Context(), subject, blog.OwnerParams{
		Page:  query.ParsePage(q.Get("page"), q.Get("limit")),
		State: q.Get("state"),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listing)
}

// Get handles GET /blogs/{id}.
func (h *Blogs) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.blogs.Get(r.Context(), h.resolver.Resolve(r), blogID(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, b)
}

// Update handles PUT /blogs/{id}. Only the fields present in the body
// change.
func (h *Blogs) Update(w http.ResponseWriter, r *http.Request) {
	subject, err := requireSubject(h.resolver, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var patch models.BlogPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.blogs.Update(r.Context(), subject, blogID(r), patch)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /blogs/{id}.
func (h *Blogs) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.blogs.Delete(r.Context(), h.resolver.Resolve(r), blogID(r)); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Blog deleted successfully"})
}

// ChangeState handles PATCH /blogs/{id}/state.
func (h *Blogs) ChangeState(w http.ResponseWriter, r *http.Request) {
	subject, err := requireSubject(h.resolver, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var body struct {
		State string `json:"state"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.blogs.ChangeState(r.Context(), subject, blogID(r), body.State)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, b)
}
