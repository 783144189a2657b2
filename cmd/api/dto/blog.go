package dto

import (
	"encoding/json"
	"time"

	"blog-api/models"
)

// BlogDTO exposes a post to API consumers. ID is the ObjectID hex string.
type BlogDTO struct {
	ID          string    `json:"id" example:"6650f1c2a1b2c3d4e5f60718"`
	Title       string    `json:"title" example:"Hello"`
	Author      string    `json:"author" example:"Bob"`
	Description string    `json:"description" example:"First post"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Revision    int64     `json:"revision" example:"0"`
}

// NewBlogDTO constructs BlogDTO from models.BlogPost
func NewBlogDTO(b models.BlogPost) BlogDTO {
	return BlogDTO{
		ID:          b.ID.Hex(),
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Revision:    b.Revision,
	}
}

// BlogRequestDTO is the body of POST /blogs and PUT /blog/id/{id}.
// Data is decoded strictly into models.BlogPatch by the handler.
type BlogRequestDTO struct {
	Data json.RawMessage `json:"data" swaggertype:"object"`
}

// BlogResponseDTO wraps a single post.
type BlogResponseDTO struct {
	Message string  `json:"message" example:"blog fetched successfully"`
	Blog    BlogDTO `json:"blog"`
}

// BlogListResponseDTO wraps a list of posts.
type BlogListResponseDTO struct {
	Message string    `json:"message" example:"blogs fetched successfully"`
	Count   int       `json:"count" example:"1"`
	Blogs   []BlogDTO `json:"blogs"`
}

// NewBlogListResponse builds the list envelope; Blogs is never null.
func NewBlogListResponse(message string, blogs []BlogDTO) BlogListResponseDTO {
	if blogs == nil {
		blogs = []BlogDTO{}
	}
	return BlogListResponseDTO{Message: message, Count: len(blogs), Blogs: blogs}
}

// HealthResponseDTO is returned by the liveness and readiness probes.
type HealthResponseDTO struct {
	Status    string    `json:"status" example:"ok"`
	Store     string    `json:"store,omitempty" example:"up"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
