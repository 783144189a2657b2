package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/cmd/api/dto"
	"blog-api/cmd/api/services"
	"blog-api/models"
)

// bindPatch reads {"data": {...}} into a whitelisted patch.
// An empty body yields an empty patch.
func bindPatch(c *gin.Context) (models.BlogPatch, error) {
	var req dto.BlogRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return models.BlogPatch{}, nil
		}
		return models.BlogPatch{}, &models.ValidationError{Reason: "request body must be a JSON object"}
	}
	return models.DecodeBlogPatch(req.Data)
}

// ListBlogsHandler godoc
// @Summary      List blogs
// @Description  List every blog post in ascending creation order
// @Tags         blogs
// @Produce      json
// @Success      200  {object}  dto.BlogListResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /blogs [get]
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogListResponse("blogs fetched successfully", items))
	}
}

// CreateBlogHandler godoc
// @Summary      Create blog
// @Description  Create a blog post; title, author and description are required
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BlogRequestDTO  true  "{data:{title,author,description}}"
// @Success      201  {object}  dto.BlogResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /blogs [post]
func CreateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		patch, err := bindPatch(c)
		if err != nil {
			respondError(c, err)
			return
		}
		blog, err := svc.Create(c.Request.Context(), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.BlogResponseDTO{Message: "blog created successfully", Blog: *blog})
	}
}

// GetBlogHandler godoc
// @Summary      Get blog by id
// @Tags         blogs
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.BlogResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /blog/id/{id} [get]
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.BlogResponseDTO{Message: "blog fetched successfully", Blog: *blog})
	}
}

// UpdateBlogHandler godoc
// @Summary      Update blog
// @Description  Partially update title, author and/or description; bumps revision
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ObjectID"
// @Param        body  body  dto.BlogRequestDTO  true  "{data:{...}}"
// @Success      200  {object}  dto.BlogResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /blog/id/{id} [put]
func UpdateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		patch, err := bindPatch(c)
		if err != nil {
			respondError(c, err)
			return
		}
		blog, err := svc.Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.BlogResponseDTO{Message: "blog updated successfully", Blog: *blog})
	}
}

// DeleteBlogHandler godoc
// @Summary      Delete blog
// @Tags         blogs
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /blog/id/{id} [delete]
func DeleteBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "blog deleted successfully"})
	}
}

// FindBlogsByAuthorHandler godoc
// @Summary      Find blogs by author
// @Description  Case-insensitive substring match on author
// @Tags         blogs
// @Param        name  query  string  true  "Author name fragment"
// @Produce      json
// @Success      200  {object}  dto.BlogListResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /blog/author [get]
func FindBlogsByAuthorHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.FindByAuthor(c.Request.Context(), c.Query("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogListResponse("blogs fetched successfully", items))
	}
}
