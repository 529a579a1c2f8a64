package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/models"
)

func (h *ContentHandler) listBlogPosts(c *gin.Context) {
	posts, err := h.store.ListBlogPosts(c.Request.Context())
	if err != nil {
		h.respondError(c, "list_blog", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *ContentHandler) getBlogPost(c *gin.Context) {
	p, err := h.store.GetBlogPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get_blog", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ContentHandler) getBlogPostBySlug(c *gin.Context) {
	p, err := h.store.GetBlogPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, "get_blog_by_slug", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ContentHandler) createBlogPost(c *gin.Context) {
	var body models.BlogPost
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if body.Title == "" {
		h.respondError(c, "create_blog",
			fmt.Errorf("%w: title обязателен", models.ErrValidation))
		return
	}
	created, err := h.store.CreateBlogPost(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, "create_blog", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler) updateBlogPost(c *gin.Context) {
	var patch models.BlogPostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	updated, err := h.store.UpdateBlogPost(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "update_blog", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler) deleteBlogPost(c *gin.Context) {
	if err := h.store.DeleteBlogPost(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "delete_blog", err)
		return
	}
	c.Status(http.StatusNoContent)
}
