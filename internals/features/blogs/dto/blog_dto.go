// file: internals/features/blogs/dto/blog_dto.go
package dto

import (
	"math"
	"strings"

	"github.com/lib/pq"

	"schoolchamps_backend/internals/features/blogs/model"
	"schoolchamps_backend/internals/features/workflow"
)

/* =========================================================
   Requests
   ========================================================= */

type UpdateBlogRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Content         *string  `json:"content" validate:"omitempty,min=1"`
	MetaTitle       *string  `json:"meta_title" validate:"omitempty,max=200"`
	MetaDescription *string  `json:"meta_description" validate:"omitempty,max=320"`
	SEOKeywords     []string `json:"seo_keywords" validate:"omitempty,dive,min=1"`
	Tags            []string `json:"tags" validate:"omitempty,dive,min=1"`
	Category        *string  `json:"category" validate:"omitempty,oneof=news achievement event announcement other"`
}

// ApplyToModel copies the set fields onto the model and refreshes the
// derived reading time whenever content changes.
func (r UpdateBlogRequest) ApplyToModel(m *model.BlogModel) {
	if r.Title != nil {
		m.BlogTitle = strings.TrimSpace(*r.Title)
	}
	if r.Content != nil {
		m.BlogContent = *r.Content
		m.BlogReadingTime = EstimateReadingTime(*r.Content)
	}
	if r.MetaTitle != nil {
		m.BlogMetaTitle = *r.MetaTitle
	}
	if r.MetaDescription != nil {
		m.BlogMetaDescription = *r.MetaDescription
	}
	if r.SEOKeywords != nil {
		m.BlogSEOKeywords = pq.StringArray(r.SEOKeywords)
	}
	if r.Tags != nil {
		m.BlogTags = pq.StringArray(r.Tags)
	}
	if r.Category != nil {
		m.BlogCategory = *r.Category
	}
}

type TransitionRequest struct {
	ToStatus workflow.Status `json:"to_status" validate:"required"`
}

// EstimateReadingTime: ~200 words per minute, floor 1.
func EstimateReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / 200.0))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
