package hack

import (
	"strings"

	"hackshare/internal/validate"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicy = bluemonday.StrictPolicy()
	bodyPolicy  = bluemonday.UGCPolicy()
)

func init() {
	bodyPolicy.RequireNoReferrerOnLinks(true)
	bodyPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

type CreateInput struct {
	Title       string   `json:"title" validate:"required,max=150"`
	Description string   `json:"description" validate:"required,max=500"`
	Category    Category `json:"category" validate:"required,oneof=general note-taking time-saver time-management health planning education university finance technology fashion others"`
	Body        string   `json:"body" validate:"required"`
}

func plainText(s string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}

func richText(s string) string {
	return strings.TrimSpace(bodyPolicy.Sanitize(s))
}

// Sanitize strips markup from the plain-text fields and limits the body to
// safe user content.
func (in CreateInput) Sanitize() CreateInput {
	return CreateInput{
		Title:       plainText(in.Title),
		Description: plainText(in.Description),
		Category:    Category(strings.TrimSpace(string(in.Category))),
		Body:        richText(in.Body),
	}
}

func ValidateCreate(in CreateInput) validate.Errors {
	return validate.Struct(in)
}

func (p Patch) Sanitize() Patch {
	var out Patch
	if p.Title != nil {
		s := plainText(*p.Title)
		out.Title = &s
	}
	if p.Description != nil {
		s := plainText(*p.Description)
		out.Description = &s
	}
	if p.Category != nil {
		c := Category(strings.TrimSpace(string(*p.Category)))
		out.Category = &c
	}
	if p.Body != nil {
		s := richText(*p.Body)
		out.Body = &s
	}
	return out
}

func ValidatePatch(p Patch) validate.Errors {
	if p.Empty() {
		return validate.Errors{{Field: "patch", Message: "at least one field must be provided"}}
	}
	return validate.Struct(p)
}
