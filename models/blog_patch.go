package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Validation rules shared with the BlogPost struct tags.
const (
	titleRules       = "required,max=100"
	authorRules      = "required,max=100"
	descriptionRules = "required,max=1000"
)

// BlogPatch is the whitelist of client-writable fields.
// A nil field means "not supplied"; on update only supplied fields are merged.
type BlogPatch struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DecodeBlogPatch strictly decodes a payload object. Keys outside the whitelist
// are rejected. A missing or null payload decodes to an empty patch.
func DecodeBlogPatch(raw json.RawMessage) (BlogPatch, error) {
	var p BlogPatch
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return p, nil
	}
	if trimmed[0] != '{' {
		return p, &ValidationError{Field: "data", Reason: "must be an object"}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			return BlogPatch{}, &ValidationError{Field: typeErr.Field, Reason: "must be a string"}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return BlogPatch{}, &ValidationError{Field: field, Reason: "is not an allowed field"}
		default:
			return BlogPatch{}, &ValidationError{Field: "data", Reason: "is not valid JSON"}
		}
	}
	p.Normalize()
	return p, nil
}

// Normalize trims surrounding whitespace of every supplied field.
func (p *BlogPatch) Normalize() {
	for _, f := range []*string{p.Title, p.Author, p.Description} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (p BlogPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Description == nil
}

// Validate checks only the supplied fields.
func (p BlogPatch) Validate() error {
	checks := []struct {
		field string
		value *string
		rules string
	}{
		{"title", p.Title, titleRules},
		{"author", p.Author, authorRules},
		{"description", p.Description, descriptionRules},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if err := validate.Var(*c.value, c.rules); err != nil {
			return translateField(c.field, err)
		}
	}
	return nil
}

// NewBlogPost builds a post for insertion. Every field must be supplied.
func (p BlogPatch) NewBlogPost() (*BlogPost, error) {
	b := &BlogPost{}
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.Description != nil {
		b.Description = strings.TrimSpace(*p.Description)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
