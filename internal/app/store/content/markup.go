package contentstore

import (
	"errors"
	"fmt"

	"github.com/dalemusser/stratapage/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratapage/internal/domain/models"
)

// ErrMarkup is returned when a copy field of an update contains HTML.
var ErrMarkup = errors.New("must be plain text")

// MarkupError names the first copy field that contains HTML.
type MarkupError struct {
	Field string
}

func (e *MarkupError) Error() string { return e.Field + " " + ErrMarkup.Error() }

func (e *MarkupError) Unwrap() error { return ErrMarkup }

type copyField struct {
	name  string
	value string
}

// checkCopy rejects markup in the copy fields of the supplied sections.
// Copy is stored exactly as given once it passes. URL fields
// (background_image, maps_url, social links) are not checked.
func checkCopy(upd models.ContentUpdate) error {
	var fields []copyField
	add := func(section string, kv ...string) {
		for i := 0; i+1 < len(kv); i += 2 {
			fields = append(fields, copyField{section + "." + kv[i], kv[i+1]})
		}
	}

	if h := upd.Hero; h != nil {
		add("hero", "main_title", h.MainTitle, "subtitle", h.Subtitle,
			"description", h.Description, "launch_message", h.LaunchMessage)
	}
	if a := upd.About; a != nil {
		add("about", "title", a.Title, "description", a.Description)
	}
	if s := upd.Social; s != nil {
		add("social", "title", s.Title, "subtitle", s.Subtitle)
	}
	if e := upd.Expectations; e != nil {
		add("expectations", "title", e.Title)
		for i, item := range e.Items {
			add("expectations", fmt.Sprintf("items[%d]", i), item)
		}
	}
	if c := upd.ContactPreview; c != nil {
		add("contact_preview", "title", c.Title)
	}
	if f := upd.Footer; f != nil {
		add("footer", "studio_name", f.StudioName, "tagline", f.Tagline,
			"copyright_text", f.CopyrightText)
	}
	if c := upd.ContactInfo; c != nil {
		add("contact_info", "email", c.Email, "phone", c.Phone,
			"working_hours", c.WorkingHours)
	}
	if a := upd.StudioAddress; a != nil {
		add("studio_address", "line1", a.Line1, "line2", a.Line2, "line3", a.Line3)
	}

	for _, f := range fields {
		if htmlsanitize.HasMarkup(f.value) {
			return &MarkupError{Field: f.name}
		}
	}
	return nil
}
