// internal/domain/models/content.go
package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultContentVersion is the version label of the bootstrap document.
const DefaultContentVersion = "1.0"

// DraftVersionLayout formats the version label of a draft (UTC).
const DraftVersionLayout = "20060102_150405"

// ActorSystem is the actor label used for system-created content.
const ActorSystem = "system"

// HeroSection is the top banner of the landing page.
type HeroSection struct {
	MainTitle       string  `bson:"main_title" json:"main_title"`
	Subtitle        string  `bson:"subtitle" json:"subtitle"`
	Description     string  `bson:"description" json:"description"`
	LaunchMessage   string  `bson:"launch_message" json:"launch_message"`
	BackgroundImage *string `bson:"background_image" json:"background_image"` // URL, nil when unset
}

type AboutSection struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}

type SocialSection struct {
	Title    string `bson:"title" json:"title"`
	Subtitle string `bson:"subtitle" json:"subtitle"`
}

type ExpectationsSection struct {
	Title string   `bson:"title" json:"title"`
	Items []string `bson:"items" json:"items"`
}

type ContactPreviewSection struct {
	Title string `bson:"title" json:"title"`
}

type FooterSection struct {
	StudioName    string `bson:"studio_name" json:"studio_name"`
	Tagline       string `bson:"tagline" json:"tagline"`
	CopyrightText string `bson:"copyright_text" json:"copyright_text"`
}

type ContactInfo struct {
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone" json:"phone"`
	WorkingHours string `bson:"working_hours" json:"working_hours"`
}

type StudioAddress struct {
	Line1   string `bson:"line1" json:"line1"`
	Line2   string `bson:"line2" json:"line2"`
	Line3   string `bson:"line3" json:"line3"`
	MapsURL string `bson:"maps_url" json:"maps_url"`
}

type SocialLinks struct {
	Instagram string `bson:"instagram" json:"instagram"`
	Facebook  string `bson:"facebook" json:"facebook"`
	LinkedIn  string `bson:"linkedin" json:"linkedin"`
}

// Sections is the editable payload of a content document.
// Each section is replaced wholesale on update.
type Sections struct {
	Hero           HeroSection           `bson:"hero" json:"hero"`
	About          AboutSection          `bson:"about" json:"about"`
	Social         SocialSection         `bson:"social" json:"social"`
	Expectations   ExpectationsSection   `bson:"expectations" json:"expectations"`
	ContactPreview ContactPreviewSection `bson:"contact_preview" json:"contact_preview"`
	Footer         FooterSection         `bson:"footer" json:"footer"`
	ContactInfo    ContactInfo           `bson:"contact_info" json:"contact_info"`
	StudioAddress  StudioAddress         `bson:"studio_address" json:"studio_address"`
	SocialLinks    SocialLinks           `bson:"social_links" json:"social_links"`
}

// ContentDocument is a full snapshot of landing-page content.
//
// ID is the public identifier (UUID string). The Mongo _id is internal and
// never leaves the store.
type ContentDocument struct {
	MongoID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string             `bson:"id" json:"id"`
	Version     string             `bson:"version" json:"version"`
	IsPublished bool               `bson:"is_published" json:"is_published"`

	Sections `bson:",inline"`

	// Audit fields
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	UpdatedBy string    `bson:"updated_by" json:"updated_by"`
}

func DefaultHero() HeroSection {
	return HeroSection{
		MainTitle:     "Something Extraordinary",
		Subtitle:      "is Coming",
		Description:   "We're crafting a new digital home for our architecture and interior design practice",
		LaunchMessage: "Launching post-Diwali 2025",
	}
}

func DefaultAbout() AboutSection {
	return AboutSection{
		Title: "Who We Are",
		Description: "We are a contemporary architecture and interior design studio based in Ahmedabad, " +
			"specializing in thoughtful spaces that blend modern aesthetics with sustainable practices. " +
			"Our work spans architecture, interior design, master planning, and sustainable design " +
			"solutions that respond to both human needs and environmental consciousness.",
	}
}

func DefaultSocial() SocialSection {
	return SocialSection{
		Title:    "Meanwhile, Find Us Here",
		Subtitle: "Stay connected with our latest projects and design inspiration",
	}
}

func DefaultExpectations() ExpectationsSection {
	return ExpectationsSection{
		Title: "What's Coming",
		Items: []string{
			"Portfolio of completed projects",
			"Our design philosophy and approach",
			"Services we offer",
			"Ways to connect with us",
		},
	}
}

func DefaultContactPreview() ContactPreviewSection {
	return ContactPreviewSection{Title: "Or reach us directly at:"}
}

func DefaultFooter() FooterSection {
	return FooterSection{
		StudioName:    "[Studio Name]",
		Tagline:       "Crafting spaces that inspire and endure",
		CopyrightText: "Designed with passion in Ahmedabad",
	}
}

func DefaultContactInfo() ContactInfo {
	return ContactInfo{
		Email:        "hello@studioname.com",
		Phone:        "+91 98765 43210",
		WorkingHours: "Mon - Sat: 9:00 AM - 6:00 PM",
	}
}

func DefaultStudioAddress() StudioAddress {
	return StudioAddress{
		Line1:   "123 Design District,",
		Line2:   "Vastrapur, Ahmedabad,",
		Line3:   "Gujarat 380015",
		MapsURL: "#",
	}
}

func DefaultSocialLinks() SocialLinks {
	return SocialLinks{Instagram: "#", Facebook: "#", LinkedIn: "#"}
}

// DefaultSections returns a fresh copy of the hard-coded default content.
func DefaultSections() Sections {
	return Sections{
		Hero:           DefaultHero(),
		About:          DefaultAbout(),
		Social:         DefaultSocial(),
		Expectations:   DefaultExpectations(),
		ContactPreview: DefaultContactPreview(),
		Footer:         DefaultFooter(),
		ContactInfo:    DefaultContactInfo(),
		StudioAddress:  DefaultStudioAddress(),
		SocialLinks:    DefaultSocialLinks(),
	}
}

// Clone returns a deep copy so the caller can mutate it freely.
func (s Sections) Clone() Sections {
	out := s
	if s.Hero.BackgroundImage != nil {
		img := *s.Hero.BackgroundImage
		out.Hero.BackgroundImage = &img
	}
	if s.Expectations.Items != nil {
		out.Expectations.Items = append([]string(nil), s.Expectations.Items...)
	}
	return out
}

// ContentUpdate carries the sections to replace. A nil section is left untouched.
//
// When decoded from JSON, each supplied section starts from its defaults and
// is overlaid with the request, so omitted fields take default values rather
// than the stored ones.
type ContentUpdate struct {
	Hero           *HeroSection           `json:"hero,omitempty"`
	About          *AboutSection          `json:"about,omitempty"`
	Social         *SocialSection         `json:"social,omitempty"`
	Expectations   *ExpectationsSection   `json:"expectations,omitempty"`
	ContactPreview *ContactPreviewSection `json:"contact_preview,omitempty"`
	Footer         *FooterSection         `json:"footer,omitempty"`
	ContactInfo    *ContactInfo           `json:"contact_info,omitempty"`
	StudioAddress  *StudioAddress         `json:"studio_address,omitempty"`
	SocialLinks    *SocialLinks           `json:"social_links,omitempty"`
}

// UnmarshalJSON overlays each supplied section onto its defaults.
// A section given as null is treated as absent.
func (u *ContentUpdate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	present := func(key string, dst any) bool {
		msg, ok := raw[key]
		if !ok || string(msg) == "null" || err != nil {
			return false
		}
		err = json.Unmarshal(msg, dst)
		return err == nil
	}

	*u = ContentUpdate{}
	if v := DefaultHero(); present("hero", &v) {
		u.Hero = &v
	}
	if v := DefaultAbout(); present("about", &v) {
		u.About = &v
	}
	if v := DefaultSocial(); present("social", &v) {
		u.Social = &v
	}
	if v := DefaultExpectations(); present("expectations", &v) {
		u.Expectations = &v
	}
	if v := DefaultContactPreview(); present("contact_preview", &v) {
		u.ContactPreview = &v
	}
	if v := DefaultFooter(); present("footer", &v) {
		u.Footer = &v
	}
	if v := DefaultContactInfo(); present("contact_info", &v) {
		u.ContactInfo = &v
	}
	if v := DefaultStudioAddress(); present("studio_address", &v) {
		u.StudioAddress = &v
	}
	if v := DefaultSocialLinks(); present("social_links", &v) {
		u.SocialLinks = &v
	}
	return err
}

// PublishedVersionInfo is the redacted view of the published document.
type PublishedVersionInfo struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
}

// ContentSummary aggregates repository counts for the admin dashboard.
type ContentSummary struct {
	TotalVersions    int64                 `json:"total_versions"`
	DraftCount       int64                 `json:"draft_count"`
	PublishedVersion *PublishedVersionInfo `json:"published_version"`
}
