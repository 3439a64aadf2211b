// Package workspace is the adapter for the external workspace tool that
// holds the ticket and project databases. It exposes a cursor-paginated
// query client and the normalization layer that turns opaque
// property-tagged pages into domain records.
//
// Pages arrive as a mapping of named properties, each tagged with a kind
// (title, rich_text, select, status, people, files, url, date). The kinds
// are decoded once here into a tagged-variant Property type; nothing
// downstream performs ad hoc type assertions on raw JSON.
package workspace

import (
	"net/url"
	"strings"
	"time"
)

// RichText is one text segment of a title or rich-text property.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// SelectOption is the chosen option of a select or status property.
// The two kinds are visually similar in the source tool but structurally
// distinct on the wire, hence the separate Property fields below.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// PagePerson is a user reference inside a people property.
type PagePerson struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// FileURL carries the address of one hosted or external file.
type FileURL struct {
	URL string `json:"url"`
}

// FileRef is one attachment of a files property. Type is "file" for
// internally hosted attachments and "external" for linked ones.
type FileRef struct {
	Name     string   `json:"name,omitempty"`
	Type     string   `json:"type"`
	File     *FileURL `json:"file,omitempty"`
	External *FileURL `json:"external,omitempty"`
}

// DateValue is the payload of a date property.
type DateValue struct {
	Start string `json:"start"`
}

// Property kinds as tagged by the source system.
const (
	KindTitle    = "title"
	KindRichText = "rich_text"
	KindSelect   = "select"
	KindStatus   = "status"
	KindPeople   = "people"
	KindFiles    = "files"
	KindURL      = "url"
	KindDate     = "date"
)

// Property is the tagged-variant decoding of one page property. Type names
// the kind; only the matching payload field is populated. The zero value
// behaves like an absent property, so lookups on missing names fall
// through to the documented defaults without nil checks.
type Property struct {
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Status   *SelectOption `json:"status,omitempty"`
	People   []PagePerson  `json:"people,omitempty"`
	Files    []FileRef     `json:"files,omitempty"`
	URL      *string       `json:"url,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
}

// Page is one record returned by a database query.
type Page struct {
	ID          string              `json:"id"`
	CreatedTime time.Time           `json:"created_time"`
	Properties  map[string]Property `json:"properties"`
}

// prop returns the named property or the zero Property when absent.
func (p Page) prop(name string) Property {
	return p.Properties[name]
}

// TitleText returns the trimmed plain text of the first segment of the
// page's title-kind property, or fallback when the page has no title
// property or its text is empty. The title property is located by kind,
// not by name, because each database names it differently.
func (p Page) TitleText(fallback string) string {
	for _, prop := range p.Properties {
		if prop.Type != KindTitle {
			continue
		}
		if t := firstText(prop.Title); t != "" {
			return t
		}
		break
	}
	return fallback
}

// SelectName returns the display name of the selected option of the named
// select property, or fallback when absent.
func (p Page) SelectName(name, fallback string) string {
	if s := p.prop(name).Select; s != nil && s.Name != "" {
		return s.Name
	}
	return fallback
}

// StatusName returns the display name of the named status property.
// The status kind is checked first via its own tag; a select payload is
// accepted as a fallback because older databases model status as a plain
// select.
func (p Page) StatusName(name, fallback string) string {
	prop := p.prop(name)
	if s := prop.Status; s != nil && s.Name != "" {
		return s.Name
	}
	if s := prop.Select; s != nil && s.Name != "" {
		return s.Name
	}
	return fallback
}

// RichTextFirst returns the trimmed plain text of the first segment of the
// named rich-text property, or "" when absent.
func (p Page) RichTextFirst(name string) string {
	return firstText(p.prop(name).RichText)
}

// PeopleNames maps the named people property to display names, resolving
// each person as: explicit name, else "Usuário <id>", else the provided
// sentinel. An absent or empty property yields nil.
func (p Page) PeopleNames(name, sentinel string) []string {
	people := p.prop(name).People
	if len(people) == 0 {
		return nil
	}
	out := make([]string, 0, len(people))
	for _, person := range people {
		out = append(out, personName(person, sentinel))
	}
	return out
}

// FirstFileURL returns the URL of the first attachment of the named files
// property, preferring an internally hosted file over an external link.
// It returns "" when the property has no attachments.
func (p Page) FirstFileURL(name string) string {
	files := p.prop(name).Files
	if len(files) == 0 {
		return ""
	}
	f := files[0]
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}

// ValidURL returns the named url property only when it parses as a
// well-formed absolute URL; anything else is treated as absent.
func (p Page) ValidURL(name string) string {
	raw := p.prop(name).URL
	if raw == nil {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(*raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return u.String()
}

func firstText(segments []RichText) string {
	if len(segments) == 0 {
		return ""
	}
	return strings.TrimSpace(segments[0].PlainText)
}

func personName(p PagePerson, sentinel string) string {
	if p.Name != "" {
		return p.Name
	}
	if p.ID != "" {
		return "Usuário " + p.ID
	}
	return sentinel
}
