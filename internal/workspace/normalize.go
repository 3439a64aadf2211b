package workspace

import (
	"time"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/region"
)

// Fallbacks applied during normalization. A missing or malformed property
// is never an error; its field takes the documented default.
const (
	DefaultTitle    = "Sem título"
	DefaultType     = "Indefinido"
	DefaultStatus   = "Sem status"
	DefaultPriority = "Sem prioridade"
	DefaultClient   = "Sem cliente"
	DefaultOwner    = "Sem responsável"
)

// Ticket database property names.
const (
	propStore    = "Loja"
	propStatus   = "Status"
	propType     = "Tipo"
	propPriority = "Prioridade"
)

// Project database property names.
const (
	propSummary = "Resumo"
	propSector  = "Setor"
	propClient  = "Cliente"
	propOwner   = "Responsável"
	propLink    = "Link"
)

// NormalizeTicket converts one source page into a ticket record. The
// region is always computed from the extracted store label, even when the
// source carries a zone-like field; upstream zone data is known-dirty and
// deliberately ignored. CreatedAt falls back to now when the page has no
// creation time.
func NormalizeTicket(p Page, now time.Time) domain.Ticket {
	store := p.RichTextFirst(propStore)
	if store == "" {
		store = p.SelectName(propStore, "")
	}

	createdAt := p.CreatedTime
	if createdAt.IsZero() {
		createdAt = now
	}

	return domain.Ticket{
		Title:     p.TitleText(DefaultTitle),
		Store:     store,
		Status:    p.StatusName(propStatus, DefaultStatus),
		Type:      p.SelectName(propType, DefaultType),
		Priority:  p.SelectName(propPriority, DefaultPriority),
		Region:    region.Classify(store),
		CreatedAt: createdAt,
	}
}

// NormalizeProject converts one source page into a project record.
// Projects with no responsible party get a single sentinel owner.
func NormalizeProject(p Page) domain.Project {
	owners := p.PeopleNames(propOwner, DefaultOwner)
	if len(owners) == 0 {
		owners = []string{DefaultOwner}
	}
	people := make([]domain.Person, 0, len(owners))
	for _, name := range owners {
		people = append(people, domain.Person{Name: name})
	}

	return domain.Project{
		ID:        p.ID,
		Name:      p.TitleText(DefaultTitle),
		Summary:   p.RichTextFirst(propSummary),
		Status:    p.StatusName(propStatus, DefaultStatus),
		Sector:    p.SelectName(propSector, DefaultType),
		Priority:  p.SelectName(propPriority, DefaultPriority),
		Client:    p.SelectName(propClient, DefaultClient),
		Owners:    people,
		Link:      p.ValidURL(propLink),
		CreatedAt: p.CreatedTime,
	}
}
