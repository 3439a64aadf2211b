package workspace

import (
	"encoding/json"
	"testing"
	"time"
)

func decodePage(t *testing.T, raw string) Page {
	t.Helper()
	var p Page
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return p
}

func TestTitleText_FoundByKindNotName(t *testing.T) {
	p := decodePage(t, `{
		"id": "p1",
		"properties": {
			"Qualquer Nome": {"type": "title", "title": [{"plain_text": "  Impressora quebrada  "}]}
		}
	}`)
	if got := p.TitleText(DefaultTitle); got != "Impressora quebrada" {
		t.Fatalf("TitleText = %q", got)
	}
}

func TestTitleText_EmptyOrMissing_Fallback(t *testing.T) {
	empty := decodePage(t, `{"id":"p1","properties":{"T":{"type":"title","title":[]}}}`)
	if got := empty.TitleText(DefaultTitle); got != DefaultTitle {
		t.Fatalf("empty title: got %q", got)
	}
	missing := decodePage(t, `{"id":"p2","properties":{}}`)
	if got := missing.TitleText(DefaultTitle); got != DefaultTitle {
		t.Fatalf("missing title: got %q", got)
	}
}

func TestStatusName_PrefersStatusTagOverSelect(t *testing.T) {
	p := decodePage(t, `{
		"id": "p1",
		"properties": {
			"Status": {"type": "status", "status": {"name": "Em aberto"}, "select": {"name": "errado"}}
		}
	}`)
	if got := p.StatusName("Status", DefaultStatus); got != "Em aberto" {
		t.Fatalf("StatusName = %q", got)
	}
}

func TestStatusName_SelectShapeAccepted(t *testing.T) {
	p := decodePage(t, `{
		"id": "p1",
		"properties": {"Status": {"type": "select", "select": {"name": "Designado"}}}
	}`)
	if got := p.StatusName("Status", DefaultStatus); got != "Designado" {
		t.Fatalf("StatusName = %q", got)
	}
}

func TestStatusName_Missing_Fallback(t *testing.T) {
	p := decodePage(t, `{"id":"p1","properties":{}}`)
	if got := p.StatusName("Status", DefaultStatus); got != DefaultStatus {
		t.Fatalf("StatusName = %q", got)
	}
}

func TestSelectName_Fallbacks(t *testing.T) {
	p := decodePage(t, `{
		"id": "p1",
		"properties": {
			"Tipo": {"type": "select", "select": {"name": "Hardware"}},
			"Vazio": {"type": "select", "select": null}
		}
	}`)
	if got := p.SelectName("Tipo", DefaultType); got != "Hardware" {
		t.Fatalf("Tipo = %q", got)
	}
	if got := p.SelectName("Vazio", DefaultType); got != DefaultType {
		t.Fatalf("Vazio = %q", got)
	}
	if got := p.SelectName("Inexistente", DefaultType); got != DefaultType {
		t.Fatalf("Inexistente = %q", got)
	}
}

func TestPeopleNames_Resolution(t *testing.T) {
	p := decodePage(t, `{
		"id": "p1",
		"properties": {
			"Responsável": {"type": "people", "people": [
				{"id": "u1", "name": "Ana"},
				{"id": "u2"},
				{"id": ""}
			]}
		}
	}`)
	got := p.PeopleNames("Responsável", DefaultOwner)
	want := []string{"Ana", "Usuário u2", DefaultOwner}
	if len(got) != len(want) {
		t.Fatalf("PeopleNames = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PeopleNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPeopleNames_Empty_Nil(t *testing.T) {
	p := decodePage(t, `{"id":"p1","properties":{"Responsável":{"type":"people","people":[]}}}`)
	if got := p.PeopleNames("Responsável", DefaultOwner); got != nil {
		t.Fatalf("PeopleNames = %v, want nil", got)
	}
}

func TestFirstFileURL_PrefersHostedFile(t *testing.T) {
	p := decodePage(t, `{
		"id": "p1",
		"properties": {
			"Anexos": {"type": "files", "files": [
				{"type": "file", "file": {"url": "https://host/internal.png"}, "external": {"url": "https://ext/x.png"}}
			]}
		}
	}`)
	if got := p.FirstFileURL("Anexos"); got != "https://host/internal.png" {
		t.Fatalf("FirstFileURL = %q", got)
	}
}

func TestFirstFileURL_ExternalFallbackAndEmpty(t *testing.T) {
	ext := decodePage(t, `{
		"id": "p1",
		"properties": {"Anexos": {"type": "files", "files": [{"type": "external", "external": {"url": "https://ext/x.png"}}]}}
	}`)
	if got := ext.FirstFileURL("Anexos"); got != "https://ext/x.png" {
		t.Fatalf("external FirstFileURL = %q", got)
	}
	none := decodePage(t, `{"id":"p2","properties":{"Anexos":{"type":"files","files":[]}}}`)
	if got := none.FirstFileURL("Anexos"); got != "" {
		t.Fatalf("empty FirstFileURL = %q", got)
	}
}

func TestValidURL(t *testing.T) {
	p := decodePage(t, `{
		"id": "p1",
		"properties": {
			"Link": {"type": "url", "url": "https://example.com/doc"},
			"Ruim": {"type": "url", "url": "nota-solta"},
			"Nulo": {"type": "url", "url": null}
		}
	}`)
	if got := p.ValidURL("Link"); got != "https://example.com/doc" {
		t.Fatalf("Link = %q", got)
	}
	if got := p.ValidURL("Ruim"); got != "" {
		t.Fatalf("Ruim = %q, want empty", got)
	}
	if got := p.ValidURL("Nulo"); got != "" {
		t.Fatalf("Nulo = %q, want empty", got)
	}
}

func TestPage_CreatedTimeDecodes(t *testing.T) {
	p := decodePage(t, `{"id":"p1","created_time":"2026-02-01T10:00:00Z","properties":{}}`)
	want := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	if !p.CreatedTime.Equal(want) {
		t.Fatalf("CreatedTime = %v", p.CreatedTime)
	}
}
