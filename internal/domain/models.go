// Package domain defines the persistence models for tickets, user
// permissions, and sync runs, plus the transient project records fetched
// from the external workspace tool. Persisted types are mapped with GORM
// and form the core data layer of the dashboard backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Roles assignable to dashboard users. RoleVisitor is the fallback for
// allow-listed users without an explicit role.
const (
	RoleManager = "Gerente"
	RoleIT      = "TI"
	RoleStore   = "Loja"
	RoleVisitor = "Visitante"
)

// ValidRole reports whether role is one of the assignable roles.
// RoleVisitor is derived, never stored, so it is not accepted here.
func ValidRole(role string) bool {
	switch role {
	case RoleManager, RoleIT, RoleStore:
		return true
	}
	return false
}

// Ticket is a normalized incident/request record synchronized from the
// external workspace tool.
//
// Identity: a ticket is uniquely identified by the pair (title, store),
// enforced by ux_ticket_title_store. The source system carries no stable
// identifier for these records, so re-syncs upsert on the natural key and
// two source pages with the same title and store collapse into one row
// (last-write-wins on every mutable field).
//
// Region is always derived from the store label by the region classifier;
// it is never read from a source property.
type Ticket struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	Title     string         `json:"title"    gorm:"type:varchar(255);not null;uniqueIndex:ux_ticket_title_store,priority:1"`
	Store     string         `json:"store"    gorm:"type:varchar(128);not null;uniqueIndex:ux_ticket_title_store,priority:2"`
	Status    string         `json:"status"   gorm:"type:varchar(64);index;not null"`
	Type      string         `json:"type"     gorm:"type:varchar(64);index"`
	Priority  string         `json:"priority" gorm:"type:varchar(32)"`
	Region    string         `json:"region"   gorm:"type:varchar(32);index;not null"`
	Lat       *float64       `json:"lat,omitempty"`
	Lng       *float64       `json:"lng,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// UserPermission maps a user email to a dashboard role. Email is the
// natural key: permissions are created and updated via upsert on email and
// deleted explicitly. No soft delete, no audit trail.
type UserPermission struct {
	ID        string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:ux_permission_email"`
	Role      string    `json:"role"  gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserPermission.
func (UserPermission) TableName() string { return "user_permissions" }

// Sync run outcomes.
const (
	SyncRunOK     = "ok"
	SyncRunFailed = "error"
)

// SyncRun records one execution of the ticket sync pipeline: how many
// records were processed and whether the run completed. Failed runs keep
// the terminal error message only; there is no per-record reporting
// because upserts applied before a fault remain applied.
type SyncRun struct {
	ID         string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Status     string    `json:"status"          gorm:"type:varchar(16);not null;index"`
	Count      int       `json:"count"           gorm:"not null"`
	Error      string    `json:"error,omitempty" gorm:"type:text"`
	StartedAt  time.Time `json:"started_at"      gorm:"not null"`
	FinishedAt time.Time `json:"finished_at"     gorm:"not null;index"`
}

// TableName returns the database table name for SyncRun.
func (SyncRun) TableName() string { return "sync_runs" }

// Person is a responsible party attached to a project, reduced to the
// display name resolved during normalization.
type Person struct {
	Name string `json:"name"`
}

// Project is a curated infrastructure project fetched on demand from the
// external workspace tool. Projects are never persisted: they are
// normalized, filtered through the status/sector allow-lists, and returned
// to the caller directly.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	Status    string    `json:"status"`
	Sector    string    `json:"sector"`
	Priority  string    `json:"priority"`
	Client    string    `json:"client"`
	Owners    []Person  `json:"owners"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
