// Package dto holds the wire shapes of the business context API
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/period"
)

// CreateRequest is the body of POST /api/context. Strategic entries use the
// context_* fields, events the event_* fields.
type CreateRequest struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`

	ContextCategory    string `json:"context_category"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	ContextTitle       string `json:"context_title"`
	ContextDescription string `json:"context_description"`

	EventCategory    string `json:"event_category"`
	EventDate        string `json:"event_date"`
	ImpactEndDate    string `json:"impact_end_date"`
	EventTitle       string `json:"event_title"`
	EventDescription string `json:"event_description"`

	Magnitude             string `json:"magnitude"`
	ComparisonSignificant *bool  `json:"comparison_significant"`
	CreatedBy             string `json:"created_by"`
}

// Fields returns category, title, description, start and end for the
// request's kind
func (r CreateRequest) Fields(kind businesscontext.Kind) (category, title, description, start, end string) {
	if kind == businesscontext.KindEvent {
		return r.EventCategory, r.EventTitle, r.EventDescription, r.EventDate, r.ImpactEndDate
	}
	return r.ContextCategory, r.ContextTitle, r.ContextDescription, r.StartDate, r.EndDate
}

// Item is one entry as listed by GET /api/context
type Item struct {
	Type     businesscontext.Kind `json:"type"`
	ClientID string               `json:"client_id"`

	ContextID          *uuid.UUID `json:"context_id,omitempty"`
	ContextCategory    string     `json:"context_category,omitempty"`
	StartDate          string     `json:"start_date,omitempty"`
	EndDate            *string    `json:"end_date,omitempty"`
	ContextTitle       string     `json:"context_title,omitempty"`
	ContextDescription *string    `json:"context_description,omitempty"`

	EventID          *uuid.UUID `json:"event_id,omitempty"`
	EventCategory    string     `json:"event_category,omitempty"`
	EventDate        string     `json:"event_date,omitempty"`
	ImpactEndDate    *string    `json:"impact_end_date,omitempty"`
	EventTitle       string     `json:"event_title,omitempty"`
	EventDescription *string    `json:"event_description,omitempty"`

	Magnitude             businesscontext.Magnitude `json:"magnitude"`
	ComparisonSignificant bool                      `json:"comparison_significant"`
	Source                string                    `json:"source"`
	SourceDocument        string                    `json:"source_document,omitempty"`
	CreatedBy             string                    `json:"created_by"`
	CreatedAt             time.Time                 `json:"created_at"`
	UpdatedAt             time.Time                 `json:"updated_at"`
}

// ToItem converts an entry into its list representation
func ToItem(e businesscontext.Entry) Item {
	item := Item{
		Type:                  e.Kind,
		ClientID:              e.ClientID,
		Magnitude:             e.Magnitude,
		ComparisonSignificant: e.ComparisonSignificant,
		Source:                e.Source,
		SourceDocument:        e.SourceDocument,
		CreatedBy:             e.CreatedBy,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
	id := e.ID
	start := e.StartDate.Format(period.DateLayout)
	var end *string
	if e.EndDate != nil {
		s := e.EndDate.Format(period.DateLayout)
		end = &s
	}
	desc := e.Description

	if e.Kind == businesscontext.KindEvent {
		item.EventID = &id
		item.EventCategory = e.Category
		item.EventDate = start
		item.ImpactEndDate = end
		item.EventTitle = e.Title
		item.EventDescription = &desc
		return item
	}
	item.ContextID = &id
	item.ContextCategory = e.Category
	item.StartDate = start
	item.EndDate = end
	item.ContextTitle = e.Title
	item.ContextDescription = &desc
	return item
}

// ListResponse is the body of GET /api/context
type ListResponse struct {
	Success  bool   `json:"success"`
	ClientID string `json:"clientId"`
	Items    []Item `json:"items"`
	Count    int    `json:"count"`
}
