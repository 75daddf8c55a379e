// Package models holds the domain types exchanged with the Canvas API and
// the local store. JSON tags follow the Canvas REST wire format.
package models

import "time"

// Term is one enrollment term as reported by the accounts/{id}/terms endpoint.
type Term struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	StartAt   *time.Time `json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	CreatedAt *time.Time `json:"created_at"`
}

// Date returns the most representative date for ordering terms: the end date
// if present, else the start date, else the creation date.
func (t Term) Date() time.Time {
	switch {
	case t.EndAt != nil:
		return *t.EndAt
	case t.StartAt != nil:
		return *t.StartAt
	case t.CreatedAt != nil:
		return *t.CreatedAt
	default:
		return time.Time{}
	}
}
