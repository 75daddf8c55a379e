package models

// Student is the roster projection of a Canvas user. SortableName
// ("Last, First") is what download paths are derived from.
type Student struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SortableName string `json:"sortable_name"`
	ShortName    string `json:"short_name"`
	LoginID      string `json:"login_id"`
}
