package models

// GroupCategory is a named grouping scheme within a course ("Lab partners",
// "Project teams"). Groups is assembled client-side from separate endpoints.
type GroupCategory struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Groups []Group `json:"groups,omitempty"`
}

type Group struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	GroupCategoryID int           `json:"group_category_id"`
	Members         []GroupMember `json:"members,omitempty"`
}

type GroupMember struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SortableName string `json:"sortable_name"`
}
