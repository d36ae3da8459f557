package rank

type CreateRankRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Color       string `json:"color" binding:"required"`
	Position    int    `json:"position"`
	Description string `json:"description"`
}

type UpdateRankRequest struct {
	Color       *string `json:"color,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	Description *string `json:"description,omitempty"`
}
