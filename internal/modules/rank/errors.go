package rank

import "errors"

var (
	ErrNameTaken = errors.New("belt rank name already exists")
	ErrNotFound  = errors.New("belt rank not found")
)
