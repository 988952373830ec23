package mines

import "errors"

var (
	ErrInvalidDimensions  = errors.New("board dimensions must be positive")
	ErrOutOfBounds        = errors.New("cell is out of bounds")
	ErrTooManyMines       = errors.New("not enough room for mines")
	ErrMinesAlreadyPlaced = errors.New("mines are already placed")
	ErrInvalidSettings    = errors.New("invalid difficulty settings")
)
