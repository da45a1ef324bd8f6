package engine

import "errors"

var (
	ErrDuplicateName    = errors.New("rover name already registered")
	ErrOutOfBounds      = errors.New("position outside plateau")
	ErrPositionOccupied = errors.New("position already occupied")
	ErrUnknownRover     = errors.New("unknown rover")
)
