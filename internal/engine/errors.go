package engine

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

var (
	ErrCapacityConflict           = errors.New("occupied spots exceed requested capacity")
	ErrOccupiedSpotsExist         = errors.New("lot has occupied spots")
	ErrDuplicateActiveReservation = errors.New("user already has an active reservation")
	ErrNoAvailableSpot            = errors.New("no available spots in lot")
	ErrClockSkew                  = errors.New("exit time is before entry time")
)
