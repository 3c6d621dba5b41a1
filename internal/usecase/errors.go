package usecase

import (
	"errors"

	domrepo "FinRisk/internal/domain/repository"
)

var (
	ErrCompanyNotFound = domrepo.ErrCompanyNotFound
	ErrNoSnapshots     = errors.New("company has no financial snapshots")
	ErrYearNotFound    = errors.New("no snapshot for the requested year")
	ErrInvalidSeries   = errors.New("invalid snapshot series")
	ErrInvalidQuery    = errors.New("invalid query")
)
