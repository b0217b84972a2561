package park

import (
	"context"
	"sort"
)

// Service expone lecturas del parque (dashboard) y la inicialización de la grilla.
type Service struct {
	dinos DinoRepository
	grid  GridRepository
}

func NewService(dinos DinoRepository, grid GridRepository) *Service {
	return &Service{dinos: dinos, grid: grid}
}

// InitGrid crea las 416 celdas si todavía no existen.
// Devuelve true si efectivamente sembró la grilla.
func (s *Service) InitGrid(ctx context.Context) (bool, error) {
	return s.grid.Seed(ctx, GridLocations())
}

func (s *Service) ListGrid(ctx context.Context) ([]GridCell, error) {
	cells, err := s.grid.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return LessLocation(cells[i].Location, cells[j].Location)
	})
	return cells, nil
}

func (s *Service) ListDinos(ctx context.Context) ([]Dino, error) {
	return s.dinos.List(ctx)
}
