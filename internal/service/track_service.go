package service

import (
	"context"
	"errors"

	"alcyxob/sports-library/internal/domain"
)

var ErrTrackNotFound = errors.New("track not found")

type TrackService interface {
	ListTracks(ctx context.Context) ([]*domain.Track, error)
	GetTrack(ctx context.Context, trackID string) (*domain.Track, error)
	RecordTrack(ctx context.Context, track *domain.Track) error
	DeleteTrack(ctx context.Context, trackID string) error
	ListTrainings(ctx context.Context) ([]*domain.Training, error)
	ListTrainingTypes(ctx context.Context) ([]*domain.TrainingType, error)
	ListMovementTypes(ctx context.Context) ([]*domain.MovementType, error)
}

type trackService struct {
	lib *Library
}

func NewTrackService(lib *Library) TrackService {
	return &trackService{lib: lib}
}

func (s *trackService) ListTracks(ctx context.Context) ([]*domain.Track, error) {
	return FindAllOf[*domain.Track](ctx, s.lib)
}

func (s *trackService) GetTrack(ctx context.Context, trackID string) (*domain.Track, error) {
	track, found, err := Find[*domain.Track](ctx, s.lib, trackID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrTrackNotFound
	}
	return track, nil
}

// RecordTrack stores a track together with its location samples.
func (s *trackService) RecordTrack(ctx context.Context, track *domain.Track) error {
	return s.lib.Add(ctx, track)
}

// DeleteTrack removes the track and its locations. Trainings that reference
// the track are kept.
func (s *trackService) DeleteTrack(ctx context.Context, trackID string) error {
	track, err := s.GetTrack(ctx, trackID)
	if err != nil {
		return err
	}
	return s.lib.Delete(ctx, track)
}

func (s *trackService) ListTrainings(ctx context.Context) ([]*domain.Training, error) {
	return FindAllOf[*domain.Training](ctx, s.lib)
}

func (s *trackService) ListTrainingTypes(ctx context.Context) ([]*domain.TrainingType, error) {
	return FindAllOf[*domain.TrainingType](ctx, s.lib)
}

func (s *trackService) ListMovementTypes(ctx context.Context) ([]*domain.MovementType, error) {
	return FindAllOf[*domain.MovementType](ctx, s.lib)
}
