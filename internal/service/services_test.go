package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanService_ListPlansSplitsTemplates(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	second := domain.NewRunningPlan("Half marathon", "", 2, nil, true)
	first := domain.NewRunningPlan("10k", "", 1, nil, true)
	mine := testPlan()
	for _, p := range []*domain.RunningPlan{second, first, mine} {
		require.NoError(t, lib.Add(ctx, p))
	}
	plans := NewPlanService(lib)

	templates, err := plans.ListPlans(ctx, true)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "10k", templates[0].Name)
	assert.Equal(t, "Half marathon", templates[1].Name)

	own, err := plans.ListPlans(ctx, false)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.True(t, own[0].ID().Equal(mine.ID()))
}

func TestPlanService_CompleteUnitPersists(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	plan := testPlan()
	require.NoError(t, lib.Add(ctx, plan))
	plans := NewPlanService(lib)

	for _, entry := range plan.Entries {
		for _, unit := range entry.Units[:1] {
			_, err := plans.CompleteUnit(ctx, plan.ID().String(), unit.ID().String())
			require.NoError(t, err)
		}
	}
	partial, err := plans.GetPlan(ctx, plan.ID().String())
	require.NoError(t, err)
	assert.False(t, partial.IsCompleted())
	assert.Equal(t, 66, partial.PercentCompleted())

	last := plan.Entries[0].Units[1]
	done, err := plans.CompleteUnit(ctx, plan.ID().String(), last.ID().String())
	require.NoError(t, err)
	assert.True(t, done.IsCompleted())

	reloaded, err := plans.GetPlan(ctx, plan.ID().String())
	require.NoError(t, err)
	assert.True(t, reloaded.IsCompleted())
	assert.Equal(t, 100, reloaded.PercentCompleted())

	_, err = plans.CompleteUnit(ctx, plan.ID().String(), "missing")
	assert.ErrorIs(t, err, ErrUnitNotFound)
	_, err = plans.CompleteUnit(ctx, "missing", last.ID().String())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanService_SetStartDate(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	plan := testPlan()
	require.NoError(t, lib.Add(ctx, plan))
	plans := NewPlanService(lib)

	// Thursday
	updated, err := plans.SetStartDate(ctx, plan.ID().String(), time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Monday, updated.StartDate().Weekday())

	reloaded, err := plans.GetPlan(ctx, plan.ID().String())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", reloaded.StartDate().Format("2006-01-02"))
	assert.Equal(t, "2024-05-08", reloaded.EntryDate(reloaded.Entries[1]).Format("2006-01-02"))
}

func TestPlanService_ActivateAndDelete(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	plan := testPlan()
	require.NoError(t, lib.Add(ctx, plan))
	plans := NewPlanService(lib)

	user, err := plans.ActivatePlan(ctx, plan.ID().String())
	require.NoError(t, err)
	assert.True(t, user.ActiveRunningPlanID.Equal(plan.ID()))

	stored, err := NewUserService(lib).GetMe(ctx)
	require.NoError(t, err)
	assert.True(t, stored.HasActivePlan())

	require.NoError(t, plans.DeletePlan(ctx, plan.ID().String()))
	_, err = plans.GetPlan(ctx, plan.ID().String())
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.Zero(t, count(t, lib, domain.KindRunningUnit))

	// the reference is not cascaded
	stored, err = NewUserService(lib).GetMe(ctx)
	require.NoError(t, err)
	assert.True(t, stored.ActiveRunningPlanID.Equal(plan.ID()))
}

func TestUserService_UpdateMe(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	users := NewUserService(lib)

	name := "  Ada "
	pulse := 182
	level := domain.LevelAdvanced
	updated, err := users.UpdateMe(ctx, UserUpdate{FirstName: &name, MaxPulse: &pulse, TrainingLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)

	me, err := users.GetMe(ctx)
	require.NoError(t, err)
	assert.True(t, me.ID().Equal(updated.ID()))
	assert.Equal(t, 182, me.MaxPulse)
	assert.Equal(t, domain.LevelAdvanced, me.TrainingLevel)
	assert.Equal(t, 1, count(t, lib, domain.KindUser))

	negative := -1
	_, err = users.UpdateMe(ctx, UserUpdate{MaxPulse: &negative})
	assert.ErrorIs(t, err, ErrInvalidProfile)
	email := "not-an-email"
	_, err = users.UpdateMe(ctx, UserUpdate{EmailAddress: &email})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestTrackService(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	_, err := lib.SeedCatalog(ctx)
	require.NoError(t, err)
	tracks := NewTrackService(lib)

	track := testTrack()
	require.NoError(t, tracks.RecordTrack(ctx, track))
	training := domain.NewTraining("Run", "", time.Now(), domain.IdentityFor(domain.KindTrainingType, "RUNNING"), track.ID())
	require.NoError(t, lib.Add(ctx, training))

	got, err := tracks.GetTrack(ctx, track.ID().String())
	require.NoError(t, err)
	assert.Len(t, got.Locations, 2)
	assert.InDelta(t, 8.4, got.AverageSpeed(), 0.001)

	require.NoError(t, tracks.DeleteTrack(ctx, track.ID().String()))
	_, err = tracks.GetTrack(ctx, track.ID().String())
	assert.ErrorIs(t, err, ErrTrackNotFound)

	trainings, err := tracks.ListTrainings(ctx)
	require.NoError(t, err)
	assert.Len(t, trainings, 1)

	types, err := tracks.ListTrainingTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 3)
	movements, err := tracks.ListMovementTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, movements, 3)
}

// fakeStorage keeps uploaded objects in memory.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *fakeStorage) PutObject(_ context.Context, key, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStorage) GetObject(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://backups.example/" + key + "?signed", nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func TestBackupService_CreateAndRestore(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	plan := testPlan()
	require.NoError(t, lib.Add(ctx, plan))
	files := &fakeStorage{}
	backups := NewBackupService(lib, files, nil)

	info, err := backups.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Contains(t, info.ObjectKey, "backups/")
	assert.Contains(t, info.DownloadURL, info.ObjectKey)
	assert.Positive(t, info.Size)

	require.NoError(t, lib.Delete(ctx, plan))
	require.NoError(t, backups.RestoreBackup(ctx, info.ObjectKey))
	assert.True(t, exists(t, lib, plan))
	assert.Equal(t, 3, count(t, lib, domain.KindRunningUnit))

	assert.ErrorIs(t, backups.RestoreBackup(ctx, "backups/none.bson"), ErrBackupNotFound)
}

func TestBackupService_Disabled(t *testing.T) {
	backups := NewBackupService(newLibrary(t), nil, nil)
	_, err := backups.CreateBackup(context.Background())
	assert.ErrorIs(t, err, ErrBackupsDisabled)
	assert.ErrorIs(t, backups.RestoreBackup(context.Background(), "x"), ErrBackupsDisabled)
}

func TestBackupService_DeleteBackup(t *testing.T) {
	ctx := context.Background()
	files := &fakeStorage{}
	backups := NewBackupService(newLibrary(t), files, nil)

	info, err := backups.CreateBackup(ctx)
	require.NoError(t, err)
	require.NoError(t, backups.DeleteBackup(ctx, info.ObjectKey))
	assert.ErrorIs(t, backups.RestoreBackup(ctx, info.ObjectKey), ErrBackupNotFound)

	assert.ErrorIs(t, backups.DeleteBackup(ctx, "other/plan.bson"), ErrBackupNotFound)
	assert.ErrorIs(t, backups.DeleteBackup(ctx, "backups/../other/plan.bson"), ErrBackupNotFound)

	disabled := NewBackupService(newLibrary(t), nil, nil)
	assert.ErrorIs(t, disabled.DeleteBackup(ctx, info.ObjectKey), ErrBackupsDisabled)
}
