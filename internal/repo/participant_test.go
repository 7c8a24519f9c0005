package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
	"github.com/avoss/trip-pantry/internal/store/memory"
)

func newParticipant(t *testing.T, tripID uuid.UUID, name string) domain.Participant {
	t.Helper()
	p, err := domain.NewParticipant(domain.ParticipantInput{TripID: tripID, Name: name})
	require.NoError(t, err)
	return p
}

func TestParticipantRepo_SaveAndFindByTripID(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	tripID := uuid.New()
	require.NoError(t, participants.SaveMany(ctx, []domain.Participant{
		newParticipant(t, tripID, "Bob"),
		newParticipant(t, tripID, "Alice"),
		newParticipant(t, uuid.New(), "Carol"),
	}))

	got, err := participants.FindByTripID(ctx, tripID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name(), "ordered by name")
	assert.Equal(t, "Bob", got[1].Name())
}

func TestParticipantRepo_DuplicateNameInTrip(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	tripID := uuid.New()
	require.NoError(t, participants.Save(ctx, newParticipant(t, tripID, "Alice")))

	err := participants.Save(ctx, newParticipant(t, tripID, "alice"))

	assert.ErrorIs(t, err, domain.ErrDuplicate, "name uniqueness is case-insensitive")
}

func TestParticipantRepo_SameNameInOtherTrip(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	require.NoError(t, participants.Save(ctx, newParticipant(t, uuid.New(), "Alice")))

	err := participants.Save(ctx, newParticipant(t, uuid.New(), "Alice"))

	assert.NoError(t, err)
}

func TestParticipantRepo_ResaveDoesNotCollideWithItself(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	p := newParticipant(t, uuid.New(), "Alice")
	require.NoError(t, participants.Save(ctx, p))

	assert.NoError(t, participants.Save(ctx, p))
}

func TestParticipantRepo_PartialUpdateRenameCollision(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	tripID := uuid.New()
	alice := newParticipant(t, tripID, "Alice")
	bob := newParticipant(t, tripID, "Bob")
	require.NoError(t, participants.SaveMany(ctx, []domain.Participant{alice, bob}))

	err := participants.PartialUpdate(ctx, bob.ID(), domain.ParticipantUpdate{Name: strPtr("Alice")})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestParticipantRepo_PartialUpdateNonNameField(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	p := newParticipant(t, uuid.New(), "Alice")
	require.NoError(t, participants.Save(ctx, p))

	err := participants.PartialUpdate(ctx, p.ID(), domain.ParticipantUpdate{Email: strPtr("alice@example.com")})

	require.NoError(t, err)
	got, err := participants.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email())
	assert.Equal(t, "Alice", got.Name())
}

func TestParticipantRepo_FindByEmail(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	tripID := uuid.New()
	alice, err := domain.NewParticipant(domain.ParticipantInput{
		TripID: tripID, Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, participants.Save(ctx, alice))
	require.NoError(t, participants.Save(ctx, newParticipant(t, tripID, "Bob")))

	got, err := participants.FindByEmail(ctx, "EXAMPLE.com")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name())
}

func TestParticipantRepo_DeleteByTripID(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	tripID := uuid.New()
	require.NoError(t, participants.SaveMany(ctx, []domain.Participant{
		newParticipant(t, tripID, "Alice"),
		newParticipant(t, tripID, "Bob"),
		newParticipant(t, uuid.New(), "Carol"),
	}))

	n, err := participants.DeleteByTripID(ctx, tripID)

	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	total, err := participants.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "participants of other trips are untouched")
}

func TestParticipantRepo_ExistsInTripExcludesSelf(t *testing.T) {
	participants := repo.NewParticipantRepo(memory.New())
	ctx := context.Background()
	p := newParticipant(t, uuid.New(), "Alice")
	require.NoError(t, participants.Save(ctx, p))

	taken, err := participants.ExistsInTrip(ctx, p.TripID(), "ALICE", p.ID())
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = participants.ExistsInTrip(ctx, p.TripID(), "alice", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
}
