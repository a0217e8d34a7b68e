package docstore

import (
	"context"
	"testing"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/tests/common/builder"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestReservationDocumentRoundTrip(t *testing.T) {
	res := builder.NewReservationBuilder().
		WithStatus(reservation.StatusConfirmed).
		BuildRestored()

	doc := toDocument(res)
	assert.Equal(t, "2025-06-10", doc.Date)
	assert.Equal(t, "19:30", doc.Time)

	got, err := doc.toDomain()
	require.NoError(t, err)
	if diff := cmp.Diff(res.Snapshot(), got.Snapshot()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReservationDocumentLenientFields(t *testing.T) {
	doc := toDocument(builder.NewReservationBuilder().BuildRestored())
	doc.Time = "7pm"
	doc.ConfirmationCode = ""

	got, err := doc.toDomain()
	require.NoError(t, err)
	assert.False(t, got.Slot().HasTime())
	assert.Equal(t, reservation.ConfirmationCodeFor(got.ID()), got.ConfirmationCode())
	assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 10}, got.Slot().Date())
}

func TestReservationDocumentRejectsBadID(t *testing.T) {
	doc := toDocument(builder.NewReservationBuilder().BuildRestored())
	doc.ID = "not-a-uuid"

	_, err := doc.toDomain()
	assert.Error(t, err)
}

func TestDecodeReservations(t *testing.T) {
	good := toDocument(builder.NewReservationBuilder().BuildRestored())

	t.Run("success: every document decoded", func(t *testing.T) {
		cursor, err := mongo.NewCursorFromDocuments([]any{good}, nil, nil)
		require.NoError(t, err)

		got, err := decodeReservations(context.Background(), cursor)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, good.ID, got[0].ID().String())
	})

	t.Run("failure: unreadable document fails the whole list", func(t *testing.T) {
		bad := good
		bad.ID = "not-a-uuid"
		cursor, err := mongo.NewCursorFromDocuments([]any{good, bad}, nil, nil)
		require.NoError(t, err)

		got, err := decodeReservations(context.Background(), cursor)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not-a-uuid")
		assert.Nil(t, got)
	})
}
