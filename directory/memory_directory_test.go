package directory

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpcomingSlots(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	slots := []TimeSlot{
		{ID: "s1", DoctorID: "d1", Date: "2026-03-10", StartTime: "09:00", Status: StatusAvailable},
		{ID: "s2", DoctorID: "d1", Date: "2026-03-10", StartTime: "11:00", Status: StatusAvailable},
		{ID: "s3", DoctorID: "d1", Date: "2026-03-11", StartTime: "08:00", Status: StatusAvailable},
		{ID: "s4", DoctorID: "d1", Date: "2026-03-10", StartTime: "10:00", Status: StatusBooked},
		{ID: "s5", DoctorID: "d2", Date: "2026-03-12", StartTime: "10:00", Status: StatusAvailable},
		{ID: "s6", DoctorID: "d1", Date: "2026-03-10", StartTime: "10:00", Status: StatusAvailable},
	}
	dir := NewMemoryDirectory(nil, slots)

	got, err := dir.UpcomingSlots(context.Background(), "d1", now, 50)
	require.NoError(t, err)

	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s6", "s2", "s3"}, ids)

	got, err = dir.UpcomingSlots(context.Background(), "d1", now, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLoadMemoryDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	seed := `{"doctors":[{"id":"d1","name":"Dr. A","specialization":"Cardiologist","location":"Mumbai","experience":3,"availability":"Available"}],
	          "slots":[{"id":"s1","doctorId":"d1","date":"2999-01-01","startTime":"10:00","endTime":"10:30","status":"Available"}]}`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	dir, err := LoadMemoryDirectory(path)
	require.NoError(t, err)

	docs, err := dir.FullTextSearch(context.Background(), SearchQuery{Specialty: "cardiologist"}, 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Nil(t, docs[0].Rating)

	slots, err := dir.UpcomingSlots(context.Background(), "d1", time.Now(), 50)
	require.NoError(t, err)
	assert.Len(t, slots, 1)

	_, err = LoadMemoryDirectory(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFullTextRanksByMatchedWords(t *testing.T) {
	dir := NewMemoryDirectory([]Doctor{
		{ID: "a", Specialization: "Pediatric Surgeon"},
		{ID: "b", Specialization: "Cardiac Surgeon"},
	}, nil)

	docs, err := dir.FullTextSearch(context.Background(), SearchQuery{Specialty: "cardiac surgeon"}, 5)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
}

func TestMemoryBookSlot(t *testing.T) {
	dir := NewMemoryDirectory(nil, []TimeSlot{
		{ID: "s1", DoctorID: "d1", DoctorName: "Dr. Rao", Date: "2026-11-02", StartTime: "10:00", Status: StatusAvailable},
		{ID: "s2", DoctorID: "d1", Date: "2026-11-02", StartTime: "11:00", Status: StatusBusy},
	})
	ctx := context.Background()

	got, err := dir.BookSlot(ctx, "d1", "2026-11-02", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, StatusBooked, got.Status)

	_, err = dir.BookSlot(ctx, "d1", "2026-11-02", "10:00")
	assert.ErrorIs(t, err, ErrSlotTaken)
	_, err = dir.BookSlot(ctx, "d1", "2026-11-02", "11:00")
	assert.ErrorIs(t, err, ErrSlotTaken)
	_, err = dir.BookSlot(ctx, "d2", "2026-11-02", "10:00")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	now := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	upcoming, err := dir.UpcomingSlots(ctx, "d1", now, 10)
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	require.NoError(t, dir.ReleaseSlot(ctx, got))
	upcoming, err = dir.UpcomingSlots(ctx, "d1", now, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "s1", upcoming[0].ID)
	assert.ErrorIs(t, dir.ReleaseSlot(ctx, got), ErrSlotNotFound)
}

func TestMemoryBookSlotOneWinner(t *testing.T) {
	dir := NewMemoryDirectory(nil, []TimeSlot{
		{ID: "s1", DoctorID: "d1", Date: "2026-11-02", StartTime: "10:00", Status: StatusAvailable},
	})

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := dir.BookSlot(context.Background(), "d1", "2026-11-02", "10:00"); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrSlotTaken)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
