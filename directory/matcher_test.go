package directory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SaiNageswarS/medbook-agent/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoctors() []Doctor {
	rating := 4.8
	return []Doctor{
		{ID: "d1", Name: "Dr. Asha Rao", Specialization: "Cardiologist", Location: "Mumbai", Experience: 12, Rating: &rating, Availability: StatusAvailable},
		{ID: "d2", Name: "Dr. Vikram Shah", Specialization: "Dermatologist", Location: "Pune", Experience: 8, Availability: StatusBusy},
		{ID: "d3", Name: "Dr. Meera Iyer", Specialization: "General Physician", Location: "Mumbai", Experience: 20, Availability: StatusAvailable, Description: "Family doctor for all ages"},
		{ID: "d4", Name: "Dr. Karan Mehta", Specialization: "Dentist", Location: "Delhi", Experience: 5, Availability: StatusOffline},
		{ID: "d5", Name: "Dr. Nina Das", Specialization: "Pulmonologist", Location: "Kolkata", Experience: 9, Availability: StatusAvailable, Description: "Lung specialist treating asthma"},
	}
}

type failingDirectory struct {
	err   error
	calls int
}

func (f *failingDirectory) FullTextSearch(ctx context.Context, q SearchQuery, limit int) ([]Doctor, error) {
	f.calls++
	return nil, f.err
}

func (f *failingDirectory) FindByPattern(ctx context.Context, p PatternFilter, limit int) ([]Doctor, error) {
	f.calls++
	return nil, f.err
}

type slowDirectory struct{}

func (slowDirectory) FullTextSearch(ctx context.Context, q SearchQuery, limit int) ([]Doctor, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowDirectory) FindByPattern(ctx context.Context, p PatternFilter, limit int) ([]Doctor, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSearchFullText(t *testing.T) {
	m := NewMatcher(NewMemoryDirectory(sampleDoctors(), nil))

	res := m.Search(context.Background(), "cardiologist in mumbai")
	require.True(t, res.Success)
	require.Len(t, res.Doctors, 1)
	assert.Equal(t, "Dr. Asha Rao", res.Doctors[0].Name)

	res = m.Search(context.Background(), "cardiologist in Pune")
	assert.True(t, res.Success)
	assert.Empty(t, res.Doctors)
}

func TestHeartDoctorFoundOnlyByFallback(t *testing.T) {
	m := NewMatcher(NewMemoryDirectory(sampleDoctors(), nil))
	ctx := context.Background()

	stage1 := m.Search(ctx, "heart doctor")
	assert.True(t, stage1.Success)
	assert.Empty(t, stage1.Doctors)

	stage2 := m.FallbackSearch(ctx, "heart doctor")
	require.True(t, stage2.Success)
	require.NotEmpty(t, stage2.Doctors)
	assert.Equal(t, "Cardiologist", stage2.Doctors[0].Specialization)

	tiered := m.Match(ctx, "heart doctor")
	assert.Equal(t, stage2, tiered)
}

func TestFallbackMatchesDescription(t *testing.T) {
	m := NewMatcher(NewMemoryDirectory(sampleDoctors(), nil))

	res := m.FallbackSearch(context.Background(), "gp in mumbai")
	require.True(t, res.Success)
	require.Len(t, res.Doctors, 1)
	assert.Equal(t, "d3", res.Doctors[0].ID)

	res = m.FallbackSearch(context.Background(), "lung specialist")
	require.Len(t, res.Doctors, 1)
	assert.Equal(t, "d5", res.Doctors[0].ID)
}

func TestFallbackEntDoesNotMatchDentist(t *testing.T) {
	m := NewMatcher(NewMemoryDirectory(sampleDoctors(), nil))

	res := m.FallbackSearch(context.Background(), "ent")
	assert.True(t, res.Success)
	assert.Empty(t, res.Doctors)
}

func TestFallbackWithoutFiltersReturnsFirstFive(t *testing.T) {
	var doctors []Doctor
	for i := 0; i < 8; i++ {
		doctors = append(doctors, Doctor{ID: fmt.Sprintf("d%d", i), Specialization: "Dentist"})
	}
	m := NewMatcher(NewMemoryDirectory(doctors, nil))

	res := m.FallbackSearch(context.Background(), "")
	require.True(t, res.Success)
	require.Len(t, res.Doctors, MaxResults)
	assert.Equal(t, "d0", res.Doctors[0].ID)
}

func TestUnknownSpecialtyNeverFails(t *testing.T) {
	m := NewMatcher(NewMemoryDirectory(sampleDoctors(), nil))
	res := m.Match(context.Background(), "astrologer in atlantis")
	assert.True(t, res.Success)
	assert.NotNil(t, res.Doctors)
	assert.Empty(t, res.Doctors)
}

func TestSearchErrorsAreContained(t *testing.T) {
	reg := prometheus.NewRegistry()
	dir := &failingDirectory{err: errors.New("connection refused")}
	m := NewMatcher(dir, WithMetrics(metrics.NewEngineMetrics(reg)))

	res := m.Search(context.Background(), "cardiologist")
	assert.False(t, res.Success)
	assert.Equal(t, "connection refused", res.Error)
	assert.Empty(t, res.Doctors)

	res = m.Match(context.Background(), "cardiologist")
	assert.False(t, res.Success)
	assert.Equal(t, 3, dir.calls)
}

func TestSearchEmptyPhraseFailsStageOne(t *testing.T) {
	m := NewMatcher(NewMemoryDirectory(sampleDoctors(), nil))

	res := m.Search(context.Background(), "  ")
	assert.False(t, res.Success)
	assert.Equal(t, ErrEmptyQuery.Error(), res.Error)
}

func TestSearchTimeout(t *testing.T) {
	m := NewMatcher(slowDirectory{}, WithStageTimeout(20*time.Millisecond))

	start := time.Now()
	res := m.Match(context.Background(), "cardiologist")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "deadline")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSearchCapsResults(t *testing.T) {
	var doctors []Doctor
	for i := 0; i < 9; i++ {
		doctors = append(doctors, Doctor{ID: fmt.Sprintf("d%d", i), Specialization: "Cardiologist"})
	}
	m := NewMatcher(NewMemoryDirectory(doctors, nil))

	assert.Len(t, m.Search(context.Background(), "cardiologist").Doctors, MaxResults)
}
