package directory

import (
	"context"
	"testing"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func TestPatternMatchShapes(t *testing.T) {
	assert.Equal(t, bson.M{}, patternMatch(PatternFilter{}))

	onlyLocation := patternMatch(PatternFilter{Location: "New York"})
	assert.Equal(t, bson.M{"location": bson.Regex{Pattern: `New York`, Options: "i"}}, onlyLocation)

	onlyTerms := patternMatch(PatternFilter{Terms: []string{"cardiologist", "heart doctor"}})
	re := bson.Regex{Pattern: `\b(?:cardiologist|heart doctor)`, Options: "i"}
	assert.Equal(t, bson.M{"$or": bson.A{bson.M{"specialization": re}, bson.M{"description": re}}}, onlyTerms)

	both := patternMatch(PatternFilter{Terms: []string{"gp"}, Location: "pune"})
	clauses, ok := both["$and"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, clauses, 2)
}

// fakeCalendar answers conditional updates from a canned result.
type fakeCalendar struct {
	booked  *TimeSlot
	filters []any
	updates []any
	matched int64
}

func (f *fakeCalendar) FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongo.SingleResult {
	f.filters = append(f.filters, filter)
	f.updates = append(f.updates, update)
	if f.booked == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(*f.booked, nil, nil)
}

func (f *fakeCalendar) UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error) {
	f.filters = append(f.filters, filter)
	f.updates = append(f.updates, update)
	return &mongo.UpdateResult{MatchedCount: f.matched, ModifiedCount: f.matched}, nil
}

type fakeSlotCollection struct {
	odm.OdmCollectionInterface[TimeSlot]
	count  int64
	counts []bson.M
}

func (f *fakeSlotCollection) Count(ctx context.Context, filters bson.M) <-chan async.Result[int64] {
	f.counts = append(f.counts, filters)
	return async.Go(func() (int64, error) { return f.count, nil })
}

func TestMongoBookSlot(t *testing.T) {
	t.Run("claims an available slot", func(t *testing.T) {
		booked := TimeSlot{ID: "s1", DoctorID: "d1", DoctorName: "Dr. Rao", Date: "2026-11-02", StartTime: "10:00", EndTime: "10:30", Status: StatusBooked}
		calendar := &fakeCalendar{booked: &booked}
		slots := &fakeSlotCollection{}
		d := &MongoDirectory{calendar: calendar, slots: slots}

		got, err := d.BookSlot(context.Background(), "d1", "2026-11-02", "10:00")
		require.NoError(t, err)
		assert.Equal(t, booked, got)
		assert.Equal(t, bson.M{"doctorId": "d1", "date": "2026-11-02", "startTime": "10:00", "status": StatusAvailable}, calendar.filters[0])
		assert.Equal(t, bson.M{"$set": bson.M{"status": StatusBooked}}, calendar.updates[0])
		assert.Empty(t, slots.counts)
	})

	t.Run("slot already booked", func(t *testing.T) {
		d := &MongoDirectory{calendar: &fakeCalendar{}, slots: &fakeSlotCollection{count: 1}}

		_, err := d.BookSlot(context.Background(), "d1", "2026-11-02", "10:00")
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("no such slot", func(t *testing.T) {
		slots := &fakeSlotCollection{}
		d := &MongoDirectory{calendar: &fakeCalendar{}, slots: slots}

		_, err := d.BookSlot(context.Background(), "d9", "2026-11-02", "10:00")
		assert.ErrorIs(t, err, ErrSlotNotFound)
		require.Len(t, slots.counts, 1)
		assert.Equal(t, bson.M{"doctorId": "d9", "date": "2026-11-02", "startTime": "10:00"}, slots.counts[0])
	})
}

func TestMongoReleaseSlot(t *testing.T) {
	slot := TimeSlot{DoctorID: "d1", Date: "2026-11-02", StartTime: "10:00"}

	calendar := &fakeCalendar{matched: 1}
	d := &MongoDirectory{calendar: calendar}
	require.NoError(t, d.ReleaseSlot(context.Background(), slot))
	assert.Equal(t, bson.M{"doctorId": "d1", "date": "2026-11-02", "startTime": "10:00", "status": StatusBooked}, calendar.filters[0])
	assert.Equal(t, bson.M{"$set": bson.M{"status": StatusAvailable}}, calendar.updates[0])

	d = &MongoDirectory{calendar: &fakeCalendar{}}
	assert.ErrorIs(t, d.ReleaseSlot(context.Background(), slot), ErrSlotNotFound)
}
