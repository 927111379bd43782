package directory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// calendarWriter is the slice of the driver collection that booking needs;
// odm offers no conditional update.
type calendarWriter interface {
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

// MongoDirectory serves doctors and their calendar from MongoDB. Stage 1
// relies on an Atlas Search index over specialization and location.
type MongoDirectory struct {
	doctors     odm.OdmCollectionInterface[Doctor]
	slots       odm.OdmCollectionInterface[TimeSlot]
	calendar    calendarWriter
	searchIndex string
}

func NewMongoDirectory(client odm.MongoClient, tenant, searchIndex string) *MongoDirectory {
	return &MongoDirectory{
		doctors:     odm.CollectionOf[Doctor](client, tenant),
		slots:       odm.CollectionOf[TimeSlot](client, tenant),
		calendar:    client.Database(tenant).Collection(TimeSlot{}.CollectionName()),
		searchIndex: searchIndex,
	}
}

var doctorProjection = bson.D{
	{Key: "_id", Value: bson.M{"$toString": "$_id"}},
	{Key: "name", Value: 1},
	{Key: "specialization", Value: 1},
	{Key: "location", Value: 1},
	{Key: "contact", Value: 1},
	{Key: "experience", Value: 1},
	{Key: "rating", Value: 1},
	{Key: "availability", Value: 1},
	{Key: "description", Value: 1},
}

func (d *MongoDirectory) FullTextSearch(ctx context.Context, q SearchQuery, limit int) ([]Doctor, error) {
	must := bson.A{}
	if q.Specialty != "" {
		must = append(must, bson.M{"text": bson.M{"query": q.Specialty, "path": "specialization"}})
	}
	if q.Location != "" {
		must = append(must, bson.M{"text": bson.M{"query": q.Location, "path": "location"}})
	}
	if len(must) == 0 {
		return nil, ErrEmptyQuery
	}

	pipeline := mongo.Pipeline{
		{{Key: "$search", Value: bson.M{
			"index":    d.searchIndex,
			"compound": bson.M{"must": must},
		}}},
		{{Key: "$project", Value: doctorProjection}},
		{{Key: "$limit", Value: limit}},
	}
	return d.aggregateDoctors(ctx, pipeline)
}

func (d *MongoDirectory) FindByPattern(ctx context.Context, f PatternFilter, limit int) ([]Doctor, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: patternMatch(f)}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: doctorProjection}},
	}
	return d.aggregateDoctors(ctx, pipeline)
}

func patternMatch(f PatternFilter) bson.M {
	var clauses bson.A
	if pattern := specialtyPattern(f.Terms); pattern != "" {
		re := bson.Regex{Pattern: pattern, Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"specialization": re},
			bson.M{"description": re},
		}})
	}
	if f.Location != "" {
		clauses = append(clauses, bson.M{"location": bson.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0].(bson.M)
	default:
		return bson.M{"$and": clauses}
	}
}

func (d *MongoDirectory) aggregateDoctors(ctx context.Context, pipeline mongo.Pipeline) ([]Doctor, error) {
	doctors, err := async.Await(d.doctors.Aggregate(ctx, pipeline))
	if err != nil {
		return nil, fmt.Errorf("aggregate doctors: %w", err)
	}
	return doctors, nil
}

var slotProjection = bson.D{
	{Key: "_id", Value: bson.M{"$toString": "$_id"}},
	{Key: "doctorId", Value: 1},
	{Key: "doctorName", Value: 1},
	{Key: "date", Value: 1},
	{Key: "startTime", Value: 1},
	{Key: "endTime", Value: 1},
	{Key: "status", Value: 1},
}

func (d *MongoDirectory) UpcomingSlots(ctx context.Context, doctorID string, now time.Time, limit int) ([]TimeSlot, error) {
	now = now.UTC()
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"doctorId": doctorID,
			"status":   StatusAvailable,
			"$or": bson.A{
				bson.M{"date": bson.M{"$gt": today}},
				bson.M{"date": today, "startTime": bson.M{"$gt": clock}},
			},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: slotProjection}},
	}

	slots, err := async.Await(d.slots.Aggregate(ctx, pipeline))
	if err != nil {
		return nil, fmt.Errorf("aggregate slots: %w", err)
	}
	return slots, nil
}

func slotKey(doctorID, date, startTime string) bson.M {
	return bson.M{"doctorId": doctorID, "date": date, "startTime": startTime}
}

func (d *MongoDirectory) BookSlot(ctx context.Context, doctorID, date, startTime string) (TimeSlot, error) {
	filter := slotKey(doctorID, date, startTime)
	filter["status"] = StatusAvailable

	var slot TimeSlot
	err := d.calendar.FindOneAndUpdate(ctx, filter,
		bson.M{"$set": bson.M{"status": StatusBooked}},
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(slotProjection),
	).Decode(&slot)
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return TimeSlot{}, fmt.Errorf("book slot: %w", err)
	}

	n, err := async.Await(d.slots.Count(ctx, slotKey(doctorID, date, startTime)))
	if err != nil {
		return TimeSlot{}, fmt.Errorf("count slots: %w", err)
	}
	if n == 0 {
		return TimeSlot{}, ErrSlotNotFound
	}
	return TimeSlot{}, ErrSlotTaken
}

func (d *MongoDirectory) ReleaseSlot(ctx context.Context, slot TimeSlot) error {
	filter := slotKey(slot.DoctorID, slot.Date, slot.StartTime)
	filter["status"] = StatusBooked

	res, err := d.calendar.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": StatusAvailable}})
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSlotNotFound
	}
	return nil
}
