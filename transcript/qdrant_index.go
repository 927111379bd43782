package transcript

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	payloadText          = "text"
	payloadAppointmentID = "appointmentId"
	payloadStart         = "start"
	payloadEnd           = "end"
	payloadID            = "id"
)

// QdrantIndex stores transcript chunks as Qdrant points. Point ids are
// derived from chunk ids so a rebuild overwrites the same points.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	embedder    Embedder
}

func NewQdrantIndex(addr, collection string, embedder Embedder) (*QdrantIndex, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant %s: %w", addr, err)
	}
	return &QdrantIndex{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		embedder:    embedder,
	}, nil
}

func (q *QdrantIndex) Close() error {
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}

// EnsureCollection creates the collection with cosine distance if missing.
func (q *QdrantIndex) EnsureCollection(ctx context.Context, dims int) error {
	list, err := q.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == q.collection {
			return nil
		}
	}

	_, err = q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", q.collection, err)
	}
	return nil
}

func pointID(chunkID string) *pb.PointId {
	return &pb.PointId{
		PointIdOptions: &pb.PointId_Uuid{Uuid: uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkID)).String()},
	}
}

func (q *QdrantIndex) Add(ctx context.Context, texts []string, metadatas []Metadata, ids []string) error {
	if len(texts) != len(metadatas) || len(texts) != len(ids) {
		return fmt.Errorf("add: %d texts, %d metadatas, %d ids", len(texts), len(metadatas), len(ids))
	}
	if len(texts) == 0 {
		return nil
	}

	vectors, err := embedAll(ctx, q.embedder, texts)
	if err != nil {
		return err
	}

	points := make([]*pb.PointStruct, len(texts))
	for i := range texts {
		md := metadatas[i]
		points[i] = &pb.PointStruct{
			Id: pointID(ids[i]),
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: vectors[i]}},
			},
			Payload: map[string]*pb.Value{
				payloadText:          stringValue(texts[i]),
				payloadAppointmentID: stringValue(md.AppointmentID),
				payloadStart:         doubleValue(md.Start),
				payloadEnd:           doubleValue(md.End),
				payloadID:            stringValue(ids[i]),
			},
		}
	}

	wait := true
	_, err = q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

func (q *QdrantIndex) SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]Passage, error) {
	if k <= 0 || filter.AppointmentID == "" {
		return nil, nil
	}

	emb, err := q.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         emb,
		Limit:          uint64(k),
		Filter:         appointmentFilter(filter),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]Passage, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		payload := r.GetPayload()
		out = append(out, Passage{
			Text:          payload[payloadText].GetStringValue(),
			AppointmentID: payload[payloadAppointmentID].GetStringValue(),
			Score:         r.GetScore(),
		})
	}
	return out, nil
}

// DeleteWhere removes every point of the filtered appointment in one
// filter-selected delete.
func (q *QdrantIndex) DeleteWhere(ctx context.Context, filter Filter) error {
	if filter.AppointmentID == "" {
		return nil
	}

	wait := true
	_, err := q.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{Filter: appointmentFilter(filter)},
		},
	})
	if err != nil {
		return fmt.Errorf("delete points of %s: %w", filter.AppointmentID, err)
	}
	return nil
}

// Persist is a no-op: every write above waits for Qdrant to apply it.
func (q *QdrantIndex) Persist(ctx context.Context) error {
	return nil
}

func appointmentFilter(f Filter) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{fieldMatch(payloadAppointmentID, f.AppointmentID)},
	}
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func doubleValue(f float64) *pb.Value {
	return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: f}}
}
