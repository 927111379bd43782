package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/medbook-agent/llm"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var ErrNotFound = errors.New("conversation not found")

// Store loads and saves conversations by appointment id.
type Store interface {
	FindOne(ctx context.Context, id string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, id string) error
}

// MongoStore persists conversations through the odm collection of the
// tenant database.
type MongoStore struct {
	conversations odm.OdmCollectionInterface[Conversation]
}

func NewMongoStore(client odm.MongoClient, tenant string) *MongoStore {
	return &MongoStore{conversations: odm.CollectionOf[Conversation](client, tenant)}
}

func (s *MongoStore) FindOne(ctx context.Context, id string) (*Conversation, error) {
	c, err := async.Await(s.conversations.FindOneByID(ctx, id))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MongoStore) Save(ctx context.Context, c *Conversation) error {
	c.UpdatedAt = time.Now().UTC()
	_, err := async.Await(s.conversations.Save(ctx, *c))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := async.Await(s.conversations.DeleteByID(ctx, id))
	return err
}

// InMemoryStore keeps conversations for the lifetime of the process.
type InMemoryStore struct {
	mu    sync.Mutex
	convs map[string]Conversation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{convs: map[string]Conversation{}}
}

func (s *InMemoryStore) FindOne(_ context.Context, id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Messages = append([]llm.Message(nil), c.Messages...)
	return &c, nil
}

func (s *InMemoryStore) Save(_ context.Context, c *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	cp.UpdatedAt = time.Now().UTC()
	cp.Messages = append([]llm.Message(nil), c.Messages...)
	s.convs[c.ID] = cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, id)
	return nil
}
