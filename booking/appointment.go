// Package booking turns a doctor recommendation picked in chat into a
// pending appointment on a claimed calendar slot.
package booking

import (
	"context"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
)

const (
	StatusPending    = "Pending"
	TypeConsultation = "Consultation"
	DefaultCondition = "General consultation"
)

type Appointment struct {
	ID         string    `json:"id" bson:"_id"`
	PatientID  string    `json:"patientId" bson:"patientId"`
	DoctorID   string    `json:"doctorId" bson:"doctorId"`
	DoctorName string    `json:"doctorName" bson:"doctorName"`
	Date       string    `json:"date" bson:"date"`
	Time       string    `json:"time" bson:"time"`
	EndTime    string    `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Condition  string    `json:"condition" bson:"condition"`
	Type       string    `json:"type" bson:"type"`
	Status     string    `json:"status" bson:"status"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

func (m Appointment) Id() string { return m.ID }

func (m Appointment) CollectionName() string { return "appointments" }

type Store interface {
	Save(ctx context.Context, apt Appointment) error
}

type MongoStore struct {
	appointments odm.OdmCollectionInterface[Appointment]
}

func NewMongoStore(client odm.MongoClient, tenant string) *MongoStore {
	return &MongoStore{appointments: odm.CollectionOf[Appointment](client, tenant)}
}

func (s *MongoStore) Save(ctx context.Context, apt Appointment) error {
	_, err := async.Await(s.appointments.Save(ctx, apt))
	return err
}

// MemoryStore keeps appointments for the lifetime of the process.
type MemoryStore struct {
	mu   sync.Mutex
	apts map[string]Appointment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apts: map[string]Appointment{}}
}

func (s *MemoryStore) Save(_ context.Context, apt Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apts[apt.ID] = apt
	return nil
}

func (s *MemoryStore) Get(id string) (Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apt, ok := s.apts[id]
	return apt, ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apts)
}
