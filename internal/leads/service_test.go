package leads

import (
	"context"
	"testing"
	"time"

	"leadrouter_backend/internal/events"
	"leadrouter_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// memoryRepo mimics the unique (agent_id, phone) constraint in memory.
type memoryRepo struct {
	leads   map[string]repository.Lead
	touched []uuid.UUID
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{leads: make(map[string]repository.Lead)}
}

func key(agentID uuid.UUID, phone string) string {
	return agentID.String() + "|" + phone
}

func (r *memoryRepo) GetByPhone(_ context.Context, agentID uuid.UUID, phone string) (repository.Lead, error) {
	lead, ok := r.leads[key(agentID, phone)]
	if !ok {
		return repository.Lead{}, repository.ErrLeadNotFound
	}
	return lead, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	for _, lead := range r.leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return repository.Lead{}, repository.ErrLeadNotFound
}

func (r *memoryRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, bool, error) {
	k := key(params.AgentID, params.Phone)
	if existing, ok := r.leads[k]; ok {
		return existing, false, nil
	}
	summary := params.Summary
	lead := repository.Lead{
		ID:            uuid.New(),
		AgentID:       params.AgentID,
		Name:          params.Name,
		Phone:         params.Phone,
		InterestLevel: params.InterestLevel,
		Summary:       &summary,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	r.leads[k] = lead
	return lead, true, nil
}

func (r *memoryRepo) TouchLastCalled(_ context.Context, id uuid.UUID, _ time.Time) error {
	r.touched = append(r.touched, id)
	return nil
}

type publishRecorder struct {
	published []events.Event
}

func (b *publishRecorder) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}
func (b *publishRecorder) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}
func (b *publishRecorder) Subscribe(string, events.Handler) {}

func TestResolveOrCreateIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	bus := &publishRecorder{}
	svc := New(repo, bus)
	agentID := uuid.New()

	first, created, err := svc.ResolveOrCreate(context.Background(), agentID, "+16025551234")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if !created {
		t.Fatal("first call must create the lead")
	}
	if first.Name != "Unknown Caller" {
		t.Errorf("placeholder name = %q, want Unknown Caller", first.Name)
	}

	second, created, err := svc.ResolveOrCreate(context.Background(), agentID, "+16025551234")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if created {
		t.Fatal("second call must not create a new lead")
	}
	if second.ID != first.ID {
		t.Errorf("second resolve returned %s, want %s", second.ID, first.ID)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1 LeadCreated", len(bus.published))
	}
	if _, ok := bus.published[0].(events.LeadCreated); !ok {
		t.Errorf("published %T, want LeadCreated", bus.published[0])
	}
	if len(repo.touched) != 2 {
		t.Errorf("last_called_at bumped %d times, want 2", len(repo.touched))
	}
}

func TestResolveOrCreateNormalizesPhone(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, nil)
	agentID := uuid.New()

	first, _, err := svc.ResolveOrCreate(context.Background(), agentID, "(602) 555-1234")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, created, err := svc.ResolveOrCreate(context.Background(), agentID, "+1 602 555 1234")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("differently formatted numbers should resolve to one lead")
	}
}

func TestResolveOrCreateScopedByAgent(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, nil)

	a, _, err := svc.ResolveOrCreate(context.Background(), uuid.New(), "+16025551234")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	b, created, err := svc.ResolveOrCreate(context.Background(), uuid.New(), "+16025551234")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !created || a.ID == b.ID {
		t.Error("the same number under two agencies must be two separate leads")
	}
}
