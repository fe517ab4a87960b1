package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"optimus-k/backend/internal/model"
	"optimus-k/backend/internal/repository"
	pkgerrors "optimus-k/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	err   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock OrganizationRepository ──

type mockOrgRepo struct {
	orgs map[string]*model.Organization
}

func newMockOrgRepo() *mockOrgRepo {
	return &mockOrgRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrgRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	rows    map[string]*model.WeeklyAvailability // key: userID|2006-01-02
	err     error
	upserts int
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{rows: make(map[string]*model.WeeklyAvailability)}
}

func availabilityKey(userID string, weekStart time.Time) string {
	return userID + "|" + weekStart.Format("2006-01-02")
}

func (m *mockAvailabilityRepo) GetByUserAndWeek(_ context.Context, userID string, weekStart time.Time) (*model.WeeklyAvailability, error) {
	if m.err != nil {
		return nil, m.err
	}
	if a, ok := m.rows[availabilityKey(userID, weekStart)]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAvailabilityRepo) Upsert(_ context.Context, a *model.WeeklyAvailability) error {
	if m.err != nil {
		return m.err
	}
	m.upserts++
	m.rows[availabilityKey(a.UserID, time.Time(a.WeekStart))] = a
	return nil
}

// ── Mock ScheduledSlotRepository ──

type mockScheduledSlotRepo struct {
	slots  map[string]*model.ScheduledSlot
	nextID int
	err    error
}

func newMockScheduledSlotRepo() *mockScheduledSlotRepo {
	return &mockScheduledSlotRepo{slots: make(map[string]*model.ScheduledSlot)}
}

func (m *mockScheduledSlotRepo) Create(_ context.Context, slot *model.ScheduledSlot) error {
	if m.err != nil {
		return m.err
	}
	if slot.ScheduledSlotID == "" {
		m.nextID++
		slot.ScheduledSlotID = fmt.Sprintf("slot-%03d", m.nextID)
	}
	if slot.Version == 0 {
		slot.Version = 1
	}
	m.slots[slot.ScheduledSlotID] = slot
	return nil
}

func (m *mockScheduledSlotRepo) GetByID(_ context.Context, id string) (*model.ScheduledSlot, error) {
	if s, ok := m.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduledSlotRepo) ListActiveByUsers(_ context.Context, userIDs []string, from, to time.Time) ([]model.ScheduledSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	lo, hi := from.Format("2006-01-02"), to.Format("2006-01-02")

	var result []model.ScheduledSlot
	for _, s := range m.slots {
		if s.Status != model.SlotStatusScheduled {
			continue
		}
		involved := want[s.UserID] || (s.CollaboratorID != nil && want[*s.CollaboratorID])
		d := time.Time(s.SlotDate).Format("2006-01-02")
		if involved && d >= lo && d < hi {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		di, dj := time.Time(result[i].SlotDate), time.Time(result[j].SlotDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockScheduledSlotRepo) Update(_ context.Context, slot *model.ScheduledSlot) error {
	cur, ok := m.slots[slot.ScheduledSlotID]
	if !ok || cur.Version != slot.Version {
		return pkgerrors.ErrOptimisticLock
	}
	slot.Version++
	cp := *slot
	m.slots[slot.ScheduledSlotID] = &cp
	return nil
}

// ── Mock PhaseTaskRepository ──

type mockPhaseTaskRepo struct {
	tasks []model.PhaseTask
	err   error
}

func (m *mockPhaseTaskRepo) ListByUserAndPhase(_ context.Context, orgID, userID string, phase int) ([]model.PhaseTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.PhaseTask
	for _, t := range m.tasks {
		if t.OrganizationID == orgID && t.UserID == userID && t.Phase == phase {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OrderIndex < result[j].OrderIndex })
	return result, nil
}

// ── Mock TaskValidationRepository ──

type mockTaskValidationRepo struct {
	validations []model.TaskValidation
}

func (m *mockTaskValidationRepo) ListApprovedTaskIDs(_ context.Context, userID string, taskIDs []string) ([]string, error) {
	in := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		in[id] = true
	}
	seen := make(map[string]bool)
	var ids []string
	for _, v := range m.validations {
		if v.UserID == userID && in[v.TaskID] && v.Status == model.ValidationApproved && !seen[v.TaskID] {
			seen[v.TaskID] = true
			ids = append(ids, v.TaskID)
		}
	}
	return ids, nil
}

// ── Mock 聚合 ──

type mockRepos struct {
	users        *mockUserRepo
	orgs         *mockOrgRepo
	availability *mockAvailabilityRepo
	slots        *mockScheduledSlotRepo
	tasks        *mockPhaseTaskRepo
	validations  *mockTaskValidationRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:        newMockUserRepo(),
		orgs:         newMockOrgRepo(),
		availability: newMockAvailabilityRepo(),
		slots:        newMockScheduledSlotRepo(),
		tasks:        &mockPhaseTaskRepo{},
		validations:  &mockTaskValidationRepo{},
	}
	repo := &repository.Repository{
		User:           m.users,
		Organization:   m.orgs,
		Availability:   m.availability,
		ScheduledSlot:  m.slots,
		PhaseTask:      m.tasks,
		TaskValidation: m.validations,
	}
	return repo, m
}
