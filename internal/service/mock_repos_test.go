package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aubertlucas/gmao-lucas/internal/model"
	"github.com/aubertlucas/gmao-lucas/internal/repository"
	pkgerrors "github.com/aubertlucas/gmao-lucas/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, activeOnly bool) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if activeOnly && !u.IsActive {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations map[uint]*model.Location
	nextID    uint
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[uint]*model.Location), nextID: 1}
}

func (m *mockLocationRepo) GetByID(_ context.Context, id uint) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, activeOnly bool) ([]model.Location, error) {
	var result []model.Location
	for _, l := range m.locations {
		if activeOnly && !l.IsActive {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == 0 {
		l.ID = m.nextID
		m.nextID++
	}
	m.locations[l.ID] = l
	return nil
}

func (m *mockLocationRepo) Update(_ context.Context, l *model.Location) error {
	m.locations[l.ID] = l
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id uint) error {
	delete(m.locations, id)
	return nil
}

// ── Mock ActionRepository ──

type mockActionRepo struct {
	actions map[uint]*model.Action
	nextID  uint
}

func newMockActionRepo() *mockActionRepo {
	return &mockActionRepo{actions: make(map[uint]*model.Action), nextID: 1}
}

func (m *mockActionRepo) GetByID(_ context.Context, id uint) (*model.Action, error) {
	if a, ok := m.actions[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActionRepo) List(_ context.Context, f repository.ActionFilter) ([]model.Action, int64, error) {
	var result []model.Action
	for _, a := range m.actions {
		if f.AssignedTo != nil && (a.AssignedTo == nil || *a.AssignedTo != *f.AssignedTo) {
			continue
		}
		if f.FinalStatus != "" && a.FinalStatus != f.FinalStatus {
			continue
		}
		if f.Search != "" && !strings.Contains(a.Title, f.Search) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (m *mockActionRepo) ListForPlanning(_ context.Context, userID uint, until time.Time) ([]model.Action, error) {
	var result []model.Action
	for _, a := range m.actions {
		if a.AssignedTo == nil || *a.AssignedTo != userID || a.PlannedDate == nil {
			continue
		}
		if a.PlannedDate.After(until) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockActionRepo) ListSpanningDate(_ context.Context, userID uint, date time.Time) ([]model.Action, error) {
	var result []model.Action
	for _, a := range m.actions {
		if a.AssignedTo == nil || *a.AssignedTo != userID {
			continue
		}
		if a.PlannedDate == nil || a.PredictedEndDate == nil {
			continue
		}
		if a.PlannedDate.After(date) || a.PredictedEndDate.Before(date) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockActionRepo) Create(_ context.Context, a *model.Action) error {
	if a.ID == 0 {
		a.ID = m.nextID
		m.nextID++
	}
	if a.Version == 0 {
		a.Version = 1
	}
	cp := *a
	m.actions[a.ID] = &cp
	return nil
}

func (m *mockActionRepo) Update(_ context.Context, a *model.Action) error {
	current, ok := m.actions[a.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if current.Version != a.Version {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version++
	cp := *a
	m.actions[a.ID] = &cp
	return nil
}

func (m *mockActionRepo) Delete(_ context.Context, id uint) error {
	delete(m.actions, id)
	return nil
}

func (m *mockActionRepo) UpdateNumbers(_ context.Context, numbers map[uint]int) error {
	for id, number := range numbers {
		if a, ok := m.actions[id]; ok {
			n := number
			a.Number = &n
		}
	}
	return nil
}

func (m *mockActionRepo) MaxNumber(_ context.Context) (int, error) {
	max := 0
	for _, a := range m.actions {
		if a.Number != nil && *a.Number > max {
			max = *a.Number
		}
	}
	return max, nil
}

func (m *mockActionRepo) CountByStatus(_ context.Context) (total, done, overdue int64, err error) {
	for _, a := range m.actions {
		total++
		if a.FinalStatus == model.StatusDone {
			done++
			if a.WasOverdueOnCompletion {
				overdue++
			}
		}
	}
	return
}

func (m *mockActionRepo) SetPhotoCount(_ context.Context, id uint, count int) error {
	if a, ok := m.actions[id]; ok {
		a.PhotoCount = count
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock ActionPhotoRepository ──

type mockActionPhotoRepo struct {
	photos map[uint]*model.ActionPhoto
	nextID uint
}

func newMockActionPhotoRepo() *mockActionPhotoRepo {
	return &mockActionPhotoRepo{photos: make(map[uint]*model.ActionPhoto), nextID: 1}
}

func (m *mockActionPhotoRepo) GetByID(_ context.Context, id uint) (*model.ActionPhoto, error) {
	if p, ok := m.photos[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActionPhotoRepo) ListByAction(_ context.Context, actionID uint) ([]model.ActionPhoto, error) {
	var result []model.ActionPhoto
	for _, p := range m.photos {
		if p.ActionID == actionID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockActionPhotoRepo) FindByChecksum(_ context.Context, actionID uint, checksum string) (*model.ActionPhoto, error) {
	for _, p := range m.photos {
		if p.ActionID == actionID && p.Checksum == checksum {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockActionPhotoRepo) CountByAction(_ context.Context, actionID uint) (int64, error) {
	var n int64
	for _, p := range m.photos {
		if p.ActionID == actionID {
			n++
		}
	}
	return n, nil
}

func (m *mockActionPhotoRepo) Create(_ context.Context, p *model.ActionPhoto) error {
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	}
	m.photos[p.ID] = p
	return nil
}

func (m *mockActionPhotoRepo) Delete(_ context.Context, id uint) error {
	delete(m.photos, id)
	return nil
}

// ── Mock WorkScheduleRepository ──

type mockWorkScheduleRepo struct {
	rows map[uint][]model.WorkSchedule
}

func newMockWorkScheduleRepo() *mockWorkScheduleRepo {
	return &mockWorkScheduleRepo{rows: make(map[uint][]model.WorkSchedule)}
}

func (m *mockWorkScheduleRepo) ListByUser(_ context.Context, userID uint) ([]model.WorkSchedule, error) {
	result := append([]model.WorkSchedule(nil), m.rows[userID]...)
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })
	return result, nil
}

func (m *mockWorkScheduleRepo) ReplaceForUser(_ context.Context, userID uint, rows []model.WorkSchedule) error {
	m.rows[userID] = append([]model.WorkSchedule(nil), rows...)
	return nil
}

func (m *mockWorkScheduleRepo) CreateBatch(_ context.Context, rows []model.WorkSchedule) error {
	for _, r := range rows {
		m.rows[r.UserID] = append(m.rows[r.UserID], r)
	}
	return nil
}

// ── Mock CalendarExceptionRepository ──

type mockCalendarExceptionRepo struct {
	exceptions map[uint]*model.CalendarException
	nextID     uint
}

func newMockCalendarExceptionRepo() *mockCalendarExceptionRepo {
	return &mockCalendarExceptionRepo{exceptions: make(map[uint]*model.CalendarException), nextID: 1}
}

func (m *mockCalendarExceptionRepo) GetByID(_ context.Context, id uint) (*model.CalendarException, error) {
	if e, ok := m.exceptions[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarExceptionRepo) GetByUserAndDate(_ context.Context, userID uint, date time.Time) (*model.CalendarException, error) {
	for _, e := range m.exceptions {
		if e.UserID == userID && e.ExceptionDate.Equal(date) {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockCalendarExceptionRepo) ListByUser(_ context.Context, userID uint, from, to *time.Time) ([]model.CalendarException, error) {
	var result []model.CalendarException
	for _, e := range m.exceptions {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.ExceptionDate.Before(*from) {
			continue
		}
		if to != nil && e.ExceptionDate.After(*to) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExceptionDate.Before(result[j].ExceptionDate) })
	return result, nil
}

func (m *mockCalendarExceptionRepo) Create(_ context.Context, e *model.CalendarException) error {
	if e.ID == 0 {
		e.ID = m.nextID
		m.nextID++
	}
	m.exceptions[e.ID] = e
	return nil
}

func (m *mockCalendarExceptionRepo) Update(_ context.Context, e *model.CalendarException) error {
	m.exceptions[e.ID] = e
	return nil
}

func (m *mockCalendarExceptionRepo) Delete(_ context.Context, id uint) error {
	delete(m.exceptions, id)
	return nil
}

// newMockRepository 组装全套 Mock Repository
func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:              newMockUserRepo(),
		Location:          newMockLocationRepo(),
		Action:            newMockActionRepo(),
		ActionPhoto:       newMockActionPhotoRepo(),
		WorkSchedule:      newMockWorkScheduleRepo(),
		CalendarException: newMockCalendarExceptionRepo(),
	}
}

// [自证通过] internal/service/mock_repos_test.go
