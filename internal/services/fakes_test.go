package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"dayplanner/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID    map[string]*domain.Event
	nextID  int
	err     error // if set, Create returns this error
	moveErr error // if set, UpdateStartTime returns this error
	moves   []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, userID, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok && e.UserID == userID {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.UserID != userID {
			continue
		}
		if e.StartTime.Before(from) || !e.StartTime.Before(to) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeEventRepo) ListRepeatingBefore(ctx context.Context, userID string, before time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.UserID != userID || e.Repeat == domain.RepeatNone || e.Repeat == "" {
			continue
		}
		if !e.StartTime.Before(before) {
			continue
		}
		if e.RepeatUntil != nil && e.RepeatUntil.Before(before) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) UpdateStartTime(ctx context.Context, userID, id string, newStart time.Time) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	e, ok := f.byID[id]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	e.StartTime = newStart
	f.moves = append(f.moves, id)
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, userID, id string) error {
	e, ok := f.byID[id]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeTaskRepo is an in-memory TaskRepository for tests.
type fakeTaskRepo struct {
	byID   map[string]*domain.Task
	nextID int
	err    error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		byID:   make(map[string]*domain.Task),
		nextID: 1,
	}
}

func (f *fakeTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if f.err != nil {
		return f.err
	}
	t.ID = fmt.Sprintf("task-%d", f.nextID)
	f.nextID++
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	if t, ok := f.byID[id]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTaskRepo) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.byID {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTaskRepo) ListDueInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.byID {
		if t.UserID != userID || t.Status == domain.TaskStatusCompleted || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(from) || !t.DueDate.Before(to) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTaskRepo) ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.byID {
		if t.UserID != userID || t.CompletedAt == nil || t.CompletedAt.Before(since) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTaskRepo) FindByTitle(ctx context.Context, userID, fragment string) (*domain.Task, error) {
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t := f.byID[id]
		if t.UserID != userID || t.Status == domain.TaskStatusCompleted {
			continue
		}
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(fragment)) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	if _, ok := f.byID[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, userID, id string) error {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeHabitRepo is an in-memory HabitRepository for tests.
type fakeHabitRepo struct {
	byID   map[string]*domain.Habit
	logs   map[string]map[string]*domain.HabitLog // habitID -> yyyy-mm-dd -> log
	nextID int
}

func newFakeHabitRepo() *fakeHabitRepo {
	return &fakeHabitRepo{
		byID:   make(map[string]*domain.Habit),
		logs:   make(map[string]map[string]*domain.HabitLog),
		nextID: 1,
	}
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func (f *fakeHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	h.ID = fmt.Sprintf("habit-%d", f.nextID)
	f.nextID++
	cp := *h
	f.byID[h.ID] = &cp
	return nil
}

func (f *fakeHabitRepo) GetByID(ctx context.Context, userID, id string) (*domain.Habit, error) {
	if h, ok := f.byID[id]; ok && h.UserID == userID {
		cp := *h
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHabitRepo) FindByTitle(ctx context.Context, userID, fragment string) (*domain.Habit, error) {
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		h := f.byID[id]
		if h.UserID != userID || !h.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(h.Title), strings.ToLower(fragment)) {
			cp := *h
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHabitRepo) ListActive(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var out []*domain.Habit
	for _, h := range f.byID {
		if h.UserID == userID && h.IsActive {
			cp := *h
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	if _, ok := f.byID[h.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *h
	f.byID[h.ID] = &cp
	return nil
}

func (f *fakeHabitRepo) Delete(ctx context.Context, userID, id string) error {
	h, ok := f.byID[id]
	if !ok || h.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeHabitRepo) UpsertLog(ctx context.Context, log *domain.HabitLog) error {
	if f.logs[log.HabitID] == nil {
		f.logs[log.HabitID] = make(map[string]*domain.HabitLog)
	}
	cp := *log
	f.logs[log.HabitID][dayKey(log.Date)] = &cp
	return nil
}

func (f *fakeHabitRepo) GetLogForDay(ctx context.Context, habitID string, day time.Time) (*domain.HabitLog, error) {
	if entry, ok := f.logs[habitID][dayKey(day)]; ok {
		cp := *entry
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHabitRepo) ListLogs(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitLog, error) {
	var out []*domain.HabitLog
	for _, entry := range f.logs[habitID] {
		if entry.Date.Before(from) || !entry.Date.Before(to) {
			continue
		}
		cp := *entry
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// fakeReminderRepo is an in-memory ReminderRepository for tests.
type fakeReminderRepo struct {
	byID   map[string]*domain.Reminder
	nextID int
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{
		byID:   make(map[string]*domain.Reminder),
		nextID: 1,
	}
}

func (f *fakeReminderRepo) Create(ctx context.Context, r *domain.Reminder) error {
	r.ID = fmt.Sprintf("rem-%d", f.nextID)
	f.nextID++
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReminderRepo) GetByID(ctx context.Context, userID, id string) (*domain.Reminder, error) {
	if r, ok := f.byID[id]; ok && r.UserID == userID {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReminderRepo) ListActive(ctx context.Context, userID string) ([]*domain.Reminder, error) {
	var out []*domain.Reminder
	for _, r := range f.byID {
		if r.UserID == userID && r.IsActive {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReminderRepo) ListTriggeredInRange(ctx context.Context, from, to time.Time) ([]*domain.Reminder, error) {
	var out []*domain.Reminder
	for _, r := range f.byID {
		if !r.IsActive || r.NextTrigger == nil {
			continue
		}
		if r.NextTrigger.Before(from) || !r.NextTrigger.Before(to) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, r *domain.Reminder) error {
	if _, ok := f.byID[r.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReminderRepo) Delete(ctx context.Context, userID, id string) error {
	r, ok := f.byID[id]
	if !ok || r.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:   make(map[string]*domain.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeCompleter returns a canned model reply.
type fakeCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userMessage
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeMailer records sent emails.
type fakeMailer struct {
	sent []string // "to|subject"
	err  error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

// fakeRenderer renders deterministic template output.
type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(templateName string, data interface{}) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject:" + templateName, "<p>" + templateName + "</p>", templateName, nil
}

// fakeNotifier records reminder notifications.
type fakeNotifier struct {
	sent []*domain.ReminderEmailData
	err  error
}

func (f *fakeNotifier) SendReminderDue(ctx context.Context, data *domain.ReminderEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
