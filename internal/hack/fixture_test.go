package hack

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"hackshare/internal/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHackDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbConn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, _ := dbConn.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := dbConn.AutoMigrate(&user.User{}, &Hack{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := dbConn.Exec(`CREATE TABLE votes (
		user_id varchar(36) NOT NULL,
		hack_id varchar(36) NOT NULL,
		value integer NOT NULL,
		PRIMARY KEY (user_id, hack_id))`).Error; err != nil {
		t.Fatalf("failed to create votes: %v", err)
	}
	return dbConn
}

func seedUser(t *testing.T, db *gorm.DB, username string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{Username: username, Email: username + "@example.com", PasswordHash: "hash", Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

type recordedEvent struct {
	event   string
	payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingNotifier) Notify(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{event, payload})
}

func (r *recordingNotifier) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.event)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	admin    *user.User
	creator  *user.User
	other    *user.User
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupHackDB(t)
	svc := NewService(NewStore(db), user.NewStore(db))
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	return &fixture{
		db:       db,
		svc:      svc,
		admin:    seedUser(t, db, "admin_user", user.RoleAdmin),
		creator:  seedUser(t, db, "creator_user", user.RoleRegular),
		other:    seedUser(t, db, "other_user", user.RoleRegular),
		notifier: notifier,
	}
}

func (f *fixture) createHack(t *testing.T) *Hack {
	t.Helper()
	h, err := f.svc.Create(context.Background(), f.creator.ID, CreateInput{
		Title:       "Batch your email",
		Description: "Check email twice a day instead of all day long",
		Category:    CategoryTimeSaver,
		Body:        "<p>Turn off notifications and set two fixed slots.</p>",
	})
	if err != nil {
		t.Fatalf("create hack: %v", err)
	}
	return h
}

func (f *fixture) reload(t *testing.T, id string) *Hack {
	t.Helper()
	h, err := f.svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("reload %s: %v", id, err)
	}
	return h
}

func ptr[T any](v T) *T {
	return &v
}

func withClock(t *testing.T, times ...time.Time) {
	t.Helper()
	orig := now
	i := 0
	now = func() time.Time {
		tm := times[i]
		if i < len(times)-1 {
			i++
		}
		return tm
	}
	t.Cleanup(func() { now = orig })
}
