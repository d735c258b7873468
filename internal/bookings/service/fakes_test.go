package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/internal/bookings/repository"
	"carrental/internal/bookings/validator"
	carserrors "carrental/internal/cars/errors"
	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errStorageDown = errors.New("server selection timeout")

// ────────────────────────────────────────────────
// In-memory booking store
// ────────────────────────────────────────────────

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking

	createErr  error
	overlapErr error
	// beforeUpdate runs before UpdateStatus compares statuses, letting tests
	// simulate a concurrent writer.
	beforeUpdate func(b *model.Booking)
}

func newFakeBookingRepo(existing ...*model.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[string]*model.Booking{}}
	for _, b := range existing {
		if b.ID == "" {
			b.ID = primitive.NewObjectID().Hex()
		}
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	b.ID = primitive.NewObjectID().Hex()
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := mongotx.ObjectID(id); !ok {
		return nil, bookingserrors.ErrInvalidID
	}
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bookings)), nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, carID string, interval model.Interval, statuses []string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlapErr != nil {
		return nil, r.overlapErr
	}
	out := []*model.Booking{}
	for _, b := range r.bookings {
		if b.CarID != carID {
			continue
		}
		occupying := false
		for _, s := range statuses {
			if s == b.Status {
				occupying = true
			}
		}
		if occupying && b.Interval().Overlaps(interval) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByUser(_ context.Context, userID string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByDriver(context.Context, string) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (r *fakeBookingRepo) FindWithPayment(context.Context) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (r *fakeBookingRepo) CountUpcomingForCar(context.Context, string, []string, time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, change repository.StatusChange) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(b)
	}
	if b.Status != change.From {
		return nil, bookingserrors.ErrStatusChanged
	}
	b.Status = change.To
	if change.Reason != "" {
		b.CancellationReason = change.Reason
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) UpdatePayment(context.Context, string, repository.PaymentUpdate) error {
	return nil
}

func (r *fakeBookingRepo) SumRevenue(context.Context) (float64, error) { return 0, nil }

func (r *fakeBookingRepo) UserStats(context.Context, string, time.Time) (*model.UserStats, error) {
	return &model.UserStats{}, nil
}

func (r *fakeBookingRepo) DriverTotals(context.Context, string) (int64, float64, error) {
	return 0, 0, nil
}

func (r *fakeBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func (r *fakeBookingRepo) all() []*model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out
}

// ────────────────────────────────────────────────
// Collaborator fakes
// ────────────────────────────────────────────────

type fakeLocks struct {
	mu        sync.Mutex
	held      map[string]string
	acquired  int
	released  int
	contended int
	err       error
}

func newFakeLocks() *fakeLocks {
	return &fakeLocks{held: map[string]string{}}
}

func (l *fakeLocks) Acquire(_ context.Context, carID string, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", l.err
	}
	if _, ok := l.held[carID]; ok {
		l.contended++
		return "", bookingserrors.ErrLockHeld
	}
	holder := primitive.NewObjectID().Hex()
	l.held[carID] = holder
	l.acquired++
	return holder, nil
}

func (l *fakeLocks) contentions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.contended
}

func (l *fakeLocks) Release(_ context.Context, carID, holder string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[carID] == holder {
		delete(l.held, carID)
		l.released++
	}
	return nil
}

type fakeCars struct {
	cars map[string]*model.Car
	err  error

	// When gate is set, the first lookup closes entered and blocks until
	// gate is closed.
	gate    chan struct{}
	entered chan struct{}
	calls   atomic.Int32
}

func (c *fakeCars) FindByID(_ context.Context, id string) (*model.Car, error) {
	if c.calls.Add(1) == 1 && c.gate != nil {
		close(c.entered)
		<-c.gate
	}
	if c.err != nil {
		return nil, c.err
	}
	car, ok := c.cars[id]
	if !ok {
		return nil, carserrors.ErrNotFound
	}
	return car, nil
}

type fakeDrivers struct {
	driver *model.Driver
	err    error
}

func (d *fakeDrivers) DefaultDriver(context.Context) (*model.Driver, error) {
	return d.driver, d.err
}

type fakeNotifications struct {
	mu      sync.Mutex
	created []*model.Notification
}

func (n *fakeNotifications) Create(_ context.Context, notification *model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, notification)
	return nil
}

type fakeVerifier struct {
	valid bool
	calls int
}

func (v *fakeVerifier) Verify(string, string, string) bool {
	v.calls++
	return v.valid
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*model.BookingEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event *model.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

type fixture struct {
	cfg           *config.Config
	repo          *fakeBookingRepo
	locks         *fakeLocks
	cars          *fakeCars
	drivers       *fakeDrivers
	notifications *fakeNotifications
	verifier      *fakeVerifier
	publisher     *fakePublisher
	car           *model.Car
	svc           BookingService
}

func testConfig() *config.Config {
	return &config.Config{
		Log:             logger.Discard(),
		MongoOpTimeout:  5 * time.Second,
		VehicleLockTTL:  time.Minute,
		VehicleLockWait: 100 * time.Millisecond,
	}
}

func newFixture(t *testing.T, inventory int, existing ...*model.Booking) *fixture {
	t.Helper()

	car := &model.Car{
		ID:        primitive.NewObjectID().Hex(),
		Name:      "Maruti Suzuki Dzire",
		Price:     3750,
		Inventory: inventory,
		Available: true,
	}
	for _, b := range existing {
		if b.CarID == "" {
			b.CarID = car.ID
		}
	}

	f := &fixture{
		repo:  newFakeBookingRepo(existing...),
		locks: newFakeLocks(),
		cars:  &fakeCars{cars: map[string]*model.Car{car.ID: car}},
		drivers: &fakeDrivers{driver: &model.Driver{
			ID:    primitive.NewObjectID().Hex(),
			Name:  "Mike Johnson",
			Email: "mike.johnson@example.com",
		}},
		notifications: &fakeNotifications{},
		verifier:      &fakeVerifier{valid: true},
		publisher:     &fakePublisher{},
		car:           car,
	}
	f.svc = f.newService(testConfig())
	return f
}

// newService builds the service over the fixture's fakes with cfg.
func (f *fixture) newService(cfg *config.Config) BookingService {
	f.cfg = cfg
	return NewBookingService(Dependencies{
		Repo:          f.repo,
		Locks:         f.locks,
		Cars:          f.cars,
		Drivers:       f.drivers,
		Notifications: f.notifications,
		Payments:      f.verifier,
		Publisher:     f.publisher,
		Validator:     validator.NewBookingValidator(cfg.Log),
	}, cfg)
}

func day(offset int, hour int) time.Time {
	base := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	return base.AddDate(0, 0, offset).Add(time.Duration(hour) * time.Hour)
}

func occupying(status string, start, end time.Time) *model.Booking {
	return &model.Booking{
		UserID:    "someone-else",
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func (f *fixture) request(start, end time.Time) *model.BookingRequest {
	return &model.BookingRequest{
		CarID:          f.car.ID,
		UserID:         "user-1",
		UserEmail:      "asha@example.com",
		StartTime:      start,
		EndTime:        end,
		PickupLocation: "Chennai Airport",
		DriverOption:   model.DriverOptionSelfDrive,
		DrivingLicense: "TN0120190001234",
		LicenseExpiry:  ptr(time.Now().AddDate(2, 0, 0)),
		LicenseState:   "Tamil Nadu",
		PaymentMethod:  model.PaymentMethodCash,
	}
}

func ptr[T any](v T) *T { return &v }
