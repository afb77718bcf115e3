package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	propertyRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/property"
)

// Fakes

// fakeBookingRepo хранит бронирования в памяти; mu защищает доступ
// в конкурентных тестах
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
}

func (f *fakeBookingRepo) GetBlockingInRange(_ context.Context, propertyID int64, checkIn, checkOut time.Time) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.PropertyID == propertyID && b.IsBlocking() && b.OverlapsRange(checkIn, checkOut) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	created := *booking
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.bookings = append(f.bookings, &created)
	return &created, nil
}

type fakePropertyRepo struct {
	properties map[int64]*domain.Property
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id int64) (*domain.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, propertyRepo.ErrPropertyNotFound
	}
	return p, nil
}

type fakeUserClient struct {
	adminIDs []int64
}

func (f *fakeUserClient) GetAdminIDsWithGracefulDegradation(_ context.Context) []int64 {
	return f.adminIDs
}

// fakeNotifier собирает отправленные уведомления; done сигналит
// о каждой доставке, чтобы тест мог дождаться фоновой горутины
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
	done  chan struct{}
}

type notifyCall struct {
	recipients []int64
	eventType  string
}

func (f *fakeNotifier) Notify(_ context.Context, recipientIDs []int64, eventType string, _ interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, notifyCall{recipients: recipientIDs, eventType: eventType})
	f.mu.Unlock()

	if f.done != nil {
		f.done <- struct{}{}
	}
	return f.err
}

// serialTxManager прогоняет транзакции по одной, имитируя сериализуемую
// изоляцию PostgreSQL: проверка конфликта и вставка атомарны
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	useCase     *UseCase
	bookingRepo *fakeBookingRepo
	notifier    *fakeNotifier
}

func newFixture(property *domain.Property, requireHostApproval bool) *fixture {
	props := map[int64]*domain.Property{}
	if property != nil {
		props[property.ID] = property
	}

	bookingRepo := &fakeBookingRepo{}
	notifier := &fakeNotifier{}

	uc := NewUseCase(
		bookingRepo,
		&fakePropertyRepo{properties: props},
		&fakeUserClient{adminIDs: []int64{100}},
		notifier,
		&serialTxManager{},
		requireHostApproval,
		nopLogger{},
	)

	return &fixture{useCase: uc, bookingRepo: bookingRepo, notifier: notifier}
}

func validRequest() *Request {
	return &Request{
		PropertyID: 1,
		GuestID:    10,
		CheckIn:    date(2026, 3, 1),
		CheckOut:   date(2026, 3, 4),
		Guests:     2,
	}
}

func activeProperty() *domain.Property {
	return &domain.Property{
		ID:            1,
		OwnerID:       5,
		Title:         "Villa Akosombo",
		PricePerNight: 450.50,
		MaxGuests:     4,
		IsActive:      true,
	}
}

// Tests

func TestExecute_Success(t *testing.T) {
	f := newFixture(activeProperty(), false)

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, int64(1), resp.PropertyID)
	assert.Equal(t, int64(10), resp.GuestID)
	assert.Equal(t, 3, resp.Nights)
	assert.InDelta(t, 1351.50, resp.TotalPrice, 0.001)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_PendingWhenHostApprovalRequired(t *testing.T) {
	f := newFixture(activeProperty(), true)

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_PropertyNotFound(t *testing.T) {
	f := newFixture(nil, false)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestExecute_PropertyInactive(t *testing.T) {
	property := activeProperty()
	property.IsActive = false
	f := newFixture(property, false)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPropertyUnavailable)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	f := newFixture(activeProperty(), false)

	req := validRequest()
	req.Guests = 5

	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_InvalidRange(t *testing.T) {
	f := newFixture(activeProperty(), false)

	// Выезд в день заезда
	req := validRequest()
	req.CheckOut = req.CheckIn
	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRange)

	// Выезд раньше заезда
	req = validRequest()
	req.CheckIn = date(2026, 3, 4)
	req.CheckOut = date(2026, 3, 1)
	_, err = f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_StayTooLong(t *testing.T) {
	f := newFixture(activeProperty(), false)

	req := validRequest()
	req.CheckOut = req.CheckIn.AddDate(0, 0, domain.MaxNights+1)

	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DateConflict(t *testing.T) {
	f := newFixture(activeProperty(), false)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Диапазон с общей ночью отклоняется
	req := validRequest()
	req.CheckIn = date(2026, 3, 3)
	req.CheckOut = date(2026, 3, 5)

	_, err = f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateConflict)
}

func TestExecute_BackToBackStaysAllowed(t *testing.T) {
	f := newFixture(activeProperty(), false)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Заезд в день выезда предыдущего гостя конфликтом не считается
	req := validRequest()
	req.CheckIn = date(2026, 3, 4)
	req.CheckOut = date(2026, 3, 6)

	_, err = f.useCase.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(activeProperty(), false)

	f.bookingRepo.bookings = append(f.bookingRepo.bookings, &domain.Booking{
		ID:         99,
		PropertyID: 1,
		Status:     domain.StatusCancelled,
		CheckIn:    date(2026, 3, 1),
		CheckOut:   date(2026, 3, 4),
		Guests:     2,
	})

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(activeProperty(), false)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero propertyID", func(r *Request) { r.PropertyID = 0 }},
		{"zero guestID", func(r *Request) { r.GuestID = 0 }},
		{"zero guests", func(r *Request) { r.Guests = 0 }},
		{"zero checkIn", func(r *Request) { r.CheckIn = time.Time{} }},
		{"zero checkOut", func(r *Request) { r.CheckOut = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := f.useCase.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_NotificationsSent(t *testing.T) {
	f := newFixture(activeProperty(), false)
	f.notifier.done = make(chan struct{}, 2)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Ждем обе фоновые доставки: хост+админы, затем гость
	for i := 0; i < 2; i++ {
		select {
		case <-f.notifier.done:
		case <-time.After(2 * time.Second):
			t.Fatal("notification was not dispatched")
		}
	}

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	require.Len(t, f.notifier.calls, 2)

	assert.Equal(t, domain.EventBookingCreated, f.notifier.calls[0].eventType)
	assert.ElementsMatch(t, []int64{5, 100}, f.notifier.calls[0].recipients)
	assert.Equal(t, []int64{10}, f.notifier.calls[1].recipients)
}

func TestExecute_NotificationFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(activeProperty(), false)
	f.notifier.err = errors.New("notifier is down")
	f.notifier.done = make(chan struct{}, 2)

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)

	for i := 0; i < 2; i++ {
		select {
		case <-f.notifier.done:
		case <-time.After(2 * time.Second):
			t.Fatal("notification was not dispatched")
		}
	}
}

func TestExecute_SequentialBookingFlow(t *testing.T) {
	property := activeProperty()
	property.PricePerNight = 1000
	f := newFixture(property, false)

	// Первый гость: 3 ночи приняты
	first := validRequest()
	first.CheckIn = date(2026, 3, 1)
	first.CheckOut = date(2026, 3, 4)
	resp, err := f.useCase.Execute(context.Background(), first)
	require.NoError(t, err)
	assert.InDelta(t, 3000.0, resp.TotalPrice, 0.001)

	// Второй гость пересекается одной ночью - отказ
	second := validRequest()
	second.GuestID = 11
	second.CheckIn = date(2026, 3, 3)
	second.CheckOut = date(2026, 3, 5)
	_, err = f.useCase.Execute(context.Background(), second)
	assert.ErrorIs(t, err, ErrDateConflict)

	// Третий гость заезжает в день выезда первого - принят
	third := validRequest()
	third.GuestID = 12
	third.CheckIn = date(2026, 3, 4)
	third.CheckOut = date(2026, 3, 6)
	third.Guests = 3
	resp, err = f.useCase.Execute(context.Background(), third)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, resp.TotalPrice, 0.001)
}

func TestExecute_ConcurrentRequestsOneWinner(t *testing.T) {
	f := newFixture(activeProperty(), false)

	const workers = 20

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			req := validRequest()
			req.GuestID = int64(idx + 1)
			_, errs[idx] = f.useCase.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrDateConflict)
		}
	}

	// Из N одновременных запросов на одни даты выигрывает ровно один
	assert.Equal(t, 1, succeeded)

	f.bookingRepo.mu.Lock()
	defer f.bookingRepo.mu.Unlock()
	assert.Len(t, f.bookingRepo.bookings, 1)
}
