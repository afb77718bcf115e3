package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	propertyRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/property"
)

// Fakes

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetBlockingInRange(_ context.Context, propertyID int64, checkIn, checkOut time.Time) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}

	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.PropertyID == propertyID && b.IsBlocking() && b.OverlapsRange(checkIn, checkOut) {
			result = append(result, b)
		}
	}
	return result, nil
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

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(bookings []*domain.Booking, property *domain.Property) *UseCase {
	props := map[int64]*domain.Property{}
	if property != nil {
		props[property.ID] = property
	}
	return NewUseCase(
		&fakeBookingRepo{bookings: bookings},
		&fakePropertyRepo{properties: props},
		nopLogger{},
	)
}

// Tests

func TestExecute_EmptyCalendar(t *testing.T) {
	property := &domain.Property{ID: 1, MaxGuests: 4, IsActive: true}
	uc := newTestUseCase(nil, property)

	resp, err := uc.Execute(context.Background(), &Request{
		PropertyID: 1,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 4),
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 3)
	assert.Equal(t, int64(1), resp.PropertyID)
	assert.Equal(t, 4, resp.MaxGuests)

	for _, day := range resp.Days {
		assert.Zero(t, day.CommittedGuests)
		assert.Equal(t, 4, day.AvailableCapacity)
		assert.False(t, day.FullyBooked)
	}
}

func TestExecute_PerDayOccupancy(t *testing.T) {
	property := &domain.Property{ID: 1, MaxGuests: 4, IsActive: true}
	bookings := []*domain.Booking{
		{
			PropertyID: 1,
			Status:     domain.StatusConfirmed,
			CheckIn:    date(2026, 3, 1),
			CheckOut:   date(2026, 3, 3),
			Guests:     2,
		},
		{
			PropertyID: 1,
			Status:     domain.StatusPending,
			CheckIn:    date(2026, 3, 2),
			CheckOut:   date(2026, 3, 4),
			Guests:     2,
		},
	}
	uc := newTestUseCase(bookings, property)

	resp, err := uc.Execute(context.Background(), &Request{
		PropertyID: 1,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 5),
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 4)

	// 01.03: только первое бронирование
	assert.Equal(t, 2, resp.Days[0].CommittedGuests)
	assert.Equal(t, 2, resp.Days[0].AvailableCapacity)
	assert.False(t, resp.Days[0].FullyBooked)

	// 02.03: оба бронирования, вместимость исчерпана
	assert.Equal(t, 4, resp.Days[1].CommittedGuests)
	assert.Equal(t, 0, resp.Days[1].AvailableCapacity)
	assert.True(t, resp.Days[1].FullyBooked)

	// 03.03: первое уже выехало (день выезда свободен), второе ещё живёт
	assert.Equal(t, 2, resp.Days[2].CommittedGuests)
	assert.False(t, resp.Days[2].FullyBooked)

	// 04.03: день выезда второго, всё свободно
	assert.Zero(t, resp.Days[3].CommittedGuests)
	assert.Equal(t, 4, resp.Days[3].AvailableCapacity)
}

func TestExecute_CancelledBookingsIgnored(t *testing.T) {
	property := &domain.Property{ID: 1, MaxGuests: 2, IsActive: true}
	bookings := []*domain.Booking{
		{
			PropertyID: 1,
			Status:     domain.StatusCancelled,
			CheckIn:    date(2026, 3, 1),
			CheckOut:   date(2026, 3, 4),
			Guests:     2,
		},
		{
			PropertyID: 1,
			Status:     domain.StatusCompleted,
			CheckIn:    date(2026, 3, 1),
			CheckOut:   date(2026, 3, 4),
			Guests:     2,
		},
	}
	uc := newTestUseCase(bookings, property)

	resp, err := uc.Execute(context.Background(), &Request{
		PropertyID: 1,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 4),
	})
	require.NoError(t, err)

	for _, day := range resp.Days {
		assert.Zero(t, day.CommittedGuests)
		assert.False(t, day.FullyBooked)
	}
}

func TestExecute_OvercommitClampedToZero(t *testing.T) {
	// Два бронирования суммарно превышают вместимость (возможно после
	// ручных правок данных) - остаток не уходит в минус
	property := &domain.Property{ID: 1, MaxGuests: 3, IsActive: true}
	bookings := []*domain.Booking{
		{PropertyID: 1, Status: domain.StatusConfirmed, CheckIn: date(2026, 3, 1), CheckOut: date(2026, 3, 2), Guests: 3},
		{PropertyID: 1, Status: domain.StatusPending, CheckIn: date(2026, 3, 1), CheckOut: date(2026, 3, 2), Guests: 2},
	}
	uc := newTestUseCase(bookings, property)

	resp, err := uc.Execute(context.Background(), &Request{
		PropertyID: 1,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 2),
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	assert.Equal(t, 5, resp.Days[0].CommittedGuests)
	assert.Equal(t, 0, resp.Days[0].AvailableCapacity)
	assert.True(t, resp.Days[0].FullyBooked)
}

func TestExecute_Idempotent(t *testing.T) {
	property := &domain.Property{ID: 1, MaxGuests: 4, IsActive: true}
	bookings := []*domain.Booking{
		{PropertyID: 1, Status: domain.StatusConfirmed, CheckIn: date(2026, 3, 1), CheckOut: date(2026, 3, 3), Guests: 2},
	}
	uc := newTestUseCase(bookings, property)

	req := &Request{PropertyID: 1, StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 4)}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_PropertyNotFound(t *testing.T) {
	uc := newTestUseCase(nil, nil)

	_, err := uc.Execute(context.Background(), &Request{
		PropertyID: 42,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 4),
	})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestExecute_InvalidRange(t *testing.T) {
	property := &domain.Property{ID: 1, MaxGuests: 4, IsActive: true}
	uc := newTestUseCase(nil, property)

	// Конец окна равен началу
	_, err := uc.Execute(context.Background(), &Request{
		PropertyID: 1,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	// Конец окна раньше начала
	_, err = uc.Execute(context.Background(), &Request{
		PropertyID: 1,
		StartDate:  date(2026, 3, 4),
		EndDate:    date(2026, 3, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_WindowTooLarge(t *testing.T) {
	property := &domain.Property{ID: 1, MaxGuests: 4, IsActive: true}
	uc := newTestUseCase(nil, property)

	_, err := uc.Execute(context.Background(), &Request{
		PropertyID: 1,
		StartDate:  date(2026, 1, 1),
		EndDate:    date(2028, 1, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InvalidPropertyID(t *testing.T) {
	uc := newTestUseCase(nil, nil)

	_, err := uc.Execute(context.Background(), &Request{
		PropertyID: 0,
		StartDate:  date(2026, 3, 1),
		EndDate:    date(2026, 3, 4),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
