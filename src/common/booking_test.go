package common

import (
	"apts/src/db"
	"apts/src/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func unitRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "kind", "name", "capacity", "tickets_sold", "is_active"})
}

func TestCreateBookingHappyPath(t *testing.T) {
	NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	guestEmail := "visitor@example.com"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "game", "Big Coaster", nil, 10, true))
	mock.ExpectQuery(`SELECT \* FROM "ticket_types"`).
		WillReturnRows(ticketTypeRows().AddRow(1, 5, "Adult Day Pass", "adult", 4500, 10, true))
	mock.ExpectExec(`UPDATE "units" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`INSERT INTO "booking_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(32))
	mock.ExpectCommit()

	booking, err := CreateBooking(&CreateBookingParams{
		UnitID:        5,
		Items:         []types.BookingLineRequest{{TicketTypeID: 1, Qty: 2}},
		PaymentMethod: types.PAY_CARD,
		GuestEmail:    &guestEmail,
	})
	assert.Nil(t, err)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(t, types.PAYMENT_PENDING, booking.PaymentStatus)
	assert.Equal(t, int64(9000), booking.TotalCents)
	assert.Len(t, booking.Items, 1)
	assert.Len(t, booking.Items[0].Tickets, 2)
	assert.NotEqual(t, booking.Items[0].Tickets[0].Code, booking.Items[0].Tickets[1].Code)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateBookingCashStaysPending(t *testing.T) {
	NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	guestEmail := "visitor@example.com"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "game", "Big Coaster", nil, 10, true))
	mock.ExpectQuery(`SELECT \* FROM "ticket_types"`).
		WillReturnRows(ticketTypeRows().AddRow(1, 5, "Adult Day Pass", "adult", 4500, 10, true))
	mock.ExpectExec(`UPDATE "units" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery(`INSERT INTO "booking_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(22))
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))
	mock.ExpectCommit()

	booking, err := CreateBooking(&CreateBookingParams{
		UnitID:        5,
		Items:         []types.BookingLineRequest{{TicketTypeID: 1, Qty: 1}},
		PaymentMethod: types.PAY_CASH,
		GuestEmail:    &guestEmail,
	})
	assert.Nil(t, err)
	assert.Equal(t, types.BOOKING_PENDING, booking.Status)
}

func TestCreateBookingRollsBackOnCapacityConflict(t *testing.T) {
	NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	guestEmail := "visitor@example.com"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "event", "Night Parade", 100, 100, true))
	mock.ExpectQuery(`SELECT \* FROM "ticket_types"`).
		WillReturnRows(ticketTypeRows().AddRow(1, 5, "Adult Day Pass", "adult", 4500, 10, true))
	mock.ExpectExec(`UPDATE "units" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "event", "Night Parade", 100, 100, true))
	mock.ExpectRollback()

	_, err := CreateBooking(&CreateBookingParams{
		UnitID:        5,
		Items:         []types.BookingLineRequest{{TicketTypeID: 1, Qty: 1}},
		PaymentMethod: types.PAY_CARD,
		GuestEmail:    &guestEmail,
	})
	var capErr *CapacityError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, int64(0), capErr.Remaining)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "reference", "user_id", "unit_id", "total_cents", "status", "payment_status"})
}

func TestCreateBookingRejectsEmptyItems(t *testing.T) {
	_, err := CreateBooking(&CreateBookingParams{
		UnitID:        5,
		PaymentMethod: types.PAY_CARD,
	})
	assert.ErrorIs(t, err, ErrEmptyItems)
}

func TestCreateBookingRejectsPastDatedEvent(t *testing.T) {
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	past := time.Now().Add(-48 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "name", "starts_at", "capacity", "tickets_sold", "is_active"}).
			AddRow(5, "event", "Night Parade", past, 500, 120, true))
	mock.ExpectRollback()

	_, err := CreateBooking(&CreateBookingParams{
		UnitID:        5,
		Items:         []types.BookingLineRequest{{TicketTypeID: 1, Qty: 1}},
		PaymentMethod: types.PAY_CARD,
	})
	assert.ErrorIs(t, err, ErrPastDated)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelBookingHappyPath(t *testing.T) {
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(bookingRows().AddRow(11, "BKG-AAAA11", 1, 5, 4500, "confirmed", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "game", "Big Coaster", nil, 10, true))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := CancelBooking(11, 1, "member")
	assert.Nil(t, err)
	assert.Equal(t, types.BOOKING_CANCELLED, booking.Status)
	assert.NotNil(t, booking.CancelledAt)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelBookingSecondCancelRejected(t *testing.T) {
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(bookingRows().AddRow(11, "BKG-AAAA11", 1, 5, 4500, "cancelled", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "game", "Big Coaster", nil, 10, true))
	mock.ExpectRollback()

	_, err := CancelBooking(11, 1, "member")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	// no UPDATE was queued, so a second status write would fail the mock
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelBookingRejectsPastDatedUnit(t *testing.T) {
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	past := time.Now().Add(-48 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(bookingRows().AddRow(11, "BKG-AAAA11", 1, 5, 4500, "confirmed", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "name", "starts_at", "capacity", "tickets_sold", "is_active"}).
			AddRow(5, "event", "Night Parade", past, 500, 120, true))
	mock.ExpectRollback()

	_, err := CancelBooking(11, 1, "member")
	assert.ErrorIs(t, err, ErrPastDated)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelBookingForbiddenForStranger(t *testing.T) {
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(bookingRows().AddRow(11, "BKG-AAAA11", 42, 5, 4500, "confirmed", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "game", "Big Coaster", nil, 10, true))
	mock.ExpectRollback()

	_, err := CancelBooking(11, 1, "member")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetBookingOwnershipChecks(t *testing.T) {
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows().AddRow(11, "BKG-AAAA11", 42, 5, 4500, "confirmed", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "booking_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "game", "Big Coaster", nil, 10, true))

	_, err := GetBooking(11, 1, "member")
	assert.ErrorIs(t, err, ErrForbidden)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows().AddRow(11, "BKG-AAAA11", 42, 5, 4500, "confirmed", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "booking_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows().AddRow(5, "game", "Big Coaster", nil, 10, true))

	booking, err := GetBooking(11, 42, "member")
	assert.Nil(t, err)
	assert.Equal(t, "BKG-AAAA11", booking.Reference)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownUnit(t *testing.T) {
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "units"`).
		WillReturnRows(unitRows())
	mock.ExpectRollback()

	_, err := CreateBooking(&CreateBookingParams{
		UnitID:        404,
		Items:         []types.BookingLineRequest{{TicketTypeID: 1, Qty: 1}},
		PaymentMethod: types.PAY_CARD,
	})
	assert.ErrorIs(t, err, ErrUnitNotFound)
}
