package common

import (
	"apts/src/db"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func ticketRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "booking_item_id", "code", "qr_payload", "is_used"})
}

func TestAdmitTicketMarksUsed(t *testing.T) {
	NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	code, payload, err := IssueTicket("BKG-AB12CD34EF56", nil)
	assert.Nil(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tickets".*FOR UPDATE`).
		WillReturnRows(ticketRows().AddRow(31, 21, code, payload, false))
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ticket, err := AdmitTicket(payload)
	assert.Nil(t, err)
	assert.True(t, ticket.IsUsed)
	assert.NotNil(t, ticket.UsedAt)
	assert.Equal(t, code, ticket.Code)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestAdmitTicketRejectsSecondScan(t *testing.T) {
	NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	code, payload, err := IssueTicket("BKG-AB12CD34EF56", nil)
	assert.Nil(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tickets".*FOR UPDATE`).
		WillReturnRows(ticketRows().AddRow(31, 21, code, payload, true))
	mock.ExpectRollback()

	_, err = AdmitTicket(payload)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestAdmitTicketRejectsForgedPayload(t *testing.T) {
	NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	_, payload, err := IssueTicket("BKG-AB12CD34EF56", nil)
	assert.Nil(t, err)

	NewSigningKey([]byte("the-gate-rotated-keys-0000000000"))
	_, err = AdmitTicket(payload)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestAdmitTicketUnknownCode(t *testing.T) {
	NewSigningKey([]byte("0123456789abcdef0123456789abcdef"))
	gdb, mock := newMockDB(t)
	db.NewDB(gdb)

	_, payload, err := IssueTicket("BKG-AB12CD34EF56", nil)
	assert.Nil(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tickets".*FOR UPDATE`).
		WillReturnRows(ticketRows())
	mock.ExpectRollback()

	_, err = AdmitTicket(payload)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
