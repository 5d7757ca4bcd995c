package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// CreateBooking inserts a fully-minted booking record.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO bookings
			(id, vendor_id, vendor_name, service_id, service_name, date, time,
			 visit_type, address, status, booking_code, price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.VendorID, b.VendorName, b.ServiceID, b.ServiceName, b.Date, b.Time,
		string(b.VisitType), b.Address, b.Status, b.BookingCode, b.Price, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetBooking fetches a booking by id.
func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, vendor_id, vendor_name, service_id, service_name, date, time,
			visit_type, address, status, booking_code, price, created_at
		 FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// GetBookingByCode fetches a booking by its display code.
func (db *DB) GetBookingByCode(ctx context.Context, code string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, vendor_id, vendor_name, service_id, service_name, date, time,
			visit_type, address, status, booking_code, price, created_at
		 FROM bookings WHERE booking_code = ?`, code)
	return scanBooking(row)
}

// ListBookings returns all bookings, newest first.
func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT id, vendor_id, vendor_name, service_id, service_name, date, time,
			visit_type, address, status, booking_code, price, created_at
		 FROM bookings ORDER BY created_at DESC, id DESC`)
}

// ListVendorBookings returns a vendor's bookings, newest first.
func (db *DB) ListVendorBookings(ctx context.Context, vendorID string) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT id, vendor_id, vendor_name, service_id, service_name, date, time,
			visit_type, address, status, booking_code, price, created_at
		 FROM bookings WHERE vendor_id = ? ORDER BY created_at DESC, id DESC`, vendorID)
}

// UpdateBookingStatus moves a booking to a new status.
func (db *DB) UpdateBookingStatus(ctx context.Context, id, status string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		var visitType string
		var address sql.NullString
		if err := rows.Scan(&b.ID, &b.VendorID, &b.VendorName, &b.ServiceID, &b.ServiceName,
			&b.Date, &b.Time, &visitType, &address, &b.Status, &b.BookingCode,
			&b.Price, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.VisitType = models.VisitType(visitType)
		b.Address = address.String
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(row *sql.Row) (*models.Booking, error) {
	var b models.Booking
	var visitType string
	var address sql.NullString
	err := row.Scan(&b.ID, &b.VendorID, &b.VendorName, &b.ServiceID, &b.ServiceName,
		&b.Date, &b.Time, &visitType, &address, &b.Status, &b.BookingCode,
		&b.Price, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	b.VisitType = models.VisitType(visitType)
	b.Address = address.String
	return &b, nil
}
