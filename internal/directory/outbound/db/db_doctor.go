package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

const (
	queryListDoctors = `
SELECT
    d.doctor_id,
    d.first_name,
    d.last_name,
    d.phone_number,
    d.availability,
    COALESCE(array_agg(DISTINCT s.name) FILTER (WHERE s.name IS NOT NULL), '{}')::text[],
    COALESCE(array_agg(DISTINCT i.image_url) FILTER (WHERE i.image_url IS NOT NULL), '{}')::text[]
FROM doctor_profile d
LEFT JOIN doctors_specialties ds ON d.doctor_id = ds.doctor_id
LEFT JOIN specialties s ON ds.specialty_id = s.specialty_id
LEFT JOIN doctor_images i ON d.doctor_id = i.doctor_id
GROUP BY d.doctor_id
ORDER BY d.doctor_id ASC
LIMIT $1`

	queryFilterDoctors = `
SELECT
    d.doctor_id,
    d.first_name,
    d.last_name,
    d.phone_number,
    d.availability,
    COALESCE(array_agg(DISTINCT s.name) FILTER (WHERE s.name IS NOT NULL), '{}')::text[],
    COALESCE(array_agg(DISTINCT i.image_url) FILTER (WHERE i.image_url IS NOT NULL), '{}')::text[]
FROM doctor_profile d
JOIN doctors_specialties f ON d.doctor_id = f.doctor_id AND f.specialty_id = $1
LEFT JOIN doctors_specialties ds ON d.doctor_id = ds.doctor_id
LEFT JOIN specialties s ON ds.specialty_id = s.specialty_id
LEFT JOIN doctor_images i ON d.doctor_id = i.doctor_id
GROUP BY d.doctor_id
ORDER BY d.doctor_id ASC`

	queryGetDoctor = `
SELECT doctor_id, first_name, last_name, phone_number, availability
FROM doctor_profile WHERE doctor_id = $1`

	queryLockDoctor = `
SELECT doctor_id FROM doctor_profile WHERE doctor_id = $1 FOR UPDATE`

	queryDoctorSpecialties = `
SELECT s.specialty_id, s.name
FROM doctors_specialties ds
JOIN specialties s ON ds.specialty_id = s.specialty_id
WHERE ds.doctor_id = $1
ORDER BY s.specialty_id ASC`

	queryDoctorAddresses = `
SELECT a.address_id, a.address, a.number_ext, a.number_int
FROM doctor_addresses da
JOIN addresses a ON da.address_id = a.address_id
WHERE da.doctor_id = $1
ORDER BY a.address_id ASC`

	queryDoctorImages = `
SELECT image_url FROM doctor_images WHERE doctor_id = $1`

	queryCreateDoctor = `
INSERT INTO doctor_profile (first_name, last_name, phone_number, availability)
VALUES ($1, $2, $3, $4) RETURNING doctor_id`

	queryUpdateDoctor = `
UPDATE doctor_profile SET first_name = $1, last_name = $2, phone_number = $3, availability = $4
WHERE doctor_id = $5`

	queryCreateDoctorSpecialty = `
INSERT INTO doctors_specialties (doctor_id, specialty_id) VALUES ($1, $2)`

	queryCreateAddress = `
INSERT INTO addresses (address, number_ext, number_int) VALUES ($1, $2, $3) RETURNING address_id`

	queryCreateDoctorAddress = `
INSERT INTO doctor_addresses (doctor_id, address_id) VALUES ($1, $2)`

	queryCreateDoctorImage = `
INSERT INTO doctor_images (doctor_id, image_url) VALUES ($1, $2)`

	queryDoctorAddressIDs = `
SELECT address_id FROM doctor_addresses WHERE doctor_id = $1`

	queryDeleteDoctorSpecialties = `
DELETE FROM doctors_specialties WHERE doctor_id = $1`

	queryDeleteDoctorAddresses = `
DELETE FROM doctor_addresses WHERE doctor_id = $1`

	queryDeleteOrphanAddresses = `
DELETE FROM addresses a
WHERE a.address_id = ANY($1)
  AND NOT EXISTS (SELECT 1 FROM doctor_addresses da WHERE da.address_id = a.address_id)`

	queryDeleteDoctorImages = `
DELETE FROM doctor_images WHERE doctor_id = $1`

	queryDeleteDoctor = `
DELETE FROM doctor_profile WHERE doctor_id = $1`
)

func collectDoctors(rows pgx.Rows) ([]entity.Doctor, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Doctor, error) {
		var d entity.Doctor
		err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.PhoneNumber, &d.Availability, &d.Specialties, &d.ImageURLs)
		return d, err
	})
}

// ListDoctors returns doctors ordered by id. A limit of zero means no limit.
func (s *DB) ListDoctors(ctx context.Context, limit int32) (_ []entity.Doctor, err error) {
	ctx, span := s.startSpan(ctx, "ListDoctors")
	defer func() { s.endSpan(span, err) }()

	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := s.conn.Query(ctx, queryListDoctors, lim)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := collectDoctors(rows)
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) FilterDoctorsBySpecialty(ctx context.Context, specialtyID int64) (_ []entity.Doctor, err error) {
	ctx, span := s.startSpan(ctx, "FilterDoctorsBySpecialty")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryFilterDoctors, specialtyID)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := collectDoctors(rows)
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) GetDoctor(ctx context.Context, id int64) (_ *entity.DoctorDetail, err error) {
	ctx, span := s.startSpan(ctx, "GetDoctor")
	defer func() { s.endSpan(span, err) }()

	var d entity.DoctorDetail
	if err := s.conn.QueryRow(ctx, queryGetDoctor, id).
		Scan(&d.ID, &d.FirstName, &d.LastName, &d.PhoneNumber, &d.Availability); err != nil {
		return nil, s.mapError(err)
	}

	rows, err := s.conn.Query(ctx, queryDoctorSpecialties, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	d.Specialties, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DoctorSpecialty, error) {
		var sp entity.DoctorSpecialty
		err := row.Scan(&sp.ID, &sp.Name)
		return sp, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	rows, err = s.conn.Query(ctx, queryDoctorAddresses, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	d.Addresses, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Address, error) {
		var a entity.Address
		err := row.Scan(&a.ID, &a.Address, &a.NumberExt, &a.NumberInt)
		return a, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	rows, err = s.conn.Query(ctx, queryDoctorImages, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	d.ImageURLs, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, s.mapError(err)
	}

	return &d, nil
}

func (s *DB) CreateDoctor(ctx context.Context, data entity.DoctorData) (id int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateDoctor")
	defer func() { s.endSpan(span, err) }()

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, queryCreateDoctor,
			data.FirstName, data.LastName, data.PhoneNumber, data.Availability).Scan(&id); err != nil {
			return err
		}
		return insertDoctorAssociations(ctx, tx, id, data)
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateDoctor replaces the profile, its specialties and its addresses.
// Images are appended.
func (s *DB) UpdateDoctor(ctx context.Context, id int64, data entity.DoctorData) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDoctor")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, queryUpdateDoctor,
			data.FirstName, data.LastName, data.PhoneNumber, data.Availability, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}

		if err := detachDoctor(ctx, tx, id); err != nil {
			return err
		}
		return insertDoctorAssociations(ctx, tx, id, data)
	})
}

// DeleteDoctor removes the doctor with every association. Addresses are
// dropped only when no other doctor still references them.
func (s *DB) DeleteDoctor(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteDoctor")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx, queryLockDoctor, id).Scan(&locked); err != nil {
			return err
		}

		if err := detachDoctor(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, queryDeleteDoctorImages, id); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, queryDeleteDoctor, id)
		return err
	})
}

func detachDoctor(ctx context.Context, tx pgx.Tx, id int64) error {
	rows, err := tx.Query(ctx, queryDoctorAddressIDs, id)
	if err != nil {
		return err
	}
	addressIDs, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, queryDeleteDoctorSpecialties, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, queryDeleteDoctorAddresses, id); err != nil {
		return err
	}
	if len(addressIDs) == 0 {
		return nil
	}

	_, err = tx.Exec(ctx, queryDeleteOrphanAddresses, addressIDs)
	return err
}

func insertDoctorAssociations(ctx context.Context, tx pgx.Tx, id int64, data entity.DoctorData) error {
	for _, specialtyID := range data.SpecialtyIDs {
		if _, err := tx.Exec(ctx, queryCreateDoctorSpecialty, id, specialtyID); err != nil {
			return err
		}
	}

	for _, addr := range data.Addresses {
		var addressID int64
		if err := tx.QueryRow(ctx, queryCreateAddress, addr.Address, addr.NumberExt, addr.NumberInt).Scan(&addressID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, queryCreateDoctorAddress, id, addressID); err != nil {
			return err
		}
	}

	for _, url := range data.ImageURLs {
		if _, err := tx.Exec(ctx, queryCreateDoctorImage, id, url); err != nil {
			return err
		}
	}

	return nil
}
