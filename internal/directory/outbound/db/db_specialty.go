package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/prescripto/internal/directory/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

const (
	querySpecialtySelect = `
SELECT s.specialty_id, s.name, s.description, COALESCE(si.image_url, '')
FROM specialties s
LEFT JOIN specialty_images si ON s.specialty_id = si.specialty_id`

	queryListSpecialties = querySpecialtySelect + `
ORDER BY s.specialty_id ASC`

	queryGetSpecialty = querySpecialtySelect + `
WHERE s.specialty_id = $1
LIMIT 1`

	queryCreateSpecialty = `
INSERT INTO specialties (name, description) VALUES ($1, $2) RETURNING specialty_id`

	queryCreateSpecialtyImage = `
INSERT INTO specialty_images (specialty_id, image_url) VALUES ($1, $2)`

	queryUpdateSpecialty = `
UPDATE specialties SET name = $1, description = $2 WHERE specialty_id = $3`

	queryUpdateSpecialtyImage = `
UPDATE specialty_images SET image_url = $1 WHERE specialty_id = $2`

	queryDeleteSpecialtyImages = `
DELETE FROM specialty_images WHERE specialty_id = $1`

	queryDeleteSpecialtyLinks = `
DELETE FROM doctors_specialties WHERE specialty_id = $1`

	queryDeleteSpecialty = `
DELETE FROM specialties WHERE specialty_id = $1`
)

func scanSpecialty(row pgx.Row) (entity.Specialty, error) {
	var sp entity.Specialty
	err := row.Scan(&sp.ID, &sp.Name, &sp.Description, &sp.ImageURL)
	return sp, err
}

func (s *DB) ListSpecialties(ctx context.Context) (_ []entity.Specialty, err error) {
	ctx, span := s.startSpan(ctx, "ListSpecialties")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListSpecialties)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Specialty, error) {
		return scanSpecialty(row)
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) GetSpecialty(ctx context.Context, id int64) (_ *entity.Specialty, err error) {
	ctx, span := s.startSpan(ctx, "GetSpecialty")
	defer func() { s.endSpan(span, err) }()

	sp, err := scanSpecialty(s.conn.QueryRow(ctx, queryGetSpecialty, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return &sp, nil
}

func (s *DB) CreateSpecialty(ctx context.Context, sp entity.Specialty) (id int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateSpecialty")
	defer func() { s.endSpan(span, err) }()

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, queryCreateSpecialty, sp.Name, sp.Description).Scan(&id); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, queryCreateSpecialtyImage, id, sp.ImageURL)
		return err
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *DB) UpdateSpecialty(ctx context.Context, sp entity.Specialty) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateSpecialty")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, queryUpdateSpecialty, sp.Name, sp.Description, sp.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}

		tag, err = tx.Exec(ctx, queryUpdateSpecialtyImage, sp.ImageURL, sp.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			_, err = tx.Exec(ctx, queryCreateSpecialtyImage, sp.ID, sp.ImageURL)
		}
		return err
	})
}

func (s *DB) DeleteSpecialty(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteSpecialty")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryDeleteSpecialtyImages, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, queryDeleteSpecialtyLinks, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, queryDeleteSpecialty, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}
		return nil
	})
}
