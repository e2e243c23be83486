package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/entity"
)

var (
	// ErrPlaceNotFound indicates no place row matched.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrPlaceMerged is returned when a write targets a tombstone.
	ErrPlaceMerged = errors.New("place has been merged")
	// ErrExternalIDConflict is returned when another non-merged place already holds the
	// external identifier being written.
	ErrExternalIDConflict = errors.New("external id already assigned to another place")
)

// PlacesRepository describes persistence operations for places.
type PlacesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Place, error)
	FindByExternalID(ctx context.Context, provider entity.Provider, externalID string) (*entity.Place, error)
	FindCandidates(ctx context.Context, query CandidateQuery) ([]entity.Place, error)
	ListMatchCandidates(ctx context.Context, query MatchQuery) ([]entity.Place, error)
	MarkMatchAttempted(ctx context.Context, id uuid.UUID, at time.Time) error
	ListVerifiable(ctx context.Context) ([]entity.Place, error)
	List(ctx context.Context, filter dto.PlaceListFilter) ([]entity.Place, error)
	Upsert(ctx context.Context, place *entity.Place) error
	Merge(ctx context.Context, winner *entity.Place, loserID uuid.UUID) error
	UpdateVerification(ctx context.Context, v Verification) error
	BulkUpdateStatus(ctx context.Context, filter StatusFilter, status entity.PlaceStatus) (int64, error)
	BulkImport(ctx context.Context, seeds []dto.PlaceSeed) (dto.ImportCSVResult, error)
}

// CandidateQuery selects local places that may describe the same business as a provider hit.
// With coordinates it returns places within RadiusMeters plus ungeocoded places in City.
type CandidateQuery struct {
	Latitude     *float64
	Longitude    *float64
	RadiusMeters float64
	City         string
	Limit        int
}

// MatchQuery selects the next batch for the matcher. Providers lists the providers that are
// configured for the run.
type MatchQuery struct {
	Providers []entity.Provider
	Limit     int
}

// Verification is the outcome of re-checking a place against its provider.
type Verification struct {
	ID             uuid.UUID
	Status         entity.PlaceStatus
	BusinessStatus string
	Rating         *float64
	RatingCount    *int
	VerifiedAt     time.Time
}

// StatusFilter scopes a bulk status update. Merged places are never touched.
type StatusFilter struct {
	MissingGooglePlaceID bool
	// VerifiedBefore matches places whose last verification, or creation when never
	// verified, is older than the cutoff.
	VerifiedBefore  *time.Time
	ExcludeStatuses []entity.PlaceStatus
}

// PGXPlacesRepository implements PlacesRepository using pgx.
type PGXPlacesRepository struct {
	pool pgxPool
}

// NewPGXPlacesRepository wires a pgx backed repository.
func NewPGXPlacesRepository(pool *pgxpool.Pool) *PGXPlacesRepository {
	return &PGXPlacesRepository{pool: pool}
}

var (
	_ pgxPool          = (*pgxpool.Pool)(nil)
	_ PlacesRepository = (*PGXPlacesRepository)(nil)
)

const placeColumns = `
            id,
            name,
            category,
            tags,
            address,
            city,
            country,
            neighborhood,
            CASE WHEN location IS NOT NULL THEN ST_Y(location::geometry) END AS latitude,
            CASE WHEN location IS NOT NULL THEN ST_X(location::geometry) END AS longitude,
            phone,
            website_url,
            google_place_id,
            yelp_id,
            rating,
            rating_count,
            image_url,
            photo_source,
            business_status,
            status,
            merged_into,
            last_verified_at,
            created_at,
            updated_at`

// FindByID returns the place with id in any status.
func (r *PGXPlacesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`
	place, err := scanPlace(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}
	return place, nil
}

// FindByExternalID returns the non-merged place holding externalID for provider.
func (r *PGXPlacesRepository) FindByExternalID(ctx context.Context, provider entity.Provider, externalID string) (*entity.Place, error) {
	column, err := externalIDColumn(provider)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + placeColumns + ` FROM places WHERE ` + column + ` = $1 AND status <> 'merged' LIMIT 1`
	place, err := scanPlace(r.pool.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("find place by %s: %w", column, err)
	}
	return place, nil
}

// FindCandidates returns non-merged places near the query point, nearest first.
func (r *PGXPlacesRepository) FindCandidates(ctx context.Context, q CandidateQuery) ([]entity.Place, error) {
	var (
		clauses []string
		args    []any
		idx     = 1
		order   = "created_at ASC, id ASC"
	)

	if q.Latitude != nil && q.Longitude != nil {
		radius := q.RadiusMeters
		if radius <= 0 {
			radius = 500
		}
		point := fmt.Sprintf("ST_SetSRID(ST_MakePoint($%d::float8, $%d::float8), 4326)::geography", idx, idx+1)
		args = append(args, *q.Longitude, *q.Latitude, radius)
		nearby := fmt.Sprintf("(location IS NOT NULL AND ST_DWithin(location, %s, $%d))", point, idx+2)
		order = fmt.Sprintf("ST_Distance(location, %s) ASC NULLS LAST, created_at ASC, id ASC", point)
		idx += 3
		if q.City != "" {
			clauses = append(clauses, fmt.Sprintf("(%s OR (location IS NULL AND LOWER(city) = LOWER($%d)))", nearby, idx))
			args = append(args, q.City)
			idx++
		} else {
			clauses = append(clauses, nearby)
		}
	} else {
		if q.City == "" {
			return nil, nil
		}
		clauses = append(clauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", idx))
		args = append(args, q.City)
		idx++
	}
	clauses = append(clauses, "status <> 'merged'")

	limit := q.Limit
	if limit <= 0 {
		limit = 25
	}
	query := fmt.Sprintf("SELECT %s FROM places WHERE %s ORDER BY %s LIMIT $%d",
		placeColumns, strings.Join(clauses, " AND "), order, idx)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find candidate places: %w", err)
	}
	defer rows.Close()
	return scanPlaces(rows)
}

// ListMatchCandidates selects active or pending places missing the id of any provider in
// q.Providers. Places the matcher has never tried come first, then the least recently tried.
func (r *PGXPlacesRepository) ListMatchCandidates(ctx context.Context, q MatchQuery) ([]entity.Place, error) {
	if len(q.Providers) == 0 || q.Limit <= 0 {
		return nil, nil
	}
	missing := make([]string, 0, len(q.Providers))
	for _, prov := range q.Providers {
		column, err := externalIDColumn(prov)
		if err != nil {
			return nil, err
		}
		missing = append(missing, column+" IS NULL")
	}

	query := `SELECT ` + placeColumns + `
        FROM places
        WHERE status IN ('active', 'pending')
          AND (` + strings.Join(missing, " OR ") + `)
        ORDER BY match_attempted_at ASC NULLS FIRST, created_at ASC, id ASC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list match candidates: %w", err)
	}
	defer rows.Close()
	return scanPlaces(rows)
}

// MarkMatchAttempted stamps the time the matcher last looked place id up, so the next batch
// moves on to places not tried yet. Tombstones are ignored.
func (r *PGXPlacesRepository) MarkMatchAttempted(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE places SET match_attempted_at = $2 WHERE id = $1 AND status <> 'merged'`, id, at)
	if err != nil {
		return fmt.Errorf("mark match attempted: %w", err)
	}
	return nil
}

// ListVerifiable returns every non-merged place with a google_place_id, least recently
// verified first.
func (r *PGXPlacesRepository) ListVerifiable(ctx context.Context) ([]entity.Place, error) {
	query := `SELECT ` + placeColumns + `
        FROM places
        WHERE google_place_id IS NOT NULL AND status <> 'merged'
        ORDER BY last_verified_at ASC NULLS FIRST, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list verifiable places: %w", err)
	}
	defer rows.Close()
	return scanPlaces(rows)
}

// List retrieves places matching the filter, sorted by rating then review count.
func (r *PGXPlacesRepository) List(ctx context.Context, filter dto.PlaceListFilter) ([]entity.Place, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`SELECT ` + placeColumns + ` FROM places`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", idx))
		args = append(args, filter.Category)
		idx++
	}
	if filter.City != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", idx))
		args = append(args, filter.City)
		idx++
	}
	if filter.MinRating != nil {
		clauses = append(clauses, fmt.Sprintf("rating >= $%d", idx))
		args = append(args, *filter.MinRating)
		idx++
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", idx))
		args = append(args, statusStrings(filter.Statuses))
		idx++
	} else {
		clauses = append(clauses, "status <> 'merged'")
	}

	baseQuery.WriteString(" WHERE ")
	baseQuery.WriteString(strings.Join(clauses, " AND "))
	baseQuery.WriteString(" ORDER BY rating DESC NULLS LAST, rating_count DESC, name ASC")

	if filter.Limit > 0 {
		baseQuery.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
	} else {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		perPage := filter.PerPage
		if perPage <= 0 {
			perPage = 20
		}
		if perPage > 100 {
			perPage = 100
		}
		offset := (page - 1) * perPage
		baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
		args = append(args, perPage, offset)
	}

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()
	return scanPlaces(rows)
}

const upsertPlaceSQL = `
        INSERT INTO places (
            id,
            name,
            category,
            tags,
            address,
            city,
            country,
            neighborhood,
            location,
            phone,
            website_url,
            google_place_id,
            yelp_id,
            rating,
            rating_count,
            image_url,
            photo_source,
            business_status,
            status,
            last_verified_at,
            updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8,
            CASE WHEN $9::float8 IS NOT NULL AND $10::float8 IS NOT NULL THEN
                ST_SetSRID(ST_MakePoint($9::float8, $10::float8), 4326)::geography
            ELSE NULL END,
            $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21,
            NOW()
        )
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            category = EXCLUDED.category,
            tags = EXCLUDED.tags,
            address = EXCLUDED.address,
            city = EXCLUDED.city,
            country = EXCLUDED.country,
            neighborhood = EXCLUDED.neighborhood,
            location = EXCLUDED.location,
            phone = EXCLUDED.phone,
            website_url = EXCLUDED.website_url,
            google_place_id = EXCLUDED.google_place_id,
            yelp_id = EXCLUDED.yelp_id,
            rating = EXCLUDED.rating,
            rating_count = EXCLUDED.rating_count,
            image_url = EXCLUDED.image_url,
            photo_source = EXCLUDED.photo_source,
            business_status = EXCLUDED.business_status,
            status = EXCLUDED.status,
            last_verified_at = EXCLUDED.last_verified_at,
            updated_at = NOW()
        WHERE places.status <> 'merged'
        RETURNING created_at, updated_at;
    `

// Upsert inserts or updates a place keyed by id, assigning a new id when unset. Writes to a
// merged place are rejected with ErrPlaceMerged.
func (r *PGXPlacesRepository) Upsert(ctx context.Context, place *entity.Place) error {
	return upsertPlace(ctx, r.pool, place)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func upsertPlace(ctx context.Context, q rowQuerier, place *entity.Place) error {
	if place == nil {
		return fmt.Errorf("place payload is nil")
	}
	if strings.TrimSpace(place.Name) == "" {
		return fmt.Errorf("place name is required")
	}
	if place.ID == uuid.Nil {
		place.ID = uuid.New()
	}
	if place.Status == "" {
		place.Status = entity.StatusPending
	}
	if place.Category == "" {
		place.Category = entity.CategoryOther
	}

	err := q.QueryRow(ctx, upsertPlaceSQL,
		place.ID,
		place.Name,
		string(place.Category),
		stringSliceOrEmpty(place.Tags),
		stringOrNil(place.Address),
		stringOrNil(place.City),
		stringOrNil(place.Country),
		stringOrNil(place.Neighborhood),
		floatOrNil(place.Longitude),
		floatOrNil(place.Latitude),
		stringOrNil(place.Phone),
		stringOrNil(place.Website),
		stringOrNil(place.GooglePlaceID),
		stringOrNil(place.YelpID),
		floatOrNil(place.Rating),
		place.RatingCount,
		stringOrNil(place.ImageURL),
		stringOrNil(place.PhotoSource),
		stringOrNil(place.BusinessStatus),
		string(place.Status),
		timeOrNil(place.LastVerifiedAt),
	).Scan(&place.CreatedAt, &place.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrPlaceMerged
		case isUniqueViolation(err):
			return fmt.Errorf("upsert place %s: %w", place.ID, ErrExternalIDConflict)
		}
		return fmt.Errorf("upsert place: %w", err)
	}
	return nil
}

const tombstoneSQL = `
        UPDATE places
        SET status = 'merged', merged_into = $2, updated_at = NOW()
        WHERE id = $1 AND status <> 'merged'`

// Merge tombstones the loser and saves the winner in one transaction. The loser is written
// first so its external ids leave the uniqueness scope before the winner takes them.
func (r *PGXPlacesRepository) Merge(ctx context.Context, winner *entity.Place, loserID uuid.UUID) error {
	if winner == nil {
		return fmt.Errorf("winner payload is nil")
	}
	if winner.ID == loserID {
		return fmt.Errorf("cannot merge place %s into itself", loserID)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start merge tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, tombstoneSQL, loserID, winner.ID)
	if err != nil {
		return fmt.Errorf("tombstone place %s: %w", loserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tombstone place %s: %w", loserID, ErrPlaceMerged)
	}

	if err := upsertPlace(ctx, tx, winner); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit merge tx: %w", err)
	}
	return nil
}

const verificationSQL = `
        UPDATE places
        SET status = $2,
            business_status = $3,
            rating = COALESCE($4, rating),
            rating_count = COALESCE($5, rating_count),
            last_verified_at = $6,
            updated_at = NOW()
        WHERE id = $1 AND status <> 'merged'`

// UpdateVerification records a re-verification outcome. Tombstones are left untouched and
// reported as ErrPlaceMerged.
func (r *PGXPlacesRepository) UpdateVerification(ctx context.Context, v Verification) error {
	tag, err := r.pool.Exec(ctx, verificationSQL,
		v.ID,
		string(v.Status),
		v.BusinessStatus,
		floatOrNil(v.Rating),
		intOrNil(v.RatingCount),
		v.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlaceMerged
	}
	return nil
}

// BulkUpdateStatus flips every matching non-merged place to status in a single statement and
// returns the number of rows changed.
func (r *PGXPlacesRepository) BulkUpdateStatus(ctx context.Context, filter StatusFilter, status entity.PlaceStatus) (int64, error) {
	if !status.Valid() || status == entity.StatusMerged {
		return 0, fmt.Errorf("invalid bulk status %q", status)
	}

	clauses := []string{"status <> 'merged'"}
	args := []any{string(status)}
	idx := 2

	if filter.MissingGooglePlaceID {
		clauses = append(clauses, "google_place_id IS NULL")
	}
	if filter.VerifiedBefore != nil {
		clauses = append(clauses, fmt.Sprintf("COALESCE(last_verified_at, created_at) < $%d", idx))
		args = append(args, *filter.VerifiedBefore)
		idx++
	}
	if len(filter.ExcludeStatuses) > 0 {
		clauses = append(clauses, fmt.Sprintf("status <> ALL($%d)", idx))
		args = append(args, statusStrings(filter.ExcludeStatuses))
	}

	query := "UPDATE places SET status = $1, updated_at = NOW() WHERE " + strings.Join(clauses, " AND ")
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update status: %w", err)
	}
	return tag.RowsAffected(), nil
}

const bulkImportSQL = `
        INSERT INTO places (name, category, address, city, country, phone, website_url, status, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', NOW())
        ON CONFLICT (LOWER(name), LOWER(COALESCE(address, '')))
            WHERE google_place_id IS NULL AND yelp_id IS NULL AND status <> 'merged'
        DO UPDATE SET
            category = EXCLUDED.category,
            city = EXCLUDED.city,
            country = COALESCE(EXCLUDED.country, places.country),
            phone = COALESCE(EXCLUDED.phone, places.phone),
            website_url = COALESCE(EXCLUDED.website_url, places.website_url),
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkImport seeds pending places from an admin upload. Rows matching an unmatched seed by
// name and address update it instead.
func (r *PGXPlacesRepository) BulkImport(ctx context.Context, seeds []dto.PlaceSeed) (dto.ImportCSVResult, error) {
	var result dto.ImportCSVResult
	if len(seeds) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, seed := range seeds {
		category := seed.Category
		if category == "" {
			category = entity.CategoryOther
		}
		var inserted bool
		err := tx.QueryRow(ctx, bulkImportSQL,
			seed.Name,
			string(category),
			seed.Address,
			seed.City,
			stringOrNil(seed.Country),
			stringOrNil(seed.Phone),
			stringOrNil(seed.Website),
		).Scan(&inserted)
		if err != nil {
			return result, fmt.Errorf("bulk import place %q: %w", seed.Name, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk import tx: %w", err)
	}
	return result, nil
}

func externalIDColumn(provider entity.Provider) (string, error) {
	switch provider {
	case entity.ProviderGoogle:
		return "google_place_id", nil
	case entity.ProviderYelp:
		return "yelp_id", nil
	}
	return "", fmt.Errorf("unknown provider %q", provider)
}

func scanPlaces(rows pgx.Rows) ([]entity.Place, error) {
	var places []entity.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return places, nil
}

func scanPlace(row scanner) (*entity.Place, error) {
	var (
		p              entity.Place
		category       string
		tags           []string
		address        sql.NullString
		city           sql.NullString
		country        sql.NullString
		neighborhood   sql.NullString
		latitude       sql.NullFloat64
		longitude      sql.NullFloat64
		phone          sql.NullString
		website        sql.NullString
		googlePlaceID  sql.NullString
		yelpID         sql.NullString
		rating         sql.NullFloat64
		imageURL       sql.NullString
		photoSource    sql.NullString
		businessStatus sql.NullString
		status         string
		mergedInto     uuid.NullUUID
		lastVerifiedAt sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&category,
		&tags,
		&address,
		&city,
		&country,
		&neighborhood,
		&latitude,
		&longitude,
		&phone,
		&website,
		&googlePlaceID,
		&yelpID,
		&rating,
		&p.RatingCount,
		&imageURL,
		&photoSource,
		&businessStatus,
		&status,
		&mergedInto,
		&lastVerifiedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan place: %w", err)
	}

	p.Category = entity.ParseCategory(category)
	p.Tags = tags
	p.Status = entity.PlaceStatus(status)
	p.Address = nullStringToPtr(address)
	p.City = nullStringToPtr(city)
	p.Country = nullStringToPtr(country)
	p.Neighborhood = nullStringToPtr(neighborhood)
	p.Phone = nullStringToPtr(phone)
	p.Website = nullStringToPtr(website)
	p.GooglePlaceID = nullStringToPtr(googlePlaceID)
	p.YelpID = nullStringToPtr(yelpID)
	p.ImageURL = nullStringToPtr(imageURL)
	p.PhotoSource = nullStringToPtr(photoSource)
	p.BusinessStatus = nullStringToPtr(businessStatus)
	if latitude.Valid && longitude.Valid {
		lat, lng := latitude.Float64, longitude.Float64
		p.Latitude, p.Longitude = &lat, &lng
	}
	if rating.Valid {
		val := rating.Float64
		p.Rating = &val
	}
	if mergedInto.Valid {
		id := mergedInto.UUID
		p.MergedInto = &id
	}
	if lastVerifiedAt.Valid {
		ts := lastVerifiedAt.Time
		p.LastVerifiedAt = &ts
	}
	return &p, nil
}

func statusStrings(statuses []entity.PlaceStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	if *value == "" {
		return nil
	}
	return *value
}

func floatOrNil(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func intOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func timeOrNil(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
