package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yahyaabohashemstu/yukleme/internal/model"
)

// LoadingRepo provides persistence for loading reports and their archived
// versions.  Reports live in the loadings table; every edit appends an
// immutable snapshot row to loading_versions.  All timestamp fields are
// stored in UTC.
type LoadingRepo struct {
	db *sql.DB
}

// NewLoadingRepo returns a new LoadingRepo bound to the given database.
func NewLoadingRepo(db *sql.DB) *LoadingRepo { return &LoadingRepo{db: db} }

// loadingCols is the canonical column list shared by every SELECT so that
// scanLoading can be reused across queries.
const loadingCols = `id, manager, worker1, worker2, worker3, worker4,
plate1, plate2, container_no, loading_date,
product_weight, vehicle_weight_after,
destination_company, destination_country, destination_customer,
driver_name, driver_phone, forklift_operator,
products, photos, entry_time, exit_time, comments,
viewed_at, safwat_recorded_at, pinar_recorded_at,
is_recorded, recorded_at, recorded_by,
created_by, created_at, updated_at`

// rowScanner abstracts *sql.Row and *sql.Rows for scanLoading.
type rowScanner interface {
	Scan(dest ...any) error
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// scanLoading reads one row in loadingCols order into a model.Loading.
// The products and photos JSON columns degrade to empty slices when the
// stored payload cannot be decoded.
func scanLoading(sc rowScanner) (model.Loading, error) {
	var (
		l model.Loading

		manager, w1, w2, w3, w4           sql.NullString
		plate1, plate2, containerNo, date sql.NullString
		productWeight, vehicleWeight      sql.NullString
		destCompany, destCountry, destCustomer sql.NullString
		driverName, driverPhone, forklift sql.NullString
		productsJSON, photosJSON          []byte
		entryTime, exitTime, comments     sql.NullString
		viewedAt, safwatAt, pinarAt       sql.NullTime
		recordedAt                        sql.NullTime
		recordedBy                        sql.NullString
	)

	err := sc.Scan(
		&l.ID, &manager, &w1, &w2, &w3, &w4,
		&plate1, &plate2, &containerNo, &date,
		&productWeight, &vehicleWeight,
		&destCompany, &destCountry, &destCustomer,
		&driverName, &driverPhone, &forklift,
		&productsJSON, &photosJSON, &entryTime, &exitTime, &comments,
		&viewedAt, &safwatAt, &pinarAt,
		&l.IsRecorded, &recordedAt, &recordedBy,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return model.Loading{}, err
	}

	l.Manager, l.Worker1, l.Worker2, l.Worker3, l.Worker4 =
		strPtr(manager), strPtr(w1), strPtr(w2), strPtr(w3), strPtr(w4)
	l.Plate1, l.Plate2, l.ContainerNo, l.LoadingDate =
		strPtr(plate1), strPtr(plate2), strPtr(containerNo), strPtr(date)
	l.ProductWeight, l.VehicleWeightAfter = strPtr(productWeight), strPtr(vehicleWeight)
	l.DestinationCompany, l.DestinationCountry, l.DestinationCustomer =
		strPtr(destCompany), strPtr(destCountry), strPtr(destCustomer)
	l.DriverName, l.DriverPhone, l.ForkliftOperator =
		strPtr(driverName), strPtr(driverPhone), strPtr(forklift)
	l.EntryTime, l.ExitTime, l.Comments = strPtr(entryTime), strPtr(exitTime), strPtr(comments)
	l.ViewedAt, l.SafwatRecordedAt, l.PinarRecordedAt =
		timePtr(viewedAt), timePtr(safwatAt), timePtr(pinarAt)
	l.RecordedAt, l.RecordedBy = timePtr(recordedAt), strPtr(recordedBy)

	l.Products = []model.Product{}
	if len(productsJSON) > 0 {
		_ = json.Unmarshal(productsJSON, &l.Products)
	}
	l.Photos = []string{}
	if len(photosJSON) > 0 {
		_ = json.Unmarshal(photosJSON, &l.Photos)
	}
	return l, nil
}

func marshalProducts(p []model.Product) []byte {
	if p == nil {
		p = []model.Product{}
	}
	b, _ := json.Marshal(p)
	return b
}

func marshalPhotos(p []string) []byte {
	if p == nil {
		p = []string{}
	}
	b, _ := json.Marshal(p)
	return b
}

// Create inserts a new loading report with a fresh UUID and returns the
// stored row.  Review state starts cleared: the report has not been
// viewed or recorded by anyone.
func (r *LoadingRepo) Create(ctx context.Context, f model.LoadingFields, createdBy string) (model.Loading, error) {
	id := uuid.NewString()
	const q = `INSERT INTO loadings
(id, manager, worker1, worker2, worker3, worker4,
 plate1, plate2, container_no, loading_date,
 product_weight, vehicle_weight_after,
 destination_company, destination_country, destination_customer,
 driver_name, driver_phone, forklift_operator,
 products, photos, entry_time, exit_time, comments,
 is_recorded, created_by)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,0,?)`

	_, err := r.db.ExecContext(ctx, q,
		id, f.Manager, f.Worker1, f.Worker2, f.Worker3, f.Worker4,
		f.Plate1, f.Plate2, f.ContainerNo, f.LoadingDate,
		f.ProductWeight, f.VehicleWeightAfter,
		f.DestinationCompany, f.DestinationCountry, f.DestinationCustomer,
		f.DriverName, f.DriverPhone, f.ForkliftOperator,
		marshalProducts(f.Products), marshalPhotos(f.Photos),
		f.EntryTime, f.ExitTime, f.Comments,
		createdBy,
	)
	if err != nil {
		return model.Loading{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches one loading report.  Returns ErrLoadingNotFound when no
// row matches.
func (r *LoadingRepo) GetByID(ctx context.Context, id string) (model.Loading, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+loadingCols+" FROM loadings WHERE id=? LIMIT 1", id)
	l, err := scanLoading(row)
	if err == sql.ErrNoRows {
		return model.Loading{}, ErrLoadingNotFound
	}
	return l, err
}

// ListByCreator returns all reports created by the given loader, newest
// first.
func (r *LoadingRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.Loading, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+loadingCols+" FROM loadings WHERE created_by=? ORDER BY created_at DESC", creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoadings(rows, false)
}

// ListAll returns every report, newest first, with the archived version
// count populated for each row.  Manager-scope only; enforcement happens
// at the routing layer.
func (r *LoadingRepo) ListAll(ctx context.Context) ([]model.Loading, error) {
	const q = "SELECT " + loadingCols + `, (
SELECT COUNT(*) FROM loading_versions v WHERE v.loading_id = loadings.id
) AS version_count FROM loadings ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoadings(rows, true)
}

// collectLoadings drains a result set.  When withCount is true each row
// carries a trailing version_count column.
func collectLoadings(rows *sql.Rows, withCount bool) ([]model.Loading, error) {
	out := []model.Loading{}
	for rows.Next() {
		var l model.Loading
		var err error
		if withCount {
			l, err = scanLoadingWithCount(rows)
		} else {
			l, err = scanLoading(rows)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLoadingWithCount(rows *sql.Rows) (model.Loading, error) {
	// Same layout as scanLoading plus the count; scan into a wrapper that
	// appends the extra destination.
	sc := &countScanner{rows: rows}
	l, err := scanLoading(sc)
	if err != nil {
		return model.Loading{}, err
	}
	l.VersionCount = sc.count
	return l, nil
}

type countScanner struct {
	rows  *sql.Rows
	count int
}

func (cs *countScanner) Scan(dest ...any) error {
	return cs.rows.Scan(append(dest, &cs.count)...)
}

// ArchiveAndUpdate applies the edit protocol for one report inside a
// single transaction:
//
//  1. lock the current row (FOR UPDATE) and read its pre-edit state
//  2. compute the next version number as count-of-versions + 1
//  3. insert the pre-edit snapshot into loading_versions
//  4. full-replace the live row and clear all review state
//
// The row lock serializes concurrent edits of the same report, so two
// edits cannot mint the same version number; if archiving fails the
// transaction rolls back and the live row is untouched.  Returns the
// pre-edit and post-edit states.
func (r *LoadingRepo) ArchiveAndUpdate(ctx context.Context, id string, f model.LoadingFields, archivedBy string) (model.Loading, model.Loading, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Loading{}, model.Loading{}, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		"SELECT "+loadingCols+" FROM loadings WHERE id=? FOR UPDATE", id)
	prev, err := scanLoading(row)
	if err == sql.ErrNoRows {
		return model.Loading{}, model.Loading{}, ErrLoadingNotFound
	}
	if err != nil {
		return model.Loading{}, model.Loading{}, err
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM loading_versions WHERE loading_id=?", id).Scan(&count); err != nil {
		return model.Loading{}, model.Loading{}, err
	}
	nextVersion := count + 1

	snapshot, err := json.Marshal(prev)
	if err != nil {
		return model.Loading{}, model.Loading{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO loading_versions (id, loading_id, version_number, data, archived_by) VALUES (?,?,?,?,?)",
		uuid.NewString(), id, nextVersion, snapshot, archivedBy); err != nil {
		return model.Loading{}, model.Loading{}, err
	}

	const upd = `UPDATE loadings SET
manager=?, worker1=?, worker2=?, worker3=?, worker4=?,
plate1=?, plate2=?, container_no=?, loading_date=?,
product_weight=?, vehicle_weight_after=?,
destination_company=?, destination_country=?, destination_customer=?,
driver_name=?, driver_phone=?, forklift_operator=?,
products=?, photos=?, entry_time=?, exit_time=?, comments=?,
viewed_at=NULL, safwat_recorded_at=NULL, pinar_recorded_at=NULL,
is_recorded=0, recorded_at=NULL, recorded_by=NULL,
updated_at=NOW()
WHERE id=?`
	if _, err := tx.ExecContext(ctx, upd,
		f.Manager, f.Worker1, f.Worker2, f.Worker3, f.Worker4,
		f.Plate1, f.Plate2, f.ContainerNo, f.LoadingDate,
		f.ProductWeight, f.VehicleWeightAfter,
		f.DestinationCompany, f.DestinationCountry, f.DestinationCustomer,
		f.DriverName, f.DriverPhone, f.ForkliftOperator,
		marshalProducts(f.Products), marshalPhotos(f.Photos),
		f.EntryTime, f.ExitTime, f.Comments,
		id); err != nil {
		return model.Loading{}, model.Loading{}, err
	}

	row = tx.QueryRowContext(ctx,
		"SELECT "+loadingCols+" FROM loadings WHERE id=? LIMIT 1", id)
	updated, err := scanLoading(row)
	if err != nil {
		return model.Loading{}, model.Loading{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Loading{}, model.Loading{}, err
	}
	return prev, updated, nil
}

// SetRecorded stamps the reviewer's marker and the legacy shared fields in
// one atomic statement.  The legacy is_recorded flag becomes true as soon
// as any reviewer records the report.
func (r *LoadingRepo) SetRecorded(ctx context.Context, id string, reviewer model.ReviewerRole, recordedBy string) (model.Loading, error) {
	col := "safwat_recorded_at"
	if reviewer == model.ReviewerPinar {
		col = "pinar_recorded_at"
	}
	q := "UPDATE loadings SET " + col + "=NOW(), is_recorded=1, recorded_at=NOW(), recorded_by=? WHERE id=?"
	res, err := r.db.ExecContext(ctx, q, recordedBy, id)
	if err != nil {
		return model.Loading{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update;
		// distinguish via lookup.
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Loading{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// ClearRecorded clears the reviewer's marker.  The legacy flag and shared
// fields are cleared in the same statement if and only if the other
// reviewer's marker is also null, so the derived flag can never disagree
// with the markers.
func (r *LoadingRepo) ClearRecorded(ctx context.Context, id string, reviewer model.ReviewerRole) (model.Loading, error) {
	clear, other := "safwat_recorded_at", "pinar_recorded_at"
	if reviewer == model.ReviewerPinar {
		clear, other = "pinar_recorded_at", "safwat_recorded_at"
	}
	q := "UPDATE loadings SET " + clear + "=NULL," +
		" is_recorded=(" + other + " IS NOT NULL)," +
		" recorded_at=IF(" + other + " IS NULL, NULL, recorded_at)," +
		" recorded_by=IF(" + other + " IS NULL, NULL, recorded_by)" +
		" WHERE id=?"
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return model.Loading{}, err
	}
	return r.GetByID(ctx, id)
}

// MarkViewed sets viewed_at to now only when it is currently null.  The
// first manager to open a report wins; later calls silently do nothing,
// including calls for ids that do not exist.
func (r *LoadingRepo) MarkViewed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE loadings SET viewed_at=NOW() WHERE id=? AND viewed_at IS NULL", id)
	return err
}

// ListVersions returns the archived history of a report, newest version
// first.
func (r *LoadingRepo) ListVersions(ctx context.Context, loadingID string) ([]model.LoadingVersion, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, loading_id, version_number, data, archived_by, created_at FROM loading_versions WHERE loading_id=? ORDER BY version_number DESC",
		loadingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LoadingVersion{}
	for rows.Next() {
		var v model.LoadingVersion
		var data []byte
		if err := rows.Scan(&v.ID, &v.LoadingID, &v.VersionNumber, &data, &v.ArchivedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &v.Data)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
