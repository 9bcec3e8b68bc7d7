package model

import "time"

// ReviewerRole identifies one of the two named manager reviewers who can
// mark a loading report as recorded.  The role is decoupled from login
// names: each reviewer owns a dedicated timestamp column on the loadings
// table and the two markers are fully independent.
type ReviewerRole string

const (
	ReviewerSafwat ReviewerRole = "safwat" // loadings.safwat_recorded_at
	ReviewerPinar  ReviewerRole = "pinar"  // loadings.pinar_recorded_at
)

// ReviewerForUsername maps a manager's login name onto a reviewer role.
// Only the 'pinar' account owns the pinar marker; every other manager
// account acts on the safwat marker.
func ReviewerForUsername(username string) ReviewerRole {
	if ReviewerRole(username) == ReviewerPinar {
		return ReviewerPinar
	}
	return ReviewerSafwat
}

// Loading is one shipment's tracked report.  All descriptive fields are
// optional free text entered by the loading team; review state is owned
// by managers and reset whenever a loader edits the report.
//
// Fields:
//  ID                  – primary key (UUID), immutable.
//  Manager..Worker4    – team roster.
//  Plate1, Plate2      – vehicle plates.
//  ContainerNo         – container number, if any.
//  LoadingDate         – date of the loading (free-form, as submitted).
//  ProductWeight       – declared weight of the goods.
//  VehicleWeightAfter  – vehicle weight after loading.
//  DestinationCompany  – receiving company.
//  DestinationCountry  – destination country.
//  DestinationCustomer – end customer.
//  DriverName, DriverPhone, ForkliftOperator – personnel details.
//  Products            – ordered line items (JSON column).
//  Photos              – public URLs of uploaded photos (JSON column).
//  EntryTime, ExitTime – vehicle gate times.
//  Comments            – free-text remarks.
//  ViewedAt            – set once when the first manager opens the report,
//                        cleared on every edit.
//  SafwatRecordedAt    – safwat reviewer's recorded marker.
//  PinarRecordedAt     – pinar reviewer's recorded marker.
//  IsRecorded          – legacy derived flag: true iff at least one
//                        reviewer marker is set.  Kept for older consumers.
//  RecordedAt          – legacy shared recorded timestamp.
//  RecordedBy          – legacy shared recording user id.
//  CreatedBy           – id of the loader who created the report, immutable.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
//  VersionCount        – number of archived versions (populated on list).
type Loading struct {
	ID string `json:"id"`

	Manager *string `json:"manager"`
	Worker1 *string `json:"worker1"`
	Worker2 *string `json:"worker2"`
	Worker3 *string `json:"worker3"`
	Worker4 *string `json:"worker4"`

	Plate1      *string `json:"plate1"`
	Plate2      *string `json:"plate2"`
	ContainerNo *string `json:"container_no"`
	LoadingDate *string `json:"loading_date"`

	ProductWeight      *string `json:"product_weight"`
	VehicleWeightAfter *string `json:"vehicle_weight_after"`

	DestinationCompany  *string `json:"destination_company"`
	DestinationCountry  *string `json:"destination_country"`
	DestinationCustomer *string `json:"destination_customer"`

	DriverName       *string `json:"driver_name"`
	DriverPhone      *string `json:"driver_phone"`
	ForkliftOperator *string `json:"forklift_operator"`

	Products []Product `json:"products"`
	Photos   []string  `json:"loaded_vehicle_photos"`

	EntryTime *string `json:"entry_time"`
	ExitTime  *string `json:"exit_time"`
	Comments  *string `json:"comments"`

	ViewedAt         *time.Time `json:"viewed_at"`
	SafwatRecordedAt *time.Time `json:"safwat_recorded_at"`
	PinarRecordedAt  *time.Time `json:"pinar_recorded_at"`
	IsRecorded       bool       `json:"is_recorded"`
	RecordedAt       *time.Time `json:"recorded_at"`
	RecordedBy       *string    `json:"recorded_by"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VersionCount int `json:"version_count"`
}

// RecordedMarker returns the reviewer's recorded timestamp.
func (l *Loading) RecordedMarker(r ReviewerRole) *time.Time {
	if r == ReviewerPinar {
		return l.PinarRecordedAt
	}
	return l.SafwatRecordedAt
}

// Recorded reports whether at least one reviewer has recorded the report.
// This is the source of truth from which the legacy IsRecorded flag is
// derived when rows are written.
func (l *Loading) Recorded() bool {
	return l.SafwatRecordedAt != nil || l.PinarRecordedAt != nil
}

// LoadingFields carries the editable portion of a loading report as
// submitted by a loader.  Updates use full-replace semantics: a field left
// nil here becomes NULL in the row, so clients must resend the complete
// report on every edit.
type LoadingFields struct {
	Manager             *string
	Worker1             *string
	Worker2             *string
	Worker3             *string
	Worker4             *string
	Plate1              *string
	Plate2              *string
	ContainerNo         *string
	LoadingDate         *string
	ProductWeight       *string
	VehicleWeightAfter  *string
	DestinationCompany  *string
	DestinationCountry  *string
	DestinationCustomer *string
	DriverName          *string
	DriverPhone         *string
	ForkliftOperator    *string
	Products            []Product
	Photos              []string
	EntryTime           *string
	ExitTime            *string
	Comments            *string
}
