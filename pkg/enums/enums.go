package enums

// ApprovalStatus is the review lifecycle of a charging station (and of its
// loyalty ledger entries). DELETED is terminal and acts as a soft delete.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
	ApprovalDeleted  ApprovalStatus = "DELETED"
)

// Label returns the human-facing form used by listings and exports.
func (s ApprovalStatus) Label() string {
	switch s {
	case ApprovalApproved:
		return "Approved"
	case ApprovalRejected:
		return "Rejected"
	case ApprovalDeleted:
		return "Deleted"
	default:
		return "Pending"
	}
}

// UsageType distinguishes publicly usable stations from private ones.
type UsageType string

const (
	UsagePublic  UsageType = "PUBLIC"
	UsagePrivate UsageType = "PRIVATE"
)

func (u UsageType) Label() string {
	if u == UsagePublic {
		return "Public"
	}
	return "Private"
}

// StationAction is the single mutation verb carried by PUT /stations/{id}.
type StationAction string

const (
	ActionEdit    StationAction = "EDIT"
	ActionApprove StationAction = "APPROVE"
	ActionReject  StationAction = "REJECT"
	ActionEnable  StationAction = "ENABLE"
	ActionDisable StationAction = "DISABLE"
	ActionDelete  StationAction = "DELETE"
)

// Valid reports whether the action is one of the supported verbs.
func (a StationAction) Valid() bool {
	switch a {
	case ActionEdit, ActionApprove, ActionReject, ActionEnable, ActionDisable, ActionDelete:
		return true
	}
	return false
}

// CreatorType records which population submitted a station.
type CreatorType string

const (
	CreatorCPO          CreatorType = "CPO"
	CreatorEVOwner      CreatorType = "EV Owner"
	CreatorStationOwner CreatorType = "Station Owner"
)

// TripStatus is the raw trip lifecycle value stored on a trip row.
type TripStatus string

const (
	TripSaved        TripStatus = "SAVED"
	TripOnGoing      TripStatus = "ON_GOING"
	TripCancelled    TripStatus = "CANCELLED"
	TripCompleted    TripStatus = "COMPLETED"
	TripEnquired     TripStatus = "ENQUIRED"
	TripSuccessful   TripStatus = "SUCCESSFULL"
	TripOnGoingTest  TripStatus = "ON_GOING_TEST"
	TripUnsuccessful TripStatus = "UNSUCCESSFULL"
)

// StoryStatus is the structured review state of a trip story.
type StoryStatus string

const (
	StoryPending  StoryStatus = "PENDING"
	StoryApproved StoryStatus = "APPROVED"
	StoryRejected StoryStatus = "REJECTED"
)

func (s StoryStatus) Label() string {
	switch s {
	case StoryApproved:
		return "Approved"
	case StoryRejected:
		return "Rejected"
	case StoryPending:
		return "Pending"
	}
	return "-"
}
