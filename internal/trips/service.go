package trips

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"github.com/evjoints/admin-backend/pkg/enums"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/export"
	"github.com/evjoints/admin-backend/pkg/pagination"
)

// StoryAction is the review verb for a submitted trip story.
type StoryAction string

const (
	StoryActionApprove StoryAction = "APPROVE"
	StoryActionReject  StoryAction = "REJECT"
)

// StoryRequest is the PUT /trips/story/{id} body.
type StoryRequest struct {
	Action   StoryAction `json:"action" validate:"required"`
	ActionBy string      `json:"actionBy" validate:"required"`
	BlogLink string      `json:"blogLink"`
}

// StoryView is the structured review state on a trip row.
type StoryView struct {
	Status   string `json:"status"`
	ActionBy string `json:"actionBy"`
	BlogLink string `json:"blogLink"`
}

// TripView is one trip listing row.
type TripView struct {
	ID           int64      `json:"id"`
	CustomerName string     `json:"customerName"`
	Mobile       string     `json:"mobile"`
	Source       string     `json:"source"`
	Destination  string     `json:"destination"`
	Stops        []string   `json:"stops"`
	Stations     []string   `json:"stations"`
	Distance     string     `json:"distance"`
	Status       string     `json:"status"`
	Completed    bool       `json:"completed"`
	Feedback     string     `json:"feedback"`
	Story        *StoryView `json:"story"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ListResult pairs the trip page with its pagination block.
type ListResult struct {
	Data       []TripView      `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

// ServiceParams groups dependencies for the trip service.
type ServiceParams struct {
	Repo Repository
}

// Service assembles trip listings, exports, and story review.
type Service struct {
	repo Repository
}

// NewService builds a trip service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// List returns one page of trips with stops, referenced station names, and
// structured story state.
func (s *Service) List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error) {
	page = pagination.Normalize(page)

	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("counting trips: %w", err)
	}
	result := &ListResult{
		Data:       []TripView{},
		Pagination: pagination.MetaFor(page, total),
	}
	if total == 0 {
		return result, nil
	}

	rows, err := s.repo.Page(ctx, filters, page.Offset(), page.Limit)
	if err != nil {
		return nil, fmt.Errorf("paging trips: %w", err)
	}
	views, err := s.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	result.Data = views
	return result, nil
}

// assemble bulk-loads the related entities for a set of trips and builds views.
func (s *Service) assemble(ctx context.Context, rows []models.Trip) ([]TripView, error) {
	tripIDs := make([]int64, 0, len(rows))
	customerIDs := make([]int64, 0, len(rows))
	connectorIDs := make([]int64, 0)
	for _, row := range rows {
		tripIDs = append(tripIDs, row.ID)
		customerIDs = append(customerIDs, row.CustomerID)
		connectorIDs = append(connectorIDs, parseConnectorIDs(row.ConnectorID)...)
	}

	stops, err := s.repo.StopsByTrip(ctx, tripIDs)
	if err != nil {
		return nil, fmt.Errorf("loading trip stops: %w", err)
	}
	customers, err := s.repo.CustomersByID(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("loading trip customers: %w", err)
	}
	stations, err := s.repo.StationNamesByConnector(ctx, connectorIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving connector stations: %w", err)
	}

	views := make([]TripView, 0, len(rows))
	for _, row := range rows {
		view := TripView{
			ID:          row.ID,
			Source:      stringOrDash(row.Source),
			Destination: stringOrDash(row.Destination),
			Stops:       []string{},
			Stations:    []string{},
			Distance:    formatDistance(row.Distance),
			Status:      string(row.TripStatus),
			Completed:   isCompleted(row.TripStatus),
			Feedback:    stringOrEmpty(row.Feedback),
			CreatedAt:   row.CreatedAt,
		}
		if customer, ok := customers[row.CustomerID]; ok {
			view.CustomerName = strings.TrimSpace(customer.FirstName + " " + customer.LastName)
			view.Mobile = customer.Mobile
		}
		if tripStops, ok := stops[row.ID]; ok {
			view.Stops = tripStops
		}
		for _, connectorID := range parseConnectorIDs(row.ConnectorID) {
			if name, ok := stations[connectorID]; ok {
				view.Stations = append(view.Stations, name)
			}
		}
		if row.StoryStatus != nil {
			view.Story = &StoryView{
				Status:   row.StoryStatus.Label(),
				ActionBy: stringOrEmpty(row.StoryActionBy),
				BlogLink: stringOrEmpty(row.StoryBlogLink),
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateStory reviews a submitted trip story. Approval requires the story text
// to be present; rejection clears it.
func (s *Service) UpdateStory(ctx context.Context, id int64, req StoryRequest) error {
	actionBy := strings.TrimSpace(req.ActionBy)
	if actionBy == "" {
		return apperrors.New(apperrors.CodeValidation, "actionBy is required")
	}

	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading trip %d: %w", id, err)
	}
	if trip == nil {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("trip %d not found", id))
	}

	fields := map[string]any{
		"story_action_by": actionBy,
		"updated_at":      time.Now().UTC(),
	}

	switch req.Action {
	case StoryActionApprove:
		if trip.Feedback == nil || strings.TrimSpace(*trip.Feedback) == "" {
			return apperrors.New(apperrors.CodeValidation, "trip has no story text to approve")
		}
		fields["story_status"] = string(enums.StoryApproved)
		if link := strings.TrimSpace(req.BlogLink); link != "" {
			fields["story_blog_link"] = link
		}
	case StoryActionReject:
		fields["story_status"] = string(enums.StoryRejected)
		fields["story_blog_link"] = nil
		fields["feedback"] = nil
	default:
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown story action %q", req.Action))
	}

	return s.repo.UpdateStory(ctx, id, fields)
}

var exportHeader = []string{
	"Trip ID", "Customer", "Contact", "Source", "Destination", "Stops",
	"Distance", "Status", "Completed", "Story Status", "Created At",
}

// Export streams the filtered, unpaginated trip listing as CSV.
func (s *Service) Export(ctx context.Context, filters ListFilters, w io.Writer) error {
	rows, err := s.repo.All(ctx, filters)
	if err != nil {
		return fmt.Errorf("loading trips for export: %w", err)
	}
	views, err := s.assemble(ctx, rows)
	if err != nil {
		return err
	}

	writer := export.NewCSVWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for _, view := range views {
		storyStatus := "-"
		if view.Story != nil {
			storyStatus = view.Story.Status
		}
		record := []string{
			strconv.FormatInt(view.ID, 10),
			view.CustomerName,
			view.Mobile,
			view.Source,
			view.Destination,
			strings.Join(view.Stops, "; "),
			view.Distance,
			view.Status,
			strconv.FormatBool(view.Completed),
			storyStatus,
			view.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}
	return writer.Flush()
}

// parseConnectorIDs splits the comma-separated connector reference stored on a
// trip row. Malformed fragments are ignored.
func parseConnectorIDs(raw *string) []int64 {
	if raw == nil {
		return nil
	}
	parts := strings.Split(*raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func isCompleted(status enums.TripStatus) bool {
	return status == enums.TripCompleted || status == enums.TripSuccessful
}

func formatDistance(distance *float64) string {
	if distance == nil {
		return "-"
	}
	return strconv.FormatFloat(*distance, 'f', 1, 64) + " km"
}

func stringOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
