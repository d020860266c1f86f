package incident

import (
	"context"
	"errors"
	"sort"
	"time"

	"rakshak-service/internal/metrics"
	"rakshak-service/internal/storage"
	"rakshak-service/pkg/apperror"
	"rakshak-service/pkg/geo"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const storeDownMessage = "database not available, please try again later"

// BlobStore keeps uploaded images.
type BlobStore interface {
	Save(ctx context.Context, f storage.File) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Availability reports whether the store answered its last probe.
type Availability interface {
	Available() bool
}

// SOSDispatcher alerts a tenant's contacts about a new SOS. It must not
// block the caller.
type SOSDispatcher interface {
	DispatchSOS(tenant string, incident Incident)
}

type IncidentService interface {
	Create(ctx context.Context, req *CreateIncidentRequest, image *storage.File) (*Incident, error)
	CreateSOS(ctx context.Context, tenant string, req *CreateIncidentRequest, image *storage.File) (*Incident, error)
	List(ctx context.Context, filter ListFilter) ([]*Incident, error)
	Get(ctx context.Context, id string) (*Incident, error)
	UpdateStatus(ctx context.Context, id string, req *UpdateIncidentRequest) (*Incident, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
}

type incidentService struct {
	repo          IncidentRepository
	blobs         BlobStore
	availability  Availability
	dispatcher    SOSDispatcher
	metrics       *metrics.Metrics
	logger        *zap.SugaredLogger
	bboxPrefilter bool
	now           func() time.Time
}

func NewIncidentService(
	repo IncidentRepository,
	blobs BlobStore,
	availability Availability,
	dispatcher SOSDispatcher,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
	bboxPrefilter bool,
) IncidentService {
	return &incidentService{
		repo:          repo,
		blobs:         blobs,
		availability:  availability,
		dispatcher:    dispatcher,
		metrics:       m,
		logger:        logger,
		bboxPrefilter: bboxPrefilter,
		now:           time.Now,
	}
}

func (s *incidentService) Create(ctx context.Context, req *CreateIncidentRequest, image *storage.File) (*Incident, error) {

	if !s.availability.Available() {
		return nil, apperror.ServiceUnavailable(storeDownMessage)
	}

	title := req.Title.String()
	description := req.Description.String()
	if title == "" || description == "" {
		return nil, apperror.Validation("title and description are required")
	}

	category := CategoryOther
	if raw := req.Category.String(); raw != "" {
		c, ok := ParseCategory(raw)
		if !ok {
			return nil, apperror.Validation("invalid category %q", raw)
		}
		category = c
	}

	priority := PriorityNormal
	if raw := req.Priority.String(); raw != "" {
		p, ok := ParsePriority(raw)
		if !ok {
			return nil, apperror.Validation("invalid priority %q", raw)
		}
		priority = p
	}

	incident, err := s.build(req, false)
	if err != nil {
		return nil, err
	}
	incident.Title = title
	incident.Description = description
	incident.Category = category
	incident.Priority = priority
	incident.Status = StatusPending

	if err := s.persist(ctx, incident, image); err != nil {
		return nil, err
	}

	s.metrics.IncIncidentCreated(string(incident.Category), false)
	s.logger.Infow("incident created", "id", incident.ID.Hex(), "category", incident.Category)

	return incident, nil

}

func (s *incidentService) CreateSOS(ctx context.Context, tenant string, req *CreateIncidentRequest, image *storage.File) (*Incident, error) {

	if !s.availability.Available() {
		return nil, apperror.ServiceUnavailable(storeDownMessage)
	}

	if tenant == "" {
		return nil, apperror.Validation("userId is required")
	}

	incident, err := s.build(req, true)
	if err != nil {
		return nil, err
	}

	description := req.Description.String()
	if description == "" {
		description = SOSDefaultDescription
	}
	incident.Title = SOSTitle
	incident.Description = description
	incident.Category = CategoryEmergency
	incident.Priority = PriorityCritical
	incident.Status = StatusActive
	incident.IsSOS = true

	if err := s.persist(ctx, incident, image); err != nil {
		return nil, err
	}

	s.metrics.IncIncidentCreated(string(incident.Category), true)
	s.logger.Warnw("sos incident created", "id", incident.ID.Hex(), "tenant", tenant)

	if s.dispatcher != nil {
		s.dispatcher.DispatchSOS(tenant, incident.Clone())
	}

	return incident, nil

}

// build resolves the fields shared by both create paths. With lenient set,
// out of range coordinates fall back to the defaults instead of failing.
func (s *incidentService) build(req *CreateIncidentRequest, lenient bool) (*Incident, error) {

	location := Location{
		Latitude:  FallbackLatitude,
		Longitude: FallbackLongitude,
		Address:   FallbackAddress,
	}
	if lat, ok := req.Latitude.Float(); ok {
		switch {
		case lat >= -90 && lat <= 90:
			location.Latitude = lat
		case lenient:
			s.logger.Warnw("SOS latitude out of range, using default", "latitude", lat)
		default:
			return nil, apperror.Validation("latitude must be between -90 and 90")
		}
	}
	if lon, ok := req.Longitude.Float(); ok {
		switch {
		case lon >= -180 && lon <= 180:
			location.Longitude = lon
		case lenient:
			s.logger.Warnw("SOS longitude out of range, using default", "longitude", lon)
		default:
			return nil, apperror.Validation("longitude must be between -180 and 180")
		}
	}
	if addr := req.Address.String(); addr != "" {
		location.Address = addr
	}

	anonymous := req.IsAnonymous.True()
	reporter := Reporter{Name: ReporterAnonymous}
	if !anonymous {
		reporter.Name = ReporterUnknown
		if name := req.ReporterName.String(); name != "" {
			reporter.Name = name
		}
		if contact := req.ReporterContact.String(); contact != "" {
			reporter.Contact = &contact
		}
	}

	now := s.now().UTC()
	return &Incident{
		Location:    location,
		IsAnonymous: anonymous,
		Reporter:    reporter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil

}

// persist stores the optional image, then the record. A stored image is
// removed again when the insert fails.
func (s *incidentService) persist(ctx context.Context, incident *Incident, image *storage.File) error {

	if image != nil {
		ref, err := s.blobs.Save(ctx, *image)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindValidation {
				return err
			}
			return apperror.Internal("failed to store image", err)
		}
		incident.Image = &ref
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		if incident.Image != nil {
			if derr := s.blobs.Delete(ctx, *incident.Image); derr != nil {
				s.logger.Warnw("failed to remove orphaned image", "image", *incident.Image, "error", derr)
			}
			incident.Image = nil
		}
		return apperror.Internal("failed to save incident", err)
	}

	return nil

}

func (s *incidentService) List(ctx context.Context, filter ListFilter) ([]*Incident, error) {

	var q Query
	if filter.Category != "" {
		c, ok := ParseCategory(filter.Category)
		if !ok {
			return nil, apperror.Validation("invalid category %q", filter.Category)
		}
		q.Category = c
	}
	if filter.Status != "" {
		st, ok := ParseStatus(filter.Status)
		if !ok {
			return nil, apperror.Validation("invalid status %q", filter.Status)
		}
		q.Status = st
	}
	if filter.Priority != "" {
		p, ok := ParsePriority(filter.Priority)
		if !ok {
			return nil, apperror.Validation("invalid priority %q", filter.Priority)
		}
		q.Priority = p
	}

	radius := filter.hasRadius()
	if radius {
		if *filter.Radius < 0 {
			return nil, apperror.Validation("radius must not be negative")
		}
		if s.bboxPrefilter {
			box := geo.BoundingBox(*filter.Latitude, *filter.Longitude, *filter.Radius)
			q.Box = &box
		}
	}

	incidents, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, apperror.Internal("failed to list incidents", err)
	}

	if !radius {
		return incidents, nil
	}

	lat, lon, r := *filter.Latitude, *filter.Longitude, *filter.Radius
	type hit struct {
		incident *Incident
		km       float64
	}
	hits := make([]hit, 0, len(incidents))
	for _, inc := range incidents {
		km := geo.Distance(lat, lon, inc.Location.Latitude, inc.Location.Longitude)
		if km <= r {
			hits = append(hits, hit{incident: inc, km: km})
		}
	}
	// Stable keeps newest-first order among equal distances.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].km < hits[j].km })

	out := make([]*Incident, len(hits))
	for i, h := range hits {
		d := geo.Round1(h.km)
		h.incident.Distance = &d
		out[i] = h.incident
	}
	return out, nil

}

func (s *incidentService) Get(ctx context.Context, id string) (*Incident, error) {

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("incident not found")
	}

	incident, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, apperror.Internal("failed to load incident", err)
	}
	if incident == nil {
		return nil, apperror.NotFound("incident not found")
	}
	return incident, nil

}

func (s *incidentService) UpdateStatus(ctx context.Context, id string, req *UpdateIncidentRequest) (*Incident, error) {

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("incident not found")
	}

	patch := Patch{UpdatedAt: s.now().UTC()}
	if req.Status != nil && *req.Status != "" {
		st, ok := ParseStatus(*req.Status)
		if !ok {
			return nil, apperror.Validation("invalid status %q", *req.Status)
		}
		patch.Status = &st
	}
	if req.Notes != nil {
		notes := *req.Notes
		patch.Notes = &notes
	}

	incident, err := s.repo.Update(ctx, oid, patch)
	if err != nil {
		return nil, apperror.Internal("failed to update incident", err)
	}
	if incident == nil {
		return nil, apperror.NotFound("incident not found")
	}

	s.logger.Infow("incident updated", "id", id, "status", incident.Status)
	return incident, nil

}

func (s *incidentService) Delete(ctx context.Context, id string) error {

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.NotFound("incident not found")
	}

	incident, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return apperror.Internal("failed to load incident", err)
	}
	if incident == nil {
		return apperror.NotFound("incident not found")
	}

	// Image first, record last. A failed image delete is only logged.
	if incident.Image != nil && *incident.Image != "" {
		if err := s.blobs.Delete(ctx, *incident.Image); err != nil {
			s.logger.Warnw("failed to delete incident image", "id", id, "image", *incident.Image, "error", err)
		}
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		return apperror.Internal("failed to delete incident", err)
	}

	s.logger.Infow("incident deleted", "id", id)
	return nil

}

// Stats returns zero-valued stats alongside ServiceUnavailable when the
// store cannot be read, so dashboards can still render.
func (s *incidentService) Stats(ctx context.Context) (*Stats, error) {

	if !s.availability.Available() {
		return emptyStats(), apperror.ServiceUnavailable(storeDownMessage)
	}

	groups, err := s.repo.CountGroups(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return emptyStats(), apperror.Internal("stats request cancelled", err)
		}
		s.logger.Errorw("stats aggregation failed", "error", err)
		return emptyStats(), apperror.ServiceUnavailable(storeDownMessage)
	}

	return FoldStats(groups), nil

}
