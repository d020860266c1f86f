package incident

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FallbackLatitude  = 40.7128
	FallbackLongitude = -74.0060
	FallbackAddress   = "Address not provided"

	ReporterUnknown   = "Unknown"
	ReporterAnonymous = "Anonymous"

	SOSTitle              = "SOS EMERGENCY"
	SOSDefaultDescription = "Emergency situation reported"
)

type Category string

const (
	CategoryEmergency      Category = "emergency"
	CategorySuspicious     Category = "suspicious"
	CategoryInfrastructure Category = "infrastructure"
	CategoryHealth         Category = "health"
	CategoryEnvironment    Category = "environment"
	CategoryCommunity      Category = "community"
	CategoryDestruction    Category = "destruction"
	CategoryNoise          Category = "noise"
	CategoryTraffic        Category = "traffic"
	CategoryTheft          Category = "theft"
	CategoryFire           Category = "fire"
	CategoryFlooding       Category = "flooding"
	CategoryAnimal         Category = "animal"
	CategoryLighting       Category = "lighting"
	CategoryParking        Category = "parking"
	CategoryWaste          Category = "waste"
	CategoryAccident       Category = "accident"
	CategoryAssault        Category = "assault"
	CategoryDrug           Category = "drug"
	CategoryTrespassing    Category = "trespassing"
	CategoryWater          Category = "water"
	CategoryElectrical     Category = "electrical"
	CategoryOther          Category = "other"
)

var categories = []Category{
	CategoryEmergency, CategorySuspicious, CategoryInfrastructure, CategoryHealth,
	CategoryEnvironment, CategoryCommunity, CategoryDestruction, CategoryNoise,
	CategoryTraffic, CategoryTheft, CategoryFire, CategoryFlooding, CategoryAnimal,
	CategoryLighting, CategoryParking, CategoryWaste, CategoryAccident, CategoryAssault,
	CategoryDrug, CategoryTrespassing, CategoryWater, CategoryElectrical, CategoryOther,
}

// Categories returns every accepted category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusResolved:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address" json:"address"`
}

type Reporter struct {
	Name    string  `bson:"name" json:"name"`
	Contact *string `bson:"contact" json:"contact"`
}

type Incident struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Category       Category           `bson:"category" json:"category"`
	Location       Location           `bson:"location" json:"location"`
	IsAnonymous    bool               `bson:"is_anonymous" json:"isAnonymous"`
	Reporter       Reporter           `bson:"reporter" json:"reporter"`
	Image          *string            `bson:"image" json:"image"`
	Priority       Priority           `bson:"priority" json:"priority"`
	Status         Status             `bson:"status" json:"status"`
	IsSOS          bool               `bson:"is_sos" json:"isSOS"`
	ModeratorNotes *string            `bson:"moderator_notes" json:"moderatorNotes"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`

	// Distance is set only on radius-filtered list results, in km.
	Distance *float64 `bson:"-" json:"distance,omitempty"`
}

// Clone returns a deep copy so the result can outlive the request that
// produced it.
func (i *Incident) Clone() Incident {
	out := *i
	if i.Reporter.Contact != nil {
		v := *i.Reporter.Contact
		out.Reporter.Contact = &v
	}
	if i.Image != nil {
		v := *i.Image
		out.Image = &v
	}
	if i.ModeratorNotes != nil {
		v := *i.ModeratorNotes
		out.ModeratorNotes = &v
	}
	if i.Distance != nil {
		v := *i.Distance
		out.Distance = &v
	}
	return out
}
